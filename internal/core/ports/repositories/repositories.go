package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
	ClientRepo       ClientRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	ContractRepo     ContractRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	BillingRepo      BillingRepositoryFacade
}
