package services

// ServiceContainer holds instances of all the application services.
// It is built once at startup and handed to the handlers.
type ServiceContainer struct {
	Auth         AuthSvcFacade
	Organization OrganizationSvcFacade
	Tenancy      TenancySvc
	Client       ClientSvcFacade
	Invoice      InvoiceSvcFacade
	Contract     ContractSvcFacade
	Expense      ExpenseSvcFacade
	PublicView   PublicViewSvc
	Notification NotificationSvcFacade
	Sweep        ExpirySweepSvc
	Billing      BillingSvcFacade
	Export       ExportSvc
}
