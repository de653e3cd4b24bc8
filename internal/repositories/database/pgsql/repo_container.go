package pgsql

import (
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		ClientRepo:       newPgxClientRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		ContractRepo:     newPgxContractRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		BillingRepo:      newPgxBillingRepository(dbPool),
	}
}
