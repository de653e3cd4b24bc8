package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/finorn_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
)

const defaultExpensePageLimit = 50

// receiptExtensions lists the accepted receipt media types.
var receiptExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// expenseService implements the ExpenseSvcFacade interface
type expenseService struct {
	BaseService
	expenseRepo  portsrepo.ExpenseRepositoryFacade
	storage      portssvc.FileStorage
	signedURLTTL time.Duration
	now          func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(base BaseService, expenseRepo portsrepo.ExpenseRepositoryFacade, storage portssvc.FileStorage, signedURLTTL time.Duration) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService:  base,
		expenseRepo:  expenseRepo,
		storage:      storage,
		signedURLTTL: signedURLTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func expenseNotificationData(e *domain.Expense) map[string]any {
	return map[string]any{
		"expenseId": e.ExpenseID,
		"amount":    e.Amount.StringFixed(2),
		"currency":  e.Currency,
		"category":  e.Category,
	}
}

func (s *expenseService) CreateExpense(ctx context.Context, scope domain.Scope, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("amount must be greater than zero")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperrors.NewValidationFailedError("category is required")
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Category:       category,
		Description:    req.Description,
		Vendor:         strings.TrimSpace(req.Vendor),
		Amount:         req.Amount,
		Currency:       defaultInvoiceCurrency,
		ExpenseDate:    now,
		AuditFields:    domain.NewAuditFields(scope.UserID, now),
	}
	if req.Currency != "" {
		expense.Currency = strings.ToUpper(req.Currency)
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if scope.IsOrganization() {
		pending := domain.ExpensePending
		expense.ApprovalStatus = &pending
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense created successfully", slog.String("expense_id", expense.ExpenseID))
	s.Notify(ctx, scopeNotification(scope, domain.NotificationExpenseCreated, expenseNotificationData(&expense)))
	s.Track(scope, "expense_created", map[string]any{"category": expense.Category})
	return &expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, scope domain.Scope, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
}

func (s *expenseService) ListExpenses(ctx context.Context, scope domain.Scope, params dto.ListExpensesParams) ([]domain.Expense, error) {
	filter := portsrepo.ExpenseFilter{
		Category: params.Category,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultExpensePageLimit
	}
	if params.ApprovalStatus != nil && *params.ApprovalStatus != "" {
		status := domain.ExpenseApprovalStatus(*params.ApprovalStatus)
		filter.ApprovalStatus = &status
	}
	expenses, err := s.expenseRepo.ListExpenses(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

// authorizeExpenseChange lets the creator, or an organization admin, modify an expense.
func (s *expenseService) authorizeExpenseChange(ctx context.Context, scope domain.Scope, expense *domain.Expense, action string) error {
	if expense.UserID == scope.UserID {
		return nil
	}
	return s.AuthorizeRole(ctx, scope, domain.RoleAdmin, action+" expenses of other members")
}

func (s *expenseService) UpdateExpense(ctx context.Context, scope domain.Scope, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeExpenseChange(ctx, scope, expense, "edit"); err != nil {
		return nil, err
	}
	if expense.ApprovalStatus != nil && !expense.NeedsApproval() {
		return nil, apperrors.NewConflictError("Expenses with an approval decision cannot be edited")
	}

	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, apperrors.NewValidationFailedError("category is required")
		}
		expense.Category = category
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Vendor != nil {
		expense.Vendor = strings.TrimSpace(*req.Vendor)
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationFailedError("amount must be greater than zero")
		}
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		expense.Currency = strings.ToUpper(*req.Currency)
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	expense.Touch(scope.UserID, s.now())

	if err := s.expenseRepo.UpdateExpense(ctx, scope, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, scope domain.Scope, expenseID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
	if err != nil {
		return err
	}
	if err := s.authorizeExpenseChange(ctx, scope, expense, "delete"); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, scope, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return err
	}
	if expense.ReceiptKey != nil {
		deleteObjectQuietly(ctx, s.storage, *expense.ReceiptKey)
	}
	return nil
}

// DecideExpense records an approval decision on a pending organization expense and notifies its creator.
func (s *expenseService) DecideExpense(ctx context.Context, scope domain.Scope, expenseID string, req dto.ExpenseApprovalRequest) (*domain.Expense, error) {
	if !scope.IsOrganization() {
		return nil, apperrors.NewValidationFailedError("Individual expenses do not require approval")
	}
	if err := s.AuthorizeRole(ctx, scope, domain.RoleAdmin, "approve expenses"); err != nil {
		return nil, err
	}
	decision := domain.ExpenseApprovalStatus(req.Decision)
	if decision != domain.ExpenseApproved && decision != domain.ExpenseRejected {
		return nil, apperrors.NewValidationFailedError("decision must be approved or rejected")
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.NeedsApproval() {
		return nil, apperrors.NewConflictError("Expense is not pending approval")
	}

	now := s.now()
	expense.ApprovalStatus = &decision
	expense.ApprovedBy = &scope.UserID
	expense.ApprovedAt = &now
	if note := strings.TrimSpace(req.Note); note != "" {
		expense.ApprovalNote = &note
	}
	expense.Touch(scope.UserID, now)

	if err := s.expenseRepo.UpdateExpense(ctx, scope, *expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense decision", slog.String("expense_id", expenseID))
		return nil, err
	}

	notification := domain.NotificationExpenseApproved
	if decision == domain.ExpenseRejected {
		notification = domain.NotificationExpenseRejected
	}
	s.Notify(ctx, portssvc.NotifyParams{
		UserID:         expense.UserID,
		OrganizationID: expense.OrganizationID,
		Type:           notification,
		Data:           expenseNotificationData(expense),
		Channels:       []domain.NotificationChannel{domain.ChannelInApp, domain.ChannelEmail},
	})
	s.LogInfo(ctx, "Expense decision recorded",
		slog.String("expense_id", expenseID),
		slog.String("decision", string(decision)))
	return expense, nil
}

func (s *expenseService) UploadReceipt(ctx context.Context, scope domain.Scope, expenseID string, body io.Reader, contentType string) (*domain.Expense, error) {
	if s.storage == nil {
		return nil, errStorageNotConfigured
	}
	mt := mediaType(contentType)
	ext, ok := receiptExtensions[mt]
	if !ok {
		return nil, apperrors.NewValidationFailedError("Receipts must be JPEG, PNG, WebP or PDF files")
	}
	expense, err := s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeExpenseChange(ctx, scope, expense, "attach receipts to"); err != nil {
		return nil, err
	}

	key, err := utils.BuildObjectKey("expenses", scope.Key(), expense.ExpenseID, uuid.NewString()+ext)
	if err != nil {
		return nil, err
	}
	obj, err := s.storage.Upload(ctx, key, body, mt)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload receipt", slog.String("expense_id", expenseID))
		return nil, apperrors.NewDependencyError("Failed to upload file", err)
	}

	oldKey := expense.ReceiptKey
	expense.ReceiptKey = &obj.Key
	expense.Touch(scope.UserID, s.now())
	if err := s.expenseRepo.UpdateExpense(ctx, scope, *expense); err != nil {
		s.LogError(ctx, err, "Failed to save receipt key", slog.String("expense_id", expenseID))
		deleteObjectQuietly(ctx, s.storage, obj.Key)
		return nil, err
	}
	if oldKey != nil && *oldKey != obj.Key {
		deleteObjectQuietly(ctx, s.storage, *oldKey)
	}
	return expense, nil
}

func (s *expenseService) GetReceiptLink(ctx context.Context, scope domain.Scope, expenseID string, action string) (*dto.FileLinkResponse, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, scope, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptKey == nil || *expense.ReceiptKey == "" {
		return nil, apperrors.NewNotFoundError("Expense has no receipt")
	}
	filename := "receipt-" + expense.ExpenseID
	if i := strings.LastIndex(*expense.ReceiptKey, "."); i >= 0 {
		filename += (*expense.ReceiptKey)[i:]
	}
	return fileLink(ctx, s.storage, *expense.ReceiptKey, s.signedURLTTL, action, filename)
}
