package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/google/uuid"
)

const pdfContentType = "application/pdf"

// UploadInvoicePDF stores body under a fresh opaque key and replaces any previous document.
func (s *invoiceService) UploadInvoicePDF(ctx context.Context, scope domain.Scope, invoiceID string, body io.Reader, contentType string) (*domain.Invoice, error) {
	if s.storage == nil {
		return nil, errStorageNotConfigured
	}
	if mediaType(contentType) != pdfContentType {
		return nil, apperrors.NewValidationFailedError("Only PDF files can be attached to invoices")
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}

	key, err := utils.BuildObjectKey("invoices", scope.Key(), inv.InvoiceID, uuid.NewString()+".pdf")
	if err != nil {
		return nil, err
	}
	obj, err := s.storage.Upload(ctx, key, body, pdfContentType)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, apperrors.NewDependencyError("Failed to upload file", err)
	}
	if err := s.invoiceRepo.SetInvoicePDF(ctx, scope, inv.InvoiceID, obj.Key); err != nil {
		s.LogError(ctx, err, "Failed to save invoice PDF key", slog.String("invoice_id", invoiceID))
		deleteObjectQuietly(ctx, s.storage, obj.Key)
		return nil, err
	}

	if inv.PDFKey != nil && *inv.PDFKey != obj.Key {
		deleteObjectQuietly(ctx, s.storage, *inv.PDFKey)
	}
	inv.PDFKey = &obj.Key
	s.LogInfo(ctx, "Invoice PDF uploaded", slog.String("invoice_id", invoiceID), slog.String("location", obj.Location))
	return inv, nil
}

func (s *invoiceService) GetInvoicePDFLink(ctx context.Context, scope domain.Scope, invoiceID string, action string) (*dto.FileLinkResponse, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, scope, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.PDFKey == nil || *inv.PDFKey == "" {
		return nil, apperrors.NewNotFoundError("Invoice has no PDF")
	}
	return fileLink(ctx, s.storage, *inv.PDFKey, s.signedURLTTL, action, inv.InvoiceNumber+".pdf")
}
