package services

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/SscSPs/finorn_backend/internal/utils"
)

const (
	FileActionView     = "view"
	FileActionDownload = "download"
)

var errStorageNotConfigured = apperrors.NewAppError(http.StatusServiceUnavailable, "File storage is not configured", apperrors.ErrDependency)

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// fileLink resolves a stored key to a short-lived URL. The key is checked before the storage is
// asked for anything, so a persisted provider URL is never handed back to the caller.
func fileLink(ctx context.Context, storage portssvc.FileStorage, key string, ttl time.Duration, action, filename string) (*dto.FileLinkResponse, error) {
	if storage == nil {
		return nil, errStorageNotConfigured
	}
	if action == "" {
		action = FileActionView
	}
	if action != FileActionView && action != FileActionDownload {
		return nil, apperrors.NewValidationFailedError("action must be view or download")
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	if err := utils.ValidateObjectKey(key); err != nil {
		logger.Error("Stored file reference is not an object key", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "Stored file reference is invalid", err)
	}

	exists, err := storage.Exists(ctx, key)
	if err != nil {
		return nil, apperrors.NewDependencyError("Failed to check file in storage", err)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("File not found in storage")
	}

	var (
		url         string
		disposition string
	)
	if action == FileActionDownload {
		url, err = storage.PresignedURL(ctx, key, ttl, filename)
		disposition = "attachment"
	} else {
		url, err = storage.StreamingURL(ctx, key, ttl)
		disposition = "inline"
	}
	if err != nil {
		return nil, apperrors.NewDependencyError("Failed to generate file URL", err)
	}
	return &dto.FileLinkResponse{
		URL:         url,
		ExpiresIn:   int(ttl.Seconds()),
		Disposition: disposition,
	}, nil
}

// deleteObjectQuietly removes a replaced or orphaned object. Failures are logged only.
func deleteObjectQuietly(ctx context.Context, storage portssvc.FileStorage, key string) {
	if storage == nil || key == "" {
		return
	}
	if err := utils.ValidateObjectKey(key); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Skipping delete of invalid file reference", slog.String("error", err.Error()))
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to delete stored object",
			slog.String("error", err.Error()), slog.String("key", key))
	}
}
