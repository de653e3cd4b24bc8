package handlers

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 10 << 20

// openUpload returns the multipart "file" part. The caller closes the returned file.
func openUpload(c *gin.Context, logger *slog.Logger) (multipart.File, string, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)
	header, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Missing upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A file is required in the 'file' field"})
		return nil, "", false
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "File exceeds the 10 MB limit"})
		return nil, "", false
	}
	f, err := header.Open()
	if err != nil {
		logger.Error("Failed to open upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Could not read uploaded file"})
		return nil, "", false
	}
	return f, header.Header.Get("Content-Type"), true
}

