package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type jobsHandler struct {
	sweepService portssvc.ExpirySweepSvc
}

// registerJobRoutes exposes scheduler triggers guarded by the cron secret.
func registerJobRoutes(r *gin.Engine, cronSecret string, sweepService portssvc.ExpirySweepSvc) {
	h := &jobsHandler{sweepService: sweepService}

	jobs := r.Group("/internal/jobs", middleware.CronSecretMiddleware(cronSecret))
	{
		jobs.POST("/contract-sweep", h.runContractSweep)
	}
}

// runContractSweep godoc
// @Summary Run the contract expiry sweep
// @Description Sends expiry reminders, performs auto-renewals and expires lapsed contracts. Returns skipped=true when another run holds the lock.
// @Tags jobs
// @Produce  json
// @Param   X-Cron-Secret header string true "Scheduler secret"
// @Success 200 {object} dto.SweepResult
// @Failure 401 {object} dto.ErrorResponse "Invalid cron secret"
// @Router /internal/jobs/contract-sweep [post]
func (h *jobsHandler) runContractSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.sweepService.RunSweep(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, logger, err, "run contract sweep")
		return
	}
	logger.Info("Contract sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("renewed", result.Renewed),
		slog.Int("expired", result.Expired),
		slog.Bool("skipped", result.Skipped))
	c.JSON(http.StatusOK, result)
}
