package services

import (
	"context"
	"time"

	"github.com/SscSPs/finorn_backend/internal/dto"
)

// ExpirySweepSvc runs the periodic contract expiry sweep. Every step is idempotent, so
// overlapping or repeated runs do not duplicate reminders or renewals.
type ExpirySweepSvc interface {
	RunSweep(ctx context.Context, now time.Time) (*dto.SweepResult, error)
}
