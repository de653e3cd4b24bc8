package mailer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
)

// LogMailer writes emails to the log instead of sending them. Used when no topic is configured.
type LogMailer struct {
	logger *slog.Logger
	from   string
}

var _ portssvc.Mailer = (*LogMailer)(nil)

func NewLogMailer(logger *slog.Logger, from string) *LogMailer {
	return &LogMailer{logger: logger, from: from}
}

func (m *LogMailer) Send(ctx context.Context, msg portssvc.EmailMessage) error {
	if _, err := encodeEnvelope(m.from, msg, time.Now()); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "Email not dispatched, no mail transport configured",
		slog.String("to", strings.Join(msg.To, ",")),
		slog.String("subject", msg.Subject),
		slog.String("template", msg.Template))
	return nil
}
