// Package bootstrap builds the process-wide pieces shared by the API server and the sweep job.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/finorn_backend/internal/adapters/billing"
	"github.com/SscSPs/finorn_backend/internal/adapters/lock"
	"github.com/SscSPs/finorn_backend/internal/adapters/mailer"
	"github.com/SscSPs/finorn_backend/internal/adapters/storage"
	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/SscSPs/finorn_backend/internal/utils"
)

// NewLogger returns a JSON slog logger at the configured level and installs it as the default.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// Adapters holds the external collaborators and how to release them.
type Adapters struct {
	Collaborators services.Collaborators
	Posthog       *utils.PosthogClientWrapper
	closers       []func() error
}

// Close releases every adapter, returning the joined errors.
func (a *Adapters) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewAdapters connects the collaborators that are configured. Unconfigured ones are left nil and
// the services report them as unavailable; configured ones that fail to connect are an error.
func NewAdapters(ctx context.Context, cfg *config.Config, linkBuilder *links.Builder, logger *slog.Logger) (*Adapters, error) {
	a := &Adapters{}

	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			return nil, a.fail(fmt.Errorf("gcs storage: %w", err))
		}
		a.Collaborators.Storage = gcs
		a.closers = append(a.closers, gcs.Close)
	}

	if cfg.PubSubProjectID != "" {
		pub, err := mailer.NewPubSubMailer(ctx, cfg.PubSubProjectID, cfg.PubSubEmailTopic, cfg.EmailFrom, cfg.GCSCredentialsJSON)
		if err != nil {
			return nil, a.fail(fmt.Errorf("pubsub mailer: %w", err))
		}
		a.Collaborators.Mailer = pub
		a.closers = append(a.closers, pub.Close)
	} else {
		a.Collaborators.Mailer = mailer.NewLogMailer(logger, cfg.EmailFrom)
	}

	if cfg.RedisAddr != "" {
		locker, err := lock.NewRedisLocker(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, a.fail(fmt.Errorf("redis locker: %w", err))
		}
		a.Collaborators.Locker = locker
		a.closers = append(a.closers, locker.Close)
	}

	if cfg.BillingWebhookSecret != "" {
		a.Collaborators.WebhookVerifier = billing.NewHMACVerifier(cfg.BillingWebhookSecret, billing.DefaultTolerance)
		if cfg.BillingCheckoutURL != "" {
			checkout, err := billing.NewHostedCheckout(cfg.BillingCheckoutURL, cfg.BillingWebhookSecret)
			if err != nil {
				return nil, a.fail(err)
			}
			a.Collaborators.Checkout = checkout
		}
	}

	a.Posthog = utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	a.Collaborators.Tracker = a.Posthog
	a.closers = append(a.closers, func() error {
		a.Posthog.Close()
		return nil
	})

	a.Collaborators.Google = services.NewGoogleOAuthProvider(cfg, linkBuilder)

	return a, nil
}

func (a *Adapters) fail(err error) error {
	if cerr := a.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}
