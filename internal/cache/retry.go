package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/flashcards-backend/internal/domain"
)

// retryRemote runs fn with exponential backoff. Only transient failures are
// retried; everything else fails on the first attempt. The returned error is
// always a *domain.RemoteError.
func (m *Manager) retryRemote(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.cfg.Backoff.Initial
	b.MaxInterval = m.cfg.Backoff.Max
	b.MaxElapsedTime = 0
	b.Reset()

	retries := m.cfg.Backoff.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if domain.ClassifyRemote(err) != domain.RemoteCodeTransient {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		m.log.WarnContext(ctx, "remote call failed, retrying",
			slog.String("account_id", m.accountID),
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()),
		)
	})
	if err != nil {
		return domain.NewRemoteError(op, err)
	}
	return nil
}
