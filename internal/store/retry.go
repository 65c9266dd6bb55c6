package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"

	"whatsweb/internal/constants"
)

// withRetry runs op until it succeeds, fails with a non-retryable error or
// runs out of attempts.
func (s *Store) withRetry(ctx context.Context, operation string, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Duration(constants.DefaultStoreRetryBackoffMs) * time.Millisecond
	policy.MaxInterval = time.Duration(constants.DefaultStoreMaxBackoffMs) * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op()
		if err != nil && !isRetryableDBError(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(constants.DefaultStoreRetryAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"operation": operation,
				"retry":     next.String(),
			}).Warn("Store operation failed, retrying")
		}),
	)
	return err
}

func isRetryableDBError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()
	for _, transient := range []string{"database is locked", "database table is locked", "disk I/O error"} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}
