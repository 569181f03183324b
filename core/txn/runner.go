package txn

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond
)

// Runner executes units of work against the database, either inside a
// transaction with transient-fault retry or directly for read-only work.
type Runner struct {
	db          *gorm.DB
	log         *zap.Logger
	maxAttempts int
	backoff     time.Duration
	retryable   func(error) bool
}

// Option customizes a Runner.
type Option func(*Runner)

// WithMaxAttempts sets how many times a transaction is attempted before the
// error is surfaced.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithBackoff sets the base delay between attempts; attempt n waits n times
// the base.
func WithBackoff(d time.Duration) Option {
	return func(r *Runner) { r.backoff = d }
}

// WithRetryClassifier replaces the predicate deciding which errors warrant a
// fresh transaction attempt.
func WithRetryClassifier(f func(error) bool) Option {
	return func(r *Runner) {
		if f != nil {
			r.retryable = f
		}
	}
}

// NewRunner creates a Runner with the default transient-error classifier.
func NewRunner(db *gorm.DB, log *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		db:          db,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		retryable:   IsTransient,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTransaction runs work inside a database transaction: commit on nil
// error, rollback otherwise. Transient failures trigger a fresh transaction
// up to the attempt limit; anything else propagates wrapped. Cancellation is
// observed between attempts, not once a commit is in flight.
func (r *Runner) RunInTransaction(ctx context.Context, work func(tx *gorm.DB) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = r.db.WithContext(ctx).Transaction(work)
		if lastErr == nil {
			return nil
		}
		if !r.retryable(lastErr) {
			return fmt.Errorf("transaction failed: %w", lastErr)
		}
		if attempt == r.maxAttempts {
			break
		}

		r.log.Warn("Transient database error, retrying transaction",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}

	return fmt.Errorf("transaction failed after %d attempts: %w", r.maxAttempts, lastErr)
}

// RunDirect runs work on the shared connection without a transaction. Meant
// for reads and single-statement writes that need no atomicity.
func (r *Runner) RunDirect(ctx context.Context, work func(db *gorm.DB) error) error {
	if err := work(r.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("database action failed: %w", err)
	}
	return nil
}

// MySQL server error numbers that indicate a retryable condition.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// IsTransient reports whether err is a connection-level or serialization
// failure worth a fresh transaction attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrLockWaitTimeout || myErr.Number == mysqlErrDeadlock
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
