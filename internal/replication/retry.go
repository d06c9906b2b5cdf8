package replication

import (
	"context"
	"math"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/luiz-simples/replikv.git/internal/logger"
)

// ErrRetryable marks failures worth another attempt.
var ErrRetryable = pkgerrors.New("retryable replication error")

type Retryer struct {
	retryFunc    func(ctx context.Context) error
	interval     time.Duration
	maxInterval  time.Duration
	backoffCoeff int
	attempt      int
}

func NewRetryer(retryFunc func(ctx context.Context) error, interval, maxInterval time.Duration, backoffCoeff int) *Retryer {
	return &Retryer{
		retryFunc:    retryFunc,
		interval:     interval,
		maxInterval:  maxInterval,
		backoffCoeff: backoffCoeff,
	}
}

// Run retries until retryFunc succeeds, fails with a non-retryable error
// or ctx is canceled.
func (retryer *Retryer) Run(ctx context.Context) error {
	retryer.Reset()

	for {
		if err := ctx.Err(); hasError(err) {
			return err
		}

		err := retryer.retryFunc(ctx)
		if noError(err) {
			return nil
		}

		if !pkgerrors.Is(err, ErrRetryable) {
			logger.Warn("caught a non-retryable error", "error", err)
			return err
		}

		interval := retryer.Backoff()
		retryer.attempt++
		logger.Warn("caught a retryable error", "retry_in", interval, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Reset starts the backoff over. retryFunc calls it once it has made
// progress so that a later failure waits the base interval again.
func (retryer *Retryer) Reset() {
	retryer.attempt = 0
}

// Backoff is the wait that follows a failure of the current attempt.
func (retryer *Retryer) Backoff() time.Duration {
	return retryInterval(retryer.interval, retryer.maxInterval, retryer.backoffCoeff, retryer.attempt)
}

func retryInterval(interval, maxInterval time.Duration, backoffCoeff, attempt int) time.Duration {
	coeff := math.Pow(float64(backoffCoeff), float64(attempt))
	next := time.Duration(float64(interval.Milliseconds())*coeff) * time.Millisecond

	if maxInterval > 0 && (next > maxInterval || next <= 0) {
		return maxInterval
	}

	return next
}

func retryable(err error, message string) error {
	return pkgerrors.Wrapf(ErrRetryable, "%s: %v", message, err)
}
