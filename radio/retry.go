package radio

import (
	"context"
	"time"

	"loratx-go/errcode"
)

// RetryPolicy bounds hardware detection. MaxAttempts 0 retries forever.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetry never gives up and waits one second between attempts.
func DefaultRetry() RetryPolicy { return RetryPolicy{Backoff: time.Second} }

func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// Wait sleeps for the backoff or until ctx ends.
func (p RetryPolicy) Wait(ctx context.Context) error {
	if p.Backoff <= 0 {
		return ctxErr(ctx)
	}
	t := time.NewTimer(p.Backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctxErr(ctx)
	case <-t.C:
		return nil
	}
}

func ctxErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return errcode.Wrap(errcode.Timeout, "radio", ctx.Err())
	default:
		return errcode.Wrap(errcode.Canceled, "radio", ctx.Err())
	}
}
