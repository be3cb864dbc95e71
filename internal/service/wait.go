package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/samandr77/microservices/swish/internal/entity"
)

type PaymentRequestGetter interface {
	PaymentRequest(ctx context.Context, location string) (entity.PaymentRequestState, error)
}

var errNotTerminal = errors.New("payment request is not terminal yet")

// NewBackoff doubles the delay from interval up to maxInterval.
func NewBackoff(interval, maxInterval time.Duration) retry.Backoff {
	return retry.WithCappedDuration(maxInterval, retry.NewExponential(interval))
}

// WaitForTerminal polls location until Swish reports a terminal status.
// Connectivity failures are retried with the backoff, any other error stops the wait.
// The last snapshot seen is returned with the error when ctx expires first.
func WaitForTerminal(
	ctx context.Context,
	c PaymentRequestGetter,
	location string,
	b retry.Backoff,
) (entity.PaymentRequestState, error) {
	var last entity.PaymentRequestState

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		state, err := c.PaymentRequest(ctx, location)
		if err != nil {
			if errors.Is(err, entity.ErrConnectivity) && ctx.Err() == nil {
				return retry.RetryableError(err)
			}

			return err
		}

		last = state

		if !state.IsTerminal() {
			return retry.RetryableError(errNotTerminal)
		}

		return nil
	})
	if err != nil {
		return last, fmt.Errorf("wait for payment request: %w", err)
	}

	return last, nil
}
