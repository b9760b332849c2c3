// Package retry provides a handler decorator that retries transient
// failures with exponential backoff.
//
// The runtime core never retries: a handler error terminates the run. All
// resilience policy lives in handler space, and this decorator is that
// policy for handlers whose failures are worth retrying — flaky connections,
// not-ready external resources.
package retry

import (
	"errors"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/on-the-ground/effect_algebra_go/effects"
)

// Wrap decorates h so each request is attempted up to maxTries times, with
// backoff growing from initialDelay to maxDelay between attempts.
//
// A decline is an outcome, not a failure: ErrDecline stops the attempts
// immediately and propagates, so an outer layer can recover it.
func Wrap[I, O any](
	h effects.Handler[I, O],
	maxTries int,
	initialDelay, maxDelay time.Duration,
) effects.Handler[I, O] {
	return effects.HandlerFunc[I, O](func(req I) (O, error) {
		var res O
		retrier := retry.NewRetrier(maxTries, initialDelay, maxDelay)
		err := retrier.Run(func() error {
			var herr error
			res, herr = h.Handle(req)
			if errors.Is(herr, effects.ErrDecline) {
				return retry.Stop(herr)
			}
			return herr
		})
		return res, err
	})
}
