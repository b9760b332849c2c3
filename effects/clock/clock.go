// Package clock provides a time-observation effect kind with a real-time
// handler and a fixed-time handler for tests.
//
// The runtime itself has no notion of time; a computation that needs "now"
// yields a [Request] and lets the attached handler decide what now means.
package clock

import (
	"time"

	"github.com/rickb777/date/v2/timespan"

	"github.com/on-the-ground/effect_algebra_go/effects"
)

// Request asks the clock handler for the current time.
type Request struct{}

// Observation is the result of the clock effect kind. Span bounds the
// observation: the instant lies somewhere inside it.
type Observation struct {
	Span timespan.TimeSpan
}

// Instant returns the start of the observation window.
func (o Observation) Instant() time.Time {
	return o.Span.Start()
}

const epsilon = time.Millisecond

// NewSystemHandler returns a handler observing the system clock. Each
// observation spans now ± epsilon, acknowledging that reading a clock is
// itself not instantaneous.
func NewSystemHandler() effects.Handler[Request, Observation] {
	return effects.HandlerFunc[Request, Observation](func(Request) (Observation, error) {
		now := time.Now()
		return Observation{
			Span: timespan.BetweenTimes(now.Add(-1*epsilon), now.Add(epsilon)),
		}, nil
	})
}

// NewFixedHandler returns a handler that always observes t. Deterministic;
// meant for tests.
func NewFixedHandler(t time.Time) effects.Handler[Request, Observation] {
	return effects.HandlerFunc[Request, Observation](func(Request) (Observation, error) {
		return Observation{Span: timespan.BetweenTimes(t, t)}, nil
	})
}
