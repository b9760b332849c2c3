package effects

import (
	"errors"

	"go.uber.org/zap"
)

// ErrDecline is the explicit, typed "not mine" outcome of a handler. It is
// never a failure: a declined request surfaces unchanged as the wrapped
// computation's own yield, recoverable by any outer layer.
var ErrDecline = errors.New("effects: handler declined request")

// Handler performs one effect kind. A handler may hold private state across
// invocations (open connections, caches, counters); that state is opaque to
// the layer that invokes it.
//
// A recoverable failure must be encoded into the handler's result type. Any
// other non-nil error terminates the run: the runtime performs no catching,
// wrapping, or retry.
type Handler[I, O any] interface {
	Handle(req I) (O, error)
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc[I, O any] func(I) (O, error)

func (f HandlerFunc[I, O]) Handle(req I) (O, error) {
	return f(req)
}

// WithHandler wraps c with a handler over its full request sum, consuming c.
//
// Per resume of the returned computation: the inner computation is driven;
// completion propagates unchanged. On a yield, h is invoked synchronously.
// A handled request stores its result in the shared mailbox and the inner
// computation is resumed again without surfacing anything. A declined request
// (ErrDecline) surfaces unchanged. Any other handler error ends the run.
func WithHandler[Y, R, Out any](
	c *Computation[Y, R, Out],
	h Handler[Y, R],
) *Computation[Y, R, Out] {
	logger, _ := zap.NewProduction()
	c.consume()

	resume := func() (Y, Out, bool, error) {
		var zeroY Y
		var zeroOut Out
		for {
			req, out, done, err := c.resume()
			if err != nil || done {
				return req, out, done, err
			}
			res, herr := h.Handle(req)
			if herr != nil {
				if errors.Is(herr, ErrDecline) {
					return req, zeroOut, false, nil
				}
				return zeroY, zeroOut, false, herr
			}
			c.mb.Put(res)
		}
	}
	wrapped := derive(c, resume, c.discard)
	logger.Sugar().Debugf(
		"attached handler: computationId: %v, inner: %v",
		wrapped.ComputationId, c.ComputationId,
	)
	return wrapped
}

// WithSelectHandler wraps c with a handler for the Part slice of its request
// sum, consuming c. The remaining kinds become the yield type of the returned
// computation; attach handlers until the yield type reaches Never, then Run.
//
// Handlers attached through a Select are total for their kind: the Select
// already proved the request is theirs, so ErrDecline from one is a broken
// static guarantee and fails loudly.
func WithSelectHandler[Whole, Part, Rest, PR, R, Out any](
	c *Computation[Whole, R, Out],
	sel Select[Whole, Part, Rest, PR, R],
	h Handler[Part, PR],
) *Computation[Rest, R, Out] {
	logger, _ := zap.NewProduction()
	c.consume()

	resume := func() (Rest, Out, bool, error) {
		var zeroRest Rest
		var zeroOut Out
		for {
			req, out, done, err := c.resume()
			if err != nil || done {
				return zeroRest, out, done, err
			}
			part, rest, isPart := sel.Split(req)
			if !isPart {
				return rest, zeroOut, false, nil
			}
			pr, herr := h.Handle(part)
			if herr != nil {
				if errors.Is(herr, ErrDecline) {
					panic("effects: select handler declined its selected kind")
				}
				return zeroRest, zeroOut, false, herr
			}
			c.mb.Put(sel.Embed(pr))
		}
	}
	wrapped := derive(c, resume, c.discard)
	logger.Sugar().Debugf(
		"attached select handler: computationId: %v, inner: %v",
		wrapped.ComputationId, c.ComputationId,
	)
	return wrapped
}
