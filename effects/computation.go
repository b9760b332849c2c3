package effects

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_algebra_go/effects/internal/coro"
)

// Computation is a restartable unit of control flow. Y is the type of effect
// requests it yields, R the composite result type carried by its mailbox, and
// Out its completion value.
//
// A computation holds exactly one outstanding suspension at a time. Wrapping
// it with a handler layer or a scheduler consumes it: the wrapped value keeps
// driving it internally, and resuming the consumed computation directly is a
// contract violation.
type Computation[Y, R, Out any] struct {
	ComputationId string

	mb       *Mailbox[R]
	resume   func() (Y, Out, bool, error)
	discard  func()
	out      Out
	done     bool
	failed   bool
	consumed bool
	running  bool
}

// New creates a root computation with a fresh mailbox.
//
// The builder receives the computation's mailbox and a yield function. Each
// call to yield suspends the computation with one effect request; the matching
// result is read from the mailbox after the next resume. The builder's return
// value becomes the computation's output.
func New[Y, R, Out any](build func(mb *Mailbox[R], yield func(Y)) Out) *Computation[Y, R, Out] {
	return NewWith(NewMailbox[R](), build)
}

// NewWith creates a root computation around an existing mailbox. This is the
// entry point for collaborator code that must share one mailbox between
// computations, e.g. task constructors handed the root's mailbox by the
// scheduler.
func NewWith[Y, R, Out any](mb *Mailbox[R], build func(mb *Mailbox[R], yield func(Y)) Out) *Computation[Y, R, Out] {
	logger, _ := zap.NewProduction()
	co := coro.New(func(yield func(Y)) Out {
		return build(mb, yield)
	})
	c := &Computation[Y, R, Out]{
		ComputationId: uuid.New().String(),
		mb:            mb,
		resume: func() (Y, Out, bool, error) {
			req, out, done := co.Resume()
			return req, out, done, nil
		},
		discard: co.Discard,
	}
	logger.Sugar().Debugf("created computation: computationId: %v", c.ComputationId)
	return c
}

// derive wraps inner with a new resume step, reusing its mailbox. The inner
// computation must already be consumed by the caller.
func derive[Y2, Y, R, Out any](
	inner *Computation[Y, R, Out],
	resume func() (Y2, Out, bool, error),
	discard func(),
) *Computation[Y2, R, Out] {
	return &Computation[Y2, R, Out]{
		ComputationId: uuid.New().String(),
		mb:            inner.mb,
		resume:        resume,
		discard:       discard,
	}
}

// Resume advances the computation by one step. It returns the next pending
// request (done == false), or reports completion (done == true) with the
// output available via Output. A non-nil error means a handler layer failed;
// the run is over and the error is returned as-is, uncaught and unwrapped.
//
// Resume panics on contract violations: resuming after completion, after a
// failure, after Discard, resuming a computation consumed by a wrapping
// layer, or resuming reentrantly — a handler calling Resume on the layer
// that invoked it would advance the body past a request it is still
// answering.
func (c *Computation[Y, R, Out]) Resume() (req Y, done bool, err error) {
	c.ensureUsable()
	c.running = true
	defer func() { c.running = false }()
	var out Out
	req, out, done, err = c.resume()
	if err != nil {
		c.failed = true
		return req, false, err
	}
	if done {
		c.done = true
		c.out = out
	}
	return req, done, nil
}

// Done reports whether the computation has completed.
func (c *Computation[Y, R, Out]) Done() bool {
	return c.done
}

// Output returns the completion value. It panics if the computation has not
// completed.
func (c *Computation[Y, R, Out]) Output() Out {
	if !c.done {
		panic("effects: output of an incomplete computation")
	}
	return c.out
}

// Mailbox returns the mailbox shared by this computation and every layer
// wrapped around it.
func (c *Computation[Y, R, Out]) Mailbox() *Mailbox[R] {
	return c.mb
}

// Discard releases a computation that will not be driven to completion,
// unwinding its coroutine and those of any layers and tasks beneath it.
// Discarding a completed computation is a no-op.
func (c *Computation[Y, R, Out]) Discard() {
	if c.running {
		panic("effects: discard during resume")
	}
	if c.consumed {
		panic("effects: discard of a consumed computation")
	}
	if c.done {
		return
	}
	c.discard()
}

// consume marks the computation as moved into a wrapping layer.
func (c *Computation[Y, R, Out]) consume() {
	if c.consumed {
		panic("effects: computation already consumed by another layer")
	}
	c.consumed = true
}

func (c *Computation[Y, R, Out]) ensureUsable() {
	switch {
	case c.running:
		panic("effects: reentrant resume")
	case c.consumed:
		panic("effects: resume of a consumed computation")
	case c.done:
		panic("effects: resume after completion")
	case c.failed:
		panic("effects: resume after handler failure")
	}
}

// Run drives a fully handled computation to completion in one call. The
// request type Never is uninhabited, so a yield can only mean a broken static
// guarantee; Run fails loudly with a panic if one surfaces anyway. A handler
// failure below terminates the run and is returned as-is.
func Run[R, Out any](c *Computation[Never, R, Out]) (Out, error) {
	for {
		_, done, err := c.Resume()
		if err != nil {
			var zero Out
			return zero, err
		}
		if done {
			return c.out, nil
		}
		panic("effects: handled computation yielded a request")
	}
}

// AssertHandled seals a computation whose remaining request kinds are known to
// be impossible at runtime even though the type does not show it, such as a
// spawn kind already consumed by a scheduler layer. The returned computation
// has the uninhabited request type and can be driven with Run. If a request
// surfaces anyway the assertion was wrong and resume panics with the request.
func AssertHandled[Y, R, Out any](c *Computation[Y, R, Out]) *Computation[Never, R, Out] {
	c.consume()
	resume := func() (Never, Out, bool, error) {
		req, out, done, err := c.resume()
		if err != nil || done {
			return Never{}, out, done, err
		}
		panic(fmt.Sprintf("effects: request asserted handled surfaced anyway: %+v", req))
	}
	return derive(c, resume, c.discard)
}

// Perform yields one request and takes the matching composite result from the
// mailbox. ok is false when no handler stored a result before the resume.
func Perform[Y, R any](mb *Mailbox[R], yield func(Y), req Y) (R, bool) {
	yield(req)
	return mb.Take()
}
