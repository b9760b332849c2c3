package coro

import (
	"runtime/debug"

	"go.uber.org/atomic"
)

const (
	stateCreated int32 = iota
	stateRunning
	stateSuspended
	stateDone
	stateDiscarded
)

// Coroutine is a restartable execution of a body function, built on a paired
// goroutine with channel hand-off. Exactly one side runs at a time: the
// resumer blocks while the body runs, and the body blocks at each yield until
// the resumer calls Resume again. The pairing keeps the whole construct on a
// single logical thread of control even though a goroutine backs it.
//
// A coroutine starts lazily on the first Resume, so a created-but-never-resumed
// coroutine holds no goroutine.
type Coroutine[Y, Out any] struct {
	body        func(yield func(Y)) Out
	stepCh      chan step[Y, Out]
	resumeCh    chan resumeMsg
	discardDone chan struct{}
	state       atomic.Int32
}

type step[Y, Out any] struct {
	req  Y
	out  Out
	done bool
	pan  *PanicError
}

type resumeMsg struct {
	discard bool
}

// discardSignal is panicked inside the body goroutine to unwind it when the
// coroutine is discarded. It never escapes this package.
type discardSignal struct{}

// New creates a coroutine around body. The body receives a yield function;
// each call to yield suspends the body until the next Resume.
func New[Y, Out any](body func(yield func(Y)) Out) *Coroutine[Y, Out] {
	return &Coroutine[Y, Out]{
		body:        body,
		stepCh:      make(chan step[Y, Out]),
		resumeCh:    make(chan resumeMsg),
		discardDone: make(chan struct{}),
	}
}

// Resume advances the coroutine to its next suspension point or to completion.
// It returns the yielded value (done == false) or the body's return value
// (done == true).
//
// Resume panics on contract violations: resuming after completion, after
// Discard, or from two call sites at once. If the body panicked, Resume
// re-panics with a *PanicError carrying the original value and stack.
func (c *Coroutine[Y, Out]) Resume() (req Y, out Out, done bool) {
	switch {
	case c.state.CompareAndSwap(stateCreated, stateRunning):
		c.start()
	case c.state.CompareAndSwap(stateSuspended, stateRunning):
		c.resumeCh <- resumeMsg{}
	default:
		switch c.state.Load() {
		case stateDone:
			panic("coro: resumed after completion")
		case stateDiscarded:
			panic("coro: resumed after discard")
		default:
			panic("coro: concurrent resume")
		}
	}

	st := <-c.stepCh
	switch {
	case st.pan != nil:
		c.state.Store(stateDone)
		panic(st.pan)
	case st.done:
		c.state.Store(stateDone)
		return req, st.out, true
	default:
		c.state.Store(stateSuspended)
		return st.req, out, false
	}
}

// Discard releases a coroutine that will not be driven to completion,
// unwinding and terminating its goroutine; the body's deferred cleanups run
// before Discard returns. Discarding a completed or already-discarded
// coroutine is a no-op. Discard must not race with Resume.
func (c *Coroutine[Y, Out]) Discard() {
	switch {
	case c.state.CompareAndSwap(stateCreated, stateDiscarded):
		// Never started; there is no goroutine to unwind.
	case c.state.CompareAndSwap(stateSuspended, stateDiscarded):
		c.resumeCh <- resumeMsg{discard: true}
		<-c.discardDone
	default:
		if c.state.Load() == stateRunning {
			panic("coro: discard during resume")
		}
	}
}

// Done reports whether the coroutine has completed.
func (c *Coroutine[Y, Out]) Done() bool {
	return c.state.Load() == stateDone
}

func (c *Coroutine[Y, Out]) start() {
	go func() {
		var st step[Y, Out]
		discarded := false
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(discardSignal); ok {
						discarded = true
						return
					}
					st = step[Y, Out]{pan: &PanicError{Value: r, Stack: debug.Stack()}}
				}
			}()
			out := c.body(c.yield)
			st = step[Y, Out]{out: out, done: true}
		}()
		if discarded {
			close(c.discardDone)
			return
		}
		c.stepCh <- st
	}()
}

// yield hands one value to the resumer and blocks until resumed or discarded.
func (c *Coroutine[Y, Out]) yield(req Y) {
	c.stepCh <- step[Y, Out]{req: req}
	if msg := <-c.resumeCh; msg.discard {
		panic(discardSignal{})
	}
}
