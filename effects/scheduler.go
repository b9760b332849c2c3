package effects

import (
	"github.com/tidwall/btree"
	"go.uber.org/zap"
)

const taskTableDegree = 32

// Spawnable is a spawn descriptor: it names the task it describes with a
// totally ordered, unique key. Poll order within a tick is ascending TaskID,
// which makes interleaving reproducible.
type Spawnable interface {
	TaskID() string
}

// SpawnRequest is the request sum of a computation run under the task
// scheduler: any concrete request classifies itself as either a spawn
// descriptor or an effect request to forward outward untouched.
type SpawnRequest[D any] interface {
	SpawnDescriptor() (D, bool)
}

// TaskYield is one step of a spawned task: either an effect request to
// forward outward, or an output value routed to the root's mailbox.
type TaskYield[Y, R any] struct {
	req      Y
	out      R
	isOutput bool
}

// ForwardYield tags an effect request for forwarding.
func ForwardYield[Y, R any](req Y) TaskYield[Y, R] {
	return TaskYield[Y, R]{req: req}
}

// OutputYield tags a value produced for the root.
func OutputYield[Y, R any](v R) TaskYield[Y, R] {
	return TaskYield[Y, R]{out: v, isOutput: true}
}

// Forward returns the forwarded request, if this step is one.
func (ty TaskYield[Y, R]) Forward() (Y, bool) {
	return ty.req, !ty.isOutput
}

// Output returns the produced value, if this step is one.
func (ty TaskYield[Y, R]) Output() (R, bool) {
	return ty.out, ty.isOutput
}

// WithTaskScheduler runs c together with a dynamically growing and shrinking
// set of spawned sibling tasks on one logical thread, consuming c.
//
// Spawn requests yielded by the root are materialized through makeTask, which
// receives the descriptor and the root's mailbox, and inserted into an
// ordered task table; a duplicate identity replaces (and discards) the live
// entry. Every other root request is forwarded outward untouched. Each tick
// then polls every live task once in ascending TaskID order: a forwarded task
// request surfaces as the scheduler's own yield, interrupting the tick until
// the outer caller resolves it; an output is stored in the root's mailbox,
// where a later-polled task's output overwrites an earlier one; a completed
// task is dropped from the table. The returned computation completes, with
// the root's output, only when the root has completed and the table is empty.
//
// Consecutive spawns are consumed in one go before any polling: a root that
// spawns in an unbounded loop without forwarding or completing starves every
// live task, so spawn bursts should stay bounded per resume.
func WithTaskScheduler[Y SpawnRequest[D], R, Out any, D Spawnable](
	c *Computation[Y, R, Out],
	makeTask func(d D, mb *Mailbox[R]) *Computation[TaskYield[Y, R], R, struct{}],
) *Computation[Y, R, Out] {
	logger, _ := zap.NewProduction()
	c.consume()

	s := &taskScheduler[Y, R, Out, D]{
		logger:   logger.Sugar(),
		root:     c,
		mb:       c.mb,
		makeTask: makeTask,
		table:    btree.NewMap[string, *Computation[TaskYield[Y, R], R, struct{}]](taskTableDegree),
	}
	wrapped := derive(c, s.resume, s.discard)
	s.logger.Debugf(
		"attached task scheduler: computationId: %v, inner: %v",
		wrapped.ComputationId, c.ComputationId,
	)
	return wrapped
}

type taskScheduler[Y SpawnRequest[D], R, Out any, D Spawnable] struct {
	logger   *zap.SugaredLogger
	root     *Computation[Y, R, Out]
	mb       *Mailbox[R]
	makeTask func(D, *Mailbox[R]) *Computation[TaskYield[Y, R], R, struct{}]

	rootDone bool
	out      Out
	table    *btree.Map[string, *Computation[TaskYield[Y, R], R, struct{}]]

	// In-tick suspension point: a forwarded request interrupts the tick, and
	// the next resume continues it where it stopped.
	polling bool
	pending []string
	next    *btree.Map[string, *Computation[TaskYield[Y, R], R, struct{}]]
}

func (s *taskScheduler[Y, R, Out, D]) resume() (Y, Out, bool, error) {
	var zeroY Y
	var zeroOut Out
	for {
		if !s.polling {
			// Step 1: drive the root, consuming consecutive spawns, until it
			// forwards, completes, or the tick moves on to polling.
			for !s.rootDone {
				req, out, done, err := s.root.resume()
				if err != nil {
					return zeroY, zeroOut, false, err
				}
				if done {
					s.rootDone = true
					s.out = out
					s.logger.Debugf("root completed: computationId: %v", s.root.ComputationId)
					break
				}
				if d, ok := req.SpawnDescriptor(); ok {
					s.insert(d)
					continue
				}
				// Surfaces before any sub-task is polled this round.
				s.beginPoll()
				return req, zeroOut, false, nil
			}
			s.beginPoll()
		}

		// Step 2: poll every live task exactly once, ascending TaskID,
		// building a fresh replacement table.
		for len(s.pending) > 0 {
			id := s.pending[0]
			t, ok := s.table.Get(id)
			if !ok {
				s.pending = s.pending[1:]
				continue
			}
			ty, _, done, err := t.resume()
			if err != nil {
				return zeroY, zeroOut, false, err
			}
			s.pending = s.pending[1:]
			if done {
				s.logger.Debugf("task completed: taskId: %v", id)
				continue
			}
			s.next.Set(id, t)
			if v, isOutput := ty.Output(); isOutput {
				if !s.rootDone {
					s.mb.Put(v)
				}
				continue
			}
			req, _ := ty.Forward()
			return req, zeroOut, false, nil
		}

		// Steps 3 and 4: swap in the rebuilt table, terminate only when the
		// root is dead and no task remains.
		s.table = s.next
		s.next = nil
		s.polling = false
		if s.rootDone && s.table.Len() == 0 {
			return zeroY, s.out, true, nil
		}
	}
}

func (s *taskScheduler[Y, R, Out, D]) insert(d D) {
	id := d.TaskID()
	t := s.makeTask(d, s.mb)
	t.consume()
	if old, replaced := s.table.Set(id, t); replaced {
		s.logger.Warnf("duplicate task id replaces live task: taskId: %v", id)
		old.discard()
	}
	s.logger.Debugf("spawned task: taskId: %v, computationId: %v", id, t.ComputationId)
}

func (s *taskScheduler[Y, R, Out, D]) beginPoll() {
	s.polling = true
	s.pending = s.table.Keys()
	s.next = btree.NewMap[string, *Computation[TaskYield[Y, R], R, struct{}]](taskTableDegree)
}

// discard releases the root and every live task. Tasks kept in the rebuilt
// table are still present in the live one, so one scan covers both.
func (s *taskScheduler[Y, R, Out, D]) discard() {
	if !s.rootDone {
		s.root.discard()
	}
	s.table.Scan(func(_ string, t *Computation[TaskYield[Y, R], R, struct{}]) bool {
		t.discard()
		return true
	})
}
