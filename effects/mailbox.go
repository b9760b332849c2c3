package effects

// IMPORTANT:
// A Mailbox is **intentionally NOT thread-safe**.
//
// It is designed with the assumption that a computation and the handler
// layers wrapped around it all live on a **single logical thread**: at any
// moment exactly one writer (a handler or the scheduler) or one reader
// (the owning computation at its next resume) is active, never both.
//
// ➤ We deliberately avoided synchronization (mutexes, atomic ops, etc.)
//
//	to keep the slot lightweight and to reinforce proper scoping.
//
// Sharing one Mailbox across independently scheduled goroutines requires
// synchronization that this type does not provide.
type Mailbox[R any] struct {
	slot *R
}

// NewMailbox returns an empty single-slot mailbox.
func NewMailbox[R any]() *Mailbox[R] {
	return &Mailbox[R]{}
}

// Put stores v, overwriting any unconsumed value. There is no queueing:
// writing twice between reads discards the first value.
func (m *Mailbox[R]) Put(v R) {
	m.slot = &v
}

// Take returns and clears the stored value, or reports empty. It never blocks;
// true waiting is expressed only by the owning computation's next suspension.
func (m *Mailbox[R]) Take() (R, bool) {
	if m.slot == nil {
		var zero R
		return zero, false
	}
	v := *m.slot
	m.slot = nil
	return v, true
}

// TakeAs takes the current composite result and projects it down to one
// result kind. The slot is cleared even when the projection rejects the
// value, matching the read-and-clear discipline of Take.
func TakeAs[P, R any](m *Mailbox[R], proj func(R) (P, bool)) (P, bool) {
	v, ok := m.Take()
	if !ok {
		var zero P
		return zero, false
	}
	return proj(v)
}
