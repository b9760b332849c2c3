// Package effects provides a minimal and idiomatic effect-algebra runtime
// for Go.
//
// A computation declares the external effects it needs by yielding effect
// requests, pauses at each request, and resumes once a handler supplies a
// result. Handlers attach one effect kind at a time, shrinking the request
// type until it is provably uninhabited, and a cooperative scheduler
// multiplexes a root computation with dynamically spawned sub-tasks on one
// logical thread.
//
// # What is an effect request?
//
// An effect request is a value describing an external operation a
// computation wants performed — reading a key, printing a line, opening a
// connection. Requests are a sum over independent effect kinds, fixed at
// composition time; results are index-aligned with requests.
//
// # How does it work?
//
// A computation is built with [New] (or [NewWith], when a mailbox must be
// shared); the builder receives the computation's [Mailbox] and a yield
// function. [Perform] yields one request and takes the matching result.
// Handlers attach with [WithHandler] over the full request sum, or with
// [WithSelectHandler] through a [Select] to consume exactly one slice of the
// algebra; once the yield type reaches [Never], [Run] drives the computation
// to completion. [WithTaskScheduler] extends a computation so some yields
// spawn sibling sub-tasks, polled each tick in ascending task-id order.
//
// # Concurrency model
//
// Single logical thread throughout: "concurrency" means interleaving, never
// parallel execution. Suspension happens only at yield points and resumption
// is explicit and externally driven. There is no native blocking, sleeping,
// or timeout — a pending external operation is a handler that performs a
// non-blocking check and re-issues the request on the next tick, and all
// resilience policy (retry, cancellation, backoff) belongs to handlers, not
// to this package.
//
// # Errors and contract violations
//
// A handler decline ([ErrDecline]) is a typed outcome, not a failure; any
// other handler error terminates the run uncaught and unwrapped. Contract
// violations — resume after completion, concurrent resume, a yield from a
// [Never]-typed computation — panic, since they indicate a broken static
// guarantee.
//
// This module also ships collaborator packages built on the same contract:
// effects/log, effects/kv, effects/clock and effects/retry.
package effects
