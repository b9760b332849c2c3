package coro_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/on-the-ground/effect_algebra_go/effects/internal/coro"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCoroutine_YieldsInOrderThenCompletes(t *testing.T) {
	co := coro.New(func(yield func(int)) string {
		yield(1)
		yield(2)
		return "done"
	})

	req, _, done := co.Resume()
	require.False(t, done)
	assert.Equal(t, 1, req)

	req, _, done = co.Resume()
	require.False(t, done)
	assert.Equal(t, 2, req)

	_, out, done := co.Resume()
	require.True(t, done)
	assert.Equal(t, "done", out)
	assert.True(t, co.Done())
}

func TestCoroutine_ResumeAfterCompletionPanics(t *testing.T) {
	co := coro.New(func(yield func(int)) int {
		return 42
	})
	_, out, done := co.Resume()
	require.True(t, done)
	require.Equal(t, 42, out)

	assert.Panics(t, func() { co.Resume() })
}

func TestCoroutine_BodyPanicRethrownWithStack(t *testing.T) {
	sentinel := errors.New("boom")
	co := coro.New(func(yield func(int)) int {
		yield(1)
		panic(sentinel)
	})
	_, _, done := co.Resume()
	require.False(t, done)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		pe, ok := r.(*coro.PanicError)
		require.True(t, ok, "expected *coro.PanicError, got %T", r)
		assert.Equal(t, sentinel, pe.Value)
		assert.ErrorIs(t, pe, sentinel)
		assert.True(t, strings.Contains(pe.Error(), "boom"))
		assert.NotEmpty(t, pe.Stack)
	}()
	co.Resume()
}

func TestCoroutine_ResumeAfterPanicPanics(t *testing.T) {
	co := coro.New(func(yield func(int)) int {
		panic("boom")
	})
	assert.Panics(t, func() { co.Resume() })
	assert.Panics(t, func() { co.Resume() })
}

func TestCoroutine_DiscardBeforeStart(t *testing.T) {
	co := coro.New(func(yield func(int)) int {
		yield(1)
		return 0
	})
	co.Discard()
	assert.Panics(t, func() { co.Resume() })
}

func TestCoroutine_DiscardWhileSuspended(t *testing.T) {
	cleaned := false
	co := coro.New(func(yield func(int)) int {
		defer func() { cleaned = true }()
		yield(1)
		yield(2)
		return 0
	})
	_, _, done := co.Resume()
	require.False(t, done)

	co.Discard()
	assert.True(t, cleaned, "deferred cleanup should run on discard")
	assert.Panics(t, func() { co.Resume() })
}

func TestCoroutine_DiscardAfterCompletionIsNoop(t *testing.T) {
	co := coro.New(func(yield func(int)) int {
		return 7
	})
	_, _, done := co.Resume()
	require.True(t, done)

	assert.NotPanics(t, func() { co.Discard() })
}
