package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/effect_algebra_go/effects"
)

func TestMailbox_SingleSlotLaw(t *testing.T) {
	mb := effects.NewMailbox[string]()

	mb.Put("a")
	mb.Put("b")

	v, ok := mb.Take()
	require.True(t, ok)
	assert.Equal(t, "b", v, "the second write overwrites the first")

	_, ok = mb.Take()
	assert.False(t, ok, "take clears the slot")
}

func TestMailbox_TakeEmpty(t *testing.T) {
	mb := effects.NewMailbox[int]()
	v, ok := mb.Take()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestTakeAs_ProjectsAndClears(t *testing.T) {
	mb := effects.NewMailbox[any]()
	mb.Put(42)

	n, ok := effects.TakeAs(mb, func(v any) (int, bool) {
		i, ok := v.(int)
		return i, ok
	})
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = mb.Take()
	assert.False(t, ok)
}

func TestTakeAs_RejectionStillClears(t *testing.T) {
	mb := effects.NewMailbox[any]()
	mb.Put("not an int")

	_, ok := effects.TakeAs(mb, func(v any) (int, bool) {
		i, ok := v.(int)
		return i, ok
	})
	require.False(t, ok)

	_, ok = mb.Take()
	assert.False(t, ok, "a rejected projection still consumes the slot")
}
