package effects_test

import (
	"testing"

	"go.uber.org/goleak"
)

// Every computation in this package rides a coroutine goroutine; a test that
// neither completes nor discards one leaks it.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
