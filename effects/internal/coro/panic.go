package coro

import "fmt"

// PanicError carries a panic out of the body goroutine so it can be re-thrown
// on the resumer's side with the stack it was raised on.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("coro: body panicked: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
