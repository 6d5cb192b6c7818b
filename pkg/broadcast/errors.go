package broadcast

import "errors"

var (
	// ErrListenerFailed wraps an error returned by a listener during Emit.
	ErrListenerFailed = errors.New("broadcast listener failed")

	// ErrListenerPanic wraps a panic recovered from a listener during Emit.
	ErrListenerPanic = errors.New("broadcast listener panicked")
)
