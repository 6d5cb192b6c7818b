package singlequeue

import "errors"

var (
	// ErrListenerFailed wraps an error returned by the listener.
	ErrListenerFailed = errors.New("queue listener failed")

	// ErrListenerPanic wraps a panic recovered from the listener.
	ErrListenerPanic = errors.New("queue listener panicked")
)
