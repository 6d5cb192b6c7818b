package feedhub

import "errors"

var (
	ErrUnknownTransport = errors.New("unknown relay transport")
	ErrNilDependency    = errors.New("dependency cannot be nil")
)
