package relay

import "errors"

var (
	ErrNilTransport      = errors.New("relay transport is nil")
	ErrAlreadyRunning    = errors.New("relay is already running")
	ErrTransportClosed   = errors.New("relay transport closed")
	ErrPublishFailed     = errors.New("failed to publish envelope")
	ErrReceiveFailed     = errors.New("failed to receive envelopes")
	ErrEncodeEnvelope    = errors.New("failed to encode envelope")
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrNotRunning        = errors.New("relay is not running")
	ErrHealthcheckFailed = errors.New("relay healthcheck failed")
)

// ErrPermanent marks transport errors that retrying cannot fix. Transports
// wrap it; the Relay drops the envelope instead of holding it for retry.
var ErrPermanent = errors.New("permanent publish failure")
