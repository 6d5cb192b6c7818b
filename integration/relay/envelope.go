package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps an event for transport between processes.
type Envelope[T any] struct {
	ID        string    `json:"id"`         // Unique identifier of this envelope
	Origin    string    `json:"origin"`     // Relay instance that published it
	Payload   T         `json:"payload"`    // The event itself
	CreatedAt time.Time `json:"created_at"` // When the event was emitted
}

// NewEnvelope wraps payload with a fresh ID and the current time.
func NewEnvelope[T any](origin string, payload T) Envelope[T] {
	return Envelope[T]{
		ID:        uuid.New().String(),
		Origin:    origin,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// Encode returns the JSON wire form of the envelope.
func (e Envelope[T]) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeEnvelope, err)
	}
	return data, nil
}

// Decode parses the JSON wire form of an envelope.
// Envelopes without an ID or origin are rejected with ErrMalformedEnvelope.
func Decode[T any](data []byte) (Envelope[T], error) {
	var e Envelope[T]
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope[T]{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if e.ID == "" || e.Origin == "" {
		return Envelope[T]{}, fmt.Errorf("%w: missing id or origin", ErrMalformedEnvelope)
	}
	return e, nil
}
