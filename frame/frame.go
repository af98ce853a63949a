// Package frame implements the wire sub-protocol used by the realtime
// backend: a deliberately minimal subset of the Socket.IO framing.
//
// Only three frame kinds exist on the wire:
//
//	"2"                          server ping
//	"3"                          client pong (reply)
//	"42" + JSON([event, data])   event message, either direction
//
// Anything else is rejected with ErrUnsupportedFrame. There is no
// Engine.IO handshake exchange, no binary attachments and no
// acknowledgements; the full protocol is not supported and the codec
// fails closed instead of guessing.
package frame

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/paylio/realtime-go/serializer"
)

type Type byte

const (
	TypePing Type = iota
	TypePong
	TypeEvent
)

func (t Type) String() string {
	switch t {
	case TypePing:
		return "ping"
	case TypePong:
		return "pong"
	case TypeEvent:
		return "event"
	}
	return "unknown"
}

var (
	ErrUnsupportedFrame = errors.New("frame: unsupported frame type")
	ErrMalformedEvent   = errors.New("frame: malformed event frame")
)

var (
	ping        = []byte{'2'}
	pong        = []byte{'3'}
	eventPrefix = []byte{'4', '2'}
)

// Ping returns the keep-alive probe frame sent by the server.
func Ping() []byte { return ping }

// Pong returns the frame to be sent in reply to a ping.
func Pong() []byte { return pong }

// Frame is one decoded wire message. Event and Data are only set when
// Type is TypeEvent.
type Frame struct {
	Type  Type
	Event string
	Data  any
}

// Codec translates between logical (event, data) pairs and wire frames.
// Safe for concurrent use.
type Codec struct {
	json serializer.JSONSerializer
}

// NewCodec returns a Codec using the given JSON implementation,
// or the standard library one if json is nil.
func NewCodec(json serializer.JSONSerializer) *Codec {
	if json == nil {
		json = serializer.NewStdJSON()
	}
	return &Codec{json: json}
}

// EncodeEvent serializes an outgoing event as a single text frame.
func (c *Codec) EncodeEvent(event string, data any) ([]byte, error) {
	payload, err := c.json.Marshal([2]any{event, data})
	if err != nil {
		return nil, fmt.Errorf("frame: encode %q: %w", event, err)
	}
	buf := make([]byte, 0, len(eventPrefix)+len(payload))
	buf = append(buf, eventPrefix...)
	buf = append(buf, payload...)
	return buf, nil
}

// Decode parses one incoming text frame.
//
// A malformed "42" frame yields ErrMalformedEvent, any frame outside
// the supported subset yields ErrUnsupportedFrame. Neither is fatal to
// the connection; the caller is expected to log and drop the frame.
func (c *Codec) Decode(data []byte) (Frame, error) {
	switch {
	case bytes.Equal(data, ping):
		return Frame{Type: TypePing}, nil
	case bytes.Equal(data, pong):
		return Frame{Type: TypePong}, nil
	case bytes.HasPrefix(data, eventPrefix):
		return c.decodeEvent(data[len(eventPrefix):])
	}
	if len(data) == 0 {
		return Frame{}, fmt.Errorf("%w: empty frame", ErrUnsupportedFrame)
	}
	return Frame{}, fmt.Errorf("%w: %q", ErrUnsupportedFrame, data[0])
}

func (c *Codec) decodeEvent(payload []byte) (Frame, error) {
	var elems []any
	if err := c.json.Unmarshal(payload, &elems); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if len(elems) < 2 {
		return Frame{}, fmt.Errorf("%w: array of length %d", ErrMalformedEvent, len(elems))
	}
	event, ok := elems[0].(string)
	if !ok {
		return Frame{}, fmt.Errorf("%w: event name is not a string", ErrMalformedEvent)
	}
	return Frame{
		Type:  TypeEvent,
		Event: event,
		Data:  elems[1],
	}, nil
}
