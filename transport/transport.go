// Package transport abstracts the raw connection the realtime client
// runs over. The only production implementation is the WebSocket one;
// tests inject in-memory fakes through the Dialer hook.
package transport

import (
	"context"
	"net/http"
)

type (
	FrameCallback func(data []byte)
	ErrorCallback func(err error)
	// err is nil when the connection was closed locally. Always do a nil check.
	CloseCallback func(err error)
)

type Callbacks struct {
	OnFrame FrameCallback
	OnError ErrorCallback
	OnClose CloseCallback
}

func (c *Callbacks) SetMissing() {
	if c.OnFrame == nil {
		c.OnFrame = func(data []byte) {}
	}
	if c.OnError == nil {
		c.OnError = func(err error) {}
	}
	if c.OnClose == nil {
		c.OnClose = func(err error) {}
	}
}

// Conn is one live connection. Send must be safe for concurrent use.
// After Close, Send fails and no further callbacks are invoked except
// a single OnClose(nil).
type Conn interface {
	Send(data []byte) error
	Close() error
}

// Dialer opens a connection to url and wires inbound traffic to
// callbacks. Callbacks start firing before Dialer returns.
type Dialer func(ctx context.Context, url string, header http.Header, callbacks *Callbacks) (Conn, error)
