package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/paylio/realtime-go/internal/sync"
	"nhooyr.io/websocket"
)

const protocolVersion = 4

const maxFrameSize = 1 << 20

// DialWebSocket is the production Dialer. It appends the
// `EIO=4&transport=websocket` query expected by the backend and starts
// a read loop delivering every text frame to callbacks.OnFrame.
func DialWebSocket(ctx context.Context, rawURL string, header http.Header, callbacks *Callbacks) (Conn, error) {
	if callbacks == nil {
		callbacks = new(Callbacks)
	}
	callbacks.SetMissing()

	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, u, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", u, err)
	}
	conn.SetReadLimit(maxFrameSize)

	ws := &wsConn{
		conn:      conn,
		callbacks: callbacks,
	}
	go ws.readLoop()
	return ws, nil
}

func parseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("transport: parse url: %w", err)
	}

	q := u.Query()
	q.Set("EIO", strconv.Itoa(protocolVersion))
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	return u.String(), nil
}

type wsConn struct {
	conn      *websocket.Conn
	callbacks *Callbacks

	writeMu sync.Mutex
	closed  atomic.Bool
}

var errConnClosed = errors.New("transport: connection closed")

func (c *wsConn) readLoop() {
	for {
		mt, data, err := c.conn.Read(context.Background())
		if err != nil {
			if c.closed.Load() {
				c.callbacks.OnClose(nil)
			} else {
				c.callbacks.OnClose(err)
			}
			return
		}
		if mt != websocket.MessageText {
			// Binary frames are outside the supported subset.
			c.callbacks.OnError(fmt.Errorf("transport: unexpected binary frame of %d byte(s)", len(data)))
			continue
		}
		c.callbacks.OnFrame(data)
	}
}

func (c *wsConn) Send(data []byte) error {
	if c.closed.Load() {
		return errConnClosed
	}

	// Write must not be called concurrently.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	err := c.conn.Write(context.Background(), websocket.MessageText, data)
	if err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

func (c *wsConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
