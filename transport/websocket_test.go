package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func newEchoServer(t *testing.T, onRequest func(r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if onRequest != nil {
			onRequest(r)
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		for {
			mt, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			err = conn.Write(r.Context(), mt, data)
			if err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDialWebSocketHandshakeQuery(t *testing.T) {
	requests := make(chan *http.Request, 1)
	server := newEchoServer(t, func(r *http.Request) { requests <- r })

	conn, err := DialWebSocket(context.Background(), server.URL, nil, nil)
	require.NoError(t, err)
	defer conn.Close()

	r := <-requests
	assert.Equal(t, "4", r.URL.Query().Get("EIO"))
	assert.Equal(t, "websocket", r.URL.Query().Get("transport"))
}

func TestDialWebSocketEcho(t *testing.T) {
	server := newEchoServer(t, nil)

	frames := make(chan string, 1)
	callbacks := &Callbacks{
		OnFrame: func(data []byte) { frames <- string(data) },
	}

	conn, err := DialWebSocket(context.Background(), server.URL, nil, callbacks)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Send([]byte(`42["typing",{"conversation_id":1}]`)))

	select {
	case frame := <-frames:
		assert.Equal(t, `42["typing",{"conversation_id":1}]`, frame)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for echoed frame")
	}
}

func TestCloseReportsCleanClose(t *testing.T) {
	server := newEchoServer(t, nil)

	closed := make(chan error, 1)
	callbacks := &Callbacks{
		OnClose: func(err error) { closed <- err },
	}

	conn, err := DialWebSocket(context.Background(), server.URL, nil, callbacks)
	require.NoError(t, err)

	require.NoError(t, conn.Close())

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for close callback")
	}

	assert.Error(t, conn.Send([]byte("3")))
}

func TestDialWebSocketBadURL(t *testing.T) {
	_, err := DialWebSocket(context.Background(), "http://\x7f", nil, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "transport:"))
}
