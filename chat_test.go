package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendChatMessage(t *testing.T) {
	client, dialer := newTestClient(t, nil)
	client.Connect(context.Background())

	client.SendChatMessage(5, "lunch is on me")

	frames := dialer.conn(0).sentFrames()
	f := decodeFrame(t, frames[len(frames)-1])
	assert.Equal(t, EventChatMessage, f.Event)
	assert.Equal(t, map[string]any{"conversation_id": float64(5), "content": "lunch is on me"}, f.Data)
}

func TestJoinLeaveConversation(t *testing.T) {
	client, dialer := newTestClient(t, nil)
	client.Connect(context.Background())

	client.JoinConversation(5)
	client.LeaveConversation(5)

	var events []string
	for _, s := range dialer.conn(0).sentFrames() {
		events = append(events, decodeFrame(t, s).Event)
	}
	assert.Contains(t, events, EventJoinConversation)
	assert.Contains(t, events, EventLeaveConversation)
	assert.False(t, client.rooms.conversations.Contains(5))
}

func TestSendTyping(t *testing.T) {
	client, dialer := newTestClient(t, nil)
	client.Connect(context.Background())

	client.SendTyping(5, true)

	frames := dialer.conn(0).sentFrames()
	f := decodeFrame(t, frames[len(frames)-1])
	assert.Equal(t, EventTyping, f.Event)
	assert.Equal(t, map[string]any{"conversation_id": float64(5), "is_typing": true}, f.Data)
}

func TestMarkRead(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, dialer := newTestClient(t, &Config{APIBaseURL: server.URL})
	client.Connect(context.Background())

	client.MarkRead(context.Background(), 5)

	assert.Equal(t, "POST /api/chat/read/5", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)

	frames := dialer.conn(0).sentFrames()
	f := decodeFrame(t, frames[len(frames)-1])
	assert.Equal(t, EventMarkRead, f.Event)
	assert.Equal(t, map[string]any{"conversation_id": float64(5)}, f.Data)
}

func TestMarkReadEmitsEvenIfRESTFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, dialer := newTestClient(t, &Config{APIBaseURL: server.URL})
	client.Connect(context.Background())

	errs := make(chan error, 1)
	client.OnError(func(err error) { errs <- err })

	assert.NotPanics(t, func() {
		client.MarkRead(context.Background(), 5)
	})

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the error handler")
	}

	frames := dialer.conn(0).sentFrames()
	require.NotEmpty(t, frames)
	assert.Equal(t, EventMarkRead, decodeFrame(t, frames[len(frames)-1]).Event)
}

func TestMarkReadEmitsEvenIfServerUnreachable(t *testing.T) {
	client, dialer := newTestClient(t, &Config{APIBaseURL: "http://127.0.0.1:1"})
	client.Connect(context.Background())

	assert.NotPanics(t, func() {
		client.MarkRead(context.Background(), 5)
	})

	frames := dialer.conn(0).sentFrames()
	require.NotEmpty(t, frames)
	assert.Equal(t, EventMarkRead, decodeFrame(t, frames[len(frames)-1]).Event)
}
