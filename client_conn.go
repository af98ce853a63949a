package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/paylio/realtime-go/frame"
	"github.com/paylio/realtime-go/transport"
)

type attemptResult int

const (
	attemptConnected attemptResult = iota
	attemptNoToken
	attemptFailed
	attemptAborted
)

// Connect establishes the transport connection and performs the join
// handshake. It is idempotent: when already connected it returns
// immediately, and when another attempt is in flight the caller waits
// for that attempt to settle instead of starting a second handshake.
//
// Connect never reports an error; callers that need confirmation must
// check Connected afterwards. Without an auth token it is a no-op.
func (c *Client) Connect(ctx context.Context) {
	c.stateMu.Lock()
	switch c.state {
	case stateConnected:
		c.stateMu.Unlock()
		return
	case stateConnecting, stateReconnecting:
		done := c.attemptDone
		c.stateMu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}
	c.state = stateConnecting
	c.skipReconnect = false
	c.attemptCloseErr = nil
	done := make(chan struct{})
	c.attemptDone = done
	c.stateMu.Unlock()

	c.debug.Log("Connecting")
	result := c.doConnect(ctx, done)
	if result == attemptFailed && !c.noReconnection {
		go c.reconnect()
	}
}

// doConnect runs one connection attempt. The caller has already moved
// the state to connecting/reconnecting and owns the attempt; done is
// closed when the attempt settles, releasing concurrent Connect
// callers.
func (c *Client) doConnect(ctx context.Context, done chan struct{}) attemptResult {
	defer close(done)

	fail := func(r attemptResult) attemptResult {
		c.stateMu.Lock()
		// A newer attempt may own the client by now; only the current
		// attempt may move the state.
		if c.attemptDone == done {
			c.state = stateDisconnected
		}
		c.stateMu.Unlock()
		return r
	}

	token, ok := c.tokens.Token()
	if !ok || token == "" {
		// Unauthenticated. Not an error: the UI proceeds without
		// realtime updates and may connect again after login.
		c.debug.Log("No auth token, connect is a no-op")
		return fail(attemptNoToken)
	}

	conn, err := c.dialer(ctx, c.urls.SocketURL(), c.requestHeader, &transport.Callbacks{
		OnFrame: c.onFrame,
		OnError: c.onTransportError,
		OnClose: func(err error) { c.onTransportClose(done, err) },
	})
	if err != nil {
		c.debug.Log("Dial failed", err)
		c.onError(err)
		return fail(attemptFailed)
	}

	c.stateMu.Lock()
	if c.attemptDone != done {
		// A Disconnect/Connect cycle started a newer attempt while this
		// dial was in flight; the newer attempt owns the client.
		c.stateMu.Unlock()
		conn.Close()
		c.debug.Log("Attempt superseded, dropping fresh transport")
		return attemptAborted
	}
	if c.skipReconnect {
		// Disconnect was called while this attempt was in flight:
		// drop the fresh transport and stay disconnected.
		c.state = stateDisconnected
		c.stateMu.Unlock()
		conn.Close()
		c.debug.Log("Disconnected during connect, dropping fresh transport")
		return attemptAborted
	}
	if closeErr := c.attemptCloseErr; closeErr != nil {
		// The transport's read loop died between the dial and this
		// publish. Treat it as a failed attempt so reconnection runs.
		c.attemptCloseErr = nil
		c.state = stateDisconnected
		c.stateMu.Unlock()
		conn.Close()
		c.debug.Log("Transport closed during connect", closeErr)
		c.onError(closeErr)
		return attemptFailed
	}
	c.conn = conn
	c.connAttempt = done
	c.state = stateConnected
	c.stateMu.Unlock()

	c.backoff.reset()

	event, payload := c.joinPayload(token)
	c.Emit(event, payload)
	c.rejoinRooms(token)

	c.debug.Log("Connected")
	for _, handler := range c.connectHandlers.getAll() {
		(*handler)()
	}
	c.subs.dispatch(EventConnect, nil)
	return attemptConnected
}

// Disconnect signals the server that we are leaving, closes the
// transport and clears all registered subscriptions. Any in-flight
// connect aborts once it settles, and no further reconnection attempts
// fire. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.stateMu.Lock()
	c.skipReconnect = true
	wasConnected := c.state == stateConnected
	conn := c.conn
	c.conn = nil
	c.connAttempt = nil
	c.state = stateDisconnected
	c.stateMu.Unlock()

	c.backoff.forceMax(c.reconnectionAttempts)

	if wasConnected && conn != nil {
		event, payload := c.leavePayload()
		buf, err := c.codec.EncodeEvent(event, payload)
		if err == nil {
			// Best effort; the server also notices the close.
			_ = conn.Send(buf)
		}
		conn.Close()
	}

	c.subs.clear()
	c.rooms.clear()
	c.userID.Store(int64(0))

	if wasConnected {
		c.debug.Log("Disconnected")
		for _, handler := range c.disconnectHandlers.getAll() {
			(*handler)()
		}
	}
}

// reconnect retries the connection with a linearly growing delay until
// it succeeds, the attempt budget is exhausted, the reconnect target
// is gone, or the client is explicitly disconnected.
func (c *Client) reconnect() {
	for {
		c.stateMu.Lock()
		if c.skipReconnect || c.state != stateDisconnected {
			c.stateMu.Unlock()
			return
		}
		if c.reconnectTarget() == "" {
			c.stateMu.Unlock()
			c.debug.Log("No reconnect target, staying disconnected")
			return
		}
		attempts := c.backoff.attempts()
		if attempts >= c.reconnectionAttempts {
			c.stateMu.Unlock()
			c.debug.Log("Maximum reconnection attempts reached", attempts)
			c.backoff.reset()
			for _, handler := range c.reconnectFailedHandlers.getAll() {
				(*handler)()
			}
			return
		}
		c.state = stateReconnecting
		c.attemptCloseErr = nil
		done := make(chan struct{})
		c.attemptDone = done
		c.stateMu.Unlock()

		delay := c.backoff.duration()
		c.debug.Log("Delay before reconnect attempt", delay)
		time.Sleep(delay)

		c.stateMu.RLock()
		skip := c.skipReconnect
		c.stateMu.RUnlock()
		if skip {
			c.abortAttempt(done)
			return
		}

		attempt := c.backoff.attempts()
		for _, handler := range c.reconnectAttemptHandlers.getAll() {
			(*handler)(attempt)
		}

		c.debug.Log("Attempting to reconnect", attempt)
		switch c.doConnect(context.Background(), done) {
		case attemptConnected:
			c.debug.Log("Reconnected", attempt)
			for _, handler := range c.reconnectHandlers.getAll() {
				(*handler)(attempt)
			}
			return
		case attemptNoToken, attemptAborted:
			return
		}
		// Attempt failed; loop for the next one.
	}
}

func (c *Client) abortAttempt(done chan struct{}) {
	c.stateMu.Lock()
	if c.attemptDone == done {
		c.state = stateDisconnected
	}
	c.stateMu.Unlock()
	close(done)
}

// onFrame handles one inbound wire frame. Runs on the transport read
// goroutine; dispatch is synchronous, so subscribers observe events in
// arrival order, one event's callbacks finishing before the next frame
// is processed.
func (c *Client) onFrame(data []byte) {
	f, err := c.codec.Decode(data)
	if err != nil {
		// Malformed and unsupported frames are dropped. The
		// connection stays open.
		c.debug.Log("Dropping frame", err)
		return
	}

	switch f.Type {
	case frame.TypePing:
		c.lastPing.Store(time.Now())
		c.sendRaw(frame.Pong())
		handlers := c.pingHandlers.getAll()
		// Avoid unnecessary overhead of creating a goroutine.
		if len(handlers) > 0 {
			go func() {
				for _, handler := range handlers {
					(*handler)()
				}
			}()
		}
	case frame.TypePong:
		// The server does not probe us; ignored.
	case frame.TypeEvent:
		c.handleEvent(f.Event, f.Data)
	}
}

func (c *Client) handleEvent(eventName string, data any) {
	c.debug.Log("Received event", eventName)

	switch eventName {
	case EventUserJoined:
		var v UserJoined
		err := DecodePayload(data, &v)
		if err == nil && v.UserID != 0 {
			c.userID.Store(v.UserID)
		}
	case EventError:
		c.onError(fmt.Errorf("realtime: server error: %v", data))
	}

	c.subs.dispatch(eventName, data)
}

func (c *Client) sendRaw(buf []byte) {
	c.stateMu.RLock()
	conn := c.conn
	c.stateMu.RUnlock()
	if conn == nil {
		return
	}
	err := conn.Send(buf)
	if err != nil {
		c.debug.Log("Send failed", err)
	}
}

func (c *Client) onTransportError(err error) {
	c.debug.Log("Transport error", err)
	c.onError(err)
}

func (c *Client) onError(err error) {
	handlers := c.errorHandlers.getAll()
	// Avoid unnecessary overhead of creating a goroutine.
	if len(handlers) > 0 {
		go func() {
			for _, handler := range handlers {
				(*handler)(err)
			}
		}()
	}
}

// onTransportClose runs when a transport read loop ends. err is nil
// when we closed the connection ourselves. owner identifies the attempt
// that dialed the transport; notifications from transports other than
// the published one are ignored.
func (c *Client) onTransportClose(owner chan struct{}, err error) {
	c.stateMu.Lock()
	if c.state == stateConnecting || c.state == stateReconnecting {
		// The in-flight attempt owns the state. Leave it a note so it
		// fails the attempt instead of publishing a dead transport.
		if err != nil && owner == c.attemptDone {
			c.attemptCloseErr = err
		}
		c.stateMu.Unlock()
		return
	}
	if owner != c.connAttempt {
		// A transport that was never published, or already torn down.
		c.stateMu.Unlock()
		return
	}
	wasConnected := c.state == stateConnected
	c.conn = nil
	c.connAttempt = nil
	c.state = stateDisconnected
	skip := c.skipReconnect
	c.stateMu.Unlock()

	if !wasConnected {
		return
	}

	c.debug.Log("Transport closed", err)
	for _, handler := range c.disconnectHandlers.getAll() {
		(*handler)()
	}
	c.subs.dispatch(EventDisconnect, nil)

	if err == nil {
		// Closed locally; Disconnect already did the cleanup.
		return
	}
	if c.noReconnection || skip || c.reconnectTarget() == "" {
		return
	}
	go c.reconnect()
}

func (c *Client) joinPayload(token string) (string, any) {
	switch c.variant {
	case variantDashboard:
		return EventJoinDashboard, map[string]any{"card_id": c.CardID(), "token": token}
	default:
		return EventJoinUser, map[string]any{"token": token}
	}
}

func (c *Client) leavePayload() (string, any) {
	switch c.variant {
	case variantDashboard:
		return EventLeaveDashboard, map[string]any{"card_id": c.CardID()}
	default:
		return EventLeaveUser, map[string]any{}
	}
}

// reconnectTarget returns the identifier reconnection is anchored to;
// empty means there is nothing to reconnect for. The user variant is
// always anchored to the logged-in user; the dashboard variant to its
// card, which LeaveDashboard clears.
func (c *Client) reconnectTarget() string {
	if c.variant == variantDashboard {
		return c.CardID()
	}
	return "user"
}

// rejoinRooms re-asserts room membership on a fresh connection. The
// server tracks rooms per connection, so joins do not survive a
// reconnect on their own.
func (c *Client) rejoinRooms(token string) {
	primary := ""
	if c.variant == variantDashboard {
		primary = c.CardID()
	}

	for _, id := range c.rooms.conversations.ToSlice() {
		c.Emit(EventJoinConversation, map[string]any{"conversation_id": id})
	}
	for _, cardID := range c.rooms.dashboards.ToSlice() {
		if cardID == primary {
			// Already joined via the handshake.
			continue
		}
		c.Emit(EventJoinDashboard, map[string]any{"card_id": cardID, "token": token})
	}
}
