// Package realtime is the client-side real-time transport of the
// Paylio app: it maintains one authenticated WebSocket connection to
// the realtime backend, dispatches inbound events (chat messages,
// notifications, typing indicators, dashboard updates) to subscribers,
// and translates domain actions into outbound event emissions.
//
// Two variants exist, matching the two app surfaces: the user client
// (chat and notifications, NewClient) and the corporate dashboard
// client (card dashboards, NewDashboardClient). Both are explicitly
// constructed objects with their own lifecycle; create one per session
// and Disconnect it at logout.
//
// Nothing in this package panics or returns errors across the API
// boundary for network failure: a failed Connect leaves the client
// observable as not Connected, emissions while disconnected are
// dropped with a log line, and transport errors feed the bounded
// reconnection path.
package realtime

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/paylio/realtime-go/frame"
	"github.com/paylio/realtime-go/internal/sync"
	"github.com/paylio/realtime-go/serializer"
	"github.com/paylio/realtime-go/transport"
	"github.com/tomruk/yeast"
)

type Config struct {
	// Endpoints. Either set Resolver, or SocketURL and APIBaseURL.
	Resolver   URLResolver
	SocketURL  string
	APIBaseURL string

	// Source of the auth token used for the join handshake and for
	// companion REST calls. Without a token, Connect is a no-op.
	TokenStore TokenStore

	// Transport dialer. Default: transport.DialWebSocket.
	Dialer transport.Dialer

	// Additional HTTP headers sent with the transport handshake.
	RequestHeader http.Header

	// HTTP client for companion REST calls (read receipts).
	HTTPClient *http.Client

	// JSON implementation used by the frame codec.
	// Default: the standard library.
	JSONSerializer serializer.JSONSerializer

	// Should we disallow reconnections?
	// Default: false (allow reconnections)
	NoReconnection bool

	// How many reconnection attempts should we try?
	// Default: 5
	ReconnectionAttempts uint32

	// Base delay between reconnection attempts; the n-th attempt
	// waits n times this value.
	// Default: 1 second
	ReconnectionDelay *time.Duration

	// The max time delay between reconnection attempts.
	// Default: 5 seconds
	ReconnectionDelayMax *time.Duration

	// For debugging purposes. Leave it nil if it is of no use.
	Debugger Debugger
}

const (
	DefaultReconnectionAttempts uint32 = 5
	DefaultReconnectionDelay           = 1 * time.Second
	DefaultReconnectionDelayMax        = 5 * time.Second
)

type variant int

const (
	variantUser variant = iota
	variantDashboard
)

type connectionState int

const (
	stateDisconnected connectionState = iota
	stateConnecting
	stateConnected
	stateReconnecting
)

type Client struct {
	id      string
	variant variant
	debug   Debugger

	urls   URLResolver
	tokens TokenStore
	dialer transport.Dialer

	requestHeader http.Header
	httpClient    *http.Client

	codec *frame.Codec
	subs  *subscriptionTable
	rooms *roomSet

	noReconnection       bool
	reconnectionAttempts uint32
	backoff              *backoff

	stateMu         sync.RWMutex
	state           connectionState
	conn            transport.Conn
	connAttempt     chan struct{}
	attemptDone     chan struct{}
	skipReconnect   bool
	attemptCloseErr error

	cardMu sync.Mutex
	cardID string

	userID   atomic.Value // int64
	lastPing atomic.Value // time.Time

	connectHandlers          *handlerStore[*ConnectFunc]
	disconnectHandlers       *handlerStore[*DisconnectFunc]
	errorHandlers            *handlerStore[*ErrorFunc]
	pingHandlers             *handlerStore[*PingFunc]
	reconnectHandlers        *handlerStore[*ReconnectFunc]
	reconnectAttemptHandlers *handlerStore[*ReconnectAttemptFunc]
	reconnectFailedHandlers  *handlerStore[*ReconnectFailedFunc]
}

// NewClient creates the user-variant client: the join handshake is
// join_user{token} and reconnection runs as long as the client is not
// explicitly disconnected.
func NewClient(config *Config) *Client {
	return newClient(variantUser, "", config)
}

// NewDashboardClient creates the corporate-variant client scoped to
// one card dashboard: the join handshake is join_dashboard{card_id,
// token} and reconnection stops once the dashboard is left.
func NewDashboardClient(cardID string, config *Config) *Client {
	return newClient(variantDashboard, cardID, config)
}

func newClient(v variant, cardID string, config *Config) *Client {
	if config == nil {
		config = new(Config)
	} else {
		// User can modify the config. We copy the config here in order to avoid problems.
		config = &*config
	}

	c := &Client{
		id:      yeast.New().Yeast(),
		variant: v,
		cardID:  cardID,

		requestHeader: config.RequestHeader,

		codec: frame.NewCodec(config.JSONSerializer),
		rooms: newRoomSet(),

		noReconnection:       config.NoReconnection,
		reconnectionAttempts: config.ReconnectionAttempts,

		connectHandlers:          newHandlerStore[*ConnectFunc](),
		disconnectHandlers:       newHandlerStore[*DisconnectFunc](),
		errorHandlers:            newHandlerStore[*ErrorFunc](),
		pingHandlers:             newHandlerStore[*PingFunc](),
		reconnectHandlers:        newHandlerStore[*ReconnectFunc](),
		reconnectAttemptHandlers: newHandlerStore[*ReconnectAttemptFunc](),
		reconnectFailedHandlers:  newHandlerStore[*ReconnectFailedFunc](),
	}

	if config.Debugger != nil {
		c.debug = config.Debugger
	} else {
		c.debug = NewNoopDebugger()
	}
	c.debug = c.debug.WithContext("[realtime] Client " + c.id)

	c.subs = newSubscriptionTable(c.debug)

	if config.Resolver != nil {
		c.urls = config.Resolver
	} else {
		c.urls = StaticURLs{Socket: config.SocketURL, API: config.APIBaseURL}
	}

	if config.TokenStore != nil {
		c.tokens = config.TokenStore
	} else {
		c.tokens = StaticToken("")
	}

	if config.Dialer != nil {
		c.dialer = config.Dialer
	} else {
		c.dialer = transport.DialWebSocket
	}

	if config.HTTPClient != nil {
		c.httpClient = config.HTTPClient
	} else {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	if c.reconnectionAttempts == 0 {
		c.reconnectionAttempts = DefaultReconnectionAttempts
	}

	delay := DefaultReconnectionDelay
	if config.ReconnectionDelay != nil {
		delay = *config.ReconnectionDelay
	}
	delayMax := DefaultReconnectionDelayMax
	if config.ReconnectionDelayMax != nil {
		delayMax = *config.ReconnectionDelayMax
	}
	c.backoff = newBackoff(delay, delayMax)

	return c
}

// ID identifies this client instance in debug output.
func (c *Client) ID() string { return c.id }

// Connected reports whether a live transport handle exists right now.
func (c *Client) Connected() bool {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state == stateConnected && c.conn != nil
}

// UserID returns the authenticated user ID learned from the server's
// join acknowledgment, once it has arrived.
func (c *Client) UserID() (int64, bool) {
	id, _ := c.userID.Load().(int64)
	return id, id != 0
}

// LastPing returns the arrival time of the most recent server ping.
func (c *Client) LastPing() (time.Time, bool) {
	at, ok := c.lastPing.Load().(time.Time)
	return at, ok
}

// On registers callback for the named event and returns an unsubscribe
// function bound to this exact registration. Registering the same
// callback twice yields two deliveries. The special name "*"
// subscribes to every event; such callbacks receive an Event value.
func (c *Client) On(eventName string, callback EventCallback) func() {
	return c.subs.on(eventName, callback)
}

// OnAny registers a wildcard subscriber receiving every inbound event.
func (c *Client) OnAny(callback AnyCallback) func() {
	return c.subs.onAny(callback)
}

// Off removes the first registration of each given callback for the
// named event, or every registration for the event when no callback is
// given.
func (c *Client) Off(eventName string, callback ...EventCallback) {
	c.subs.off(eventName, callback...)
}

// OffAny removes wildcard subscribers; all of them when none is given.
func (c *Client) OffAny(callback ...AnyCallback) {
	c.subs.offAny(callback...)
}

// Emit sends one event to the server. Emissions while the transport is
// not open are dropped with a log line, never queued or buffered.
func (c *Client) Emit(eventName string, data any) {
	c.stateMu.RLock()
	conn := c.conn
	c.stateMu.RUnlock()

	if conn == nil {
		c.debug.Log("Emit while disconnected, dropping", eventName)
		return
	}

	buf, err := c.codec.EncodeEvent(eventName, data)
	if err != nil {
		c.debug.Log("Encode failed", eventName, err)
		c.onError(err)
		return
	}

	err = conn.Send(buf)
	if err != nil {
		c.debug.Log("Send failed", eventName, err)
	}
}
