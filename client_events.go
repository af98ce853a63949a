package realtime

type (
	ConnectFunc          func()
	DisconnectFunc       func()
	ErrorFunc            func(err error)
	PingFunc             func()
	ReconnectFunc        func(attempt uint32)
	ReconnectAttemptFunc func(attempt uint32)
	ReconnectFailedFunc  func()
)

// OffAllLifecycle removes every registered lifecycle handler. Event
// subscribers are unaffected; use Off/OffAny for those.
func (c *Client) OffAllLifecycle() {
	c.connectHandlers.offAll()
	c.disconnectHandlers.offAll()
	c.errorHandlers.offAll()
	c.pingHandlers.offAll()
	c.reconnectHandlers.offAll()
	c.reconnectAttemptHandlers.offAll()
	c.reconnectFailedHandlers.offAll()
}

func (c *Client) OnConnect(f ConnectFunc) {
	c.connectHandlers.on(&f)
}

func (c *Client) OnceConnect(f ConnectFunc) {
	c.connectHandlers.once(&f)
}

func (c *Client) OffConnect(_f ...ConnectFunc) {
	f := make([]*ConnectFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.connectHandlers.off(f...)
}

func (c *Client) OnDisconnect(f DisconnectFunc) {
	c.disconnectHandlers.on(&f)
}

func (c *Client) OnceDisconnect(f DisconnectFunc) {
	c.disconnectHandlers.once(&f)
}

func (c *Client) OffDisconnect(_f ...DisconnectFunc) {
	f := make([]*DisconnectFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.disconnectHandlers.off(f...)
}

func (c *Client) OnError(f ErrorFunc) {
	c.errorHandlers.on(&f)
}

func (c *Client) OnceError(f ErrorFunc) {
	c.errorHandlers.once(&f)
}

func (c *Client) OffError(_f ...ErrorFunc) {
	f := make([]*ErrorFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.errorHandlers.off(f...)
}

func (c *Client) OnPing(f PingFunc) {
	c.pingHandlers.on(&f)
}

func (c *Client) OncePing(f PingFunc) {
	c.pingHandlers.once(&f)
}

func (c *Client) OffPing(_f ...PingFunc) {
	f := make([]*PingFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.pingHandlers.off(f...)
}

func (c *Client) OnReconnect(f ReconnectFunc) {
	c.reconnectHandlers.on(&f)
}

func (c *Client) OnceReconnect(f ReconnectFunc) {
	c.reconnectHandlers.once(&f)
}

func (c *Client) OffReconnect(_f ...ReconnectFunc) {
	f := make([]*ReconnectFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.reconnectHandlers.off(f...)
}

func (c *Client) OnReconnectAttempt(f ReconnectAttemptFunc) {
	c.reconnectAttemptHandlers.on(&f)
}

func (c *Client) OnceReconnectAttempt(f ReconnectAttemptFunc) {
	c.reconnectAttemptHandlers.once(&f)
}

func (c *Client) OffReconnectAttempt(_f ...ReconnectAttemptFunc) {
	f := make([]*ReconnectAttemptFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.reconnectAttemptHandlers.off(f...)
}

func (c *Client) OnReconnectFailed(f ReconnectFailedFunc) {
	c.reconnectFailedHandlers.on(&f)
}

func (c *Client) OnceReconnectFailed(f ReconnectFailedFunc) {
	c.reconnectFailedHandlers.once(&f)
}

func (c *Client) OffReconnectFailed(_f ...ReconnectFailedFunc) {
	f := make([]*ReconnectFailedFunc, len(_f))
	for i := range f {
		f[i] = &_f[i]
	}
	c.reconnectFailedHandlers.off(f...)
}
