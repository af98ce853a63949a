package realtime

import (
	"time"

	"github.com/paylio/realtime-go/internal/sync"
)

type TypingConfig struct {
	// Minimum time between two typing=true emissions.
	// Default: 2 seconds
	Interval time.Duration

	// How long after the last keystroke the indicator auto-clears
	// with a typing=false emission.
	// Default: 3 seconds
	Idle time.Duration
}

const (
	defaultTypingInterval = 2 * time.Second
	defaultTypingIdle     = 3 * time.Second
)

// TypingNotifier throttles keystroke-driven typing indicators. The
// transport layer imposes no rate limit on typing emissions; this is
// the caller-side throttle, packaged: call Touch on every keystroke
// and the notifier emits typing=true at most once per Interval, plus a
// typing=false once Idle has passed without a Touch.
type TypingNotifier struct {
	emit     func(isTyping bool)
	interval time.Duration
	idle     time.Duration

	mu        sync.Mutex
	active    bool
	lastSent  time.Time
	idleTimer *time.Timer
}

// NewTypingNotifier creates a notifier around an arbitrary emit
// function. Most callers want Client.TypingNotifier instead.
func NewTypingNotifier(emit func(isTyping bool), config *TypingConfig) *TypingNotifier {
	if config == nil {
		config = new(TypingConfig)
	}
	t := &TypingNotifier{
		emit:     emit,
		interval: config.Interval,
		idle:     config.Idle,
	}
	if t.interval == 0 {
		t.interval = defaultTypingInterval
	}
	if t.idle == 0 {
		t.idle = defaultTypingIdle
	}
	return t
}

// TypingNotifier returns a throttled typing indicator bound to one
// conversation.
func (c *Client) TypingNotifier(conversationID int64, config *TypingConfig) *TypingNotifier {
	return NewTypingNotifier(func(isTyping bool) {
		c.SendTyping(conversationID, isTyping)
	}, config)
}

// Touch records a keystroke.
func (t *TypingNotifier) Touch() {
	t.mu.Lock()
	now := time.Now()
	send := !t.active || now.Sub(t.lastSent) >= t.interval
	if send {
		t.active = true
		t.lastSent = now
	}
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = time.AfterFunc(t.idle, t.onIdle)
	t.mu.Unlock()

	if send {
		t.emit(true)
	}
}

func (t *TypingNotifier) onIdle() {
	t.mu.Lock()
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		t.emit(false)
	}
}

// Stop cancels the idle timer and clears the indicator if it is
// showing. Call when the input loses focus or the message is sent.
func (t *TypingNotifier) Stop() {
	t.mu.Lock()
	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive {
		t.emit(false)
	}
}
