package realtime

import (
	"time"

	"github.com/paylio/realtime-go/internal/sync"
)

// backoff schedules reconnection retries with a linearly growing delay:
// the n-th attempt waits n × base, capped at max.
type backoff struct {
	base time.Duration
	max  time.Duration

	numAttempts   uint32
	numAttemptsMu sync.Mutex
}

func newBackoff(base time.Duration, max time.Duration) *backoff {
	return &backoff{
		base: base,
		max:  max,
	}
}

func (b *backoff) attempts() uint32 {
	b.numAttemptsMu.Lock()
	attempts := b.numAttempts
	b.numAttemptsMu.Unlock()
	return attempts
}

func (b *backoff) duration() time.Duration {
	b.numAttemptsMu.Lock()
	b.numAttempts++
	d := time.Duration(b.numAttempts) * b.base
	b.numAttemptsMu.Unlock()

	if d > b.max {
		return b.max
	}
	return d
}

func (b *backoff) reset() {
	b.numAttemptsMu.Lock()
	b.numAttempts = 0
	b.numAttemptsMu.Unlock()
}

// forceMax suppresses any further retries by exhausting the counter.
func (b *backoff) forceMax(max uint32) {
	b.numAttemptsMu.Lock()
	if b.numAttempts < max {
		b.numAttempts = max
	}
	b.numAttemptsMu.Unlock()
}
