package ledger

import (
	"math/rand"
	"time"
)

// Reconnect backoff parameters: seed 3s doubling to a 60s cap, plus up to
// 500ms of random jitter. A successful reconnect resets to the seed.
const (
	backoffSeed   = 3 * time.Second
	backoffCap    = 60 * time.Second
	backoffJitter = 500 * time.Millisecond
)

// reconnectBackoff tracks the delay before the next connection attempt.
// Not safe for concurrent use; the connection loop owns it.
type reconnectBackoff struct {
	next time.Duration
	rng  *rand.Rand
}

func newReconnectBackoff() *reconnectBackoff {
	return &reconnectBackoff{
		next: backoffSeed,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to wait before the upcoming attempt and advances
// the schedule.
func (b *reconnectBackoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > backoffCap {
		b.next = backoffCap
	}
	return d + time.Duration(b.rng.Int63n(int64(backoffJitter)))
}

// Reset returns the schedule to the seed delay.
func (b *reconnectBackoff) Reset() {
	b.next = backoffSeed
}
