package services

import (
	"sync"
	"time"
)

// rateState holds the previous counter reading for one computer.
type rateState struct {
	bytesSent int64
	bytesRecv int64
	at        time.Time
}

// RateTracker derives per-second network throughput from successive counter
// readings. State is kept per computer; the map is safe for concurrent use
// across computers. The collector never polls the same computer twice in one
// cycle, so per-computer transitions are naturally serialized.
type RateTracker struct {
	mu   sync.Mutex
	prev map[int64]rateState
}

// NewRateTracker creates an empty rate tracker
func NewRateTracker() *RateTracker {
	return &RateTracker{
		prev: make(map[int64]rateState),
	}
}

// Rate returns per-second sent/recv rates for the given counter reading.
// The first reading for a computer yields {0, 0}. A reading whose elapsed
// time against the previous one is <= 0 yields {0, 0} and leaves the stored
// state untouched. A counter that went backwards (reset) clamps to 0.
func (t *RateTracker) Rate(computerID int64, bytesSent, bytesRecv int64, now time.Time) (sentPerSec, recvPerSec float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.prev[computerID]
	if ok {
		elapsed := now.Sub(prev.at).Seconds()
		if elapsed <= 0 {
			return 0, 0
		}
		sentPerSec = clampRate(bytesSent-prev.bytesSent, elapsed)
		recvPerSec = clampRate(bytesRecv-prev.bytesRecv, elapsed)
	}

	t.prev[computerID] = rateState{
		bytesSent: bytesSent,
		bytesRecv: bytesRecv,
		at:        now,
	}
	return sentPerSec, recvPerSec
}

// Forget drops the stored state for a computer, e.g. after removal.
func (t *RateTracker) Forget(computerID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.prev, computerID)
}

func clampRate(delta int64, elapsed float64) float64 {
	if delta < 0 {
		return 0
	}
	return float64(delta) / elapsed
}
