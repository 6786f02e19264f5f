package archive

import "time"

// backoff is the reconnect delay state carried across session failures.
// The first failure retries immediately; the next waits one unit and each
// further failure doubles the wait. Once the pending delay passes the cap the
// session gives up for good instead of retrying forever. A successful return
// to streaming resets the state.
type backoff struct {
	unit  time.Duration
	delay time.Duration
}

const (
	defaultBackoffUnit = time.Second
	backoffMaxUnits    = 32
)

func newBackoff(unit time.Duration) backoff {
	if unit <= 0 {
		unit = defaultBackoffUnit
	}
	return backoff{unit: unit}
}

// next returns the delay to wait before the upcoming attempt and advances the
// state. ok is false when the retry budget is exhausted.
func (b *backoff) next() (delay time.Duration, ok bool) {
	if b.delay > backoffMaxUnits*b.unit {
		return 0, false
	}
	delay = b.delay
	if b.delay == 0 {
		b.delay = b.unit
	} else {
		b.delay *= 2
	}
	return delay, true
}

// reset clears the state after a successful streaming transition.
func (b *backoff) reset() {
	b.delay = 0
}
