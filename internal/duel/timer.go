package duel

// Timer counts down simulation ticks. A cancelled timer never fires, so a
// phase transition that cancels the pending timer cannot be followed by a
// stale expiry.
type Timer struct {
	remaining int
	running   bool
}

// Start arms the timer for ticks steps, replacing any pending countdown.
// Non-positive durations expire on the next Advance.
func (t *Timer) Start(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	t.remaining = ticks
	t.running = true
}

// Cancel disarms the timer.
func (t *Timer) Cancel() {
	t.remaining = 0
	t.running = false
}

// Running reports whether the timer is armed.
func (t *Timer) Running() bool { return t.running }

// Remaining returns the ticks left before expiry.
func (t *Timer) Remaining() int { return t.remaining }

// Advance consumes one tick and reports whether the timer expired on it.
// A stopped timer never expires.
func (t *Timer) Advance() bool {
	if !t.running {
		return false
	}
	t.remaining--
	if t.remaining > 0 {
		return false
	}
	t.running = false
	t.remaining = 0
	return true
}

// RemainingUnits rounds the remaining ticks up to whole time units.
func (t *Timer) RemainingUnits(tickRate int) int {
	if tickRate <= 0 || t.remaining <= 0 {
		return 0
	}
	return (t.remaining + tickRate - 1) / tickRate
}
