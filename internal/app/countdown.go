package app

// Countdown is the single session timer shared across both technical tabs.
// It has no pause or extension mechanism.
type Countdown struct {
	remaining int
	expired   bool
}

func NewCountdown(totalSeconds int) *Countdown {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return &Countdown{remaining: totalSeconds}
}

// Tick advances the countdown by one second. It returns true exactly once,
// on the tick that crosses zero; the displayed remaining time stays clamped
// at zero for every tick after that.
func (c *Countdown) Tick() bool {
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 && !c.expired {
		c.expired = true
		return true
	}
	return false
}

// Remaining is the seconds left, never negative.
func (c *Countdown) Remaining() int {
	return c.remaining
}

func (c *Countdown) Expired() bool {
	return c.expired
}

// Warning reports the last-ten-minutes threshold.
func (c *Countdown) Warning() bool {
	return c.remaining <= 600
}

// Critical reports the last-five-minutes threshold.
func (c *Countdown) Critical() bool {
	return c.remaining <= 300
}
