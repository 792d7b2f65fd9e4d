package chess

import (
	"fmt"
	"time"
)

// Clock tracks each player's remaining time. Blitz gives the mover a fresh
// per-turn budget on every turn change; the other modes deduct from a
// per-player game budget. The engine never reads the clock: callers poll
// Expired and report a flag through Engine.TimeUp.
type Clock struct {
	mode      Mode
	settings  ModeSettings
	remaining map[Color]time.Duration
	running   Color
	since     time.Time
	stopped   bool
}

// NewClock starts white's clock at now.
func NewClock(mode Mode, now time.Time) *Clock {
	s := mode.Settings()
	budget := s.GameTimeLimit
	if s.TurnTimeLimit > 0 {
		budget = s.TurnTimeLimit
	}
	return &Clock{
		mode:     mode,
		settings: s,
		remaining: map[Color]time.Duration{
			White: budget,
			Black: budget,
		},
		running: White,
		since:   now,
	}
}

// Running returns the color whose clock is ticking.
func (c *Clock) Running() Color {
	return c.running
}

// Switch charges the elapsed time to the running player and starts to's
// clock.
func (c *Clock) Switch(to Color, now time.Time) {
	if c.stopped {
		return
	}
	c.charge(now)
	if c.settings.TurnTimeLimit > 0 {
		c.remaining[to] = c.settings.TurnTimeLimit
	}
	c.running = to
}

// Stop freezes both clocks.
func (c *Clock) Stop(now time.Time) {
	if c.stopped {
		return
	}
	c.charge(now)
	c.stopped = true
}

// Reset restores both budgets and starts white's clock.
func (c *Clock) Reset(now time.Time) {
	*c = *NewClock(c.mode, now)
}

// Remaining returns color's time left at now, never negative.
func (c *Clock) Remaining(color Color, now time.Time) time.Duration {
	left := c.remaining[color]
	if !c.stopped && color == c.running {
		left -= now.Sub(c.since)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports the running player once their time is gone.
func (c *Clock) Expired(now time.Time) (Color, bool) {
	if c.stopped {
		return "", false
	}
	if c.Remaining(c.running, now) <= 0 {
		return c.running, true
	}
	return "", false
}

func (c *Clock) charge(now time.Time) {
	c.remaining[c.running] -= now.Sub(c.since)
	if c.remaining[c.running] < 0 {
		c.remaining[c.running] = 0
	}
	c.since = now
}

// FormatTimeRemaining formats time remaining in a human-readable way
func FormatTimeRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return "Time expired"
	}

	minutes := int(remaining.Minutes())
	seconds := int(remaining.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
