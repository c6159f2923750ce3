// Package clock converts real seconds into in-game minutes for one night.
package clock

import "fmt"

const (
	// NightMinutes is the length of a night: midnight to 6 AM.
	NightMinutes = 6 * 60

	DefaultSecondsPerHour = 60.0
	MinSecondsPerHour     = 15.0
	MaxSecondsPerHour     = 180.0

	// SurgeMultiplier scales power drain inside a surge window.
	SurgeMultiplier = 1.35
)

// surgeWindows are inclusive minute-in-hour ranges with elevated drain.
var surgeWindows = [][2]int{{15, 17}, {30, 32}, {45, 47}}

// Clock tracks minutes elapsed since the start of the night.
type Clock struct {
	secondsPerHour float64
	minutes        int
	carry          float64
}

// New returns a clock at midnight. secondsPerHour is clamped to the supported range.
func New(secondsPerHour float64) *Clock {
	return &Clock{secondsPerHour: ClampSecondsPerHour(secondsPerHour)}
}

// ClampSecondsPerHour limits a pacing value to [MinSecondsPerHour, MaxSecondsPerHour].
// Zero or negative values fall back to the default.
func ClampSecondsPerHour(v float64) float64 {
	switch {
	case v <= 0:
		return DefaultSecondsPerHour
	case v < MinSecondsPerHour:
		return MinSecondsPerHour
	case v > MaxSecondsPerHour:
		return MaxSecondsPerHour
	}
	return v
}

// Advance adds dt real seconds and returns how many minute boundaries were
// crossed. The clock stops at NightMinutes.
func (c *Clock) Advance(dt float64) int {
	if dt <= 0 || c.Done() {
		return 0
	}

	perMinute := max(0.01, c.secondsPerHour/60.0)
	c.carry += dt

	crossed := 0
	for c.carry >= perMinute {
		c.carry -= perMinute
		c.minutes++
		crossed++
		if c.Done() {
			c.carry = 0
			break
		}
	}
	return crossed
}

// Minutes returns whole minutes since midnight.
func (c *Clock) Minutes() int {
	return c.minutes
}

// Fraction returns how far through the night the clock is, in [0, 1].
func (c *Clock) Fraction() float64 {
	return min(1.0, float64(c.minutes)/NightMinutes)
}

// Done reports whether the night has reached 6 AM.
func (c *Clock) Done() bool {
	return c.minutes >= NightMinutes
}

// SecondsPerHour returns the configured pacing.
func (c *Clock) SecondsPerHour() float64 {
	return c.secondsPerHour
}

// MinuteInHour returns the minute within the current hour.
func (c *Clock) MinuteInHour() int {
	return c.minutes % 60
}

// SurgeActive reports whether the current minute falls inside a surge window.
func (c *Clock) SurgeActive() bool {
	m := c.MinuteInHour()
	for _, w := range surgeWindows {
		if m >= w[0] && m <= w[1] {
			return true
		}
	}
	return false
}

// Surge returns the drain multiplier for the current minute.
func (c *Clock) Surge() float64 {
	if c.SurgeActive() {
		return SurgeMultiplier
	}
	return 1.0
}

// PaceMultiplier scales drain with night length so short nights are not free.
// It is 0.625 at 15 s/hour, 1.0 at 60 s/hour and 2.0 at 180 s/hour.
func (c *Clock) PaceMultiplier() float64 {
	return 0.5 + (c.secondsPerHour/60.0)*0.5
}

// Hour returns the hour shown on a wall clock: 12, 1, 2 ... 6.
func (c *Clock) Hour() int {
	h := c.minutes / 60
	if h == 0 {
		return 12
	}
	return h
}

// String renders the clock as "12:05 AM".
func (c *Clock) String() string {
	return fmt.Sprintf("%d:%02d AM", c.Hour(), c.MinuteInHour())
}
