package resources

import "nightshift/pkg/engine/world"

// Camera heat tuning.
const (
	MaxHeat          = 100.0
	HeatRiseRate     = 6.0
	HeatCoolRate     = 9.0
	OverloadCooldown = 5.0
)

// DefaultFeeds is the camera order on the monitor.
var DefaultFeeds = []world.Room{
	world.Stage,
	world.DiningArea,
	world.Backstage,
	world.Kitchen,
	world.WestHall,
	world.EastHall,
	world.Cafeteria,
	world.Gym,
	world.Library,
	world.Bathrooms,
	world.Vent,
	world.SupplyCloset,
	world.Restrooms,
}

// Cameras is the monitor: which feed is selected, whether it is up, and how
// hot it is running.
type Cameras struct {
	feeds    []world.Room
	index    int
	open     bool
	heat     float64
	overload float64
}

// NewCameras returns a closed monitor showing the first feed.
func NewCameras(feeds []world.Room) *Cameras {
	f := make([]world.Room, len(feeds))
	copy(f, feeds)
	return &Cameras{feeds: f}
}

// Reset closes the monitor, cools it and selects the first feed.
func (c *Cameras) Reset() {
	c.index = 0
	c.open = false
	c.heat = 0
	c.overload = 0
}

// Open reports whether the monitor is up.
func (c *Cameras) Open() bool { return c.open }

// Heat returns the monitor heat in [0, MaxHeat].
func (c *Cameras) Heat() float64 { return c.heat }

// Overloaded reports whether the monitor is cooling down after overheating.
func (c *Cameras) Overloaded() bool { return c.overload > 0 }

// Index returns the selected feed.
func (c *Cameras) Index() int { return c.index }

// Feeds returns the rooms covered, in monitor order.
func (c *Cameras) Feeds() []world.Room {
	out := make([]world.Room, len(c.feeds))
	copy(out, c.feeds)
	return out
}

// Current returns the room shown on the selected feed.
func (c *Cameras) Current() world.Room {
	if c.index < 0 || c.index >= len(c.feeds) {
		return ""
	}
	return c.feeds[c.index]
}

// Covers reports whether room has a camera.
func (c *Cameras) Covers(room world.Room) bool {
	for _, f := range c.feeds {
		if f == room {
			return true
		}
	}
	return false
}

// Toggle flips the monitor. Opening is refused while overloaded.
func (c *Cameras) Toggle() bool {
	if !c.open && c.Overloaded() {
		return false
	}
	c.open = !c.open
	return true
}

// Switch selects feed i. Out of range indexes are refused.
func (c *Cameras) Switch(i int) bool {
	if i < 0 || i >= len(c.feeds) {
		return false
	}
	c.index = i
	return true
}

// ForceClose drops the monitor and holds it shut for cooldown seconds.
func (c *Cameras) ForceClose(cooldown float64) {
	c.open = false
	c.overload = max(c.overload, cooldown)
}

// Update moves heat for dt seconds and returns true on the tick the monitor overheats.
func (c *Cameras) Update(dt float64) bool {
	if c.overload > 0 {
		c.overload = max(0, c.overload-dt)
	}
	if !c.open {
		c.heat = max(0, c.heat-HeatCoolRate*dt)
		return false
	}

	c.heat = min(MaxHeat, c.heat+HeatRiseRate*dt)
	if c.heat < MaxHeat {
		return false
	}
	c.ForceClose(OverloadCooldown)
	return true
}
