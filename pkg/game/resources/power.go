// Package resources models the office's depletable and degradable state:
// the power reserve, the two doors, the light and the camera system.
package resources

const (
	MaxPower = 100.0

	// EmergencyDuration is how long backup power holds after an outage.
	EmergencyDuration = 45.0
	// EmergencyReserve is the hidden reserve granted with backup power.
	EmergencyReserve = 15.0
)

// Drains are per-second power costs at 1x pace, no surge and difficulty 1.
type Drains struct {
	Base   float64
	Door   float64
	Light  float64
	Camera float64
}

// DefaultDrains is the drain table the game ships with.
var DefaultDrains = Drains{
	Base:   0.16,
	Door:   0.24,
	Light:  0.24,
	Camera: 0.32,
}

// Load is the set of subsystems drawing power this tick.
type Load struct {
	DoorClosed bool
	Light      bool
	Cameras    bool
}

// Power is the office's battery. The level only ever falls during a night.
type Power struct {
	drains Drains

	level     float64
	outage    bool
	emergency float64
	reserve   float64
	lastRate  float64
}

// NewPower returns a full battery.
func NewPower(drains Drains) *Power {
	return &Power{drains: drains, level: MaxPower}
}

// Level returns the remaining power in [0, MaxPower].
func (p *Power) Level() float64 {
	return p.level
}

// Outage reports whether the battery has run dry this night.
func (p *Power) Outage() bool {
	return p.outage
}

// Emergency reports whether backup power is still holding after an outage.
func (p *Power) Emergency() bool {
	return p.outage && p.emergency > 0
}

// EmergencyRemaining returns the seconds of backup power left.
func (p *Power) EmergencyRemaining() float64 {
	return p.emergency
}

// Reserve returns the hidden reserve held during emergency mode.
func (p *Power) Reserve() float64 {
	return p.reserve
}

// Rate returns the drain per second applied on the last tick.
func (p *Power) Rate() float64 {
	return p.lastRate
}

// RateFor computes the drain per second for a load. mult folds together the
// pace, surge and difficulty multipliers; extra is added unscaled.
func (p *Power) RateFor(load Load, mult, extra float64) float64 {
	rate := p.drains.Base
	if load.DoorClosed {
		rate += p.drains.Door
	}
	if load.Light {
		rate += p.drains.Light
	}
	if load.Cameras {
		rate += p.drains.Camera
	}
	return rate*mult + extra
}

// Drain removes power for dt seconds of the given load. It returns true on
// the tick the battery runs dry, which also starts emergency mode.
func (p *Power) Drain(dt float64, load Load, mult, extra float64) bool {
	if p.outage || dt <= 0 {
		p.lastRate = 0
		return false
	}

	p.lastRate = p.RateFor(load, mult, extra)
	p.level = max(0, p.level-p.lastRate*dt)

	if p.level > 0 {
		return false
	}
	p.outage = true
	p.emergency = EmergencyDuration
	p.reserve = EmergencyReserve
	return true
}

// Spend removes a fixed amount for an action. It refuses when the battery
// holds less than amount or is out.
func (p *Power) Spend(amount float64) bool {
	if p.outage || amount < 0 || p.level < amount {
		return false
	}
	p.level = max(0, p.level-amount)
	return true
}

// TickEmergency counts down backup power and returns true on the tick it runs out.
func (p *Power) TickEmergency(dt float64) bool {
	if !p.Emergency() || dt <= 0 {
		return false
	}
	p.emergency = max(0, p.emergency-dt)
	if p.emergency > 0 {
		return false
	}
	p.reserve = 0
	return true
}
