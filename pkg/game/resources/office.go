package resources

import "nightshift/pkg/engine/world"

// Side identifies an office entry point.
type Side int

const (
	Left Side = iota
	Right
	// VentSide bypasses both doors and only needs one of them open.
	VentSide
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case VentSide:
		return "vent"
	default:
		return "unknown"
	}
}

// Door tuning.
const (
	MaxDoorHealth   = 100.0
	DoorCloseCost   = 6.0
	DoorWearRate    = 1.2 // per second while closed, times difficulty
	DoorJamDuration = 4.5
	JamDecayRate    = 1.5 // jam seconds removed per real second
	MaxBarricade    = 3
	BarricadeRepair = 25.0
)

// Flashlight tuning.
const (
	MaxBattery          = 100.0
	BatteryDrainRate    = 2.0
	BatteryRechargeRate = 1.0
	BatteryRelight      = 10.0
)

// Door is one office door. Health measures how long the current closure
// can hold; it returns to full the moment the door is opened.
type Door struct {
	Closed    bool
	Health    float64
	JamTimer  float64
	Barricade int
}

// Jammed reports whether the door is stuck open.
func (d Door) Jammed() bool {
	return d.JamTimer > 0
}

// CanClose reports whether a close attempt would be accepted.
func (d Door) CanClose() bool {
	return !d.Jammed() && d.Health > 0
}

// DoorResult describes what a door toggle did.
type DoorResult int

const (
	DoorOpened DoorResult = iota
	DoorClosed
	DoorRejectedJammed
	DoorRejectedOutage
)

// Accepted reports whether the toggle changed the door.
func (r DoorResult) Accepted() bool {
	return r == DoorOpened || r == DoorClosed
}

// Report lists what happened during an office update.
type Report struct {
	Broken     []Side
	Overloaded bool
	LightDied  bool
}

// Office holds the player's defences.
type Office struct {
	doors   [2]Door
	lightOn bool
	battery float64
	cams    *Cameras

	// powerCut locks every manual toggle until the next night.
	powerCut bool
}

// NewOffice returns an office with both doors open and full integrity.
func NewOffice(feeds []world.Room) *Office {
	o := &Office{cams: NewCameras(feeds)}
	o.Reset()
	return o
}

// Reset restores the start-of-night state.
func (o *Office) Reset() {
	for i := range o.doors {
		o.doors[i] = Door{Health: MaxDoorHealth}
	}
	o.lightOn = false
	o.battery = MaxBattery
	o.powerCut = false
	o.cams.Reset()
}

// Door returns a copy of the door on side. VentSide has no door and reports an open one.
func (o *Office) Door(side Side) Door {
	if side != Left && side != Right {
		return Door{Health: MaxDoorHealth}
	}
	return o.doors[side]
}

// Closed reports whether the door on side is shut.
func (o *Office) Closed(side Side) bool {
	return o.Door(side).Closed
}

// BothClosed reports whether both doors are shut.
func (o *Office) BothClosed() bool {
	return o.doors[Left].Closed && o.doors[Right].Closed
}

// BothOpen reports whether neither door is shut.
func (o *Office) BothOpen() bool {
	return !o.doors[Left].Closed && !o.doors[Right].Closed
}

// AnyClosed reports whether at least one door is shut.
func (o *Office) AnyClosed() bool {
	return o.doors[Left].Closed || o.doors[Right].Closed
}

// AnyJammed reports whether either door is stuck open.
func (o *Office) AnyJammed() bool {
	return o.doors[Left].Jammed() || o.doors[Right].Jammed()
}

// AverageHealth returns the mean integrity of both doors.
func (o *Office) AverageHealth() float64 {
	return (o.doors[Left].Health + o.doors[Right].Health) / 2
}

// LightOn reports whether the light is on.
func (o *Office) LightOn() bool {
	return o.lightOn
}

// Battery returns the flashlight battery in [0, MaxBattery].
func (o *Office) Battery() float64 {
	return o.battery
}

// Cameras returns the camera system.
func (o *Office) Cameras() *Cameras {
	return o.cams
}

// PowerCut reports whether an outage has locked the controls.
func (o *Office) PowerCut() bool {
	return o.powerCut
}

// Load returns the subsystems currently drawing power.
func (o *Office) Load() Load {
	return Load{
		DoorClosed: o.AnyClosed(),
		Light:      o.lightOn,
		Cameras:    o.cams.Open(),
	}
}

// ToggleDoor opens a closed door or closes an open one.
func (o *Office) ToggleDoor(side Side) DoorResult {
	if side != Left && side != Right {
		return DoorRejectedJammed
	}
	if o.powerCut {
		return DoorRejectedOutage
	}

	d := &o.doors[side]
	if d.Closed {
		d.Closed = false
		d.Health = MaxDoorHealth
		return DoorOpened
	}
	if !d.CanClose() {
		return DoorRejectedJammed
	}
	d.Closed = true
	d.Health = max(0, d.Health-DoorCloseCost)
	return DoorClosed
}

// ToggleLight flips the light. It is refused during an outage and while
// the battery is recovering from empty.
func (o *Office) ToggleLight() bool {
	if o.powerCut {
		return false
	}
	if !o.lightOn && o.battery < BatteryRelight {
		return false
	}
	o.lightOn = !o.lightOn
	return true
}

// ToggleCameras opens or closes the monitor. It returns false if refused.
func (o *Office) ToggleCameras() bool {
	if o.powerCut {
		return false
	}
	return o.cams.Toggle()
}

// ApplyPressure removes integrity from a closed door. It returns true if the
// door broke as a result.
func (o *Office) ApplyPressure(side Side, amount float64) bool {
	if side != Left && side != Right || amount <= 0 {
		return false
	}
	d := &o.doors[side]
	if !d.Closed {
		return false
	}
	d.Health = max(0, d.Health-amount)
	if d.Health <= 0 && !d.Jammed() {
		o.breakDoor(side)
		return true
	}
	return false
}

// breakDoor forces the door open and jams it. Integrity is restored because
// the door is now open.
func (o *Office) breakDoor(side Side) {
	d := &o.doors[side]
	d.Closed = false
	d.Health = MaxDoorHealth
	d.JamTimer = DoorJamDuration
}

// Barricade reinforces the weaker door that still has room for another
// plank. It returns the side used and false if neither door qualifies.
func (o *Office) Barricade() (Side, bool) {
	if o.powerCut {
		return Left, false
	}

	best, found := Left, false
	for _, side := range []Side{Left, Right} {
		d := o.doors[side]
		if d.Barricade >= MaxBarricade {
			continue
		}
		if !found || d.Health < o.doors[best].Health {
			best, found = side, true
		}
	}
	if !found {
		return Left, false
	}

	d := &o.doors[best]
	d.Barricade++
	d.Health = min(MaxDoorHealth, d.Health+BarricadeRepair)
	return best, true
}

// ForceOutage opens both doors, kills the light and closes the cameras.
// Every toggle is refused afterwards until Reset.
func (o *Office) ForceOutage() {
	o.powerCut = true
	for i := range o.doors {
		o.doors[i].Closed = false
		o.doors[i].Health = MaxDoorHealth
	}
	o.lightOn = false
	o.cams.ForceClose(0)
}

// Update advances timers by dt seconds: jam recovery, closed-door wear,
// the flashlight battery and camera heat.
func (o *Office) Update(dt, difficulty float64) Report {
	var rep Report
	if dt <= 0 {
		return rep
	}

	for _, side := range []Side{Left, Right} {
		d := &o.doors[side]
		if d.JamTimer > 0 {
			d.JamTimer = max(0, d.JamTimer-dt*JamDecayRate)
		}
		if !d.Closed {
			d.Health = MaxDoorHealth
			continue
		}
		d.Health = max(0, d.Health-DoorWearRate*difficulty*dt)
		if d.Health <= 0 && !d.Jammed() {
			o.breakDoor(side)
			rep.Broken = append(rep.Broken, side)
		}
	}

	if o.lightOn {
		o.battery = max(0, o.battery-BatteryDrainRate*dt)
		if o.battery <= 0 {
			o.lightOn = false
			rep.LightDied = true
		}
	} else {
		o.battery = min(MaxBattery, o.battery+BatteryRechargeRate*dt)
	}

	rep.Overloaded = o.cams.Update(dt)
	return rep
}
