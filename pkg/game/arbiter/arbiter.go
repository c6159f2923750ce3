// Package arbiter coordinates the agents as a group. It shares hunting
// intent, decides how many agents may be inside the office at once, spaces
// out entries per side, and holds entries back for a moment after a door
// breaks or the cameras overload.
package arbiter

import (
	"sort"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/resources"
)

// Fairness tuning.
const (
	DefaultMaxAttackers = 2
	BaseEntryCooldown   = 6.0
	MaxEntryCooldown    = 12.0
	LowPower            = 20.0
	LowDoorHealth       = 30.0
	BreachGrace         = 3.0
	OverloadGrace       = 3.0
	PackCooldown        = 12.0
	PackMinMinutes      = 60
	sideSwitchMinBlocks = 3
	sideSwitchLookback  = 5
)

// Signals are the defensive weaknesses the arbiter reacts to.
type Signals struct {
	BothDoorsOpen     bool
	Power             float64
	CamerasDown       bool
	AverageDoorHealth float64
	AnyJammed         bool
}

// SignalsFrom reads the signals off the office and power state.
func SignalsFrom(o *resources.Office, p *resources.Power) Signals {
	return Signals{
		BothDoorsOpen:     o.BothOpen(),
		Power:             p.Level(),
		CamerasDown:       p.Outage() || o.Cameras().Overloaded(),
		AverageDoorHealth: o.AverageHealth(),
		AnyJammed:         o.AnyJammed(),
	}
}

// Arbiter holds the cross-agent rules and timers.
type Arbiter struct {
	maxAttackers  int
	entryCooldown float64
	sideCooldown  [3]float64
	breachGrace   float64
	overloadGrace float64
	packTimer     float64

	admitted map[*agent.Agent]int
	seq      int
}

// New returns an arbiter with no timers running.
func New() *Arbiter {
	return &Arbiter{
		maxAttackers:  DefaultMaxAttackers,
		entryCooldown: BaseEntryCooldown,
		admitted:      make(map[*agent.Agent]int),
	}
}

// MaxOfficeAttackers returns the occupancy cap computed on the last update.
func (ar *Arbiter) MaxOfficeAttackers() int { return ar.maxAttackers }

// EntryCooldown returns the per-side spacing applied to the next admission.
func (ar *Arbiter) EntryCooldown() float64 { return ar.entryCooldown }

// SideCooldown returns the seconds before side may admit another agent.
func (ar *Arbiter) SideCooldown(side resources.Side) float64 {
	if side < 0 || int(side) >= len(ar.sideCooldown) {
		return 0
	}
	return ar.sideCooldown[side]
}

// BreachGrace returns the seconds left on the door-break grace period.
func (ar *Arbiter) BreachGrace() float64 { return ar.breachGrace }

// OverloadGrace returns the seconds left on the camera-overload grace period.
func (ar *Arbiter) OverloadGrace() float64 { return ar.overloadGrace }

// GraceActive reports whether any grace period is running.
func (ar *Arbiter) GraceActive() bool {
	return ar.breachGrace > 0 || ar.overloadGrace > 0
}

// StartBreachGrace opens the grace window after a door breaks. The cap
// drops to one straight away rather than on the next Update.
func (ar *Arbiter) StartBreachGrace() {
	ar.breachGrace = max(ar.breachGrace, BreachGrace)
	ar.maxAttackers = 1
}

// StartOverloadGrace opens the grace window after the cameras overheat.
func (ar *Arbiter) StartOverloadGrace() {
	ar.overloadGrace = max(ar.overloadGrace, OverloadGrace)
	ar.maxAttackers = 1
}

// Update decays the timers by dt and recomputes the cap and entry cooldown.
func (ar *Arbiter) Update(dt float64, sig Signals) {
	if dt > 0 {
		for i := range ar.sideCooldown {
			ar.sideCooldown[i] = max(0, ar.sideCooldown[i]-dt)
		}
		ar.breachGrace = max(0, ar.breachGrace-dt)
		ar.overloadGrace = max(0, ar.overloadGrace-dt)
		ar.packTimer = max(0, ar.packTimer-dt)
	}
	ar.recompute(sig)
}

func (ar *Arbiter) recompute(sig Signals) {
	lowPower := sig.Power < LowPower
	lowHealth := sig.AverageDoorHealth < LowDoorHealth

	limit := DefaultMaxAttackers
	if sig.BothDoorsOpen || lowPower || sig.CamerasDown || lowHealth || sig.AnyJammed || ar.GraceActive() {
		limit = 1
	}
	ar.maxAttackers = limit

	cd := BaseEntryCooldown
	if lowPower {
		cd += 2
	}
	if sig.CamerasDown {
		cd += 1.5
	}
	if lowHealth {
		cd += 2
	}
	if sig.BothDoorsOpen {
		cd += 1
	}
	ar.entryCooldown = max(BaseEntryCooldown, min(MaxEntryCooldown, cd))
}

// OfficeCount returns how many agents are inside the office.
func OfficeCount(agents []*agent.Agent) int {
	n := 0
	for _, a := range agents {
		if a.InOffice() {
			n++
		}
	}
	return n
}

// MayEnter is the entry gate. The agent must have waited out its hallway
// delay, its side must be off cooldown, no agent of the same side may be
// inside, the office must be below the cap and no grace period may be running.
func (ar *Arbiter) MayEnter(a *agent.Agent, agents []*agent.Agent) bool {
	if !a.ReadyToEnter() || ar.GraceActive() {
		return false
	}
	if ar.SideCooldown(a.Side()) > 0 {
		return false
	}
	for _, other := range agents {
		if other != a && other.InOffice() && other.Side() == a.Side() {
			return false
		}
	}
	return OfficeCount(agents) < ar.maxAttackers
}

// Admit moves a through the gate and starts its side's cooldown.
func (ar *Arbiter) Admit(a *agent.Agent, office world.Room) {
	a.EnterOffice(office)
	if s := a.Side(); s >= 0 && int(s) < len(ar.sideCooldown) {
		ar.sideCooldown[s] = ar.entryCooldown
	}
	ar.seq++
	ar.admitted[a] = ar.seq
}

// EnforceCap expels the most recent entrants while the office holds more
// agents than the current cap. It returns the agents expelled.
func (ar *Arbiter) EnforceCap(agents []*agent.Agent) []*agent.Agent {
	var inside []*agent.Agent
	for _, a := range agents {
		if a.InOffice() && a.State() != agent.Attacking {
			inside = append(inside, a)
		} else {
			delete(ar.admitted, a)
		}
	}
	excess := len(inside) - ar.maxAttackers
	if excess <= 0 {
		return nil
	}

	sort.SliceStable(inside, func(i, j int) bool {
		return ar.admitted[inside[i]] > ar.admitted[inside[j]]
	})
	expelled := inside[:excess]
	for _, a := range expelled {
		a.Expel()
		delete(ar.admitted, a)
	}
	return expelled
}

// Broadcast spreads the first hunter's target to every agent that is free
// to hear it. Agents still asleep at minutes neither lead nor join. It
// returns the agents that joined.
func (ar *Arbiter) Broadcast(agents []*agent.Agent, minutes int) []*agent.Agent {
	if len(agents) < 2 {
		return nil
	}

	var leader *agent.Agent
	for _, a := range agents {
		if a.Awake(minutes) && a.Hunting() {
			leader = a
			break
		}
	}
	if leader == nil || leader.HuntTarget() == "" {
		return nil
	}

	var joined []*agent.Agent
	for _, a := range agents {
		if a == leader || !a.Awake(minutes) {
			continue
		}
		if a.Alert(leader.HuntTarget()) {
			joined = append(joined, a)
		}
	}
	return joined
}

// Escalate applies the pack bump when two or more agents share the office
// late enough in the night. It returns true when the bump fired.
func (ar *Arbiter) Escalate(agents []*agent.Agent, minutes int) bool {
	if ar.packTimer > 0 || minutes < PackMinMinutes {
		return false
	}

	var inside []*agent.Agent
	for _, a := range agents {
		if a.InOffice() {
			inside = append(inside, a)
		}
	}
	if len(inside) < 2 {
		return false
	}
	for _, a := range inside {
		a.Escalate()
	}
	ar.packTimer = PackCooldown
	return true
}

// Rebalance moves agents away from a door the player keeps defending. It
// returns the agents that switched side.
func (ar *Arbiter) Rebalance(agents []*agent.Agent, elapsed float64) []*agent.Agent {
	var switched []*agent.Agent
	for _, a := range agents {
		if a.Side() == resources.VentSide {
			continue
		}
		recent := a.RecentBlocks(elapsed)
		if len(recent) < sideSwitchMinBlocks {
			continue
		}
		if len(recent) > sideSwitchLookback {
			recent = recent[len(recent)-sideSwitchLookback:]
		}

		left, right := 0, 0
		for _, b := range recent {
			switch b.Side {
			case resources.Left:
				left++
			case resources.Right:
				right++
			}
		}

		var want resources.Side
		switch {
		case left > right:
			want = resources.Right
		case right > left:
			want = resources.Left
		default:
			continue
		}
		if a.SwitchSide(want) {
			switched = append(switched, a)
		}
	}
	return switched
}
