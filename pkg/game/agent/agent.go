// Package agent implements the animatronics: a per-agent state machine that
// patrols or hunts through the room graph, waits at the office threshold and
// winds up an attack once inside.
package agent

import (
	"math/rand"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/resources"
)

// Behaviour tuning.
const (
	MoodInterval      = 2.0
	MaxAggro          = 2.0
	MaxPersonalAggro  = 2.5
	MinMoveInterval   = 0.7
	BlockHuntDuration = 12.0
	OfficeRetreat     = 4.0
	HallRetreat       = 8.0
	HallPatience      = 3.0
	AlertDuration     = 10.0
	AlertCooldown     = 6.0
	EnrageDuration    = 30.0
	EnrageAggro       = 0.3
	ErraticChance     = 0.05
	memoryWindow      = 60.0
)

// Context is the read-only world an agent sees during an update.
type Context struct {
	Graph      *world.RoomGraph
	Minutes    int
	Night      int
	Difficulty float64
	// Elapsed is real seconds since the night started.
	Elapsed float64
	Rand    *rand.Rand
}

// Block is one remembered denial at the office.
type Block struct {
	Side resources.Side
	At   float64
}

// Agent is one animatronic. Its room is always a node of the room graph.
type Agent struct {
	Kind Kind
	Name string

	room      world.Room
	entryHall world.Room
	side      resources.Side
	route     []world.Room
	routeIdx  int

	state       State
	mood        Mood
	personality Personality
	traits      Traits
	ability     Ability

	baseAggro    float64
	bonusAggro   float64
	aggro        float64
	baseInterval float64
	moveInterval float64
	ramp         float64
	startDelay   int
	hallwayDelay float64

	moveCooldown float64
	moodTimer    float64
	huntTimer    float64
	huntTarget   world.Room
	retreatTimer float64
	commCooldown float64
	hallTimer    float64
	hallBlocked  float64
	windup       float64

	blockCount int
	memory     []Block
}

// Room returns the room the agent occupies.
func (a *Agent) Room() world.Room { return a.room }

// Side returns the office entry point the agent threatens.
func (a *Agent) Side() resources.Side { return a.side }

// State returns the behaviour state.
func (a *Agent) State() State { return a.state }

// Mood returns the current mood.
func (a *Agent) Mood() Mood { return a.mood }

// Personality returns tonight's archetype.
func (a *Agent) Personality() Personality { return a.personality }

// Traits returns tonight's personality scalars.
func (a *Agent) Traits() Traits { return a.traits }

// Ability returns tonight's special ability.
func (a *Agent) Ability() Ability { return a.ability }

// Aggro returns the adaptive aggression scalar.
func (a *Agent) Aggro() float64 { return a.aggro }

// BaseAggro returns the night's base aggression before learning.
func (a *Agent) BaseAggro() float64 { return a.baseAggro }

// BlockCount returns how many times the agent has been denied entry.
func (a *Agent) BlockCount() int { return a.blockCount }

// HuntTarget returns the room the agent is hunting toward, if any.
func (a *Agent) HuntTarget() world.Room { return a.huntTarget }

// HuntTimer returns the seconds of hunting left.
func (a *Agent) HuntTimer() float64 { return a.huntTimer }

// RetreatTimer returns the seconds the agent stays inert.
func (a *Agent) RetreatTimer() float64 { return a.retreatTimer }

// CommCooldown returns the seconds before the agent will heed another alert.
func (a *Agent) CommCooldown() float64 { return a.commCooldown }

// Windup returns the attack windup accumulated in the office.
func (a *Agent) Windup() float64 { return a.windup }

// HallwayDelay returns how long the agent waits at an open door before entering.
func (a *Agent) HallwayDelay() float64 { return a.hallwayDelay }

// StartDelay returns the minute the agent wakes.
func (a *Agent) StartDelay() int { return a.startDelay }

// EntryHall returns the hall the agent came through into the office.
func (a *Agent) EntryHall() world.Room { return a.entryHall }

// Route returns the patrol route in tonight's order.
func (a *Agent) Route() []world.Room {
	out := make([]world.Room, len(a.route))
	copy(out, a.route)
	return out
}

// Hunting reports whether the agent is pathing toward a hunt target.
func (a *Agent) Hunting() bool { return a.huntTimer > 0 }

// InOffice reports whether the agent is inside the office.
func (a *Agent) InOffice() bool {
	return a.state == InOfficeThreatening || a.state == Attacking
}

// Inert reports whether the agent is sitting out a retreat.
func (a *Agent) Inert() bool { return a.state == Retreating }

// Awake reports whether the agent has started moving tonight.
func (a *Agent) Awake(minutes int) bool { return minutes >= a.startDelay }

// Update advances the agent's own timers and movement by dt seconds. Office
// entry, windup and blocking are driven by the session and the arbiter.
func (a *Agent) Update(dt float64, ctx Context) {
	if dt <= 0 || a.state == Attacking || !a.Awake(ctx.Minutes) {
		return
	}

	if a.state == Retreating {
		a.retreatTimer = max(0, a.retreatTimer-dt)
		if a.retreatTimer > 0 {
			return
		}
		a.settle()
	}

	if a.huntTimer > 0 {
		a.huntTimer = max(0, a.huntTimer-dt)
		if a.huntTimer == 0 {
			a.endHunt()
		}
	}

	a.moodTimer += dt
	if a.moodTimer >= MoodInterval {
		a.moodTimer = 0
		a.mood = a.nextMood(ctx.Minutes, ctx.Night)
	}

	a.aggro = a.adaptiveAggro(ctx)
	a.applyPersonality(ctx)

	if a.state != InOfficeThreatening {
		a.moveCooldown -= dt
		if a.moveCooldown <= 0 {
			a.moveCooldown += a.interval(ctx.Difficulty)
			a.move(ctx.Graph)
		}
	}

	if a.commCooldown > 0 {
		a.commCooldown = max(0, a.commCooldown-dt)
	}
	a.settle()
}

func (a *Agent) endHunt() {
	if a.huntTarget != "" && a.huntTarget != world.Office {
		a.huntTarget = ""
	}
	if a.mood == Hunting {
		a.mood = Neutral
	}
}

// settle derives the state from the room and timers after a change.
func (a *Agent) settle() {
	switch {
	case a.state == Attacking:
	case a.room == world.Office:
		a.state = InOfficeThreatening
	case a.retreatTimer > 0:
		a.state = Retreating
	case a.Hunting() || a.mood.Seeks():
		a.state = MovingToTarget
	default:
		a.state = Patrolling
	}
}

func (a *Agent) nextMood(minutes, night int) Mood {
	switch {
	case a.Hunting():
		return Hunting
	case a.blockCount >= 3:
		return Hunting
	case minutes >= 180 || night >= 2:
		return Aggressive
	case a.blockCount >= 2 || minutes >= 60:
		return Cautious
	default:
		return Hunting
	}
}

// adaptiveAggro is the single danger scalar: base scaled by difficulty plus
// learning from blocks, the fraction of the night elapsed and the night number.
func (a *Agent) adaptiveAggro(ctx Context) float64 {
	timeFactor := float64(ctx.Minutes) / 360.0 * a.ramp
	v := a.baseAggro*ctx.Difficulty +
		float64(a.blockCount)*0.05 +
		timeFactor +
		nights.AggroNightFactor(ctx.Night) +
		a.bonusAggro
	return min(v, MaxAggro)
}

func (a *Agent) applyPersonality(ctx Context) {
	switch a.personality {
	case PersonalityAggressive:
		a.aggro = min(MaxPersonalAggro, a.aggro*1.1)
	case PersonalityErratic:
		if ctx.Rand != nil && ctx.Rand.Float64() < ErraticChance {
			a.mood = []Mood{Aggressive, Cautious, Neutral}[ctx.Rand.Intn(3)]
		}
	}
}

// interval is the seconds between move attempts. Higher difficulty and
// higher aggression both shorten it.
func (a *Agent) interval(difficulty float64) float64 {
	return max(MinMoveInterval, a.moveInterval/max(0.6, difficulty)/(1+a.aggro*0.6))
}

func (a *Agent) move(g *world.RoomGraph) {
	if g == nil {
		return
	}
	if a.Hunting() || a.mood.Seeks() {
		target := a.huntTarget
		if target == "" {
			target = g.Office()
		}
		a.stepToward(g, target)
		return
	}
	a.patrol()
}

// stepToward takes one greedy step. The office itself is only entered
// through the entry gate, never by walking.
func (a *Agent) stepToward(g *world.RoomGraph, target world.Room) {
	next, ok := g.StepToward(a.room, target)
	if !ok || next == g.Office() {
		return
	}
	a.room = next
}

func (a *Agent) patrol() {
	if len(a.route) == 0 {
		return
	}
	a.routeIdx = (a.routeIdx + 1) % len(a.route)
	a.room = a.route[a.routeIdx]
}

// AtThreshold reports whether the agent stands in an entry hall and is free
// to act on it.
func (a *Agent) AtThreshold(g *world.RoomGraph) bool {
	return a.state != Retreating && a.state != Attacking && g.IsEntryHall(a.room)
}

// WaitAtOpenDoor accrues time at an open threshold door.
func (a *Agent) WaitAtOpenDoor(dt float64) {
	a.hallTimer += dt
	a.hallBlocked = 0
}

// ReadyToEnter reports whether the agent has waited long enough at the door.
func (a *Agent) ReadyToEnter() bool {
	return a.hallTimer >= a.hallwayDelay
}

// HallPatience returns how long the agent will push on a closed door.
func (a *Agent) HallPatience() float64 {
	if a.personality == PersonalityRelentless {
		return HallPatience * 1.5
	}
	return HallPatience
}

// PushClosedDoor accrues frustration at a closed threshold door. It returns
// true when the agent gives up and retreats away from the office.
func (a *Agent) PushClosedDoor(dt float64, g *world.RoomGraph) bool {
	a.hallTimer = 0
	a.hallBlocked += dt
	if a.hallBlocked < a.HallPatience() {
		return false
	}

	var away []world.Room
	for _, n := range g.NeighborList(a.room) {
		if n != g.Office() {
			away = append(away, n)
		}
	}
	a.hallBlocked = 0
	if len(away) == 0 {
		return false
	}
	a.room = away[a.blockCount%len(away)]
	a.mood = RetreatingMood
	a.startRetreat(HallRetreat)
	return true
}

// LeaveThreshold clears hallway timers once the agent is no longer at a door.
func (a *Agent) LeaveThreshold() {
	a.hallTimer = 0
	a.hallBlocked = 0
}

// EnterOffice moves the agent from its hall into the office and starts the windup.
func (a *Agent) EnterOffice(office world.Room) {
	a.entryHall = a.room
	a.room = office
	a.windup = 0
	a.hallTimer = 0
	a.hallBlocked = 0
	a.state = InOfficeThreatening
}

// CanStrike reports whether the agent's way in is currently undefended.
func (a *Agent) CanStrike(o *resources.Office) bool {
	if !a.InOffice() {
		return false
	}
	switch a.side {
	case resources.Left, resources.Right:
		return !o.Closed(a.side)
	default:
		return !o.BothClosed()
	}
}

// IsBlockedBy reports whether the office's doors are denying this agent.
func (a *Agent) IsBlockedBy(o *resources.Office) bool {
	return a.InOffice() && !a.CanStrike(o)
}

// AdvanceWindup adds dt, scaled by mood, to the attack windup and reports
// whether the required threshold was reached.
func (a *Agent) AdvanceWindup(dt, required float64) bool {
	a.windup += dt * a.mood.Multiplier()
	return a.windup >= required
}

// ResetWindup zeroes the windup, for example while the player hides.
func (a *Agent) ResetWindup() {
	a.windup = 0
}

// WantsToAttack reports whether the windup has met required.
func (a *Agent) WantsToAttack(required float64) bool {
	return a.InOffice() && a.windup >= required
}

// Attack moves the agent into the terminal state.
func (a *Agent) Attack() {
	a.state = Attacking
}

// Block records a denial at the office, sends the agent back out and sets
// it hunting the office again once it recovers.
func (a *Agent) Block(side resources.Side, g *world.RoomGraph, elapsed float64) {
	a.blockCount++
	a.memory = append(a.memory, Block{Side: side, At: elapsed})
	a.huntTimer = BlockHuntDuration
	a.huntTarget = g.Office()
	a.mood = Aggressive
	a.windup = 0

	if a.room == g.Office() {
		halls := g.EntryHalls()
		if len(halls) > 0 {
			a.room = halls[a.blockCount%len(halls)]
		}
	}
	a.startRetreat(OfficeRetreat)
}

// Expel returns the agent to the hall it came from without counting a block.
func (a *Agent) Expel() {
	if a.entryHall != "" {
		a.room = a.entryHall
	}
	a.windup = 0
	a.startRetreat(OfficeRetreat)
}

func (a *Agent) startRetreat(seconds float64) {
	if a.personality == PersonalityCautious {
		seconds *= 1.25
	}
	a.retreatTimer = seconds
	a.hallTimer = 0
	a.hallBlocked = 0
	a.state = Retreating
}

// Lure sends the agent hunting toward room for a time set by its hearing and patience.
func (a *Agent) Lure(room world.Room) {
	a.huntTarget = room
	a.huntTimer = clamp(6+a.traits.SoundSensitivity*3+a.traits.Patience*2, 5, 12)
	a.settle()
}

// Alert makes the agent join a hunt another agent started. It is ignored
// while the agent's communication cooldown runs or it is already hunting.
func (a *Agent) Alert(target world.Room) bool {
	if a.Hunting() || a.commCooldown > 0 || a.state == Attacking {
		return false
	}
	a.huntTarget = target
	a.huntTimer = AlertDuration
	a.mood = Hunting
	a.commCooldown = AlertCooldown
	a.settle()
	return true
}

// Enrage is applied once when backup power runs out.
func (a *Agent) Enrage(office world.Room) {
	a.mood = Hunting
	a.huntTarget = office
	a.huntTimer = EnrageDuration
	a.bonusAggro += EnrageAggro
	a.settle()
}

// Escalate is applied to agents sharing the office late in the night.
func (a *Agent) Escalate() {
	a.mood = Aggressive
	a.bonusAggro += 0.1
	a.blockCount++
}

// RecentBlocks returns the blocks remembered within the last minute of night time.
func (a *Agent) RecentBlocks(elapsed float64) []Block {
	var out []Block
	for _, b := range a.memory {
		if elapsed-b.At < memoryWindow {
			out = append(out, b)
		}
	}
	return out
}

// SwitchSide changes which door the agent threatens. Vent agents never switch.
func (a *Agent) SwitchSide(side resources.Side) bool {
	if a.side == resources.VentSide || side == resources.VentSide || side == a.side {
		return false
	}
	a.side = side
	return true
}

// HiddenFromCameras reports whether the agent's ability masks it this minute.
func (a *Agent) HiddenFromCameras(minutes int) bool {
	return a.ability == AbilityCameraJammer && minutes%2 == 1
}

// PressureMultiplier scales how hard the agent pushes on a closed door.
func (a *Agent) PressureMultiplier() float64 {
	if a.ability == AbilityDoorBreaker {
		return 1.5
	}
	return 1
}

// ExtraDrain is power per second the agent saps while at the threshold.
func (a *Agent) ExtraDrain() float64 {
	if a.ability == AbilityPowerDrainer {
		return 0.05
	}
	return 0
}

// Silent reports whether the agent's office entry goes unannounced.
func (a *Agent) Silent() bool {
	return a.ability == AbilitySilentStalker
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
