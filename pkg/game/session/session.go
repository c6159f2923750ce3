// Package session runs one player's nights. A Session owns the clock, the
// office resources, the agents, the arbiter and the random source; nothing
// in the simulation lives outside it.
package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/arbiter"
	"nightshift/pkg/game/clock"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/save"
	"nightshift/pkg/game/state"
)

// MaxTickDelta is the longest step a single Update will simulate.
const MaxTickDelta = 1.0 / 30.0

// Session tuning.
const (
	HallPressure      = 3.2 // integrity per second per agent, times difficulty
	ComboWindow       = 5.0
	StatusDuration    = 3.0
	SafeSpotDuration  = 8.0
	SafeSpotThreat    = 50
	BarricadeMinPower = 15.0
	BarricadeCost     = 10.0
	saveTimeout       = 5 * time.Second
)

// SafeSpots are the hiding places available once each per night.
var SafeSpots = []string{"Closet", "Under Desk", "Vent"}

// Settings fix everything about a run that does not change between nights.
type Settings struct {
	SecondsPerHour float64
	Difficulty     float64
	// Seed drives every random draw. Zero picks one from the wall clock.
	Seed   int64
	Graph  *world.RoomGraph
	Roster []agent.Profile
	Feeds  []world.Room
	Drains resources.Drains
}

// DefaultSettings is the game as shipped.
func DefaultSettings() Settings {
	return Settings{
		SecondsPerHour: clock.DefaultSecondsPerHour,
		Difficulty:     save.DefaultDifficulty,
		Graph:          world.DefaultSchool(),
		Roster:         agent.DefaultRoster,
		Feeds:          resources.DefaultFeeds,
		Drains:         resources.DefaultDrains,
	}
}

// Stats are the per-night counters that feed the score.
type Stats struct {
	DoorCloses    int
	CameraChecks  int
	PerfectBlocks int
	FailedBlocks  int
	Combo         int
	BestCombo     int
	Entries       int
	DoorBreaks    int
	Lures         int
}

// Session is one run: a sequence of nights played by one player.
type Session struct {
	settings Settings
	log      *zap.Logger
	store    save.Store
	progress save.Progress
	runID    string
	seed     int64

	phase   state.Phase
	night   int
	rng     *rand.Rand
	graph   *world.RoomGraph
	clock   *clock.Clock
	power   *resources.Power
	office  *resources.Office
	noise   *resources.NoiseMaker
	agents  []*agent.Agent
	arbiter *arbiter.Arbiter
	events  *state.EventLog

	elapsed     float64
	stats       Stats
	comboTimer  float64
	threat      int
	score       int
	ending      Ending
	killer      *agent.Agent
	status      string
	statusTimer float64

	hideSpot  string
	hideTimer float64
	spotsLeft []string

	cues []Cue

	// carry is recorded when a night ends; nightCarry is what built the
	// current night, so a restart rebuilds the same cast.
	carry      agent.Carry
	nightCarry agent.Carry
}

// New returns a session sitting at the menu. store may be nil, in which
// case progress lives only in memory.
func New(settings Settings, logger *zap.Logger, store save.Store) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Graph == nil {
		settings.Graph = world.DefaultSchool()
	}
	if settings.Roster == nil {
		settings.Roster = agent.DefaultRoster
	}
	if settings.Feeds == nil {
		settings.Feeds = resources.DefaultFeeds
	}
	if settings.Drains == (resources.Drains{}) {
		settings.Drains = resources.DefaultDrains
	}
	settings.SecondsPerHour = clock.ClampSecondsPerHour(settings.SecondsPerHour)
	settings.Difficulty = save.ClampDifficulty(settings.Difficulty)

	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		settings: settings,
		store:    store,
		progress: save.NewDefault(),
		runID:    uuid.New().String(),
		seed:     seed,
		phase:    state.Menu,
		graph:    settings.Graph,
		events:   state.NewEventLog(),
	}
	s.log = logger.With(zap.String("run", s.runID))
	return s
}

// LoadProgress reads saved progress from the store. On error the defaults
// stay in place and the error is returned for the caller to report.
func (s *Session) LoadProgress(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	p, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("load progress failed", zap.Error(err))
		return err
	}
	s.progress = p
	return nil
}

// StartNight begins night n, clamped to the playable range.
func (s *Session) StartNight(n int) {
	s.night = nights.Clamp(n)
	s.nightCarry = s.carry
	s.reset()
	s.log.Info("night started",
		zap.Int("night", s.night),
		zap.Int64("seed", s.nightSeed()),
		zap.Float64("difficulty", s.settings.Difficulty),
		zap.Float64("seconds_per_hour", s.settings.SecondsPerHour),
	)
}

// RestartNight rebuilds the current night from scratch with the same cast.
func (s *Session) RestartNight() bool {
	if s.phase == state.Menu || s.night == 0 {
		return false
	}
	s.reset()
	s.log.Info("night restarted", zap.Int("night", s.night))
	return true
}

// ReturnToMenu abandons the current night.
func (s *Session) ReturnToMenu() {
	s.phase = state.Menu
	s.agents = nil
	s.killer = nil
	s.hideSpot = ""
}

// Pause freezes a night in progress.
func (s *Session) Pause() bool {
	if s.phase != state.Playing {
		return false
	}
	s.phase = state.Paused
	return true
}

// Resume continues a paused night.
func (s *Session) Resume() bool {
	if s.phase != state.Paused {
		return false
	}
	s.phase = state.Playing
	return true
}

func (s *Session) nightSeed() int64 {
	return s.seed + int64(s.night)*1_000_003
}

func (s *Session) reset() {
	s.rng = rand.New(rand.NewSource(s.nightSeed()))
	s.clock = clock.New(s.settings.SecondsPerHour)
	s.power = resources.NewPower(s.settings.Drains)
	s.office = resources.NewOffice(s.settings.Feeds)
	s.noise = resources.NewNoiseMaker()
	s.arbiter = arbiter.New()
	s.agents = agent.Build(s.rng, s.settings.Roster, s.night, s.nightCarry)
	s.events = state.NewEventLog()

	s.elapsed = 0
	s.stats = Stats{}
	s.comboTimer = 0
	s.score = 0
	s.ending = ""
	s.killer = nil
	s.status = ""
	s.statusTimer = 0
	s.hideSpot = ""
	s.hideTimer = 0
	s.spotsLeft = append([]string(nil), SafeSpots...)
	s.cues = nil

	s.arbiter.Update(0, arbiter.SignalsFrom(s.office, s.power))
	s.threat = s.computeThreat()
	s.phase = state.Playing
	s.events.AddMessage(nights.IntroText(s.night))
}

// Update advances the night by dt seconds. It does nothing unless a night is
// being played; dt is capped at MaxTickDelta.
func (s *Session) Update(dt float64) {
	if s.phase != state.Playing || !(dt > 0) {
		return
	}
	dt = min(dt, MaxTickDelta)
	s.elapsed += dt

	s.clock.Advance(dt)
	s.updateResources(dt)
	s.updateAgents(dt)
	s.coordinate(dt)
	if s.resolveOffice(dt) {
		return
	}
	s.threat = s.computeThreat()

	if s.clock.Done() {
		s.win()
	}
}

func (s *Session) updateResources(dt float64) {
	s.noise.Update(dt)
	s.tickTimers(dt)

	if s.power.Outage() {
		if s.power.TickEmergency(dt) {
			s.enrage()
		}
	} else {
		mult := s.clock.PaceMultiplier() * s.clock.Surge() * s.settings.Difficulty
		if s.power.Drain(dt, s.office.Load(), mult, s.abilityDrain()) {
			s.outage()
		}
	}

	rep := s.office.Update(dt, s.settings.Difficulty)
	for _, side := range rep.Broken {
		s.doorBroke(side)
	}
	if rep.Overloaded {
		s.arbiter.StartOverloadGrace()
		s.cue(CueOverload)
		s.events.AddMessage(gotext.Get("Cameras overheated!"))
		s.log.Debug("cameras overloaded", zap.String("clock", s.clock.String()))
	}
	if rep.LightDied {
		s.setStatus(gotext.Get("Flashlight battery empty."))
	}
}

func (s *Session) tickTimers(dt float64) {
	if s.comboTimer > 0 {
		s.comboTimer = max(0, s.comboTimer-dt)
		if s.comboTimer == 0 {
			s.stats.Combo = 0
		}
	}
	if s.hideTimer > 0 {
		s.hideTimer = max(0, s.hideTimer-dt)
		if s.hideTimer == 0 {
			s.hideSpot = ""
			s.setStatus(gotext.Get("You leave your hiding spot."))
		}
	}
	if s.statusTimer > 0 {
		s.statusTimer = max(0, s.statusTimer-dt)
		if s.statusTimer == 0 {
			s.status = ""
		}
	}
}

// abilityDrain is the extra power sapped by agents lurking next to the office.
func (s *Session) abilityDrain() float64 {
	var extra float64
	office := s.graph.Office()
	minutes := s.clock.Minutes()
	for _, a := range s.agents {
		if a.Awake(minutes) && !a.InOffice() && s.graph.Adjacent(a.Room(), office) {
			extra += a.ExtraDrain()
		}
	}
	return extra
}

func (s *Session) outage() {
	s.office.ForceOutage()
	s.cue(CuePowerOut)
	s.events.AddMessage(gotext.Get("Power out! Backup power engaged."))
	s.log.Warn("power outage", zap.Int("night", s.night), zap.String("clock", s.clock.String()))
}

func (s *Session) enrage() {
	for _, a := range s.agents {
		a.Enrage(s.graph.Office())
	}
	s.cue(CueEnrage)
	s.events.AddMessage(gotext.Get("Backup power is gone. They're coming."))
	s.log.Warn("emergency power exhausted", zap.Int("night", s.night), zap.String("clock", s.clock.String()))
}

func (s *Session) doorBroke(side resources.Side) {
	s.stats.DoorBreaks++
	s.arbiter.StartBreachGrace()
	for _, a := range s.arbiter.EnforceCap(s.agents) {
		s.log.Debug("agent expelled over cap", zap.String("agent", a.Name), zap.Int("cap", 1))
	}
	s.cue(CueDoorBreak)
	s.events.AddMessage(gotext.Get("The %s door was forced open!", side.String()))
	s.log.Info("door broken", zap.String("side", side.String()), zap.String("clock", s.clock.String()))
}

func (s *Session) updateAgents(dt float64) {
	ctx := agent.Context{
		Graph:      s.graph,
		Minutes:    s.clock.Minutes(),
		Night:      s.night,
		Difficulty: s.settings.Difficulty,
		Elapsed:    s.elapsed,
		Rand:       s.rng,
	}
	for _, a := range s.agents {
		a.Update(dt, ctx)
	}
}

func (s *Session) coordinate(dt float64) {
	s.arbiter.Update(dt, arbiter.SignalsFrom(s.office, s.power))

	for _, a := range s.arbiter.EnforceCap(s.agents) {
		s.log.Debug("agent expelled over cap", zap.String("agent", a.Name), zap.Int("cap", s.arbiter.MaxOfficeAttackers()))
	}
	for _, a := range s.arbiter.Broadcast(s.agents, s.clock.Minutes()) {
		s.log.Debug("agent joined hunt", zap.String("agent", a.Name), zap.String("target", string(a.HuntTarget())))
	}
	if s.arbiter.Escalate(s.agents, s.clock.Minutes()) {
		s.events.AddMessage(gotext.Get("They are working together..."))
	}
	for _, a := range s.arbiter.Rebalance(s.agents, s.elapsed) {
		s.log.Debug("agent switched side", zap.String("agent", a.Name), zap.String("side", a.Side().String()))
	}
}

// resolveOffice runs the threshold, block and windup checks. It returns
// true if an agent attacked.
func (s *Session) resolveOffice(dt float64) bool {
	minutes := s.clock.Minutes()
	required := nights.RequiredWindup(s.settings.Difficulty, s.night)

	for _, a := range s.agents {
		if !a.Awake(minutes) {
			continue
		}
		if a.AtThreshold(s.graph) {
			s.threshold(a, dt)
		} else if !a.InOffice() {
			a.LeaveThreshold()
		}

		if a.IsBlockedBy(s.office) {
			s.block(a)
			continue
		}
		if !a.InOffice() {
			continue
		}
		if s.Hiding() {
			a.ResetWindup()
			continue
		}
		if a.AdvanceWindup(dt, required) {
			a.Attack()
			s.jumpscare(a)
			return true
		}
	}
	return false
}

// hallDoors maps an entry hall to the door it faces.
func hallDoors(r world.Room) []resources.Side {
	switch r {
	case world.WestHall:
		return []resources.Side{resources.Left}
	case world.EastHall:
		return []resources.Side{resources.Right}
	default:
		return []resources.Side{resources.Left, resources.Right}
	}
}

func (s *Session) threshold(a *agent.Agent, dt float64) {
	sides := hallDoors(a.Room())
	closed := false
	for _, side := range sides {
		closed = closed || s.office.Closed(side)
	}

	if closed {
		amount := HallPressure * s.settings.Difficulty * a.PressureMultiplier() * dt
		for _, side := range sides {
			if s.office.ApplyPressure(side, amount) {
				s.doorBroke(side)
			}
		}
		if a.PushClosedDoor(dt, s.graph) {
			s.log.Debug("agent gave up at door", zap.String("agent", a.Name), zap.String("room", string(a.Room())))
		}
		return
	}

	a.WaitAtOpenDoor(dt)
	if !s.arbiter.MayEnter(a, s.agents) {
		return
	}
	s.arbiter.Admit(a, s.graph.Office())
	s.stats.Entries++
	if !a.Silent() {
		s.cue(CueEntry)
		s.events.AddMessage(gotext.Get("%s is in the office!", a.Name))
	}
	s.log.Info("agent entered office",
		zap.String("agent", a.Name),
		zap.String("via", string(a.EntryHall())),
		zap.String("clock", s.clock.String()),
	)
}

func (s *Session) block(a *agent.Agent) {
	a.Block(a.Side(), s.graph, s.elapsed)
	s.stats.FailedBlocks++
	s.cue(CueBlocked)
	s.events.AddMessage(gotext.Get("%s was shut out.", a.Name))
	s.log.Info("agent blocked",
		zap.String("agent", a.Name),
		zap.String("side", a.Side().String()),
		zap.Int("blocks", a.BlockCount()),
	)
}

func (s *Session) jumpscare(a *agent.Agent) {
	s.phase = state.Jumpscare
	s.killer = a
	s.cue(CueJumpscare)
	s.carry = agent.CarryFrom(s.agents)
	s.events.AddMessage(gotext.Get("%s got you.", a.Name))
	s.log.Info("jumpscare",
		zap.Int("night", s.night),
		zap.String("killer", a.Name),
		zap.String("clock", s.clock.String()),
	)
	s.recordResult(save.OutcomeJumpscare, 0, a.Name)
}

func (s *Session) win() {
	s.phase = state.Won
	s.score = Score(s.stats, s.power.Level(), s.night, s.settings.Difficulty)
	s.ending = EndingFor(s.night, s.score, s.power.Level())
	s.carry = agent.CarryFrom(s.agents)
	s.cue(CueBell)
	s.setStatus(s.ending.Text(s.night))
	s.log.Info("night survived",
		zap.Int("night", s.night),
		zap.Int("score", s.score),
		zap.String("ending", string(s.ending)),
		zap.Float64("power", s.power.Level()),
	)

	s.progress.RecordWin(s.night, s.score)
	s.progress.Difficulty = s.settings.Difficulty
	s.progress.SecondsPerHour = s.settings.SecondsPerHour
	s.persist()
	s.recordResult(save.OutcomeWon, s.score, "")
}

// persist writes progress. Failures are logged and never end the night.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.progress); err != nil {
		s.log.Error("save progress failed", zap.Error(err))
	}
}

func (s *Session) recordResult(outcome save.Outcome, score int, killer string) {
	rec, ok := s.store.(save.ResultRecorder)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	err := rec.RecordResult(ctx, save.Result{
		RunID:   s.runID,
		Night:   s.night,
		Outcome: outcome,
		Score:   score,
		Killer:  killer,
	})
	if err != nil {
		s.log.Error("record night result failed", zap.Error(err))
	}
}

func (s *Session) setStatus(msg string) {
	s.status = msg
	s.statusTimer = StatusDuration
}

// AddMessage appends a line to the event log shown by frontends.
func (s *Session) AddMessage(msg string) {
	s.events.AddMessage(msg)
}

// Phase returns the current game phase.
func (s *Session) Phase() state.Phase { return s.phase }

// Night returns the night being played, or the last one played.
func (s *Session) Night() int { return s.night }

// RunID identifies this run in logs and stored results.
func (s *Session) RunID() string { return s.runID }

// Seed returns the base seed of the run.
func (s *Session) Seed() int64 { return s.seed }

// Settings returns the run settings after clamping.
func (s *Session) Settings() Settings { return s.settings }

// Progress returns the saved progress as currently known.
func (s *Session) Progress() save.Progress { return s.progress }

// Graph returns the room graph.
func (s *Session) Graph() *world.RoomGraph { return s.graph }

// Clock returns the night clock.
func (s *Session) Clock() *clock.Clock { return s.clock }

// Power returns the battery.
func (s *Session) Power() *resources.Power { return s.power }

// Office returns the doors, light and cameras.
func (s *Session) Office() *resources.Office { return s.office }

// Arbiter returns the coordination rules.
func (s *Session) Arbiter() *arbiter.Arbiter { return s.arbiter }

// Agents returns the cast of the current night.
func (s *Session) Agents() []*agent.Agent {
	return append([]*agent.Agent(nil), s.agents...)
}

// Stats returns the current night's counters.
func (s *Session) Stats() Stats { return s.stats }

// Threat returns the threat level computed on the last update.
func (s *Session) Threat() int { return s.threat }

// Score returns the score of the last survived night.
func (s *Session) Score() int { return s.score }

// Ending returns the ending of the last survived night.
func (s *Session) Ending() Ending { return s.ending }

// Killer returns the agent that ended the night, if any.
func (s *Session) Killer() *agent.Agent { return s.killer }

// Events returns the recent event log, oldest first.
func (s *Session) Events() []string { return s.events.Recent() }

// Status returns the transient status line.
func (s *Session) Status() string { return s.status }

// Hiding reports whether the player is in a safe spot.
func (s *Session) Hiding() bool { return s.hideSpot != "" }

// Elapsed returns real seconds simulated this night.
func (s *Session) Elapsed() float64 { return s.elapsed }
