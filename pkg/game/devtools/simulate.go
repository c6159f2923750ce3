// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

// Policy plays the office for one tick before the session updates.
type Policy func(s *session.Session)

// Passive never touches anything.
func Passive(*session.Session) {}

// HoldDoors keeps both doors shut whenever they can close.
func HoldDoors(s *session.Session) {
	for _, side := range []resources.Side{resources.Left, resources.Right} {
		if !s.Office().Closed(side) && s.Office().Door(side).CanClose() {
			s.ToggleDoor(side)
		}
	}
}

// Watchful closes a door only while someone waits in its hall, opening it
// again to let it repair.
func Watchful(s *session.Session) {
	want := map[resources.Side]bool{}
	minutes := s.Clock().Minutes()
	for _, a := range s.Agents() {
		if a.Awake(minutes) && s.Graph().IsEntryHall(a.Room()) {
			want[a.Side()] = true
		}
	}
	for _, side := range []resources.Side{resources.Left, resources.Right} {
		if s.Office().Closed(side) != want[side] && s.Office().Door(side).CanClose() {
			s.ToggleDoor(side)
		}
	}
}

var policies = map[string]Policy{
	"passive":  Passive,
	"hold":     HoldDoors,
	"watchful": Watchful,
}

// PolicyByName looks up a policy for the -simulate flag.
func PolicyByName(name string) (Policy, error) {
	if p, ok := policies[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown policy %q (have %v)", name, PolicyNames())
}

// PolicyNames lists the known policies in order.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for n := range policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SimConfig describes one headless night.
type SimConfig struct {
	Settings session.Settings
	Night    int
	// Dt is the fixed step. Zero uses session.MaxTickDelta.
	Dt float64
	// MaxSeconds bounds the run. Zero allows twice the scheduled night.
	MaxSeconds float64
}

// SimResult is how a simulated night ended.
type SimResult struct {
	Seed    int64
	Night   int
	Phase   state.Phase
	Minutes int
	Ticks   int
	Power   float64
	Score   int
	Ending  session.Ending
	Killer  string
	Stats   session.Stats
}

// Simulate plays one night at a fixed step with policy at the controls.
func Simulate(cfg SimConfig, policy Policy, logger *zap.Logger) SimResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == nil {
		policy = Passive
	}
	dt := cfg.Dt
	if dt <= 0 || dt > session.MaxTickDelta {
		dt = session.MaxTickDelta
	}

	s := session.New(cfg.Settings, logger, nil)
	s.StartNight(cfg.Night)

	limit := cfg.MaxSeconds
	if limit <= 0 {
		limit = 2 * 6 * s.Settings().SecondsPerHour
	}
	maxTicks := int(limit / dt)

	ticks := 0
	for ; ticks < maxTicks && s.Phase() == state.Playing; ticks++ {
		policy(s)
		s.Update(dt)
	}

	res := SimResult{
		Seed:    s.Seed(),
		Night:   s.Night(),
		Phase:   s.Phase(),
		Minutes: s.Clock().Minutes(),
		Ticks:   ticks,
		Power:   s.Power().Level(),
		Score:   s.Score(),
		Ending:  s.Ending(),
		Stats:   s.Stats(),
	}
	if k := s.Killer(); k != nil {
		res.Killer = k.Name
	}

	logger.Info("simulated night",
		zap.Int64("seed", res.Seed),
		zap.Int("night", res.Night),
		zap.String("phase", res.Phase.String()),
		zap.Int("minutes", res.Minutes),
		zap.Int("ticks", res.Ticks),
		zap.Float64("power", res.Power),
		zap.Int("score", res.Score),
		zap.String("killer", res.Killer),
	)
	return res
}

// Soak runs the same night over count consecutive seeds starting at
// cfg.Settings.Seed.
func Soak(cfg SimConfig, policy Policy, count int, logger *zap.Logger) []SimResult {
	base := cfg.Settings.Seed
	if base == 0 {
		base = 1
	}
	out := make([]SimResult, 0, count)
	for i := 0; i < count; i++ {
		run := cfg
		run.Settings.Seed = base + int64(i)
		out = append(out, Simulate(run, policy, logger))
	}
	return out
}

// Summary counts outcomes across a soak.
type Summary struct {
	Runs       int
	Won        int
	Jumpscares int
	Unfinished int
	Killers    map[string]int
}

// Summarize tallies results.
func Summarize(results []SimResult) Summary {
	sum := Summary{Runs: len(results), Killers: map[string]int{}}
	for _, r := range results {
		switch r.Phase {
		case state.Won:
			sum.Won++
		case state.Jumpscare:
			sum.Jumpscares++
			sum.Killers[r.Killer]++
		default:
			sum.Unfinished++
		}
	}
	return sum
}
