package agent

import (
	"math/rand"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/resources"
)

// Jitter is a base value with a symmetric random spread.
type Jitter struct {
	Base   float64
	Spread float64
}

// Draw returns a value uniformly distributed in [Base-Spread, Base+Spread].
func (j Jitter) Draw(rng *rand.Rand) float64 {
	return j.Base + (rng.Float64()*2-1)*j.Spread
}

// Profile is the fixed description of one roster entry.
type Profile struct {
	Kind         Kind
	Start        world.Room
	Side         resources.Side
	Route        []world.Room
	Aggro        Jitter
	Interval     Jitter
	HallwayDelay Jitter
	Ramp         Jitter
	// StartDelay is an inclusive range of minutes before the agent wakes.
	StartDelay [2]int
}

// DefaultRoster is the cast the game ships with.
var DefaultRoster = []Profile{
	{
		Kind:         MrIngles,
		Start:        world.SupplyCloset,
		Side:         resources.Right,
		Route:        []world.Room{world.SupplyCloset, world.WestHall, world.Gym, world.Cafeteria, world.DiningArea},
		Aggro:        Jitter{0.52, 0.08},
		Interval:     Jitter{5.0, 0.5},
		HallwayDelay: Jitter{2.2, 0.4},
		Ramp:         Jitter{0.25, 0.06},
		StartDelay:   [2]int{2, 5},
	},
	{
		Kind:         JanitorBot,
		Start:        world.Backstage,
		Side:         resources.Right,
		Route:        []world.Room{world.Backstage, world.Kitchen, world.EastHall, world.Bathrooms},
		Aggro:        Jitter{0.34, 0.05},
		Interval:     Jitter{6.5, 0.7},
		HallwayDelay: Jitter{2.6, 0.4},
		Ramp:         Jitter{0.22, 0.06},
		StartDelay:   [2]int{5, 10},
	},
	{
		Kind:         Librarian,
		Start:        world.Stage,
		Side:         resources.Left,
		Route:        []world.Room{world.Stage, world.DiningArea, world.Cafeteria, world.Library},
		Aggro:        Jitter{0.32, 0.05},
		Interval:     Jitter{6.8, 0.6},
		HallwayDelay: Jitter{2.4, 0.4},
		Ramp:         Jitter{0.24, 0.06},
		StartDelay:   [2]int{6, 11},
	},
	{
		Kind:         VentCrawler,
		Start:        world.Vent,
		Side:         resources.VentSide,
		Route:        []world.Room{world.Vent, world.Bathrooms, world.Restrooms, world.EastHall},
		Aggro:        Jitter{0.38, 0.05},
		Interval:     Jitter{5.8, 0.6},
		HallwayDelay: Jitter{2.0, 0.3},
		Ramp:         Jitter{0.28, 0.06},
		StartDelay:   [2]int{15, 21},
	},
}

// Carry is what survives from one night to the next: each kind's block count.
type Carry map[Kind]int

// AverageBlocks returns the mean block count across the carried kinds.
func (c Carry) AverageBlocks() float64 {
	if len(c) == 0 {
		return 0
	}
	total := 0
	for _, n := range c {
		total += n
	}
	return float64(total) / float64(len(c))
}

// CarryFrom records the block counts of a finished night.
func CarryFrom(agents []*Agent) Carry {
	c := make(Carry, len(agents))
	for _, a := range agents {
		c[a.Kind] = a.blockCount
	}
	return c
}

// Build constructs fresh agents for night. Every random draw comes from rng
// in a fixed order, so the same seed always yields the same cast.
func Build(rng *rand.Rand, roster []Profile, night int, carry Carry) []*Agent {
	params := nights.ParamsFor(night, carry.AverageBlocks())

	agents := make([]*Agent, 0, len(roster))
	for _, p := range roster {
		a := newAgent(rng, p)
		a.baseAggro *= params.AggroMultiplier
		a.blockCount = nights.CarriedBlocks(carry[p.Kind])
		agents = append(agents, a)
	}
	return agents
}

func newAgent(rng *rand.Rand, p Profile) *Agent {
	a := &Agent{
		Kind:         p.Kind,
		Name:         p.Kind.String(),
		room:         p.Start,
		side:         p.Side,
		baseAggro:    p.Aggro.Draw(rng),
		baseInterval: p.Interval.Draw(rng),
		hallwayDelay: p.HallwayDelay.Draw(rng),
		ramp:         p.Ramp.Draw(rng),
		startDelay:   p.StartDelay[0] + rng.Intn(p.StartDelay[1]-p.StartDelay[0]+1),
		state:        Patrolling,
		mood:         Neutral,
	}

	a.route = rotate(p.Route, rng)
	a.personality = Personality(rng.Intn(int(personalityCount)))
	a.traits = Traits{
		Patience:         uniform(rng, 0.5, 2.0),
		Curiosity:        uniform(rng, 0.3, 1.5),
		Persistence:      uniform(rng, 0.4, 1.8),
		Teamwork:         uniform(rng, 0.2, 1.3),
		Deception:        uniform(rng, 0.1, 1.2),
		SoundSensitivity: uniform(rng, 0.5, 1.5),
		CameraAwareness:  uniform(rng, 0.3, 1.4),
	}
	a.ability = Ability(rng.Intn(int(abilityCount)))

	a.moveInterval = a.baseInterval
	if a.personality == PersonalityPatient {
		a.moveInterval = a.baseInterval * 1.5 * a.traits.Patience
	}
	if a.ability == AbilitySpeedDemon {
		a.moveInterval *= 0.85
	}
	a.moveCooldown = a.moveInterval
	a.aggro = a.baseAggro
	return a
}

// rotate starts the cyclic route at a random offset without changing its order.
func rotate(route []world.Room, rng *rand.Rand) []world.Room {
	out := make([]world.Room, 0, len(route))
	if len(route) <= 1 {
		return append(out, route...)
	}
	off := rng.Intn(len(route))
	out = append(out, route[off:]...)
	return append(out, route[:off]...)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
