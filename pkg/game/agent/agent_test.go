package agent

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/resources"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// hallAgent returns an awake agent standing in hall with a one second
// hallway delay and a fixed personality.
func hallAgent(t *testing.T, hall world.Room, side resources.Side) *Agent {
	t.Helper()
	p := Profile{
		Kind:         MrIngles,
		Start:        hall,
		Side:         side,
		Aggro:        Jitter{Base: 0.5},
		Interval:     Jitter{Base: 5},
		HallwayDelay: Jitter{Base: 1},
		Ramp:         Jitter{Base: 0.2},
	}
	a := Build(newRand(1), []Profile{p}, 1, nil)[0]
	a.personality = PersonalityAggressive
	a.ability = AbilityMimic
	return a
}

func TestBuild_SameSeedSameCast(t *testing.T) {
	a := Build(newRand(42), DefaultRoster, 1, nil)
	b := Build(newRand(42), DefaultRoster, 1, nil)
	require.Len(t, a, len(DefaultRoster))
	require.Len(t, b, len(DefaultRoster))

	for i := range a {
		assert.Equal(t, a[i].Route(), b[i].Route(), "route of %s", a[i].Name)
		assert.Equal(t, a[i].BaseAggro(), b[i].BaseAggro())
		assert.Equal(t, a[i].Personality(), b[i].Personality())
		assert.Equal(t, a[i].Traits(), b[i].Traits())
		assert.Equal(t, a[i].Ability(), b[i].Ability())
		assert.Equal(t, a[i].StartDelay(), b[i].StartDelay())
	}
}

func TestBuild_RosterStartsAtProfile(t *testing.T) {
	g := world.DefaultSchool()
	agents := Build(newRand(7), DefaultRoster, 1, nil)

	for i, a := range agents {
		p := DefaultRoster[i]
		assert.Equal(t, p.Kind, a.Kind)
		assert.Equal(t, p.Start, a.Room())
		assert.True(t, g.Has(a.Room()), "%s starts off the graph", a.Name)
		assert.Equal(t, p.Side, a.Side())
		assert.Equal(t, Patrolling, a.State())
		assert.GreaterOrEqual(t, a.StartDelay(), p.StartDelay[0])
		assert.LessOrEqual(t, a.StartDelay(), p.StartDelay[1])
		assert.InDelta(t, p.Aggro.Base, a.BaseAggro(), p.Aggro.Spread+1e-9)
		assert.ElementsMatch(t, p.Route, a.Route())
	}
}

func TestBuild_CarriesBlocksIntoLaterNights(t *testing.T) {
	first := Build(newRand(3), DefaultRoster[:1], 1, nil)[0]
	second := Build(newRand(3), DefaultRoster[:1], 2, Carry{MrIngles: 5})[0]

	// night 2: 1 + 0.15 night factor + 0.1 boost for an average above two
	assert.InDelta(t, first.BaseAggro()*1.25, second.BaseAggro(), 1e-9)
	assert.Equal(t, 2, second.BlockCount())
}

func TestCarryFrom(t *testing.T) {
	agents := Build(newRand(1), DefaultRoster, 1, nil)
	agents[0].blockCount = 4
	agents[2].blockCount = 2

	c := CarryFrom(agents)
	assert.Equal(t, 4, c[MrIngles])
	assert.Equal(t, 2, c[Librarian])
	assert.InDelta(t, 1.5, c.AverageBlocks(), 1e-9)
	assert.Zero(t, Carry(nil).AverageBlocks())
}

func TestUpdate_NeverWalksIntoOffice(t *testing.T) {
	g := world.DefaultSchool()
	rng := newRand(11)
	agents := Build(rng, DefaultRoster, 3, Carry{MrIngles: 9, JanitorBot: 9})

	ctx := Context{Graph: g, Night: 3, Difficulty: 2, Rand: rng}
	for tick := 0; tick < 20000; tick++ {
		ctx.Minutes = min(359, tick/10)
		ctx.Elapsed = float64(tick) * 0.1
		for _, a := range agents {
			a.Update(0.1, ctx)
			require.NotEqual(t, world.Office, a.Room(), "%s walked into the office at tick %d", a.Name, tick)
			require.True(t, g.Has(a.Room()), "%s left the graph", a.Name)
			require.False(t, a.InOffice())
		}
	}
}

func TestUpdate_AsleepAgentStaysPut(t *testing.T) {
	g := world.DefaultSchool()
	a := Build(newRand(5), DefaultRoster[3:], 1, nil)[0]
	start := a.Room()

	ctx := Context{Graph: g, Minutes: a.StartDelay() - 1, Night: 1, Difficulty: 1}
	for i := 0; i < 1000; i++ {
		a.Update(0.1, ctx)
	}
	assert.Equal(t, start, a.Room())
	assert.Equal(t, Patrolling, a.State())
}

func TestUpdate_ZeroDeltaIsNoOp(t *testing.T) {
	g := world.DefaultSchool()
	a := Build(newRand(5), DefaultRoster[:1], 1, nil)[0]
	before := *a

	a.Update(0, Context{Graph: g, Minutes: 300, Night: 1, Difficulty: 1})
	assert.Equal(t, before.room, a.room)
	assert.Equal(t, before.moveCooldown, a.moveCooldown)
	assert.Equal(t, before.moodTimer, a.moodTimer)
}

func TestUpdate_HunterStopsAtEntryHall(t *testing.T) {
	g := world.DefaultSchool()
	a := Build(newRand(9), DefaultRoster[2:3], 1, nil)[0]
	require.Equal(t, world.Stage, a.Room())
	a.huntTarget = world.Office
	a.huntTimer = 200

	ctx := Context{Graph: g, Minutes: 30, Night: 1, Difficulty: 1.2}
	last := g.Distance(a.Room(), world.Office)
	for i := 0; i < 900; i++ {
		a.Update(0.1, ctx)
		d := g.Distance(a.Room(), world.Office)
		require.LessOrEqual(t, d, last, "hunter moved away from the office")
		last = d
	}
	assert.True(t, g.IsEntryHall(a.Room()), "hunter ended in %s", a.Room())
	assert.Equal(t, MovingToTarget, a.State())
}

func TestBlock_SendsAgentBackHunting(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.WestHall, resources.Left)
	a.EnterOffice(g.Office())
	require.True(t, a.InOffice())
	a.windup = 0.9

	a.Block(resources.Left, g, 10)

	assert.Equal(t, 1, a.BlockCount())
	assert.Equal(t, Retreating, a.State())
	assert.Equal(t, world.EastHall, a.Room())
	assert.Equal(t, Aggressive, a.Mood())
	assert.Equal(t, BlockHuntDuration, a.HuntTimer())
	assert.Equal(t, world.Office, a.HuntTarget())
	assert.Equal(t, OfficeRetreat, a.RetreatTimer())
	assert.Zero(t, a.Windup())
	assert.Len(t, a.RecentBlocks(10), 1)
	assert.Empty(t, a.RecentBlocks(80))

	// the retreat runs out and the agent resumes its hunt
	ctx := Context{Graph: g, Minutes: 100, Night: 1, Difficulty: 1}
	for i := 0; i < 41; i++ {
		a.Update(0.1, ctx)
	}
	assert.Equal(t, MovingToTarget, a.State())
	assert.NotEqual(t, world.Office, a.Room())
}

func TestBlock_CautiousRetreatsLonger(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.WestHall, resources.Left)
	a.personality = PersonalityCautious
	a.EnterOffice(g.Office())

	a.Block(resources.Left, g, 0)
	assert.InDelta(t, OfficeRetreat*1.25, a.RetreatTimer(), 1e-9)
}

func TestExpel_ReturnsToEntryHallWithoutBlock(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.EastHall, resources.Right)
	a.EnterOffice(g.Office())

	a.Expel()
	assert.Equal(t, world.EastHall, a.Room())
	assert.Equal(t, Retreating, a.State())
	assert.Zero(t, a.BlockCount())
}

func TestThreshold_WaitAndPush(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.WestHall, resources.Left)
	require.True(t, a.AtThreshold(g))

	a.WaitAtOpenDoor(0.5)
	assert.False(t, a.ReadyToEnter())
	a.WaitAtOpenDoor(0.6)
	assert.True(t, a.ReadyToEnter())

	// closing the door resets the wait
	assert.False(t, a.PushClosedDoor(2.9, g))
	assert.False(t, a.ReadyToEnter())
	assert.True(t, a.PushClosedDoor(0.2, g))

	assert.Equal(t, Retreating, a.State())
	assert.Equal(t, RetreatingMood, a.Mood())
	assert.Equal(t, HallRetreat, a.RetreatTimer())
	assert.NotEqual(t, world.Office, a.Room())
	assert.True(t, g.Adjacent(world.WestHall, a.Room()))
	assert.False(t, a.AtThreshold(g))
}

func TestThreshold_RelentlessPushesLonger(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.WestHall, resources.Left)
	a.personality = PersonalityRelentless

	assert.False(t, a.PushClosedDoor(HallPatience+0.1, g))
	assert.True(t, a.PushClosedDoor(HallPatience*0.5, g))
}

func TestStrike_FollowsDoorForSide(t *testing.T) {
	g := world.DefaultSchool()
	o := resources.NewOffice(resources.DefaultFeeds)

	left := hallAgent(t, world.WestHall, resources.Left)
	left.EnterOffice(g.Office())
	vent := hallAgent(t, world.EastHall, resources.VentSide)
	vent.EnterOffice(g.Office())

	assert.True(t, left.CanStrike(o))
	assert.True(t, vent.CanStrike(o))

	o.ToggleDoor(resources.Left)
	assert.True(t, left.IsBlockedBy(o))
	assert.True(t, vent.CanStrike(o), "one open door is enough for the vent")

	o.ToggleDoor(resources.Right)
	assert.True(t, vent.IsBlockedBy(o))
}

func TestAdvanceWindup_ScalesWithMood(t *testing.T) {
	g := world.DefaultSchool()
	a := hallAgent(t, world.WestHall, resources.Left)
	a.EnterOffice(g.Office())
	a.mood = Hunting

	assert.False(t, a.AdvanceWindup(0.5, 1.2))
	assert.InDelta(t, 0.8, a.Windup(), 1e-9)
	assert.True(t, a.AdvanceWindup(0.5, 1.2))
	assert.True(t, a.WantsToAttack(1.2))

	a.Attack()
	assert.Equal(t, Attacking, a.State())
	assert.True(t, a.InOffice())

	// attacking is terminal
	a.Update(1, Context{Graph: g, Minutes: 100, Night: 1, Difficulty: 1})
	assert.Equal(t, Attacking, a.State())
}

func TestLure_DurationClamped(t *testing.T) {
	tests := []struct {
		name           string
		sens, patience float64
		want           float64
	}{
		{"typical", 1, 1, 11},
		{"deaf", 0, 0, 6},
		{"keen", 2, 2, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := hallAgent(t, world.WestHall, resources.Left)
			a.traits.SoundSensitivity = tt.sens
			a.traits.Patience = tt.patience

			a.Lure(world.Library)
			assert.Equal(t, world.Library, a.HuntTarget())
			assert.InDelta(t, tt.want, a.HuntTimer(), 1e-9)
			assert.Equal(t, MovingToTarget, a.State())
		})
	}
}

func TestAlert_RespectsCooldown(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)

	require.True(t, a.Alert(world.Gym))
	assert.Equal(t, Hunting, a.Mood())
	assert.Equal(t, AlertDuration, a.HuntTimer())
	assert.Equal(t, AlertCooldown, a.CommCooldown())

	// already hunting
	assert.False(t, a.Alert(world.Kitchen))

	a.huntTimer = 0
	assert.False(t, a.Alert(world.Kitchen), "cooldown still running")

	a.commCooldown = 0
	assert.True(t, a.Alert(world.Kitchen))
	assert.Equal(t, world.Kitchen, a.HuntTarget())
}

func TestNextMood(t *testing.T) {
	tests := []struct {
		name    string
		hunting bool
		blocks  int
		minutes int
		night   int
		want    Mood
	}{
		{"hunt timer running", true, 0, 300, 3, Hunting},
		{"blocked three times", false, 3, 0, 1, Hunting},
		{"late in the night", false, 0, 180, 1, Aggressive},
		{"second night", false, 0, 0, 2, Aggressive},
		{"blocked twice", false, 2, 0, 1, Cautious},
		{"first hour gone", false, 0, 60, 1, Cautious},
		{"fresh", false, 0, 10, 1, Hunting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := hallAgent(t, world.WestHall, resources.Left)
			a.blockCount = tt.blocks
			if tt.hunting {
				a.huntTimer = 5
			}
			if got := a.nextMood(tt.minutes, tt.night); got != tt.want {
				t.Errorf("nextMood() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptiveAggro(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)
	a.baseAggro = 0.5
	a.ramp = 0.36
	a.blockCount = 2

	ctx := Context{Minutes: 180, Night: 2, Difficulty: 1.2}
	// 0.6 + 0.1 + 0.18 + 0.12
	assert.InDelta(t, 1.0, a.adaptiveAggro(ctx), 1e-9)

	a.Enrage(world.Office)
	assert.InDelta(t, 1.3, a.adaptiveAggro(ctx), 1e-9)
	assert.Equal(t, EnrageDuration, a.HuntTimer())

	a.blockCount = 40
	assert.Equal(t, MaxAggro, a.adaptiveAggro(ctx))
}

func TestInterval_FloorAndScaling(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)
	a.moveInterval = 6
	a.aggro = 0

	assert.InDelta(t, 5, a.interval(1.2), 1e-9)
	assert.InDelta(t, 10, a.interval(0.1), 1e-9, "difficulty floors at 0.6")

	a.moveInterval = 1
	a.aggro = 2
	assert.Equal(t, MinMoveInterval, a.interval(2))
}

func TestEscalate(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)
	a.Escalate()
	assert.Equal(t, Aggressive, a.Mood())
	assert.Equal(t, 1, a.BlockCount())
	assert.InDelta(t, 0.1, a.bonusAggro, 1e-9)
}

func TestSwitchSide(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)
	assert.False(t, a.SwitchSide(resources.Left))
	assert.False(t, a.SwitchSide(resources.VentSide))
	assert.True(t, a.SwitchSide(resources.Right))
	assert.Equal(t, resources.Right, a.Side())

	v := hallAgent(t, world.EastHall, resources.VentSide)
	assert.False(t, v.SwitchSide(resources.Left))
}

func TestAbilities(t *testing.T) {
	a := hallAgent(t, world.WestHall, resources.Left)

	a.ability = AbilityCameraJammer
	assert.True(t, a.HiddenFromCameras(61))
	assert.False(t, a.HiddenFromCameras(60))

	a.ability = AbilityDoorBreaker
	assert.Equal(t, 1.5, a.PressureMultiplier())

	a.ability = AbilityPowerDrainer
	assert.InDelta(t, 0.05, a.ExtraDrain(), 1e-9)

	a.ability = AbilitySilentStalker
	assert.True(t, a.Silent())
	assert.False(t, a.HiddenFromCameras(61))
}
