package arbiter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/resources"
)

var calm = Signals{Power: 100, AverageDoorHealth: 100}

// waiting returns an awake agent in hall that has already waited out its
// hallway delay.
func waiting(t *testing.T, kind agent.Kind, hall world.Room, side resources.Side) *agent.Agent {
	t.Helper()
	p := agent.Profile{
		Kind:         kind,
		Start:        hall,
		Side:         side,
		Aggro:        agent.Jitter{Base: 0.5},
		Interval:     agent.Jitter{Base: 5},
		HallwayDelay: agent.Jitter{Base: 1},
		Ramp:         agent.Jitter{Base: 0.2},
	}
	a := agent.Build(rand.New(rand.NewSource(1)), []agent.Profile{p}, 1, nil)[0]
	a.WaitAtOpenDoor(2)
	require.True(t, a.ReadyToEnter())
	return a
}

func TestRecompute_Cap(t *testing.T) {
	tests := []struct {
		name string
		sig  Signals
		want int
	}{
		{"calm", calm, 2},
		{"both doors open", Signals{BothDoorsOpen: true, Power: 100, AverageDoorHealth: 100}, 1},
		{"low power", Signals{Power: 19, AverageDoorHealth: 100}, 1},
		{"cameras down", Signals{CamerasDown: true, Power: 100, AverageDoorHealth: 100}, 1},
		{"worn doors", Signals{Power: 100, AverageDoorHealth: 29}, 1},
		{"jammed door", Signals{AnyJammed: true, Power: 100, AverageDoorHealth: 100}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ar := New()
			ar.Update(0, tt.sig)
			if got := ar.MaxOfficeAttackers(); got != tt.want {
				t.Errorf("MaxOfficeAttackers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecompute_EntryCooldown(t *testing.T) {
	ar := New()
	ar.Update(0, calm)
	assert.Equal(t, BaseEntryCooldown, ar.EntryCooldown())

	ar.Update(0, Signals{Power: 10, AverageDoorHealth: 100})
	assert.InDelta(t, 8, ar.EntryCooldown(), 1e-9)

	// every penalty at once sums past the ceiling
	ar.Update(0, Signals{BothDoorsOpen: true, Power: 10, CamerasDown: true, AverageDoorHealth: 10})
	assert.Equal(t, MaxEntryCooldown, ar.EntryCooldown())
}

func TestGrace_DropsCapToOne(t *testing.T) {
	ar := New()
	ar.StartBreachGrace()
	ar.Update(0, calm)

	assert.True(t, ar.GraceActive())
	assert.Equal(t, 1, ar.MaxOfficeAttackers())

	a := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	assert.False(t, ar.MayEnter(a, []*agent.Agent{a}), "entries are held during grace")

	ar.Update(BreachGrace+0.01, calm)
	assert.False(t, ar.GraceActive())
	assert.Equal(t, 2, ar.MaxOfficeAttackers())
	assert.True(t, ar.MayEnter(a, []*agent.Agent{a}))
}

func TestGrace_CapDropsBeforeNextUpdate(t *testing.T) {
	ar := New()
	ar.Update(0, calm)
	require.Equal(t, 2, ar.MaxOfficeAttackers())

	ar.StartBreachGrace()
	assert.Equal(t, 1, ar.MaxOfficeAttackers())

	ar = New()
	ar.Update(0, calm)
	ar.StartOverloadGrace()
	assert.Equal(t, 1, ar.MaxOfficeAttackers())
}

func TestGrace_Overload(t *testing.T) {
	ar := New()
	ar.StartOverloadGrace()
	ar.StartOverloadGrace()
	ar.Update(1, calm)
	assert.InDelta(t, OverloadGrace-1, ar.OverloadGrace(), 1e-9)
	assert.Equal(t, 1, ar.MaxOfficeAttackers())
}

func TestMayEnter_Gate(t *testing.T) {
	g := world.DefaultSchool()
	ar := New()
	ar.Update(0, calm)

	left1 := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	left2 := waiting(t, agent.Librarian, world.WestHall, resources.Left)
	right := waiting(t, agent.JanitorBot, world.EastHall, resources.Right)
	vent := waiting(t, agent.VentCrawler, world.EastHall, resources.VentSide)
	all := []*agent.Agent{left1, left2, right, vent}

	require.True(t, ar.MayEnter(left1, all))
	ar.Admit(left1, g.Office())
	assert.True(t, left1.InOffice())
	assert.Equal(t, world.Office, left1.Room())
	assert.Equal(t, BaseEntryCooldown, ar.SideCooldown(resources.Left))

	assert.False(t, ar.MayEnter(left2, all), "same side already inside")

	require.True(t, ar.MayEnter(right, all))
	ar.Admit(right, g.Office())
	assert.Equal(t, 2, OfficeCount(all))

	assert.False(t, ar.MayEnter(vent, all), "office is at the cap")
}

func TestMayEnter_WaitsOutHallwayDelay(t *testing.T) {
	ar := New()
	ar.Update(0, calm)

	p := agent.Profile{
		Kind:         agent.MrIngles,
		Start:        world.WestHall,
		Side:         resources.Left,
		Interval:     agent.Jitter{Base: 5},
		HallwayDelay: agent.Jitter{Base: 2},
	}
	a := agent.Build(rand.New(rand.NewSource(1)), []agent.Profile{p}, 1, nil)[0]
	a.WaitAtOpenDoor(1)
	assert.False(t, ar.MayEnter(a, []*agent.Agent{a}))
	a.WaitAtOpenDoor(1)
	assert.True(t, ar.MayEnter(a, []*agent.Agent{a}))
}

func TestMayEnter_SideCooldown(t *testing.T) {
	g := world.DefaultSchool()
	ar := New()
	ar.Update(0, calm)

	first := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	ar.Admit(first, g.Office())
	first.Block(resources.Left, g, 0)
	require.False(t, first.InOffice())

	second := waiting(t, agent.Librarian, world.WestHall, resources.Left)
	all := []*agent.Agent{first, second}
	assert.False(t, ar.MayEnter(second, all), "left side is cooling down")

	ar.Update(BaseEntryCooldown, calm)
	assert.Zero(t, ar.SideCooldown(resources.Left))
	assert.True(t, ar.MayEnter(second, all))
}

func TestEnforceCap_ExpelsNewest(t *testing.T) {
	g := world.DefaultSchool()
	ar := New()
	ar.Update(0, calm)

	left := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	right := waiting(t, agent.JanitorBot, world.EastHall, resources.Right)
	all := []*agent.Agent{right, left}
	ar.Admit(left, g.Office())
	ar.Admit(right, g.Office())

	assert.Empty(t, ar.EnforceCap(all))

	ar.StartBreachGrace()
	ar.Update(0, calm)
	expelled := ar.EnforceCap(all)
	require.Len(t, expelled, 1)
	assert.Same(t, right, expelled[0])
	assert.Equal(t, world.EastHall, right.Room())
	assert.True(t, left.InOffice())
	assert.Zero(t, right.BlockCount())
	assert.LessOrEqual(t, OfficeCount(all), ar.MaxOfficeAttackers())
}

func TestBroadcast_SharesTarget(t *testing.T) {
	leader := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	b := waiting(t, agent.JanitorBot, world.EastHall, resources.Right)
	c := waiting(t, agent.Librarian, world.WestHall, resources.Left)
	all := []*agent.Agent{leader, b, c}

	ar := New()
	assert.Empty(t, ar.Broadcast(all, 0), "nobody is hunting yet")

	leader.Lure(world.Library)
	joined := ar.Broadcast(all, 0)
	assert.ElementsMatch(t, []*agent.Agent{b, c}, joined)
	for _, a := range joined {
		assert.Equal(t, world.Library, a.HuntTarget())
		assert.Equal(t, agent.Hunting, a.Mood())
		assert.Equal(t, agent.AlertCooldown, a.CommCooldown())
	}

	assert.Empty(t, ar.Broadcast(all, 0), "everyone is already hunting")
	assert.Empty(t, ar.Broadcast(all[:1], 0))
}

func TestBroadcast_SkipsSleepingAgents(t *testing.T) {
	sleeper := func(kind agent.Kind, hall world.Room, side resources.Side) *agent.Agent {
		p := agent.Profile{
			Kind:         kind,
			Start:        hall,
			Side:         side,
			Aggro:        agent.Jitter{Base: 0.5},
			Interval:     agent.Jitter{Base: 5},
			HallwayDelay: agent.Jitter{Base: 1},
			Ramp:         agent.Jitter{Base: 0.2},
			StartDelay:   [2]int{10, 10},
		}
		return agent.Build(rand.New(rand.NewSource(1)), []agent.Profile{p}, 1, nil)[0]
	}

	leader := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	asleep := sleeper(agent.JanitorBot, world.EastHall, resources.Right)
	all := []*agent.Agent{leader, asleep}
	ar := New()

	leader.Lure(world.Library)
	assert.Empty(t, ar.Broadcast(all, 9))
	assert.False(t, asleep.Hunting())
	assert.Zero(t, asleep.CommCooldown())

	assert.Equal(t, []*agent.Agent{asleep}, ar.Broadcast(all, 10))
	assert.Equal(t, world.Library, asleep.HuntTarget())

	// a lured sleeper cannot lead either
	other := sleeper(agent.Librarian, world.WestHall, resources.Left)
	lured := sleeper(agent.JanitorBot, world.EastHall, resources.Right)
	lured.Lure(world.Gym)
	awake := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	assert.Empty(t, ar.Broadcast([]*agent.Agent{lured, other, awake}, 0))
	assert.False(t, awake.Hunting())
}

func TestEscalate_PackBump(t *testing.T) {
	g := world.DefaultSchool()
	ar := New()
	ar.Update(0, calm)

	left := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	right := waiting(t, agent.JanitorBot, world.EastHall, resources.Right)
	all := []*agent.Agent{left, right}

	ar.Admit(left, g.Office())
	assert.False(t, ar.Escalate(all, 120), "one agent is not a pack")

	ar.Admit(right, g.Office())
	assert.False(t, ar.Escalate(all, PackMinMinutes-1))
	assert.True(t, ar.Escalate(all, PackMinMinutes))
	assert.Equal(t, agent.Aggressive, left.Mood())
	assert.Equal(t, 1, right.BlockCount())

	assert.False(t, ar.Escalate(all, 200), "pack bump is on cooldown")
	ar.Update(PackCooldown, calm)
	assert.True(t, ar.Escalate(all, 200))
}

func TestRebalance_SwitchesAwayFromDefendedDoor(t *testing.T) {
	g := world.DefaultSchool()
	a := waiting(t, agent.MrIngles, world.WestHall, resources.Left)
	v := waiting(t, agent.VentCrawler, world.EastHall, resources.VentSide)
	for i := 0; i < 3; i++ {
		a.Block(resources.Left, g, float64(i))
		v.Block(resources.Left, g, float64(i))
	}

	ar := New()
	assert.Empty(t, ar.Rebalance([]*agent.Agent{a, v}, 200), "blocks are too old")

	switched := ar.Rebalance([]*agent.Agent{a, v}, 10)
	require.Len(t, switched, 1)
	assert.Same(t, a, switched[0])
	assert.Equal(t, resources.Right, a.Side())
	assert.Equal(t, resources.VentSide, v.Side())

	assert.Empty(t, ar.Rebalance([]*agent.Agent{a, v}, 10), "already on the other side")
}

func TestSignalsFrom(t *testing.T) {
	o := resources.NewOffice(resources.DefaultFeeds)
	p := resources.NewPower(resources.DefaultDrains)

	sig := SignalsFrom(o, p)
	assert.True(t, sig.BothDoorsOpen)
	assert.Equal(t, resources.MaxPower, sig.Power)
	assert.False(t, sig.CamerasDown)
	assert.Equal(t, resources.MaxDoorHealth, sig.AverageDoorHealth)

	o.ToggleDoor(resources.Left)
	assert.False(t, SignalsFrom(o, p).BothDoorsOpen)
}
