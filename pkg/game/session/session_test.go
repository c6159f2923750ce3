package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/arbiter"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/save"
	"nightshift/pkg/game/state"
)

const tick = 1.0 / 30.0

func newSession(t *testing.T, seed int64, roster []agent.Profile) *Session {
	t.Helper()
	settings := DefaultSettings()
	settings.Seed = seed
	if roster != nil {
		settings.Roster = roster
	}
	return New(settings, nil, nil)
}

// hallProfile is an agent that starts awake in hall with a short hallway
// delay and no patrol route, so it never leaves on its own.
func hallProfile(kind agent.Kind, hall world.Room, side resources.Side) agent.Profile {
	return agent.Profile{
		Kind:         kind,
		Start:        hall,
		Side:         side,
		Aggro:        agent.Jitter{Base: 0.4},
		Interval:     agent.Jitter{Base: 5},
		HallwayDelay: agent.Jitter{Base: 0.5},
		Ramp:         agent.Jitter{Base: 0.2},
	}
}

// checkInvariants asserts the properties that must hold after every tick.
func checkInvariants(t *testing.T, s *Session, lastPower float64) {
	t.Helper()

	p := s.Power().Level()
	require.GreaterOrEqual(t, p, 0.0)
	require.LessOrEqual(t, p, resources.MaxPower)
	require.LessOrEqual(t, p, lastPower, "power went up")

	for _, side := range []resources.Side{resources.Left, resources.Right} {
		h := s.Office().Door(side).Health
		require.GreaterOrEqual(t, h, 0.0)
		require.LessOrEqual(t, h, resources.MaxDoorHealth)
	}
	heat := s.Office().Cameras().Heat()
	require.GreaterOrEqual(t, heat, 0.0)
	require.LessOrEqual(t, heat, resources.MaxHeat)

	if s.Power().Outage() {
		require.False(t, s.Office().AnyClosed(), "doors closed during outage")
		require.False(t, s.Office().LightOn(), "light on during outage")
		require.False(t, s.Office().Cameras().Open(), "cameras open during outage")
	}

	require.LessOrEqual(t, arbiter.OfficeCount(s.Agents()), s.Arbiter().MaxOfficeAttackers())
	for _, a := range s.Agents() {
		require.True(t, s.Graph().Has(a.Room()), "%s is off the graph", a.Name)
	}
}

func TestStartNight_ClampsAndResets(t *testing.T) {
	s := newSession(t, 1, nil)
	assert.Equal(t, state.Menu, s.Phase())

	s.StartNight(0)
	assert.Equal(t, 1, s.Night())
	assert.Equal(t, state.Playing, s.Phase())
	assert.Equal(t, resources.MaxPower, s.Power().Level())
	assert.Zero(t, s.Clock().Minutes())
	require.Len(t, s.Agents(), len(agent.DefaultRoster))
	for i, a := range s.Agents() {
		assert.Equal(t, agent.DefaultRoster[i].Start, a.Room())
	}
	assert.Equal(t, []string{nights.IntroText(1)}, s.Events())

	s.StartNight(9)
	assert.Equal(t, nights.TotalNights, s.Night())
}

func TestUpdate_ClampsDelta(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{})
	s.StartNight(1)

	s.Update(-1)
	s.Update(0)
	assert.Zero(t, s.Elapsed())

	s.Update(10)
	assert.InDelta(t, MaxTickDelta, s.Elapsed(), 1e-12)
}

func TestUpdate_NoOpOutsidePlaying(t *testing.T) {
	s := newSession(t, 1, nil)
	s.Update(tick)
	assert.Equal(t, state.Menu, s.Phase())

	s.StartNight(1)
	require.True(t, s.Pause())
	assert.False(t, s.Pause())
	s.Update(tick)
	assert.Zero(t, s.Elapsed())
	assert.False(t, s.ToggleDoor(resources.Left), "actions are refused while paused")

	require.True(t, s.Resume())
	assert.False(t, s.Resume())
	s.Update(tick)
	assert.Greater(t, s.Elapsed(), 0.0)
}

func TestToggleDoor_TwiceRestoresDoor(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{})
	s.StartNight(1)
	s.DrainCues()

	require.True(t, s.ToggleDoor(resources.Left))
	assert.True(t, s.Office().Closed(resources.Left))
	assert.Equal(t, resources.MaxDoorHealth-resources.DoorCloseCost, s.Office().Door(resources.Left).Health)

	require.True(t, s.ToggleDoor(resources.Left))
	d := s.Office().Door(resources.Left)
	assert.False(t, d.Closed)
	assert.Equal(t, resources.MaxDoorHealth, d.Health)
	assert.Equal(t, []Cue{CueDoorClose, CueDoorOpen}, s.DrainCues())
	assert.Equal(t, 1, s.Stats().DoorCloses)
}

func TestToggleDoor_PerfectBlockCombo(t *testing.T) {
	s := newSession(t, 3, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)

	require.True(t, s.ToggleDoor(resources.Left))
	require.True(t, s.ToggleDoor(resources.Left))
	require.True(t, s.ToggleDoor(resources.Left))
	st := s.Stats()
	assert.Equal(t, 2, st.PerfectBlocks)
	assert.Equal(t, 2, st.Combo)
	assert.Equal(t, 2, st.BestCombo)

	require.True(t, s.ToggleDoor(resources.Right))
	assert.Equal(t, 2, s.Stats().PerfectBlocks, "nobody waits on the right")

	for i := 0; i < int((ComboWindow+0.5)/tick); i++ {
		s.Update(tick)
	}
	require.Equal(t, state.Playing, s.Phase())
	assert.Zero(t, s.Stats().Combo)
	assert.Equal(t, 2, s.Stats().BestCombo)
}

func TestOutage_LocksOfficeUntilNextNight(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{})
	s.StartNight(1)
	require.True(t, s.ToggleDoor(resources.Left))
	require.True(t, s.ToggleLight())
	require.True(t, s.ToggleCameras())

	s.Power().Spend(s.Power().Level() - 0.001)
	s.Update(tick)

	require.True(t, s.Power().Outage())
	assert.Zero(t, s.Power().Level())
	assert.True(t, s.Power().Emergency())
	assert.Equal(t, resources.EmergencyReserve, s.View().Reserve)
	assert.False(t, s.Office().AnyClosed())
	assert.False(t, s.Office().LightOn())
	assert.False(t, s.Office().Cameras().Open())
	assert.Contains(t, s.DrainCues(), CuePowerOut)

	assert.False(t, s.ToggleDoor(resources.Left))
	assert.False(t, s.ToggleLight())
	assert.False(t, s.ToggleCameras())
	assert.False(t, s.UseBarricade())

	last := s.Power().Level()
	for i := 0; i < 60; i++ {
		s.Update(tick)
		checkInvariants(t, s, last)
		last = s.Power().Level()
	}

	s.StartNight(1)
	assert.False(t, s.Power().Outage())
	assert.True(t, s.ToggleDoor(resources.Left))
}

func TestOutage_EmergencyEndEnrages(t *testing.T) {
	p := hallProfile(agent.Librarian, world.Library, resources.Left)
	p.StartDelay = [2]int{300, 300}
	s := newSession(t, 1, []agent.Profile{p})
	s.StartNight(1)

	s.Power().Spend(s.Power().Level() - 0.001)
	for i := 0; i < int((resources.EmergencyDuration+0.5)/tick) && s.Phase() == state.Playing; i++ {
		s.Update(tick)
	}
	require.False(t, s.Power().Emergency())

	a := s.Agents()[0]
	assert.True(t, a.Hunting())
	assert.Equal(t, world.Office, a.HuntTarget())
}

func TestDeployLure_ReachesEveryAgentWithinOneTick(t *testing.T) {
	s := newSession(t, 5, nil)
	s.StartNight(1)

	assert.False(t, s.DeployLure(world.Office))
	assert.False(t, s.DeployLure(world.Room("Basement")))

	require.True(t, s.DeployLure(world.Library))
	s.Update(tick)
	for _, a := range s.Agents() {
		assert.Equal(t, world.Library, a.HuntTarget(), a.Name)
		assert.Greater(t, a.HuntTimer(), 0.0, a.Name)
	}
	assert.Equal(t, resources.NoiseMakerCharges-1, s.NoiseMaker().Charges())

	assert.False(t, s.DeployLure(world.Gym), "still recharging")
}

func TestUseBarricade(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{})
	s.StartNight(1)
	s.ToggleDoor(resources.Right)

	require.True(t, s.UseBarricade())
	right := s.Office().Door(resources.Right)
	assert.Equal(t, 1, right.Barricade)
	assert.Equal(t, resources.MaxDoorHealth, right.Health)
	assert.InDelta(t, resources.MaxPower-BarricadeCost, s.Power().Level(), 1e-9)

	s.Power().Spend(s.Power().Level() - 14)
	assert.False(t, s.UseBarricade(), "below the power floor")
}

func TestEnterSafeSpot(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{})
	s.StartNight(1)

	assert.False(t, s.EnterSafeSpot(), "threat is too low")

	s.threat = SafeSpotThreat
	require.True(t, s.EnterSafeSpot())
	assert.True(t, s.Hiding())
	spot, left := s.HideSpot()
	assert.Contains(t, SafeSpots, spot)
	assert.Equal(t, SafeSpotDuration, left)
	assert.Len(t, s.SafeSpotsLeft(), len(SafeSpots)-1)
	assert.NotContains(t, s.SafeSpotsLeft(), spot)

	assert.False(t, s.EnterSafeSpot(), "already hiding")

	for i := 0; i < int((SafeSpotDuration+0.5)/tick); i++ {
		s.Update(tick)
	}
	assert.False(t, s.Hiding())
}

func TestSafeSpot_ClearsOffice(t *testing.T) {
	s := newSession(t, 2, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)
	a := s.Agents()[0]

	for i := 0; i < 300 && !a.InOffice(); i++ {
		s.Update(tick)
	}
	require.True(t, a.InOffice())

	s.threat = SafeSpotThreat
	require.True(t, s.EnterSafeSpot())
	assert.False(t, a.InOffice(), "hiding clears the office")
	assert.Equal(t, world.WestHall, a.Room())
	assert.Zero(t, a.BlockCount())
}

func TestSwitchCamera_Visibility(t *testing.T) {
	s := newSession(t, 4, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)

	v := s.View()
	require.Len(t, v.Agents, 1)
	assert.False(t, v.Agents[0].Visible, "cameras are closed")

	require.True(t, s.ToggleCameras())
	require.True(t, s.SwitchCamera(4))
	assert.False(t, s.SwitchCamera(len(resources.DefaultFeeds)))
	assert.False(t, s.SwitchCamera(-1))

	v = s.View()
	assert.Equal(t, world.WestHall, v.CameraFeed)
	assert.True(t, v.Agents[0].Visible)
	assert.Equal(t, world.WestHall, v.Agents[0].Room)
	assert.Equal(t, 1, s.Stats().CameraChecks)

	require.True(t, s.SwitchCamera(0))
	assert.False(t, s.View().Agents[0].Visible)
}

func TestBlock_DoorClosedAtLastInstant(t *testing.T) {
	s := newSession(t, 6, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)
	a := s.Agents()[0]

	for i := 0; i < 300 && !a.InOffice(); i++ {
		s.Update(tick)
	}
	require.True(t, a.InOffice())
	require.Equal(t, state.Playing, s.Phase())

	required := nights.RequiredWindup(s.Settings().Difficulty, s.Night())
	a.AdvanceWindup((required-a.Windup()-1e-9)/a.Mood().Multiplier(), required)
	require.False(t, a.WantsToAttack(required))

	require.True(t, s.ToggleDoor(resources.Left))
	s.Update(tick)

	assert.Equal(t, state.Playing, s.Phase())
	assert.NotEqual(t, agent.Attacking, a.State())
	assert.Equal(t, agent.Retreating, a.State())
	assert.Equal(t, 1, a.BlockCount())
	assert.Equal(t, 1, s.Stats().FailedBlocks)
}

// A player who never touches anything loses before 6 AM.
func TestScenario_PassivePlayerLoses(t *testing.T) {
	s := newSession(t, 1, nil)
	s.StartNight(1)
	require.Equal(t, resources.MaxPower, s.Power().Level())

	last := s.Power().Level()
	for i := 0; i < 300*30 && s.Phase() == state.Playing; i++ {
		s.Update(tick)
		checkInvariants(t, s, last)
		last = s.Power().Level()
	}

	require.Equal(t, state.Jumpscare, s.Phase())
	assert.Less(t, s.Clock().Minutes(), 360)
	require.NotNil(t, s.Killer())
	assert.True(t, s.Killer().CanStrike(s.Office()))
	assert.Equal(t, agent.Attacking, s.Killer().State())
}

// Holding both doors shut always ends the night one way or the other.
func TestScenario_HoldDoorsTerminates(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		s := newSession(t, seed, nil)
		s.StartNight(1)

		last := s.Power().Level()
		for i := 0; i < 400*30 && s.Phase() == state.Playing; i++ {
			for _, side := range []resources.Side{resources.Left, resources.Right} {
				if !s.Office().Closed(side) && s.Office().Door(side).CanClose() {
					s.ToggleDoor(side)
				}
			}
			s.Update(tick)
			checkInvariants(t, s, last)
			last = s.Power().Level()
		}

		require.True(t, s.Phase().Terminal(), "seed %d: night never ended", seed)
		if s.Phase() == state.Jumpscare {
			assert.True(t, s.Killer().CanStrike(s.Office()), "seed %d: attacked through a closed door", seed)
		}
	}
}

func TestScenario_DoorBreakGrace(t *testing.T) {
	s := newSession(t, 8, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)
	a := s.Agents()[0]

	require.True(t, s.ToggleDoor(resources.Left))
	s.Office().ApplyPressure(resources.Left, resources.MaxDoorHealth-resources.DoorCloseCost-0.1)
	s.Update(tick)

	d := s.Office().Door(resources.Left)
	require.False(t, d.Closed)
	assert.Greater(t, d.JamTimer, 0.0)
	assert.Greater(t, s.Arbiter().BreachGrace(), 0.0)
	assert.Equal(t, 1, s.Stats().DoorBreaks)
	assert.Equal(t, 1, s.Arbiter().MaxOfficeAttackers())
	assert.Equal(t, 1, s.View().MaxAttackers)

	// the door stands open but entries are held for the grace period
	for i := 0; i < int((arbiter.BreachGrace-0.2)/tick); i++ {
		s.Update(tick)
		require.False(t, a.InOffice(), "entered during grace")
		require.Equal(t, 1, s.Arbiter().MaxOfficeAttackers())
	}

	for i := 0; i < 60 && s.Stats().Entries == 0; i++ {
		s.Update(tick)
	}
	assert.Equal(t, 1, s.Stats().Entries)
}

func TestScenario_WinSavesProgress(t *testing.T) {
	ctx := context.Background()
	store := save.NewJSONStore(filepath.Join(t.TempDir(), "save.json"))

	settings := DefaultSettings()
	settings.Seed = 1
	settings.SecondsPerHour = 15
	settings.Roster = []agent.Profile{}
	s := New(settings, nil, store)
	require.NoError(t, s.LoadProgress(ctx))
	s.StartNight(1)

	for i := 0; i < int(15/tick)+2; i++ {
		s.Update(tick)
	}
	assert.InDelta(t, 60, s.Clock().Minutes(), 1)

	for i := 0; i < 100*30 && s.Phase() == state.Playing; i++ {
		s.Update(tick)
	}
	require.Equal(t, state.Won, s.Phase())
	assert.Equal(t, 360, s.Clock().Minutes())
	assert.Greater(t, s.Score(), 0)
	assert.Equal(t, EndingStandard, s.Ending())
	assert.Contains(t, s.DrainCues(), CueBell)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MaxNight)
	assert.Equal(t, s.Score(), got.HighScores[1])
	assert.Equal(t, 15.0, got.SecondsPerHour)
}

func TestRestartNight_RebuildsSameCast(t *testing.T) {
	s := newSession(t, 11, nil)
	s.StartNight(2)
	first := s.Agents()

	for i := 0; i < 200; i++ {
		s.Update(tick)
	}
	require.True(t, s.RestartNight())
	assert.Zero(t, s.Elapsed())
	again := s.Agents()

	require.Len(t, again, len(first))
	for i := range first {
		assert.Equal(t, first[i].Route(), again[i].Route())
		assert.Equal(t, first[i].Personality(), again[i].Personality())
		assert.Equal(t, first[i].BaseAggro(), again[i].BaseAggro())
	}

	s.ReturnToMenu()
	assert.Equal(t, state.Menu, s.Phase())
	assert.Empty(t, s.Agents())
	assert.False(t, s.RestartNight())
}

func TestSameSeedSameNight(t *testing.T) {
	run := func() *Session {
		s := newSession(t, 77, nil)
		s.StartNight(3)
		for i := 0; i < 60*30 && s.Phase() == state.Playing; i++ {
			if i%90 == 0 {
				s.ToggleDoor(resources.Side(i / 90 % 2))
			}
			s.Update(tick)
		}
		return s
	}

	a, b := run(), run()
	assert.Equal(t, a.Phase(), b.Phase())
	assert.Equal(t, a.Power().Level(), b.Power().Level())
	require.Len(t, b.Agents(), len(a.Agents()))
	for i, x := range a.Agents() {
		y := b.Agents()[i]
		assert.Equal(t, x.Room(), y.Room())
		assert.Equal(t, x.State(), y.State())
		assert.Equal(t, x.BlockCount(), y.BlockCount())
	}
}

func TestThreat(t *testing.T) {
	s := newSession(t, 1, []agent.Profile{hallProfile(agent.MrIngles, world.WestHall, resources.Left)})
	s.StartNight(1)

	// one agent next to the office and both doors open
	assert.Equal(t, 8+10, s.Threat())

	s.ToggleDoor(resources.Left)
	s.Power().Spend(60)
	assert.Equal(t, 8+10, s.computeThreat())
	s.Power().Spend(25)
	assert.Equal(t, 8+20, s.computeThreat())
}

func TestScoreAndEnding(t *testing.T) {
	st := Stats{DoorCloses: 10, CameraChecks: 40, PerfectBlocks: 2, FailedBlocks: 1}
	// 1000 + 100 - 50 + 300 + 100 - 30 = 1420; x1.25 night 2; x1.2
	assert.Equal(t, 2130, Score(st, 50, 2, 1.2))
	assert.Zero(t, Score(Stats{DoorCloses: 1000}, 0, 1, 1))

	tests := []struct {
		night int
		score int
		power float64
		want  Ending
	}{
		{5, 2500, 5, EndingPerfect},
		{5, 1000, 80, EndingVictory},
		{3, 1600, 60, EndingFlawless},
		{3, 1400, 60, EndingStandard},
		{2, 1600, 5, EndingBarely},
	}
	for _, tt := range tests {
		if got := EndingFor(tt.night, tt.score, tt.power); got != tt.want {
			t.Errorf("EndingFor(%d, %d, %v) = %v, want %v", tt.night, tt.score, tt.power, got, tt.want)
		}
	}
}

func TestCarryBetweenNights(t *testing.T) {
	s := newSession(t, 1, nil)
	s.StartNight(1)
	s.carry = agent.Carry{agent.MrIngles: 6}

	s.StartNight(2)
	for _, a := range s.Agents() {
		if a.Kind == agent.MrIngles {
			assert.Equal(t, 3, a.BlockCount())
		} else {
			assert.Zero(t, a.BlockCount())
		}
	}
}
