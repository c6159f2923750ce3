package devtools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

func simConfig(seed int64) SimConfig {
	settings := session.DefaultSettings()
	settings.Seed = seed
	settings.SecondsPerHour = 15
	return SimConfig{Settings: settings, Night: 1}
}

func TestSimulate_EmptyRosterWins(t *testing.T) {
	cfg := simConfig(1)
	cfg.Settings.Roster = []agent.Profile{}

	res := Simulate(cfg, Passive, nil)
	assert.Equal(t, state.Won, res.Phase)
	assert.Equal(t, 360, res.Minutes)
	assert.Greater(t, res.Score, 0)
	assert.Empty(t, res.Killer)
}

func TestSimulate_Deterministic(t *testing.T) {
	a := Simulate(simConfig(9), Watchful, nil)
	b := Simulate(simConfig(9), Watchful, nil)
	assert.Equal(t, a, b)
}

func TestSimulate_Terminates(t *testing.T) {
	for _, name := range PolicyNames() {
		t.Run(name, func(t *testing.T) {
			policy, err := PolicyByName(name)
			require.NoError(t, err)
			res := Simulate(simConfig(3), policy, nil)
			assert.True(t, res.Phase.Terminal(), "ended in %s", res.Phase)
			if res.Phase == state.Jumpscare {
				assert.NotEmpty(t, res.Killer)
			}
		})
	}
}

func TestSimulate_MaxSecondsStopsEarly(t *testing.T) {
	cfg := simConfig(2)
	cfg.Settings.Roster = []agent.Profile{}
	cfg.Dt = 1.0 / 32
	cfg.MaxSeconds = 1

	res := Simulate(cfg, Passive, nil)
	assert.Equal(t, state.Playing, res.Phase)
	assert.Equal(t, 32, res.Ticks)
}

func TestPolicyByName_Unknown(t *testing.T) {
	_, err := PolicyByName("yolo")
	assert.ErrorContains(t, err, "yolo")
}

func TestSoakAndSummarize(t *testing.T) {
	cfg := simConfig(5)
	results := Soak(cfg, HoldDoors, 3, nil)
	require.Len(t, results, 3)
	assert.Equal(t, int64(5), results[0].Seed)
	assert.Equal(t, int64(7), results[2].Seed)

	sum := Summarize(results)
	assert.Equal(t, 3, sum.Runs)
	assert.Equal(t, 3, sum.Won+sum.Jumpscares+sum.Unfinished)

	killed := 0
	for _, n := range sum.Killers {
		killed += n
	}
	assert.Equal(t, sum.Jumpscares, killed)
}

func TestWriteGraph(t *testing.T) {
	settings := session.DefaultSettings()
	settings.Seed = 4
	s := session.New(settings, nil, nil)
	s.StartNight(1)

	var b strings.Builder
	require.NoError(t, WriteGraph(&b, s))
	out := b.String()

	assert.Contains(t, out, "night: 1")
	assert.Contains(t, out, `"Office" distance: 0`)
	assert.Contains(t, out, `"West Hall" distance: 1 neighbors: Office`)
	assert.Contains(t, out, "[entry,camera]")
	for _, p := range agent.DefaultRoster {
		assert.Contains(t, out, p.Kind.String())
	}
}

func TestWriteGraph_Emergency(t *testing.T) {
	settings := session.DefaultSettings()
	settings.Seed = 4
	settings.Roster = []agent.Profile{}
	s := session.New(settings, nil, nil)
	s.StartNight(1)
	s.Power().Spend(s.Power().Level() - 0.001)
	s.Update(session.MaxTickDelta)
	require.True(t, s.Power().Emergency())

	var b strings.Builder
	require.NoError(t, WriteGraph(&b, s))
	assert.Contains(t, b.String(), "reserve: 15.0")
}

func TestScreenshotHTML(t *testing.T) {
	settings := session.DefaultSettings()
	settings.Seed = 4
	settings.Roster = []agent.Profile{{Kind: agent.Librarian, Start: world.Library}}
	s := session.New(settings, nil, nil)
	s.StartNight(2)
	s.AddMessage("<script>")

	out := ScreenshotHTML(s.View())
	assert.Contains(t, out, "Night 2")
	assert.Contains(t, out, "Librarian")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `class="good"`)
}
