package session

import (
	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/arbiter"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/state"
)

// DoorView is a snapshot of one door.
type DoorView struct {
	Side      resources.Side
	Closed    bool
	Health    float64
	Jammed    bool
	Barricade int
}

// AgentView is what presentation layers may know about an agent: its kind
// and logical room, never a position.
type AgentView struct {
	Kind    agent.Kind
	Name    string
	Room    world.Room
	State   agent.State
	Mood    agent.Mood
	Side    resources.Side
	Windup  float64
	Visible bool
}

// View is a read-only snapshot for renderers.
type View struct {
	Phase   state.Phase
	Night   int
	Clock   string
	Minutes int

	Power         float64
	DrainRate     float64
	Outage        bool
	Emergency     bool
	EmergencyLeft float64
	Reserve       float64

	Doors   [2]DoorView
	LightOn bool
	Battery float64

	CamerasOpen       bool
	CameraIndex       int
	CameraFeed        world.Room
	CameraFeeds       []world.Room
	CameraHeat        float64
	CamerasOverloaded bool

	Agents       []AgentView
	OfficeCount  int
	MaxAttackers int
	Threat       int

	NoiseCharges  int
	NoiseCooldown float64
	HideSpot      string
	HideLeft      float64

	Stats  Stats
	Score  int
	Ending Ending
	Killer string

	Events []string
	Status string

	MaxNight  int
	HighScore int
}

// View captures the session for rendering. At the menu only the progress
// fields are filled in.
func (s *Session) View() View {
	v := View{
		Phase:     s.phase,
		Night:     s.night,
		Events:    s.events.Recent(),
		Status:    s.status,
		MaxNight:  s.progress.MaxNight,
		HighScore: s.progress.HighScores[s.night],
	}
	if s.clock == nil {
		return v
	}

	v.Clock = s.clock.String()
	v.Minutes = s.clock.Minutes()

	v.Power = s.power.Level()
	v.DrainRate = s.power.Rate()
	v.Outage = s.power.Outage()
	v.Emergency = s.power.Emergency()
	v.EmergencyLeft = s.power.EmergencyRemaining()
	v.Reserve = s.power.Reserve()

	for _, side := range []resources.Side{resources.Left, resources.Right} {
		d := s.office.Door(side)
		v.Doors[side] = DoorView{
			Side:      side,
			Closed:    d.Closed,
			Health:    d.Health,
			Jammed:    d.Jammed(),
			Barricade: d.Barricade,
		}
	}
	v.LightOn = s.office.LightOn()
	v.Battery = s.office.Battery()

	cams := s.office.Cameras()
	v.CamerasOpen = cams.Open()
	v.CameraIndex = cams.Index()
	v.CameraFeed = cams.Current()
	v.CameraFeeds = cams.Feeds()
	v.CameraHeat = cams.Heat()
	v.CamerasOverloaded = cams.Overloaded()

	for _, a := range s.agents {
		v.Agents = append(v.Agents, AgentView{
			Kind:    a.Kind,
			Name:    a.Name,
			Room:    a.Room(),
			State:   a.State(),
			Mood:    a.Mood(),
			Side:    a.Side(),
			Windup:  a.Windup(),
			Visible: s.visible(a),
		})
	}
	v.OfficeCount = arbiter.OfficeCount(s.agents)
	v.MaxAttackers = s.arbiter.MaxOfficeAttackers()
	v.Threat = s.threat

	v.NoiseCharges = s.noise.Charges()
	v.NoiseCooldown = s.noise.Cooldown()
	v.HideSpot, v.HideLeft = s.hideSpot, s.hideTimer

	v.Stats = s.stats
	v.Score = s.score
	v.Ending = s.ending
	if s.killer != nil {
		v.Killer = s.killer.Name
	}
	return v
}

// visible reports whether the selected camera feed shows a.
func (s *Session) visible(a *agent.Agent) bool {
	cams := s.office.Cameras()
	return cams.Open() && cams.Current() == a.Room() && !a.HiddenFromCameras(s.clock.Minutes())
}
