package gameplay

import (
	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

// dynamicGet is used for runtime translation key lookups.
var dynamicGet = gotext.Get

// generalTips rotate when nothing more urgent applies.
var generalTips = []string{
	"Close a door the moment someone waits in its hall for a perfect block.",
	"Every closed door, the light and the monitor all drain power.",
	"Opening a door repairs it fully.",
	"Agents only come in through the West and East halls.",
	"Surviving with power to spare scores a better ending.",
}

// Hint returns the most useful tip for the current situation.
func Hint(s *session.Session) string {
	if s.Phase() != state.Playing {
		if s.Progress().MaxNight > 1 {
			return gotext.Get("Press a number to replay an unlocked night, or Enter to continue.")
		}
		return gotext.Get("Press Enter to start your first shift.")
	}

	v := s.View()
	switch {
	case v.Outage:
		return gotext.Get("The power is out. Nothing left to do but wait for six.")
	case v.Power < 30 && (v.CamerasOpen || v.LightOn):
		return gotext.Get("Power is low. Put the monitor down and kill the light.")
	case v.Doors[resources.Left].Jammed || v.Doors[resources.Right].Jammed:
		return gotext.Get("A jammed door can't close until it recovers.")
	case v.Threat >= session.SafeSpotThreat && v.HideSpot == "" && len(s.SafeSpotsLeft()) > 0:
		return gotext.Get("Things look bad. Press H to hide while you still can.")
	case v.CameraHeat > resources.MaxHeat*0.7:
		return gotext.Get("The cameras are overheating. Give them a rest.")
	}
	for _, a := range v.Agents {
		if a.Visible && v.NoiseCharges > 0 {
			return gotext.Get("%s is on camera. Press N to lure everyone into that room.", a.Name)
		}
	}

	return dynamicGet(generalTips[(v.Minutes/60)%len(generalTips)])
}
