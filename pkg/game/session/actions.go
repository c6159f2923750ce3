package session

import (
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/state"
)

// dynamicGet is used for runtime translation key lookups.
// Using a variable prevents xgotext from trying to extract these as literal strings.
var dynamicGet = gotext.Get

// Player actions. Each returns true if it was accepted; every action is
// refused outside a night in progress.

func (s *Session) playing() bool {
	return s.phase == state.Playing
}

// ToggleDoor opens or closes a door.
func (s *Session) ToggleDoor(side resources.Side) bool {
	if !s.playing() {
		return false
	}

	switch s.office.ToggleDoor(side) {
	case resources.DoorClosed:
		s.cue(CueDoorClose)
		s.stats.DoorCloses++
		if s.perfectBlock(side) {
			s.stats.PerfectBlocks++
			s.stats.Combo++
			s.stats.BestCombo = max(s.stats.BestCombo, s.stats.Combo)
			s.comboTimer = ComboWindow
			s.setStatus(gotext.Get("Perfect block! Combo x%d", s.stats.Combo))
		}
		return true
	case resources.DoorOpened:
		s.cue(CueDoorOpen)
		return true
	case resources.DoorRejectedOutage:
		s.setStatus(gotext.Get("No power."))
	default:
		s.setStatus(gotext.Get("The %s door is jammed!", side.String()))
	}
	s.cue(CueDenied)
	return false
}

// perfectBlock reports whether an agent was waiting right behind the door
// that just closed.
func (s *Session) perfectBlock(side resources.Side) bool {
	minutes := s.clock.Minutes()
	for _, a := range s.agents {
		if a.Side() == side && a.Awake(minutes) && s.graph.IsEntryHall(a.Room()) {
			return true
		}
	}
	return false
}

// ToggleLight flips the office light.
func (s *Session) ToggleLight() bool {
	if !s.playing() {
		return false
	}
	if !s.office.ToggleLight() {
		if s.power.Outage() {
			s.setStatus(gotext.Get("No power."))
		} else {
			s.setStatus(gotext.Get("The flashlight needs to recharge."))
		}
		s.cue(CueDenied)
		return false
	}
	s.cue(CueLight)
	return true
}

// ToggleCameras opens or closes the monitor.
func (s *Session) ToggleCameras() bool {
	if !s.playing() {
		return false
	}
	if !s.office.ToggleCameras() {
		if s.power.Outage() {
			s.setStatus(gotext.Get("No power."))
		} else {
			s.setStatus(gotext.Get("The cameras are cooling down."))
		}
		s.cue(CueDenied)
		return false
	}
	s.cue(CueCamera)
	if s.office.Cameras().Open() {
		s.stats.CameraChecks++
	}
	return true
}

// SwitchCamera selects feed i.
func (s *Session) SwitchCamera(i int) bool {
	if !s.playing() {
		return false
	}
	return s.office.Cameras().Switch(i)
}

// DeployLure fires the noise maker at room. Every agent goes to investigate.
func (s *Session) DeployLure(room world.Room) bool {
	if !s.playing() {
		return false
	}
	if !s.graph.Has(room) || room == s.graph.Office() {
		return false
	}
	if !s.noise.Use() {
		if s.noise.Charges() == 0 {
			s.setStatus(gotext.Get("The noise maker is spent."))
		} else {
			s.setStatus(gotext.Get("The noise maker is recharging."))
		}
		return false
	}

	for _, a := range s.agents {
		a.Lure(room)
	}
	s.stats.Lures++
	s.cue(CueLure)
	s.events.AddMessage(gotext.Get("A noise echoes from the %s.", string(room)))
	s.log.Info("lure deployed", zap.String("room", string(room)), zap.Int("charges", s.noise.Charges()))
	return true
}

// UseBarricade reinforces the weaker door at the cost of power.
func (s *Session) UseBarricade() bool {
	if !s.playing() {
		return false
	}
	if s.power.Outage() || s.power.Level() < BarricadeMinPower {
		s.setStatus(gotext.Get("Not enough power to barricade."))
		return false
	}

	side, ok := s.office.Barricade()
	if !ok {
		s.setStatus(gotext.Get("The doors can't take any more."))
		return false
	}
	s.power.Spend(BarricadeCost)
	s.events.AddMessage(gotext.Get("Barricaded the %s door.", side.String()))
	return true
}

// EnterSafeSpot hides the player for a few seconds when the threat is high.
func (s *Session) EnterSafeSpot() bool {
	if !s.playing() {
		return false
	}
	switch {
	case s.Hiding():
		s.setStatus(gotext.Get("Already hiding."))
		return false
	case len(s.spotsLeft) == 0:
		s.setStatus(gotext.Get("Nowhere left to hide."))
		return false
	case s.threat < SafeSpotThreat:
		s.setStatus(gotext.Get("Not dangerous enough to hide."))
		return false
	}

	i := s.rng.Intn(len(s.spotsLeft))
	s.hideSpot = s.spotsLeft[i]
	s.spotsLeft = append(s.spotsLeft[:i], s.spotsLeft[i+1:]...)
	s.hideTimer = SafeSpotDuration
	s.cue(CueHide)

	for _, a := range s.agents {
		if a.InOffice() {
			a.Expel()
		}
	}
	s.events.AddMessage(gotext.Get("Hiding in the %s!", dynamicGet(s.hideSpot)))
	s.log.Info("hiding", zap.String("spot", s.hideSpot), zap.Int("threat", s.threat))
	return true
}

// HideSpot returns where the player is hiding and for how much longer.
func (s *Session) HideSpot() (string, float64) {
	return s.hideSpot, s.hideTimer
}

// SafeSpotsLeft returns the hiding places not yet used tonight.
func (s *Session) SafeSpotsLeft() []string {
	return append([]string(nil), s.spotsLeft...)
}

// NoiseMaker returns the lure device.
func (s *Session) NoiseMaker() *resources.NoiseMaker { return s.noise }
