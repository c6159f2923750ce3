// Package gameplay connects player intents to the session.
package gameplay

import (
	"github.com/leonelquinteros/gotext"

	engineinput "nightshift/pkg/engine/input"
	"nightshift/pkg/game/devtools"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

// Result tells the frontend loop what to do after an intent.
type Result int

const (
	Continue Result = iota
	Quit
)

// ProcessIntent handles a high-level input intent from the tiered input system.
func ProcessIntent(s *session.Session, intent engineinput.Intent) Result {
	switch intent.Action {
	case engineinput.ActionNone:
		return Continue
	case engineinput.ActionQuit:
		return Quit
	case engineinput.ActionScreenshot:
		path, err := devtools.SaveScreenshotHTML(s.View())
		if err != nil {
			logMessage(s, gotext.Get("Screenshot failed: %v", err))
		} else {
			logMessage(s, gotext.Get("Screenshot saved to %s", path))
		}
		return Continue
	case engineinput.ActionDumpGraph:
		path, err := devtools.DumpGraphToFile(s)
		if err != nil {
			logMessage(s, gotext.Get("Map dump failed: %v", err))
		} else {
			logMessage(s, gotext.Get("Map dumped to %s", path))
		}
		return Continue
	}

	switch s.Phase() {
	case state.Menu:
		processMenu(s, intent)
	case state.Playing:
		processNight(s, intent)
	case state.Paused:
		switch intent.Action {
		case engineinput.ActionPause, engineinput.ActionConfirm:
			s.Resume()
		case engineinput.ActionRestart:
			s.RestartNight()
		case engineinput.ActionMenu:
			s.ReturnToMenu()
		}
	case state.Jumpscare:
		switch intent.Action {
		case engineinput.ActionConfirm, engineinput.ActionRestart:
			s.RestartNight()
		case engineinput.ActionMenu:
			s.ReturnToMenu()
		}
	case state.Won:
		switch intent.Action {
		case engineinput.ActionConfirm:
			AdvanceNight(s)
		case engineinput.ActionRestart:
			s.RestartNight()
		case engineinput.ActionMenu:
			s.ReturnToMenu()
		}
	}
	return Continue
}

// processMenu starts a night. Digits pick any unlocked night and Enter
// continues from the furthest one.
func processMenu(s *session.Session, intent engineinput.Intent) {
	unlocked := s.Progress().MaxNight
	switch intent.Action {
	case engineinput.ActionConfirm:
		s.StartNight(unlocked)
	case engineinput.ActionSelect:
		if intent.Index > unlocked {
			logMessage(s, gotext.Get("Night %d is still locked.", intent.Index))
			return
		}
		s.StartNight(intent.Index)
	case engineinput.ActionHint:
		logMessage(s, Hint(s))
	}
}

func processNight(s *session.Session, intent engineinput.Intent) {
	cams := s.Office().Cameras()

	switch intent.Action {
	case engineinput.ActionDoorLeft:
		s.ToggleDoor(resources.Left)
	case engineinput.ActionDoorRight:
		s.ToggleDoor(resources.Right)
	case engineinput.ActionLight:
		s.ToggleLight()
	case engineinput.ActionCameras:
		s.ToggleCameras()
	case engineinput.ActionSelect:
		s.SwitchCamera(intent.Index - 1)
	case engineinput.ActionCameraNext:
		if n := len(cams.Feeds()); n > 0 {
			s.SwitchCamera((cams.Index() + 1) % n)
		}
	case engineinput.ActionCameraPrev:
		if n := len(cams.Feeds()); n > 0 {
			s.SwitchCamera((cams.Index() + n - 1) % n)
		}
	case engineinput.ActionLure:
		// The noise maker fires into whichever room the monitor shows.
		s.DeployLure(cams.Current())
	case engineinput.ActionBarricade:
		s.UseBarricade()
	case engineinput.ActionHide:
		s.EnterSafeSpot()
	case engineinput.ActionPause:
		s.Pause()
	case engineinput.ActionRestart:
		s.RestartNight()
	case engineinput.ActionMenu:
		s.ReturnToMenu()
	case engineinput.ActionHint:
		logMessage(s, Hint(s))
	}
}

// logMessage adds a message to the session's event log
func logMessage(s *session.Session, msg string) {
	s.AddMessage(msg)
}
