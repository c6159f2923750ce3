package session

// Cue is a one-shot presentation event: a sound to play or a flash to show.
type Cue int

// Cues
const (
	CueDoorOpen Cue = iota
	CueDoorClose
	CueDenied
	CueLight
	CueCamera
	CueOverload
	CueDoorBreak
	CuePowerOut
	CueEnrage
	CueEntry
	CueBlocked
	CueLure
	CueHide
	CueJumpscare
	CueBell
)

var cueNames = [...]string{
	"door_open", "door_close", "denied", "light", "camera", "overload",
	"door_break", "power_out", "enrage", "entry", "blocked", "lure",
	"hide", "jumpscare", "bell",
}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}

// maxCues bounds the queue when nothing drains it.
const maxCues = 64

func (s *Session) cue(c Cue) {
	s.cues = append(s.cues, c)
	if len(s.cues) > maxCues {
		s.cues = s.cues[len(s.cues)-maxCues:]
	}
}

// DrainCues returns and clears the cues raised since the last call.
func (s *Session) DrainCues() []Cue {
	out := s.cues
	s.cues = nil
	return out
}
