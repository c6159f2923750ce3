package agent

// State is the canonical behaviour state of an agent.
type State int

const (
	Patrolling State = iota
	MovingToTarget
	Retreating
	InOfficeThreatening
	Attacking
)

func (s State) String() string {
	switch s {
	case Patrolling:
		return "patrolling"
	case MovingToTarget:
		return "moving"
	case Retreating:
		return "retreating"
	case InOfficeThreatening:
		return "in office"
	case Attacking:
		return "attacking"
	default:
		return "unknown"
	}
}

// Mood colours how urgently an agent presses an attack.
type Mood int

const (
	Neutral Mood = iota
	Cautious
	Aggressive
	Hunting
	RetreatingMood
)

func (m Mood) String() string {
	switch m {
	case Neutral:
		return "neutral"
	case Cautious:
		return "cautious"
	case Aggressive:
		return "aggressive"
	case Hunting:
		return "hunting"
	case RetreatingMood:
		return "retreating"
	default:
		return "unknown"
	}
}

// Multiplier scales windup progress.
func (m Mood) Multiplier() float64 {
	switch m {
	case Cautious:
		return 0.7
	case Aggressive:
		return 1.4
	case Hunting:
		return 1.6
	case RetreatingMood:
		return 0.5
	default:
		return 1.0
	}
}

// Seeks reports whether the mood drives the agent toward a target instead of patrolling.
func (m Mood) Seeks() bool {
	return m == Aggressive || m == Hunting
}

// Personality is the archetype drawn for an agent each night.
type Personality int

const (
	PersonalityAggressive Personality = iota
	PersonalityPatient
	PersonalityErratic
	PersonalityStalker
	PersonalityTeamPlayer
	PersonalityTrickster
	PersonalityCautious
	PersonalityRelentless

	personalityCount
)

var personalityNames = [...]string{
	"aggressive", "patient", "erratic", "stalker",
	"team player", "trickster", "cautious", "relentless",
}

func (p Personality) String() string {
	if p < 0 || p >= personalityCount {
		return "unknown"
	}
	return personalityNames[p]
}

// Ability is a special trait drawn for an agent each night.
type Ability int

const (
	AbilityLightKiller Ability = iota
	AbilityCameraJammer
	AbilityPowerDrainer
	AbilitySpeedDemon
	AbilityDoorBreaker
	AbilitySilentStalker
	AbilityMimic
	AbilityTeleporter

	abilityCount
)

var abilityNames = [...]string{
	"light killer", "camera jammer", "power drainer", "speed demon",
	"door breaker", "silent stalker", "mimic", "teleporter",
}

func (a Ability) String() string {
	if a < 0 || a >= abilityCount {
		return "unknown"
	}
	return abilityNames[a]
}

// Traits are the per-night personality scalars.
type Traits struct {
	Patience         float64
	Curiosity        float64
	Persistence      float64
	Teamwork         float64
	Deception        float64
	SoundSensitivity float64
	CameraAwareness  float64
}

// Kind identifies a roster entry. Presentation layers key their sprites and
// colours on it.
type Kind int

const (
	MrIngles Kind = iota
	JanitorBot
	Librarian
	VentCrawler
)

func (k Kind) String() string {
	switch k {
	case MrIngles:
		return "Scary Mr Ingles"
	case JanitorBot:
		return "Janitor Bot"
	case Librarian:
		return "Librarian"
	case VentCrawler:
		return "Vent Crawler"
	default:
		return "Unknown"
	}
}
