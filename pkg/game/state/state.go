package state

// Phase is the top-level game state.
type Phase int

// Game phases
const (
	Menu Phase = iota
	Playing
	Paused
	Jumpscare
	Won
)

func (p Phase) String() string {
	switch p {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Jumpscare:
		return "jumpscare"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends the night.
func (p Phase) Terminal() bool {
	return p == Jumpscare || p == Won
}

// MaxMessages is how many event-log lines are kept.
const MaxMessages = 5

// EventLog keeps the most recent notable events of a night.
type EventLog struct {
	Messages []string
}

// NewEventLog creates an empty log
func NewEventLog() *EventLog {
	return &EventLog{Messages: make([]string, 0, MaxMessages)}
}

// AddMessage adds a message to the log
func (l *EventLog) AddMessage(msg string) {
	l.Messages = append(l.Messages, msg)

	// Keep only the last MaxMessages
	if len(l.Messages) > MaxMessages {
		l.Messages = l.Messages[len(l.Messages)-MaxMessages:]
	}
}

// ClearMessages clears all messages
func (l *EventLog) ClearMessages() {
	l.Messages = l.Messages[:0]
}

// Recent returns a copy of the log, oldest first.
func (l *EventLog) Recent() []string {
	out := make([]string, len(l.Messages))
	copy(out, l.Messages)
	return out
}
