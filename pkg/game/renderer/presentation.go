package renderer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/session"
)

// Appearance is how one kind of agent is drawn.
type Appearance struct {
	Glyph string
	Color color.RGBA
}

// appearances is keyed by kind so new presentation never touches the agents.
var appearances = map[agent.Kind]Appearance{
	agent.MrIngles:    {Glyph: "I", Color: color.RGBA{255, 90, 90, 255}},
	agent.JanitorBot:  {Glyph: "J", Color: color.RGBA{120, 200, 255, 255}},
	agent.Librarian:   {Glyph: "L", Color: color.RGBA{220, 170, 255, 255}},
	agent.VentCrawler: {Glyph: "V", Color: color.RGBA{120, 255, 150, 255}},
}

var unknownAppearance = Appearance{Glyph: "?", Color: color.RGBA{200, 200, 200, 255}}

// AppearanceOf returns the glyph and colour for kind.
func AppearanceOf(kind agent.Kind) Appearance {
	if a, ok := appearances[kind]; ok {
		return a
	}
	return unknownAppearance
}

// ThreatStyle bands a 0..100 threat level.
func ThreatStyle(threat int) TextStyle {
	switch {
	case threat >= 70:
		return StyleDanger
	case threat >= 40:
		return StyleWarning
	default:
		return StyleGood
	}
}

// PowerStyle bands a 0..100 power level.
func PowerStyle(power float64) TextStyle {
	switch {
	case power < 20:
		return StyleDanger
	case power < 50:
		return StyleWarning
	default:
		return StyleGood
	}
}

// Bar draws value out of limit as a fixed-width bar.
func Bar(value, limit float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if limit > 0 {
		filled = int(value / limit * float64(width))
	}
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// CueText is the onomatopoeia a text frontend shows for a cue.
func CueText(c session.Cue) string {
	switch c {
	case session.CueDoorClose:
		return gotext.Get("*SLAM*")
	case session.CueDoorOpen:
		return gotext.Get("*creak*")
	case session.CueDenied:
		return gotext.Get("*bzzt*")
	case session.CueDoorBreak:
		return gotext.Get("*CRACK*")
	case session.CuePowerOut:
		return gotext.Get("*whirr... click*")
	case session.CueEnrage:
		return gotext.Get("*a distant scream*")
	case session.CueEntry:
		return gotext.Get("*footsteps, close*")
	case session.CueBlocked:
		return gotext.Get("*THUD*")
	case session.CueLure:
		return gotext.Get("*beep beep beep*")
	case session.CueJumpscare:
		return gotext.Get("*SCREECH*")
	case session.CueBell:
		return gotext.Get("*ding ding ding*")
	}
	return ""
}

// DoorLabel describes a door for a HUD line.
func DoorLabel(d session.DoorView) string {
	state := gotext.Get("open")
	switch {
	case d.Jammed:
		state = gotext.Get("JAMMED")
	case d.Closed:
		state = gotext.Get("closed")
	}
	label := fmt.Sprintf("%s %3.0f%%", state, d.Health)
	if d.Barricade > 0 {
		label += fmt.Sprintf(" +%d", d.Barricade)
	}
	return label
}
