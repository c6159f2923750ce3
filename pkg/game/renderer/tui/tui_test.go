package tui

import (
	"bytes"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"

	"nightshift/pkg/engine/world"
	"nightshift/pkg/game/agent"
	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

func newTestRenderer() (*TUIRenderer, *bytes.Buffer) {
	color.Disable()
	var buf bytes.Buffer
	r := NewWithWriter(&buf)
	r.Init()
	return r, &buf
}

func TestFormatText_Markup(t *testing.T) {
	r, _ := newTestRenderer()

	assert.Equal(t, "open", r.FormatText("GT{open}"))
	assert.Equal(t, "go to Kitchen", r.FormatText("go to ROOM{%s}", "Kitchen"))
	assert.Equal(t, "quit", r.FormatText("ACTION{quit}"))
	assert.Contains(t, r.FormatText("BOGUS{x}"), "function not found")
}

func TestStyleText_PlainWhenColorDisabled(t *testing.T) {
	r, _ := newTestRenderer()
	assert.Equal(t, "hi", r.StyleText("hi", renderer.StyleDanger))
	assert.Equal(t, "hi", r.StyleText("hi", renderer.StyleNormal))
}

func TestRenderFrame_Menu(t *testing.T) {
	r, buf := newTestRenderer()

	r.RenderFrame(session.View{Phase: state.Menu, MaxNight: 2})
	out := buf.String()

	assert.Contains(t, out, "NIGHT SHIFT")
	assert.Contains(t, out, "1 Night 1")
	assert.Contains(t, out, "2 Night 2")
	assert.Contains(t, out, "Night 3  locked")
	assert.Contains(t, out, "(no messages)")
}

func TestRenderFrame_Office(t *testing.T) {
	r, buf := newTestRenderer()

	settings := session.DefaultSettings()
	settings.Seed = 11
	settings.Roster = []agent.Profile{{Kind: agent.Librarian, Start: world.Library}}
	s := session.New(settings, nil, nil)
	s.StartNight(1)
	s.AddMessage("Something creaks.")

	r.RenderFrame(s.View())
	out := buf.String()

	assert.Contains(t, out, "Night 1")
	assert.Contains(t, out, "12:00 AM")
	assert.Contains(t, out, "Power")
	assert.Contains(t, out, "Threat")
	assert.Contains(t, out, "L open")
	assert.Contains(t, out, "Something creaks.")
	assert.Contains(t, out, "\x1b[K\r\n")
}

func TestRenderFrame_PausedShowsResumeHelp(t *testing.T) {
	r, buf := newTestRenderer()

	settings := session.DefaultSettings()
	settings.Seed = 3
	s := session.New(settings, nil, nil)
	s.StartNight(1)
	s.Pause()

	r.RenderFrame(s.View())
	assert.Contains(t, buf.String(), "[PAUSED]")
	assert.Contains(t, buf.String(), "resume")
}

func TestRenderFrame_Jumpscare(t *testing.T) {
	r, buf := newTestRenderer()

	r.RenderFrame(session.View{Phase: state.Jumpscare, Night: 3, Clock: "4 AM", Killer: "Librarian"})
	assert.Contains(t, buf.String(), "!!! LIBRARIAN !!!")
	assert.Contains(t, buf.String(), "retry")
}

func TestRenderFrame_WonFinalNight(t *testing.T) {
	r, buf := newTestRenderer()

	r.RenderFrame(session.View{Phase: state.Won, Night: 5, Score: 420, HighScore: 500, Ending: session.EndingFor(5, 420, 30)})
	out := buf.String()
	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "Best")
	assert.Contains(t, out, "Enter menu")
	assert.NotContains(t, out, "next night")
}

func TestShowMessage_Expires(t *testing.T) {
	r, buf := newTestRenderer()
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	r.ShowMessage("The left door slams.")
	r.RenderFrame(session.View{Phase: state.Playing, Night: 1, Clock: "1 AM"})
	assert.Contains(t, buf.String(), "The left door slams.")

	buf.Reset()
	now = now.Add(2 * time.Second)
	r.RenderFrame(session.View{Phase: state.Playing, Night: 1, Clock: "1 AM"})
	assert.NotContains(t, buf.String(), "The left door slams.")
}
