package tui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/engine/terminal"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

// Layout limits
const (
	MinBarWidth  = 10
	MaxBarWidth  = 30
	BarSideSpace = 40 // label and figures around a bar
	flashTime    = 1200 * time.Millisecond
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

var _ renderer.Renderer = (*TUIRenderer)(nil)

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	out io.Writer

	colorTitle       color.Style
	colorRoom        color.Style
	colorAgent       color.Style
	colorAction      color.Style
	colorActionShort color.Style
	colorDenied      color.Style
	colorGood        color.Style
	colorWarning     color.Style
	colorDanger      color.Style
	colorSubtle      color.Style

	regexpStringFunctions *regexp.Regexp

	flash    string
	flashEnd time.Time
	now      func() time.Time
}

// New creates a new TUI renderer writing to stdout
func New() *TUIRenderer {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a TUI renderer that draws to w.
func NewWithWriter(w io.Writer) *TUIRenderer {
	return &TUIRenderer{out: w, now: time.Now}
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorTitle = color.Style{color.FgMagenta, color.OpBold}
	t.colorRoom = color.Style{color.FgBlue}
	t.colorAgent = color.Style{color.FgRed, color.OpBold}
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorDenied = color.Style{color.FgRed, color.OpBold}
	t.colorGood = color.Style{color.FgGreen}
	t.colorWarning = color.Style{color.FgYellow, color.OpBold}
	t.colorDanger = color.Style{color.FgRed, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}

	t.regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:'.?!]+)}`)
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	terminal.Begin(t.out)
}

// Close restores the cursor.
func (t *TUIRenderer) Close() {
	terminal.End(t.out)
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleTitle:
		return t.colorTitle.Sprint(text)
	case renderer.StyleRoom:
		return t.colorRoom.Sprint(text)
	case renderer.StyleAgent:
		return t.colorAgent.Sprint(text)
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleDenied:
		return t.colorDenied.Sprint(text)
	case renderer.StyleGood:
		return t.colorGood.Sprint(text)
	case renderer.StyleWarning:
		return t.colorWarning.Sprint(text)
	case renderer.StyleDanger:
		return t.colorDanger.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	ret := fmt.Sprintf(msg, args...)

	matches := t.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		val := "blat"

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "ROOM":
			val = t.colorRoom.Sprint(dynamicGet(operand))
		case "AGENT":
			val = t.colorAgent.Sprint(operand)
		case "ACTION":
			val = t.colorActionShort.Sprint(operand[0:1]) + t.colorAction.Sprint(operand[1:])
		case "WARN":
			val = t.colorWarning.Sprint(operand)
		default:
			ret = fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}

// ShowMessage flashes a short line above the messages pane.
func (t *TUIRenderer) ShowMessage(msg string) {
	if msg == "" {
		return
	}
	t.flash = msg
	t.flashEnd = t.now().Add(flashTime)
}

// GetViewportSize returns the terminal dimensions
func (t *TUIRenderer) GetViewportSize() (rows, cols int) {
	width, height := terminal.GetSize()
	return height, width
}

// RenderFrame renders a complete game frame
func (t *TUIRenderer) RenderFrame(v session.View) {
	terminal.Home(t.out)

	switch v.Phase {
	case state.Menu:
		t.printMenu(v)
	case state.Jumpscare:
		t.printJumpscare(v)
	case state.Won:
		t.printWon(v)
	default:
		t.printOffice(v)
	}

	terminal.ClearBelow(t.out)
}

// line prints one formatted row and clears what the last frame left after it.
func (t *TUIRenderer) line(msg string, a ...any) {
	fmt.Fprint(t.out, t.FormatText(msg, a...))
	terminal.EndLine(t.out)
}

func (t *TUIRenderer) blank() {
	terminal.EndLine(t.out)
}

func (t *TUIRenderer) barWidth() int {
	_, cols := t.GetViewportSize()
	return max(MinBarWidth, min(MaxBarWidth, cols-BarSideSpace))
}

func (t *TUIRenderer) printMenu(v session.View) {
	t.line("%s", t.colorTitle.Sprint(gotext.Get("NIGHT SHIFT")))
	t.blank()
	for n := 1; n <= nights.TotalNights; n++ {
		if n > v.MaxNight {
			t.line("  %s", t.colorSubtle.Sprintf(gotext.Get("Night %d  locked"), n))
			continue
		}
		t.line("  ACTION{%d} %s", n, gotext.Get("Night %d", n))
	}
	t.blank()
	t.line("%s", gotext.Get("ACTION{Enter} continue   ACTION{?} hint   ACTION{q} quit"))
	t.printMessagesPane(v)
}

func (t *TUIRenderer) printOffice(v session.View) {
	header := t.colorTitle.Sprintf(gotext.Get("Night %d"), v.Night) + "   " + t.colorAction.Sprint(v.Clock)
	if v.Phase == state.Paused {
		header += "   " + t.colorWarning.Sprint(gotext.Get("[PAUSED]"))
	}
	t.line("%s", header)
	t.blank()

	w := t.barWidth()
	power := t.StyleText(renderer.Bar(v.Power, resources.MaxPower, w), renderer.PowerStyle(v.Power))
	powerLine := fmt.Sprintf("%-8s%s %5.1f%%  -%.2f/s", gotext.Get("Power"), power, v.Power, v.DrainRate)
	switch {
	case v.Emergency:
		powerLine += "  " + t.colorDanger.Sprintf(gotext.Get("EMERGENCY %.0fs"), v.EmergencyLeft)
	case v.Outage:
		powerLine += "  " + t.colorDanger.Sprint(gotext.Get("OUTAGE"))
	}
	t.line("%s", powerLine)

	threat := t.StyleText(renderer.Bar(float64(v.Threat), 100, w), renderer.ThreatStyle(v.Threat))
	t.line("%-8s%s %3d   %s", gotext.Get("Threat"), threat, v.Threat,
		t.colorSubtle.Sprintf(gotext.Get("in office %d/%d"), v.OfficeCount, v.MaxAttackers))

	t.line("%-8s%s   %s", gotext.Get("Doors"),
		t.doorText(gotext.Get("L"), v.Doors[resources.Left]),
		t.doorText(gotext.Get("R"), v.Doors[resources.Right]))

	light := t.colorSubtle.Sprint(gotext.Get("off"))
	if v.LightOn {
		light = t.colorWarning.Sprint(gotext.Get("on"))
	}
	t.line("%-8s%s  %s %3.0f%%", gotext.Get("Light"), light, gotext.Get("battery"), v.Battery)

	t.printCameras(v)

	tools := gotext.Get("Noise maker x%d", v.NoiseCharges)
	if v.NoiseCooldown > 0 {
		tools += fmt.Sprintf(" (%.0fs)", v.NoiseCooldown)
	}
	if v.HideSpot != "" {
		tools += "   " + t.colorGood.Sprintf(gotext.Get("hiding: %s %.0fs"), dynamicGet(v.HideSpot), v.HideLeft)
	}
	if v.Stats.Combo > 1 {
		tools += "   " + t.colorWarning.Sprintf(gotext.Get("combo x%d"), v.Stats.Combo)
	}
	t.line("%-8s%s", gotext.Get("Tools"), tools)

	t.blank()
	t.printFlash()
	if v.Status != "" {
		t.line("%s", t.colorWarning.Sprint(v.Status))
	} else {
		t.blank()
	}
	t.printMessagesPane(v)
	if v.Phase == state.Paused {
		t.line("%s", gotext.Get("ACTION{p} resume   ACTION{r} restart night   ACTION{m} menu   ACTION{q} quit"))
		return
	}
	t.line("%s", gotext.Get("ACTION{a}/ACTION{d} doors  ACTION{f} light  ACTION{c} cams  ACTION{1}-ACTION{9} feed  ACTION{n} lure  ACTION{b} barricade  ACTION{h} hide  ACTION{p} pause  ACTION{q} quit"))
}

func (t *TUIRenderer) doorText(label string, d session.DoorView) string {
	text := label + " " + renderer.DoorLabel(d)
	switch {
	case d.Jammed:
		return t.colorDenied.Sprint(text)
	case d.Closed:
		return t.colorWarning.Sprint(text)
	default:
		return text
	}
}

// printCameras lists the feeds, with what the selected one shows.
func (t *TUIRenderer) printCameras(v session.View) {
	switch {
	case v.CamerasOverloaded:
		t.line("%-8s%s", gotext.Get("Cams"), t.colorDenied.Sprint(gotext.Get("OVERHEATED")))
		return
	case !v.CamerasOpen:
		t.line("%-8s%s  %s %3.0f%%", gotext.Get("Cams"), t.colorSubtle.Sprint(gotext.Get("down")), gotext.Get("heat"), v.CameraHeat)
		return
	}

	var feeds []string
	for i, room := range v.CameraFeeds {
		label := fmt.Sprintf("%d %s", i+1, dynamicGet(string(room)))
		if i == v.CameraIndex {
			label = t.colorRoom.Sprint("[" + label + "]")
		}
		feeds = append(feeds, label)
	}
	t.line("%-8s%s  %s %3.0f%%", gotext.Get("Cams"), strings.Join(feeds, " "), gotext.Get("heat"), v.CameraHeat)

	var seen []string
	for _, a := range v.Agents {
		if !a.Visible {
			continue
		}
		look := renderer.AppearanceOf(a.Kind)
		c := color.RGB(look.Color.R, look.Color.G, look.Color.B)
		seen = append(seen, c.Sprint(look.Glyph)+" "+a.Name)
	}
	if len(seen) == 0 {
		t.line("%-8s%s", "", t.colorSubtle.Sprint(gotext.Get("nothing moves")))
		return
	}
	t.line("%-8s%s", "", strings.Join(seen, ", "))
}

func (t *TUIRenderer) printJumpscare(v session.View) {
	t.blank()
	t.line("%s", t.colorDanger.Sprint(gotext.Get("!!! %s !!!", strings.ToUpper(v.Killer))))
	t.blank()
	t.line("%s", gotext.Get("Night %d ended at %s.", v.Night, v.Clock))
	t.printMessagesPane(v)
	t.line("%s", gotext.Get("ACTION{Enter} retry   ACTION{m} menu   ACTION{q} quit"))
}

func (t *TUIRenderer) printWon(v session.View) {
	t.line("%s", t.colorGood.Sprint(v.Ending.Text(v.Night)))
	t.blank()
	t.line("%-16s%d", gotext.Get("Score"), v.Score)
	if v.HighScore > 0 {
		t.line("%-16s%d", gotext.Get("Best"), v.HighScore)
	}
	t.line("%-16s%.1f%%", gotext.Get("Power left"), v.Power)
	t.line("%-16s%d / %d", gotext.Get("Perfect blocks"), v.Stats.PerfectBlocks, v.Stats.PerfectBlocks+v.Stats.FailedBlocks)
	t.line("%-16s%d", gotext.Get("Best combo"), v.Stats.BestCombo)
	t.line("%-16s%d", gotext.Get("Door closes"), v.Stats.DoorCloses)
	t.line("%-16s%d", gotext.Get("Camera checks"), v.Stats.CameraChecks)
	t.blank()
	if nights.IsFinal(v.Night) {
		t.line("%s", gotext.Get("ACTION{Enter} menu   ACTION{q} quit"))
	} else {
		t.line("%s", gotext.Get("ACTION{Enter} next night   ACTION{r} replay   ACTION{q} quit"))
	}
}

func (t *TUIRenderer) printFlash() {
	if t.flash != "" && t.now().Before(t.flashEnd) {
		t.line("%s", t.colorWarning.Sprint(t.flash))
		return
	}
	t.flash = ""
	t.blank()
}

// printMessagesPane renders the messages log pane
func (t *TUIRenderer) printMessagesPane(v session.View) {
	_, width := t.GetViewportSize()

	label := gotext.Get(" Messages ")
	labelLen := len(label)
	sideLen := max(1, (width-labelLen)/2)

	leftDashes := strings.Repeat("─", sideLen)
	rightDashes := strings.Repeat("─", max(0, width-sideLen-labelLen))

	t.blank()
	t.line("%s", t.colorSubtle.Sprint(leftDashes+label+rightDashes))

	if len(v.Events) == 0 {
		t.line("%s", t.colorSubtle.Sprint(gotext.Get("  (no messages)")))
	} else {
		for _, msg := range v.Events {
			t.line("  %s", msg)
		}
	}

	t.line("%s", t.colorSubtle.Sprint(strings.Repeat("─", width)))
}
