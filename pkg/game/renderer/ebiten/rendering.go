package ebiten

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/resources"
	"nightshift/pkg/game/session"
	"nightshift/pkg/game/state"
)

// Draw renders the game to the screen (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	v := e.view
	screen.Fill(colorBackground)

	switch v.Phase {
	case state.Menu:
		e.drawMenu(screen, v)
	case state.Jumpscare:
		e.drawJumpscare(screen, v)
	case state.Won:
		e.drawWon(screen, v)
	default:
		e.drawOffice(screen, v)
		if v.Phase == state.Paused {
			e.drawPaused(screen)
		}
	}

	e.drawFlashes(screen)
}

// drawOffice draws the night HUD: status on the left, the office in the
// middle, the monitor on the right.
func (e *EbitenRenderer) drawOffice(screen *ebiten.Image, v session.View) {
	lh := e.lineHeight()
	x := panelPadding
	y := lh

	e.drawColoredTextWithFace(screen, gotext.Get("Night %d", v.Night), x, y, colorAction, e.getSansBoldFontFace())
	e.drawColoredText(screen, v.Clock, x+int(e.fontSize*6), y, colorText)
	y += lh * 2

	barW := float32(e.fontSize * 14)
	e.drawColoredText(screen, gotext.Get("Power"), x, y, colorSubtle)
	e.drawBar(screen, float32(x)+float32(e.fontSize*5), float32(y), barW, v.Power/resources.MaxPower, styleColor(renderer.PowerStyle(v.Power)))
	powerText := fmt.Sprintf("%.1f%%  -%.2f/s", v.Power, v.DrainRate)
	switch {
	case v.Emergency:
		powerText += "  " + gotext.Get("EMERGENCY %.0fs", v.EmergencyLeft)
	case v.Outage:
		powerText += "  " + gotext.Get("OUTAGE")
	}
	e.drawColoredText(screen, powerText, x+int(e.fontSize*5+float64(barW))+8, y, colorText)
	y += lh

	e.drawColoredText(screen, gotext.Get("Threat"), x, y, colorSubtle)
	e.drawBar(screen, float32(x)+float32(e.fontSize*5), float32(y), barW, float64(v.Threat)/100, threatColor(v.Threat))
	e.drawColoredText(screen, gotext.Get("%d   in office %d/%d", v.Threat, v.OfficeCount, v.MaxAttackers),
		x+int(e.fontSize*5+float64(barW))+8, y, colorText)
	y += lh * 2

	e.drawOfficeRoom(screen, v, x, y)
	y += lh * 8

	tools := gotext.Get("Noise maker x%d", v.NoiseCharges)
	if v.NoiseCooldown > 0 {
		tools += fmt.Sprintf(" (%.0fs)", v.NoiseCooldown)
	}
	if v.HideSpot != "" {
		tools += "   " + "GOOD{" + gotext.Get("hiding: %s %.0fs", dynamicGet(v.HideSpot), v.HideLeft) + "}"
	}
	if v.Stats.Combo > 1 {
		tools += "   " + "WARN{" + gotext.Get("combo x%d", v.Stats.Combo) + "}"
	}
	e.drawMarkup(screen, tools, x, y)
	y += lh

	if v.Status != "" {
		e.drawColoredText(screen, v.Status, x, y, colorWarning)
	}
	y += lh

	e.drawCameras(screen, v)
	e.drawMessages(screen, v, y+lh)

	help := gotext.Get("ACTION{A}/ACTION{D} doors  ACTION{F} light  ACTION{C} cams  ACTION{1}-ACTION{9} feed  ACTION{N} lure  ACTION{B} barricade  ACTION{H} hide  ACTION{P} pause")
	e.drawMarkup(screen, help, x, e.windowHeight-lh)
}

// drawOfficeRoom draws the two doors either side of the desk.
func (e *EbitenRenderer) drawOfficeRoom(screen *ebiten.Image, v session.View, x, y int) {
	lh := e.lineHeight()
	w := float32(e.fontSize * 30)
	h := float32(lh * 6)
	bg := colorPanelBackground
	if v.LightOn {
		bg = color.RGBA{70, 66, 50, 230}
	}
	drawPanel(screen, float32(x), float32(y), w, h, bg, colorPanelBorder)
	if v.LightOn {
		vector.DrawFilledRect(screen, float32(x)+w/4, float32(y)+4, w/2, h-8, colorLight, false)
	}

	doorW := float32(e.fontSize * 2)
	for _, d := range v.Doors {
		dx := float32(x) + 6
		if d.Side == resources.Right {
			dx = float32(x) + w - doorW - 6
		}
		fill := colorDoorOpen
		if d.Closed {
			fill = colorDoorClosed
		}
		vector.DrawFilledRect(screen, dx, float32(y)+6, doorW, h-12, fill, false)
		if d.Jammed {
			vector.StrokeRect(screen, dx, float32(y)+6, doorW, h-12, 3, colorDenied, false)
		}
		// Health drains from the top.
		lost := float32(1-d.Health/resources.MaxDoorHealth) * (h - 12)
		vector.DrawFilledRect(screen, dx, float32(y)+6, doorW, lost, applyAlpha(colorBackground, 0.7), false)
	}

	cx := x + int(doorW) + 16
	label := gotext.Get("Left: %s", renderer.DoorLabel(v.Doors[resources.Left]))
	e.drawColoredText(screen, label, cx, y+lh, colorText)
	label = gotext.Get("Right: %s", renderer.DoorLabel(v.Doors[resources.Right]))
	e.drawColoredText(screen, label, cx, y+lh*2, colorText)

	light := gotext.Get("off")
	if v.LightOn {
		light = gotext.Get("on")
	}
	e.drawColoredText(screen, gotext.Get("Light %s  battery %.0f%%", light, v.Battery), cx, y+lh*3, colorSubtle)
}

// drawCameras draws the monitor panel: feed list and what the selected feed shows.
func (e *EbitenRenderer) drawCameras(screen *ebiten.Image, v session.View) {
	lh := e.lineHeight()
	w := float32(e.fontSize * 20)
	x := float32(e.windowWidth) - w - panelPadding
	y := float32(lh * 3)
	h := float32(lh * (len(v.CameraFeeds) + 6))
	drawPanel(screen, x, y, w, h, colorPanelBackground, colorPanelBorder)

	tx := int(x) + panelPadding
	ty := int(y) + lh/2
	heat := gotext.Get("heat %.0f%%", v.CameraHeat)
	switch {
	case v.CamerasOverloaded:
		e.drawColoredText(screen, gotext.Get("Cameras OVERHEATED"), tx, ty, colorDenied)
		return
	case !v.CamerasOpen:
		e.drawColoredText(screen, gotext.Get("Cameras down")+"  "+heat, tx, ty, colorSubtle)
		return
	}
	e.drawColoredText(screen, gotext.Get("Cameras")+"  "+heat, tx, ty, colorAction)
	ty += lh

	for i, room := range v.CameraFeeds {
		col := colorSubtle
		prefix := "  "
		if i == v.CameraIndex {
			col = colorRoom
			prefix = "> "
		}
		e.drawColoredText(screen, fmt.Sprintf("%s%d %s", prefix, i+1, dynamicGet(string(room))), tx, ty, col)
		ty += lh
	}
	ty += lh / 2

	seen := false
	for _, a := range v.Agents {
		if !a.Visible {
			continue
		}
		seen = true
		look := renderer.AppearanceOf(a.Kind)
		e.drawColoredTextWithFace(screen, look.Glyph, tx, ty, look.Color, e.getMonoFontFace())
		e.drawColoredText(screen, a.Name, tx+int(e.fontSize*1.5), ty, colorText)
		ty += lh
	}
	if !seen {
		e.drawColoredText(screen, gotext.Get("nothing moves"), tx, ty, colorSubtle)
	}
}

// drawMessages draws the recent event log from y down.
func (e *EbitenRenderer) drawMessages(screen *ebiten.Image, v session.View, y int) {
	lh := e.lineHeight()
	for _, msg := range v.Events {
		if y > e.windowHeight-lh*2 {
			return
		}
		e.drawMarkup(screen, msg, panelPadding, y)
		y += lh
	}
}

// drawFlashes draws cue text centred near the top, fading out.
func (e *EbitenRenderer) drawFlashes(screen *ebiten.Image) {
	now := time.Now().UnixMilli()
	live := e.trackedMessages[:0]
	for _, m := range e.trackedMessages {
		if now-m.Timestamp < messageLifetime {
			live = append(live, m)
		}
	}
	e.trackedMessages = live

	face := e.getSansBoldFontFace()
	y := e.lineHeight()
	for _, m := range live {
		alpha := 1 - float64(now-m.Timestamp)/messageLifetime
		w := getTextWidthWithFace(m.Text, face)
		e.drawColoredTextWithFace(screen, m.Text, (e.windowWidth-int(w))/2, y, applyAlpha(colorWarning, alpha), face)
		y += e.lineHeight()
	}
}

func (e *EbitenRenderer) drawPaused(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(e.windowWidth), float32(e.windowHeight), color.RGBA{0, 0, 0, 160}, false)
	e.drawCentered(screen, gotext.Get("Paused"), e.windowHeight/2-e.lineHeight(), colorAction, e.getTitleFontFace())
	e.drawCenteredMarkup(screen, gotext.Get("ACTION{P} resume   ACTION{R} restart night   ACTION{M} menu   ACTION{Q} quit"), e.windowHeight/2+e.lineHeight())
}

func (e *EbitenRenderer) drawJumpscare(screen *ebiten.Image, v session.View) {
	since := time.Now().UnixMilli() - e.jumpscareStart
	screen.Fill(jumpscareColor(since))

	lh := e.lineHeight()
	e.drawCentered(screen, strings.ToUpper(v.Killer), e.windowHeight/2-lh*2, colorText, e.getTitleFontFace())
	e.drawCentered(screen, gotext.Get("Night %d ended at %s.", v.Night, v.Clock), e.windowHeight/2+lh, colorText, e.getSansFontFace())
	e.drawCenteredMarkup(screen, gotext.Get("ACTION{Enter} retry   ACTION{M} menu   ACTION{Q} quit"), e.windowHeight/2+lh*3)
}

func (e *EbitenRenderer) drawWon(screen *ebiten.Image, v session.View) {
	lh := e.lineHeight()
	y := lh * 3
	e.drawCentered(screen, gotext.Get("6:00 AM"), y, colorGood, e.getTitleFontFace())
	y += lh * 3
	e.drawCentered(screen, v.Ending.Text(v.Night), y, colorText, e.getSansFontFace())
	y += lh * 2

	rows := []string{
		gotext.Get("Score %d", v.Score),
		gotext.Get("Power left %.1f%%", v.Power),
		gotext.Get("Perfect blocks %d / %d", v.Stats.PerfectBlocks, v.Stats.PerfectBlocks+v.Stats.FailedBlocks),
		gotext.Get("Best combo %d", v.Stats.BestCombo),
		gotext.Get("Door closes %d", v.Stats.DoorCloses),
		gotext.Get("Camera checks %d", v.Stats.CameraChecks),
	}
	if v.HighScore > 0 {
		rows = append(rows, gotext.Get("Best %d", v.HighScore))
	}
	for _, r := range rows {
		e.drawCentered(screen, r, y, colorSubtle, e.getSansFontFace())
		y += lh
	}

	help := gotext.Get("ACTION{Enter} next night   ACTION{R} replay   ACTION{Q} quit")
	if nights.IsFinal(v.Night) {
		help = gotext.Get("ACTION{Enter} menu   ACTION{Q} quit")
	}
	e.drawCenteredMarkup(screen, help, y+lh)
}

// drawBar draws a filled fraction of a bar at (x, y).
func (e *EbitenRenderer) drawBar(screen *ebiten.Image, x, y, w float32, fraction float64, fill color.Color) {
	fraction = max(0, min(1, fraction))
	top := y + float32(e.fontSize)/2 - barHeight/2
	vector.DrawFilledRect(screen, x, top, w, barHeight, colorBarBackground, false)
	vector.DrawFilledRect(screen, x, top, w*float32(fraction), barHeight, fill, false)
}

func (e *EbitenRenderer) drawCentered(screen *ebiten.Image, str string, y int, col color.Color, face *text.GoTextFace) {
	w := getTextWidthWithFace(str, face)
	e.drawColoredTextWithFace(screen, str, (e.windowWidth-int(w))/2, y, col, face)
}

func (e *EbitenRenderer) drawCenteredMarkup(screen *ebiten.Image, msg string, y int) {
	segments := parseMarkup(msg)
	face := e.getSansFontFace()
	var w float64
	for _, s := range segments {
		w += getTextWidthWithFace(s.text, face)
	}
	e.drawColoredTextSegments(screen, segments, (e.windowWidth-int(w))/2, y, face)
}

// styleColor maps a shared text style onto the palette.
func styleColor(s renderer.TextStyle) color.Color {
	switch s {
	case renderer.StyleGood:
		return colorGood
	case renderer.StyleWarning:
		return colorWarning
	case renderer.StyleDanger, renderer.StyleDenied:
		return colorDanger
	case renderer.StyleSubtle:
		return colorSubtle
	default:
		return colorText
	}
}
