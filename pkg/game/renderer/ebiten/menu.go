package ebiten

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/session"
)

// appendRoundedRect adds a rounded rectangle to the path. (x, y) is top-left; w, h are size; r is corner radius.
// Uses clockwise arcs so the path winds correctly for fill.
func appendRoundedRect(p *vector.Path, x, y, w, h, r float32) {
	if r <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x, y+h)
		p.LineTo(x+w, y+h)
		p.LineTo(x+w, y)
		p.Close()
		return
	}
	r = min(r, w/2, h/2)
	halfPi := float32(math.Pi / 2)
	pi := float32(math.Pi)
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, 3*halfPi, 0, vector.Clockwise)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, halfPi, vector.Clockwise)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, halfPi, pi, vector.Clockwise)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, pi, 3*halfPi, vector.Clockwise)
	p.Close()
}

// drawPanel draws a rounded panel with a border.
func drawPanel(screen *ebiten.Image, x, y, w, h float32, bgColor, borderColor color.Color) {
	var path vector.Path
	appendRoundedRect(&path, x, y, w, h, panelRadius)
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(bgColor)
	vector.FillPath(screen, &path, nil, drawOpts)

	strokeOpts := &vector.StrokeOptions{Width: 2, MiterLimit: 10}
	drawOpts = &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(borderColor)
	vector.StrokePath(screen, &path, strokeOpts, drawOpts)
}

// drawMenu draws the night select screen.
func (e *EbitenRenderer) drawMenu(screen *ebiten.Image, v session.View) {
	lh := e.lineHeight()
	title := gotext.Get("Night Shift")
	titleFace := e.getTitleFontFace()
	tw := getTextWidthWithFace(title, titleFace)
	e.drawColoredTextWithFace(screen, title, (e.windowWidth-int(tw))/2, lh*3, colorAction, titleFace)

	panelW := float32(e.fontSize * 22)
	panelH := float32((nights.TotalNights + 2) * lh)
	px := (float32(e.windowWidth) - panelW) / 2
	py := float32(lh * 6)
	drawPanel(screen, px, py, panelW, panelH, colorPanelBackground, colorPanelBorder)

	x := int(px) + panelPadding
	y := int(py) + lh
	for n := 1; n <= nights.TotalNights; n++ {
		if n > v.MaxNight {
			e.drawColoredText(screen, gotext.Get("%d  Night %d  (locked)", n, n), x, y, colorSubtle)
		} else {
			e.drawMarkup(screen, gotext.Get("ACTION{%d}  Night %d", n, n), x, y)
		}
		y += lh
	}

	e.drawMarkup(screen, gotext.Get("ACTION{Enter} continue    ACTION{?} hint    ACTION{Q} quit"), x, int(py+panelH)+lh)
	e.drawMessages(screen, v, int(py+panelH)+lh*3)
}
