package ebiten

import (
	"image/color"
	"regexp"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/leonelquinteros/gotext"
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

var markupRegex = regexp.MustCompile(`([A-Z][A-Z0-9_]*)\{([^}]*)\}`)

// drawColoredText draws text with a specific color using the sans-serif UI font
func (e *EbitenRenderer) drawColoredText(screen *ebiten.Image, str string, x, y int, col color.Color) {
	e.drawColoredTextWithFace(screen, str, x, y, col, e.getSansFontFace())
}

// drawColoredTextWithFace draws text with a specific color and font face.
// Uses the face's size for baseline offset so different font sizes position correctly.
func (e *EbitenRenderer) drawColoredTextWithFace(screen *ebiten.Image, str string, x, y int, col color.Color, face *text.GoTextFace) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)

	text.Draw(screen, str, face, op)
}

// drawMarkup parses markup and draws the coloured segments left to right.
func (e *EbitenRenderer) drawMarkup(screen *ebiten.Image, msg string, x, y int) {
	e.drawColoredTextSegments(screen, parseMarkup(msg), x, y, e.getSansFontFace())
}

// parseMarkup parses a message string with markup (ROOM{}, ACTION{}, GT{}...) and returns colored segments
func parseMarkup(msg string) []textSegment {
	var segments []textSegment

	lastIndex := 0
	matches := markupRegex.FindAllStringSubmatchIndex(msg, -1)

	for _, match := range matches {
		// Add text before the markup
		if match[0] > lastIndex {
			segments = append(segments, textSegment{text: msg[lastIndex:match[0]], color: colorText})
		}

		function := msg[match[2]:match[3]]
		content := msg[match[4]:match[5]]

		var segColor color.Color
		switch function {
		case "ROOM":
			segColor = colorRoom
			content = dynamicGet(content)
		case "ACTION":
			segColor = colorAction
		case "DANGER":
			segColor = colorDanger
		case "GOOD":
			segColor = colorGood
		case "WARN":
			segColor = colorWarning
		case "SUBTLE":
			segColor = colorSubtle
		case "GT":
			content = dynamicGet(content)
			segColor = colorText
		default:
			segColor = colorText
		}

		segments = append(segments, textSegment{text: content, color: segColor})
		lastIndex = match[1]
	}

	if lastIndex < len(msg) {
		segments = append(segments, textSegment{text: msg[lastIndex:], color: colorText})
	}

	// If no markup found, return the whole message as a single segment
	if len(segments) == 0 {
		segments = append(segments, textSegment{text: msg, color: colorText})
	}

	return segments
}

// applyAlpha applies an alpha value to a color
func applyAlpha(c color.Color, alpha float64) color.Color {
	alpha = max(0, min(1, alpha))

	r, g, b, a := c.RGBA()

	// Scale RGB as well so colors fade to transparent black
	return color.RGBA{
		uint8(float64(r>>8) * alpha),
		uint8(float64(g>>8) * alpha),
		uint8(float64(b>>8) * alpha),
		uint8(float64(a>>8) * alpha),
	}
}

// drawColoredTextSegments draws multiple text segments with a specific font face.
func (e *EbitenRenderer) drawColoredTextSegments(screen *ebiten.Image, segments []textSegment, x, y int, face *text.GoTextFace) {
	currentX := float64(x)

	for _, seg := range segments {
		if seg.text == "" {
			continue
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(currentX, float64(y))
		op.ColorScale.ScaleWithColor(seg.color)

		text.Draw(screen, seg.text, face, op)

		w, _ := text.Measure(seg.text, face, 0)
		currentX += w
	}
}

// getTextWidthWithFace returns the width of a string in pixels using the given font face.
func getTextWidthWithFace(str string, face *text.GoTextFace) float64 {
	w, _ := text.Measure(str, face, 0)
	return w
}
