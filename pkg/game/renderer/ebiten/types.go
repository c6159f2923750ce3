// Package ebiten provides an Ebiten-based 2D graphical renderer for Night Shift.
package ebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	engineinput "nightshift/pkg/engine/input"
	"nightshift/pkg/game/session"
)

// messageEntry represents a message with timestamp for fade-out
type messageEntry struct {
	Text      string
	Timestamp int64 // Unix timestamp in milliseconds when message was added
}

// textSegment represents a segment of text with a specific color
type textSegment struct {
	text  string
	color color.Color
}

// EbitenRenderer is the Ebiten-based graphical renderer. It also drives the
// session: Update steps it at a fixed rate and feeds it input.
type EbitenRenderer struct {
	// Window dimensions
	windowWidth  int
	windowHeight int

	// Font size for UI text (adjustable with +/-)
	fontSize float64

	// Font sources for text rendering
	monoFontSource     *text.GoTextFaceSource
	sansFontSource     *text.GoTextFaceSource
	sansBoldFontSource *text.GoTextFaceSource

	// Cached font faces (recreated when the font size changes)
	cachedFontSize      float64
	cachedMonoFace      *text.GoTextFace
	cachedSansFace      *text.GoTextFace
	cachedSansBoldFace  *text.GoTextFace
	cachedTitleFontSize float64
	cachedTitleFace     *text.GoTextFace

	session  *session.Session
	bindings engineinput.Bindings
	logger   *zap.Logger

	// Latest snapshot, taken at the end of each Update
	view session.View

	// Cue flashes with timestamps for fade-out
	trackedMessages []messageEntry

	// Wall-clock milliseconds when the current jumpscare started
	jumpscareStart int64

	windowOpenedLogged bool
	quit               bool
}
