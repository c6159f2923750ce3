package ebiten

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	engineinput "nightshift/pkg/engine/input"
	"nightshift/pkg/game/renderer"
	"nightshift/pkg/game/session"
)

var (
	_ renderer.Renderer = (*EbitenRenderer)(nil)
	_ ebiten.Game       = (*EbitenRenderer)(nil)
)

// New creates a new Ebiten renderer driving s.
func New(s *session.Session, bindings engineinput.Bindings, logger *zap.Logger) *EbitenRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bindings == nil {
		bindings = engineinput.DefaultBindings()
	}
	return &EbitenRenderer{
		windowWidth:  defaultWindowWidth,
		windowHeight: defaultWindowHeight,
		fontSize:     defaultFontSize,
		session:      s,
		bindings:     bindings,
		logger:       logger,
	}
}

// Init sets up the window and loads fonts.
func (e *EbitenRenderer) Init() {
	ebiten.SetWindowSize(e.windowWidth, e.windowHeight)
	ebiten.SetWindowTitle(gotext.Get("Night Shift"))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := e.loadFonts(); err != nil {
		e.logger.Fatal("could not load fonts", zap.Error(err))
	}
	e.view = e.session.View()
}

// Run starts the Ebiten game loop and blocks until the window closes or
// the player quits.
func (e *EbitenRenderer) Run() error {
	e.Init()
	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Clear is a no-op: Draw repaints the whole screen every frame.
func (e *EbitenRenderer) Clear() {}

// RenderFrame stores a snapshot for the next Draw.
func (e *EbitenRenderer) RenderFrame(v session.View) {
	e.view = v
}

// StyleText wraps text in the markup that Draw colours.
func (e *EbitenRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleTitle, renderer.StyleAction, renderer.StyleActionShort:
		return "ACTION{" + text + "}"
	case renderer.StyleRoom:
		return "ROOM{" + text + "}"
	case renderer.StyleAgent, renderer.StyleDanger, renderer.StyleDenied:
		return "DANGER{" + text + "}"
	case renderer.StyleGood:
		return "GOOD{" + text + "}"
	case renderer.StyleWarning:
		return "WARN{" + text + "}"
	case renderer.StyleSubtle:
		return "SUBTLE{" + text + "}"
	default:
		return text
	}
}

// FormatText formats a message and leaves markup for parseMarkup.
func (e *EbitenRenderer) FormatText(msg string, args ...any) string {
	return fmt.Sprintf(msg, args...)
}

// ShowMessage flashes a cue line that fades out.
func (e *EbitenRenderer) ShowMessage(msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	e.trackedMessages = append(e.trackedMessages, messageEntry{
		Text:      msg,
		Timestamp: time.Now().UnixMilli(),
	})
	if len(e.trackedMessages) > maxTrackedMessages {
		e.trackedMessages = e.trackedMessages[len(e.trackedMessages)-maxTrackedMessages:]
	}
}

// GetViewportSize returns the window size in text rows and columns.
func (e *EbitenRenderer) GetViewportSize() (rows, cols int) {
	lh := e.lineHeight()
	return e.windowHeight / lh, e.windowWidth / max(1, int(e.fontSize*0.6))
}

// Layout returns the game's logical screen size (Ebiten interface)
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.windowWidth = outsideWidth
	e.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}
