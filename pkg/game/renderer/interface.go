package renderer

import (
	"nightshift/pkg/game/session"
)

// TextStyle represents different text styling options
type TextStyle int

const (
	StyleNormal TextStyle = iota
	StyleTitle
	StyleRoom
	StyleAgent
	StyleAction
	StyleActionShort
	StyleDenied
	StyleGood
	StyleWarning
	StyleDanger
	StyleSubtle
)

// Renderer defines the interface for game rendering backends.
// The TUI draws frames on demand from the main loop; Ebiten pulls them from
// its own Draw callback but still satisfies this interface.
type Renderer interface {
	// Init initializes the renderer (colors, window, etc.)
	Init()

	// Clear clears the display
	Clear()

	// RenderFrame renders a complete frame from a session snapshot
	RenderFrame(v session.View)

	// StyleText applies a style to text and returns the styled string
	// For TUI this applies ANSI colors, for GUI it may return markup
	StyleText(text string, style TextStyle) string

	// FormatText formats a message with the renderer's markup system
	FormatText(msg string, args ...any) string

	// ShowMessage displays a message to the user
	ShowMessage(msg string)

	// GetViewportSize returns the current viewport dimensions (rows, cols)
	GetViewportSize() (rows, cols int)
}
