package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// ANSI sequences used to redraw a frame in place.
const (
	seqHome       = "\x1b[H"
	seqClear      = "\x1b[2J"
	seqClearLine  = "\x1b[K"
	seqClearBelow = "\x1b[J"
	seqHideCursor = "\x1b[?25l"
	seqShowCursor = "\x1b[?25h"
)

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Begin clears the screen and hides the cursor for full-screen drawing.
func Begin(w io.Writer) {
	fmt.Fprint(w, seqClear, seqHome, seqHideCursor)
}

// End shows the cursor again.
func End(w io.Writer) {
	fmt.Fprint(w, seqShowCursor, "\r\n")
}

// Home moves the cursor to the top left so the next frame overwrites the
// last one without flicker.
func Home(w io.Writer) {
	fmt.Fprint(w, seqHome)
}

// EndLine clears the rest of the current line and moves to the next. Raw
// mode needs the explicit carriage return.
func EndLine(w io.Writer) {
	fmt.Fprint(w, seqClearLine, "\r\n")
}

// ClearBelow erases whatever an earlier, taller frame left behind.
func ClearBelow(w io.Writer) {
	fmt.Fprint(w, seqClearBelow)
}
