package ebiten

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFonts parses the bundled Go fonts.
func (e *EbitenRenderer) loadFonts() error {
	var err error
	if e.monoFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("mono font: %w", err)
	}
	if e.sansFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		return fmt.Errorf("sans font: %w", err)
	}
	if e.sansBoldFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		return fmt.Errorf("bold font: %w", err)
	}
	return nil
}

// getMonoFontFace returns a cached monospace font face for bars and glyphs
func (e *EbitenRenderer) getMonoFontFace() *text.GoTextFace {
	e.refreshFontCache()
	if e.cachedMonoFace == nil {
		e.cachedMonoFace = &text.GoTextFace{Source: e.monoFontSource, Size: e.fontSize}
	}
	return e.cachedMonoFace
}

// getSansFontFace returns a cached sans-serif font face for UI text
func (e *EbitenRenderer) getSansFontFace() *text.GoTextFace {
	e.refreshFontCache()
	if e.cachedSansFace == nil {
		e.cachedSansFace = &text.GoTextFace{Source: e.sansFontSource, Size: e.fontSize}
	}
	return e.cachedSansFace
}

// getSansBoldFontFace returns a cached sans-serif bold font face (same size as UI)
func (e *EbitenRenderer) getSansBoldFontFace() *text.GoTextFace {
	e.refreshFontCache()
	if e.cachedSansBoldFace == nil {
		e.cachedSansBoldFace = &text.GoTextFace{Source: e.sansBoldFontSource, Size: e.fontSize}
	}
	return e.cachedSansBoldFace
}

// getTitleFontFace returns a bold face twice the UI size for screen titles.
func (e *EbitenRenderer) getTitleFontFace() *text.GoTextFace {
	size := e.fontSize * 2
	if e.cachedTitleFace == nil || e.cachedTitleFontSize != size {
		e.cachedTitleFontSize = size
		e.cachedTitleFace = &text.GoTextFace{Source: e.sansBoldFontSource, Size: size}
	}
	return e.cachedTitleFace
}

// refreshFontCache drops cached faces once the font size has changed.
func (e *EbitenRenderer) refreshFontCache() {
	if e.cachedFontSize != e.fontSize {
		e.cachedFontSize = e.fontSize
		e.invalidateFontCache()
	}
}

// invalidateFontCache clears cached font faces (call when the font size changes)
func (e *EbitenRenderer) invalidateFontCache() {
	e.cachedMonoFace = nil
	e.cachedSansFace = nil
	e.cachedSansBoldFace = nil
	e.cachedTitleFace = nil
}

// lineHeight is the vertical advance for one row of UI text.
func (e *EbitenRenderer) lineHeight() int {
	return int(e.fontSize * 1.5)
}
