package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownParser is returned when WithParser names a parser that was
	// never registered.
	ErrUnknownParser = errors.New("text: unknown font parser")
)

// GlyphTooLargeError is the panic value raised when a rasterized glyph
// does not fit on an empty atlas page. Configure a larger page with
// WithPageSize or use a smaller point size.
type GlyphTooLargeError struct {
	Rune          rune
	Width, Height int
	PageW, PageH  int
}

func (e *GlyphTooLargeError) Error() string {
	return fmt.Sprintf("text: glyph %q is %dx%d, larger than the %dx%d atlas page",
		e.Rune, e.Width, e.Height, e.PageW, e.PageH)
}
