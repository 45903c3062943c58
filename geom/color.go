package geom

import "image/color"

// RGBA8 is a straight-alpha color with 8 bits per channel.
type RGBA8 struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = RGBA8{}
	Black       = RGBA8{0, 0, 0, 255}
	White       = RGBA8{255, 255, 255, 255}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) RGBA8 {
	return RGBA8{R: r, G: g, B: b, A: 255}
}

// NRGBA converts to the standard library's non-premultiplied color.
func (c RGBA8) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements color.Color.
func (c RGBA8) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA8) WithAlpha(a uint8) RGBA8 {
	c.A = a
	return c
}
