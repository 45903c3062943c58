package text

import (
	"image"

	"github.com/gogpu/ggui/geom"
	"golang.org/x/image/vector"
)

// rasterizeOutline fills dst, a w×h single-channel coverage buffer, with
// segs shifted by -origin. Coverage is stored as a truncated byte.
func rasterizeOutline(dst []byte, w, h int, segs []OutlineSegment, origin geom.Vec2) {
	z := vector.NewRasterizer(w, h)
	ox, oy := origin.X, origin.Y
	started := false
	for _, s := range segs {
		p := s.Points
		switch s.Op {
		case OutlineOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(p[0].X-ox, p[0].Y-oy)
			started = true
		case OutlineOpLineTo:
			z.LineTo(p[0].X-ox, p[0].Y-oy)
		case OutlineOpQuadTo:
			z.QuadTo(p[0].X-ox, p[0].Y-oy, p[1].X-ox, p[1].Y-oy)
		case OutlineOpCubicTo:
			z.CubeTo(p[0].X-ox, p[0].Y-oy, p[1].X-ox, p[1].Y-oy, p[2].X-ox, p[2].Y-oy)
		}
	}
	if started {
		z.ClosePath()
	}

	scratch := image.NewAlpha16(image.Rect(0, 0, w, h))
	z.Draw(scratch, scratch.Bounds(), image.Opaque, image.Point{})
	for y := 0; y < h; y++ {
		row := scratch.Pix[y*scratch.Stride:]
		for x := 0; x < w; x++ {
			a16 := uint16(row[2*x])<<8 | uint16(row[2*x+1])
			dst[y*w+x] = coverageByte(float32(a16) / 0xffff)
		}
	}
}

// coverageByte converts a coverage fraction to a byte by truncation.
func coverageByte(c float32) uint8 {
	switch {
	case c <= 0:
		return 0
	case c >= 1:
		return 255
	}
	return uint8(255 * c)
}
