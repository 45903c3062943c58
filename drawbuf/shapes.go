package drawbuf

import (
	"fmt"

	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/texture"
)

// Alignment places a stroke relative to the path it outlines.
type Alignment uint8

const (
	// AlignCenter straddles the path.
	AlignCenter Alignment = iota
	// AlignInside keeps the stroke within the shape.
	AlignInside
	// AlignOutside keeps the stroke outside the shape.
	AlignOutside
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "Center"
	case AlignInside:
		return "Inside"
	case AlignOutside:
		return "Outside"
	default:
		return fmt.Sprintf("Alignment(%d)", a)
	}
}

// Fill paints a shape's interior with a color, optionally modulating a
// texture sample.
type Fill struct {
	Color   geom.RGBA8
	Texture texture.Ref
	// Coords is the normalized texture rectangle. The zero Rect selects
	// the whole texture.
	Coords geom.Rect
}

// SolidFill returns an untextured fill.
func SolidFill(c geom.RGBA8) Fill {
	return Fill{Color: c}
}

// TexturedFill returns a fill sampling coords of tex, tinted by c.
func TexturedFill(c geom.RGBA8, tex texture.Ref, coords geom.Rect) Fill {
	return Fill{Color: c, Texture: tex, Coords: coords}
}

func (f Fill) uvs() (tl, tr, br, bl geom.Vec2) {
	uv := f.Coords
	if uv == (geom.Rect{}) {
		uv = geom.R(0, 0, 1, 1)
	}
	return uv.TopLeft(), uv.TopRight(), uv.BottomRight(), uv.BottomLeft()
}

// Stroke outlines a shape.
type Stroke struct {
	Width     float32
	Color     geom.RGBA8
	Alignment Alignment
}

// Shape is a rectangle with an optional fill and stroke. A positive
// CornerRadius rounds the fill; rounded shapes cannot be stroked.
type Shape struct {
	Rect         geom.Rect
	Fill         *Fill
	Stroke       *Stroke
	CornerRadius float32
}

// PushShape pushes the fill first, then the stroke. It panics when a
// rounded shape has a stroke.
func (b *Buffer) PushShape(s Shape) {
	if s.Fill != nil {
		b.PushRoundedRectFilled(s.Rect, s.CornerRadius, *s.Fill)
	}
	if s.Stroke != nil {
		b.strokeRect(s.Rect, *s.Stroke, s.CornerRadius)
	}
}

// PushVertex appends v to the active layer, grows its bounds and returns
// the vertex index.
func (b *Buffer) PushVertex(v Vertex) uint32 {
	return b.current().pushVertex(v)
}

// pushQuad pushes four corners in order top-left, top-right,
// bottom-right, bottom-left and commits one command over its six indices.
func (b *Buffer) pushQuad(p [4]geom.Vec2, uv [4]geom.Vec2, c geom.RGBA8, tex texture.Ref, rounded RoundedRect) {
	d := b.current()
	first := uint32(len(d.Indices))
	base := uint32(len(d.Vertices))
	for i := range p {
		d.pushVertex(Vertex{Pos: p[i], UV: uv[i], Color: c})
	}
	d.Indices = append(d.Indices,
		base, base+1, base+2,
		base+2, base+3, base,
	)
	d.commit(first, b.clip, b.hasClip, tex, rounded)
}

// PushRectFilled pushes r as two triangles under the active clip.
func (b *Buffer) PushRectFilled(r geom.Rect, f Fill) {
	b.PushRoundedRectFilled(r, 0, f)
}

// PushRoundedRectFilled pushes r like PushRectFilled and masks its
// corners with circles of the given radius. The radius is clamped to half
// the shorter side; a radius <= 0 pushes a plain rectangle.
func (b *Buffer) PushRoundedRectFilled(r geom.Rect, radius float32, f Fill) {
	var rounded RoundedRect
	if radius > 0 {
		half := r.Size().Mul(0.5)
		rounded = RoundedRect{
			Center:   r.Center(),
			HalfSize: half,
			Radius:   min(radius, half.X, half.Y),
		}
	}
	tl, tr, br, bl := f.uvs()
	b.pushQuad(
		[4]geom.Vec2{r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()},
		[4]geom.Vec2{tl, tr, br, bl},
		f.Color, f.Texture, rounded,
	)
}

// PushLine pushes a quad of width s.Width centered on the segment a→c.
// Only AlignCenter is meaningful for an open segment; other alignments
// panic. A zero-length segment pushes a degenerate quad.
func (b *Buffer) PushLine(a, c geom.Vec2, s Stroke) {
	if s.Alignment != AlignCenter {
		panic(fmt.Sprintf("drawbuf: line stroke alignment %v, want Center", s.Alignment))
	}
	off := c.Sub(a).Normalize().Perp().Mul(s.Width / 2)
	var uv [4]geom.Vec2
	b.pushQuad(
		[4]geom.Vec2{a.Add(off), c.Add(off), c.Sub(off), a.Sub(off)},
		uv, s.Color, texture.Ref{}, RoundedRect{},
	)
}

// PushRectStroked outlines r with four centered lines. Inside alignment
// shrinks the outlined rectangle by half the stroke width and Outside
// grows it. Horizontal edges extend past the corners by half the width
// and vertical edges stop short by the same amount, so corners are
// covered exactly once.
func (b *Buffer) PushRectStroked(r geom.Rect, s Stroke) {
	b.strokeRect(r, s, 0)
}

func (b *Buffer) strokeRect(r geom.Rect, s Stroke, radius float32) {
	if radius != 0 {
		panic(fmt.Sprintf("drawbuf: stroked rect with corner radius %g, rounded strokes are unsupported", radius))
	}
	hw := s.Width / 2
	switch s.Alignment {
	case AlignInside:
		r = r.Inflate(geom.Splat(-hw))
	case AlignOutside:
		r = r.Inflate(geom.Splat(hw))
	case AlignCenter:
	default:
		panic(fmt.Sprintf("drawbuf: unknown stroke alignment %v", s.Alignment))
	}
	line := Stroke{Width: s.Width, Color: s.Color, Alignment: AlignCenter}
	tl, tr, br, bl := r.TopLeft(), r.TopRight(), r.BottomRight(), r.BottomLeft()

	b.PushLine(geom.V2(tl.X-hw, tl.Y), geom.V2(tr.X+hw, tr.Y), line)
	b.PushLine(geom.V2(tr.X, tr.Y+hw), geom.V2(br.X, br.Y-hw), line)
	b.PushLine(geom.V2(br.X+hw, br.Y), geom.V2(bl.X-hw, bl.Y), line)
	b.PushLine(geom.V2(bl.X, bl.Y-hw), geom.V2(tl.X, tl.Y+hw), line)
}
