package geom

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned rectangle spanning [Min, Max).
//
// A rectangle with Min greater than Max on either axis is degenerate;
// Intersect produces one for disjoint inputs and renderers treat it as
// "draw nothing".
type Rect struct {
	Min, Max Vec2
}

// R creates a rectangle from corner coordinates.
func R(x0, y0, x1, y1 float32) Rect {
	return Rect{Min: V2(x0, y0), Max: V2(x1, y1)}
}

// RectFromSize creates a rectangle from its top-left corner and size.
func RectFromSize(min, size Vec2) Rect {
	return Rect{Min: min, Max: min.Add(size)}
}

// EmptyBounds returns an inverted rectangle suitable as the start value
// of a running bounding box.
func EmptyBounds() Rect {
	return Rect{
		Min: Splat(math32.Inf(1)),
		Max: Splat(math32.Inf(-1)),
	}
}

func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return r.Max.Sub(r.Min) }
func (r Rect) Center() Vec2    { return r.Min.Add(r.Max).Mul(0.5) }

func (r Rect) TopLeft() Vec2     { return r.Min }
func (r Rect) TopRight() Vec2    { return V2(r.Max.X, r.Min.Y) }
func (r Rect) BottomRight() Vec2 { return r.Max }
func (r Rect) BottomLeft() Vec2  { return V2(r.Min.X, r.Max.Y) }

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Intersect clamps r to o. The result is degenerate when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{Min: r.Min.Max(o.Min), Max: r.Max.Min(o.Max)}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{Min: r.Min.Min(o.Min), Max: r.Max.Max(o.Max)}
}

// Extend grows r to include p.
func (r Rect) Extend(p Vec2) Rect {
	return Rect{Min: r.Min.Min(p), Max: r.Max.Max(p)}
}

// Translate shifts the rectangle by delta.
func (r Rect) Translate(delta Vec2) Rect {
	return Rect{Min: r.Min.Add(delta), Max: r.Max.Add(delta)}
}

// Inflate grows the rectangle by d on every side. Negative d shrinks it.
func (r Rect) Inflate(d Vec2) Rect {
	return Rect{Min: r.Min.Sub(d), Max: r.Max.Add(d)}
}

// Scale multiplies both corners by s.
func (r Rect) Scale(s float32) Rect {
	return Rect{Min: r.Min.Mul(s), Max: r.Max.Mul(s)}
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%g,%g %g,%g)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
