// Package drawbuf accumulates vertices, indices and draw commands for one
// frame of immediate-mode drawing.
//
// A Buffer owns a fixed set of layers, each a Data. Shapes push four
// vertices and six indices and commit one Command that records the active
// clip rectangle, the texture and an optional rounded-corner mask.
// Renderers consume the layers in order and issue one indexed draw per
// command.
//
// Nested drawing that must control paint order independently of emission
// order borrows staging buffers with Lend and merges them back with
// Extend, which rebases vertex and index offsets.
package drawbuf

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/texture"
)

// Vertex is one draw-list vertex.
type Vertex struct {
	// Pos is in logical pixels, origin top-left.
	Pos geom.Vec2
	// UV is a normalized texture coordinate, origin top-left.
	UV    geom.Vec2
	Color geom.RGBA8
}

// RoundedRect masks a draw to a rectangle with circular corners of
// Radius. The zero value masks nothing.
type RoundedRect struct {
	Center   geom.Vec2
	HalfSize geom.Vec2
	Radius   float32
}

// Distance returns the signed distance from p to the rounded rectangle's
// outline, negative inside.
func (rr RoundedRect) Distance(p geom.Vec2) float32 {
	qx := math32.Abs(p.X-rr.Center.X) - rr.HalfSize.X + rr.Radius
	qy := math32.Abs(p.Y-rr.Center.Y) - rr.HalfSize.Y + rr.Radius
	return min(max(qx, qy), 0) + math32.Hypot(max(qx, 0), max(qy, 0)) - rr.Radius
}

// Coverage returns how much of p the mask lets through. The outline is
// softened over one pixel outward.
func (rr RoundedRect) Coverage(p geom.Vec2) float32 {
	t := min(max(rr.Distance(p), 0), 1)
	return 1 - t*t*(3-2*t)
}

// Command is one indexed draw over Data.Indices[First : First+Count].
type Command struct {
	Clip    geom.Rect
	HasClip bool
	First   uint32
	Count   uint32
	Texture texture.Ref
	// Rounded masks the draw when Rounded.Radius > 0.
	Rounded RoundedRect
}

// IndexRange returns the half-open index range the command draws.
func (c Command) IndexRange() (start, end uint32) {
	return c.First, c.First + c.Count
}

// ClipRect returns the clip rectangle, or false when the command is unclipped.
func (c Command) ClipRect() (geom.Rect, bool) {
	return c.Clip, c.HasClip
}

// RoundedRect returns the corner mask, or false when the command is not
// rounded.
func (c Command) RoundedRect() (RoundedRect, bool) {
	return c.Rounded, c.Rounded.Radius > 0
}

// String returns a string representation of the command.
func (c Command) String() string {
	clip := "none"
	if c.HasClip {
		clip = c.Clip.String()
	}
	if c.Rounded.Radius > 0 {
		return fmt.Sprintf("Command(indices=[%d,%d) clip=%s texture=%v radius=%g)",
			c.First, c.First+c.Count, clip, c.Texture, c.Rounded.Radius)
	}
	return fmt.Sprintf("Command(indices=[%d,%d) clip=%s texture=%v)", c.First, c.First+c.Count, clip, c.Texture)
}

// Data is one layer of accumulated geometry. Commands partition Indices
// into contiguous ranges in push order.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
	Commands []Command

	bounds geom.Rect
}

func (d *Data) init() {
	d.bounds = geom.EmptyBounds()
}

// Bounds returns the running bounding box of every pushed vertex
// position. It is degenerate while the layer is empty.
func (d *Data) Bounds() geom.Rect {
	return d.bounds
}

// Empty reports whether the layer holds no commands.
func (d *Data) Empty() bool {
	return len(d.Commands) == 0
}

// Reset clears the layer, keeping allocated storage.
func (d *Data) Reset() {
	d.Vertices = d.Vertices[:0]
	d.Indices = d.Indices[:0]
	d.Commands = d.Commands[:0]
	d.bounds = geom.EmptyBounds()
}

func (d *Data) pushVertex(v Vertex) uint32 {
	idx := uint32(len(d.Vertices))
	d.Vertices = append(d.Vertices, v)
	d.bounds = d.bounds.Extend(v.Pos)
	return idx
}

// commit records a command covering every index pushed since first.
func (d *Data) commit(first uint32, clip geom.Rect, hasClip bool, tex texture.Ref, rounded RoundedRect) {
	count := uint32(len(d.Indices)) - first
	if count == 0 {
		return
	}
	d.Commands = append(d.Commands, Command{
		Clip:    clip,
		HasClip: hasClip,
		First:   first,
		Count:   count,
		Texture: tex,
		Rounded: rounded,
	})
}

// appendData merges src into d. Every index of src is offset by the
// number of vertices d held before the merge and every command range by
// the number of indices.
func (d *Data) appendData(src *Data) {
	if len(src.Vertices) == 0 && len(src.Commands) == 0 {
		return
	}
	baseVertex := uint32(len(d.Vertices))
	baseIndex := uint32(len(d.Indices))

	d.Vertices = append(d.Vertices, src.Vertices...)
	for _, idx := range src.Indices {
		d.Indices = append(d.Indices, idx+baseVertex)
	}
	for _, c := range src.Commands {
		c.First += baseIndex
		d.Commands = append(d.Commands, c)
	}
	if len(src.Vertices) > 0 {
		d.bounds = d.bounds.Union(src.bounds)
	}
}

func (d *Data) translate(delta geom.Vec2) {
	for i := range d.Vertices {
		d.Vertices[i].Pos = d.Vertices[i].Pos.Add(delta)
	}
	for i := range d.Commands {
		if d.Commands[i].HasClip {
			d.Commands[i].Clip = d.Commands[i].Clip.Translate(delta)
		}
		if d.Commands[i].Rounded.Radius > 0 {
			d.Commands[i].Rounded.Center = d.Commands[i].Rounded.Center.Add(delta)
		}
	}
	if len(d.Vertices) > 0 {
		d.bounds = d.bounds.Translate(delta)
	}
}
