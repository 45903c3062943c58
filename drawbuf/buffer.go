package drawbuf

import (
	"fmt"
	"sync"

	"github.com/gogpu/ggui/geom"
)

// MaxLayers is the number of layers every Buffer carries.
const MaxLayers = 1

// Layer selects one of a Buffer's layers.
type Layer int

// LayerBase is the first layer.
const LayerBase Layer = 0

// Valid reports whether l names an existing layer.
func (l Layer) Valid() bool {
	return l >= 0 && int(l) < MaxLayers
}

var stagePool = sync.Pool{
	New: func() any { return newBuffer() },
}

// Buffer is the frame-level draw accumulator. All shape pushes go to the
// active layer and carry the active clip rectangle.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	layers  [MaxLayers]Data
	layer   Layer
	clip    geom.Rect
	hasClip bool
}

// New returns an empty Buffer with no clip and LayerBase active.
func New() *Buffer {
	return newBuffer()
}

func newBuffer() *Buffer {
	b := &Buffer{}
	for i := range b.layers {
		b.layers[i].init()
	}
	return b
}

// Reset clears every layer and the scope state, keeping allocated storage.
func (b *Buffer) Reset() {
	for i := range b.layers {
		b.layers[i].Reset()
	}
	b.layer = LayerBase
	b.clip = geom.Rect{}
	b.hasClip = false
}

// Layer returns the data of layer l. It panics when l is out of range.
func (b *Buffer) Layer(l Layer) *Data {
	if !l.Valid() {
		panic(fmt.Sprintf("drawbuf: layer %d out of range [0,%d)", l, MaxLayers))
	}
	return &b.layers[l]
}

// Layers returns every layer in paint order.
func (b *Buffer) Layers() []*Data {
	out := make([]*Data, MaxLayers)
	for i := range b.layers {
		out[i] = &b.layers[i]
	}
	return out
}

// ActiveLayer returns the layer shapes are currently pushed to.
func (b *Buffer) ActiveLayer() Layer {
	return b.layer
}

func (b *Buffer) current() *Data {
	return &b.layers[b.layer]
}

// Clip returns the active clip rectangle, or false when drawing is unclipped.
func (b *Buffer) Clip() (geom.Rect, bool) {
	return b.clip, b.hasClip
}

// Bounds returns the bounding box of every vertex in the active layer.
func (b *Buffer) Bounds() geom.Rect {
	return b.current().Bounds()
}

// PushClip intersects r with the active clip and makes the result active.
// The returned function restores the previous clip and must be called
// exactly once, typically with defer. A disjoint r yields a degenerate
// clip and every shape pushed under it draws nothing.
func (b *Buffer) PushClip(r geom.Rect) (restore func()) {
	prev, prevHas := b.clip, b.hasClip
	if b.hasClip {
		b.clip = b.clip.Intersect(r)
	} else {
		b.clip = r
	}
	b.hasClip = true
	return func() {
		b.clip, b.hasClip = prev, prevHas
	}
}

// WithClip runs fn with r intersected into the active clip.
func (b *Buffer) WithClip(r geom.Rect, fn func()) {
	defer b.PushClip(r)()
	fn()
}

// PushLayer makes l the active layer. The returned function restores the
// previous layer. It panics when l is out of range.
func (b *Buffer) PushLayer(l Layer) (restore func()) {
	if !l.Valid() {
		panic(fmt.Sprintf("drawbuf: layer %d out of range [0,%d)", l, MaxLayers))
	}
	prev := b.layer
	b.layer = l
	return func() {
		b.layer = prev
	}
}

// WithLayer runs fn with l as the active layer.
func (b *Buffer) WithLayer(l Layer, fn func()) {
	defer b.PushLayer(l)()
	fn()
}

// Lend returns n empty staging buffers that inherit the active clip and
// layer. Each must be handed back with Extend before the frame ends and
// must not be used afterwards.
func (b *Buffer) Lend(n int) []*Buffer {
	if n < 0 {
		panic(fmt.Sprintf("drawbuf: negative stage count %d", n))
	}
	stages := make([]*Buffer, n)
	for i := range stages {
		s := stagePool.Get().(*Buffer)
		s.layer = b.layer
		s.clip = b.clip
		s.hasClip = b.hasClip
		stages[i] = s
	}
	return stages
}

// Extend appends each staged buffer into b in argument order, layer by
// layer, rebasing indices and command ranges. The staged buffers are
// reset and returned to the pool.
func (b *Buffer) Extend(staged ...*Buffer) {
	for _, s := range staged {
		if s == b {
			panic("drawbuf: buffer extended with itself")
		}
		for i := range b.layers {
			b.layers[i].appendData(&s.layers[i])
		}
		s.Reset()
		stagePool.Put(s)
	}
}

// WithStages lends n staging buffers to fn and merges them back, in
// order, when fn returns.
func (b *Buffer) WithStages(n int, fn func(stages []*Buffer)) {
	stages := b.Lend(n)
	defer b.Extend(stages...)
	fn(stages)
}

// Translate shifts every vertex position and every command clip in every
// layer by delta.
func (b *Buffer) Translate(delta geom.Vec2) {
	for i := range b.layers {
		b.layers[i].translate(delta)
	}
}

// Stats summarizes the buffer contents across layers.
type Stats struct {
	Vertices int
	Indices  int
	Commands int
}

// Stats returns the totals across every layer.
func (b *Buffer) Stats() Stats {
	var s Stats
	for i := range b.layers {
		d := &b.layers[i]
		s.Vertices += len(d.Vertices)
		s.Indices += len(d.Indices)
		s.Commands += len(d.Commands)
	}
	return s
}
