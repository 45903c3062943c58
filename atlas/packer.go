// Package atlas implements a binary-split rectangle packer for texture atlases.
//
// A Packer starts with one free region covering the whole atlas. Each
// allocation that does not fit a free leaf exactly splits it in two, and
// Remove collapses sibling leaves that are both free again.
//
// Splitting works well for many same-sized rectangles and reasonably for
// glyph-like workloads; merging is best-effort and does not defragment
// atlases that mix wildly different sizes.
package atlas

import (
	"fmt"
	"iter"

	"github.com/gogpu/ggui/internal/tree"
)

// NodeID identifies a region inside a Packer. It stays valid until the
// region is merged away by Remove.
type NodeID int

// Entry is one region of the atlas plus its allocation status.
type Entry struct {
	X, Y  int
	W, H  int
	InUse bool
}

// Contains reports whether the point (x, y) is inside the entry.
func (e Entry) Contains(x, y int) bool {
	return x >= e.X && x < e.X+e.W && y >= e.Y && y < e.Y+e.H
}

// Overlaps reports whether e and o share any pixel.
func (e Entry) Overlaps(o Entry) bool {
	return e.X < o.X+o.W && o.X < e.X+e.W && e.Y < o.Y+o.H && o.Y < e.Y+e.H
}

// Area returns W*H.
func (e Entry) Area() int { return e.W * e.H }

// String returns a string representation of the entry.
func (e Entry) String() string {
	return fmt.Sprintf("Entry(%d,%d %dx%d in_use=%t)", e.X, e.Y, e.W, e.H, e.InUse)
}

// Packer allocates rectangles out of a fixed-size atlas.
//
// Packer is not safe for concurrent use.
type Packer struct {
	tree *tree.Tree[Entry]
	w, h int
	gap  int

	allocCount int
	usedArea   int
}

// New creates a packer for a w×h atlas with gap pixels of padding
// between split regions.
func New(w, h, gap int) *Packer {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("atlas: invalid atlas size %dx%d", w, h))
	}
	if gap < 0 {
		gap = 0
	}
	return &Packer{
		tree: tree.New(Entry{W: w, H: h}),
		w:    w,
		h:    h,
		gap:  gap,
	}
}

// Insert allocates a w×h region. It returns false when no free leaf can
// hold the rectangle or when w or h is not positive.
func (p *Packer) Insert(w, h int) (NodeID, bool) {
	if w <= 0 || h <= 0 {
		return 0, false
	}
	idx, ok := p.insert(p.tree.Root(), w, h)
	if !ok {
		return 0, false
	}
	p.allocCount++
	p.usedArea += w * h
	return NodeID(idx), true
}

func (p *Packer) insert(idx, w, h int) (int, bool) {
	n := p.tree.Get(idx)
	if !n.IsLeaf() {
		first := n.FirstChild()
		if found, ok := p.insert(first, w, h); ok {
			return found, true
		}
		second := p.tree.Get(first).NextSibling()
		if second == tree.None {
			return 0, false
		}
		return p.insert(second, w, h)
	}

	e := n.Value
	if e.InUse || w > e.W || h > e.H {
		return 0, false
	}
	if w == e.W && h == e.H {
		n.Value.InUse = true
		return idx, true
	}

	left, right := p.split(e, w, h)
	l := p.tree.InsertChildAfter(idx, tree.None, left)
	p.tree.InsertChildAfter(idx, l, right)
	return p.insert(l, w, h)
}

// split divides e so that the left part matches the request along the
// split axis. The axis with more slack is split; ties split along Y.
// The remainder loses gap pixels and is clamped to zero when the slack is
// smaller than the gap. Zero-area remainders never satisfy an allocation.
func (p *Packer) split(e Entry, w, h int) (left, right Entry) {
	dw := e.W - w
	dh := e.H - h
	if dw > dh {
		left = Entry{X: e.X, Y: e.Y, W: w, H: e.H}
		right = Entry{
			X: min(e.X+w+p.gap, e.X+e.W),
			Y: e.Y,
			W: max(0, dw-p.gap),
			H: e.H,
		}
		return left, right
	}
	left = Entry{X: e.X, Y: e.Y, W: e.W, H: h}
	right = Entry{
		X: e.X,
		Y: min(e.Y+h+p.gap, e.Y+e.H),
		W: e.W,
		H: max(0, dh-p.gap),
	}
	return left, right
}

// Remove releases the region id. When the released leaf and its sibling
// are both free leaves, the split is undone and the parent is examined in
// turn, up to but not including the root.
//
// Remove panics if id does not name a live region.
func (p *Packer) Remove(id NodeID) {
	idx := int(id)
	n := p.tree.Get(idx)
	if n.Value.InUse {
		p.allocCount--
		p.usedArea -= n.Value.W * n.Value.H
	}
	p.remove(idx)
}

func (p *Packer) remove(idx int) {
	n := p.tree.Get(idx)
	n.Value.InUse = false
	if !n.IsLeaf() {
		return
	}
	parent := n.Parent()
	if parent == tree.None {
		return
	}

	var left, right int
	if n.PrevSibling() == tree.None {
		left, right = idx, n.NextSibling()
	} else {
		left, right = p.tree.Get(parent).FirstChild(), idx
	}
	if right == tree.None || !p.isFreeLeaf(left) || !p.isFreeLeaf(right) {
		return
	}
	p.tree.Remove(left)
	p.tree.Remove(right)

	if parent != p.tree.Root() {
		p.remove(parent)
	}
}

func (p *Packer) isFreeLeaf(idx int) bool {
	n := p.tree.Get(idx)
	return n.IsLeaf() && !n.Value.InUse
}

// Entry returns the region id and panics if it is not live.
func (p *Packer) Entry(id NodeID) Entry {
	return p.tree.Value(int(id))
}

// TryEntry returns the region id, or false if it is not live.
func (p *Packer) TryEntry(id NodeID) (Entry, bool) {
	return p.tree.TryValue(int(id))
}

// TextureSize returns the atlas dimensions.
func (p *Packer) TextureSize() (w, h int) {
	return p.w, p.h
}

// Gap returns the padding inserted between split regions.
func (p *Packer) Gap() int { return p.gap }

// IsEmpty reports whether nothing is allocated: the tree holds only its
// root and the root is free.
func (p *Packer) IsEmpty() bool {
	return p.tree.Len() == 1 && !p.tree.Value(p.tree.Root()).InUse
}

// Nodes yields every live region, split parents included, in slot order.
func (p *Packer) Nodes() iter.Seq2[NodeID, Entry] {
	return func(yield func(NodeID, Entry) bool) {
		for idx, n := range p.tree.All() {
			if !yield(NodeID(idx), n.Value) {
				return
			}
		}
	}
}

// Stats describes packer occupancy.
type Stats struct {
	Allocations int
	UsedArea    int
	TotalArea   int
	Nodes       int
}

// Utilization returns the fraction of the atlas area in use.
func (s Stats) Utilization() float64 {
	if s.TotalArea == 0 {
		return 0
	}
	return float64(s.UsedArea) / float64(s.TotalArea)
}

// Stats returns current occupancy statistics.
func (p *Packer) Stats() Stats {
	return Stats{
		Allocations: p.allocCount,
		UsedArea:    p.usedArea,
		TotalArea:   p.w * p.h,
		Nodes:       p.tree.Len(),
	}
}
