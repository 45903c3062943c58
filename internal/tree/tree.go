// Package tree implements an arena-backed n-ary tree.
//
// Nodes live in a slot slice and refer to each other by index. Removed
// slots go onto a free list and are reused by later inserts, so indices
// stay stable until the node they name is removed.
package tree

import (
	"fmt"
	"iter"
)

// None marks an absent parent, child or sibling link.
const None = -1

// Node is one tree node together with its links.
type Node[T any] struct {
	Value T

	parent      int
	firstChild  int
	prevSibling int
	nextSibling int
}

// Parent returns the parent index or None.
func (n *Node[T]) Parent() int { return n.parent }

// FirstChild returns the index of the first child or None.
func (n *Node[T]) FirstChild() int { return n.firstChild }

// PrevSibling returns the index of the previous sibling or None.
func (n *Node[T]) PrevSibling() int { return n.prevSibling }

// NextSibling returns the index of the next sibling or None.
func (n *Node[T]) NextSibling() int { return n.nextSibling }

// IsLeaf reports whether the node has no children.
func (n *Node[T]) IsLeaf() bool { return n.firstChild == None }

type slot[T any] struct {
	node Node[T]
	live bool
}

// Tree is an n-ary tree stored in a slot slice with free-list reuse.
// The zero value is not usable; create trees with New.
//
// Pointers returned by Get and TryGet are invalidated by the next insert.
type Tree[T any] struct {
	slots []slot[T]
	free  []int
	root  int
	live  int
}

// New creates a tree with a single root node holding value.
func New[T any](value T) *Tree[T] {
	t := &Tree[T]{}
	t.root = t.alloc(value, None)
	return t
}

// Root returns the index of the root node.
func (t *Tree[T]) Root() int { return t.root }

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int { return t.live }

func (t *Tree[T]) alloc(value T, parent int) int {
	n := Node[T]{
		Value:       value,
		parent:      parent,
		firstChild:  None,
		prevSibling: None,
		nextSibling: None,
	}
	t.live++
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[idx] = slot[T]{node: n, live: true}
		return idx
	}
	t.slots = append(t.slots, slot[T]{node: n, live: true})
	return len(t.slots) - 1
}

// InsertChildAfter inserts value as a child of parent. When after is None
// the new node becomes parent's first child; otherwise it is linked right
// after the sibling at index after, which must be a child of parent.
//
// A parent of None inserts a top-level sibling of the root; after must then
// name a top-level node.
//
// It returns the index of the new node.
func (t *Tree[T]) InsertChildAfter(parent, after int, value T) int {
	if parent != None {
		t.Get(parent)
	} else if after == None {
		panic("tree: top-level insert requires a sibling")
	}
	if after != None {
		if a := t.Get(after); a.parent != parent {
			panic(fmt.Sprintf("tree: node %d is not a child of %d", after, parent))
		}
	}

	idx := t.alloc(value, parent)
	n := &t.slots[idx].node

	if after == None {
		p := &t.slots[parent].node
		n.nextSibling = p.firstChild
		if p.firstChild != None {
			t.slots[p.firstChild].node.prevSibling = idx
		}
		p.firstChild = idx
		return idx
	}

	a := &t.slots[after].node
	n.prevSibling = after
	n.nextSibling = a.nextSibling
	if a.nextSibling != None {
		t.slots[a.nextSibling].node.prevSibling = idx
	}
	a.nextSibling = idx
	return idx
}

// Remove unlinks the leaf at idx and returns its slot to the free list.
//
// Removing the root promotes its next sibling to root. Remove panics if
// idx is invalid, if the node still has children, or if idx is the sole
// root.
func (t *Tree[T]) Remove(idx int) {
	n := t.Get(idx)
	if n.firstChild != None {
		panic(fmt.Sprintf("tree: node %d still has children", idx))
	}
	if idx == t.root {
		if n.nextSibling == None {
			panic("tree: cannot remove the sole root")
		}
		t.root = n.nextSibling
	}

	if n.prevSibling != None {
		t.slots[n.prevSibling].node.nextSibling = n.nextSibling
	} else if n.parent != None {
		t.slots[n.parent].node.firstChild = n.nextSibling
	}
	if n.nextSibling != None {
		t.slots[n.nextSibling].node.prevSibling = n.prevSibling
	}

	t.slots[idx] = slot[T]{}
	t.free = append(t.free, idx)
	t.live--
}

// TryGet returns the node at idx, or false if idx is out of range or freed.
func (t *Tree[T]) TryGet(idx int) (*Node[T], bool) {
	if idx < 0 || idx >= len(t.slots) || !t.slots[idx].live {
		return nil, false
	}
	return &t.slots[idx].node, true
}

// Get returns the node at idx and panics if it is out of range or freed.
func (t *Tree[T]) Get(idx int) *Node[T] {
	n, ok := t.TryGet(idx)
	if !ok {
		panic(fmt.Sprintf("tree: invalid node index %d", idx))
	}
	return n
}

// TryValue returns a copy of the value stored at idx.
func (t *Tree[T]) TryValue(idx int) (T, bool) {
	n, ok := t.TryGet(idx)
	if !ok {
		var zero T
		return zero, false
	}
	return n.Value, true
}

// Value returns a copy of the value stored at idx and panics on an invalid index.
func (t *Tree[T]) Value(idx int) T {
	return t.Get(idx).Value
}

// All yields live nodes in slot order, not tree order.
func (t *Tree[T]) All() iter.Seq2[int, *Node[T]] {
	return func(yield func(int, *Node[T]) bool) {
		for i := range t.slots {
			if !t.slots[i].live {
				continue
			}
			if !yield(i, &t.slots[i].node) {
				return
			}
		}
	}
}
