// Package layout splits rectangles into rows and columns.
//
// A Stack divides an area along one axis by a list of constraints. Fixed
// lengths and percentages are resolved first; Fill constraints then share
// whatever is left in proportion to their weights. Every returned
// rectangle spans the full cross axis of the area.
//
//	rows := layout.VStack(layout.Length(32), layout.Fill(1)).Split(window)
//	header, body := rows[0], rows[1]
package layout

import (
	"fmt"

	"github.com/gogpu/ggui/geom"
)

// Direction is the main axis of a Stack.
type Direction int

const (
	// Horizontal lays children out left to right.
	Horizontal Direction = iota
	// Vertical lays children out top to bottom.
	Vertical
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ConstraintKind selects how a Constraint is resolved.
type ConstraintKind int

const (
	// KindLength is a fixed size in logical pixels.
	KindLength ConstraintKind = iota
	// KindPercent is a fraction of the area's main dimension.
	KindPercent
	// KindFill takes a weighted share of the space left over.
	KindFill
)

// String returns the string representation of the kind.
func (k ConstraintKind) String() string {
	switch k {
	case KindLength:
		return "Length"
	case KindPercent:
		return "Percent"
	case KindFill:
		return "Fill"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// Constraint sizes one child of a Stack.
type Constraint struct {
	Kind  ConstraintKind
	Value float32
}

// Length returns a constraint of exactly n logical pixels.
func Length(n float32) Constraint {
	return Constraint{Kind: KindLength, Value: n}
}

// Percent returns a constraint of fraction p of the main dimension.
// p must be within [0, 1].
func Percent(p float32) Constraint {
	return Constraint{Kind: KindPercent, Value: p}
}

// Fill returns a constraint sharing leftover space with weight w.
func Fill(w float32) Constraint {
	return Constraint{Kind: KindFill, Value: w}
}

func (c Constraint) String() string {
	return fmt.Sprintf("%v(%g)", c.Kind, c.Value)
}

// Stack divides an area along Direction.
type Stack struct {
	Direction   Direction
	Constraints []Constraint
}

// HStack returns a horizontal stack.
func HStack(cs ...Constraint) Stack {
	return Stack{Direction: Horizontal, Constraints: cs}
}

// VStack returns a vertical stack.
func VStack(cs ...Constraint) Stack {
	return Stack{Direction: Vertical, Constraints: cs}
}

// Split returns one rectangle per constraint, placed back to back along
// the main axis starting at the area's minimum corner.
//
// Fixed and percentage sizes are honored even when they overflow the
// area; Fill children then get zero size. Split panics on a negative
// length or weight and on a percentage outside [0, 1].
func (s Stack) Split(area geom.Rect) []geom.Rect {
	if len(s.Constraints) == 0 {
		return nil
	}
	main, offset := area.Width(), area.Min.X
	if s.Direction == Vertical {
		main, offset = area.Height(), area.Min.Y
	}

	sizes := make([]float32, len(s.Constraints))
	remaining := main
	var weights float32
	for i, c := range s.Constraints {
		switch c.Kind {
		case KindLength:
			if c.Value < 0 {
				panic(fmt.Sprintf("layout: negative length %g", c.Value))
			}
			sizes[i] = c.Value
		case KindPercent:
			if c.Value < 0 || c.Value > 1 {
				panic(fmt.Sprintf("layout: percentage %g outside [0, 1]", c.Value))
			}
			sizes[i] = main * c.Value
		case KindFill:
			if c.Value < 0 {
				panic(fmt.Sprintf("layout: negative fill weight %g", c.Value))
			}
			weights += c.Value
			continue
		default:
			panic(fmt.Sprintf("layout: unknown constraint %v", c.Kind))
		}
		remaining -= sizes[i]
	}
	if weights > 0 && remaining > 0 {
		for i, c := range s.Constraints {
			if c.Kind == KindFill {
				sizes[i] = remaining * c.Value / weights
			}
		}
	}

	out := make([]geom.Rect, len(sizes))
	for i, size := range sizes {
		if s.Direction == Vertical {
			out[i] = geom.R(area.Min.X, offset, area.Max.X, offset+size)
		} else {
			out[i] = geom.R(offset, area.Min.Y, offset+size, area.Max.Y)
		}
		offset += size
	}
	return out
}
