package drawbuf

import (
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/text"
)

// Font is the glyph source text drawing needs. *text.FontInstance
// implements it.
type Font interface {
	Glyph(r rune) text.GlyphRef
	Height() float32
	Ascent() float32
	TypicalAdvanceWidth() float32
}

// TextStyle colors text and its decorations.
type TextStyle struct {
	Color          geom.RGBA8
	SelectionColor geom.RGBA8
	CursorColor    geom.RGBA8
	// CursorWidth of zero draws a block cursor one typical advance wide.
	CursorWidth float32
}

// Selection is a byte range of the drawn string. Cursor is where the
// caret sits; Anchor is the other end and may lie on either side.
type Selection struct {
	Anchor int
	Cursor int
}

// Caret returns a collapsed selection at off.
func Caret(off int) Selection {
	return Selection{Anchor: off, Cursor: off}
}

// Range returns the ordered byte range.
func (s Selection) Range() (start, end int) {
	if s.Anchor <= s.Cursor {
		return s.Anchor, s.Cursor
	}
	return s.Cursor, s.Anchor
}

// Empty reports whether the selection covers no bytes.
func (s Selection) Empty() bool {
	return s.Anchor == s.Cursor
}

func (s Selection) clamp(n int) Selection {
	return Selection{Anchor: min(max(s.Anchor, 0), n), Cursor: min(max(s.Cursor, 0), n)}
}

func normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func (b *Buffer) pushGlyph(g text.GlyphRef, pen geom.Vec2, c geom.RGBA8) {
	if g.Empty() {
		return
	}
	b.PushRectFilled(g.BoundingRect().Translate(pen), TexturedFill(c, g.Texture(), g.TextureCoords()))
}

// MeasureText returns the width of the widest line of s and the total
// height of its lines.
func MeasureText(f Font, s string) geom.Vec2 {
	s = normalize(s)
	var w, lineW float32
	lines := 1
	for _, r := range s {
		if r == '\n' {
			w = max(w, lineW)
			lineW = 0
			lines++
			continue
		}
		lineW += f.Glyph(r).AdvanceWidth()
	}
	w = max(w, lineW)
	return geom.V2(w, float32(lines)*f.Height())
}

// DrawText draws s on one line with its top-left corner at origin and
// returns the advance consumed. The string is NFC-normalized first.
func (b *Buffer) DrawText(f Font, origin geom.Vec2, s string, c geom.RGBA8) float32 {
	s = normalize(s)
	pen := geom.V2(origin.X, origin.Y+f.Ascent())
	for _, r := range s {
		g := f.Glyph(r)
		b.pushGlyph(g, pen, c)
		pen.X += g.AdvanceWidth()
	}
	return pen.X - origin.X
}

// DrawTextEdit draws an editable single line: selection highlight
// first, then the cursor when focused, then the glyphs. Selection
// offsets index s as given, without normalization. It returns the
// advance consumed.
func (b *Buffer) DrawTextEdit(f Font, origin geom.Vec2, s string, sel Selection, focused bool, st TextStyle) float32 {
	sel = sel.clamp(len(s))
	start, end := sel.Range()
	h := f.Height()
	ascent := f.Ascent()
	cursorW := st.CursorWidth
	if cursorW <= 0 {
		cursorW = f.TypicalAdvanceWidth()
	}

	x := origin.X
	b.WithStages(3, func(stages []*Buffer) {
		selection, cursor, glyphs := stages[0], stages[1], stages[2]
		drawCursor := func(at float32) {
			if focused {
				cursor.PushRectFilled(geom.RectFromSize(geom.V2(at, origin.Y), geom.V2(cursorW, h)), SolidFill(st.CursorColor))
			}
		}
		selStart, selEnd := x, x
		for off, r := range s {
			if off == start {
				selStart = x
			}
			if off == end {
				selEnd = x
			}
			if off == sel.Cursor {
				drawCursor(x)
			}
			g := f.Glyph(r)
			glyphs.pushGlyph(g, geom.V2(x, origin.Y+ascent), st.Color)
			x += g.AdvanceWidth()
		}
		if start == len(s) {
			selStart = x
		}
		if end == len(s) {
			selEnd = x
		}
		if sel.Cursor == len(s) {
			drawCursor(x)
		}
		if end > start {
			selection.PushRectFilled(geom.R(selStart, origin.Y, selEnd, origin.Y+h), SolidFill(st.SelectionColor))
		}
	})
	return x - origin.X
}

// DrawTextBox draws s inside rect, breaking lines at '\n' and wherever
// the next glyph would cross rect's right edge. Whitespace at a wrap
// point is dropped. When sel is non-nil its range is highlighted line by
// line beneath the glyphs and s is drawn without normalization so the
// offsets stay valid. It returns the height consumed.
func (b *Buffer) DrawTextBox(f Font, rect geom.Rect, s string, st TextStyle, sel *Selection) float32 {
	start, end := 0, 0
	if sel != nil {
		start, end = sel.clamp(len(s)).Range()
	} else {
		s = normalize(s)
	}
	h := f.Height()
	ascent := f.Ascent()
	x, y := rect.Min.X, rect.Min.Y

	b.WithStages(2, func(stages []*Buffer) {
		selection, glyphs := stages[0], stages[1]
		selOpen := false
		var selX float32
		flush := func() {
			if selOpen && x > selX {
				selection.PushRectFilled(geom.R(selX, y, x, y+h), SolidFill(st.SelectionColor))
			}
			selOpen = false
		}
		newline := func() {
			flush()
			x = rect.Min.X
			y += h
		}

		for off, r := range s {
			inSel := off >= start && off < end
			if r == '\n' {
				newline()
				continue
			}
			g := f.Glyph(r)
			adv := g.AdvanceWidth()
			if x > rect.Min.X && x+adv > rect.Max.X {
				newline()
				if unicode.IsSpace(r) {
					continue
				}
			}
			switch {
			case inSel && !selOpen:
				selOpen = true
				selX = x
			case !inSel && selOpen:
				flush()
			}
			glyphs.pushGlyph(g, geom.V2(x, y+ascent), st.Color)
			x += adv
		}
		flush()
	})
	return y + h - rect.Min.Y
}
