package text

import (
	"github.com/gogpu/ggui/geom"
)

// GlyphID is a glyph index inside a font. Index 0 is the font's .notdef glyph.
type GlyphID uint32

// FontParser is an interface for font parsing backends.
//
// Two parsers are built in: "sfnt" (golang.org/x/image/font/sfnt, the
// default) and "gotext" (github.com/go-text/typesetting).
type FontParser interface {
	// Parse parses font data (TTF or OTF).
	Parse(data []byte) (ParsedFont, error)
}

// ParsedFont is a parsed font file. Sizes are given in pixels per em;
// results are in pixels with Y growing downward.
//
// Implementations need not be safe for concurrent use.
type ParsedFont interface {
	// Name returns the font family name, or "".
	Name() string

	// UnitsPerEm returns the design units per em.
	UnitsPerEm() int

	// GlyphIndex maps r through the font's cmap. It returns false when the
	// font has no glyph for r.
	GlyphIndex(r rune) (GlyphID, bool)

	// GlyphAdvance returns the horizontal advance of gid.
	GlyphAdvance(gid GlyphID, ppem float32) float32

	// GlyphOutline returns the outline of gid relative to the pen position
	// on the baseline. Empty glyphs return no segments.
	GlyphOutline(gid GlyphID, ppem float32) []OutlineSegment

	// Metrics returns the font metrics at ppem.
	Metrics(ppem float32) FontMetrics
}

// FontMetrics holds font-level metrics at a specific size.
type FontMetrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float32

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float32

	// LineGap is the recommended gap between lines.
	LineGap float32
}

// Height returns the line height (ascent + descent + line gap).
func (m FontMetrics) Height() float32 {
	return m.Ascent + m.Descent + m.LineGap
}

// OutlineOp is the type of path operation.
type OutlineOp uint8

const (
	OutlineOpMoveTo OutlineOp = iota
	OutlineOpLineTo
	OutlineOpQuadTo
	OutlineOpCubicTo
)

// String returns a string representation of the operation.
func (op OutlineOp) String() string {
	switch op {
	case OutlineOpMoveTo:
		return "MoveTo"
	case OutlineOpLineTo:
		return "LineTo"
	case OutlineOpQuadTo:
		return "QuadTo"
	case OutlineOpCubicTo:
		return "CubicTo"
	default:
		return "Unknown"
	}
}

// OutlineSegment is one path segment of a glyph outline.
//   - MoveTo, LineTo: Points[0] is the target
//   - QuadTo: Points[0] is the control point, Points[1] the target
//   - CubicTo: Points[0], Points[1] are controls, Points[2] the target
type OutlineSegment struct {
	Op     OutlineOp
	Points [3]geom.Vec2
}

// outlineBounds returns the bounding box of every point in segs.
// Control points are included, so curves may be slightly overestimated.
func outlineBounds(segs []OutlineSegment) geom.Rect {
	b := geom.EmptyBounds()
	for _, s := range segs {
		n := 1
		switch s.Op {
		case OutlineOpQuadTo:
			n = 2
		case OutlineOpCubicTo:
			n = 3
		}
		for _, p := range s.Points[:n] {
			b = b.Extend(p)
		}
	}
	return b
}

// parserRegistry holds registered font parsers.
var parserRegistry = map[string]FontParser{
	"sfnt":   sfntParser{},
	"gotext": gotextParser{},
}

// defaultParserName is the name of the default parser.
const defaultParserName = "sfnt"

// RegisterParser registers a custom font parser under name.
// It is not safe to call concurrently with FontService use.
func RegisterParser(name string, parser FontParser) {
	parserRegistry[name] = parser
}

// getParser returns the parser registered under name.
func getParser(name string) (FontParser, bool) {
	p, ok := parserRegistry[name]
	return p, ok
}
