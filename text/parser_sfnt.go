package text

import (
	"fmt"

	"github.com/gogpu/ggui/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sfntParser implements FontParser using golang.org/x/image/font/sfnt.
type sfntParser struct{}

// Parse implements FontParser.Parse.
func (sfntParser) Parse(data []byte) (ParsedFont, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	return &sfntFont{font: f}, nil
}

// sfntFont implements ParsedFont using sfnt.Font. The shared buffer makes
// it unsafe for concurrent use, which FontService never needs.
type sfntFont struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

func (f *sfntFont) Name() string {
	name, err := f.font.Name(&f.buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

func (f *sfntFont) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

func (f *sfntFont) GlyphIndex(r rune) (GlyphID, bool) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	return GlyphID(idx), true
}

func (f *sfntFont) GlyphAdvance(gid GlyphID, ppem float32) float32 {
	adv, err := f.font.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat32(adv)
}

func (f *sfntFont) GlyphOutline(gid GlyphID, ppem float32) []OutlineSegment {
	segs, err := f.font.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), floatToFixed(ppem), nil)
	if err != nil || len(segs) == 0 {
		return nil
	}
	out := make([]OutlineSegment, len(segs))
	for i, s := range segs {
		out[i].Op = sfntOps[s.Op]
		for j, p := range s.Args {
			out[i].Points[j] = geom.V2(fixedToFloat32(p.X), fixedToFloat32(p.Y))
		}
	}
	return out
}

func (f *sfntFont) Metrics(ppem float32) FontMetrics {
	m, err := f.font.Metrics(&f.buf, floatToFixed(ppem), font.HintingNone)
	if err != nil {
		return FontMetrics{}
	}
	ascent := fixedToFloat32(m.Ascent)
	descent := fixedToFloat32(m.Descent)
	return FontMetrics{
		Ascent:  ascent,
		Descent: descent,
		LineGap: max(0, fixedToFloat32(m.Height)-ascent-descent),
	}
}

var sfntOps = [...]OutlineOp{
	sfnt.SegmentOpMoveTo: OutlineOpMoveTo,
	sfnt.SegmentOpLineTo: OutlineOpLineTo,
	sfnt.SegmentOpQuadTo: OutlineOpQuadTo,
	sfnt.SegmentOpCubeTo: OutlineOpCubicTo,
}

// fixedToFloat32 converts fixed.Int26_6 to float32.
func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

func floatToFixed(x float32) fixed.Int26_6 {
	return fixed.Int26_6(x * 64)
}
