package text

import (
	"bytes"
	"fmt"

	gtfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/ggui/geom"
)

// gotextParser implements FontParser using github.com/go-text/typesetting.
// It reads glyf, CFF and CFF2 outlines and honors the hhea/OS2 extents.
type gotextParser struct{}

// Parse implements FontParser.Parse.
func (gotextParser) Parse(data []byte) (ParsedFont, error) {
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}
	upem := face.Upem()
	if upem == 0 {
		upem = 1000
	}
	return &gotextFont{face: face, upem: float32(upem)}, nil
}

// gotextFont implements ParsedFont on a go-text face. Values are read in
// font units and scaled by ppem/upem.
type gotextFont struct {
	face *gtfont.Face
	upem float32
}

func (f *gotextFont) Name() string {
	return f.face.Describe().Family
}

func (f *gotextFont) UnitsPerEm() int {
	return int(f.upem)
}

func (f *gotextFont) GlyphIndex(r rune) (GlyphID, bool) {
	gid, ok := f.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return 0, false
	}
	return GlyphID(gid), true
}

func (f *gotextFont) GlyphAdvance(gid GlyphID, ppem float32) float32 {
	return f.face.HorizontalAdvance(gtfont.GID(gid)) * ppem / f.upem
}

func (f *gotextFont) GlyphOutline(gid GlyphID, ppem float32) []OutlineSegment {
	var segs []ot.Segment
	switch data := f.face.GlyphData(gtfont.GID(gid)).(type) {
	case gtfont.GlyphOutline:
		segs = data.Segments
	case gtfont.GlyphSVG:
		segs = data.Outline.Segments
	}
	if len(segs) == 0 {
		return nil
	}

	s := ppem / f.upem
	out := make([]OutlineSegment, len(segs))
	for i, seg := range segs {
		out[i].Op = gotextOps[seg.Op]
		for j, p := range seg.Args {
			// font units grow up; outlines here grow down
			out[i].Points[j] = geom.V2(p.X*s, -p.Y*s)
		}
	}
	return out
}

func (f *gotextFont) Metrics(ppem float32) FontMetrics {
	ext, ok := f.face.FontHExtents()
	if !ok {
		return FontMetrics{Ascent: ppem}
	}
	s := ppem / f.upem
	return FontMetrics{
		Ascent:  ext.Ascender * s,
		Descent: -ext.Descender * s,
		LineGap: max(0, ext.LineGap*s),
	}
}

var gotextOps = [...]OutlineOp{
	ot.SegmentOpMoveTo: OutlineOpMoveTo,
	ot.SegmentOpLineTo: OutlineOpLineTo,
	ot.SegmentOpQuadTo: OutlineOpQuadTo,
	ot.SegmentOpCubeTo: OutlineOpCubicTo,
}
