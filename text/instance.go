package text

import (
	"iter"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/ggui"
	"github.com/gogpu/ggui/atlas"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/texture"
)

// page is one atlas texture owned by a FontInstance.
type page struct {
	packer *atlas.Packer
	handle texture.Handle
}

// Glyph is a cached rasterized character. Glyphs are immutable.
type Glyph struct {
	page      int // -1 for glyphs without pixels
	entry     atlas.NodeID
	texCoords geom.Rect
	bounds    geom.Rect
	advance   float32
	missing   bool
}

// GlyphRef is a glyph together with the texture it lives on.
type GlyphRef struct {
	r      rune
	glyph  *Glyph
	handle texture.Handle
}

// Rune returns the character the glyph was requested for.
func (g GlyphRef) Rune() rune { return g.r }

// BoundingRect returns the glyph's pixel box in logical units relative to
// the pen position on the baseline. Y grows downward, so ink above the
// baseline has negative Y.
func (g GlyphRef) BoundingRect() geom.Rect { return g.glyph.bounds }

// AdvanceWidth returns the horizontal pen advance in logical units.
func (g GlyphRef) AdvanceWidth() float32 { return g.glyph.advance }

// TextureHandle returns the atlas page texture, or texture.Invalid for
// glyphs without pixels such as spaces.
func (g GlyphRef) TextureHandle() texture.Handle { return g.handle }

// Texture returns a draw-command texture reference for the glyph.
func (g GlyphRef) Texture() texture.Ref {
	if g.handle == texture.Invalid {
		return texture.Ref{}
	}
	return texture.Internal(g.handle)
}

// TextureCoords returns the normalized atlas rectangle of the glyph.
func (g GlyphRef) TextureCoords() geom.Rect { return g.glyph.texCoords }

// Empty reports whether the glyph has no pixels.
func (g GlyphRef) Empty() bool { return g.glyph.page < 0 }

// Missing reports whether the font had no outline for the rune and the
// replacement glyph was used instead.
func (g GlyphRef) Missing() bool { return g.glyph.missing }

// FontInstance is one font at one point size and scale factor. It owns
// the atlas pages its glyphs are packed into; no two instances share a page.
type FontInstance struct {
	svc   *FontService
	font  *registeredFont
	pt    float32
	scale float32
	ppem  float32

	metrics        FontMetrics
	typicalAdvance float32

	pages  []page
	glyphs map[rune]*Glyph

	lastUsed uint64
}

func newFontInstance(svc *FontService, f *registeredFont, ptSize, scale float32) *FontInstance {
	ppem := ptSize * scale * svc.cfg.internalScale
	m := f.parsed.Metrics(ppem)
	inst := &FontInstance{
		svc:   svc,
		font:  f,
		pt:    ptSize,
		scale: scale,
		ppem:  ppem,
		metrics: FontMetrics{
			Ascent:  m.Ascent / scale,
			Descent: m.Descent / scale,
			LineGap: m.LineGap / scale,
		},
		glyphs: make(map[rune]*Glyph),
	}
	// CSS "ch" unit: the advance of '0'.
	if gid, ok := f.parsed.GlyphIndex('0'); ok {
		inst.typicalAdvance = f.parsed.GlyphAdvance(gid, ppem) / scale
	} else {
		inst.typicalAdvance = ppem / 2 / scale
	}
	return inst
}

// PtSize returns the point size the instance was created for.
func (fi *FontInstance) PtSize() float32 { return fi.pt }

// Scale returns the display scale factor the instance was created for.
func (fi *FontInstance) Scale() float32 { return fi.scale }

// Metrics returns the font metrics in logical units.
func (fi *FontInstance) Metrics() FontMetrics { return fi.metrics }

// Height returns the line height in logical units.
func (fi *FontInstance) Height() float32 { return fi.metrics.Height() }

// Ascent returns the ascent in logical units.
func (fi *FontInstance) Ascent() float32 { return fi.metrics.Ascent }

// TypicalAdvanceWidth returns the advance of '0' in logical units.
func (fi *FontInstance) TypicalAdvanceWidth() float32 { return fi.typicalAdvance }

// Pages yields the atlas texture of every page in allocation order.
func (fi *FontInstance) Pages() iter.Seq[texture.Handle] {
	return func(yield func(texture.Handle) bool) {
		for _, p := range fi.pages {
			if !yield(p.handle) {
				return
			}
		}
	}
}

// Glyph returns the glyph for r, rasterizing it into an atlas page on
// first use.
//
// Characters the font cannot outline are handled as follows: whitespace
// and other non-graphic runes become empty glyphs that take no atlas
// space; graphic runes fall back to the font's .notdef glyph and are
// reported by GlyphRef.Missing.
//
// Glyph panics with *GlyphTooLargeError if the rasterized glyph does not
// fit on an empty page.
func (fi *FontInstance) Glyph(r rune) GlyphRef {
	g, ok := fi.glyphs[r]
	if ok {
		fi.svc.hits++
	} else {
		fi.svc.misses++
		g = fi.rasterize(r)
		fi.glyphs[r] = g
	}
	ref := GlyphRef{r: r, glyph: g}
	if g.page >= 0 {
		ref.handle = fi.pages[g.page].handle
	}
	return ref
}

// TextWidth returns the summed advance of every rune of s.
func (fi *FontInstance) TextWidth(s string) float32 {
	var w float32
	for _, r := range s {
		w += fi.Glyph(r).AdvanceWidth()
	}
	return w
}

func (fi *FontInstance) rasterize(r rune) *Glyph {
	f := fi.font.parsed
	g := &Glyph{page: -1}

	gid, found := f.GlyphIndex(r)
	var segs []OutlineSegment
	if found {
		segs = f.GlyphOutline(gid, fi.ppem)
	}
	if len(segs) == 0 && wantsReplacement(r) {
		gid = 0
		segs = f.GlyphOutline(0, fi.ppem)
		g.missing = true
		fi.svc.replacements++
		ggui.Logger().Warn("text: no glyph for rune, using replacement",
			"rune", string(r), "font", fi.font.name)
	}
	g.advance = f.GlyphAdvance(gid, fi.ppem) / fi.scale

	if len(segs) == 0 {
		return g
	}

	b := outlineBounds(segs)
	origin := b.Min.Floor()
	w := int(math32.Ceil(b.Max.X) - origin.X)
	h := int(math32.Ceil(b.Max.Y) - origin.Y)
	if w <= 0 || h <= 0 {
		return g
	}

	pageIdx, entryID := fi.allocate(r, w, h)
	p := fi.pages[pageIdx]
	e := p.packer.Entry(entryID)

	buf := fi.svc.textures.Update(p.handle, texture.Region{X: e.X, Y: e.Y, W: e.W, H: e.H})
	rasterizeOutline(buf, w, h, segs, origin)

	pw, ph := p.packer.TextureSize()
	g.page = pageIdx
	g.entry = entryID
	g.texCoords = geom.R(
		float32(e.X)/float32(pw),
		float32(e.Y)/float32(ph),
		float32(e.X+e.W)/float32(pw),
		float32(e.Y+e.H)/float32(ph),
	)
	g.bounds = geom.Rect{
		Min: origin,
		Max: origin.Add(geom.V2(float32(w), float32(h))),
	}.Scale(1 / fi.scale)

	ggui.Logger().Debug("text: glyph rasterized",
		"rune", string(r), "page", pageIdx, "x", e.X, "y", e.Y, "w", w, "h", h)
	return g
}

// allocate finds room for a w×h glyph, trying pages in order and adding a
// new page when none has space.
func (fi *FontInstance) allocate(r rune, w, h int) (int, atlas.NodeID) {
	cfg := fi.svc.cfg
	if w > cfg.pageW || h > cfg.pageH {
		panic(&GlyphTooLargeError{Rune: r, Width: w, Height: h, PageW: cfg.pageW, PageH: cfg.pageH})
	}
	for i, p := range fi.pages {
		if id, ok := p.packer.Insert(w, h); ok {
			return i, id
		}
	}

	p := page{
		packer: atlas.New(cfg.pageW, cfg.pageH, cfg.gap),
		handle: fi.svc.textures.Create(texture.Desc{
			Label:  "glyph atlas",
			Format: gputypes.TextureFormatR8Unorm,
			Width:  cfg.pageW,
			Height: cfg.pageH,
		}),
	}
	fi.pages = append(fi.pages, p)
	ggui.Logger().Debug("text: atlas page allocated",
		"font", fi.font.name, "ppem", fi.ppem, "page", len(fi.pages)-1, "texture", p.handle)

	id, ok := p.packer.Insert(w, h)
	if !ok {
		panic(&GlyphTooLargeError{Rune: r, Width: w, Height: h, PageW: cfg.pageW, PageH: cfg.pageH})
	}
	return len(fi.pages) - 1, id
}

// wantsReplacement reports whether a rune without an outline should be
// drawn with the .notdef glyph rather than as empty space.
func wantsReplacement(r rune) bool {
	return !unicode.IsSpace(r) && unicode.IsGraphic(r)
}
