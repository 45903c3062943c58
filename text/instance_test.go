package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/ggui/texture"
)

func TestGlyph_Idempotent(t *testing.T) {
	fs, ts, h := newTestService(t)
	inst := fs.Instance(h, 16, 1)

	a1 := inst.Glyph('A')
	first := drain(ts)
	if countKind(first, texture.CommandCreate) != 1 || countKind(first, texture.CommandUpdate) != 1 {
		t.Fatalf("first lookup queued %d creates, %d updates; want 1, 1",
			countKind(first, texture.CommandCreate), countKind(first, texture.CommandUpdate))
	}

	a2 := inst.Glyph('A')
	if n := len(drain(ts)); n != 0 {
		t.Errorf("second lookup queued %d commands, want 0", n)
	}
	if a1.TextureCoords() != a2.TextureCoords() {
		t.Errorf("texture coords differ: %v vs %v", a1.TextureCoords(), a2.TextureCoords())
	}
	if a1.AdvanceWidth() != a2.AdvanceWidth() || a1.BoundingRect() != a2.BoundingRect() {
		t.Error("metrics differ between lookups")
	}
	if a1.TextureHandle() != a2.TextureHandle() || a1.TextureHandle() == texture.Invalid {
		t.Errorf("texture handles %d, %d", a1.TextureHandle(), a2.TextureHandle())
	}
}

func TestGlyph_Pixels(t *testing.T) {
	fs, ts, h := newTestService(t)
	g := fs.Instance(h, 32, 1).Glyph('H')

	var update *texture.Command
	cmds := drain(ts)
	for i := range cmds {
		if cmds[i].Kind == texture.CommandUpdate {
			update = &cmds[i]
		}
	}
	if update == nil {
		t.Fatal("no update queued")
	}
	if update.Region.W != int(g.BoundingRect().Width()) || update.Region.H != int(g.BoundingRect().Height()) {
		t.Errorf("upload %v does not match glyph bounds %v", update.Region, g.BoundingRect())
	}
	full := 0
	for _, b := range update.Data {
		if b == 0xFF {
			full++
		}
	}
	if full == 0 {
		t.Error("rasterized 'H' has no fully covered pixels")
	}
	if g.BoundingRect().Max.Y > 1 || g.BoundingRect().Min.Y >= 0 {
		t.Errorf("'H' should sit on the baseline with ink above it, got %v", g.BoundingRect())
	}
}

func TestGlyph_ScaleCorrected(t *testing.T) {
	fs, _, h := newTestService(t)
	one := fs.Instance(h, 16, 1).Glyph('W')
	two := fs.Instance(h, 16, 2).Glyph('W')

	if d := one.AdvanceWidth() - two.AdvanceWidth(); d > 0.1 || d < -0.1 {
		t.Errorf("advance differs across scales: %v vs %v", one.AdvanceWidth(), two.AdvanceWidth())
	}
	if two.TextureCoords().Width() <= one.TextureCoords().Width() {
		t.Error("the 2x instance should use more atlas texels")
	}
}

func TestGlyph_Whitespace(t *testing.T) {
	fs, ts, h := newTestService(t)
	sp := fs.Instance(h, 16, 1).Glyph(' ')

	if !sp.Empty() || sp.Missing() {
		t.Errorf("space: Empty=%v Missing=%v", sp.Empty(), sp.Missing())
	}
	if sp.AdvanceWidth() <= 0 {
		t.Errorf("space advance = %v", sp.AdvanceWidth())
	}
	if !sp.Texture().IsNone() || sp.TextureHandle() != texture.Invalid {
		t.Error("space must not reference a texture")
	}
	if n := len(drain(ts)); n != 0 {
		t.Errorf("space queued %d texture commands", n)
	}
}

func TestGlyph_Replacement(t *testing.T) {
	fs, _, h := newTestService(t)
	inst := fs.Instance(h, 16, 1)

	g := inst.Glyph('中') // CJK, not in the Go fonts
	if !g.Missing() {
		t.Error("CJK rune should use the replacement glyph")
	}
	if g.AdvanceWidth() <= 0 {
		t.Errorf("replacement advance = %v", g.AdvanceWidth())
	}
	if fs.Stats().Replacements != 1 {
		t.Errorf("Replacements = %d, want 1", fs.Stats().Replacements)
	}

	inst.Glyph('中')
	if fs.Stats().Replacements != 1 {
		t.Error("the replacement must be cached per rune")
	}
}

func TestGlyph_AAB(t *testing.T) {
	fs, ts, h := newTestService(t)
	inst := fs.Instance(h, 16, 1)

	var refs []GlyphRef
	for _, r := range "AAB" {
		refs = append(refs, inst.Glyph(r))
	}
	st := fs.Stats()
	if st.Glyphs != 2 || st.Misses != 2 || st.Hits != 1 {
		t.Errorf("Stats = %+v, want 2 glyphs, 2 misses, 1 hit", st)
	}
	if refs[0].TextureCoords() != refs[1].TextureCoords() {
		t.Error("both A's must share texture coords")
	}
	if refs[0].TextureCoords() == refs[2].TextureCoords() {
		t.Error("A and B must not share texture coords")
	}
	if n := countKind(drain(ts), texture.CommandUpdate); n != 2 {
		t.Errorf("queued %d uploads, want 2", n)
	}
}

func TestGlyph_NewPageOnExhaustion(t *testing.T) {
	fs, ts, h := newTestService(t, WithPageSize(32, 32))
	inst := fs.Instance(h, 14, 1)

	for _, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		inst.Glyph(r)
	}
	pages := 0
	for range inst.Pages() {
		pages++
	}
	if pages < 2 {
		t.Fatalf("expected several 32x32 pages, got %d", pages)
	}
	if n := countKind(drain(ts), texture.CommandCreate); n != pages {
		t.Errorf("queued %d creates for %d pages", n, pages)
	}

	// the first page keeps serving small glyphs that still fit
	first := inst.Glyph('A').TextureHandle()
	var firstPage texture.Handle
	for p := range inst.Pages() {
		firstPage = p
		break
	}
	if first != firstPage {
		t.Errorf("'A' on page texture %d, want first page %d", first, firstPage)
	}
}

func TestGlyph_TooLarge(t *testing.T) {
	fs, _, h := newTestService(t, WithPageSize(16, 16))
	defer func() {
		r := recover()
		err, ok := r.(error)
		var tooLarge *GlyphTooLargeError
		if !ok || !errors.As(err, &tooLarge) {
			t.Fatalf("panic value = %v, want *GlyphTooLargeError", r)
		}
		if tooLarge.Rune != 'M' {
			t.Errorf("Rune = %q", tooLarge.Rune)
		}
	}()
	fs.Instance(h, 64, 1).Glyph('M')
}

func TestEndFrame_Eviction(t *testing.T) {
	fs, ts, h := newTestService(t)

	old := fs.Instance(h, 16, 1)
	oldTex := old.Glyph('A').TextureHandle()
	drain(ts)

	fs.EndFrame() // used this frame: survives
	if fs.Stats().Instances != 1 {
		t.Fatal("instance used this frame must survive EndFrame")
	}

	fs.EndFrame() // untouched for a full frame: evicted
	cmds := drain(ts)
	if len(cmds) != 1 || cmds[0].Kind != texture.CommandDestroy || cmds[0].Handle != oldTex {
		t.Fatalf("eviction queued %+v, want one destroy of %d", cmds, oldTex)
	}
	if st := fs.Stats(); st.Instances != 0 || st.Evictions != 1 {
		t.Errorf("Stats after eviction = %+v", st)
	}

	fresh := fs.Instance(h, 16, 1)
	if fresh == old {
		t.Fatal("evicted instance was returned again")
	}
	newTex := fresh.Glyph('A').TextureHandle()
	cmds = drain(ts)
	if countKind(cmds, texture.CommandCreate) != 1 {
		t.Errorf("re-rasterization queued %d creates, want 1", countKind(cmds, texture.CommandCreate))
	}
	if newTex == oldTex {
		t.Error("new page must get a new texture handle")
	}
}

func TestEndFrame_TouchedSurvives(t *testing.T) {
	fs, _, h := newTestService(t)
	for range 5 {
		fs.Instance(h, 12, 1)
		fs.EndFrame()
	}
	if fs.Stats().Instances != 1 {
		t.Error("instance touched every frame must never be evicted")
	}
	if fs.Frame() != 5 {
		t.Errorf("Frame() = %d, want 5", fs.Frame())
	}
}

func TestEndFrame_IdleFrames(t *testing.T) {
	fs, _, h := newTestService(t, WithIdleFrames(3))
	fs.Instance(h, 12, 1)
	for i := range 3 {
		fs.EndFrame()
		if fs.Stats().Instances != 1 {
			t.Fatalf("evicted after %d frame ends, want to survive 3", i+1)
		}
	}
	fs.EndFrame()
	if fs.Stats().Instances != 0 {
		t.Error("instance should be evicted after 3 idle frames")
	}
}

func TestTypicalAdvance_Monospace(t *testing.T) {
	ts := texture.NewService()
	fs := NewFontService(ts)
	h, err := fs.RegisterFontShared(gomono.TTF)
	if err != nil {
		t.Fatal(err)
	}
	inst := fs.Instance(h, 13, 1)
	want := inst.TypicalAdvanceWidth()
	for _, r := range "il0WM .|" {
		if got := inst.Glyph(r).AdvanceWidth(); got != want {
			t.Errorf("advance(%q) = %v, want %v", r, got, want)
		}
	}
	if w := inst.TextWidth("abcd"); w != 4*want {
		t.Errorf("TextWidth = %v, want %v", w, 4*want)
	}
}
