package drawbuf

import (
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/text"
	"github.com/gogpu/ggui/texture"
)

func newTestFont(t *testing.T) *text.FontInstance {
	t.Helper()
	fs := text.NewFontService(texture.NewService())
	h, err := fs.RegisterFontShared(goregular.TTF)
	if err != nil {
		t.Fatalf("RegisterFontShared: %v", err)
	}
	return fs.Instance(h, 16, 1)
}

func quadMinX(d *Data, c Command) float32 {
	x := math32.Inf(1)
	for _, idx := range d.Indices[c.First : c.First+c.Count] {
		x = min(x, d.Vertices[idx].Pos.X)
	}
	return x
}

func TestDrawTextQuadsLeftToRight(t *testing.T) {
	f := newTestFont(t)
	b := New()
	w := b.DrawText(f, geom.V2(10, 20), "AAB", geom.Black)

	d := b.Layer(LayerBase)
	if len(d.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(d.Commands))
	}
	prev := math32.Inf(-1)
	for i, c := range d.Commands {
		x := quadMinX(d, c)
		if x <= prev {
			t.Errorf("quad %d starts at %g, not right of %g", i, x, prev)
		}
		prev = x
		if c.Texture.Kind != texture.KindInternal {
			t.Errorf("quad %d texture = %v, want internal", i, c.Texture)
		}
	}
	if d.Commands[0].Texture != d.Commands[2].Texture {
		t.Errorf("glyphs on different pages: %v, %v", d.Commands[0].Texture, d.Commands[2].Texture)
	}

	a, bAdv := f.Glyph('A').AdvanceWidth(), f.Glyph('B').AdvanceWidth()
	if want := 2*a + bAdv; math32.Abs(w-want) > 1e-4 {
		t.Errorf("DrawText width = %g, want %g", w, want)
	}
	if bounds := b.Bounds(); bounds.Min.Y < 20 || bounds.Max.Y > 20+f.Height() {
		t.Errorf("glyph bounds %v escape the line [20,%g]", bounds, 20+f.Height())
	}
}

func TestDrawTextSkipsBlankGlyphs(t *testing.T) {
	f := newTestFont(t)
	b := New()
	b.DrawText(f, geom.V2(0, 0), "A B", geom.Black)
	if got := len(b.Layer(LayerBase).Commands); got != 2 {
		t.Errorf("got %d commands, want 2", got)
	}
}

func TestDrawTextNormalizes(t *testing.T) {
	f := newTestFont(t)
	decomposed, composed := New(), New()
	decomposed.DrawText(f, geom.V2(0, 0), "e\u0301", geom.Black)
	composed.DrawText(f, geom.V2(0, 0), "\u00e9", geom.Black)
	if got, want := decomposed.Stats(), composed.Stats(); got != want {
		t.Errorf("decomposed Stats() = %+v, want %+v", got, want)
	}
}

func TestDrawTextEditStages(t *testing.T) {
	f := newTestFont(t)
	style := TextStyle{
		Color:          geom.Black,
		SelectionColor: geom.RGB(0, 0, 255),
		CursorColor:    red,
	}

	tests := []struct {
		name      string
		s         string
		sel       Selection
		focused   bool
		wantCmds  int
		wantFirst geom.RGBA8
	}{
		{"selection and cursor", "AB", Selection{Anchor: 0, Cursor: 2}, true, 4, style.SelectionColor},
		{"cursor only", "AB", Caret(1), true, 3, style.CursorColor},
		{"unfocused caret", "AB", Caret(1), false, 2, style.Color},
		{"empty focused", "", Caret(0), true, 1, style.CursorColor},
		{"empty unfocused", "", Caret(0), false, 0, geom.RGBA8{}},
		{"reversed selection", "AB", Selection{Anchor: 2, Cursor: 0}, false, 3, style.SelectionColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.DrawTextEdit(f, geom.V2(0, 0), tt.s, tt.sel, tt.focused, style)
			d := b.Layer(LayerBase)
			if len(d.Commands) != tt.wantCmds {
				t.Fatalf("got %d commands, want %d", len(d.Commands), tt.wantCmds)
			}
			if tt.wantCmds > 0 && d.Vertices[0].Color != tt.wantFirst {
				t.Errorf("first color = %v, want %v", d.Vertices[0].Color, tt.wantFirst)
			}
		})
	}
}

func TestDrawTextEditSelectionSpan(t *testing.T) {
	f := newTestFont(t)
	b := New()
	b.DrawTextEdit(f, geom.V2(0, 0), "AB", Selection{Anchor: 1, Cursor: 2}, false, TextStyle{})

	d := b.Layer(LayerBase)
	a := f.Glyph('A').AdvanceWidth()
	bAdv := f.Glyph('B').AdvanceWidth()
	sel := geom.R(d.Vertices[0].Pos.X, d.Vertices[0].Pos.Y, d.Vertices[2].Pos.X, d.Vertices[2].Pos.Y)
	want := geom.R(a, 0, a+bAdv, f.Height())
	if !sel.Min.Approx(want.Min, 1e-4) || !sel.Max.Approx(want.Max, 1e-4) {
		t.Errorf("selection = %v, want %v", sel, want)
	}
}

func TestDrawTextEditCursorAtEnd(t *testing.T) {
	f := newTestFont(t)
	b := New()
	w := b.DrawTextEdit(f, geom.V2(0, 0), "A", Caret(1), true, TextStyle{CursorWidth: 2})
	d := b.Layer(LayerBase)
	if got := d.Vertices[0].Pos.X; math32.Abs(got-w) > 1e-4 {
		t.Errorf("cursor x = %g, want %g", got, w)
	}
	if got := d.Vertices[1].Pos.X - d.Vertices[0].Pos.X; got != 2 {
		t.Errorf("cursor width = %g, want 2", got)
	}
}

func TestDrawTextBoxLines(t *testing.T) {
	f := newTestFont(t)
	h := f.Height()
	a := f.Glyph('A').AdvanceWidth()

	tests := []struct {
		name  string
		s     string
		width float32
		want  float32
	}{
		{"single", "AA", 100, h},
		{"newline", "AA\nB", 100, 2 * h},
		{"wrap", "AAA", 1.5 * a, 3 * h},
		{"wrap after space", "A A", 1.5 * a, 2 * h},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			got := b.DrawTextBox(f, geom.R(0, 0, tt.width, 1000), tt.s, TextStyle{}, nil)
			if math32.Abs(got-tt.want) > 1e-4 {
				t.Errorf("height = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestDrawTextBoxSelectionPerLine(t *testing.T) {
	f := newTestFont(t)
	b := New()
	sel := Selection{Anchor: 0, Cursor: 4}
	b.DrawTextBox(f, geom.R(0, 0, 100, 100), "AB\nAB", TextStyle{SelectionColor: red}, &sel)

	d := b.Layer(LayerBase)
	// Two selection rows, then four glyphs.
	if len(d.Commands) != 6 {
		t.Fatalf("got %d commands, want 6", len(d.Commands))
	}
	if d.Vertices[0].Color != red || d.Vertices[4].Color != red {
		t.Error("selection rows not painted first")
	}
	if got, want := d.Vertices[4].Pos.Y, f.Height(); math32.Abs(got-want) > 1e-4 {
		t.Errorf("second row top = %g, want %g", got, want)
	}
}

func TestMeasureText(t *testing.T) {
	f := newTestFont(t)
	a, bAdv := f.Glyph('A').AdvanceWidth(), f.Glyph('B').AdvanceWidth()
	got := MeasureText(f, "AB\nA")
	want := geom.V2(a+bAdv, 2*f.Height())
	if !got.Approx(want, 1e-4) {
		t.Errorf("MeasureText = %v, want %v", got, want)
	}
}
