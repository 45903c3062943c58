package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggui/texture"
)

func newTestService(t *testing.T, opts ...FontServiceOption) (*FontService, *texture.Service, FontHandle) {
	t.Helper()
	ts := texture.NewService()
	fs := NewFontService(ts, opts...)
	h, err := fs.RegisterFontShared(goregular.TTF)
	if err != nil {
		t.Fatalf("RegisterFontShared: %v", err)
	}
	return fs, ts, h
}

func drain(ts *texture.Service) []texture.Command {
	var out []texture.Command
	for {
		c, ok := ts.Pop()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func countKind(cmds []texture.Command, k texture.CommandKind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == k {
			n++
		}
	}
	return n
}

func TestRegisterFont(t *testing.T) {
	fs := NewFontService(texture.NewService())

	if _, err := fs.RegisterFont(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("RegisterFont(nil) = %v, want ErrEmptyFontData", err)
	}
	if _, err := fs.RegisterFont([]byte("definitely not a font")); err == nil {
		t.Error("RegisterFont(garbage) should fail")
	}

	h1, err := fs.RegisterFont(goregular.TTF)
	if err != nil {
		t.Fatalf("RegisterFont: %v", err)
	}
	h2, err := fs.RegisterFont(gomono.TTF)
	if err != nil {
		t.Fatalf("RegisterFont: %v", err)
	}
	if h1 == h2 {
		t.Error("distinct registrations must return distinct handles")
	}
	if name := fs.FontName(h1); name != "Go" {
		t.Errorf("FontName = %q, want %q", name, "Go")
	}
	if fs.Stats().Fonts != 2 {
		t.Errorf("Stats().Fonts = %d, want 2", fs.Stats().Fonts)
	}
}

func TestRegisterFont_CopiesData(t *testing.T) {
	fs := NewFontService(texture.NewService())
	data := append([]byte(nil), goregular.TTF...)
	h, err := fs.RegisterFont(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := range data {
		data[i] = 0
	}
	if g := fs.Instance(h, 16, 1).Glyph('A'); g.Empty() {
		t.Error("glyph should rasterize after the caller reused its buffer")
	}
}

func TestInstance_Key(t *testing.T) {
	fs, _, h := newTestService(t)

	a := fs.Instance(h, 14, 1)
	if b := fs.Instance(h, 14, 1); a != b {
		t.Error("same key must return the same instance")
	}
	if c := fs.Instance(h, 14, 2); c == a {
		t.Error("different scale must return a different instance")
	}
	if d := fs.Instance(h, 14.000001, 1); d == a {
		t.Error("keys compare by bit pattern")
	}
	if fs.Stats().Instances != 3 {
		t.Errorf("Instances = %d, want 3", fs.Stats().Instances)
	}
}

func TestInstance_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(fs *FontService, h FontHandle)
	}{
		{"zero size", func(fs *FontService, h FontHandle) { fs.Instance(h, 0, 1) }},
		{"negative size", func(fs *FontService, h FontHandle) { fs.Instance(h, -3, 1) }},
		{"zero scale", func(fs *FontService, h FontHandle) { fs.Instance(h, 12, 0) }},
		{"unknown font", func(fs *FontService, h FontHandle) { fs.Instance(FontHandle{idx: 9}, 12, 1) }},
		{"duplicate request", func(fs *FontService, h FontHandle) {
			fs.Instances(
				InstanceRequest{Font: h, PtSize: 12, Scale: 1},
				InstanceRequest{Font: h, PtSize: 12, Scale: 1},
			)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, _, h := newTestService(t)
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn(fs, h)
		})
	}
}

func TestInstances_Distinct(t *testing.T) {
	fs, _, h := newTestService(t)
	got := fs.Instances(
		InstanceRequest{Font: h, PtSize: 12, Scale: 1},
		InstanceRequest{Font: h, PtSize: 24, Scale: 1},
	)
	if len(got) != 2 || got[0] == got[1] {
		t.Fatalf("Instances returned %v", got)
	}
	if got[0] != fs.Instance(h, 12, 1) {
		t.Error("Instances must share the cache with Instance")
	}
}

func TestInstance_Metrics(t *testing.T) {
	fs, _, h := newTestService(t)
	one := fs.Instance(h, 20, 1)
	two := fs.Instance(h, 20, 2)

	if one.Ascent() <= 0 || one.Height() <= one.Ascent() {
		t.Errorf("ascent=%v height=%v", one.Ascent(), one.Height())
	}
	if one.TypicalAdvanceWidth() <= 0 {
		t.Errorf("TypicalAdvanceWidth = %v", one.TypicalAdvanceWidth())
	}
	// logical metrics do not depend on the scale factor
	if d := one.Ascent() - two.Ascent(); d > 0.1 || d < -0.1 {
		t.Errorf("ascent differs across scales: %v vs %v", one.Ascent(), two.Ascent())
	}
}

func TestNewFontService_UnknownParser(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("unknown parser should panic")
		}
	}()
	NewFontService(texture.NewService(), WithParser("nope"))
}
