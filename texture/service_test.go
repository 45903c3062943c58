package texture

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func r8(w, h int) Desc {
	return Desc{Format: gputypes.TextureFormatR8Unorm, Width: w, Height: h}
}

func TestService_FIFO(t *testing.T) {
	s := NewService()
	a := s.Create(r8(16, 16))
	buf := s.Update(a, Region{X: 2, Y: 3, W: 4, H: 5})
	b := s.Create(Desc{Format: gputypes.TextureFormatRGBA8Unorm, Width: 1, Height: 1})
	s.Destroy(a)

	if a == Invalid || b == Invalid || a == b {
		t.Fatalf("handles a=%d b=%d", a, b)
	}
	if len(buf) != 20 {
		t.Errorf("staging buffer len = %d, want 20", len(buf))
	}
	buf[0] = 0xAB

	want := []struct {
		kind   CommandKind
		handle Handle
	}{
		{CommandCreate, a},
		{CommandUpdate, a},
		{CommandCreate, b},
		{CommandDestroy, a},
	}
	if s.Pending() != len(want) {
		t.Fatalf("Pending() = %d, want %d", s.Pending(), len(want))
	}
	for i, w := range want {
		c, ok := s.Pop()
		if !ok {
			t.Fatalf("Pop() #%d returned false", i)
		}
		if c.Kind != w.kind || c.Handle != w.handle {
			t.Errorf("command #%d = %v %d, want %v %d", i, c.Kind, c.Handle, w.kind, w.handle)
		}
		if c.Kind == CommandUpdate && c.Data[0] != 0xAB {
			t.Error("update command must carry the caller-filled staging buffer")
		}
	}
	if _, ok := s.Pop(); ok {
		t.Error("Pop() on drained queue returned true")
	}
}

func TestService_ReuseQueueAfterDrain(t *testing.T) {
	s := NewService()
	h := s.Create(r8(4, 4))
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
	}
	s.Update(h, Region{W: 4, H: 4})
	c, ok := s.Pop()
	if !ok || c.Kind != CommandUpdate {
		t.Errorf("Pop() = %v, %v; want update", c.Kind, ok)
	}
}

func TestService_RGBAStagingSize(t *testing.T) {
	s := NewService()
	h := s.Create(Desc{Format: gputypes.TextureFormatRGBA8Unorm, Width: 8, Height: 8})
	if got := len(s.Update(h, Region{X: 1, Y: 1, W: 3, H: 2})); got != 24 {
		t.Errorf("staging len = %d, want 24", got)
	}
}

func TestService_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *Service)
	}{
		{"update unknown", func(s *Service) { s.Update(7, Region{W: 1, H: 1}) }},
		{"destroy unknown", func(s *Service) { s.Destroy(7) }},
		{"double destroy", func(s *Service) {
			h := s.Create(r8(1, 1))
			s.Destroy(h)
			s.Destroy(h)
		}},
		{"update after destroy", func(s *Service) {
			h := s.Create(r8(1, 1))
			s.Destroy(h)
			s.Update(h, Region{W: 1, H: 1})
		}},
		{"region out of bounds", func(s *Service) {
			h := s.Create(r8(4, 4))
			s.Update(h, Region{X: 2, W: 3, H: 1})
		}},
		{"unsupported format", func(s *Service) {
			s.Create(Desc{Format: gputypes.TextureFormatBGRA8Unorm, Width: 1, Height: 1})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tt.name)
				}
			}()
			tt.fn(NewService())
		})
	}
}

func TestDesc_Validate(t *testing.T) {
	if err := r8(0, 4).Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Validate() = %v, want ErrInvalidSize", err)
	}
	d := Desc{Format: gputypes.TextureFormatBGRA8Unorm, Width: 1, Height: 1}
	if err := d.Validate(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Validate() = %v, want ErrUnsupportedFormat", err)
	}
	if err := r8(1, 1).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestRef(t *testing.T) {
	var none Ref
	if !none.IsNone() {
		t.Error("zero Ref should select the default texture")
	}
	in := Internal(5)
	if h, ok := in.Handle(); !ok || h != 5 {
		t.Errorf("Internal(5).Handle() = %d, %v", h, ok)
	}
	ex := External(5)
	if _, ok := ex.Handle(); ok {
		t.Error("External ref must not resolve to an internal handle")
	}
	if in == ex {
		t.Error("internal and external refs with the same id must differ")
	}
}

func TestStats(t *testing.T) {
	s := NewService()
	h := s.Create(r8(2, 2))
	s.Update(h, Region{W: 2, H: 2})
	st := s.Stats()
	if st.Created != 1 || st.Updated != 1 || st.UploadBytes != 4 || st.Live != 1 || st.Pending != 2 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.LogValue().Kind().String() != "Group" {
		t.Errorf("LogValue kind = %v", st.LogValue().Kind())
	}
}
