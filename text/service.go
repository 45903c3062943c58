package text

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"github.com/gogpu/ggui"
	"github.com/gogpu/ggui/texture"
)

// FontHandle identifies a font registered with a FontService.
// Handles stay valid for the lifetime of the service.
type FontHandle struct {
	idx uint32
}

// registeredFont is one entry of the append-only font registry.
type registeredFont struct {
	parsed ParsedFont
	data   []byte
	name   string
}

// instanceKey identifies a FontInstance. Sizes are compared by bit
// pattern, so 14 and 14.000001 are different instances.
type instanceKey struct {
	font  uint32
	pt    uint32
	scale uint32
}

func makeInstanceKey(h FontHandle, ptSize, scale float32) instanceKey {
	return instanceKey{
		font:  h.idx,
		pt:    math32.Float32bits(ptSize),
		scale: math32.Float32bits(scale),
	}
}

// FontServiceStats holds glyph cache statistics.
type FontServiceStats struct {
	Fonts        int
	Instances    int
	Pages        int
	Glyphs       int
	Hits         uint64
	Misses       uint64
	Replacements uint64
	Evictions    uint64
}

// HitRate returns the glyph cache hit rate as a percentage.
func (s FontServiceStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// LogValue implements slog.LogValuer.
func (s FontServiceStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("fonts", s.Fonts),
		slog.Int("instances", s.Instances),
		slog.Int("pages", s.Pages),
		slog.Int("glyphs", s.Glyphs),
		slog.Uint64("hits", s.Hits),
		slog.Uint64("misses", s.Misses),
		slog.Uint64("replacements", s.Replacements),
		slog.Uint64("evictions", s.Evictions),
	)
}

// FontService owns registered fonts and caches one FontInstance per
// (font, point size, scale factor) in use.
//
// Instances are evicted by EndFrame once they go a whole frame without a
// lookup; their atlas pages are destroyed through the texture service.
//
// FontService is not safe for concurrent use.
type FontService struct {
	textures  *texture.Service
	cfg       fontServiceConfig
	parser    FontParser
	fonts     []registeredFont
	instances map[instanceKey]*FontInstance
	frame     uint64

	hits, misses, replacements, evictions uint64
}

// NewFontService creates a font service that queues atlas textures on ts.
// It panics if WithParser names an unregistered parser.
func NewFontService(ts *texture.Service, opts ...FontServiceOption) *FontService {
	cfg := defaultFontServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	parser, ok := getParser(cfg.parser)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownParser, cfg.parser).Error())
	}
	return &FontService{
		textures:  ts,
		cfg:       cfg,
		parser:    parser,
		instances: make(map[instanceKey]*FontInstance),
	}
}

// RegisterFont copies data, parses it and appends the font to the registry.
// Parse failures are returned wrapped.
func (s *FontService) RegisterFont(data []byte) (FontHandle, error) {
	return s.register(append([]byte(nil), data...))
}

// RegisterFontShared registers data without copying it. The caller must
// not modify data afterwards; use it for embedded font files.
func (s *FontService) RegisterFontShared(data []byte) (FontHandle, error) {
	return s.register(data)
}

func (s *FontService) register(data []byte) (FontHandle, error) {
	if len(data) == 0 {
		return FontHandle{}, ErrEmptyFontData
	}
	parsed, err := s.parser.Parse(data)
	if err != nil {
		return FontHandle{}, err
	}
	h := FontHandle{idx: uint32(len(s.fonts))}
	s.fonts = append(s.fonts, registeredFont{
		parsed: parsed,
		data:   data,
		name:   parsed.Name(),
	})
	ggui.Logger().Debug("text: font registered", "handle", h.idx, "name", parsed.Name())
	return h, nil
}

// FontName returns the family name of a registered font.
func (s *FontService) FontName(h FontHandle) string {
	return s.font(h).name
}

func (s *FontService) font(h FontHandle) *registeredFont {
	if int(h.idx) >= len(s.fonts) {
		panic(fmt.Sprintf("text: invalid font handle %d", h.idx))
	}
	return &s.fonts[h.idx]
}

// Instance returns the FontInstance for (h, ptSize, scale), creating it on
// first use, and marks it used in the current frame.
//
// It panics if ptSize or scale is not positive or h is not registered.
func (s *FontService) Instance(h FontHandle, ptSize, scale float32) *FontInstance {
	if !(ptSize > 0) {
		panic(fmt.Sprintf("text: invalid point size %v", ptSize))
	}
	if !(scale > 0) {
		panic(fmt.Sprintf("text: invalid scale factor %v", scale))
	}
	key := makeInstanceKey(h, ptSize, scale)
	inst, ok := s.instances[key]
	if !ok {
		inst = newFontInstance(s, s.font(h), ptSize, scale)
		s.instances[key] = inst
		ggui.Logger().Debug("text: font instance created",
			"font", h.idx, "pt", ptSize, "scale", scale, "ppem", inst.ppem)
	}
	inst.lastUsed = s.frame
	return inst
}

// InstanceRequest names one font instance for Instances.
type InstanceRequest struct {
	Font   FontHandle
	PtSize float32
	Scale  float32
}

// Instances resolves several distinct instances at once, for callers that
// draw with more than one font in the same pass. It panics if two requests
// name the same instance.
func (s *FontService) Instances(reqs ...InstanceRequest) []*FontInstance {
	seen := make(map[instanceKey]struct{}, len(reqs))
	out := make([]*FontInstance, len(reqs))
	for i, r := range reqs {
		key := makeInstanceKey(r.Font, r.PtSize, r.Scale)
		if _, dup := seen[key]; dup {
			panic(fmt.Sprintf("text: duplicate font instance request %+v", r))
		}
		seen[key] = struct{}{}
		out[i] = s.Instance(r.Font, r.PtSize, r.Scale)
	}
	return out
}

// Frame returns the current frame number. It starts at 0 and advances on
// every EndFrame.
func (s *FontService) Frame() uint64 {
	return s.frame
}

// EndFrame evicts every instance that has gone IdleFrames frames without
// a lookup, queueing destruction of its atlas pages, and starts the next
// frame.
func (s *FontService) EndFrame() {
	evicted := 0
	for key, inst := range s.instances {
		if s.frame-inst.lastUsed < s.cfg.idleFrames {
			continue
		}
		for _, p := range inst.pages {
			s.textures.Destroy(p.handle)
		}
		delete(s.instances, key)
		evicted++
	}
	s.evictions += uint64(evicted)
	if evicted > 0 {
		ggui.Logger().Debug("text: evicted unused font instances",
			"count", evicted, "frame", s.frame, "stats", s.Stats())
	}
	s.frame++
}

// Stats returns glyph cache statistics.
func (s *FontService) Stats() FontServiceStats {
	st := FontServiceStats{
		Fonts:        len(s.fonts),
		Instances:    len(s.instances),
		Hits:         s.hits,
		Misses:       s.misses,
		Replacements: s.replacements,
		Evictions:    s.evictions,
	}
	for _, inst := range s.instances {
		st.Pages += len(inst.pages)
		st.Glyphs += len(inst.glyphs)
	}
	return st
}
