package text

// Default FontService settings.
const (
	// DefaultPageSize is the width and height of a glyph atlas page.
	DefaultPageSize = 512

	// DefaultPageGap is the padding between glyphs on a page.
	DefaultPageGap = 1

	// DefaultIdleFrames is how many frame ends an instance survives untouched.
	DefaultIdleFrames = 1
)

// FontServiceOption configures a FontService.
type FontServiceOption func(*fontServiceConfig)

// fontServiceConfig holds FontService configuration.
type fontServiceConfig struct {
	pageW, pageH  int
	gap           int
	idleFrames    uint64
	internalScale float32
	parser        string
}

func defaultFontServiceConfig() fontServiceConfig {
	return fontServiceConfig{
		pageW:         DefaultPageSize,
		pageH:         DefaultPageSize,
		gap:           DefaultPageGap,
		idleFrames:    DefaultIdleFrames,
		internalScale: 1,
		parser:        defaultParserName,
	}
}

// WithPageSize sets the atlas page dimensions. Glyphs larger than a page
// cannot be rasterized.
func WithPageSize(w, h int) FontServiceOption {
	return func(c *fontServiceConfig) {
		if w > 0 && h > 0 {
			c.pageW, c.pageH = w, h
		}
	}
}

// WithPageGap sets the padding in pixels between glyphs on a page.
func WithPageGap(gap int) FontServiceOption {
	return func(c *fontServiceConfig) {
		if gap >= 0 {
			c.gap = gap
		}
	}
}

// WithIdleFrames sets how many consecutive EndFrame calls an instance may
// go untouched before it is evicted. The minimum is 1.
func WithIdleFrames(n int) FontServiceOption {
	return func(c *fontServiceConfig) {
		if n >= 1 {
			c.idleFrames = uint64(n)
		}
	}
}

// WithInternalScale multiplies the pixel size of every instance. Use it to
// correct fonts whose em square does not match their nominal point size.
func WithInternalScale(s float32) FontServiceOption {
	return func(c *fontServiceConfig) {
		if s > 0 {
			c.internalScale = s
		}
	}
}

// WithParser selects the font parser by registered name.
// The default is "sfnt"; "gotext" uses go-text/typesetting.
func WithParser(name string) FontServiceOption {
	return func(c *fontServiceConfig) {
		c.parser = name
	}
}
