// Package texture tracks texture handles and queues texture mutations.
//
// A Service hands out handles immediately and records create, update and
// destroy intents as Commands. The renderer drains the queue once per
// frame with Pop and applies the commands to real GPU (or CPU) textures,
// so packing decisions never wait on uploads.
package texture

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Handle identifies a texture owned by a Service. The zero Handle is invalid.
type Handle uint32

// Invalid is the zero handle.
const Invalid Handle = 0

// Desc describes a texture to create.
type Desc struct {
	// Label is an optional debug label passed through to the renderer.
	Label string

	// Format is the pixel format. Only R8Unorm and RGBA8Unorm are supported.
	Format gputypes.TextureFormat

	Width  int
	Height int
}

// BytesPerPixel returns the pixel size for the formats a Service accepts.
// It panics on any other format.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm:
		return 4
	default:
		panic(fmt.Sprintf("texture: unsupported format %v", f))
	}
}

// Validate reports why d cannot be created, or nil.
func (d Desc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.Width, d.Height)
	}
	switch d.Format {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatRGBA8Unorm:
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, d.Format)
	}
}

// Region is a rectangle of texels inside a texture.
type Region struct {
	X, Y int
	W, H int
}

// Within reports whether r lies inside a w×h texture.
func (r Region) Within(w, h int) bool {
	return r.X >= 0 && r.Y >= 0 && r.W >= 0 && r.H >= 0 && r.X+r.W <= w && r.Y+r.H <= h
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Kind tells a renderer how to resolve a Ref.
type Kind uint8

const (
	// KindNone selects the renderer's default 1×1 opaque white texture.
	KindNone Kind = iota

	// KindInternal refers to a texture created through a Service.
	KindInternal

	// KindExternal refers to a texture the application registered with
	// the renderer directly; the ID is passed through untouched.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInternal:
		return "internal"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Ref names the texture a draw command samples. The zero Ref selects the
// default white texture. Refs are comparable so draw lists can batch
// commands that share a texture.
type Ref struct {
	Kind Kind
	ID   uint32
}

// Internal returns a Ref to a Service-owned texture.
func Internal(h Handle) Ref {
	return Ref{Kind: KindInternal, ID: uint32(h)}
}

// External returns a Ref to an application-owned texture.
func External(id uint32) Ref {
	return Ref{Kind: KindExternal, ID: id}
}

// IsNone reports whether r selects the default white texture.
func (r Ref) IsNone() bool { return r.Kind == KindNone }

// Handle returns the internal handle, or false for other kinds.
func (r Ref) Handle() (Handle, bool) {
	if r.Kind != KindInternal {
		return Invalid, false
	}
	return Handle(r.ID), true
}

func (r Ref) String() string {
	if r.Kind == KindNone {
		return "none"
	}
	return fmt.Sprintf("%v(%d)", r.Kind, r.ID)
}
