// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/gogpu/ggui"
	"github.com/gogpu/ggui/drawbuf"
	"github.com/gogpu/ggui/geom"
	"github.com/gogpu/ggui/texture"
)

// softTexture is a CPU copy of a texture. Single-channel textures hold
// coverage; four-channel textures hold straight-alpha RGBA.
type softTexture struct {
	w, h int
	bpp  int
	pix  []byte
}

// sample returns the nearest texel at normalized (u, v) as straight RGBA.
func (t *softTexture) sample(u, v float32) (r, g, b, a float32) {
	x := min(max(int(u*float32(t.w)), 0), t.w-1)
	y := min(max(int(v*float32(t.h)), 0), t.h-1)
	if t.bpp == 1 {
		return 255, 255, 255, float32(t.pix[y*t.w+x])
	}
	o := (y*t.w + x) * 4
	return float32(t.pix[o]), float32(t.pix[o+1]), float32(t.pix[o+2]), float32(t.pix[o+3])
}

// SoftwareRenderer rasterizes draw lists on the CPU into a PixmapTarget.
//
// Triangles are filled by pixel-center sampling with a top-left rule, so
// the two triangles of a quad never both cover a pixel on their shared
// edge. Coverage textures modulate vertex alpha; RGBA textures modulate
// all channels. Rounded commands scale alpha by the corner mask at each
// pixel center. Blending is source-over onto the premultiplied target.
type SoftwareRenderer struct {
	textures map[texture.Handle]*softTexture
	external map[uint32]*softTexture
	stats    Stats
}

// NewSoftwareRenderer creates a new CPU-based software renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{
		textures: make(map[texture.Handle]*softTexture),
		external: make(map[uint32]*softTexture),
	}
}

// Sync applies every pending texture command from src.
func (r *SoftwareRenderer) Sync(src TextureSource) error {
	err := drainTextures(src, r.apply)
	r.stats.Textures = len(r.textures)
	return err
}

func (r *SoftwareRenderer) apply(cmd texture.Command) error {
	switch cmd.Kind {
	case texture.CommandCreate:
		bpp := texture.BytesPerPixel(cmd.Desc.Format)
		r.textures[cmd.Handle] = &softTexture{
			w:   cmd.Desc.Width,
			h:   cmd.Desc.Height,
			bpp: bpp,
			pix: make([]byte, cmd.Desc.Width*cmd.Desc.Height*bpp),
		}
	case texture.CommandUpdate:
		t, ok := r.textures[cmd.Handle]
		if !ok {
			return fmt.Errorf("render: update texture %d: %w", cmd.Handle, texture.ErrUnknownHandle)
		}
		reg := cmd.Region
		if !reg.Within(t.w, t.h) {
			return fmt.Errorf("render: update texture %d: %v outside %dx%d", cmd.Handle, reg, t.w, t.h)
		}
		row := reg.W * t.bpp
		for y := 0; y < reg.H; y++ {
			dst := ((reg.Y+y)*t.w + reg.X) * t.bpp
			copy(t.pix[dst:dst+row], cmd.Data[y*row:(y+1)*row])
		}
		r.stats.Uploads++
		r.stats.UploadBytes += uint64(len(cmd.Data))
	case texture.CommandDestroy:
		if _, ok := r.textures[cmd.Handle]; !ok {
			return fmt.Errorf("render: destroy texture %d: %w", cmd.Handle, texture.ErrUnknownHandle)
		}
		delete(r.textures, cmd.Handle)
	default:
		return fmt.Errorf("render: unknown texture command %v", cmd.Kind)
	}
	return nil
}

// RegisterExternal makes img available to commands whose texture is
// texture.External(id). The image is copied.
func (r *SoftwareRenderer) RegisterExternal(id uint32, img image.Image) {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	r.external[id] = &softTexture{w: b.Dx(), h: b.Dy(), bpp: 4, pix: dst.Pix}
}

// UnregisterExternal forgets the external texture id.
func (r *SoftwareRenderer) UnregisterExternal(id uint32) {
	delete(r.external, id)
}

// HasTexture reports whether h has been created and not destroyed.
func (r *SoftwareRenderer) HasTexture(h texture.Handle) bool {
	_, ok := r.textures[h]
	return ok
}

func (r *SoftwareRenderer) lookup(ref texture.Ref) (*softTexture, error) {
	switch ref.Kind {
	case texture.KindNone:
		return nil, nil
	case texture.KindInternal:
		if t, ok := r.textures[texture.Handle(ref.ID)]; ok {
			return t, nil
		}
	case texture.KindExternal:
		if t, ok := r.external[ref.ID]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("render: %v: %w", ref, texture.ErrUnknownHandle)
}

// Render draws the layers to the target in order.
func (r *SoftwareRenderer) Render(target RenderTarget, layers ...*drawbuf.Data) error {
	if target == nil {
		return ErrNilTarget
	}
	pixels := target.Pixels()
	if pixels == nil {
		return ErrNotCPUTarget
	}
	r.stats.Frames++

	full := geom.R(0, 0, float32(target.Width()), float32(target.Height()))
	stride := target.Stride()
	for _, d := range layers {
		if d == nil {
			continue
		}
		for _, cmd := range d.Commands {
			r.stats.Commands++
			clip := full
			if cmd.HasClip {
				clip = clip.Intersect(cmd.Clip)
			}
			if clip.Empty() {
				r.stats.Culled++
				continue
			}
			tex, err := r.lookup(cmd.Texture)
			if err != nil {
				return err
			}
			r.stats.Batches++
			var mask *drawbuf.RoundedRect
			if rr, ok := cmd.RoundedRect(); ok {
				mask = &rr
			}
			start, end := cmd.IndexRange()
			for i := start; i+3 <= end; i += 3 {
				r.stats.Triangles++
				fillTriangle(pixels, stride, clip, tex, mask,
					d.Vertices[d.Indices[i]], d.Vertices[d.Indices[i+1]], d.Vertices[d.Indices[i+2]])
			}
		}
	}
	ggui.Logger().Debug("software render", "layers", len(layers), "stats", r.stats)
	return nil
}

// Flush is a no-op; rendering is synchronous.
func (r *SoftwareRenderer) Flush() error {
	return nil
}

// Stats returns counters accumulated since creation.
func (r *SoftwareRenderer) Stats() Stats {
	return r.stats
}

// Capabilities returns the renderer's capabilities.
func (r *SoftwareRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:                    false,
		SupportsExternalTextures: true,
		MaxTextureSize:           0,
	}
}

func edge(a, b, p geom.Vec2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// covers applies the top-left rule to a pixel center lying exactly on
// edge a→b of a positively oriented triangle.
func covers(w float32, a, b geom.Vec2) bool {
	if w != 0 {
		return w > 0
	}
	d := b.Sub(a)
	return d.Y < 0 || (d.Y == 0 && d.X > 0)
}

func fillTriangle(pix []byte, stride int, clip geom.Rect, tex *softTexture, mask *drawbuf.RoundedRect, v0, v1, v2 drawbuf.Vertex) {
	p0, p1, p2 := v0.Pos, v1.Pos, v2.Pos
	area := edge(p0, p1, p2)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		p1, p2 = p2, p1
		area = -area
	}

	bounds := geom.EmptyBounds().Extend(p0).Extend(p1).Extend(p2).Intersect(clip)
	if bounds.Empty() {
		return
	}
	x0, y0 := int(math32.Floor(bounds.Min.X)), int(math32.Floor(bounds.Min.Y))
	x1, y1 := int(math32.Ceil(bounds.Max.X)), int(math32.Ceil(bounds.Max.Y))

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := geom.V2(float32(x)+0.5, float32(y)+0.5)
			if !clip.Contains(p) {
				continue
			}
			w0, w1, w2 := edge(p1, p2, p), edge(p2, p0, p), edge(p0, p1, p)
			if !covers(w0, p1, p2) || !covers(w1, p2, p0) || !covers(w2, p0, p1) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			sr, sg, sb, sa := interpolate(v0.Color, v1.Color, v2.Color, b0, b1, b2)
			if tex != nil {
				u := v0.UV.X*b0 + v1.UV.X*b1 + v2.UV.X*b2
				v := v0.UV.Y*b0 + v1.UV.Y*b1 + v2.UV.Y*b2
				tr, tg, tb, ta := tex.sample(u, v)
				sr, sg, sb, sa = sr*tr/255, sg*tg/255, sb*tb/255, sa*ta/255
			}
			if mask != nil {
				sa *= mask.Coverage(p)
			}
			blendOver(pix[y*stride+x*4:], sr, sg, sb, sa)
		}
	}
}

func interpolate(c0, c1, c2 geom.RGBA8, b0, b1, b2 float32) (r, g, b, a float32) {
	mix := func(x0, x1, x2 uint8) float32 {
		return float32(x0)*b0 + float32(x1)*b1 + float32(x2)*b2
	}
	return mix(c0.R, c1.R, c2.R), mix(c0.G, c1.G, c2.G), mix(c0.B, c1.B, c2.B), mix(c0.A, c1.A, c2.A)
}

// blendOver composites a straight-alpha source onto a premultiplied
// destination pixel.
func blendOver(dst []byte, r, g, b, a float32) {
	if a <= 0 {
		return
	}
	alpha := min(a, 255) / 255
	inv := 1 - alpha
	dst[0] = toByte(r*alpha + float32(dst[0])*inv)
	dst[1] = toByte(g*alpha + float32(dst[1])*inv)
	dst[2] = toByte(b*alpha + float32(dst[2])*inv)
	dst[3] = toByte(alpha*255 + float32(dst[3])*inv)
}

func toByte(v float32) uint8 {
	return uint8(min(max(v+0.5, 0), 255))
}

// Ensure SoftwareRenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*SoftwareRenderer)(nil)
	_ CapableRenderer = (*SoftwareRenderer)(nil)
)
