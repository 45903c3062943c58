// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ggui/drawbuf"
)

// Canvas errors.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("render: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrInvalidRenderer is returned when the draw context has no
	// gpucontext.TextureCreator.
	ErrInvalidRenderer = errors.New("render: draw context has no TextureCreator")
)

// textureDestroyer matches the Destroy method of host textures.
type textureDestroyer interface {
	Destroy()
}

// Canvas rasterizes draw lists on the CPU and presents the result through
// a host's gpucontext.TextureDrawer.
//
// The host texture is created lazily on the first RenderTo and updated in
// place afterwards; it is only re-uploaded when Draw has produced new
// pixels.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	target     *PixmapTarget
	renderer   *SoftwareRenderer
	background color.Color

	texture     gpucontext.Texture
	oldTexture  gpucontext.Texture // replaced texture awaiting destruction
	dirty       bool
	sizeChanged bool
	closed      bool
}

// NewCanvas creates a width×height canvas with a transparent background.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		target:     NewPixmapTarget(width, height),
		renderer:   NewSoftwareRenderer(),
		background: color.Transparent,
		dirty:      true,
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.target.Width() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.target.Height() }

// Target returns the CPU target the canvas draws into.
func (c *Canvas) Target() *PixmapTarget { return c.target }

// Renderer returns the canvas renderer, for registering external textures.
func (c *Canvas) Renderer() *SoftwareRenderer { return c.renderer }

// SetBackground sets the color each Draw starts from.
func (c *Canvas) SetBackground(bg color.Color) {
	c.background = bg
}

// IsDirty reports whether the canvas has pixels not yet presented.
func (c *Canvas) IsDirty() bool { return c.dirty }

// Draw applies pending texture commands from src, clears to the
// background and renders the layers in order. src may be nil.
func (c *Canvas) Draw(src TextureSource, layers ...*drawbuf.Data) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if src != nil {
		if err := c.renderer.Sync(src); err != nil {
			return err
		}
	}
	c.target.Clear(c.background)
	c.dirty = true
	return c.renderer.Render(c.target, layers...)
}

// Resize changes the canvas dimensions and clears it.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.Width() == width && c.Height() == height {
		return nil
	}
	c.target.Resize(width, height)
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// RenderTo presents the canvas at (0, 0).
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition uploads the canvas if needed and draws it at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if c.sizeChanged {
		// The old texture may still be referenced by in-flight frames; it is
		// destroyed once its replacement has been created.
		if c.texture != nil {
			destroyTexture(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	switch {
	case c.texture == nil:
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		tex, err := creator.NewTextureFromRGBA(c.Width(), c.Height(), c.target.Pixels())
		if err != nil {
			return fmt.Errorf("render: canvas texture: %w", err)
		}
		// Canvas pixels are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		destroyTexture(c.oldTexture)
		c.oldTexture = nil
	case c.dirty:
		if updater, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(c.target.Pixels()); err != nil {
				return fmt.Errorf("render: canvas texture update: %w", err)
			}
		}
	}
	c.dirty = false
	return dc.DrawTexture(c.texture, x, y)
}

// Close releases the host textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	destroyTexture(c.oldTexture)
	destroyTexture(c.texture)
	c.oldTexture, c.texture = nil, nil
	return c.renderer.Flush()
}

func destroyTexture(t gpucontext.Texture) {
	if d, ok := t.(textureDestroyer); ok {
		d.Destroy()
	}
}
