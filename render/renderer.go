// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"log/slog"

	"github.com/gogpu/ggui/drawbuf"
	"github.com/gogpu/ggui/texture"
)

// Rendering errors.
var (
	// ErrNilTarget is returned when Render is called without a target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrNotCPUTarget is returned when a CPU renderer receives a target
	// without pixel access.
	ErrNotCPUTarget = errors.New("render: target does not support CPU rendering")

	// ErrNotGPUTarget is returned when a GPU renderer receives a target
	// without a texture view.
	ErrNotGPUTarget = errors.New("render: target does not support GPU rendering")

	// ErrNilDevice is returned when a GPU renderer is created without a
	// usable HAL device and queue.
	ErrNilDevice = errors.New("render: device handle does not expose a HAL device and queue")
)

// TextureSource is the queue of texture commands a renderer applies in
// Sync. *texture.Service implements it.
type TextureSource interface {
	Pop() (texture.Command, bool)
}

// Renderer executes draw lists against a render target.
//
// Sync must be called once per frame before Render so that every texture
// referenced by the draw lists exists with its latest contents.
//
// Renderers are NOT thread-safe.
type Renderer interface {
	// Sync drains src, applying creates, updates and destroys in order.
	Sync(src TextureSource) error

	// Render draws the layers in order. Each command draws its index range
	// restricted to its clip rectangle; a degenerate clip draws nothing.
	Render(target RenderTarget, layers ...*drawbuf.Data) error

	// Flush waits until all submitted work is complete.
	Flush() error
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsExternalTextures indicates if external texture references
	// can be registered.
	SupportsExternalTextures bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can
// report their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}

// Stats counts renderer work since creation.
type Stats struct {
	Frames      uint64
	Commands    uint64
	Batches     uint64
	Triangles   uint64
	Culled      uint64
	Textures    int
	Uploads     uint64
	UploadBytes uint64
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frames", s.Frames),
		slog.Uint64("commands", s.Commands),
		slog.Uint64("batches", s.Batches),
		slog.Uint64("triangles", s.Triangles),
		slog.Uint64("culled", s.Culled),
		slog.Int("textures", s.Textures),
		slog.Uint64("uploads", s.Uploads),
		slog.Uint64("upload_bytes", s.UploadBytes),
	)
}

// drainTextures pops every pending command from src and hands it to
// apply. Errors do not stop the drain; they are joined and returned.
func drainTextures(src TextureSource, apply func(texture.Command) error) error {
	if src == nil {
		return nil
	}
	var errs []error
	for {
		cmd, ok := src.Pop()
		if !ok {
			return errors.Join(errs...)
		}
		if err := apply(cmd); err != nil {
			errs = append(errs, err)
		}
	}
}
