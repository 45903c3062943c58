// Package ggui provides the drawing core of an immediate-mode GUI toolkit:
// texture-atlas packing, a glyph cache with frame-based eviction, and a
// vertex/index draw list that renderers consume once per frame.
//
// # Overview
//
// The library is organized bottom-up:
//   - atlas: binary-split rectangle packer with merge-on-remove
//   - texture: texture handle allocation and a FIFO create/update/destroy queue
//   - font: font registry, font instances keyed by (font, size, scale), glyph cache
//   - drawbuf: draw lists with clip, layer and staging scopes, text drawing
//   - render: software reference renderer, wgpu/hal renderer, gpucontext presentation
//
// # Frame Model
//
// Everything is single-threaded and frame-synchronous. A frame looks like:
//
//	inst := fonts.Instance(handle, 14, 2)
//	buf.DrawText(inst, geom.V2(8, 8), "hello", geom.White)
//	fonts.EndFrame()           // evict instances nobody touched
//	renderer.Sync(textures)    // drain create/update/destroy commands
//	renderer.Render(buf.Layers()...)
//	buf.Reset()
//
// # Logging
//
// ggui is silent by default. Call [SetLogger] to route diagnostics to any
// [log/slog] handler.
package ggui
