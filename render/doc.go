// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render executes draw lists produced by package drawbuf.
//
// A frame is presented in two steps. Sync drains a texture command queue
// (normally a *texture.Service) so every texture the draw lists reference
// exists with its latest contents. Render then draws one or more layers
// of drawbuf.Data into a RenderTarget, honoring each command's clip
// rectangle and texture.
//
// # Key Principle
//
// The GPU renderer RECEIVES a device from the host application through a
// DeviceHandle; it never creates its own.
//
// # Renderer Implementations
//
//   - SoftwareRenderer: CPU rasterizer writing into a PixmapTarget
//   - GPURenderer: wgpu/hal pipeline writing into a texture view
//
// # RenderTarget Implementations
//
//   - PixmapTarget: CPU-backed *image.RGBA target
//   - TextureTarget: offscreen GPU texture
//   - SurfaceTarget: host-provided swapchain view
//
// # Presenting to a host window
//
// Canvas pairs a SoftwareRenderer with a PixmapTarget and uploads the
// result through the host's gpucontext.TextureDrawer:
//
//	canvas, _ := render.NewCanvas(800, 600)
//	_ = canvas.Draw(textures, buf.Layers()...)
//	_ = canvas.RenderTo(drawer)
package render
