// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNewPixmapTarget(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small", 100, 100},
		{"wide", 1000, 100},
		{"tall", 100, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewPixmapTarget(tt.width, tt.height)

			if target.Width() != tt.width {
				t.Errorf("Width() = %d, want %d", target.Width(), tt.width)
			}
			if target.Height() != tt.height {
				t.Errorf("Height() = %d, want %d", target.Height(), tt.height)
			}
			if target.Format() != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("Format() = %v, want RGBA8Unorm", target.Format())
			}
			if target.TextureView() != nil {
				t.Error("TextureView() should be nil for CPU target")
			}
			if len(target.Pixels()) != tt.width*tt.height*4 {
				t.Errorf("len(Pixels()) = %d, want %d", len(target.Pixels()), tt.width*tt.height*4)
			}
			if target.Stride() != tt.width*4 {
				t.Errorf("Stride() = %d, want %d", target.Stride(), tt.width*4)
			}
		})
	}
}

func TestPixmapTargetFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))
	img.SetRGBA(50, 50, color.RGBA{255, 0, 0, 255})

	target := NewPixmapTargetFromImage(img)
	if target.Width() != 200 || target.Height() != 150 {
		t.Errorf("size = %dx%d, want 200x150", target.Width(), target.Height())
	}
	if got := target.Image().RGBAAt(50, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("RGBAAt(50, 50) = %v, want red", got)
	}
}

func TestPixmapTargetClear(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want color.RGBA
	}{
		{"opaque", color.RGBA{0, 0, 255, 255}, color.RGBA{0, 0, 255, 255}},
		{"transparent", color.Transparent, color.RGBA{}},
		{"straight alpha", color.NRGBA{255, 0, 0, 128}, color.RGBA{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewPixmapTarget(7, 5)
			target.Image().SetRGBA(3, 3, color.RGBA{1, 2, 3, 4})
			target.Clear(tt.c)
			img := target.Image()
			for y := 0; y < 5; y++ {
				for x := 0; x < 7; x++ {
					if got := img.RGBAAt(x, y); got != tt.want {
						t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, tt.want)
					}
				}
			}
		})
	}
}

func TestPixmapTargetResize(t *testing.T) {
	target := NewPixmapTarget(100, 100)
	target.Image().SetRGBA(50, 50, color.RGBA{255, 0, 0, 255})

	target.Resize(200, 150)

	if target.Width() != 200 || target.Height() != 150 {
		t.Errorf("size = %dx%d, want 200x150", target.Width(), target.Height())
	}
	if px := target.Image().RGBAAt(50, 50); px.A != 0 {
		t.Errorf("pixel after resize should be transparent, got %v", px)
	}
}

func TestTextureTarget(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	target, err := NewTextureTarget(device, 512, 256, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("NewTextureTarget() error = %v", err)
	}
	defer target.Destroy()

	if target.Width() != 512 || target.Height() != 256 {
		t.Errorf("size = %dx%d, want 512x256", target.Width(), target.Height())
	}
	if target.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", target.Format())
	}
	if target.TextureView() == nil {
		t.Error("TextureView() should not be nil for GPU target")
	}
	if target.Pixels() != nil {
		t.Error("Pixels() should be nil for GPU target")
	}
	if target.Stride() != 0 {
		t.Errorf("Stride() = %d, want 0 for GPU target", target.Stride())
	}
}

func TestTextureTargetNilDevice(t *testing.T) {
	if _, err := NewTextureTarget(nil, 16, 16, gputypes.TextureFormatRGBA8Unorm); err == nil {
		t.Error("NewTextureTarget(nil) should fail")
	}
}

func TestSurfaceTarget(t *testing.T) {
	target := NewSurfaceTarget(800, 600, gputypes.TextureFormatBGRA8Unorm, nil)

	if target.Width() != 800 || target.Height() != 600 {
		t.Errorf("size = %dx%d, want 800x600", target.Width(), target.Height())
	}
	if target.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want BGRA8Unorm", target.Format())
	}
	if target.Pixels() != nil {
		t.Error("Pixels() should be nil for surface target")
	}
}
