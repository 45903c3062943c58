// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// Embedded draw-list shader source.
//
//go:embed shaders/draw.wgsl
var drawShaderSource string

var (
	drawSPIRVOnce sync.Once
	drawSPIRV     []uint32
	drawSPIRVErr  error
)

// compileWGSL compiles WGSL source to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("render: compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("render: compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// drawShaderSPIRV compiles the draw-list shader once per process.
func drawShaderSPIRV() ([]uint32, error) {
	drawSPIRVOnce.Do(func() {
		drawSPIRV, drawSPIRVErr = compileWGSL(drawShaderSource)
	})
	return drawSPIRV, drawSPIRVErr
}
