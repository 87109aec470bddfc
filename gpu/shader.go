// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/xform"
)

//go:embed shaders/transform.wgsl
var transformShaderSource string

// Entry points of the transform shader.
const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// CompileShader compiles WGSL source to SPIR-V words. Compilation failures
// wrap xform.ErrProgram.
func CompileShader(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", xform.ErrProgram, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d is not word aligned", xform.ErrProgram, len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// TransformShaderSource returns the WGSL program used by Renderer.
func TransformShaderSource() string {
	return transformShaderSource
}
