// Package sprig is a small batched 2D renderer.
//
// Between Begin and End, colored quads, textured quads and text are recorded
// into per-material render groups. End uploads each group in one piece and
// issues one draw call per group: quads first, glyphs on top.
//
// All GPU access goes through a gpu.Device. Package gl provides the OpenGL
// implementation and package gpu/gputest a recording fake for tests.
//
// A Renderer must only be used from the goroutine that owns the GPU context.
package sprig

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/db47h/sprig/gpu"
)

// Drawable is implemented by anything that can be drawn from a texture.
// texture.Texture and texture.Region implement it.
type Drawable interface {
	// Texture returns the GPU texture to sample from.
	Texture() gpu.Texture
	// UV returns the normalized texture coordinates u0, v0, u1, v1 of the
	// drawable. v0 maps to the top edge of the destination quad.
	UV() [4]float32
}

// Projection returns the column-major orthographic projection that maps
// (0, 0) to the top-left corner and (width, height) to the bottom-right corner
// of the viewport. Depth is in [-1, 1].
func Projection(width, height int) [16]float32 {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}
