// Package gpu defines the capabilities the renderer needs from a GPU API.
//
// Implementations hold every handle explicitly: there is no ambient "currently
// bound" object in this API. Binding and unbinding are scoped inside the
// operations that need them (uploads, DrawIndexed).
package gpu

import "image"

// A Device creates GPU resources and issues draw calls. All methods must be
// called from the goroutine that owns the GPU context.
type Device interface {
	// NewProgram compiles and links a program from vertex and fragment
	// shader sources. Compilation and link errors carry the driver's info log.
	NewProgram(vertex, fragment []byte) (Program, error)
	NewVertexBuffer() (VertexBuffer, error)
	NewIndexBuffer() (IndexBuffer, error)
	// NewVertexArray binds the attribute layout of vb and associates ib with
	// it. The vertex array references the buffers but does not own them.
	NewVertexArray(vb VertexBuffer, ib IndexBuffer, layout Layout) (VertexArray, error)
	NewTexture(desc TextureDesc) (Texture, error)

	// DrawIndexed draws the content of va's index buffer as a triangle list
	// with the given textures bound. Bindings are released before returning.
	DrawIndexed(p Program, va VertexArray, bindings ...Binding)

	Clear()
	ClearColor(r, g, b, a float32)

	// MaxTextureUnits returns the number of texture units usable from a
	// fragment shader.
	MaxTextureUnits() int
}

// Program is a linked shader program.
type Program interface {
	SetMat4(name string, m *[16]float32)
	SetInts(name string, v []int32)
	Delete()
}

// VertexBuffer holds vertex data.
type VertexBuffer interface {
	// Upload replaces the buffer content with the elements of data, which
	// must be a slice of fixed size values.
	Upload(data interface{})
	Delete()
}

// IndexBuffer holds 32 bits vertex indices.
type IndexBuffer interface {
	Upload(indices []uint32)
	// Count returns the number of indices in the last upload.
	Count() int
	Delete()
}

// VertexArray binds a vertex buffer layout and an index buffer.
type VertexArray interface {
	Delete()
}

// Binding binds a texture to a texture unit for the duration of a draw call.
type Binding struct {
	Unit    int
	Texture Texture
}

// Texture is a 2D texture.
type Texture interface {
	// ID returns the native identifier of the texture. IDs are unique among
	// live textures of a Device.
	ID() uint32
	Size() image.Point
	Format() Format
	// SetSubImage replaces the pixels in dr with pix. Rows in pix are tightly
	// packed, Format().BytesPerPixel() bytes per pixel.
	SetSubImage(dr image.Rectangle, pix []byte)
	Delete()
}
