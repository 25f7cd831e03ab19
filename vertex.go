package sprig

import "github.com/db47h/sprig/gpu"

// NoTexture is the texture slot of vertices that are not textured.
const NoTexture = -1

// Vertex is the vertex format shared by all render groups. Its memory layout
// matches VertexLayout.
type Vertex struct {
	Position Point
	Color    Color
	TexCoord Point
	Slot     int32
}

// VertexLayout is the attribute layout of Vertex.
var VertexLayout = gpu.Layout{
	{Name: "aPosition", Kind: gpu.Float32, Count: 2},
	{Name: "aColor", Kind: gpu.Float32, Count: 4},
	{Name: "aTexCoord", Kind: gpu.Float32, Count: 2},
	{Name: "aSlot", Kind: gpu.Int32, Count: 1},
}

// A RenderCommand is one quad: two triangles over four vertices. Indices are
// relative to the command (0..3) until the command is pushed to a RenderGroup.
type RenderCommand struct {
	Vertices [4]Vertex
	Indices  [6]uint32
}

// vertices are top-left, bottom-left, bottom-right, top-right.
var quadIndices = [6]uint32{0, 1, 2, 2, 0, 3}

// quad returns the command for the extent e. uv holds u0, v0, u1, v1, with v0
// mapped to the top edge.
func quad(e Extent, uv [4]float32, c Color, slot int32) RenderCommand {
	x0, y0 := e.Pos.X, e.Pos.Y
	x1, y1 := x0+e.Size.X, y0+e.Size.Y
	return RenderCommand{
		Vertices: [4]Vertex{
			{Position: Point{x0, y0}, Color: c, TexCoord: Point{uv[0], uv[1]}, Slot: slot},
			{Position: Point{x0, y1}, Color: c, TexCoord: Point{uv[0], uv[3]}, Slot: slot},
			{Position: Point{x1, y1}, Color: c, TexCoord: Point{uv[2], uv[3]}, Slot: slot},
			{Position: Point{x1, y0}, Color: c, TexCoord: Point{uv[2], uv[1]}, Slot: slot},
		},
		Indices: quadIndices,
	}
}
