package sprig

import (
	"github.com/db47h/sprig/gpu"
	"github.com/pkg/errors"
)

// A RenderGroup accumulates the quads of one material (shader program) and
// draws them with a single indexed draw call.
type RenderGroup struct {
	dev      gpu.Device
	program  gpu.Program
	vb       gpu.VertexBuffer
	ib       gpu.IndexBuffer
	va       gpu.VertexArray
	commands []RenderCommand
	vertices []Vertex
	indices  []uint32
}

func newRenderGroup(dev gpu.Device, vertex, fragment []byte) (g *RenderGroup, err error) {
	g = &RenderGroup{dev: dev}
	defer func() {
		if err != nil {
			g.Close()
			g = nil
		}
	}()
	if g.program, err = dev.NewProgram(vertex, fragment); err != nil {
		return g, errors.Wrap(err, "create render group program")
	}
	if g.vb, err = dev.NewVertexBuffer(); err != nil {
		return g, errors.Wrap(err, "create render group vertex buffer")
	}
	if g.ib, err = dev.NewIndexBuffer(); err != nil {
		return g, errors.Wrap(err, "create render group index buffer")
	}
	if g.va, err = dev.NewVertexArray(g.vb, g.ib, VertexLayout); err != nil {
		return g, errors.Wrap(err, "create render group vertex array")
	}
	return g, nil
}

// Push appends cmd to the group. The command's indices are rebased to point
// at the command's own vertices once linearized. Indices are not validated.
func (g *RenderGroup) Push(cmd RenderCommand) {
	base := uint32(len(g.commands)) * uint32(len(cmd.Vertices))
	for i := range cmd.Indices {
		cmd.Indices[i] += base
	}
	g.commands = append(g.commands, cmd)
}

// Clear drops all pending commands.
func (g *RenderGroup) Clear() {
	g.commands = g.commands[:0]
}

// Len returns the number of pending commands.
func (g *RenderGroup) Len() int { return len(g.commands) }

// Commands returns the pending commands in push order. The slice must not be
// modified and is only valid until the next call to Push or Clear.
func (g *RenderGroup) Commands() []RenderCommand { return g.commands }

// Program returns the group's shader program.
func (g *RenderGroup) Program() gpu.Program { return g.program }

func (g *RenderGroup) linearize() {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	for i := range g.commands {
		c := &g.commands[i]
		g.vertices = append(g.vertices, c.Vertices[:]...)
		g.indices = append(g.indices, c.Indices[:]...)
	}
}

// flush draws the pending commands with the given projection and texture
// bindings, then clears the group. It reports whether a draw call was issued.
func (g *RenderGroup) flush(proj *[16]float32, bindings ...gpu.Binding) bool {
	if len(g.commands) == 0 {
		return false
	}
	g.linearize()
	g.vb.Upload(g.vertices)
	g.ib.Upload(g.indices)
	g.program.SetMat4("uProjection", proj)
	g.dev.DrawIndexed(g.program, g.va, bindings...)
	g.Clear()
	return true
}

// Close releases the group's GPU resources.
func (g *RenderGroup) Close() {
	if g.va != nil {
		g.va.Delete()
		g.va = nil
	}
	if g.ib != nil {
		g.ib.Delete()
		g.ib = nil
	}
	if g.vb != nil {
		g.vb.Delete()
		g.vb = nil
	}
	if g.program != nil {
		g.program.Delete()
		g.program = nil
	}
}
