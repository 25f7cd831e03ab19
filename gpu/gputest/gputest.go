// Package gputest provides a gpu.Device that records resource creation and
// draw calls in memory. It is meant for tests and headless runs.
package gputest

import (
	"image"
	"reflect"

	"github.com/db47h/sprig/gpu"
	"github.com/pkg/errors"
)

// DrawCall is a recorded DrawIndexed call. Vertices and Indices are copies of
// the buffer contents at the time of the call.
type DrawCall struct {
	Program  *Program
	Vertices interface{}
	Indices  []uint32
	Bindings []gpu.Binding
	Uniforms map[string]interface{}
}

// Device is a recording gpu.Device. The zero value is ready to use and reports
// 64 texture units.
type Device struct {
	// Units overrides the value returned by MaxTextureUnits when > 0.
	Units int
	// ProgramErr, if set, is returned by NewProgram.
	ProgramErr error
	// TextureErr, if set, is returned by NewTexture.
	TextureErr error

	Calls     []DrawCall
	Programs  []*Program
	Textures  []*Texture
	Clears    int
	ClearRGBA [4]float32
	nextID    uint32
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

// NewProgram implements gpu.Device.
func (d *Device) NewProgram(vertex, fragment []byte) (gpu.Program, error) {
	if d.ProgramErr != nil {
		return nil, errors.Wrap(d.ProgramErr, "link program")
	}
	if len(vertex) == 0 || len(fragment) == 0 {
		return nil, errors.New("empty shader source")
	}
	p := &Program{
		ID:       d.id(),
		Vertex:   string(vertex),
		Fragment: string(fragment),
		Uniforms: make(map[string]interface{}),
	}
	d.Programs = append(d.Programs, p)
	return p, nil
}

// NewVertexBuffer implements gpu.Device.
func (d *Device) NewVertexBuffer() (gpu.VertexBuffer, error) {
	return &VertexBuffer{ID: d.id()}, nil
}

// NewIndexBuffer implements gpu.Device.
func (d *Device) NewIndexBuffer() (gpu.IndexBuffer, error) {
	return &IndexBuffer{ID: d.id()}, nil
}

// NewVertexArray implements gpu.Device.
func (d *Device) NewVertexArray(vb gpu.VertexBuffer, ib gpu.IndexBuffer, layout gpu.Layout) (gpu.VertexArray, error) {
	v, ok := vb.(*VertexBuffer)
	if !ok {
		return nil, errors.Errorf("foreign vertex buffer %T", vb)
	}
	i, ok := ib.(*IndexBuffer)
	if !ok {
		return nil, errors.Errorf("foreign index buffer %T", ib)
	}
	if len(layout) == 0 {
		return nil, errors.New("empty vertex layout")
	}
	return &VertexArray{ID: d.id(), VB: v, IB: i, Layout: layout}, nil
}

// NewTexture implements gpu.Device.
func (d *Device) NewTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if d.TextureErr != nil {
		return nil, d.TextureErr
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, errors.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	n := desc.Width * desc.Height * desc.Format.BytesPerPixel()
	pix := make([]byte, n)
	if desc.Pix != nil {
		if len(desc.Pix) < n {
			return nil, errors.Errorf("texture data too short: %d < %d", len(desc.Pix), n)
		}
		copy(pix, desc.Pix)
	}
	t := &Texture{id: d.id(), desc: desc, Pix: pix}
	t.desc.Pix = nil
	d.Textures = append(d.Textures, t)
	return t, nil
}

// DrawIndexed implements gpu.Device.
func (d *Device) DrawIndexed(p gpu.Program, va gpu.VertexArray, bindings ...gpu.Binding) {
	prog := p.(*Program)
	v := va.(*VertexArray)
	c := DrawCall{
		Program:  prog,
		Vertices: v.VB.Data,
		Indices:  append([]uint32(nil), v.IB.Data...),
		Bindings: append([]gpu.Binding(nil), bindings...),
		Uniforms: make(map[string]interface{}, len(prog.Uniforms)),
	}
	for k, u := range prog.Uniforms {
		c.Uniforms[k] = u
	}
	d.Calls = append(d.Calls, c)
}

// Clear implements gpu.Device.
func (d *Device) Clear() { d.Clears++ }

// ClearColor implements gpu.Device.
func (d *Device) ClearColor(r, g, b, a float32) {
	d.ClearRGBA = [4]float32{r, g, b, a}
}

// MaxTextureUnits implements gpu.Device.
func (d *Device) MaxTextureUnits() int {
	if d.Units > 0 {
		return d.Units
	}
	return 64
}

// CallsTo returns the recorded draw calls that used program p.
func (d *Device) CallsTo(p gpu.Program) []DrawCall {
	var cs []DrawCall
	for _, c := range d.Calls {
		if c.Program == p {
			cs = append(cs, c)
		}
	}
	return cs
}

// Reset discards recorded draw calls.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

// Program is a recorded gpu.Program.
type Program struct {
	ID       uint32
	Vertex   string
	Fragment string
	Uniforms map[string]interface{}
	Deleted  bool
}

// SetMat4 implements gpu.Program.
func (p *Program) SetMat4(name string, m *[16]float32) {
	p.Uniforms[name] = *m
}

// SetInts implements gpu.Program.
func (p *Program) SetInts(name string, v []int32) {
	p.Uniforms[name] = append([]int32(nil), v...)
}

// Delete implements gpu.Program.
func (p *Program) Delete() { p.Deleted = true }

// VertexBuffer is a recorded gpu.VertexBuffer. Data holds a copy of the last
// uploaded slice.
type VertexBuffer struct {
	ID      uint32
	Data    interface{}
	Uploads int
	Deleted bool
}

// Upload implements gpu.VertexBuffer.
func (b *VertexBuffer) Upload(data interface{}) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		panic(errors.Errorf("gputest: Upload of non-slice type %T", data))
	}
	cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(cp, v)
	b.Data = cp.Interface()
	b.Uploads++
}

// Delete implements gpu.VertexBuffer.
func (b *VertexBuffer) Delete() { b.Deleted = true }

// IndexBuffer is a recorded gpu.IndexBuffer.
type IndexBuffer struct {
	ID      uint32
	Data    []uint32
	Deleted bool
}

// Upload implements gpu.IndexBuffer.
func (b *IndexBuffer) Upload(indices []uint32) {
	b.Data = append(b.Data[:0], indices...)
}

// Count implements gpu.IndexBuffer.
func (b *IndexBuffer) Count() int { return len(b.Data) }

// Delete implements gpu.IndexBuffer.
func (b *IndexBuffer) Delete() { b.Deleted = true }

// VertexArray is a recorded gpu.VertexArray.
type VertexArray struct {
	ID      uint32
	VB      *VertexBuffer
	IB      *IndexBuffer
	Layout  gpu.Layout
	Deleted bool
}

// Delete implements gpu.VertexArray.
func (va *VertexArray) Delete() { va.Deleted = true }

// Texture is an in-memory gpu.Texture.
type Texture struct {
	id      uint32
	desc    gpu.TextureDesc
	Pix     []byte
	Deleted bool
}

// Desc returns the descriptor the texture was created with (without pixels).
func (t *Texture) Desc() gpu.TextureDesc { return t.desc }

// ID implements gpu.Texture.
func (t *Texture) ID() uint32 { return t.id }

// Size implements gpu.Texture.
func (t *Texture) Size() image.Point { return image.Pt(t.desc.Width, t.desc.Height) }

// Format implements gpu.Texture.
func (t *Texture) Format() gpu.Format { return t.desc.Format }

// SetSubImage implements gpu.Texture.
func (t *Texture) SetSubImage(dr image.Rectangle, pix []byte) {
	bpp := t.desc.Format.BytesPerPixel()
	stride := dr.Dx() * bpp
	r := dr.Intersect(image.Rect(0, 0, t.desc.Width, t.desc.Height))
	w := r.Dx() * bpp
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := (y-dr.Min.Y)*stride + (r.Min.X-dr.Min.X)*bpp
		dst := (y*t.desc.Width + r.Min.X) * bpp
		copy(t.Pix[dst:dst+w], pix[src:src+w])
	}
}

// At returns the bytes of the pixel at (x, y).
func (t *Texture) At(x, y int) []byte {
	bpp := t.desc.Format.BytesPerPixel()
	o := (y*t.desc.Width + x) * bpp
	return t.Pix[o : o+bpp]
}

// Delete implements gpu.Texture.
func (t *Texture) Delete() { t.Deleted = true }
