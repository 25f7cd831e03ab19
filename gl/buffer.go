package gl

import (
	"reflect"

	gogl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/db47h/sprig/gpu"
)

type vertexBuffer struct {
	id uint32
}

// NewVertexBuffer implements gpu.Device.
func (d *Device) NewVertexBuffer() (gpu.VertexBuffer, error) {
	b := new(vertexBuffer)
	gogl.GenBuffers(1, &b.id)
	if b.id == 0 {
		return nil, errors.New("glGenBuffers failed")
	}
	return b, nil
}

func (b *vertexBuffer) Upload(data interface{}) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		panic(errors.Errorf("gl: Upload of non-slice type %T", data))
	}
	if v.Len() == 0 {
		return
	}
	size := v.Len() * int(v.Type().Elem().Size())
	gogl.BindBuffer(gogl.ARRAY_BUFFER, b.id)
	gogl.BufferData(gogl.ARRAY_BUFFER, size, gogl.Ptr(data), gogl.DYNAMIC_DRAW)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, 0)
}

func (b *vertexBuffer) Delete() {
	gogl.DeleteBuffers(1, &b.id)
}

type indexBuffer struct {
	id    uint32
	count int
}

// NewIndexBuffer implements gpu.Device.
func (d *Device) NewIndexBuffer() (gpu.IndexBuffer, error) {
	b := new(indexBuffer)
	gogl.GenBuffers(1, &b.id)
	if b.id == 0 {
		return nil, errors.New("glGenBuffers failed")
	}
	return b, nil
}

// Upload goes through the ARRAY_BUFFER target: the element array binding is
// vertex array state and must not be disturbed.
func (b *indexBuffer) Upload(indices []uint32) {
	b.count = len(indices)
	if len(indices) == 0 {
		return
	}
	gogl.BindBuffer(gogl.ARRAY_BUFFER, b.id)
	gogl.BufferData(gogl.ARRAY_BUFFER, len(indices)*4, gogl.Ptr(indices), gogl.DYNAMIC_DRAW)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, 0)
}

func (b *indexBuffer) Count() int { return b.count }

func (b *indexBuffer) Delete() {
	gogl.DeleteBuffers(1, &b.id)
}

type vertexArray struct {
	id uint32
	vb *vertexBuffer
	ib *indexBuffer
}

// NewVertexArray implements gpu.Device. Attribute i of layout is bound to
// location i; integer attributes are bound with glVertexAttribIPointer.
func (d *Device) NewVertexArray(vb gpu.VertexBuffer, ib gpu.IndexBuffer, layout gpu.Layout) (gpu.VertexArray, error) {
	v, ok := vb.(*vertexBuffer)
	if !ok {
		return nil, errors.Errorf("foreign vertex buffer %T", vb)
	}
	i, ok := ib.(*indexBuffer)
	if !ok {
		return nil, errors.Errorf("foreign index buffer %T", ib)
	}
	va := &vertexArray{vb: v, ib: i}
	gogl.GenVertexArrays(1, &va.id)
	if va.id == 0 {
		return nil, errors.New("glGenVertexArrays failed")
	}
	gogl.BindVertexArray(va.id)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, v.id)
	gogl.BindBuffer(gogl.ELEMENT_ARRAY_BUFFER, i.id)

	stride := int32(layout.Stride())
	for n, off := range layout.Offsets() {
		a := layout[n]
		gogl.EnableVertexAttribArray(uint32(n))
		switch a.Kind {
		case gpu.Float32:
			gogl.VertexAttribPointerWithOffset(uint32(n), int32(a.Count), gogl.FLOAT, false, stride, uintptr(off))
		case gpu.Int32:
			gogl.VertexAttribIPointer(uint32(n), int32(a.Count), gogl.INT, stride, gogl.PtrOffset(off))
		}
	}
	gogl.BindVertexArray(0)
	gogl.BindBuffer(gogl.ARRAY_BUFFER, 0)
	gogl.BindBuffer(gogl.ELEMENT_ARRAY_BUFFER, 0)
	return va, nil
}

func (va *vertexArray) Delete() {
	gogl.DeleteVertexArrays(1, &va.id)
}
