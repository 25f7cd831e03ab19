// Package gl implements gpu.Device on top of OpenGL 4.1 core profile.
//
// A Device must only be used from the goroutine (and OS thread) that owns the
// current OpenGL context.
package gl

import (
	"fmt"
	"log"

	gogl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/db47h/sprig/gpu"
)

// Version of the OpenGL API requested by window drivers.
const (
	VersionMajor = 4
	VersionMinor = 1
)

// Option configures a Device.
type Option interface {
	set(*Device)
}

type optionFunc func(*Device)

func (f optionFunc) set(d *Device) { f(d) }

// Logger sets the logger used to report program link diagnostics.
func Logger(l *log.Logger) Option {
	return optionFunc(func(d *Device) {
		d.log = l
	})
}

// Device is an OpenGL gpu.Device.
type Device struct {
	log      *log.Logger
	maxUnits int
}

var _ gpu.Device = (*Device)(nil)

// NewDevice initializes the OpenGL function pointers for the current context
// and returns a new Device. Alpha blending is enabled for the lifetime of the
// context.
func NewDevice(opts ...Option) (*Device, error) {
	d := new(Device)
	for _, o := range opts {
		o.set(d)
	}
	if err := gogl.Init(); err != nil {
		return nil, errors.Wrap(err, "init OpenGL")
	}
	var units int32
	gogl.GetIntegerv(gogl.MAX_TEXTURE_IMAGE_UNITS, &units)
	d.maxUnits = int(units)

	gogl.Enable(gogl.BLEND)
	gogl.BlendFunc(gogl.SRC_ALPHA, gogl.ONE_MINUS_SRC_ALPHA)
	gogl.Disable(gogl.DEPTH_TEST)
	return d, nil
}

// Version returns the version string of the OpenGL implementation.
func (d *Device) Version() string {
	return fmt.Sprintf("%s %s", gogl.GoStr(gogl.GetString(gogl.VENDOR)), gogl.GoStr(gogl.GetString(gogl.VERSION)))
}

func (d *Device) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}

// MaxTextureUnits implements gpu.Device.
func (d *Device) MaxTextureUnits() int {
	return d.maxUnits
}

// Clear clears the color buffer of the current framebuffer.
func (d *Device) Clear() {
	gogl.Clear(gogl.COLOR_BUFFER_BIT | gogl.DEPTH_BUFFER_BIT)
}

// ClearColor sets the color used by Clear.
func (d *Device) ClearColor(r, g, b, a float32) {
	gogl.ClearColor(r, g, b, a)
}

// Viewport sets the viewport of the current framebuffer.
func (d *Device) Viewport(x, y, width, height int) {
	gogl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// DrawIndexed implements gpu.Device.
func (d *Device) DrawIndexed(p gpu.Program, va gpu.VertexArray, bindings ...gpu.Binding) {
	prog := p.(*program)
	vao := va.(*vertexArray)
	n := vao.ib.count
	if n == 0 {
		return
	}
	for _, b := range bindings {
		gogl.ActiveTexture(gogl.TEXTURE0 + uint32(b.Unit))
		gogl.BindTexture(gogl.TEXTURE_2D, b.Texture.(*texture).bind())
	}
	prog.use()
	gogl.BindVertexArray(vao.id)
	gogl.DrawElements(gogl.TRIANGLES, int32(n), gogl.UNSIGNED_INT, nil)
	gogl.BindVertexArray(0)
	gogl.UseProgram(0)
	for _, b := range bindings {
		gogl.ActiveTexture(gogl.TEXTURE0 + uint32(b.Unit))
		gogl.BindTexture(gogl.TEXTURE_2D, 0)
	}
	gogl.ActiveTexture(gogl.TEXTURE0)
}
