//go:build !sdl2

package app

import (
	"github.com/db47h/sprig/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

// DriverVersion returns the version of the windowing library.
func DriverVersion() string {
	return "GLFW " + glfw.GetVersionString()
}

var drv driver = new(glfwDriver)

type glfwDriver struct {
	w *window
}

func (d *glfwDriver) init(a Interface, cfg *winCfg) error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init GLFW")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, gl.VersionMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, gl.VersionMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	if err := d.createWindow(cfg); err != nil {
		glfw.Terminate()
		return err
	}

	if h, ok := a.(FrameBufferSizeHandler); ok {
		d.w.onFrameBufferSize = h
	}
	return nil
}

func (d *glfwDriver) terminate() {
	if d.w != nil {
		d.w.glfw.Destroy()
		d.w = nil
	}
	glfw.Terminate()
}

func (d *glfwDriver) createWindow(cfg *winCfg) error {
	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	if cfg.hidden || (!cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0) {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}
	w, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	if !cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0 {
		w.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			w.Show()
		}
	}

	w.MakeContextCurrent()
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	dev, err := gl.NewDevice(cfg.deviceOptions()...)
	if err != nil {
		w.Destroy()
		return err
	}

	fw, fh := w.GetFramebufferSize()
	d.w = &window{glfw: w, dev: dev, fbw: fw, fbh: fh, setViewport: true}
	w.SetFramebufferSizeCallback(d.w.glfwFrameBufferSizeCallback)
	w.SetKeyCallback(d.w.glfwKeyCallback)
	return nil
}

// run runs the main event loop until the window is closed.
func (d *glfwDriver) run(a Interface) {
	w := d.w
	run(a, w, func(swap bool) bool {
		if swap {
			w.glfw.SwapBuffers()
		}
		glfw.PollEvents()
		w.update()
		return w.glfw.ShouldClose()
	})
}

func (d *glfwDriver) window() Window {
	return d.w
}

type window struct {
	glfw              *glfw.Window
	dev               *gl.Device
	fbw, fbh          int
	onFrameBufferSize FrameBufferSizeHandler

	setViewport bool
}

func (w *window) NativeHandle() interface{} {
	return w.glfw
}

func (w *window) Device() *gl.Device {
	return w.dev
}

func (w *window) FrameBufferSize() (width, height int) {
	return w.fbw, w.fbh
}

func (w *window) Close() {
	w.glfw.SetShouldClose(true)
}

func (w *window) update() {
	if w.setViewport {
		w.dev.Viewport(0, 0, w.fbw, w.fbh)
		w.setViewport = false
	}
}

func (w *window) glfwFrameBufferSizeCallback(_ *glfw.Window, width int, height int) {
	w.fbw, w.fbh = width, height
	w.setViewport = true
	if h := w.onFrameBufferSize; h != nil {
		h.OnFrameBufferSize(w, width, height)
	}
}

func (w *window) glfwKeyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.Close()
	}
}
