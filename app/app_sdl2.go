//go:build sdl2

package app

import (
	"fmt"

	"github.com/db47h/sprig/gl"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// DriverVersion returns the version of the windowing library.
func DriverVersion() string {
	var v sdl.Version
	sdl.GetVersion(&v)
	return fmt.Sprintf("SDL %d.%d.%d", v.Major, v.Minor, v.Patch)
}

var drv driver = new(sdlDriver)

type sdlDriver struct {
	w *window
}

type window struct {
	sdl               *sdl.Window
	ctx               sdl.GLContext
	dev               *gl.Device
	fbw, fbh          int
	onFrameBufferSize FrameBufferSizeHandler

	setViewport bool
	quit        bool
}

func (d *sdlDriver) init(a Interface, cfg *winCfg) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "init SDL")
	}
	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_CONTEXT_MAJOR_VERSION, gl.VersionMajor},
		{sdl.GL_CONTEXT_MINOR_VERSION, gl.VersionMinor},
		{sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return errors.Wrap(err, "set GL attribute")
		}
	}

	if err := d.createWindow(cfg); err != nil {
		sdl.Quit()
		return err
	}

	if h, ok := a.(FrameBufferSizeHandler); ok {
		d.w.onFrameBufferSize = h
	}
	return nil
}

func (d *sdlDriver) createWindow(cfg *winCfg) error {
	x, y := int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED)
	if cfg.x >= 0 && cfg.y >= 0 {
		x, y = int32(cfg.x), int32(cfg.y)
	}
	var flags uint32 = sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if cfg.fullScreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.hidden {
		flags |= sdl.WINDOW_HIDDEN
	}

	w, err := sdl.CreateWindow(cfg.title, x, y, int32(cfg.w), int32(cfg.h), flags)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	ctx, err := w.GLCreateContext()
	if err != nil {
		w.Destroy()
		return errors.Wrap(err, "create GL context")
	}
	interval := 0
	if cfg.vsync {
		interval = 1
	}
	_ = sdl.GLSetSwapInterval(interval)

	dev, err := gl.NewDevice(cfg.deviceOptions()...)
	if err != nil {
		sdl.GLDeleteContext(ctx)
		w.Destroy()
		return err
	}

	ww, wh := w.GLGetDrawableSize()
	d.w = &window{sdl: w, ctx: ctx, dev: dev, fbw: int(ww), fbh: int(wh), setViewport: true}
	return nil
}

func (d *sdlDriver) terminate() {
	if d.w != nil {
		sdl.GLDeleteContext(d.w.ctx)
		_ = d.w.sdl.Destroy()
		d.w = nil
	}
	sdl.Quit()
}

func (d *sdlDriver) window() Window {
	return d.w
}

func (d *sdlDriver) run(a Interface) {
	w := d.w
	run(a, w, func(swap bool) bool {
		if swap {
			w.sdl.GLSwap()
		}
		quit := d.pollEvents()
		w.update()
		return quit || w.quit
	})
}

// pollEvents processes pending events and reports whether the application
// should quit.
func (d *sdlDriver) pollEvents() bool {
	wid, _ := d.w.sdl.GetID()
	for {
		e := sdl.PollEvent()
		if e == nil {
			return false
		}
		switch e := e.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		case *sdl.WindowEvent:
			if e.WindowID != wid {
				break
			}
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				return true
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				ww, wh := d.w.sdl.GLGetDrawableSize()
				d.w.fbw, d.w.fbh = int(ww), int(wh)
				d.w.setViewport = true
				if h := d.w.onFrameBufferSize; h != nil {
					h.OnFrameBufferSize(d.w, int(ww), int(wh))
				}
			}
		}
	}
}

func (w *window) NativeHandle() interface{} {
	return w.sdl
}

func (w *window) Device() *gl.Device {
	return w.dev
}

func (w *window) FrameBufferSize() (width, height int) {
	return w.fbw, w.fbh
}

func (w *window) Close() {
	w.quit = true
}

func (w *window) update() {
	if w.setViewport {
		w.dev.Viewport(0, 0, w.fbw, w.fbh)
		w.setViewport = false
	}
}
