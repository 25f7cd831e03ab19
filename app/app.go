// Package app opens a window with an OpenGL 4.1 core context and runs a
// fixed time step main loop.
//
// The default driver uses GLFW. Build with the sdl2 tag to use SDL2 instead.
package app

import (
	"log"
	"runtime"
	"time"

	"github.com/db47h/sprig/gl"
	"github.com/db47h/sprig/loop"
)

func init() {
	runtime.LockOSThread()
}

// UpdateRate is the fixed rate at which Interface.OnUpdate is called.
const UpdateRate = 60

// Main creates a window, calls a.Init then runs the main loop until the window
// is closed. a.Terminate is called before the window is destroyed.
func Main(a Interface, opts ...WindowOption) error {
	cfg := newWinCfg(opts)
	if err := drv.init(a, cfg); err != nil {
		return err
	}
	defer drv.terminate()
	if err := a.Init(drv.window()); err != nil {
		return err
	}
	drv.run(a)
	return a.Terminate()
}

// Window is the application window.
type Window interface {
	// NativeHandle returns the *glfw.Window or *sdl.Window.
	NativeHandle() interface{}
	// Device returns the window's GPU device.
	Device() *gl.Device
	// FrameBufferSize returns the size of the window's framebuffer in pixels.
	FrameBufferSize() (width, height int)
	// Close requests the main loop to exit after the current frame.
	Close()
}

type driver interface {
	init(Interface, *winCfg) error
	terminate()
	run(Interface)
	window() Window
}

// Interface is implemented by applications.
type Interface interface {
	Init(Window) error
	Terminate() error

	// OnUpdate is called UpdateRate times per second.
	OnUpdate(dt time.Duration)
	// OnDraw is called once per frame. The framebuffer is swapped before
	// the next event poll. dt is the simulation time elapsed since the last
	// update.
	OnDraw(w Window, dt time.Duration)
}

// FrameBufferSizeHandler is implemented by applications that need to be
// notified of framebuffer size changes. The viewport is updated automatically.
type FrameBufferSizeHandler interface {
	OnFrameBufferSize(w Window, width, height int)
}

// WindowOption configures the application window.
type WindowOption interface {
	set(*winCfg)
}

type winCfg struct {
	fullScreen bool
	hidden     bool
	vsync      bool
	x, y, w, h int
	title      string
	log        *log.Logger
}

func newWinCfg(opts []WindowOption) *winCfg {
	cfg := &winCfg{title: "sprig", x: -1, y: -1, w: 800, h: 600, vsync: true}
	for _, o := range opts {
		o.set(cfg)
	}
	return cfg
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

// Pos sets the window position. Negative values let the window manager decide.
func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.fullScreen = true
	})
}

func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.hidden = !b
	})
}

// VSync enables or disables vertical synchronization. It is enabled by
// default.
func VSync(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.vsync = b
	})
}

// Logger sets the logger of the window's GPU device.
func Logger(l *log.Logger) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.log = l
	})
}

func (cfg *winCfg) deviceOptions() []gl.Option {
	if cfg.log == nil {
		return nil
	}
	return []gl.Option{gl.Logger(cfg.log)}
}

// runner adapts an Interface to loop.Updater. events polls window events,
// swapping buffers first if a frame was drawn, and reports whether to quit.
type runner struct {
	a      Interface
	w      Window
	events func(swap bool) (quit bool)
	drawn  bool
}

func (r *runner) ProcessEvents() bool {
	quit := r.events(r.drawn)
	r.drawn = false
	return quit
}

func (r *runner) Update(dt time.Duration) {
	r.a.OnUpdate(dt)
}

func (r *runner) Draw(_, partial time.Duration) {
	r.a.OnDraw(r.w, partial)
	r.drawn = true
}

func run(a Interface, w Window, events func(swap bool) bool) {
	l := loop.FixedStep{DT: time.Second / UpdateRate}
	l.Run(&runner{a: a, w: w, events: events})
}
