package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"os"
	"time"

	"github.com/db47h/ofs"
	"github.com/db47h/sprig"
	"github.com/db47h/sprig/app"
	"github.com/db47h/sprig/asset"
	"github.com/db47h/sprig/debug"
	"github.com/db47h/sprig/text"
	"github.com/db47h/sprig/texture"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	vsync     = flag.Bool("v", true, "enable vsync")
	assetDir  = flag.String("assets", "cmd/demo/assets", "asset directory")
	fontName  = flag.String("font", "", "TrueType font in the fonts/ asset directory (default Go Regular)")
	texName   = flag.String("texture", "", "image in the textures/ asset directory")
	nTextures = flag.Int("n", sprig.MaxSlots+8, "number of generated textures to draw")
	showDebug = flag.Bool("debug", false, "show frame statistics")
)

type demo struct {
	log   *log.Logger
	mgr   *asset.Manager
	r     *sprig.Renderer
	tiles []*texture.Texture
	img   *texture.Texture
	timer debug.Timer
	tPrev time.Time
	clock float64
}

func (d *demo) Init(w app.Window) error {
	d.log.Print(app.DriverVersion(), " - ", w.Device().Version())
	dev := w.Device()

	var err error
	if *fontName != "" {
		var f *text.FaceRasterizer
		if f, err = d.mgr.Rasterizer(*fontName, text.DefaultFontSize, text.HintingFull); err != nil {
			return err
		}
		d.r, err = sprig.New(dev, f, sprig.Logger(d.log))
	} else {
		d.r, err = sprig.NewWithFont(dev, goregular.TTF, sprig.Logger(d.log))
	}
	if err != nil {
		return err
	}
	d.r.ClearColor(sprig.Color{R: 0.15, G: 0.15, B: 0.15, A: 1})

	if *texName != "" {
		if d.img, err = d.mgr.Texture(dev, *texName, texture.Filter(texture.LinearMipmapLinear, texture.Linear)); err != nil {
			return err
		}
	}

	// one small texture per tile, enough to overflow the texture slots.
	for i := 0; i < *nTextures; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		c := color.NRGBA{uint8(40 + i*53), uint8(255 - i*31), uint8(90 + i*17), 255}
		draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		img.Set(0, 0, color.White)
		t, err := texture.FromImage(dev, img, texture.Filter(texture.Nearest, texture.Nearest))
		if err != nil {
			return err
		}
		d.tiles = append(d.tiles, t)
	}
	d.tPrev = time.Now()
	return nil
}

func (d *demo) Terminate() error {
	for _, t := range d.tiles {
		t.Delete()
	}
	d.r.Close()
	return d.mgr.Close()
}

func (d *demo) OnUpdate(dt time.Duration) {
	d.clock += dt.Seconds()
}

func (d *demo) OnDraw(w app.Window, _ time.Duration) {
	now := time.Now()
	d.timer.Add(now.Sub(d.tPrev))
	d.tPrev = now

	width, height := w.FrameBufferSize()
	d.r.Clear()
	d.r.Begin(width, height)

	d.r.DrawQuad(sprig.Ext(20, 20, 50, 50), color.NRGBA{255, 0, 0, 255})
	d.r.DrawQuad(sprig.Ext(70, 20, 50, 50), color.NRGBA{0, 255, 0, 255})
	bounce := float32(10 * math.Sin(2*d.clock))
	d.r.DrawQuad(sprig.Ext(120, 20+bounce, 50, 50), color.NRGBA{0, 0, 255, 255})

	d.r.DrawText(sprig.Pt(20, 100), text.DefaultFontSize, color.White, "The quick brown fox jumps over the lazy dog.")
	d.r.DrawText(sprig.Pt(20, 140), 16, color.NRGBA{255, 200, 0, 255}, "Tabs\tand\nnew lines")

	const tile = 24
	for i, t := range d.tiles {
		x := float32(20 + (i%20)*(tile+4))
		y := float32(200 + (i/20)*(tile+4))
		d.r.DrawTexture(sprig.Ext(x, y, tile, tile), t)
	}
	if d.img != nil {
		sz := d.img.Size()
		d.r.DrawSprite(sprig.Ext(float32(width-sz.X-20), 20, float32(sz.X), float32(sz.Y)), d.img, color.NRGBA{255, 255, 255, 200})
	}

	if *showDebug {
		debug.InfoBox(d.r, width, debug.TopRight, 14, debug.StatsString(d.r.Stats(), d.timer.AveragePerSecond()))
	}
	d.r.End()
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "demo: ", log.LstdFlags)

	var ovl ofs.Overlay
	if err := ovl.Add(false, *assetDir); err != nil {
		logger.Fatal(err)
	}
	mgr := asset.NewManager(&ovl,
		asset.TexturePath("textures"),
		asset.FontPath("fonts"),
		asset.FilePath("."))

	// start loading in the background while the window is created.
	var preload []asset.Asset
	if *fontName != "" {
		preload = append(preload, asset.Font(*fontName))
	}
	if *texName != "" {
		preload = append(preload, asset.Texture(*texName))
	}
	rc, _ := mgr.Preload(preload, false)

	d := &demo{log: logger, mgr: mgr}
	go func() {
		if err := asset.Wait(rc); err != nil {
			logger.Print(err)
		}
	}()

	if err := app.Main(d,
		app.Title("sprig demo"),
		app.Size(800, 400),
		app.VSync(*vsync),
		app.Logger(logger)); err != nil {
		logger.Fatal(err)
	}
}
