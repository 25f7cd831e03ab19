package sprig

import (
	"image/color"
	"log"
	"os"

	"github.com/db47h/sprig/gpu"
	"github.com/db47h/sprig/text"
	"github.com/pkg/errors"
)

const (
	// MaxSlots is the default number of texture slots per quad batch.
	MaxSlots = 32
	// TextureStart is the first texture unit used for quad textures. Unit 0
	// is reserved for the glyph atlas.
	TextureStart = 1

	atlasUnit = 0
	tabWidth  = 4
	fallback  = '?'
)

// Stats holds per-frame counters.
type Stats struct {
	DrawCalls     int // draw calls issued
	ForcedFlushes int // quad flushes caused by texture slot exhaustion
	Quads         int // quads drawn, textured or not
	Glyphs        int // glyphs drawn
}

// Option configures a Renderer.
type Option interface {
	set(*config)
}

type config struct {
	maxSlots int
	fontSize float64
	padding  int
	log      *log.Logger
}

type optionFunc func(*config)

func (f optionFunc) set(cfg *config) { f(cfg) }

// MaxTextures sets the number of textures that quads can reference between two
// flushes. It is clamped to the number of texture units available to the
// device. The default is MaxSlots.
func MaxTextures(n int) Option {
	return optionFunc(func(cfg *config) { cfg.maxSlots = n })
}

// Logger sets the logger for the renderer and its glyph atlas.
func Logger(l *log.Logger) Option {
	return optionFunc(func(cfg *config) { cfg.log = l })
}

// FontSize sets the pixel size at which glyphs are rasterized. DrawText and
// DrawSymbol scale glyphs relative to this size. It defaults to
// text.DefaultFontSize.
func FontSize(px float64) Option {
	return optionFunc(func(cfg *config) { cfg.fontSize = px })
}

// AtlasPadding sets the horizontal gap in pixels between glyphs in the atlas.
func AtlasPadding(px int) Option {
	return optionFunc(func(cfg *config) { cfg.padding = px })
}

// Renderer records quads and text for one frame at a time and draws them in
// two passes: colored and textured quads first, then glyphs.
type Renderer struct {
	dev      gpu.Device
	log      *log.Logger
	atlas    *text.Atlas
	quads    *RenderGroup
	glyphs   *RenderGroup
	slots    *SlotTable
	bindings []gpu.Binding
	proj     [16]float32
	frame    Stats
	stats    Stats
}

// New returns a new Renderer drawing to dev. Glyphs for the printable ASCII
// range are rasterized with font when the renderer is created; the font
// rasterizer is not retained.
func New(dev gpu.Device, font text.Rasterizer, opts ...Option) (*Renderer, error) {
	return newRenderer(dev, font, newConfig(opts))
}

// NewWithFont returns a new renderer using the TrueType font ttf.
func NewWithFont(dev gpu.Device, ttf []byte, opts ...Option) (*Renderer, error) {
	cfg := newConfig(opts)
	font, err := text.NewFaceRasterizer(ttf, cfg.fontSize)
	if err != nil {
		return nil, err
	}
	defer font.Close()
	return newRenderer(dev, font, cfg)
}

func newConfig(opts []Option) *config {
	cfg := &config{
		maxSlots: MaxSlots,
		fontSize: text.DefaultFontSize,
	}
	for _, o := range opts {
		o.set(cfg)
	}
	if cfg.log == nil {
		cfg.log = log.New(os.Stderr, "sprig: ", log.LstdFlags)
	}
	return cfg
}

func newRenderer(dev gpu.Device, font text.Rasterizer, cfg *config) (r *Renderer, err error) {
	slots := cfg.maxSlots
	if n := dev.MaxTextureUnits() - TextureStart; slots > n {
		cfg.log.Printf("clamping texture slots from %d to %d", slots, n)
		slots = n
	}
	if slots < 1 {
		return nil, errors.Errorf("not enough texture units: %d", dev.MaxTextureUnits())
	}

	r = &Renderer{
		dev:      dev,
		log:      cfg.log,
		bindings: make([]gpu.Binding, 0, slots),
		proj:     Projection(1, 1),
	}
	defer func() {
		if err != nil {
			r.Close()
			r = nil
		}
	}()

	r.atlas, err = text.NewAtlas(dev, font,
		text.FontSize(cfg.fontSize),
		text.Padding(cfg.padding),
		text.Logger(cfg.log))
	if err != nil {
		return r, errors.Wrap(err, "create glyph atlas")
	}
	if r.quads, err = newRenderGroup(dev, vertexShader, quadFragmentShader(slots)); err != nil {
		return r, errors.Wrap(err, "quad group")
	}
	units := make([]int32, slots)
	for i := range units {
		units[i] = int32(TextureStart + i)
	}
	r.quads.program.SetInts("uTextures", units)
	if r.glyphs, err = newRenderGroup(dev, vertexShader, glyphFragmentShader); err != nil {
		return r, errors.Wrap(err, "glyph group")
	}
	r.glyphs.program.SetInts("uAtlas", []int32{atlasUnit})
	r.slots = newSlotTable(slots, r.evict)
	return r, nil
}

// Close releases all GPU resources held by the renderer.
func (r *Renderer) Close() {
	if r.glyphs != nil {
		r.glyphs.Close()
		r.glyphs = nil
	}
	if r.quads != nil {
		r.quads.Close()
		r.quads = nil
	}
	if r.atlas != nil {
		r.atlas.Close()
		r.atlas = nil
	}
}

// Atlas returns the renderer's glyph atlas.
func (r *Renderer) Atlas() *text.Atlas { return r.atlas }

// Stats returns the counters of the last completed frame.
func (r *Renderer) Stats() Stats { return r.stats }

// Begin starts a new frame for a viewport of the given size in pixels.
// Anything recorded since the last End is discarded.
func (r *Renderer) Begin(width, height int) {
	r.quads.Clear()
	r.glyphs.Clear()
	r.slots.Reset()
	r.proj = Projection(width, height)
	r.frame = Stats{}
}

// End draws everything recorded since Begin. Quads are drawn first, glyphs on
// top of them.
func (r *Renderer) End() {
	r.flushQuads()
	r.slots.Reset()
	if r.glyphs.flush(&r.proj, gpu.Binding{Unit: atlasUnit, Texture: r.atlas.Texture()}) {
		r.frame.DrawCalls++
	}
	r.stats = r.frame
}

// Clear clears the framebuffer with the current clear color.
func (r *Renderer) Clear() {
	r.dev.Clear()
}

// ClearColor sets the color used by Clear.
func (r *Renderer) ClearColor(c color.Color) {
	col := colorOf(c)
	r.dev.ClearColor(col.R, col.G, col.B, col.A)
}

func (r *Renderer) flushQuads() {
	r.bindings = r.bindings[:0]
	for i, t := range r.slots.Textures() {
		r.bindings = append(r.bindings, gpu.Binding{Unit: TextureStart + i, Texture: t})
	}
	if r.quads.flush(&r.proj, r.bindings...) {
		r.frame.DrawCalls++
	}
}

// evict is called by the slot table when a new texture does not fit.
func (r *Renderer) evict() {
	r.flushQuads()
	r.frame.ForcedFlushes++
}

// DrawQuad draws a solid quad of color c.
func (r *Renderer) DrawQuad(e Extent, c color.Color) {
	r.quads.Push(quad(e, [4]float32{}, colorOf(c), NoTexture))
	r.frame.Quads++
}

// DrawTexture draws d stretched over e.
func (r *Renderer) DrawTexture(e Extent, d Drawable) {
	r.DrawSprite(e, d, White)
}

// DrawSprite draws d stretched over e, tinted with c.
func (r *Renderer) DrawSprite(e Extent, d Drawable, c color.Color) {
	col := colorOf(c)
	slot := r.slots.Assign(d.Texture())
	r.quads.Push(quad(e, d.UV(), col, int32(slot)))
	r.frame.Quads++
}

// DrawSymbol draws glyph g with its origin at pos, scaled to the given pixel
// size. Glyphs without a bitmap are ignored.
func (r *Renderer) DrawSymbol(pos Point, size float32, c color.Color, g *text.Glyph) {
	r.drawSymbol(pos, size/r.atlas.FontSize(), colorOf(c), g)
}

func (r *Renderer) drawSymbol(pos Point, scale float32, c Color, g *text.Glyph) {
	if !g.Valid() {
		return
	}
	e := Extent{
		Pos: Point{
			X: pos.X + float32(g.Bearing.X)*scale,
			Y: pos.Y + float32(g.Size.Y-g.Bearing.Y)*scale,
		},
		Size: Point{float32(g.Size.X) * scale, float32(g.Size.Y) * scale},
	}
	uv := [4]float32{g.Offset, 0, g.Offset + g.Span[0], g.Span[1]}
	r.glyphs.Push(quad(e, uv, c, NoTexture))
	r.frame.Glyphs++
}

// glyph returns the atlas entry for ch, or the fallback glyph if ch is not in
// the atlas.
func (r *Renderer) glyph(ch rune) *text.Glyph {
	if g := r.atlas.Glyph(ch); g != nil {
		return g
	}
	return r.atlas.Glyph(fallback)
}

// DrawText draws s starting at pos with glyphs scaled to the given pixel size.
// A newline moves the pen back to pos.X and down by size. A tab advances by
// four spaces.
func (r *Renderer) DrawText(pos Point, size float32, c color.Color, s string) {
	scale := size / r.atlas.FontSize()
	col := colorOf(c)
	r.layout(pos, size, s, func(pen Point, g *text.Glyph) {
		r.drawSymbol(pen, scale, col, g)
	})
}

// MeasureText returns the size of the block of text s drawn at the given pixel
// size: the advance of the widest line and size times the number of lines.
func (r *Renderer) MeasureText(size float32, s string) Point {
	if s == "" {
		return Point{}
	}
	var w float32
	end := r.layout(Point{}, size, s, func(pen Point, g *text.Glyph) {
		if x := pen.X + float32(g.Advance.X)*size/r.atlas.FontSize(); x > w {
			w = x
		}
	})
	return Point{w, end.Y + size}
}

// layout walks s and calls fn with the pen position of each glyph to draw. It
// returns the final pen position.
func (r *Renderer) layout(pos Point, size float32, s string, fn func(pen Point, g *text.Glyph)) Point {
	scale := size / r.atlas.FontSize()
	pen := pos
	for _, ch := range s {
		switch ch {
		case '\n':
			pen.X = pos.X
			pen.Y += size
		case '\t':
			sp := r.atlas.Glyph(' ')
			for i := 0; i < tabWidth; i++ {
				fn(pen, sp)
				pen.X += float32(sp.Advance.X) * scale
			}
		default:
			g := r.glyph(ch)
			fn(pen, g)
			pen.X += float32(g.Advance.X) * scale
		}
	}
	return pen
}
