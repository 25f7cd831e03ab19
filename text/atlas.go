package text

import (
	"image"
	"log"
	"os"

	"github.com/db47h/sprig/gpu"
	"github.com/pkg/errors"
)

// ErrNoGlyphs is returned by NewAtlas when none of the glyphs could be
// rasterized.
var ErrNoGlyphs = errors.New("no glyph could be rasterized")

// Glyph is an atlas entry. It is immutable once the atlas is built.
type Glyph struct {
	Size    image.Point
	Bearing image.Point // Bearing.Y is relative to the bottom of the atlas row
	Advance image.Point
	Offset  float32    // normalized horizontal offset in the atlas
	Span    [2]float32 // normalized width and height in the atlas
}

// Valid reports whether g has a bitmap in the atlas.
func (g *Glyph) Valid() bool {
	return g != nil && g.Size.X > 0 && g.Size.Y > 0
}

// AtlasOption configures NewAtlas.
type AtlasOption interface {
	set(*atlasConfig)
}

type atlasConfig struct {
	fontSize float64
	padding  int
	log      *log.Logger
}

type atlasOptionFunc func(*atlasConfig)

func (f atlasOptionFunc) set(cfg *atlasConfig) { f(cfg) }

// FontSize declares the pixel size the rasterizer renders glyphs at. It
// defaults to DefaultFontSize.
func FontSize(px float64) AtlasOption {
	return atlasOptionFunc(func(cfg *atlasConfig) { cfg.fontSize = px })
}

// Padding sets the number of empty columns after each glyph in the atlas.
func Padding(px int) AtlasOption {
	return atlasOptionFunc(func(cfg *atlasConfig) {
		if px < 0 {
			px = 0
		}
		cfg.padding = px
	})
}

// Logger sets the logger used to report glyphs that could not be rasterized.
func Logger(l *log.Logger) AtlasOption {
	return atlasOptionFunc(func(cfg *atlasConfig) { cfg.log = l })
}

// Atlas holds the glyphs FirstRune through LastRune packed left to right in a
// single row of a single channel texture.
type Atlas struct {
	tex      gpu.Texture
	size     image.Point
	fontSize float32
	glyphs   [NumGlyphs]Glyph
}

// NewAtlas rasterizes the printable ASCII range with r and uploads the result
// to a new texture. Glyphs that fail to rasterize are logged and left empty.
func NewAtlas(dev gpu.Device, r Rasterizer, opts ...AtlasOption) (*Atlas, error) {
	cfg := atlasConfig{fontSize: DefaultFontSize}
	for _, o := range opts {
		o.set(&cfg)
	}
	if cfg.log == nil {
		cfg.log = log.New(os.Stderr, "sprig: ", log.LstdFlags)
	}

	a := &Atlas{fontSize: float32(cfg.fontSize)}
	var masks [NumGlyphs]*image.Alpha
	for i := range a.glyphs {
		ch := FirstRune + rune(i)
		mask, m, err := r.Glyph(ch)
		if err != nil {
			cfg.log.Printf("skipping glyph %q: %v", ch, err)
			continue
		}
		if mask != nil && m.Size.X > 0 && m.Size.Y > 0 && mask.Bounds().Size() != m.Size {
			cfg.log.Printf("skipping glyph %q: mask size %v, want %v", ch, mask.Bounds().Size(), m.Size)
			continue
		}
		g := &a.glyphs[i]
		g.Size, g.Bearing, g.Advance = m.Size, m.Bearing, m.Advance
		if !g.Valid() || mask == nil {
			g.Size = image.Point{}
			continue
		}
		masks[i] = mask
		a.size.X += g.Size.X + cfg.padding
		if g.Size.Y > a.size.Y {
			a.size.Y = g.Size.Y
		}
	}
	if a.size.X == 0 || a.size.Y == 0 {
		return nil, ErrNoGlyphs
	}

	tex, err := dev.NewTexture(gpu.TextureDesc{
		Width:     a.size.X,
		Height:    a.size.Y,
		Format:    gpu.R8,
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create atlas texture")
	}
	a.tex = tex

	w, h := float32(a.size.X), float32(a.size.Y)
	x := 0
	for i, mask := range masks {
		if mask == nil {
			continue
		}
		g := &a.glyphs[i]
		tex.SetSubImage(image.Rect(x, 0, x+g.Size.X, g.Size.Y), alphaPix(mask, g.Size))
		g.Offset = float32(x) / w
		g.Span = [2]float32{float32(g.Size.X) / w, float32(g.Size.Y) / h}
		g.Bearing.Y -= a.size.Y - g.Size.Y
		x += g.Size.X + cfg.padding
	}
	return a, nil
}

// alphaPix returns the pixels of m, tightly packed. sz is the size of m.
func alphaPix(m *image.Alpha, sz image.Point) []byte {
	b := m.Bounds()
	if m.Stride == sz.X {
		return m.Pix[:sz.X*sz.Y]
	}
	pix := make([]byte, 0, sz.X*sz.Y)
	for y := 0; y < sz.Y; y++ {
		o := m.PixOffset(b.Min.X, b.Min.Y+y)
		pix = append(pix, m.Pix[o:o+sz.X]...)
	}
	return pix
}

// Glyph returns the atlas entry for r, or nil if r is out of range.
func (a *Atlas) Glyph(r rune) *Glyph {
	if r < FirstRune || r > LastRune {
		return nil
	}
	return &a.glyphs[r-FirstRune]
}

// Texture returns the atlas texture.
func (a *Atlas) Texture() gpu.Texture { return a.tex }

// Size returns the atlas size in pixels.
func (a *Atlas) Size() image.Point { return a.size }

// FontSize returns the pixel size glyphs were rasterized at.
func (a *Atlas) FontSize() float32 { return a.fontSize }

// Close releases the atlas texture.
func (a *Atlas) Close() {
	if a.tex != nil {
		a.tex.Delete()
		a.tex = nil
	}
}
