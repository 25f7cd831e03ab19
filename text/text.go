// Package text rasterizes the printable ASCII range of a font into a single
// row glyph atlas.
package text

import (
	"image"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// FirstRune and LastRune delimit the range of code points in an Atlas.
	FirstRune rune = 32
	LastRune  rune = 127
	// NumGlyphs is the number of entries in an Atlas.
	NumGlyphs = int(LastRune-FirstRune) + 1

	// DefaultFontSize is the default pixel size glyphs are rasterized at.
	DefaultFontSize = 24
)

// Metrics describes a rasterized glyph in pixels.
type Metrics struct {
	Size    image.Point // bitmap size
	Bearing image.Point // offset from the pen position to the bitmap's left edge and top edge above the baseline
	Advance image.Point // pen advance
}

// A Rasterizer renders single glyphs to coverage masks. The mask bounds must
// have the size given in the returned metrics.
type Rasterizer interface {
	Glyph(r rune) (*image.Alpha, Metrics, error)
}

// Hinting selects how to quantize a vector font's glyph nodes.
//
// Not all fonts support hinting.
//
// This is a convenience duplicate of golang.org/x/image/font#Hinting
type Hinting int

const (
	HintingNone     Hinting = Hinting(font.HintingNone)
	HintingVertical         = Hinting(font.HintingVertical)
	HintingFull             = Hinting(font.HintingFull)
)

// FaceRasterizer is a Rasterizer backed by a font.Face.
type FaceRasterizer struct {
	face font.Face
}

// NewFaceRasterizer parses the TrueType font ttf and returns a rasterizer for
// it at the given pixel size with full hinting.
func NewFaceRasterizer(ttf []byte, size float64) (*FaceRasterizer, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	return NewFontRasterizer(f, size, HintingFull), nil
}

// NewFontRasterizer returns a rasterizer for an already parsed font.
func NewFontRasterizer(f *truetype.Font, size float64, h Hinting) *FaceRasterizer {
	return &FaceRasterizer{
		face: truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.Hinting(h),
		}),
	}
}

// NewFaceRasterizerFromFace wraps an arbitrary font.Face.
func NewFaceRasterizerFromFace(f font.Face) *FaceRasterizer {
	return &FaceRasterizer{face: f}
}

// Face returns the underlying font face.
func (r *FaceRasterizer) Face() font.Face { return r.face }

// Glyph implements Rasterizer. The returned mask is a copy: faces may reuse
// their mask buffer between calls.
func (r *FaceRasterizer) Glyph(ch rune) (*image.Alpha, Metrics, error) {
	dr, mask, mp, adv, ok := r.face.Glyph(fixed.Point26_6{}, ch)
	if !ok {
		return nil, Metrics{}, errors.Errorf("no glyph for %q", ch)
	}
	sz := dr.Size()
	dst := image.NewAlpha(image.Rectangle{Max: sz})
	if sz.X > 0 && sz.Y > 0 {
		draw.Draw(dst, dst.Bounds(), mask, mp, draw.Src)
	}
	return dst, Metrics{
		Size:    sz,
		Bearing: image.Pt(dr.Min.X, -dr.Min.Y),
		Advance: image.Pt(adv.Floor(), 0),
	}, nil
}

// Close releases the font face.
func (r *FaceRasterizer) Close() error {
	return r.face.Close()
}
