// Package texture wraps GPU textures as sprig.Drawable values.
package texture

import (
	"image"
	"image/draw"

	"github.com/db47h/sprig/gpu"
	"github.com/pkg/errors"
)

// FilterMode selects how to filter textures.
type FilterMode = gpu.Filter

const (
	Nearest              = gpu.Nearest
	Linear               = gpu.Linear
	NearestMipmapNearest = gpu.NearestMipmapNearest
	NearestMipmapLinear  = gpu.NearestMipmapLinear
	LinearMipmapNearest  = gpu.LinearMipmapNearest
	LinearMipmapLinear   = gpu.LinearMipmapLinear
)

// WrapMode selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
//
// Textures drawn by a sprig.Renderer are sampled within their UV bounds, so
// the only settings that make sense are ClampToEdge (the default) and
// ClampToBorder.
type WrapMode = gpu.Wrap

const (
	Repeat         = gpu.Repeat
	MirroredRepeat = gpu.MirroredRepeat
	ClampToEdge    = gpu.ClampToEdge
	ClampToBorder  = gpu.ClampToBorder
)

// Parameter is implemented by functions setting texture parameters. See New.
type Parameter interface {
	set(*gpu.TextureDesc)
}

type optionFunc func(*gpu.TextureDesc)

func (f optionFunc) set(d *gpu.TextureDesc) {
	f(d)
}

// Wrap sets the horizontal and vertical wrap modes.
func Wrap(wrapS, wrapT WrapMode) Parameter {
	return optionFunc(func(d *gpu.TextureDesc) {
		d.WrapS = wrapS
		d.WrapT = wrapT
	})
}

// Filter sets the minification and magnification filters.
func Filter(min, mag FilterMode) Parameter {
	return optionFunc(func(d *gpu.TextureDesc) {
		d.MinFilter = min
		d.MagFilter = mag
	})
}

// A Texture is a sprig.Drawable covering a whole RGBA GPU texture.
type Texture struct {
	tex gpu.Texture
}

// New returns a new texture of the given width and height with all pixels set
// to transparent black.
func New(dev gpu.Device, width, height int, params ...Parameter) (*Texture, error) {
	return newTexture(dev, width, height, nil, params...)
}

// FromImage creates a new texture of the same dimensions as the source image.
// Regardless of the source image type, the resulting texture is always in RGBA
// format.
func FromImage(dev gpu.Device, src image.Image, params ...Parameter) (*Texture, error) {
	sr := src.Bounds()
	return newTexture(dev, sr.Dx(), sr.Dy(), rgbaPix(src, sr), params...)
}

func newTexture(dev gpu.Device, width, height int, pix []byte, params ...Parameter) (*Texture, error) {
	desc := gpu.TextureDesc{
		Width:  width,
		Height: height,
		Format: gpu.RGBA8,
		Pix:    pix,
	}
	for _, p := range params {
		p.set(&desc)
	}
	t, err := dev.NewTexture(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "create %dx%d texture", width, height)
	}
	return &Texture{tex: t}, nil
}

// rgbaPix returns the pixels of the sr area of src as tightly packed RGBA.
func rgbaPix(src image.Image, sr image.Rectangle) []byte {
	if i, ok := src.(*image.RGBA); ok && sr == i.Rect && i.Stride == 4*sr.Dx() {
		return i.Pix
	}
	dr := image.Rectangle{Max: sr.Size()}
	dst := image.NewRGBA(dr)
	draw.Draw(dst, dr, src, sr.Min, draw.Src)
	return dst.Pix
}

// SetSubImage draws src to the texture. It works identically to draw.Draw with
// op set to draw.Src.
func (t *Texture) SetSubImage(dr image.Rectangle, src image.Image, sp image.Point) {
	sz := dr.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return
	}
	t.tex.SetSubImage(dr, rgbaPix(src, image.Rectangle{Min: sp, Max: sp.Add(sz)}))
}

// Texture returns the underlying GPU texture.
func (t *Texture) Texture() gpu.Texture { return t.tex }

// Size returns the size of the texture.
func (t *Texture) Size() image.Point { return t.tex.Size() }

// UV returns the texture's UV coordinates: the whole [0, 1] range.
func (t *Texture) UV() [4]float32 {
	return [4]float32{0, 0, 1, 1}
}

func (t *Texture) coords(pt image.Point) (u, v float32) {
	sz := t.tex.Size()
	return float32(pt.X) / float32(sz.X), float32(pt.Y) / float32(sz.Y)
}

// Delete releases the GPU texture.
func (t *Texture) Delete() {
	t.tex.Delete()
}

// Region returns a region within the texture.
func (t *Texture) Region(bounds image.Rectangle) *Region {
	return &Region{
		t:      t,
		bounds: bounds.Intersect(image.Rectangle{Max: t.Size()}),
	}
}

// Region is a sprig.Drawable that represents a sub-region of a Texture or of
// another Region. Drawing regions of the same texture uses a single texture
// slot.
type Region struct {
	t      *Texture
	bounds image.Rectangle
}

// Texture returns the underlying GPU texture.
func (r *Region) Texture() gpu.Texture { return r.t.tex }

// Bounds returns the region's bounds within the texture.
func (r *Region) Bounds() image.Rectangle { return r.bounds }

// Size returns the size of the region.
func (r *Region) Size() image.Point { return r.bounds.Size() }

// UV returns the regions's UV coordinates in the range [0, 1].
func (r *Region) UV() [4]float32 {
	u0, v0 := r.t.coords(r.bounds.Min)
	u1, v1 := r.t.coords(r.bounds.Max)
	return [4]float32{u0, v0, u1, v1}
}

// Region returns a sub-region within the Region. bounds is relative to r.
func (r *Region) Region(bounds image.Rectangle) *Region {
	return &Region{
		t:      r.t,
		bounds: bounds.Add(r.bounds.Min).Intersect(r.bounds),
	}
}
