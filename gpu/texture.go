package gpu

// Format is a texture pixel format.
type Format int

// Supported pixel formats. R8 textures are sampled as coverage: shaders read
// the red channel as alpha.
const (
	RGBA8 Format = iota
	R8
)

// BytesPerPixel returns the size of one pixel.
func (f Format) BytesPerPixel() int {
	if f == R8 {
		return 1
	}
	return 4
}

// Filter selects how to filter textures when minifying or magnifying.
type Filter int

// Texture filters. The zero value lets the device choose (Linear).
const (
	FilterDefault Filter = iota
	Nearest
	Linear
	NearestMipmapNearest
	NearestMipmapLinear
	LinearMipmapNearest
	LinearMipmapLinear
)

// Mipmap reports whether the filter samples mipmaps.
func (f Filter) Mipmap() bool {
	switch f {
	case NearestMipmapNearest, NearestMipmapLinear, LinearMipmapNearest, LinearMipmapLinear:
		return true
	}
	return false
}

// Wrap selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
type Wrap int

// Wrap modes. The zero value is ClampToEdge.
const (
	WrapDefault Wrap = iota
	ClampToEdge
	ClampToBorder
	Repeat
	MirroredRepeat
)

// TextureDesc describes a texture to create. Pix may be nil, in which case
// the texture content is zero-initialized.
type TextureDesc struct {
	Width, Height        int
	Format               Format
	Pix                  []byte
	MinFilter, MagFilter Filter
	WrapS, WrapT         Wrap
}
