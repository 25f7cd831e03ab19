package gl

import (
	"image"

	gogl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/db47h/sprig/gpu"
)

var filters = [...]int32{
	gpu.FilterDefault:        gogl.LINEAR,
	gpu.Nearest:              gogl.NEAREST,
	gpu.Linear:               gogl.LINEAR,
	gpu.NearestMipmapNearest: gogl.NEAREST_MIPMAP_NEAREST,
	gpu.NearestMipmapLinear:  gogl.NEAREST_MIPMAP_LINEAR,
	gpu.LinearMipmapNearest:  gogl.LINEAR_MIPMAP_NEAREST,
	gpu.LinearMipmapLinear:   gogl.LINEAR_MIPMAP_LINEAR,
}

var wraps = [...]int32{
	gpu.WrapDefault:    gogl.CLAMP_TO_EDGE,
	gpu.ClampToEdge:    gogl.CLAMP_TO_EDGE,
	gpu.ClampToBorder:  gogl.CLAMP_TO_BORDER,
	gpu.Repeat:         gogl.REPEAT,
	gpu.MirroredRepeat: gogl.MIRRORED_REPEAT,
}

type texture struct {
	id     uint32
	width  int
	height int
	format gpu.Format
	mipmap bool
	dirty  bool
}

func glFormat(f gpu.Format) (internal int32, format uint32) {
	if f == gpu.R8 {
		return gogl.R8, gogl.RED
	}
	return gogl.RGBA8, gogl.RGBA
}

// NewTexture implements gpu.Device. R8 textures are swizzled so that samplers
// return (1, 1, 1, red).
func (d *Device) NewTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, errors.Errorf("invalid texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Pix != nil && len(desc.Pix) < desc.Width*desc.Height*desc.Format.BytesPerPixel() {
		return nil, errors.Errorf("texture data too short for %dx%d", desc.Width, desc.Height)
	}
	t := &texture{width: desc.Width, height: desc.Height, format: desc.Format, mipmap: desc.MinFilter.Mipmap()}
	gogl.GenTextures(1, &t.id)
	if t.id == 0 {
		return nil, errors.New("glGenTextures failed")
	}
	gogl.BindTexture(gogl.TEXTURE_2D, t.id)
	gogl.TexParameteri(gogl.TEXTURE_2D, gogl.TEXTURE_MIN_FILTER, filters[desc.MinFilter])
	gogl.TexParameteri(gogl.TEXTURE_2D, gogl.TEXTURE_MAG_FILTER, filters[desc.MagFilter])
	gogl.TexParameteri(gogl.TEXTURE_2D, gogl.TEXTURE_WRAP_S, wraps[desc.WrapS])
	gogl.TexParameteri(gogl.TEXTURE_2D, gogl.TEXTURE_WRAP_T, wraps[desc.WrapT])

	internal, format := glFormat(desc.Format)
	if desc.Format == gpu.R8 {
		swizzle := [4]int32{gogl.ONE, gogl.ONE, gogl.ONE, gogl.RED}
		gogl.TexParameteriv(gogl.TEXTURE_2D, gogl.TEXTURE_SWIZZLE_RGBA, &swizzle[0])
	}
	pix := desc.Pix
	if pix == nil {
		pix = make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel())
	}
	gogl.PixelStorei(gogl.UNPACK_ALIGNMENT, int32(desc.Format.BytesPerPixel()))
	gogl.TexImage2D(gogl.TEXTURE_2D, 0, internal, int32(desc.Width), int32(desc.Height), 0, format, gogl.UNSIGNED_BYTE, gogl.Ptr(pix))
	if t.mipmap {
		gogl.GenerateMipmap(gogl.TEXTURE_2D)
	}
	gogl.BindTexture(gogl.TEXTURE_2D, 0)
	return t, nil
}

func (t *texture) ID() uint32         { return t.id }
func (t *texture) Size() image.Point  { return image.Pt(t.width, t.height) }
func (t *texture) Format() gpu.Format { return t.format }

func (t *texture) SetSubImage(dr image.Rectangle, pix []byte) {
	if dr.Empty() || len(pix) == 0 {
		return
	}
	_, format := glFormat(t.format)
	gogl.BindTexture(gogl.TEXTURE_2D, t.id)
	gogl.PixelStorei(gogl.UNPACK_ALIGNMENT, int32(t.format.BytesPerPixel()))
	gogl.TexSubImage2D(gogl.TEXTURE_2D, 0, int32(dr.Min.X), int32(dr.Min.Y), int32(dr.Dx()), int32(dr.Dy()), format, gogl.UNSIGNED_BYTE, gogl.Ptr(pix))
	gogl.BindTexture(gogl.TEXTURE_2D, 0)
	if t.mipmap {
		t.dirty = true
	}
}

// bind must be called with the target texture unit active. It regenerates
// mipmaps if needed.
func (t *texture) bind() uint32 {
	if t.dirty {
		gogl.BindTexture(gogl.TEXTURE_2D, t.id)
		gogl.GenerateMipmap(gogl.TEXTURE_2D)
		t.dirty = false
	}
	return t.id
}

func (t *texture) Delete() {
	gogl.DeleteTextures(1, &t.id)
}
