package asset

import (
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	"github.com/db47h/sprig/gpu"
	"github.com/db47h/sprig/texture"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

type tex struct {
	img image.Image
	t   *texture.Texture
}

func (t *tex) Close() error {
	if t.t != nil {
		t.t.Delete()
		t.t = nil
	}
	return nil
}

func loadImage(r io.Reader, name string) (interface{}, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return &tex{img: src}, nil
}

func (m *Manager) tex(name string) (*tex, error) {
	a, err := m.get(Texture(name))
	if err != nil {
		return nil, err
	}
	t, ok := a.(*tex)
	if !ok {
		return nil, errors.Errorf("asset %s is not a texture", name)
	}
	return t, nil
}

// Image returns the decoded image of the named texture asset.
func (m *Manager) Image(name string) (image.Image, error) {
	m.m.Lock()
	defer m.m.Unlock()
	t, err := m.tex(name)
	if err != nil {
		return nil, err
	}
	return t.img, nil
}

// Texture returns the named texture asset, creating the GPU texture on dev on
// first use. It must be called from the goroutine that owns the GPU context.
// Parameters only apply when the GPU texture is created.
func (m *Manager) Texture(dev gpu.Device, name string, params ...texture.Parameter) (*texture.Texture, error) {
	m.m.Lock()
	defer m.m.Unlock()
	t, err := m.tex(name)
	if err != nil {
		return nil, err
	}
	if t.t == nil {
		if t.t, err = texture.FromImage(dev, t.img, params...); err != nil {
			return nil, errors.Wrapf(err, "create texture %s", name)
		}
	}
	return t.t, nil
}
