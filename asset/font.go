package asset

import (
	"io"

	"github.com/db47h/sprig/text"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
)

type fnt struct {
	data []byte
	f    *truetype.Font
	rs   map[fntOpts]*text.FaceRasterizer
}

type fntOpts struct {
	sz float64
	h  text.Hinting
}

func (f *fnt) Close() error {
	var errs errorList
	for opts, r := range f.rs {
		if err := r.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close face %v", opts))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func loadFont(r io.Reader, name string) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	return &fnt{data, ttf, make(map[fntOpts]*text.FaceRasterizer)}, nil
}

func (m *Manager) font(name string) (*fnt, error) {
	a, err := m.get(Font(name))
	if err != nil {
		return nil, err
	}
	f, ok := a.(*fnt)
	if !ok {
		return nil, errors.Errorf("asset %s is not a font", name)
	}
	return f, nil
}

// Font returns the named font asset.
func (m *Manager) Font(name string) (*truetype.Font, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	return f.f, nil
}

// FontData returns the raw TrueType data of the named font asset.
func (m *Manager) FontData(name string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	return f.data, nil
}

// Rasterizer returns a glyph rasterizer for the given font at the given pixel
// size (with a DPI of 72).
//
// Note that this function caches any rasterizer created. The only way to clean
// the cache is to Discard the corresponding font asset. If an application
// needs to be able to discard rasterizers, it should use Font instead and
// manage rasterizer creation and caching manually.
func (m *Manager) Rasterizer(name string, size float64, hinting text.Hinting) (*text.FaceRasterizer, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	opts := fntOpts{size, hinting}
	if r := f.rs[opts]; r != nil {
		return r, nil
	}
	r := text.NewFontRasterizer(f.f, size, hinting)
	f.rs[opts] = r
	return r, nil
}
