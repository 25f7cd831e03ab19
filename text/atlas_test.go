package text_test

import (
	"bytes"
	"image"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/db47h/sprig/gpu"
	"github.com/db47h/sprig/gpu/gputest"
	"github.com/db47h/sprig/text"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

// boxes renders every rune as a solid box of a rune dependent size filled
// with the rune's value. Runes in fail return an error.
type boxes struct {
	fail string
}

func (b boxes) metrics(r rune) text.Metrics {
	if r == ' ' {
		return text.Metrics{Advance: image.Pt(5, 0)}
	}
	w, h := int(r%5)+1, int(r%7)+2
	return text.Metrics{
		Size:    image.Pt(w, h),
		Bearing: image.Pt(int(r%2), h),
		Advance: image.Pt(w+1, 0),
	}
}

func (b boxes) Glyph(r rune) (*image.Alpha, text.Metrics, error) {
	if strings.ContainsRune(b.fail, r) {
		return nil, text.Metrics{}, errors.Errorf("broken glyph %q", r)
	}
	m := b.metrics(r)
	mask := image.NewAlpha(image.Rectangle{Max: m.Size})
	for i := range mask.Pix {
		mask.Pix[i] = byte(r)
	}
	return mask, m, nil
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func TestAtlas_packing(t *testing.T) {
	var dev gputest.Device
	l, _ := quietLogger()
	a, err := text.NewAtlas(&dev, boxes{}, text.Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	var b boxes
	var want image.Point
	for r := text.FirstRune; r <= text.LastRune; r++ {
		m := b.metrics(r)
		want.X += m.Size.X
		if m.Size.Y > want.Y {
			want.Y = m.Size.Y
		}
	}
	if a.Size() != want {
		t.Fatalf("atlas size %v, want %v", a.Size(), want)
	}
	tex := dev.Textures[0]
	if d := tex.Desc(); d.Format != gpu.R8 || d.Width != want.X || d.Height != want.Y {
		t.Fatalf("atlas texture %dx%d format %v", d.Width, d.Height, d.Format)
	}

	var next float32
	for r := text.FirstRune; r <= text.LastRune; r++ {
		g := a.Glyph(r)
		m := b.metrics(r)
		if g.Advance != m.Advance {
			t.Errorf("%q: advance %v, want %v", r, g.Advance, m.Advance)
		}
		if !g.Valid() {
			if r != ' ' {
				t.Errorf("%q: not valid", r)
			}
			continue
		}
		if g.Offset < 0 || g.Offset+g.Span[0] > 1+1e-6 || g.Span[1] > 1+1e-6 {
			t.Errorf("%q: UVs out of bounds: offset %g span %v", r, g.Offset, g.Span)
		}
		if math.Abs(float64(g.Offset-next)) > 1e-5 {
			t.Errorf("%q: offset %g, want %g", r, g.Offset, next)
		}
		next = g.Offset + g.Span[0]
		if by := m.Bearing.Y - (want.Y - m.Size.Y); g.Bearing.Y != by {
			t.Errorf("%q: bearing.y %d, want %d", r, g.Bearing.Y, by)
		}
		x := int(math.Round(float64(g.Offset) * float64(want.X)))
		if p := tex.At(x, m.Size.Y-1)[0]; p != byte(r) {
			t.Errorf("%q: atlas pixel at (%d,%d) = %d", r, x, m.Size.Y-1, p)
		}
	}
}

func TestAtlas_padding(t *testing.T) {
	var dev gputest.Device
	l, _ := quietLogger()
	a, err := text.NewAtlas(&dev, boxes{}, text.Padding(2), text.Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	w := float32(a.Size().X)
	prev := a.Glyph('!')
	for r := '"'; r <= text.LastRune; r++ {
		g := a.Glyph(r)
		want := prev.Offset + prev.Span[0] + 2/w
		if math.Abs(float64(g.Offset-want)) > 1e-5 {
			t.Fatalf("%q: offset %g, want %g", r, g.Offset, want)
		}
		if g.Offset+g.Span[0] > 1 {
			t.Fatalf("%q: glyph overflows the atlas", r)
		}
		prev = g
	}
}

func TestAtlas_skipFailed(t *testing.T) {
	var dev gputest.Device
	l, buf := quietLogger()
	a, err := text.NewAtlas(&dev, boxes{fail: "x"}, text.Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	if g := a.Glyph('x'); g.Valid() || g.Advance.X != 0 {
		t.Errorf("failed glyph not zero: %+v", *g)
	}
	if !a.Glyph('y').Valid() {
		t.Error("glyph after failed glyph not valid")
	}
	if !strings.Contains(buf.String(), `skipping glyph 'x'`) {
		t.Errorf("failed glyph not logged: %q", buf.String())
	}
}

func TestAtlas_noGlyphs(t *testing.T) {
	var all []rune
	for r := text.FirstRune; r <= text.LastRune; r++ {
		all = append(all, r)
	}
	var dev gputest.Device
	l, _ := quietLogger()
	_, err := text.NewAtlas(&dev, boxes{fail: string(all)}, text.Logger(l))
	if errors.Cause(err) != text.ErrNoGlyphs {
		t.Fatalf("got error %v, want %v", err, text.ErrNoGlyphs)
	}
	if len(dev.Textures) != 0 {
		t.Fatal("texture created for an empty atlas")
	}
}

func TestAtlas_textureError(t *testing.T) {
	dev := gputest.Device{TextureErr: errors.New("out of memory")}
	l, _ := quietLogger()
	if _, err := text.NewAtlas(&dev, boxes{}, text.Logger(l)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestAtlas_glyphRange(t *testing.T) {
	var dev gputest.Device
	l, _ := quietLogger()
	a, err := text.NewAtlas(&dev, boxes{}, text.Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []rune{0, '\n', 31, 128, 'é', '世'} {
		if g := a.Glyph(r); g != nil {
			t.Errorf("Glyph(%q) = %+v, want nil", r, *g)
		}
	}
	if g := a.Glyph('A'); g == nil || !g.Valid() {
		t.Error("Glyph('A') not valid")
	}
	a.Close()
	if !dev.Textures[0].Deleted {
		t.Error("atlas texture not released")
	}
}

func TestAtlas_goRegular(t *testing.T) {
	f, err := text.NewFaceRasterizer(goregular.TTF, text.DefaultFontSize)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var dev gputest.Device
	l, buf := quietLogger()
	a, err := text.NewAtlas(&dev, f, text.Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() > 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
	if a.FontSize() != text.DefaultFontSize {
		t.Errorf("font size %g", a.FontSize())
	}
	if sz := a.Size(); sz.Y <= 0 || sz.Y > 2*text.DefaultFontSize {
		t.Errorf("odd atlas height %d", sz.Y)
	}
	if g := a.Glyph(' '); g.Valid() || g.Advance.X <= 0 {
		t.Errorf("space: %+v", *g)
	}
	for r := '!'; r <= '~'; r++ {
		g := a.Glyph(r)
		if !g.Valid() {
			t.Errorf("%q: not valid", r)
			continue
		}
		if g.Advance.X <= 0 {
			t.Errorf("%q: advance %v", r, g.Advance)
		}
		if g.Offset+g.Span[0] > 1+1e-6 || g.Span[1] > 1+1e-6 {
			t.Errorf("%q: UVs out of bounds: offset %g span %v", r, g.Offset, g.Span)
		}
	}
	// descenders hang below the baseline, caps sit on it.
	bottom := func(g *text.Glyph) int { return 2*g.Size.Y - g.Bearing.Y }
	if p, cap := a.Glyph('p'), a.Glyph('H'); bottom(p) <= bottom(cap) {
		t.Errorf("'p' does not extend below 'H': p %+v, H %+v", *p, *cap)
	}
}

func TestNewFaceRasterizer_badFont(t *testing.T) {
	if _, err := text.NewFaceRasterizer([]byte("not a font"), 12); err == nil {
		t.Fatal("expected an error")
	}
}
