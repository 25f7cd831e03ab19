package sprig

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/db47h/sprig/gpu"
	"github.com/db47h/sprig/gpu/gputest"
	"github.com/db47h/sprig/text"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

var errTest = errors.New("test error")

// mono rasterizes every printable rune as a 10x20 box whose top is 16 pixels
// above the baseline. Spaces are empty. Pen advance is 12.
type mono struct{}

func (mono) Glyph(r rune) (*image.Alpha, text.Metrics, error) {
	m := text.Metrics{Advance: image.Pt(12, 0)}
	if r == ' ' {
		return image.NewAlpha(image.Rectangle{}), m, nil
	}
	m.Size = image.Pt(10, 20)
	m.Bearing = image.Pt(1, 16)
	mask := image.NewAlpha(image.Rectangle{Max: m.Size})
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	return mask, m, nil
}

func testLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func newTestRenderer(t *testing.T, dev *gputest.Device, opts ...Option) *Renderer {
	t.Helper()
	l, _ := testLogger()
	r, err := New(dev, mono{}, append([]Option{Logger(l)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func vertices(c gputest.DrawCall) []Vertex {
	return c.Vertices.([]Vertex)
}

func TestRenderer_orderPreserved(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	defer r.Close()

	colors := []color.Color{
		color.NRGBA{255, 0, 0, 255},
		color.NRGBA{0, 255, 0, 255},
		color.NRGBA{0, 0, 255, 255},
	}
	r.Begin(800, 600)
	for i, c := range colors {
		r.DrawQuad(Ext(float32(10*i), 0, 5, 5), c)
	}
	r.End()

	calls := dev.CallsTo(r.quads.Program())
	if len(calls) != 1 {
		t.Fatalf("%d quad draw calls", len(calls))
	}
	vs := vertices(calls[0])
	if len(vs) != 12 || len(calls[0].Indices) != 18 {
		t.Fatalf("%d vertices, %d indices", len(vs), len(calls[0].Indices))
	}
	for i, c := range colors {
		want := colorOf(c)
		for j := 0; j < 4; j++ {
			v := vs[4*i+j]
			if v.Color != want || v.Slot != NoTexture {
				t.Errorf("quad %d vertex %d: %+v", i, j, v)
			}
		}
		if x := vs[4*i].Position.X; x != float32(10*i) {
			t.Errorf("quad %d: x = %g", i, x)
		}
		base := uint32(4 * i)
		if got := calls[0].Indices[6*i : 6*i+6]; got[0] != base || got[5] != base+3 {
			t.Errorf("quad %d: indices %v", i, got)
		}
	}
	if s := r.Stats(); s.DrawCalls != 1 || s.Quads != 3 || s.Glyphs != 0 {
		t.Errorf("stats %+v", s)
	}
}

func TestRenderer_quadVertices(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Begin(100, 100)
	r.DrawQuad(Ext(10, 20, 30, 40), nil)
	want := [4]Point{{10, 20}, {10, 60}, {40, 60}, {40, 20}}
	c := r.quads.Commands()[0]
	for i, v := range c.Vertices {
		if v.Position != want[i] {
			t.Errorf("vertex %d at %v, want %v", i, v.Position, want[i])
		}
		if v.Color != White {
			t.Errorf("nil color converted to %v", v.Color)
		}
	}
	if c.Indices != quadIndices {
		t.Errorf("indices %v", c.Indices)
	}
}

func TestRenderer_twoPass(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Begin(320, 200)
	r.DrawText(Pt(0, 0), 24, color.White, "A")
	r.DrawQuad(Ext(0, 0, 50, 50), color.Black)
	r.End()

	if len(dev.Calls) != 2 {
		t.Fatalf("%d draw calls", len(dev.Calls))
	}
	if dev.Calls[0].Program != r.quads.Program() || dev.Calls[1].Program != r.glyphs.Program() {
		t.Fatal("glyphs not drawn after quads")
	}
	b := dev.Calls[1].Bindings
	if len(b) != 1 || b[0].Unit != 0 || b[0].Texture != r.Atlas().Texture() {
		t.Errorf("glyph bindings %+v", b)
	}
	if len(dev.Calls[0].Bindings) != 0 {
		t.Errorf("untextured quads bound %d textures", len(dev.Calls[0].Bindings))
	}
}

func TestRenderer_redQuadHi(t *testing.T) {
	var dev gputest.Device
	l, _ := testLogger()
	r, err := NewWithFont(&dev, goregular.TTF, Logger(l))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	r.Begin(800, 400)
	r.DrawQuad(Ext(100, 100, 200, 150), color.RGBA{255, 0, 0, 255})
	r.DrawText(Pt(50, 50), 24, color.White, "Hi")
	r.End()

	if len(dev.Calls) != 2 {
		t.Fatalf("%d draw calls", len(dev.Calls))
	}
	q, g := dev.Calls[0], dev.Calls[1]
	if n := len(vertices(q)); n != 4 || len(q.Indices) != 6 {
		t.Errorf("quad call: %d vertices, %d indices", n, len(q.Indices))
	}
	if n := len(vertices(g)); n != 8 || len(g.Indices) != 12 {
		t.Errorf("glyph call: %d vertices, %d indices", n, len(g.Indices))
	}
	proj := Projection(800, 400)
	for i, c := range dev.Calls {
		if c.Uniforms["uProjection"] != proj {
			t.Errorf("call %d: wrong projection", i)
		}
	}
	if v := vertices(q)[0]; v.Color != (Color{1, 0, 0, 1}) {
		t.Errorf("quad color %v", v.Color)
	}
	gv := vertices(g)
	if gv[4].Position.X <= gv[0].Position.X {
		t.Error("'i' not drawn right of 'H'")
	}
	if s := r.Stats(); s.DrawCalls != 2 || s.Quads != 1 || s.Glyphs != 2 {
		t.Errorf("stats %+v", s)
	}
}

func TestRenderer_forcedFlush(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	ts := newTextures(t, &dev, MaxSlots+1)

	r.Begin(800, 600)
	for i, tex := range ts {
		r.DrawTexture(Ext(float32(i), 0, 1, 1), drawable{tex})
	}
	r.End()

	calls := dev.CallsTo(r.quads.Program())
	if len(calls) != 2 {
		t.Fatalf("%d quad draw calls", len(calls))
	}
	first, second := calls[0], calls[1]
	if n := len(vertices(first)); n != 4*MaxSlots {
		t.Errorf("first batch has %d vertices", n)
	}
	if len(first.Bindings) != MaxSlots {
		t.Fatalf("first batch binds %d textures", len(first.Bindings))
	}
	for i, b := range first.Bindings {
		if b.Unit != TextureStart+i || b.Texture != ts[i] {
			t.Errorf("binding %d: %+v", i, b)
		}
	}
	for i, v := range vertices(first) {
		if v.Slot != int32(i/4) {
			t.Errorf("vertex %d: slot %d", i, v.Slot)
		}
	}
	sv := vertices(second)
	if len(sv) != 4 || sv[0].Slot != 0 {
		t.Fatalf("second batch: %d vertices, slot %d", len(sv), sv[0].Slot)
	}
	if len(second.Bindings) != 1 || second.Bindings[0].Unit != TextureStart || second.Bindings[0].Texture != ts[MaxSlots] {
		t.Errorf("second batch bindings %+v", second.Bindings)
	}
	if s := r.Stats(); s.ForcedFlushes != 1 || s.DrawCalls != 2 || s.Quads != MaxSlots+1 {
		t.Errorf("stats %+v", s)
	}
}

func TestRenderer_sameTexture(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	tex := newTextures(t, &dev, 1)[0]
	r.Begin(10, 10)
	for i := 0; i < 100; i++ {
		r.DrawSprite(Ext(0, 0, 1, 1), drawable{tex}, color.Gray{128})
	}
	r.End()
	if len(dev.Calls) != 1 || len(dev.Calls[0].Bindings) != 1 {
		t.Fatalf("%d calls", len(dev.Calls))
	}
	for _, v := range vertices(dev.Calls[0]) {
		if v.Slot != 0 {
			t.Fatalf("slot %d", v.Slot)
		}
	}
}

func TestRenderer_clampSlots(t *testing.T) {
	dev := gputest.Device{Units: 9}
	r := newTestRenderer(t, &dev)
	if r.slots.Max() != 8 {
		t.Fatalf("slot table holds %d textures", r.slots.Max())
	}
	p := r.quads.Program().(*gputest.Program)
	units := p.Uniforms["uTextures"].([]int32)
	if len(units) != 8 || units[0] != TextureStart || units[7] != TextureStart+7 {
		t.Errorf("uTextures = %v", units)
	}
	if !strings.Contains(p.Fragment, "uTextures[8]") {
		t.Error("fragment shader not sized for 8 textures")
	}
	if u := r.glyphs.Program().(*gputest.Program).Uniforms["uAtlas"].([]int32); len(u) != 1 || u[0] != 0 {
		t.Errorf("uAtlas = %v", u)
	}

	dev = gputest.Device{Units: 1}
	l, _ := testLogger()
	if _, err := New(&dev, mono{}, Logger(l)); err == nil {
		t.Error("expected an error with a single texture unit")
	}
}

func TestRenderer_textLayout(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Begin(200, 200)
	r.DrawText(Pt(10, 20), 24, nil, "a\nb\tc d")
	cs := r.glyphs.Commands()
	if len(cs) != 4 {
		t.Fatalf("%d glyphs", len(cs))
	}
	// atlas height is 20, so the corrected bearing is 16 and glyph tops sit 4
	// pixels below the pen.
	want := []Point{{11, 24}, {11, 48}, {71, 48}, {95, 48}}
	for i, c := range cs {
		if p := c.Vertices[0].Position; p != want[i] {
			t.Errorf("glyph %d at %v, want %v", i, p, want[i])
		}
		if sz := c.Vertices[2].Position.Sub(c.Vertices[0].Position); sz != (Point{10, 20}) {
			t.Errorf("glyph %d size %v", i, sz)
		}
	}
	g := r.Atlas().Glyph('a')
	if uv := cs[0].Vertices[2].TexCoord; uv != (Point{g.Offset + g.Span[0], g.Span[1]}) {
		t.Errorf("glyph UV %v", uv)
	}

	r.Begin(200, 200)
	r.DrawText(Pt(0, 0), 48, nil, "x")
	c := r.glyphs.Commands()[0]
	if p, sz := c.Vertices[0].Position, c.Vertices[2].Position.Sub(c.Vertices[0].Position); p != (Point{2, 8}) || sz != (Point{20, 40}) {
		t.Errorf("scaled glyph at %v size %v", p, sz)
	}
}

func TestRenderer_fallbackGlyph(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Begin(10, 10)
	r.DrawText(Pt(0, 0), 24, nil, "é")
	cs := r.glyphs.Commands()
	if len(cs) != 1 {
		t.Fatalf("%d glyphs", len(cs))
	}
	q := r.Atlas().Glyph('?')
	if u := cs[0].Vertices[0].TexCoord.X; u != q.Offset {
		t.Errorf("fallback glyph u = %g, want %g", u, q.Offset)
	}
}

func TestRenderer_drawSymbol(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Begin(10, 10)
	r.DrawSymbol(Pt(0, 0), 24, nil, r.Atlas().Glyph(' '))
	r.DrawSymbol(Pt(0, 0), 24, nil, r.Atlas().Glyph('\n'))
	if r.glyphs.Len() != 0 {
		t.Fatal("empty glyphs pushed")
	}
	r.DrawSymbol(Pt(5, 5), 12, color.Black, r.Atlas().Glyph('Z'))
	v := r.glyphs.Commands()[0].Vertices
	if v[0].Position != (Point{5.5, 7}) || v[2].Position != (Point{10.5, 17}) {
		t.Errorf("symbol at %v-%v", v[0].Position, v[2].Position)
	}
	if v[0].Color != (Color{0, 0, 0, 1}) {
		t.Errorf("symbol color %v", v[0].Color)
	}
}

func TestRenderer_measureText(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	for _, tc := range []struct {
		s    string
		size float32
		want Point
	}{
		{"", 24, Point{}},
		{"abc", 24, Point{36, 24}},
		{"abc", 48, Point{72, 48}},
		{"ab\nabcd\na", 24, Point{48, 72}},
		{"\t", 24, Point{48, 24}},
	} {
		if got := r.MeasureText(tc.size, tc.s); got != tc.want {
			t.Errorf("MeasureText(%g, %q) = %v, want %v", tc.size, tc.s, got, tc.want)
		}
	}
}

func TestRenderer_beginDiscards(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	tex := newTextures(t, &dev, 1)[0]
	r.Begin(10, 10)
	r.DrawQuad(Ext(0, 0, 1, 1), nil)
	r.DrawTexture(Ext(0, 0, 1, 1), drawable{tex})
	r.DrawText(Pt(0, 0), 12, nil, "x")
	r.Begin(10, 10)
	r.End()
	if len(dev.Calls) != 0 || r.slots.Len() != 0 {
		t.Fatalf("%d draw calls, %d slots", len(dev.Calls), r.slots.Len())
	}
	if s := r.Stats(); s != (Stats{}) {
		t.Errorf("stats %+v", s)
	}
}

func TestRenderer_clear(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.ClearColor(color.NRGBA{0, 0, 255, 255})
	r.Clear()
	if dev.Clears != 1 || dev.ClearRGBA != [4]float32{0, 0, 1, 1} {
		t.Errorf("clears %d, color %v", dev.Clears, dev.ClearRGBA)
	}
}

func TestRenderer_close(t *testing.T) {
	var dev gputest.Device
	r := newTestRenderer(t, &dev)
	r.Close()
	for _, p := range dev.Programs {
		if !p.Deleted {
			t.Error("program not deleted")
		}
	}
	if !dev.Textures[0].Deleted {
		t.Error("atlas texture not deleted")
	}
}

func TestNew_errors(t *testing.T) {
	l, _ := testLogger()
	dev := gputest.Device{ProgramErr: errTest}
	if _, err := New(&dev, mono{}, Logger(l)); errors.Cause(err) != errTest {
		t.Errorf("got error %v", err)
	}
	if len(dev.Textures) != 1 || !dev.Textures[0].Deleted {
		t.Error("atlas texture leaked")
	}
	dev = gputest.Device{}
	if _, err := NewWithFont(&dev, []byte("nope"), Logger(l)); err == nil {
		t.Error("expected a font error")
	}
}

func TestProjection(t *testing.T) {
	m := Projection(800, 400)
	tf := func(x, y float32) (float32, float32) {
		return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
	}
	for _, tc := range []struct{ x, y, wx, wy float32 }{
		{0, 0, -1, 1},
		{800, 400, 1, -1},
		{400, 200, 0, 0},
		{800, 0, 1, 1},
	} {
		if x, y := tf(tc.x, tc.y); !near(x, tc.wx) || !near(y, tc.wy) {
			t.Errorf("(%g,%g) -> (%g,%g), want (%g,%g)", tc.x, tc.y, x, y, tc.wx, tc.wy)
		}
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -1e-6 && d < 1e-6
}

type drawable struct{ t gpu.Texture }

func (d drawable) Texture() gpu.Texture { return d.t }
func (d drawable) UV() [4]float32       { return [4]float32{0, 0, 1, 1} }
