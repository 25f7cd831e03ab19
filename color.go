package sprig

import "image/color"

// Color implements color.Color. It stores non alpha-premultiplied color
// components in the range [0, 1], which is what the vertex shaders expect.
type Color struct {
	R, G, B, A float32
}

// White is the tint used for untinted textured quads.
var White = Color{1, 1, 1, 1}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A * 0xffff)
	r = uint32(c.R * c.A * 0xffff)
	g = uint32(c.G * c.A * 0xffff)
	b = uint32(c.B * c.A * 0xffff)
	return
}

// ColorModel converts any color.Color to a Color; i.e. the result can safely be
// casted to a Color.
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{R: float32(n.R) / 0xffff, G: float32(n.G) / 0xffff, B: float32(n.B) / 0xffff, A: float32(n.A) / 0xffff}
}

// colorOf converts c to a Color. A nil color is White.
func colorOf(c color.Color) Color {
	if c == nil {
		return White
	}
	return ColorModel.Convert(c).(Color)
}
