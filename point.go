package sprig

import (
	"fmt"
	"image"
)

// A Point is an X, Y coordinate pair in pixels.
type Point struct {
	X float32
	Y float32
}

func PtPt(p image.Point) Point { return Point{float32(p.X), float32(p.Y)} }
func Pt(x, y float32) Point    { return Point{x, y} }
func PtI(x, y int) Point       { return Point{float32(x), float32(y)} }

func (p Point) Add(pt Point) Point  { return Point{p.X + pt.X, p.Y + pt.Y} }
func (p Point) Sub(pt Point) Point  { return Point{p.X - pt.X, p.Y - pt.Y} }
func (p Point) Div(k float32) Point { return Point{p.X / k, p.Y / k} }
func (p Point) Mul(k float32) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Eq(pt Point) bool    { return p.X == pt.X && p.Y == pt.Y }

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// An Extent is an axis-aligned rectangle given by its top-left corner and its
// size. Y grows downwards.
type Extent struct {
	Pos  Point
	Size Point
}

// Ext is shorthand for Extent{Pt(x, y), Pt(w, h)}.
func Ext(x, y, w, h float32) Extent {
	return Extent{Point{x, y}, Point{w, h}}
}

// Max returns the bottom-right corner of e.
func (e Extent) Max() Point {
	return e.Pos.Add(e.Size)
}

// Contains reports whether p is inside e.
func (e Extent) Contains(p Point) bool {
	m := e.Max()
	return e.Pos.X <= p.X && p.X < m.X &&
		e.Pos.Y <= p.Y && p.Y < m.Y
}

// Overlaps reports whether e and o share a non-empty area.
func (e Extent) Overlaps(o Extent) bool {
	em, om := e.Max(), o.Max()
	return e.Pos.X < om.X && o.Pos.X < em.X &&
		e.Pos.Y < om.Y && o.Pos.Y < em.Y
}

func (e Extent) String() string {
	return fmt.Sprintf("%v+%v", e.Pos, e.Size)
}
