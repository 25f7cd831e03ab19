package gpu

import "fmt"

// Kind is the primitive type of a vertex attribute component.
type Kind int

// Attribute component kinds.
const (
	Float32 Kind = iota
	Int32
)

// Size returns the size in bytes of one component.
func (k Kind) Size() int {
	switch k {
	case Float32, Int32:
		return 4
	}
	panic(fmt.Sprintf("gpu: invalid attribute kind %d", int(k)))
}

func (k Kind) String() string {
	switch k {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Attribute describes one vertex attribute: its shader input name, primitive
// kind and number of components (1 to 4).
type Attribute struct {
	Name  string
	Kind  Kind
	Count int
}

// Size returns the size in bytes of the attribute.
func (a Attribute) Size() int {
	return a.Kind.Size() * a.Count
}

// Layout is an ordered list of interleaved vertex attributes. Attribute i is
// bound to location i.
type Layout []Attribute

// Stride returns the size in bytes of one vertex.
func (l Layout) Stride() int {
	s := 0
	for _, a := range l {
		s += a.Size()
	}
	return s
}

// Offsets returns the byte offset of each attribute within a vertex.
func (l Layout) Offsets() []int {
	offs := make([]int, len(l))
	o := 0
	for i, a := range l {
		offs[i] = o
		o += a.Size()
	}
	return offs
}
