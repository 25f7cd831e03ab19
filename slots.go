package sprig

import "github.com/db47h/sprig/gpu"

// A SlotTable maps the textures referenced by pending quads to small integer
// slots, one per texture unit.
//
// When a new texture arrives and all slots are taken, the evict function is
// called so that the pending quads can be drawn with the current bindings,
// then the table starts over from slot 0.
type SlotTable struct {
	max      int
	evict    func()
	slots    map[uint32]int
	textures []gpu.Texture
}

func newSlotTable(max int, evict func()) *SlotTable {
	if max < 1 {
		max = 1
	}
	return &SlotTable{
		max:      max,
		evict:    evict,
		slots:    make(map[uint32]int, max),
		textures: make([]gpu.Texture, 0, max),
	}
}

// Assign returns the slot of t, assigning the next free one if t is not in the
// table yet.
func (st *SlotTable) Assign(t gpu.Texture) int {
	id := t.ID()
	if s, ok := st.slots[id]; ok {
		return s
	}
	if len(st.textures) >= st.max {
		if st.evict != nil {
			st.evict()
		}
		st.Reset()
	}
	s := len(st.textures)
	st.slots[id] = s
	st.textures = append(st.textures, t)
	return s
}

// Slot returns the slot of t and whether t is in the table.
func (st *SlotTable) Slot(t gpu.Texture) (int, bool) {
	s, ok := st.slots[t.ID()]
	return s, ok
}

// Reset empties the table.
func (st *SlotTable) Reset() {
	for id := range st.slots {
		delete(st.slots, id)
	}
	for i := range st.textures {
		st.textures[i] = nil
	}
	st.textures = st.textures[:0]
}

// Len returns the number of assigned slots.
func (st *SlotTable) Len() int { return len(st.textures) }

// Max returns the slot capacity.
func (st *SlotTable) Max() int { return st.max }

// Textures returns the assigned textures in slot order. The returned slice is
// only valid until the next call to Assign or Reset.
func (st *SlotTable) Textures() []gpu.Texture { return st.textures }
