// Package ancillary holds the per-frame set of ancillary data payloads a
// playout channel has produced (currently only SCTE-104), each already
// packed into v210-ready 32-bit words by its owning encoder.
package ancillary

// Type identifies the kind of ancillary data a Container entry carries.
type Type int

const (
	TypeSCTE104 Type = iota
)

// entry pairs a payload's Type with its packed word data.
type entry struct {
	Type Type
	Data []uint32
}

// Container is an ordered collection of ancillary data payloads for a single
// video frame. The zero value is an empty, ready-to-use Container.
type Container struct {
	items []entry
}

// Add appends data under type t. data is copied; the caller's slice may be
// reused afterward.
func (c *Container) Add(t Type, data []uint32) {
	cp := make([]uint32, len(data))
	copy(cp, data)
	c.items = append(c.items, entry{Type: t, Data: cp})
}

// Len reports the number of entries currently held.
func (c *Container) Len() int {
	return len(c.items)
}

// ForEach calls fn once per entry, in the order entries were added.
func (c *Container) ForEach(fn func(t Type, data []uint32)) {
	for _, it := range c.items {
		fn(it.Type, it.Data)
	}
}

// Clone returns an independent copy of c: mutating either Container, or the
// slices passed to a subsequent Add, never affects the other.
func (c *Container) Clone() *Container {
	out := &Container{items: make([]entry, len(c.items))}
	for i, it := range c.items {
		cp := make([]uint32, len(it.Data))
		copy(cp, it.Data)
		out.items[i] = entry{Type: it.Type, Data: cp}
	}
	return out
}
