package types

import "math"

// EntityID identifies an entity within a World. The low 32 bits hold the
// entity's slot index and the high 32 bits hold the slot's generation
// counter at the time the id was issued. An id goes stale as soon as its
// slot is recycled under a higher generation.
type EntityID uint64

// Nil is a sentinel EntityID that never identifies a live entity.
const Nil = EntityID(math.MaxUint64)

// NewEntityID packs a slot index and a generation counter into an EntityID.
func NewEntityID(slot uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(slot))
}

// Slot returns the entity's slot index.
func (id EntityID) Slot() uint32 {
	return uint32(id)
}

// Generation returns the generation counter the id was issued under.
func (id EntityID) Generation() uint32 {
	return uint32(id >> 32)
}
