package column

import "github.com/bits-and-blooms/bitset"

// Store is the type-erased face of a column's backing storage. The World
// tracks columns through this interface; typed access goes through
// Access[T], which recovers the concrete Slab.
type Store interface {
	// Accommodate ensures the chunk containing slot is allocated.
	Accommodate(slot uint32)
	// Reserve eagerly allocates every chunk covering slots [0, n).
	Reserve(n uint32)
	// Clear resets the value at slot to its zero value. The chunk holding
	// slot must be allocated.
	Clear(slot uint32)
	// CopyWithin copies the value at src into dst. Both chunks must be
	// allocated.
	CopyWithin(dst, src uint32)
	// Capacity returns the number of slots covered by allocated chunk
	// headers, whether or not each chunk is populated.
	Capacity() uint32
	// Shrink releases chunks in which no slot is marked present and trims
	// trailing unallocated chunks.
	Shrink(present *bitset.BitSet)
	// ValueAt returns the value at slot for introspection, or false if the
	// chunk holding slot is not allocated.
	ValueAt(slot uint32) (any, bool)
}

// Slab is chunk-allocated storage for values of a single component type.
// Chunks are fixed-size and allocated lazily; an allocated chunk is never
// moved or reallocated, so pointers into it stay valid for the life of the
// slab.
type Slab[T any] struct {
	chunks    [][]T
	chunkSize uint32
}

// NewSlab returns an empty slab with the given chunk size in slots.
func NewSlab[T any](chunkSize uint32) *Slab[T] {
	if chunkSize == 0 {
		chunkSize = 1
	}
	return &Slab[T]{chunkSize: chunkSize}
}

func (s *Slab[T]) chunk(slot uint32) uint32 {
	return slot / s.chunkSize
}

// At returns a pointer to the value at slot. The chunk holding slot must
// have been allocated via Accommodate or Reserve.
func (s *Slab[T]) At(slot uint32) *T {
	return &s.chunks[s.chunk(slot)][slot%s.chunkSize]
}

// Accommodate implements Store.
func (s *Slab[T]) Accommodate(slot uint32) {
	k := s.chunk(slot)
	for uint32(len(s.chunks)) <= k {
		s.chunks = append(s.chunks, nil)
	}
	if s.chunks[k] == nil {
		s.chunks[k] = make([]T, s.chunkSize)
	}
}

// Reserve implements Store.
func (s *Slab[T]) Reserve(n uint32) {
	if n == 0 {
		return
	}
	last := s.chunk(n - 1)
	for k := uint32(0); k <= last; k++ {
		s.Accommodate(k * s.chunkSize)
	}
}

// Clear implements Store.
func (s *Slab[T]) Clear(slot uint32) {
	var zero T
	*s.At(slot) = zero
}

// CopyWithin implements Store.
func (s *Slab[T]) CopyWithin(dst, src uint32) {
	*s.At(dst) = *s.At(src)
}

// Capacity implements Store.
func (s *Slab[T]) Capacity() uint32 {
	return uint32(len(s.chunks)) * s.chunkSize
}

// Shrink implements Store.
func (s *Slab[T]) Shrink(present *bitset.BitSet) {
	for k := range s.chunks {
		if s.chunks[k] == nil {
			continue
		}
		from := uint32(k) * s.chunkSize
		if i, ok := present.NextSet(uint(from)); !ok || i >= uint(from+s.chunkSize) {
			s.chunks[k] = nil
		}
	}
	n := len(s.chunks)
	for n > 0 && s.chunks[n-1] == nil {
		n--
	}
	s.chunks = s.chunks[:n]
}

// ValueAt implements Store.
func (s *Slab[T]) ValueAt(slot uint32) (any, bool) {
	k := s.chunk(slot)
	if k >= uint32(len(s.chunks)) || s.chunks[k] == nil {
		return nil, false
	}
	return *s.At(slot), true
}
