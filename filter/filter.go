// Package filter encodes requested component combinations as bitsets over
// column ids. Two filters built from the same set of components are equal
// regardless of the order the components were listed in.
package filter

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"

	"github.com/tabular-ecs/tabular/types"
)

// ErrDuplicateComponents is returned when a component combination lists the
// same component type more than once.
var ErrDuplicateComponents = eris.New("duplicate component types are not allowed")

// Filter is a bitset over column ids identifying a component combination.
// The zero Filter matches nothing and must not be used; build filters with
// New.
type Filter struct {
	bits *bitset.BitSet
}

// New builds a Filter from the given column ids. Listing the same id twice
// is a contract violation and returns ErrDuplicateComponents.
func New(ids ...types.ComponentID) (Filter, error) {
	bits := bitset.New(uint(len(ids)))
	for _, id := range ids {
		if bits.Test(uint(id)) {
			return Filter{}, eris.Wrapf(ErrDuplicateComponents, "component id %d listed twice", id)
		}
		bits.Set(uint(id))
	}
	return Filter{bits: bits}, nil
}

// MustNew is New but panics on duplicate ids. Intended for filters built
// from component sets already known to be duplicate-free.
func MustNew(ids ...types.ComponentID) Filter {
	f, err := New(ids...)
	if err != nil {
		panic(err)
	}
	return f
}

// Contains reports whether the filter includes the given column id.
func (f Filter) Contains(id types.ComponentID) bool {
	return f.bits != nil && f.bits.Test(uint(id))
}

// Len returns the number of column ids in the filter.
func (f Filter) Len() int {
	if f.bits == nil {
		return 0
	}
	return int(f.bits.Count())
}

// Each calls fn for every column id in the filter, in ascending id order,
// stopping early if fn returns false.
func (f Filter) Each(fn func(types.ComponentID) bool) {
	if f.bits == nil {
		return
	}
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		if !fn(types.ComponentID(i)) {
			return
		}
	}
}

// Key returns a canonical string form of the filter, identical for any two
// filters over the same component set. Used as the group-cache map key.
func (f Filter) Key() string {
	if f.bits == nil {
		return ""
	}
	var sb strings.Builder
	first := true
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(i), 10))
		first = false
	}
	return sb.String()
}

// Equal reports whether two filters cover the same component set.
func (f Filter) Equal(other Filter) bool {
	return f.Key() == other.Key()
}

// IDs returns the filter's column ids in ascending order.
func (f Filter) IDs() []types.ComponentID {
	ids := make([]types.ComponentID, 0, f.Len())
	f.Each(func(id types.ComponentID) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}
