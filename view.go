package tabular

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/tabular-ecs/tabular/column"
	"github.com/tabular-ecs/tabular/filter"
	"github.com/tabular-ecs/tabular/iterators"
	"github.com/tabular-ecs/tabular/types"
)

// View is a lightweight, non-owning cursor over the cached group for one
// component combination. It reads through the group's sparse set and the
// bound columns without mutating either, and stays live: mutations on the
// World are reflected in the view immediately. Iteration order is stable
// while no mutation occurs, but is not insertion order once entities have
// been removed.
type View struct {
	world  *World
	filter filter.Filter
	g      *group
}

// View returns a view over all live entities holding every one of the
// given components, building the group cache entry on first request.
func (w *World) View(comps ...types.ComponentID) (*View, error) {
	if len(comps) == 0 {
		return nil, eris.Wrap(ErrNoComponents, "view")
	}
	if err := w.checkComponentSet(comps); err != nil {
		return nil, err
	}
	f, err := filter.New(comps...)
	if err != nil {
		return nil, err
	}
	return &View{world: w, filter: f, g: w.groupFor(f)}, nil
}

// Len returns the number of entities in the view.
func (v *View) Len() int {
	return v.g.set.Len()
}

// Empty reports whether the view has no entities.
func (v *View) Empty() bool {
	return v.g.set.Empty()
}

// Contains reports whether id is in the view.
func (v *View) Contains(id types.EntityID) bool {
	return v.g.set.Contains(id)
}

// At returns the entity at iteration position i, 0 <= i < Len().
func (v *View) At(i int) types.EntityID {
	return v.g.set.At(i)
}

// Each calls fn for every entity in the view, in iteration order, stopping
// early if fn returns false. fn must not mutate the World.
func (v *View) Each(fn func(types.EntityID) bool) {
	it := iterators.NewEntityIterator(v.g.set.Dense())
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

// EachReverse is Each in reverse iteration order.
func (v *View) EachReverse(fn func(types.EntityID) bool) {
	it := iterators.NewReverseEntityIterator(v.g.set.Dense())
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

// First returns the first entity in iteration order, or ErrNoMatch if the
// view is empty.
func (v *View) First() (types.EntityID, error) {
	if v.g.set.Empty() {
		return iterators.BadID, eris.Wrap(ErrNoMatch, "first")
	}
	return v.g.set.At(0), nil
}

// Iterator returns a cursor over the view's entities.
func (v *View) Iterator() iterators.EntityIterator {
	return iterators.NewEntityIterator(v.g.set.Dense())
}

// EachParallel splits the view across worker goroutines and calls fn once
// per entity. No mutation may be in flight while it runs, and fn sees each
// entity exactly once, so concurrent component access through ViewGet is
// safe for the usual disjoint-handle reasons. workers <= 0 uses
// GOMAXPROCS. The first error cancels the remaining work.
func (v *View) EachParallel(ctx context.Context, workers int, fn func(types.EntityID) error) error {
	dense := v.g.set.Dense()
	n := len(dense)
	if n == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	eg, ctx := errgroup.WithContext(ctx)
	stride := (n + workers - 1) / workers
	for start := 0; start < n; start += stride {
		end := start + stride
		if end > n {
			end = n
		}
		shard := dense[start:end]
		eg.Go(func() error {
			for _, id := range shard {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(id); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

// ViewGet returns a pointer to the entity's T value through the view. T
// must be part of the view's component combination and the entity must be
// in the view.
func ViewGet[T any](v *View, id types.EntityID) (*T, error) {
	cid, err := ID[T](v.world)
	if err != nil {
		return nil, err
	}
	if !v.filter.Contains(cid) {
		return nil, eris.Wrapf(ErrComponentNotInView, "type %s", typeOf[T]().String())
	}
	if !v.Contains(id) {
		return nil, eris.Wrap(ErrEntityDoesNotExist, "view get")
	}
	slab, err := column.Access[T](v.world.columns[cid])
	if err != nil {
		return nil, err
	}
	return slab.At(id.Slot()), nil
}

// View1 returns a view over entities holding A, registering A if needed.
func View1[A any](w *World) *View {
	v, err := w.View(Register[A](w))
	if err != nil {
		// A single freshly registered id can be neither duplicated nor
		// unmanaged.
		panic(err)
	}
	return v
}

// View2 returns a view over entities holding both A and B.
func View2[A, B any](w *World) (*View, error) {
	return w.View(Register[A](w), Register[B](w))
}

// View3 returns a view over entities holding A, B and C.
func View3[A, B, C any](w *World) (*View, error) {
	return w.View(Register[A](w), Register[B](w), Register[C](w))
}

// View4 returns a view over entities holding A, B, C and D.
func View4[A, B, C, D any](w *World) (*View, error) {
	return w.View(Register[A](w), Register[B](w), Register[C](w), Register[D](w))
}
