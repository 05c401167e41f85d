// Package tabular is an in-memory columnar entity store. Entities are
// uniquely identified records that dynamically acquire and lose typed
// components; each component type lives in its own chunk-allocated column,
// and queries return live, incrementally maintained result sets for
// arbitrary component combinations.
//
// # Quick start
//
//	w := tabular.NewWorld()
//
//	type Position struct{ X, Y float64 }
//	type Velocity struct{ DX, DY float64 }
//
//	e, _ := w.Create()
//	tabular.Assign(w, e, Position{1, 2})
//	tabular.Assign(w, e, Velocity{0.5, 0})
//
//	v, _ := tabular.View2[Position, Velocity](w)
//	v.Each(func(id types.EntityID) bool {
//		pos, _ := tabular.ViewGet[Position](v, id)
//		vel, _ := tabular.ViewGet[Velocity](v, id)
//		pos.X += vel.DX
//		return true
//	})
//
// # Concurrency
//
// The World is not internally synchronized: callers must serialize all
// mutating operations against each other and against concurrent reads.
// Within a read-only epoch, multiple goroutines may call view accessors
// concurrently for disjoint entity ids; View.EachParallel fans iteration
// out under that contract. Chunked columns never move allocated chunks and
// group sets are pointer-stable, so views obtained earlier stay bound
// across later component registrations.
package tabular
