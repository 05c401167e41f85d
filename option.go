package tabular

import "github.com/rs/zerolog"

const defaultChunkSize = 4096

// WorldOption augments how a World is constructed.
type WorldOption func(*World)

// WithLogger sets the World's logger. The default logger discards
// everything.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// WithChunkSize sets the number of slots per column chunk. The default is
// 4096. The chunk size is fixed at column creation, so this must be set
// before any component type is registered.
func WithChunkSize(slots uint32) WorldOption {
	return func(w *World) {
		if slots > 0 {
			w.chunkSize = slots
		}
	}
}

// WithInitialCapacity pre-sizes the entity slot table for n entities.
func WithInitialCapacity(n int) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.generations = make([]uint32, 0, n)
		}
	}
}
