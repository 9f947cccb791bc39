package persistence

import "context"

// Store is the whole-document persistence contract. Load and Save move the
// entire state in one piece; there is no finer-grained read or write API.
// Every mutation follows the same shape: load the full state, mutate it in
// memory, save the full state back.
type Store interface {
	// Load reads the full document. A missing, empty, or malformed backing
	// store yields a zeroed state that is written back immediately; any other
	// failure propagates to the caller.
	Load(ctx context.Context) (State, error)

	// Save overwrites the full document with the provided state.
	Save(ctx context.Context, state State) error

	// Update runs the load-mutate-save sequence as a unit. Implementations
	// serialize concurrent updates so one in-process writer cannot clobber
	// another's append.
	Update(ctx context.Context, mutate func(*State) error) error

	// Close releases resources held by the store.
	Close() error
}
