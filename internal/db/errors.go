package db

import (
	"fmt"
)

// PersistenceError wraps a failed read or upsert against either store.
// At prompt level it aborts that prompt's aggregation step; it never aborts
// a whole batch.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
