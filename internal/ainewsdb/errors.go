package ainewsdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets a URL with no stored row.
var ErrNotFound = errors.New("article not found")

// StorageError wraps a failure of the underlying database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
