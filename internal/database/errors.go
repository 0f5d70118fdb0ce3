package database

import (
	"errors"
	"fmt"
)

// ErrMigrationFailed marks a schema migration that did not reach its target version.
var ErrMigrationFailed = errors.New("schema migration failed")

// StorageError is returned for every failed statement against the local store.
type StorageError struct {
	Op        string
	Statement string
	Err       error
}

func (e *StorageError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Statement, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
