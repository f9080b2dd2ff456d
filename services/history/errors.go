package history

import (
	"errors"
	"fmt"
)

var ErrStorage = errors.New("search history storage failure")

// StorageError reports a failed read or write of the persisted history.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s failed for %s: %s", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
