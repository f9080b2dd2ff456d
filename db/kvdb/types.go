package kvdb

import (
	"errors"
	"fmt"
)

// maxKeySize mirrors bbolt's own key limit.
const maxKeySize = 32768

var (
	ErrNotFound       = errors.New("key not found")
	ErrInvalidKey     = errors.New("invalid key")
	ErrBucketNotFound = errors.New("bucket not found")
)

type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool { return target == ErrInvalidKey }

type NotFoundError struct {
	Bucket string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no value for %s in bucket %s", e.Key, e.Bucket)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type BucketNotFoundError struct {
	Bucket string
}

func (e *BucketNotFoundError) Error() string {
	return fmt.Sprintf("bucket %s does not exist", e.Bucket)
}

func (e *BucketNotFoundError) Is(target error) bool { return target == ErrBucketNotFound }

func validateKey(key string) error {
	switch {
	case key == "":
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	case len(key) > maxKeySize:
		return &InvalidKeyError{Key: key[:32] + "...", Reason: fmt.Sprintf("key is longer than %d bytes", maxKeySize)}
	}
	return nil
}
