package backend

import (
	"errors"
	"fmt"
)

var ErrNetwork = errors.New("search backend request failed")

// NetworkError is returned for transport failures and non-2xx responses.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend responded with status %d: %s", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
