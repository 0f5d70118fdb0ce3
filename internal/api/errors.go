package api

import (
	"errors"
	"fmt"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// RemoteFetchError covers transport failures, non-2xx responses and payloads
// that do not decode into the expected shape.
type RemoteFetchError struct {
	Action     string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tabt %s (status %d): %v", e.Action, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tabt %s: %v", e.Action, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

func IsRemoteFetchError(err error) bool {
	var re *RemoteFetchError
	return errors.As(err, &re)
}

// Malformed wraps a decoding problem found while mapping a response.
func Malformed(action string, err error) error {
	return &RemoteFetchError{Action: action, Err: err}
}
