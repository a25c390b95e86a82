package chains

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned when a recipient or account address cannot
// be parsed for the target chain
var ErrInvalidAddress = errors.New("invalid address")

// NetworkError wraps a failed RPC or HTTP call. Op names the remote
// operation, Err carries the underlying error text.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError returns nil when err is nil
func NewNetworkError(op string, err error) error {
	if err == nil {
		return nil
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}
