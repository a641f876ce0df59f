package storage

import (
	"errors"
	"fmt"
	"net"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrObjectNotFound marks a fetch of a key that does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrAccessDenied marks a request rejected by the store's access policy.
	ErrAccessDenied = errors.New("access denied")
)

// TransientError wraps failures that look retriable on the remote side:
// network faults, throttling, server errors. The batch still isolates them per
// item, but callers log them at elevated severity.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err carries a TransientError anywhere in its
// chain.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classify maps a raw client error onto the pipeline's taxonomy. Anything
// unrecognized passes through unchanged and is treated as fatal for that item.
func classify(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrObjectNotFound
	case "AccessDenied":
		return ErrAccessDenied
	case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
		return &TransientError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransientError{Err: err}
	}

	return err
}
