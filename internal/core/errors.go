package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a missing host, client, site, job or backup.
var ErrNotFound = errors.New("not found")

// ErrAlreadyActive is returned when reactivating a site that is not
// suspended. It is a conflict, not a silent no-op.
var ErrAlreadyActive = errors.New("site is already active")

// ConflictError rejects an operation that would violate a state invariant,
// such as starting a second deployment while one is in flight. It is raised
// synchronously, never as a background failure.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

// IsConflict reports whether err is (or wraps) a ConflictError or
// ErrAlreadyActive.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, ErrAlreadyActive)
}
