package remote

import (
	"errors"
	"fmt"
)

// ConnectivityError reports that the host could not be reached or the
// connection was lost: dial failures, auth failures, session-open failures
// and command timeouts. It is distinct from a non-zero exit code: a
// connectivity failure aborts the owning job, while a command failure is
// handed to the caller's step policy.
type ConnectivityError struct {
	Addr string
	Err  error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("host %s unreachable: %v", e.Addr, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is (or wraps) a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// CommandError reports a command that ran to completion with a non-zero exit
// code.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command exited %d: %s", e.ExitCode, e.Stderr)
}
