package client

import "fmt"

// TransportError reports that the registry could not be reached or did not
// produce a usable response: connection failures, DNS errors, timeouts,
// and non-JSON bodies. The registry state is unknown to the caller.
type TransportError struct {
	Op  string // operation that failed, e.g. "resolve"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("soul %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RegistryError reports that the registry was reachable but rejected the
// request with a non-2xx status. Body carries the raw response so callers
// can inspect the registry's reason.
type RegistryError struct {
	StatusCode int
	Body       string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("soul registry returned HTTP %d: %s", e.StatusCode, e.Body)
}
