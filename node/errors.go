package node

import (
	"errors"
	"fmt"
)

var (
	ErrNodeRunning    = errors.New("node already running")
	ErrNodeStopped    = errors.New("node not started")
	ErrServiceUnknown = errors.New("unknown service")
)

type DuplicateServiceError struct {
	Kind string
}

func (e *DuplicateServiceError) Error() string {
	return fmt.Sprintf("duplicate service: %v", e.Kind)
}

// StopError is returned if a Node fails to stop either any of its registered
// services or itself.
type StopError struct {
	Server   error
	Services map[string]error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("server: %v, services: %v", e.Server, e.Services)
}
