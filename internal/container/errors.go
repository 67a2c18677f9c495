package container

import (
	"fmt"
	"strings"
)

// NotFoundError reports a resolve request for an unregistered contract.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no descriptor registered for %s", e.Key)
}

// CycleError reports a dependency cycle detected during resolution. Chain is
// the ordered walk of contract keys, ending on the repeated key.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "circular dependency: " + strings.Join(e.Chain, " -> ")
}

// FactoryError wraps a failure raised by a contract's own factory.
type FactoryError struct {
	Key string
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("factory for %s failed: %v", e.Key, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}

// ClosedError reports use of a container or scope after it was closed.
type ClosedError struct{}

func (e *ClosedError) Error() string {
	return "container is closed"
}

// DisposeError wraps a failure raised by one instance's disposal hook.
type DisposeError struct {
	Key string
	Err error
}

func (e *DisposeError) Error() string {
	return fmt.Sprintf("disposing %s failed: %v", e.Key, e.Err)
}

func (e *DisposeError) Unwrap() error {
	return e.Err
}

// ValidationError reports the static problems found by Validate.
type ValidationError struct {
	Missing []string
	Cycles  [][]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing dependencies: %s", strings.Join(e.Missing, ", ")))
	}
	for _, cycle := range e.Cycles {
		parts = append(parts, "circular dependency: "+strings.Join(cycle, " -> "))
	}
	return strings.Join(parts, "; ")
}
