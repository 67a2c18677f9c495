package loom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avelins/loom/internal/container"
	"github.com/avelins/loom/internal/registry"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvalidRegistration
	ErrCodeUnregistered
	ErrCodeCircularDependency
	ErrCodeProviderFailed
	ErrCodeResolutionFailed
	ErrCodeDependencyNotDeclared
	ErrCodeContainerClosed
	ErrCodeDisposeFailed
	ErrCodeValidationFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:               "UNKNOWN",
	ErrCodeInvalidRegistration:   "INVALID_REGISTRATION",
	ErrCodeUnregistered:          "UNREGISTERED_DEPENDENCY",
	ErrCodeCircularDependency:    "CIRCULAR_DEPENDENCY",
	ErrCodeProviderFailed:        "PROVIDER_FAILED",
	ErrCodeResolutionFailed:      "RESOLUTION_FAILED",
	ErrCodeDependencyNotDeclared: "DEPENDENCY_NOT_DECLARED",
	ErrCodeContainerClosed:       "CONTAINER_CLOSED",
	ErrCodeDisposeFailed:         "DISPOSE_FAILED",
	ErrCodeValidationFailed:      "VALIDATION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned by every public operation. Code
// classifies the failure, Contract names the originating contract key, and
// Chain carries the ordered cycle for circular dependency failures.
type Error struct {
	Code     ErrorCode
	Message  string
	Contract string
	Cause    error
	Chain    []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Contract != "" {
		b.WriteString(fmt.Sprintf(" contract=%q:", e.Contract))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) withContract(contract string) *Error {
	e.Contract = contract
	return e
}

func (e *Error) withChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// wrapResolveErr classifies the structured errors surfaced by the
// resolution core into coded public errors. The original error stays on the
// cause chain, so dependency path context ("A depends on B: ...") is
// preserved for callers that print the error.
func wrapResolveErr(key string, err error) *Error {
	var (
		cycleErr    *container.CycleError
		notFoundErr *container.NotFoundError
		factoryErr  *container.FactoryError
		closedErr   *container.ClosedError
	)

	switch {
	case errors.As(err, &cycleErr):
		return newError(
			ErrCodeCircularDependency,
			fmt.Sprintf("circular dependency: %s", strings.Join(cycleErr.Chain, " -> ")),
			err,
		).withContract(key).withChain(cycleErr.Chain)
	case errors.As(err, &notFoundErr):
		return newError(
			ErrCodeUnregistered,
			fmt.Sprintf("no registration for %s", notFoundErr.Key),
			err,
		).withContract(notFoundErr.Key)
	case errors.As(err, &factoryErr):
		return newError(
			ErrCodeProviderFailed,
			fmt.Sprintf("factory for %s failed", factoryErr.Key),
			err,
		).withContract(factoryErr.Key)
	case errors.As(err, &closedErr):
		return newError(ErrCodeContainerClosed, "container is closed", err).withContract(key)
	default:
		return newError(ErrCodeResolutionFailed, "resolution failed", err).withContract(key)
	}
}

func wrapRegisterErr(key string, err error) *Error {
	var (
		invalidErr *registry.InvalidError
		closedErr  *container.ClosedError
	)

	switch {
	case errors.As(err, &invalidErr):
		return newError(ErrCodeInvalidRegistration, invalidErr.Reason, err).withContract(key)
	case errors.As(err, &closedErr):
		return newError(ErrCodeContainerClosed, "container is closed", err).withContract(key)
	default:
		return newError(ErrCodeInvalidRegistration, "registration failed", err).withContract(key)
	}
}

func errResolutionFailed(contract string, cause error) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", contract),
		cause,
	).withContract(contract)
}

func errTypeMismatch(contract, got string) *Error {
	return newError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("resolved instance of type %s is not assignable to %s", got, contract),
		nil,
	).withContract(contract)
}

func errDependencyNotDeclared(contract string) *Error {
	return newError(
		ErrCodeDependencyNotDeclared,
		fmt.Sprintf("dependency %s was not declared with WithDependencies", contract),
		nil,
	).withContract(contract)
}

// IsInvalidRegistration reports whether err is a malformed registration.
func IsInvalidRegistration(err error) bool {
	return hasCode(err, ErrCodeInvalidRegistration)
}

// IsUnregistered reports whether err means a contract had no registration.
func IsUnregistered(err error) bool {
	return hasCode(err, ErrCodeUnregistered)
}

// IsCircularDependency reports whether err carries a dependency cycle.
func IsCircularDependency(err error) bool {
	return hasCode(err, ErrCodeCircularDependency)
}

// IsProviderFailed reports whether err originated in a contract's factory.
func IsProviderFailed(err error) bool {
	return hasCode(err, ErrCodeProviderFailed)
}

// IsResolutionFailed reports whether err is a resolution failure that did
// not classify more specifically, such as a type mismatch.
func IsResolutionFailed(err error) bool {
	return hasCode(err, ErrCodeResolutionFailed)
}

// IsContainerClosed reports whether err means the container or scope was
// already closed.
func IsContainerClosed(err error) bool {
	return hasCode(err, ErrCodeContainerClosed)
}

// IsDisposeFailed reports whether err came from a disposal hook.
func IsDisposeFailed(err error) bool {
	return hasCode(err, ErrCodeDisposeFailed)
}

// IsValidationFailed reports whether err came from Container.Validate.
func IsValidationFailed(err error) bool {
	return hasCode(err, ErrCodeValidationFailed)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
