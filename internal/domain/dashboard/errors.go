package dashboard

import (
	"errors"
	"fmt"
)

// Dashboard domain errors
var (
	ErrNetwork               = errors.New("statistics endpoint unreachable")
	ErrApplication           = errors.New("statistics endpoint reported failure")
	ErrStaleResponse         = errors.New("statistics response superseded by a newer one")
	ErrChartNotFound         = errors.New("chart not found")
	ErrLegendIndexOutOfRange = errors.New("legend index out of range")
	ErrSessionNotFound       = errors.New("dashboard session not found")
	ErrInvalidViewport       = errors.New("invalid viewport width")
)

// DefaultApplicationMessage is used when a failed response carries no message
const DefaultApplicationMessage = "Error desconocido"

// NetworkError is a non-2xx status or a transport failure
type NetworkError struct {
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("statistics endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("statistics endpoint request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ApplicationError is a well-formed response that signals failure
type ApplicationError struct {
	Message string
	Err     error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("statistics endpoint error: %s", e.Message)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

func (e *ApplicationError) Is(target error) bool { return target == ErrApplication }
