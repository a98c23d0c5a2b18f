// Package domain defines domain-specific errors.
// These errors represent configuration and lifecycle failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that components can return.
var (
	// ErrInvalidSampleRate is returned when the sample rate is not positive.
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrInvalidCoefficient is returned when a smoothing coefficient is outside (0, 1).
	ErrInvalidCoefficient = errors.New("invalid smoothing coefficient")

	// ErrInvalidExponent is returned when a root scale exponent is not positive.
	ErrInvalidExponent = errors.New("invalid scale exponent")

	// ErrInvalidLineWidth is returned when the stroke width is not positive.
	ErrInvalidLineWidth = errors.New("invalid line width")

	// ErrInvalidSlope is returned when the spectral slope is not a finite number.
	ErrInvalidSlope = errors.New("invalid spectral slope")

	// ErrUnknownStyle is returned for an unrecognised rendering style.
	ErrUnknownStyle = errors.New("unknown style")

	// ErrUnknownScale is returned for an unrecognised frequency scale.
	ErrUnknownScale = errors.New("unknown scale")

	// ErrUnknownColorMap is returned for an unrecognised color map name.
	ErrUnknownColorMap = errors.New("unknown color map")

	// ErrInvalidColor is returned when a color string cannot be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrEmptyFrame is returned when a frame without values is handed in.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrSourceRunning is returned when starting a frame source that is already running.
	ErrSourceRunning = errors.New("frame source already running")

	// ErrSourceStopped is returned when stopping a frame source that is not running.
	ErrSourceStopped = errors.New("frame source not running")

	// ErrBusClosed is returned when closing an event bus twice.
	ErrBusClosed = errors.New("event bus closed")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
	Err     error       // Sentinel error (if any)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the sentinel error so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "VisualizerService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// ConfigError represents a failure to load or interpret configuration.
type ConfigError struct {
	Path    string // Config file path (if applicable)
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config '%s': %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(path, message string, err error) *ConfigError {
	return &ConfigError{
		Path:    path,
		Message: message,
		Err:     err,
	}
}
