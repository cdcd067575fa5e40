package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotInitialized indicates a dispatch was attempted before the connectivity check ran.
	ErrCodeNotInitialized ErrorCode = "not_initialized"
	// ErrCodeChannelUnimplemented indicates the live integration for a channel is not enabled.
	ErrCodeChannelUnimplemented ErrorCode = "channel_unimplemented"
	// ErrCodeTransportFailure indicates the provider rejected the message or could not be reached.
	ErrCodeTransportFailure ErrorCode = "transport_failure"
	// ErrCodeSimulatedFailure indicates the simulated provider rolled a failure.
	ErrCodeSimulatedFailure ErrorCode = "simulated_failure"
	// ErrCodeOrchestration indicates the dispatch itself failed outside any channel.
	ErrCodeOrchestration ErrorCode = "orchestration"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Ref correlates the error with a dispatch (optional, the alert id)
	Ref string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithRef returns a copy of the error carrying the given reference.
func (e *AppError) WithRef(ref string) *AppError {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Ref = ref
	return &cp
}

// NotInitialized creates the error returned when dispatching before initialization.
func NotInitialized() *AppError {
	return &AppError{
		Code:    ErrCodeNotInitialized,
		Message: "APIs not initialized",
	}
}

// ChannelUnimplemented creates an error for a provider whose integration is not enabled.
func ChannelUnimplemented(provider string) *AppError {
	return &AppError{
		Code:    ErrCodeChannelUnimplemented,
		Message: provider + " integration not implemented",
	}
}

// TransportFailure creates a new TransportFailure error.
func TransportFailure(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeTransportFailure,
		Message: message,
		Cause:   cause,
	}
}

// TransportFailuref creates a new TransportFailure error with formatted message.
func TransportFailuref(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeTransportFailure,
		Message: fmt.Sprintf(format, args...),
	}
}

// SimulatedFailure creates a new SimulatedFailure error.
func SimulatedFailure(message string) *AppError {
	return &AppError{
		Code:    ErrCodeSimulatedFailure,
		Message: message,
	}
}

// Orchestration wraps a dispatch-level failure with the alert id it belongs to.
func Orchestration(ref string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeOrchestration,
		Message: "alert dispatch failed",
		Cause:   cause,
		Ref:     ref,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Timeout creates a new Timeout error.
func Timeout(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeTimeout,
		Message: message,
		Cause:   cause,
	}
}

// Canceled creates a new Canceled error.
func Canceled(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeCanceled,
		Message: message,
		Cause:   cause,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// FromContext maps a context error to Timeout or Canceled. Other errors return nil.
func FromContext(err error, message string) *AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout(message, err)
	case errors.Is(err, context.Canceled):
		return Canceled(message, err)
	default:
		return nil
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotInitialized checks if an error is a NotInitialized error.
func IsNotInitialized(err error) bool {
	return isCode(err, ErrCodeNotInitialized)
}

// IsChannelUnimplemented checks if an error is a ChannelUnimplemented error.
func IsChannelUnimplemented(err error) bool {
	return isCode(err, ErrCodeChannelUnimplemented)
}

// IsTransportFailure checks if an error is a TransportFailure error.
func IsTransportFailure(err error) bool {
	return isCode(err, ErrCodeTransportFailure)
}

// IsSimulatedFailure checks if an error is a SimulatedFailure error.
func IsSimulatedFailure(err error) bool {
	return isCode(err, ErrCodeSimulatedFailure)
}

// IsOrchestration checks if an error is an Orchestration error.
func IsOrchestration(err error) bool {
	return isCode(err, ErrCodeOrchestration)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// GetRef returns the Ref from an error, or empty string if not an AppError or no ref set.
func GetRef(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Ref
	}
	return ""
}
