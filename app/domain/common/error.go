package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide on retry and status mapping.
type ErrorKind string

const (
	KindInternal      ErrorKind = "internal_error"
	KindConfiguration ErrorKind = "configuration_error"
	KindProvider      ErrorKind = "provider_error"
	KindParse         ErrorKind = "parse_error"
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation_error"
)

// Error represents a standardized error with code and underlying error
type Error struct {
	Err  error     `json:"-"`
	Code string    `json:"code"`
	Kind ErrorKind `json:"kind"`
}

// NewError creates a new Error instance from an existing error
func NewError(err error, code string) *Error {
	return &Error{
		Err:  err,
		Code: code,
		Kind: KindInternal,
	}
}

// NewErrorWithMessage creates a new Error instance with a custom message
func NewErrorWithMessage(message string, code string) *Error {
	return &Error{
		Err:  fmt.Errorf("%s", message),
		Code: code,
		Kind: KindInternal,
	}
}

func NewKindError(kind ErrorKind, err error, code string) *Error {
	return &Error{Err: err, Code: code, Kind: kind}
}

func NewConfigurationError(code string, format string, args ...any) *Error {
	return NewKindError(KindConfiguration, fmt.Errorf(format, args...), code)
}

func NewProviderError(err error, code string) *Error {
	return NewKindError(KindProvider, err, code)
}

func NewParseError(err error, code string) *Error {
	return NewKindError(KindParse, err, code)
}

func NewNotFoundError(code string, format string, args ...any) *Error {
	return NewKindError(KindNotFound, fmt.Errorf(format, args...), code)
}

func NewValidationError(code string, format string, args ...any) *Error {
	return NewKindError(KindValidation, fmt.Errorf(format, args...), code)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GetMessage returns the error message from the underlying error
func (e *Error) GetMessage() string {
	return e.Error()
}

// GetCode returns the error code
func (e *Error) GetCode() string {
	return e.Code
}

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of the first *Error in the chain, or fallback.
func CodeOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return fallback
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	return KindOf(err) == KindProvider
}
