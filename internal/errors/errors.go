package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeInternal            ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest          ErrCode = "BAD_REQUEST"
	ErrCodeSourceUnavailable   ErrCode = "SOURCE_UNAVAILABLE"
	ErrCodeUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUnsupportedFormat   ErrCode = "UNSUPPORTED_FORMAT"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// NewSourceUnavailableError reports a collection that does not exist in the
// record store. Callers treat it as an empty result.
func NewSourceUnavailableError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeSourceUnavailable,
		Message: fmt.Sprintf("source %s is unavailable", source),
		Err:     err,
	}
}

// NewUpstreamUnavailableError reports a failure reaching the record store.
func NewUpstreamUnavailableError(source string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstreamUnavailable,
		Message: fmt.Sprintf("failed to query %s", source),
		Err:     err,
	}
}

// NewUnsupportedFormatError creates a new unsupported export format error
func NewUnsupportedFormatError(format string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("export format %q is not supported", format),
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func hasCode(err error, code ErrCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// IsSourceUnavailable checks if the error is a missing-source error
func IsSourceUnavailable(err error) bool {
	return hasCode(err, ErrCodeSourceUnavailable)
}

// IsUpstreamUnavailable checks if the error is an upstream transport error
func IsUpstreamUnavailable(err error) bool {
	return hasCode(err, ErrCodeUpstreamUnavailable)
}

// IsUnsupportedFormat checks if the error is an unsupported format error
func IsUnsupportedFormat(err error) bool {
	return hasCode(err, ErrCodeUnsupportedFormat)
}
