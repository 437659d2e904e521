package errors

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain reported in structured error details.
const Domain = "github.com/openkalah/server"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for callers
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error carrying caller-facing context.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the domain code from err, or CodeUnknown when err is
// not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// ToGRPCStatus converts the error to a gRPC status with errdetails.
// Unknown errors map to codes.Internal so callers never see raw causes
// promoted to client-visible codes.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return status.New(CodeUnknown.GRPCCode(), err.Error()).Err()
	}

	st := status.New(domainErr.Code.GRPCCode(), domainErr.Message)
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   string(domainErr.Code),
		Domain:   Domain,
		Metadata: domainErr.Metadata,
	})
	if detailErr != nil {
		// If details cannot be attached, return the basic status.
		return st.Err()
	}
	return detailed.Err()
}
