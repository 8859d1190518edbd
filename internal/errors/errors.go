// Package errors provides the error taxonomy of the reconciliation pipeline.
//
// Every failure surfaced by rproxy is a *VHostError carrying a Code that
// tells the lifecycle controller how to react:
//
//   - RESOLUTION: the record could not be normalized (missing parent,
//     empty document root). The domain's generation is aborted before any
//     file is written.
//   - CERTIFICATE: certificate material is missing or unusable. The HTTPS
//     block is dropped for that domain; the event continues.
//   - FILESYSTEM: a write, unlink or symlink failed. The error is returned
//     to the caller but the reload is still attempted.
//   - EXTERNAL_COMMAND: a reload or link command exited non-zero. Logged,
//     never retried.
//
// # Usage
//
//	return errors.Resolution("alias.example.com", "parent record 12 not found", err)
//
//	if errors.Is(err, errors.ErrResolution) {
//	    // abort this domain
//	}
//
//	var vErr *errors.VHostError
//	if errors.As(err, &vErr) {
//	    fmt.Println(vErr.Code, vErr.Domain)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"        // Record not found in the store
	ErrCodeValidation      ErrorCode = "VALIDATION"       // Input validation failed
	ErrCodeConfig          ErrorCode = "CONFIG"           // Configuration error
	ErrCodeResolution      ErrorCode = "RESOLUTION"       // Record could not be resolved into a vhost spec
	ErrCodeCertificate     ErrorCode = "CERTIFICATE"      // Certificate material missing or unusable
	ErrCodeFilesystem      ErrorCode = "FILESYSTEM"       // Write/unlink/symlink failure
	ErrCodeExternalCommand ErrorCode = "EXTERNAL_COMMAND" // Reload or link command failed
	ErrCodeInternal        ErrorCode = "INTERNAL"         // Internal/unexpected error
)

// VHostError represents a structured error with context about the operation.
type VHostError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Domain  string    // Domain name (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *VHostError) Error() string {
	var b strings.Builder
	if e.Domain != "" {
		b.WriteString("vhost ")
		b.WriteString(e.Domain)
		if e.Message != "" || e.Err != nil {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		if e.Message != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain traversal.
func (e *VHostError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *VHostError) Is(target error) bool {
	t, ok := target.(*VHostError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per code. Use these with errors.Is().
var (
	ErrNotFound        = &VHostError{Code: ErrCodeNotFound, Message: "record not found"}
	ErrValidation      = &VHostError{Code: ErrCodeValidation, Message: "validation failed"}
	ErrConfigInvalid   = &VHostError{Code: ErrCodeConfig, Message: "invalid configuration"}
	ErrResolution      = &VHostError{Code: ErrCodeResolution, Message: "resolution failed"}
	ErrCertificate     = &VHostError{Code: ErrCodeCertificate, Message: "certificate unavailable"}
	ErrFilesystem      = &VHostError{Code: ErrCodeFilesystem, Message: "filesystem operation failed"}
	ErrExternalCommand = &VHostError{Code: ErrCodeExternalCommand, Message: "external command failed"}

	// ErrInvalidPath indicates a path containing shell metacharacters.
	ErrInvalidPath = &VHostError{Code: ErrCodeValidation, Message: "invalid path"}
)

// NotFound creates an error for a record missing from the store.
func NotFound(kind string, id int64) error {
	return &VHostError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %d not found", kind, id),
	}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &VHostError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Resolution creates an error that aborts generation for domain.
func Resolution(domain, msg string, err error) error {
	return &VHostError{
		Code:    ErrCodeResolution,
		Message: msg,
		Domain:  domain,
		Err:     err,
	}
}

// Certificate creates an error for missing or unusable certificate material.
func Certificate(domain, msg string, err error) error {
	return &VHostError{
		Code:    ErrCodeCertificate,
		Message: msg,
		Domain:  domain,
		Err:     err,
	}
}

// Filesystem wraps a failed filesystem operation on path.
func Filesystem(op, path string, err error) error {
	return &VHostError{
		Code:    ErrCodeFilesystem,
		Message: fmt.Sprintf("%s %s", op, path),
		Err:     err,
	}
}

// ExternalCommand wraps a failed command together with its output.
func ExternalCommand(name string, output []byte, err error) error {
	msg := name
	if out := strings.TrimSpace(string(output)); out != "" {
		msg = fmt.Sprintf("%s: %s", name, out)
	}
	return &VHostError{
		Code:    ErrCodeExternalCommand,
		Message: msg,
		Err:     err,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &VHostError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapDomain creates an error with domain context and underlying error.
func WrapDomain(code ErrorCode, domain string, err error) error {
	return &VHostError{
		Code:   code,
		Domain: domain,
		Err:    err,
	}
}

// CodeOf returns the code of the first VHostError in err's chain.
func CodeOf(err error) ErrorCode {
	var vErr *VHostError
	if errors.As(err, &vErr) {
		return vErr.Code
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As

// Join is a re-export of errors.Join for convenience.
var Join = errors.Join
