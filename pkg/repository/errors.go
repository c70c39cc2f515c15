package repository

import "errors"

// Error represents a domain error from repository operations.
//
// These are business logic errors (resource not found, invalid query)
// as opposed to infrastructure errors (store I/O failures), which are
// wrapped and propagated as-is.
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the virtual path or query related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a repository error.
type ErrorCode int

const (
	// ErrNotFound indicates no row exists for the exact requested path
	ErrNotFound ErrorCode = iota

	// ErrValidation indicates an invalid input: an empty or non-absolute
	// path or query, or an attempt to remove the root
	ErrValidation

	// ErrUnsupportedLanguage indicates a query language other than "glob"
	ErrUnsupportedLanguage

	// ErrUnsupportedResource indicates Add was called with a value that is
	// neither a single resource nor a collection of resources
	ErrUnsupportedResource
)

// CodeOf extracts the repository error code from an error chain.
// The boolean is false when the error is not a repository domain error.
func CodeOf(err error) (ErrorCode, bool) {
	var repoErr *Error
	if errors.As(err, &repoErr) {
		return repoErr.Code, true
	}
	return 0, false
}

// IsNotFound reports whether the error is a resource-not-found error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrNotFound
}

func notFoundError(path string) *Error {
	return &Error{Code: ErrNotFound, Message: "resource not found", Path: path}
}

func validationError(message, path string) *Error {
	return &Error{Code: ErrValidation, Message: message, Path: path}
}

func unsupportedLanguageError(language string) *Error {
	return &Error{Code: ErrUnsupportedLanguage, Message: "unsupported query language", Path: language}
}

func unsupportedResourceError(message string) *Error {
	return &Error{Code: ErrUnsupportedResource, Message: message}
}
