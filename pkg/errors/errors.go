package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code surfaces to the user. Retryable marks
// transient failures; nothing in this module retries them automatically.
type Metadata struct {
	HTTPStatus  int
	Retryable   bool
	UserMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:  http.StatusBadRequest,
		Retryable:   false,
		UserMessage: "invalid input",
	},
	CodeUnauthorized: {
		HTTPStatus:  http.StatusUnauthorized,
		Retryable:   false,
		UserMessage: "please sign in to continue",
	},
	CodeForbidden: {
		HTTPStatus:  http.StatusForbidden,
		Retryable:   false,
		UserMessage: "access denied",
	},
	CodeNotFound: {
		HTTPStatus:  http.StatusNotFound,
		Retryable:   false,
		UserMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:  http.StatusConflict,
		Retryable:   false,
		UserMessage: "conflict detected",
	},
	CodeInternal: {
		HTTPStatus:  http.StatusInternalServerError,
		Retryable:   true,
		UserMessage: "something went wrong, please try again",
	},
	CodeDependency: {
		HTTPStatus:  http.StatusServiceUnavailable,
		Retryable:   true,
		UserMessage: "server error, please try again later",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// UserMessage returns the user-visible text for an error, falling back to the
// internal-error message when the error carries no code.
func UserMessage(err error) string {
	if typed := As(err); typed != nil {
		return MetadataFor(typed.Code()).UserMessage
	}
	return metadataByCode[CodeInternal].UserMessage
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
