package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeNotFound               Code = "NOT_FOUND"
	CodeEmptyCatalog           Code = "EMPTY_CATALOG"
	CodeInsufficientPopulation Code = "INSUFFICIENT_POPULATION"
	CodeDecryption             Code = "DECRYPTION_FAILED"
	CodeInternal               Code = "INTERNAL_ERROR"
	CodeDependency             Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a binary should surface an error of a given code.
type Metadata struct {
	ExitCode      int
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		ExitCode:      2,
		Retryable:     false,
		PublicMessage: "invalid configuration or input",
	},
	CodeNotFound: {
		ExitCode:      3,
		Retryable:     false,
		PublicMessage: "resource not found",
	},
	CodeEmptyCatalog: {
		ExitCode:      4,
		Retryable:     false,
		PublicMessage: "catalog contains no usable products",
	},
	CodeInsufficientPopulation: {
		ExitCode:      5,
		Retryable:     false,
		PublicMessage: "sample larger than population",
	},
	CodeDecryption: {
		ExitCode:      6,
		Retryable:     false,
		PublicMessage: "ciphertext could not be authenticated",
	},
	CodeInternal: {
		ExitCode:      1,
		Retryable:     false,
		PublicMessage: "internal error",
	},
	CodeDependency: {
		ExitCode:      7,
		Retryable:     true,
		PublicMessage: "filesystem dependency unavailable",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
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
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports a match against any *Error carrying the same code, so sentinels
// declared with New compare equal to fresh errors of that code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
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

// CodeOf returns the code of the first typed error in the chain, or CodeInternal.
func CodeOf(err error) Code {
	return As(err).Code()
}
