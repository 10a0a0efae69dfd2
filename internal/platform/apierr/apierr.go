package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Param  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid builds a 400 error pointing at the offending request field.
func Invalid(param string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "invalid_request", Param: param, Err: err}
}

// From unwraps an *Error from err, falling back to a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}
