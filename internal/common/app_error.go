package common

import (
	"errors"
	"net/http"
	"strings"
)

// AppError is the single structured failure raised by use cases and
// serialized once at the HTTP edge
type AppError struct {
	Status int
	Codes  []string
}

func (e *AppError) Error() string {
	return strings.Join(e.Codes, ",")
}

// Has reports whether code is one of the error's reason codes
func (e *AppError) Has(code string) bool {
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

func NewAppError(status int, codes ...string) *AppError {
	return &AppError{Status: status, Codes: codes}
}

func BadRequest(codes ...string) *AppError   { return NewAppError(http.StatusBadRequest, codes...) }
func Unauthorized(codes ...string) *AppError { return NewAppError(http.StatusUnauthorized, codes...) }
func Forbidden(codes ...string) *AppError    { return NewAppError(http.StatusForbidden, codes...) }
func NotFound(codes ...string) *AppError     { return NewAppError(http.StatusNotFound, codes...) }
func Conflict(codes ...string) *AppError     { return NewAppError(http.StatusConflict, codes...) }

// AsAppError unwraps err into an AppError when it carries one
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Validation accumulates field errors so a request reports every problem at once
type Validation struct {
	codes []string
}

func (v *Validation) Add(code string) {
	v.codes = append(v.codes, code)
}

// Check adds code when cond is false
func (v *Validation) Check(cond bool, code string) {
	if !cond {
		v.Add(code)
	}
}

// Err returns a 400 AppError, or nil when nothing was added
func (v *Validation) Err() error {
	if len(v.codes) == 0 {
		return nil
	}
	return BadRequest(v.codes...)
}
