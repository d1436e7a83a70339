package trpc

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
	CodeNetworkError       Code = "NETWORK_ERROR"
)

var codeStatus = map[Code]int{
	CodeBadRequest:         http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeMethodNotSupported: http.StatusMethodNotAllowed,
	CodeConflict:           http.StatusConflict,
	CodeInternal:           http.StatusInternalServerError,
	CodeNetworkError:       http.StatusServiceUnavailable,
}

// HTTPStatus maps an error code to its HTTP status. Unknown codes map to 500.
func HTTPStatus(code Code) int {
	if s, ok := codeStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the structured failure carried in an envelope.
type Error struct {
	Message    string `json:"message"`
	Code       Code   `json:"code"`
	HTTPStatus int    `json:"httpStatus,omitempty"`
	Path       string `json:"path,omitempty"`
}

func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), HTTPStatus: HTTPStatus(code)}
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *Error) IsNetworkError() bool {
	return e != nil && e.Code == CodeNetworkError
}

// CodeOf returns the code of a wrapped *Error, or CodeInternal.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeInternal
}
