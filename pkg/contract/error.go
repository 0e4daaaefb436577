package contract

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Error struct {
	Code    ErrorCode
	Message string
	Inner   error
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func NewErrorWith(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Inner:   err,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
	if e.Inner != nil {
		return fmt.Sprintf("%s: %s", msg, e.Inner)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Inner
}

// Is matches another *Error by code only, so errors.Is(err, contract.NewError(code, ""))
// answers "is this a failure of kind code".
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

//nolint:musttag
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}{
		e.Code.String(),
		e.Message,
	})
}

// StatusCode returns the HTTP status code for the error code.
func (e *Error) StatusCode() int {
	//nolint:exhaustive
	switch e.Code {
	case ErrorCode_BAD_REQUEST,
		ErrorCode_INVALID_PARAMETER_VALUE,
		ErrorCode_PARSE_ERROR,
		ErrorCode_VALIDATION_ERROR:
		return http.StatusBadRequest
	case ErrorCode_PERMISSION_DENIED:
		return http.StatusUnauthorized
	case ErrorCode_RESOURCE_DOES_NOT_EXIST, ErrorCode_ENDPOINT_NOT_FOUND:
		return http.StatusNotFound
	case ErrorCode_STORE_UNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
