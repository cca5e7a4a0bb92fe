package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes a failed request
type ErrorKind string

const (
	// KindNetwork means the request never produced a response
	KindNetwork ErrorKind = "network"

	// KindStatus means the backend answered with a non-2xx status
	KindStatus ErrorKind = "status"

	// KindDecode means the response body was not the expected JSON
	KindDecode ErrorKind = "decode"

	// KindEncode means the request body could not be built
	KindEncode ErrorKind = "encode"
)

// MsgResponseNotOK is the message carried by every non-2xx failure
const MsgResponseNotOK = "network response was not ok"

// RequestError describes a failed backend call
type RequestError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
	Cause      error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	parts := []string{fmt.Sprintf("api %s %s", e.Method, e.Path)}

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is matches another *RequestError of the same kind
func (e *RequestError) Is(target error) bool {
	if re, ok := target.(*RequestError); ok {
		return e.Kind == re.Kind
	}
	return false
}

func newRequestError(kind ErrorKind, method, path, message string, cause error) *RequestError {
	return &RequestError{
		Kind:    kind,
		Method:  method,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

func newStatusError(method, path string, status int, body string) *RequestError {
	return &RequestError{
		Kind:       KindStatus,
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    MsgResponseNotOK,
		Body:       body,
	}
}

func kindOf(err error) (ErrorKind, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// IsStatusError reports whether err is a non-2xx response
func IsStatusError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindStatus
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindNetwork
}

// IsDecodeError reports whether err is a malformed response body
func IsDecodeError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindDecode
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
