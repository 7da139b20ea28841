package domain

import (
	"net/http"
)

type ErrorCode int

const (
	ErrorCodeParameterInvalid ErrorCode = iota + 1
	ErrorCodeResourceNotFound
	ErrorCodeAuthPermissionDenied
	ErrorCodeAuthNotAuthenticated
	ErrorCodeInternalProcess
	ErrorCodeRemoteProcessError
)

// DomainError is the error type handlers translate into HTTP responses.
// A zero DomainError behaves as a generic internal error.
type DomainError struct {
	code      ErrorCode
	err       error
	clientMsg string
	detail    map[string]interface{}
}

type ErrorOption func(*DomainError)

// WithMsg sets the message returned to the client instead of err.Error()
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.clientMsg = msg
	}
}

// WithDetail attaches structured detail to the error response
func WithDetail(detail map[string]interface{}) ErrorOption {
	return func(e *DomainError) {
		e.detail = detail
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) DomainError {
	e := DomainError{
		code: code,
		err:  err,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.Name()
}

func (e DomainError) Unwrap() error {
	return e.err
}

func (e DomainError) Code() ErrorCode {
	return e.code
}

func (e DomainError) ClientMsg() string {
	return e.clientMsg
}

func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}

func (e DomainError) Name() string {
	switch e.code {
	case ErrorCodeParameterInvalid:
		return "PARAMETER_INVALID"
	case ErrorCodeResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	case ErrorCodeAuthPermissionDenied:
		return "AUTH_PERMISSION_DENIED"
	case ErrorCodeAuthNotAuthenticated:
		return "AUTH_NOT_AUTHENTICATED"
	case ErrorCodeRemoteProcessError:
		return "REMOTE_PROCESS_ERROR"
	default:
		return "INTERNAL_PROCESS"
	}
}

func (e DomainError) HTTPStatus() int {
	switch e.code {
	case ErrorCodeParameterInvalid:
		return http.StatusBadRequest
	case ErrorCodeResourceNotFound:
		return http.StatusNotFound
	case ErrorCodeAuthPermissionDenied:
		return http.StatusForbidden
	case ErrorCodeAuthNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
