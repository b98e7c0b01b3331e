package model

import (
	"fmt"
	"net/http"

	"github.com/ONSdigital/log.go/v2/log"
)

// Reason identifies a client-facing failure.
type Reason string

const (
	RecordNotFound  Reason = "RecordNotFound"
	InvalidBody     Reason = "InvalidBody"
	InvalidPatchKey Reason = "InvalidPatchKey"
	RecordInUse     Reason = "RecordInUse"
	NotImplemented  Reason = "NotImplemented"
)

var codes = map[Reason]int{
	RecordNotFound:  http.StatusNotFound,
	InvalidBody:     http.StatusBadRequest,
	InvalidPatchKey: http.StatusBadRequest,
	RecordInUse:     http.StatusConflict,
	NotImplemented:  http.StatusNotImplemented,
}

// Error is returned by the model for requests that cannot be served as
// asked. It carries the http status to answer with and log data for the
// single error log line the handler writes.
type Error struct {
	Reason  Reason
	Message string
	Err     error
	Data    log.Data
}

func newError(reason Reason, data log.Data, format string, args ...any) *Error {
	return &Error{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		Data:    data,
	}
}

// Error returns the message sent to the client. The cause stays
// reachable through Unwrap.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// Code is the http status for the error.
func (e *Error) Code() int {
	if c, ok := codes[e.Reason]; ok {
		return c
	}
	return http.StatusInternalServerError
}

// LogData returns the context recorded with the error.
func (e *Error) LogData() map[string]interface{} {
	return e.Data
}

// ErrNotImplemented is returned for operations a collection declares but
// does not support.
var ErrNotImplemented = &Error{Reason: NotImplemented, Message: "operation not implemented"}
