package pagination

import "net/http"

// Reason identifies why pagination parameters were rejected.
type Reason string

const (
	InvalidPageSize   Reason = "InvalidPageSize"
	InvalidPageNumber Reason = "InvalidPageNumber"
	PageOutOfRange    Reason = "PageOutOfRange"
)

// Error is returned for unusable pagination parameters.
type Error struct {
	Reason  Reason
	Message string
}

func newError(reason Reason, msg string) *Error {
	return &Error{Reason: reason, Message: msg}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same Reason, so callers can test with
// errors.Is(err, &pagination.Error{Reason: pagination.PageOutOfRange}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Reason == e.Reason
}

// Code is the http status the error should be reported with.
func (e *Error) Code() int {
	if e.Reason == PageOutOfRange {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
