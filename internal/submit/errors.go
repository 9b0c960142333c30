package submit

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthMissing means no usable token was available. No request is made.
type ErrAuthMissing struct {
	UserID string
}

func (e *ErrAuthMissing) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("no auth token for user %q", e.UserID)
	}
	return "no auth token"
}

// ErrTransport is a network failure or a non-2xx response. StatusCode is 0
// when no response arrived.
type ErrTransport struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrTransport) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("results server returned %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("results server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("submit result: %v", e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrMalformedResponse is a 2xx response whose body could not be decoded.
type ErrMalformedResponse struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed results server response (%d): %v", e.StatusCode, e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Err }

const (
	msgSignedOut = "You are not signed in, so this result was not saved. Your score is still shown below."
	msgFailed    = "Your result could not be saved. Your score is still shown below; contact support if this keeps happening."
)

// UserMessage returns the warning shown for a submission error, or "" for
// nil. Transport and malformed-response failures read the same.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var auth *ErrAuthMissing
	if errors.As(err, &auth) {
		return msgSignedOut
	}
	return msgFailed
}
