package client

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrPayloadTooLarge is wrapped by a FetchError when a body exceeds the read cap.
var ErrPayloadTooLarge = errors.New("payload too large")

// FetchError reports a failed neighbor lookup for a single node.
// StatusCode is zero when the request never produced a response.
type FetchError struct {
	Node       string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 && e.Err == nil {
		if e.Body != "" {
			return fmt.Sprintf("fetch %q: status %d: %s", e.Node, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("fetch %q: status %d", e.Node, e.StatusCode)
	}
	return fmt.Sprintf("fetch %q: %v", e.Node, e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a neighbor payload that could not be interpreted.
type DecodeError struct {
	Payload string
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Payload != "" {
		return fmt.Sprintf("decode neighbors: %v (payload: %s)", e.Err, e.Payload)
	}
	return fmt.Sprintf("decode neighbors: %v", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DecodeError) Unwrap() error { return e.Err }

// IsFetchError returns true if err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsDecodeError returns true if err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsNotFound returns true if the error is a 404 from the lookup service.
func IsNotFound(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == 404
	}
	return false
}

// maxSnippet bounds how much of a payload is copied into an error message.
const maxSnippet = 256

// snippet truncates b to at most maxSnippet bytes without splitting a rune.
func snippet(b []byte) string {
	if len(b) <= maxSnippet {
		return string(b)
	}
	cut := maxSnippet
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
