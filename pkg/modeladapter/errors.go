package modeladapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// APIError is returned when the provider responds with a non-2xx status.
// The transport worked; the API rejected the request.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message())
}

// Message extracts the provider-supplied error message from the body. OpenAI
// wraps it as {"error":{"message":...}}; anything else is returned raw.
func (e *APIError) Message() string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return e.Body
}

// Hint returns a human-actionable suggestion keyed by common status codes,
// or an empty string when there is nothing useful to say.
func (e *APIError) Hint() string {
	switch {
	case e.Status == 401:
		return "Your API key may be invalid or expired."
	case e.Status == 429:
		return "Rate limit exceeded. Wait a moment and try again."
	case e.Status >= 500:
		return "Server error. This is likely temporary, try again later."
	}
	return ""
}

// NetworkError is returned when the request never produced an HTTP response.
// Timeout distinguishes deadline expiry from connection failures so callers
// can suggest the right remedy.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("network timeout: %v", e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseError is returned when the call succeeded at the transport level
// but the payload did not satisfy the expected contract: zero choices, a
// missing image payload, or a body that failed to decode.
type ResponseError struct {
	Detail string
}

func (e *ResponseError) Error() string {
	return "invalid response: " + e.Detail
}

// classifyTransportError wraps a transport failure in a *NetworkError,
// marking timeouts from both net.Error and context deadline expiry.
func classifyTransportError(err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded)

	var ne net.Error
	if !timeout && errors.As(err, &ne) && ne.Timeout() {
		timeout = true
	}

	return &NetworkError{Timeout: timeout, Err: err}
}
