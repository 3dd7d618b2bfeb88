package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/traylingo/traylingo/pkg/models"
)

// Kind identifies one failure class of the translation pipeline. The set is
// closed: every terminal error maps to exactly one kind, classified as close
// to the failure site as possible.
type Kind string

const (
	KindAPIKeyMissing        Kind = "ApiKeyMissing"
	KindAuthenticationFailed Kind = "AuthenticationFailed"
	KindRateLimitExceeded    Kind = "RateLimitExceeded"
	KindOverloaded           Kind = "Overloaded"
	KindTimeout              Kind = "Timeout"
	KindNetworkError         Kind = "NetworkError"
	KindAPIError             Kind = "ApiError"
	KindParseError           Kind = "ParseError"
	KindIncompleteResponse   Kind = "IncompleteResponse"
	KindUnknown              Kind = "Unknown"
)

// Error is the terminal failure of a translation request. Message only ever
// holds text extracted from a parsed error envelope or a transport error
// string, never a raw response body.
type Error struct {
	Kind           Kind   `json:"type"`
	Status         int    `json:"status,omitempty"`
	Message        string `json:"message,omitempty"`
	RetryAfterSecs *int   `json:"retry_after_secs,omitempty"`
	TimeoutSecs    int    `json:"timeout_secs,omitempty"`
}

func (e *Error) Error() string {
	return e.UserMessage()
}

// UserMessage returns a string safe to show in a UI.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindAPIKeyMissing:
		return "API key not configured. Please add your API key in Settings."
	case KindAuthenticationFailed:
		msg := "Invalid API key. Please check your API key in Settings."
		if e.Message != "" {
			msg += " (" + e.Message + ")"
		}
		return msg
	case KindRateLimitExceeded:
		if e.RetryAfterSecs != nil {
			return fmt.Sprintf("Rate limit exceeded. Please wait %d seconds.", *e.RetryAfterSecs)
		}
		return "Rate limit exceeded. Please wait a moment and try again."
	case KindOverloaded:
		return "The API is currently overloaded. Please try again in a moment."
	case KindTimeout:
		return fmt.Sprintf("Request timed out after %d seconds. Please try again.", e.TimeoutSecs)
	case KindNetworkError:
		return "Network error. Please check your internet connection."
	case KindAPIError:
		return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
	case KindParseError:
		return "Failed to parse API response. Please try again."
	case KindIncompleteResponse:
		return "The response ended unexpectedly. Please try again."
	default:
		return fmt.Sprintf("An error occurred: %s", e.Message)
	}
}

// classifyResponse maps a non-2xx status to an Error. The server-supplied
// message comes from the parsed error envelope only.
func classifyResponse(status int, body []byte, retryAfter string) *Error {
	msg := serverMessage(body)
	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthenticationFailed, Message: msg}
	case http.StatusTooManyRequests:
		e := &Error{Kind: KindRateLimitExceeded}
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
			e.RetryAfterSecs = &secs
		}
		return e
	case 529:
		return &Error{Kind: KindOverloaded}
	default:
		return &Error{Kind: KindAPIError, Status: status, Message: msg}
	}
}

// serverMessage extracts error.message from a structured error body. Raw
// bodies that fail to parse yield an empty message rather than being echoed.
func serverMessage(body []byte) string {
	var env models.ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}

// classifyTransport maps connection-level failures to an Error.
func classifyTransport(err error, timeout time.Duration) *Error {
	secs := int(timeout.Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: KindOverloaded}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, TimeoutSecs: secs}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, TimeoutSecs: secs}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Kind: KindNetworkError, Message: opErr.Err.Error()}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Kind: KindNetworkError, Message: urlErr.Err.Error()}
	}
	return &Error{Kind: KindUnknown, Message: err.Error()}
}
