// Package modeladapter provides the shared HTTP plumbing for LLM provider
// implementations: authentication, request building, JSON round-trips, and a
// classified error taxonomy.
package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/modeladapter/usage"
	"github.com/conjure-cli/conjure/pkg/runctx"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

// Completer sends a conversation to an LLM and returns the assistant's reply.
// The tools parameter declares which tools are available for this call.
type Completer interface {
	Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error)
}

// ReasoningLevel is the provider's reasoning-effort parameter, applicable
// only to reasoning models. The empty value means "not set".
type ReasoningLevel string

const (
	ReasoningNone   ReasoningLevel = ""
	ReasoningLow    ReasoningLevel = "low"
	ReasoningMedium ReasoningLevel = "medium"
	ReasoningHigh   ReasoningLevel = "high"
)

// ParseReasoningLevel parses a user-supplied reasoning level string.
func ParseReasoningLevel(s string) (ReasoningLevel, error) {
	switch s {
	case "low":
		return ReasoningLow, nil
	case "medium":
		return ReasoningMedium, nil
	case "high":
		return ReasoningHigh, nil
	}
	return ReasoningNone, fmt.Errorf("invalid reasoning level %q (use: low, medium, high)", s)
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared state for LLM provider implementations. Embed it
// in concrete provider structs to get HTTP helpers, auth, custom headers, and
// usage tracking. Concrete types define their own Complete method to shadow
// the default stub.
type ModelAdapter struct {
	Name        string            // Model identifier (e.g. "gpt-5-mini").
	Temperature float64           // Sampling temperature (0 = provider default).
	MaxTokens   int               // Maximum tokens in the response (0 = provider default).
	Reasoning   ReasoningLevel    // Reasoning effort for reasoning models.
	Auth        Auth              // Authentication settings.
	BaseURL     string            // API base URL (no trailing slash).
	Client      *http.Client      // HTTP client; falls back to a default with a timeout.
	Headers     map[string]string // Extra headers applied to every request.
	Usage       usage.Tracker     // Token usage tracker.
	Logger      *slog.Logger      // Request diagnostics at Debug level; nil disables logging.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

// Complete is a stub that returns an error. Concrete providers that embed
// ModelAdapter should define their own Complete method to shadow this one.
func (a *ModelAdapter) Complete(_ context.Context, _ *chat.Chat, _ []toolbox.Tool) (message.Message, error) {
	return message.Message{}, errors.New("adapter: Complete not implemented")
}

// httpClient returns the configured client or a cached default client with a
// 10-minute timeout. The timeout is the only cancellation mechanism — there
// are no retries at this layer.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})

	return a.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	// Apply custom headers.
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path, checks
// for a 2xx status, and unmarshals the response body into dest. Failures are
// returned as classified errors: *NetworkError for transport problems,
// *APIError for non-2xx statuses, and *ResponseError when a 2xx body cannot
// be decoded. If dest is nil the response body is discarded after the status
// check.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := a.Do(req)
	if err != nil {
		a.logRequest(ctx, path, 0, time.Since(start), err)
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	a.logRequest(ctx, path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &ResponseError{Detail: fmt.Sprintf("unparseable body: %v", err)}
	}

	return nil
}

func (a *ModelAdapter) logRequest(ctx context.Context, path string, status int, elapsed time.Duration, err error) {
	if a.Logger == nil {
		return
	}

	attrs := []any{
		slog.String("model", a.Name),
		slog.String("path", path),
		slog.Duration("elapsed", elapsed),
	}

	if id := runctx.RunIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("run_id", id))
	}

	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		a.Logger.DebugContext(ctx, "request failed", attrs...)
		return
	}

	attrs = append(attrs, slog.Int("status", status))
	a.Logger.DebugContext(ctx, "request completed", attrs...)
}
