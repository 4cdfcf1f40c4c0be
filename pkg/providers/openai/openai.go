// Package openai implements the provider client for the OpenAI API: the
// Chat Completions endpoint for text generation and the Responses endpoint
// for image generation.
//
// Environment: OPENAI_API_KEY (required), OPENAI_BASE_URL (optional,
// default https://api.openai.com — no trailing slash). API-compatible
// gateways are supported through the base URL override.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/conjure-cli/conjure/pkg/modeladapter"
	"github.com/conjure-cli/conjure/pkg/modeladapter/usage"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

const (
	completionsPath = "/v1/chat/completions"

	// DefaultBaseURL is used when OPENAI_BASE_URL is not set.
	DefaultBaseURL = "https://api.openai.com"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-5-mini"
)

// reasoningPrefixes identify models that accept the reasoning_effort
// parameter. The API rejects it for anything else, so it is only sent for
// these.
var reasoningPrefixes = []string{"o1", "o3", "o4"}

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI API.
type Adapter struct {
	modeladapter.ModelAdapter

	// LastFinishReason is the finish_reason of the most recent completion,
	// e.g. "stop", "tool_calls", or "length".
	LastFinishReason string
}

// New creates an Adapter for the given base URL, API key, and model.
func New(baseURL, apiKey, model string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = modeladapter.Auth{Key: apiKey}
	a.Name = model

	return a
}

// IsReasoningModel reports whether the model name belongs to the reasoning
// family (accepts reasoning_effort, rejects temperature).
func IsReasoningModel(model string) bool {
	for _, prefix := range reasoningPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// Complete sends the conversation to the Chat Completions endpoint and
// returns the assistant's reply. Token usage is recorded on the adapter.
func (a *Adapter) Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error) {
	req := a.buildRequest(c, tools)

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return message.Message{}, fmt.Errorf("openai: %w", err)
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	if len(resp.Choices) == 0 {
		return message.Message{}, fmt.Errorf("openai: %w", &modeladapter.ResponseError{Detail: "no choices in response"})
	}

	a.LastFinishReason = resp.Choices[0].FinishReason

	return parseChoice(resp.Choices[0]), nil
}

// --- request types ---

type apiRequest struct {
	Model               string       `json:"model"`
	Messages            []apiMessage `json:"messages"`
	Tools               []apiToolDef `json:"tools,omitempty"`
	MaxCompletionTokens int          `json:"max_completion_tokens,omitempty"`
	Temperature         *float64     `json:"temperature,omitempty"`
	ReasoningEffort     string       `json:"reasoning_effort,omitempty"`
}

// apiMessage carries content either as a plain string or as an array of
// content parts (multimodal user messages). Assistant messages that only
// request tool calls have null content.
type apiMessage struct {
	Role       string        `json:"role"`
	Content    any           `json:"content"`
	ToolCalls  []apiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type apiContentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *apiImageURL `json:"image_url,omitempty"`
}

type apiImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type apiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function apiToolFunction `json:"function"`
}

type apiToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiToolDef struct {
	Type     string         `json:"type"`
	Function apiToolDefFunc `json:"function"`
}

type apiToolDefFunc struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role      string        `json:"role"`
	Content   *string       `json:"content"`
	ToolCalls []apiToolCall `json:"tool_calls,omitempty"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(c *chat.Chat, tools []toolbox.Tool) apiRequest {
	req := apiRequest{
		Model:               a.Name,
		MaxCompletionTokens: a.MaxTokens,
	}

	if IsReasoningModel(a.Name) {
		// reasoning_effort and temperature are mutually exclusive per the
		// API contract; reasoning models never get a temperature.
		req.ReasoningEffort = string(a.Reasoning)
	} else if a.Temperature != 0 {
		t := a.Temperature
		req.Temperature = &t
	}

	if len(tools) > 0 {
		req.Tools = make([]apiToolDef, len(tools))
		for i, t := range tools {
			schema := t.InputSchema
			if schema == nil {
				schema = json.RawMessage(`{"type":"object"}`)
			}
			req.Tools[i] = apiToolDef{
				Type: "function",
				Function: apiToolDefFunc{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  schema,
				},
			}
		}
	}

	for _, m := range c.Messages() {
		appendMessages(&req.Messages, m)
	}

	return req
}

func appendMessages(msgs *[]apiMessage, m message.Message) {
	switch m.Role {
	case role.System:
		*msgs = append(*msgs, apiMessage{Role: "system", Content: m.TextContent()})

	case role.User:
		*msgs = append(*msgs, apiMessage{Role: "user", Content: userContent(m)})

	case role.Assistant:
		var toolCalls []apiToolCall
		var text strings.Builder

		for _, p := range m.Parts {
			switch v := p.(type) {
			case content.Text:
				text.WriteString(v.Text)
			case content.ToolCall:
				toolCalls = append(toolCalls, apiToolCall{
					ID:   v.ID,
					Type: "function",
					Function: apiToolFunction{
						Name:      v.Name,
						Arguments: v.Arguments,
					},
				})
			}
		}

		msg := apiMessage{Role: "assistant"}
		if text.Len() > 0 {
			msg.Content = text.String()
		}
		msg.ToolCalls = toolCalls

		*msgs = append(*msgs, msg)

	case role.Tool:
		for _, p := range m.Parts {
			if tr, ok := p.(content.ToolResult); ok {
				*msgs = append(*msgs, apiMessage{
					Role:       "tool",
					Content:    tr.Content,
					ToolCallID: tr.ToolCallID,
				})
			}
		}
	}
}

// userContent serializes a user message: a plain string when text-only, an
// array of content parts when it carries images.
func userContent(m message.Message) any {
	hasImage := false
	for _, p := range m.Parts {
		if _, ok := p.(content.Image); ok {
			hasImage = true
			break
		}
	}

	if !hasImage {
		return m.TextContent()
	}

	parts := make([]apiContentPart, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch v := p.(type) {
		case content.Text:
			parts = append(parts, apiContentPart{Type: "text", Text: v.Text})
		case content.Image:
			parts = append(parts, apiContentPart{
				Type:     "image_url",
				ImageURL: &apiImageURL{URL: v.URL, Detail: v.Detail},
			})
		}
	}
	return parts
}

func parseChoice(choice apiChoice) message.Message {
	var parts []content.Part

	if choice.Message.Content != nil && *choice.Message.Content != "" {
		parts = append(parts, content.Text{Text: *choice.Message.Content})
	}

	for _, tc := range choice.Message.ToolCalls {
		parts = append(parts, content.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return message.New(role.Assistant, parts...)
}
