// Package generate renders a prompt template, runs it through the tool-call
// loop against a provider, and returns the model's final text.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/conjure-cli/conjure/pkg/agent"
	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/modeladapter"
	"github.com/conjure-cli/conjure/pkg/prompt"
	"github.com/conjure-cli/conjure/pkg/providers/openai"
	"github.com/conjure-cli/conjure/pkg/tools"
)

// Options describes a single generation request.
type Options struct {
	Template      string            // Prompt template with {{ name }} placeholders.
	Vars          map[string]string // Placeholder values.
	Images        []string          // Image refs (URL or local path) attached to the user message.
	ImageDetail   string            // Detail level for attached images ("low", "high", "auto").
	Tools         []string          // Tool names to expose; empty means all builtins.
	Model         string            // Overrides cfg.Model.
	MaxTokens     int               // Overrides cfg.MaxTokens.
	Reasoning     string            // Overrides cfg.Reasoning.
	MaxIterations int               // Overrides cfg.MaxIterations.
	Logger        *slog.Logger      // Request diagnostics; nil disables logging.
}

// Usage is the token accounting for one run.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Result is the outcome of a successful run.
type Result struct {
	Content           string `json:"content"`
	Model             string `json:"model"`
	Usage             Usage  `json:"usage"`
	Iterations        int    `json:"iterations"`
	ToolCallsExecuted int    `json:"tool_calls_executed"`
}

// Run validates the configuration, resolves the requested toolset, renders
// the template, and drives the agent loop to completion. Configuration and
// toolset errors are returned before any request is made.
func Run(ctx context.Context, cfg config.Config, opts Options) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	model := cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}
	if model == "" {
		model = openai.DefaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openai.DefaultBaseURL
	}

	reasoning := cfg.Reasoning
	if opts.Reasoning != "" {
		reasoning = opts.Reasoning
	}

	level := modeladapter.ReasoningNone
	if reasoning != "" {
		parsed, err := modeladapter.ParseReasoningLevel(reasoning)
		if err != nil {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
		level = parsed
	}

	tb := tools.Builtins()

	toolset, err := tb.Resolve(opts.Tools)
	if err != nil {
		return Result{}, fmt.Errorf("generate: %w", err)
	}

	adapter := openai.New(baseURL, cfg.APIKey, model)
	adapter.Reasoning = level
	adapter.Logger = opts.Logger
	if opts.MaxTokens > 0 {
		adapter.MaxTokens = opts.MaxTokens
	} else {
		adapter.MaxTokens = cfg.MaxTokens
	}

	seed, err := seedMessage(opts)
	if err != nil {
		return Result{}, err
	}

	maxIter := cfg.MaxIterations
	if opts.MaxIterations > 0 {
		maxIter = opts.MaxIterations
	}

	a := agent.New(adapter, chat.New(seed), tb, toolset, agent.Options{MaxIterations: maxIter})

	reply, err := a.Run(ctx)
	if err != nil {
		return Result{}, err
	}

	total := adapter.Usage.Sum()

	return Result{
		Content: reply.TextContent(),
		Model:   model,
		Usage: Usage{
			PromptTokens:     total.InputTokens,
			CompletionTokens: total.OutputTokens,
		},
		Iterations:        a.Iterations(),
		ToolCallsExecuted: len(a.Executed()),
	}, nil
}

// seedMessage renders the template and attaches any input images as
// normalized data URLs or passthrough URLs.
func seedMessage(opts Options) (message.Message, error) {
	rendered := prompt.Substitute(opts.Template, opts.Vars)

	parts := []content.Part{content.Text{Text: rendered}}
	for _, ref := range opts.Images {
		url, err := prompt.NormalizeImageRef(ref)
		if err != nil {
			return message.Message{}, fmt.Errorf("generate: image %q: %w", ref, err)
		}
		parts = append(parts, content.Image{URL: url, Detail: opts.ImageDetail})
	}

	return message.New(role.User, parts...), nil
}
