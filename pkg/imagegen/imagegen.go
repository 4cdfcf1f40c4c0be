// Package imagegen renders a prompt template into a generated image file.
// It makes exactly one image request; an optional tool pre-processing pass
// lets the text model refine the prompt first.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/conjure-cli/conjure/pkg/agent"
	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/prompt"
	"github.com/conjure-cli/conjure/pkg/providers/openai"
	"github.com/conjure-cli/conjure/pkg/tools"
)

// preprocessPrompt instructs the text model during the optional tool pass.
// The model's entire reply becomes the image prompt, so it must not chat.
const preprocessPrompt = "You are preparing a prompt for an image generation model. " +
	"Use the available tools if they help, then output ONLY the final image " +
	"generation prompt, with no preamble or commentary."

// Options describes a single image generation request.
type Options struct {
	Template    string            // Prompt template with {{ name }} placeholders.
	Vars        map[string]string // Placeholder values.
	Images      []string          // Input images (URL or local path) for edit-style generation.
	Save        string            // Output path; empty means an auto-generated name.
	Stem        string            // Base name for the auto-generated output file.
	Size        string            // Image size ("auto" by default).
	Quality     string            // Image quality ("auto" by default).
	Format      string            // Output format ("png" by default).
	Background  string            // Background mode ("auto" by default).
	Action      string            // "auto", "generate", or "edit"; "auto" picks edit when input images are given.
	Compression *int              // 0-100 for jpeg/webp; nil falls back to config, then 100.

	Tools         []string     // Enables the pre-processing pass when non-empty.
	Model         string       // Overrides cfg.Model for both passes.
	MaxIterations int          // Loop limit for the pre-processing pass.
	Logger        *slog.Logger // Request diagnostics; nil disables logging.
}

// Result is the outcome of a successful image generation.
type Result struct {
	OutputPath    string `json:"output_path"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Run validates the configuration, optionally refines the prompt through the
// tool loop, makes one image request, and writes the decoded image to disk.
func Run(ctx context.Context, cfg config.Config, opts Options) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	applyDefaults(&opts, cfg)

	switch opts.Action {
	case "auto", "generate", "edit":
	default:
		return Result{}, fmt.Errorf("imagegen: invalid action %q (use: auto, generate, edit)", opts.Action)
	}

	if opts.Action == "edit" && len(opts.Images) == 0 {
		return Result{}, fmt.Errorf("imagegen: action edit requires at least one input image")
	}

	imagePrompt := prompt.Substitute(opts.Template, opts.Vars)

	if len(opts.Tools) > 0 {
		refined, err := refinePrompt(ctx, cfg, opts, imagePrompt)
		if err != nil {
			return Result{}, err
		}
		imagePrompt = refined
	}

	// action "generate" produces from the prompt alone even when input
	// images were configured as defaults.
	images := opts.Images
	if opts.Action == "generate" {
		images = nil
	}

	inputs := make([]string, 0, len(images))
	for _, ref := range images {
		url, err := prompt.NormalizeImageRef(ref)
		if err != nil {
			return Result{}, fmt.Errorf("imagegen: image %q: %w", ref, err)
		}
		inputs = append(inputs, url)
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

	adapter := openai.New(baseURL, cfg.APIKey, model)
	adapter.Logger = opts.Logger

	img, err := adapter.GenerateImage(ctx, imagePrompt, inputs, openai.ImageOptions{
		Size:        opts.Size,
		Quality:     opts.Quality,
		Format:      opts.Format,
		Background:  opts.Background,
		Compression: opts.Compression,
	})
	if err != nil {
		return Result{}, err
	}

	data, err := base64.StdEncoding.DecodeString(img.B64Data)
	if err != nil {
		return Result{}, fmt.Errorf("imagegen: decode image payload: %w", err)
	}

	outPath := opts.Save
	if outPath == "" {
		outPath = autoFileName(opts.Stem, opts.Format)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil { //nolint:gosec // generated image, not a secret
		return Result{}, fmt.Errorf("imagegen: write %s: %w", outPath, err)
	}

	return Result{OutputPath: outPath, RevisedPrompt: img.RevisedPrompt}, nil
}

// refinePrompt runs the tool loop once over the substituted prompt and
// returns the model's final text as the image prompt.
func refinePrompt(ctx context.Context, cfg config.Config, opts Options, imagePrompt string) (string, error) {
	tb := tools.Builtins()

	toolset, err := tb.Resolve(opts.Tools)
	if err != nil {
		return "", fmt.Errorf("imagegen: %w", err)
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

	adapter := openai.New(baseURL, cfg.APIKey, model)
	adapter.Logger = opts.Logger

	maxIter := cfg.MaxIterations
	if opts.MaxIterations > 0 {
		maxIter = opts.MaxIterations
	}

	c := chat.New(
		message.NewText(role.System, preprocessPrompt),
		message.NewText(role.User, imagePrompt),
	)

	a := agent.New(adapter, c, tb, toolset, agent.Options{MaxIterations: maxIter})

	reply, err := a.Run(ctx)
	if err != nil {
		return "", err
	}

	refined := strings.TrimSpace(reply.TextContent())
	if refined == "" {
		return imagePrompt, nil
	}

	return refined, nil
}

func applyDefaults(opts *Options, cfg config.Config) {
	if opts.Size == "" {
		opts.Size = firstNonEmpty(cfg.Image.Size, "auto")
	}
	if opts.Quality == "" {
		opts.Quality = firstNonEmpty(cfg.Image.Quality, "auto")
	}
	if opts.Format == "" {
		opts.Format = firstNonEmpty(cfg.Image.Format, "png")
	}
	if opts.Background == "" {
		opts.Background = firstNonEmpty(cfg.Image.Background, "auto")
	}
	if opts.Action == "" {
		opts.Action = "auto"
	}
	if opts.Compression == nil {
		opts.Compression = cfg.Image.Compression
	}
	if opts.Compression == nil {
		full := 100
		opts.Compression = &full
	}
	if opts.Stem == "" {
		opts.Stem = "image"
	}
}

// autoFileName builds `<stem>-<suffix>.<ext>` with a short random suffix so
// repeated runs never clobber earlier output.
func autoFileName(stem, format string) string {
	suffix := uuid.NewString()[:5]

	ext := format
	if ext == "" || ext == "auto" {
		ext = "png"
	}

	return fmt.Sprintf("%s-%s.%s", stem, suffix, ext)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
