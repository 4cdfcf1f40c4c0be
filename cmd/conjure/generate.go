package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/generate"
	"github.com/conjure-cli/conjure/pkg/prompt"
	"github.com/conjure-cli/conjure/pkg/runctx"
)

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: conjure generate [flags] [prompt]\n\nRender a prompt template and generate text.\nThe prompt is a file path or direct text, given positionally or via -i.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		vars, images stringSlice
		input        string
	)

	fs.StringVar(&input, "i", "", "prompt template: a file path or direct text")
	fs.StringVar(&input, "input", "", "alias for -i")
	fs.Var(&vars, "var", "template variable as key=value (repeatable)")
	fs.Var(&images, "image", "image URL or file path to attach (repeatable)")
	imageDetail := fs.String("image-detail", "", "detail level for attached images (low, high, auto)")
	model := fs.String("model", "", "model name (overrides config)")
	reasoning := fs.String("reasoning", "", "reasoning effort for reasoning models (low, medium, high)")
	maxTokens := fs.Int("max-tokens", 0, "maximum completion tokens (0 = provider default)")
	toolNames := fs.String("tools", "", "comma-separated tool names to allow (empty = all builtins)")
	maxIterations := fs.Int("max-iterations", 0, "tool loop limit (0 = default)")
	configPath := fs.String("config", "", "path to conjure.yaml (default: ./conjure.yaml if present)")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
	output := fs.String("output", "text", "output format: text or json")
	verbose := fs.Bool("verbose", false, "log request diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx = runctx.WithRunID(ctx, runctx.New())

	arg, err := promptArg(input, fs.Args())
	if err != nil {
		return err
	}

	template, _, err := resolveInput(arg)
	if err != nil {
		return err
	}

	varMap, err := prompt.ParseVars(vars)
	if err != nil {
		return err
	}

	if err := loadDotEnv(*envFile); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	opts := generate.Options{
		Template:      template,
		Vars:          varMap,
		Images:        images,
		ImageDetail:   *imageDetail,
		Tools:         splitTools(*toolNames),
		Model:         *model,
		Reasoning:     *reasoning,
		MaxTokens:     *maxTokens,
		MaxIterations: *maxIterations,
		Logger:        verboseLogger(*verbose),
	}

	var res generate.Result

	jsonOut := *output == "json"

	// Spinner frames and log lines share stderr poorly.
	showSpinner := !jsonOut && !*verbose

	err = withSpinner(ctx, showSpinner, "Generating...", func(ctx context.Context) error {
		var runErr error
		res, runErr = generate.Run(ctx, cfg, opts)
		return runErr
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	fmt.Println(renderMarkdown(res.Content))
	fmt.Fprintln(os.Stderr, statusStyle.Render(fmt.Sprintf(
		"\n[%s · ↑%d ↓%d tokens · %d iteration(s) · %d tool call(s)]",
		res.Model, res.Usage.PromptTokens, res.Usage.CompletionTokens,
		res.Iterations, res.ToolCallsExecuted,
	)))

	return nil
}

// promptArg picks the template argument from the -i flag or the positional
// argument. Giving both, or neither, is a usage error.
func promptArg(flagValue string, positional []string) (string, error) {
	switch {
	case flagValue != "" && len(positional) > 0:
		return "", fmt.Errorf("give the prompt either positionally or via -i, not both")
	case flagValue != "":
		return flagValue, nil
	case len(positional) == 1:
		return positional[0], nil
	case len(positional) > 1:
		return "", fmt.Errorf("expected one prompt argument, got %d (quote prompts containing spaces)", len(positional))
	default:
		return "", fmt.Errorf("no prompt given (pass a file path or text, or use -i)")
	}
}

func splitTools(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}

	return names
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Println(string(data))

	return nil
}
