package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/imagegen"
	"github.com/conjure-cli/conjure/pkg/prompt"
	"github.com/conjure-cli/conjure/pkg/runctx"
)

func runImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("image", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: conjure image [flags]\n\nRender a prompt template and generate an image file.\nGive the prompt with -i (file path) or --text (direct text).\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		vars, images stringSlice
		input        string
	)

	fs.StringVar(&input, "i", "", "prompt template file path")
	fs.StringVar(&input, "input", "", "alias for -i")
	text := fs.String("text", "", "prompt template as direct text")
	fs.Var(&vars, "var", "template variable as key=value (repeatable)")
	fs.Var(&images, "image", "input image URL or file path for edit-style generation (repeatable)")
	save := fs.String("save", "", "output file path (default: auto-generated name)")
	model := fs.String("model", "", "model name (overrides config)")
	size := fs.String("size", "", "image size, e.g. 1024x1024 (default: auto)")
	quality := fs.String("quality", "", "image quality: low, medium, high (default: auto)")
	format := fs.String("format", "", "output format: png, jpeg, webp (default: png)")
	background := fs.String("background", "", "background: transparent, opaque (default: auto)")
	action := fs.String("action", "", "generation mode: auto, generate, edit (default: auto)")
	compression := fs.Int("compression", 0, "output compression 0-100 for jpeg/webp (default: config or 100)")
	toolNames := fs.String("tools", "", "comma-separated tool names for prompt pre-processing")
	maxIterations := fs.Int("max-iterations", 0, "pre-processing loop limit (0 = default)")
	configPath := fs.String("config", "", "path to conjure.yaml (default: ./conjure.yaml if present)")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
	output := fs.String("output", "text", "output format: text or json")
	verbose := fs.Bool("verbose", false, "log request diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx = runctx.WithRunID(ctx, runctx.New())

	// Distinguish an explicit --compression 0 from an unset flag.
	var compressionOpt *int
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "compression" {
			compressionOpt = compression
		}
	})

	var (
		template string
		stem     string
	)

	switch {
	case input != "" && *text != "":
		return fmt.Errorf("give the prompt either via -i or --text, not both")
	case input == "" && *text == "":
		return fmt.Errorf("no prompt given (use -i for a file or --text for direct text)")
	case input != "":
		data, err := os.ReadFile(input) //nolint:gosec // user-provided prompt file
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}
		template = string(data)
		stem = inputStem(input, true)
	default:
		template = *text
		stem = "image"
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

	opts := imagegen.Options{
		Template:      template,
		Vars:          varMap,
		Images:        images,
		Save:          *save,
		Stem:          stem,
		Size:          *size,
		Quality:       *quality,
		Format:        *format,
		Background:    *background,
		Action:        *action,
		Compression:   compressionOpt,
		Tools:         splitTools(*toolNames),
		Model:         *model,
		MaxIterations: *maxIterations,
		Logger:        verboseLogger(*verbose),
	}

	var res imagegen.Result

	jsonOut := *output == "json"

	// Spinner frames and log lines share stderr poorly.
	showSpinner := !jsonOut && !*verbose

	err = withSpinner(ctx, showSpinner, "Conjuring image...", func(ctx context.Context) error {
		var runErr error
		res, runErr = imagegen.Run(ctx, cfg, opts)
		return runErr
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	fmt.Println(successStyle.Render("✓") + " Saved " + res.OutputPath)
	if res.RevisedPrompt != "" {
		fmt.Println(statusStyle.Render("  revised prompt: " + truncate(res.RevisedPrompt, 100)))
	}

	return nil
}
