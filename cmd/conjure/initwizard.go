package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/providers/openai"
	"gopkg.in/yaml.v3"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: conjure init [flags]\n\nCreate a conjure.yaml interactively.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	path := fs.String("config", config.DefaultFileName, "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		if _, err := os.Stat(*path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", *path)
		}
	}

	data, err := runWizard()
	if err != nil {
		return err
	}

	if err := os.WriteFile(*path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Initialized %s\n", *path)

	return nil
}

func runWizard() ([]byte, error) {
	cfg := config.Config{
		Model:  openai.DefaultModel,
		APIKey: "${" + config.EnvAPIKey + "}",
	}

	var (
		maxTokens     string
		maxIterations string
	)

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Model").Value(&cfg.Model),
		huh.NewInput().Title("Base URL (empty for api.openai.com)").Value(&cfg.BaseURL),
		huh.NewInput().Title("API key (env var reference recommended)").Value(&cfg.APIKey),
		huh.NewSelect[string]().
			Title("Reasoning effort (reasoning models only)").
			Options(
				huh.NewOption("Not set", ""),
				huh.NewOption("Low", "low"),
				huh.NewOption("Medium", "medium"),
				huh.NewOption("High", "high"),
			).
			Value(&cfg.Reasoning),
		huh.NewInput().Title("Max completion tokens (0 = provider default)").
			Value(&maxTokens).Validate(validateNonNegativeInt),
		huh.NewInput().Title("Max tool loop iterations (0 = default)").
			Value(&maxIterations).Validate(validateNonNegativeInt),
	)).Run(); err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}

	cfg.MaxTokens = atoiOrZero(maxTokens)
	cfg.MaxIterations = atoiOrZero(maxIterations)

	var configImage bool
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title("Configure image generation defaults?").Value(&configImage),
	)).Run(); err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}

	if configImage {
		var compression string

		if err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Size (e.g. 1024x1024, empty = auto)").Value(&cfg.Image.Size),
			huh.NewSelect[string]().
				Title("Quality").
				Options(
					huh.NewOption("Auto", ""),
					huh.NewOption("Low", "low"),
					huh.NewOption("Medium", "medium"),
					huh.NewOption("High", "high"),
				).
				Value(&cfg.Image.Quality),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("PNG", "png"),
					huh.NewOption("JPEG", "jpeg"),
					huh.NewOption("WebP", "webp"),
				).
				Value(&cfg.Image.Format),
			huh.NewInput().Title("Compression 0-100 (jpeg/webp, empty = 100)").
				Value(&compression).Validate(validateNonNegativeInt),
		)).Run(); err != nil {
			return nil, fmt.Errorf("wizard: %w", err)
		}

		if compression != "" {
			v := atoiOrZero(compression)
			cfg.Image.Compression = &v
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return data, nil
}

func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
