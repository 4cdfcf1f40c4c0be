package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"
)

// verboseLogger returns a Debug-level stderr logger, or nil when verbose
// output is off.
func verboseLogger(verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// stringSlice collects repeated flag values.
type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ",") }

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// resolveInput turns the prompt argument into template text. Arguments that
// name an existing file are read from disk; anything else is treated as the
// template itself.
func resolveInput(arg string) (text string, fromFile bool, err error) {
	info, statErr := os.Stat(arg)
	if statErr == nil && !info.IsDir() {
		data, err := os.ReadFile(arg) //nolint:gosec // user-provided prompt file
		if err != nil {
			return "", false, fmt.Errorf("read input file: %w", err)
		}
		return string(data), true, nil
	}

	return arg, false, nil
}

// inputStem derives the base name for auto-generated output files: the input
// file name without its extension, or "image" for direct text.
func inputStem(arg string, fromFile bool) string {
	if !fromFile {
		return "image"
	}

	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// truncate shortens s to at most width terminal cells, appending "..." when
// shortened. Newlines are replaced with spaces for single-line display.
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// renderMarkdown converts markdown text to terminal-formatted output. On any
// renderer failure the raw text is returned unchanged.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(out, "\n")
}
