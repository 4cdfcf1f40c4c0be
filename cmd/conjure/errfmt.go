package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conjure-cli/conjure/pkg/agent"
	"github.com/conjure-cli/conjure/pkg/config"
	"github.com/conjure-cli/conjure/pkg/modeladapter"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

// formatError renders an error as an icon, a styled message, and an optional
// hint line telling the user what to do about it.
func formatError(err error) string {
	icon, msg, hint := classify(err)

	var b strings.Builder
	b.WriteString(errorIconStyle.Render(icon))
	b.WriteString(" ")
	b.WriteString(errorTextStyle.Render(msg))

	if hint != "" {
		b.WriteString("\n  ")
		b.WriteString(hintStyle.Render(hint))
	}

	return b.String()
}

func classify(err error) (icon, msg, hint string) {
	var missingKey *config.MissingKeyError
	if errors.As(err, &missingKey) {
		return "🔑", err.Error(),
			fmt.Sprintf("Set %s in your environment or a .env file.", missingKey.EnvVar)
	}

	var unknownTool *toolbox.UnknownToolError
	if errors.As(err, &unknownTool) {
		return "✗", err.Error(),
			"Run with no --tools flag to allow every builtin tool."
	}

	var apiErr *modeladapter.APIError
	if errors.As(err, &apiErr) {
		return "⚠", fmt.Sprintf("API error (%d): %s", apiErr.Status, apiErr.Message()),
			apiErr.Hint()
	}

	var netErr *modeladapter.NetworkError
	if errors.As(err, &netErr) {
		hint := "Check your network connection and the base URL."
		if netErr.Timeout {
			hint = "The request timed out. The model may be overloaded, try again."
		}
		return "🌐", err.Error(), hint
	}

	var respErr *modeladapter.ResponseError
	if errors.As(err, &respErr) {
		return "⚠", err.Error(),
			"The provider returned an unexpected payload. Try again or switch models."
	}

	var limitErr *agent.IterationLimitError
	if errors.As(err, &limitErr) {
		return "ℹ", err.Error(),
			"The model kept requesting tools. Raise --max-iterations or narrow the prompt."
	}

	return "✗", err.Error(), ""
}
