// Package clock provides the builtin current_time tool: a deterministic,
// synchronous tool the model can call to learn the current date and time.
package clock

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

// Name is the tool name advertised to the provider.
const Name = "current_time"

// schema describes the tool's arguments. Both fields are optional.
var schema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"timezone": {
			"type": "string",
			"description": "Timezone to use: 'utc' for UTC or 'local' for system local time",
			"enum": ["utc", "local"],
			"default": "local"
		},
		"format": {
			"type": "string",
			"description": "Output format: 'iso8601' (2024-01-15T10:30:00Z), 'rfc2822' (Mon, 15 Jan 2024 10:30:00 +0000), 'unix' (seconds since epoch), 'human' (January 15, 2024 10:30 AM)",
			"enum": ["iso8601", "rfc2822", "unix", "human"],
			"default": "iso8601"
		}
	},
	"additionalProperties": false
}`)

type args struct {
	Timezone string `json:"timezone"`
	Format   string `json:"format"`
}

// Tool returns the current_time tool backed by the real clock.
func Tool() toolbox.Tool {
	return ToolAt(time.Now)
}

// ToolAt returns the current_time tool with an injectable clock, used by
// tests to pin the time.
func ToolAt(now func() time.Time) toolbox.Tool {
	return toolbox.Tool{
		Name:        Name,
		Description: "Get the current date and time. Returns the current timestamp in the specified format and timezone.",
		InputSchema: schema,
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			var a args
			if raw := strings.TrimSpace(string(input)); raw != "" && raw != "{}" {
				if err := json.Unmarshal(input, &a); err != nil {
					return "", fmt.Errorf("clock: invalid arguments: %w", err)
				}
			}

			t := now()
			if a.Timezone == "utc" {
				t = t.UTC()
			} else {
				t = t.Local()
			}

			return format(t, a.Format, a.Timezone == "utc"), nil
		},
	}
}

func format(t time.Time, layout string, utc bool) string {
	switch layout {
	case "rfc2822":
		return t.Format("Mon, 02 Jan 2006 15:04:05 -0700")
	case "unix":
		return strconv.FormatInt(t.Unix(), 10)
	case "human":
		if utc {
			return t.Format("January 2, 2006 3:04 PM") + " UTC"
		}
		return t.Format("January 2, 2006 3:04 PM")
	default: // iso8601
		return t.Format(time.RFC3339)
	}
}
