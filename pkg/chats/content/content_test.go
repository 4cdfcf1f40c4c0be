package content_test

import (
	"testing"

	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/stretchr/testify/assert"
)

func TestPartKinds(t *testing.T) {
	assert.Equal(t, "text", content.Text{Text: "hi"}.PartKind())
	assert.Equal(t, "image", content.Image{URL: "https://example.com/a.png"}.PartKind())
	assert.Equal(t, "tool_call", content.ToolCall{ID: "call_1"}.PartKind())
	assert.Equal(t, "tool_result", content.ToolResult{ToolCallID: "call_1"}.PartKind())
}

func TestPartsImplementInterface(t *testing.T) {
	parts := []content.Part{
		content.Text{Text: "hello"},
		content.Image{URL: "data:image/png;base64,AAAA", Detail: "high"},
		content.ToolCall{ID: "1", Name: "current_time", Arguments: "{}"},
		content.ToolResult{ToolCallID: "1", Content: "noon"},
	}

	assert.Len(t, parts, 4)
}
