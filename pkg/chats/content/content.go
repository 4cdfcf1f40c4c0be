// Package content defines multi-modal content parts for LLM messages.
package content

// Part is a piece of content within a message. The set of implementations is
// closed: Text, Image, ToolCall, and ToolResult.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// Image references an image by URL. The URL is either an http(s) URL or a
// base64 data URL produced from a local file. Detail is the provider's
// vision detail level ("auto", "low", "high"); empty means provider default.
type Image struct {
	URL    string
	Detail string
}

func (i Image) PartKind() string { return "image" }

// ToolCall represents an assistant's request to invoke a tool.
// Arguments holds the raw JSON string to avoid unnecessary deserialization.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (tc ToolCall) PartKind() string { return "tool_call" }

// ToolResult holds the output of a tool invocation. ToolCallID must match
// the ID of the ToolCall that requested it.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

func (tr ToolResult) PartKind() string { return "tool_result" }
