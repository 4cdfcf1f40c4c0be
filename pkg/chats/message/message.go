// Package message defines the Message type used in LLM conversations.
package message

import (
	"strings"

	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/conjure-cli/conjure/pkg/chats/role"
)

// Message is a single message in a conversation. It is a value type that
// copies cheaply.
type Message struct {
	Role  role.Role
	Parts []content.Part
}

// New creates a message with the given role and content parts.
func New(r role.Role, parts ...content.Part) Message {
	return Message{Role: r, Parts: parts}
}

// NewText creates a message with a single Text content part.
func NewText(r role.Role, text string) Message {
	return New(r, content.Text{Text: text})
}

// NewToolResult creates a Tool-role message carrying a single tool result.
func NewToolResult(tr content.ToolResult) Message {
	return New(role.Tool, tr)
}

// TextContent concatenates the text of all Text parts in the message.
func (m Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(content.Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// ToolCalls returns all ToolCall parts in the message, in order.
func (m Message) ToolCalls() []content.ToolCall {
	var calls []content.ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(content.ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}
