// Package toolbox provides the registry of tools the generation loop may
// execute in response to a model's tool-call request.
package toolbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// UnknownToolError is returned when a requested tool name is not registered.
// It lists every registered name so the caller can self-correct.
type UnknownToolError struct {
	Name  string
	Known []string
}

func (e *UnknownToolError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown tool %q (no tools registered)", e.Name)
	}
	return fmt.Sprintf("unknown tool %q (available: %s)", e.Name, strings.Join(e.Known, ", "))
}

// ToolBox holds a collection of tools. It allows registering, retrieving,
// resolving, and calling tools by name.
type ToolBox struct {
	tools map[string]Tool
}

// New creates a new ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{
		tools: make(map[string]Tool),
	}
}

// Register adds one or more tools to the ToolBox. If a tool with the same
// name already exists, it is replaced.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and a boolean indicating whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Names returns the registered tool names, sorted.
func (tb *ToolBox) Names() []string {
	names := make([]string, 0, len(tb.tools))
	for name := range tb.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools returns all registered tools as a slice.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, name := range tb.Names() {
		result = append(result, tb.tools[name])
	}
	return result
}

// Resolve validates a requested toolset eagerly, before any network call is
// made. The validation is all-or-nothing: a single unknown name fails the
// whole set with an *UnknownToolError listing the registered names. An empty
// request resolves to every registered tool.
func (tb *ToolBox) Resolve(names []string) ([]Tool, error) {
	if len(names) == 0 {
		return tb.Tools(), nil
	}

	resolved := make([]Tool, 0, len(names))
	for _, name := range names {
		t, ok := tb.tools[name]
		if !ok {
			return nil, &UnknownToolError{Name: name, Known: tb.Names()}
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// Call executes a tool call and returns a ToolResult. Arguments are
// validated against the tool's JSON Schema before the handler runs. If the
// tool is not found, validation fails, or the handler returns an error, the
// result has IsError set — the loop feeds it back to the model rather than
// aborting.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    (&UnknownToolError{Name: tc.Name, Known: tb.Names()}).Error(),
			IsError:    true,
		}
	}

	if err := validateArguments(t.InputSchema, tc.Arguments); err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    fmt.Sprintf("invalid arguments: %v", err),
			IsError:    true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Content:    result,
	}
}

// validateArguments checks raw JSON arguments against a tool's schema.
// Tools without a schema, and empty argument strings, pass unchecked.
func validateArguments(schema json.RawMessage, arguments string) error {
	if len(schema) == 0 {
		return nil
	}

	raw := strings.TrimSpace(arguments)
	if raw == "" {
		raw = "{}"
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader(schema)); err != nil {
		return fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	return s.Validate(doc)
}
