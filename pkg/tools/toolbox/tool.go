package toolbox

import (
	"context"
	"encoding/json"
)

// Handler executes a tool with the given JSON input and returns a text result.
// Handlers are synchronous; the generation loop blocks on them.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is an executable tool with a name, description, JSON Schema, and
// handler. Name and InputSchema are advertised to the provider so the model
// knows which tools exist; the definition is immutable for the process
// lifetime.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}
