// Package agent runs the bounded tool-call loop: it sends the conversation
// to a Completer, executes any tool calls the model requests, feeds the
// results back, and repeats until the model answers with plain text or the
// iteration limit is reached.
package agent

import (
	"context"
	"fmt"

	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/conjure-cli/conjure/pkg/modeladapter"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

// DefaultMaxIterations bounds the loop when Options.MaxIterations is zero.
const DefaultMaxIterations = 8

// IterationLimitError is returned when the loop runs out of iterations while
// the model is still requesting tool calls. The partial transcript is kept on
// the Agent's chat.
type IterationLimitError struct {
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("agent: no final answer after %d iterations", e.Limit)
}

// ExecutedToolCall records one tool invocation performed during a run.
type ExecutedToolCall struct {
	Name      string
	Arguments string
	Result    string
	IsError   bool
}

// Options configures an Agent.
type Options struct {
	MaxIterations int // Loop limit (0 = DefaultMaxIterations).
}

// Agent drives one conversation against a Completer with a fixed tool set.
type Agent struct {
	completer  modeladapter.Completer
	chat       *chat.Chat
	toolbox    *toolbox.ToolBox
	tools      []toolbox.Tool
	executed   []ExecutedToolCall
	iterations int
	options    Options
}

// New creates an Agent. The tools slice declares what the model may call;
// calls are dispatched through tb.
func New(completer modeladapter.Completer, c *chat.Chat, tb *toolbox.ToolBox, tools []toolbox.Tool, opts Options) *Agent {
	if opts.MaxIterations == 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	return &Agent{
		completer: completer,
		chat:      c,
		toolbox:   tb,
		tools:     tools,
		options:   opts,
	}
}

// Chat returns the agent's conversation, including everything appended
// during Run.
func (a *Agent) Chat() *chat.Chat { return a.chat }

// Executed returns the tool calls performed so far, in execution order.
func (a *Agent) Executed() []ExecutedToolCall { return a.executed }

// Iterations returns how many completer round-trips the last Run made.
func (a *Agent) Iterations() int { return a.iterations }

// Run executes the loop and returns the model's final text reply. Tool
// results are appended to the chat in the same order as the tool calls that
// produced them, so the transcript always satisfies the provider's pairing
// requirement. On *IterationLimitError the chat holds the partial transcript.
func (a *Agent) Run(ctx context.Context) (message.Message, error) {
	a.iterations = 0

	for i := 0; i < a.options.MaxIterations; i++ {
		reply, err := a.completer.Complete(ctx, a.chat, a.tools)
		if err != nil {
			return message.Message{}, err
		}

		a.iterations++
		a.chat.Append(reply)

		calls := reply.ToolCalls()
		if len(calls) == 0 {
			return reply, nil
		}

		for _, tc := range calls {
			result := a.toolbox.Call(ctx, tc)
			a.executed = append(a.executed, ExecutedToolCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
				Result:    result.Content,
				IsError:   result.IsError,
			})
			a.chat.Append(message.New(role.Tool, result))
		}
	}

	return message.Message{}, &IterationLimitError{Limit: a.options.MaxIterations}
}
