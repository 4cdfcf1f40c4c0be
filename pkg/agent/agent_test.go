package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/conjure-cli/conjure/pkg/agent"
	"github.com/conjure-cli/conjure/pkg/chats/chat"
	"github.com/conjure-cli/conjure/pkg/chats/content"
	"github.com/conjure-cli/conjure/pkg/chats/message"
	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter replays a fixed sequence of replies and counts requests.
type scriptedCompleter struct {
	replies []message.Message
	err     error
	calls   int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ *chat.Chat, _ []toolbox.Tool) (message.Message, error) {
	if s.err != nil {
		return message.Message{}, s.err
	}

	if s.calls >= len(s.replies) {
		return message.Message{}, errors.New("scripted completer exhausted")
	}

	reply := s.replies[s.calls]
	s.calls++

	return reply, nil
}

func toolCallReply(id, name, args string) message.Message {
	return message.New(role.Assistant, content.ToolCall{ID: id, Name: name, Arguments: args})
}

func echoToolBox() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(toolbox.Tool{
		Name:        "echo",
		Description: "Echoes its input back",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}}}`),
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			var args struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", err
			}
			return args.Text, nil
		},
	})

	return tb
}

func TestRun_ReturnsTextReplyImmediately(t *testing.T) {
	sc := &scriptedCompleter{replies: []message.Message{
		message.NewText(role.Assistant, "done"),
	}}

	c := chat.New(message.NewText(role.User, "hi"))
	a := agent.New(sc, c, toolbox.New(), nil, agent.Options{})

	reply, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "done", reply.TextContent())
	assert.Equal(t, 1, sc.calls)
	assert.Equal(t, 1, a.Iterations())
	assert.Empty(t, a.Executed())
}

func TestRun_ExecutesToolCallsThenReturns(t *testing.T) {
	sc := &scriptedCompleter{replies: []message.Message{
		toolCallReply("call_1", "echo", `{"text":"ping"}`),
		message.NewText(role.Assistant, "pong"),
	}}

	tb := echoToolBox()
	c := chat.New(message.NewText(role.User, "echo ping"))
	a := agent.New(sc, c, tb, tb.Tools(), agent.Options{})

	reply, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pong", reply.TextContent())
	assert.Equal(t, 2, sc.calls)
	assert.Equal(t, 2, a.Iterations())

	executed := a.Executed()
	require.Len(t, executed, 1)
	assert.Equal(t, "echo", executed[0].Name)
	assert.Equal(t, "ping", executed[0].Result)
	assert.False(t, executed[0].IsError)

	// Transcript: user, assistant tool call, tool result, final answer.
	require.Equal(t, 4, c.Len())
	assert.Equal(t, role.Tool, c.At(2).Role)
}

func TestRun_PreservesToolResultOrdering(t *testing.T) {
	sc := &scriptedCompleter{replies: []message.Message{
		message.New(role.Assistant,
			content.ToolCall{ID: "call_a", Name: "echo", Arguments: `{"text":"first"}`},
			content.ToolCall{ID: "call_b", Name: "echo", Arguments: `{"text":"second"}`},
		),
		message.NewText(role.Assistant, "ok"),
	}}

	tb := echoToolBox()
	c := chat.New(message.NewText(role.User, "go"))
	a := agent.New(sc, c, tb, tb.Tools(), agent.Options{})

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	// user, assistant, result a, result b, final.
	require.Equal(t, 5, c.Len())

	resultA := c.At(2).Parts[0].(content.ToolResult)
	resultB := c.At(3).Parts[0].(content.ToolResult)
	assert.Equal(t, "call_a", resultA.ToolCallID)
	assert.Equal(t, "call_b", resultB.ToolCallID)

	executed := a.Executed()
	require.Len(t, executed, 2)
	assert.Equal(t, "first", executed[0].Result)
	assert.Equal(t, "second", executed[1].Result)
}

func TestRun_UnknownToolBecomesErrorResult(t *testing.T) {
	sc := &scriptedCompleter{replies: []message.Message{
		toolCallReply("call_1", "no_such_tool", `{}`),
		message.NewText(role.Assistant, "recovered"),
	}}

	tb := echoToolBox()
	c := chat.New(message.NewText(role.User, "go"))
	a := agent.New(sc, c, tb, tb.Tools(), agent.Options{})

	reply, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply.TextContent())

	executed := a.Executed()
	require.Len(t, executed, 1)
	assert.True(t, executed[0].IsError)
	assert.Contains(t, executed[0].Result, "no_such_tool")
}

func TestRun_IterationLimit(t *testing.T) {
	// Every reply requests another tool call; the loop must stop on its own.
	replies := make([]message.Message, 5)
	for i := range replies {
		replies[i] = toolCallReply("call_n", "echo", `{"text":"again"}`)
	}
	sc := &scriptedCompleter{replies: replies}

	tb := echoToolBox()
	c := chat.New(message.NewText(role.User, "loop"))
	a := agent.New(sc, c, tb, tb.Tools(), agent.Options{MaxIterations: 3})

	_, err := a.Run(context.Background())
	require.Error(t, err)

	var limitErr *agent.IterationLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 3, limitErr.Limit)

	// No request beyond the limit.
	assert.Equal(t, 3, sc.calls)

	// Partial transcript survives: user + 3x(assistant, tool result).
	assert.Equal(t, 7, c.Len())
	assert.Len(t, a.Executed(), 3)
}

func TestRun_CompleterErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	sc := &scriptedCompleter{err: boom}

	c := chat.New(message.NewText(role.User, "hi"))
	a := agent.New(sc, c, toolbox.New(), nil, agent.Options{})

	_, err := a.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.Len(), "failed requests must not grow the transcript")
}

func TestRun_DefaultMaxIterations(t *testing.T) {
	sc := &scriptedCompleter{replies: []message.Message{
		message.NewText(role.Assistant, "ok"),
	}}

	a := agent.New(sc, chat.New(), toolbox.New(), nil, agent.Options{})

	_, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, agent.DefaultMaxIterations)
}
