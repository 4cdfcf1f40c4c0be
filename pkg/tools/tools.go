// Package tools groups the tool registry and the builtin tools the
// generation loop can execute on the model's behalf.
package tools

import (
	"github.com/conjure-cli/conjure/pkg/tools/clock"
	"github.com/conjure-cli/conjure/pkg/tools/toolbox"
)

// Builtins returns a ToolBox pre-populated with every builtin tool.
func Builtins() *toolbox.ToolBox {
	tb := toolbox.New()
	tb.Register(clock.Tool())
	return tb
}
