package role_test

import (
	"testing"

	"github.com/conjure-cli/conjure/pkg/chats/role"
	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, role.System.Valid())
	assert.True(t, role.User.Valid())
	assert.True(t, role.Assistant.Valid())
	assert.True(t, role.Tool.Valid())
	assert.False(t, role.Role("narrator").Valid())
	assert.False(t, role.Role("").Valid())
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "assistant", role.Assistant.String())
	assert.Equal(t, "tool", role.Tool.String())
}
