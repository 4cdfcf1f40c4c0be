package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "multi line", truncate("multi\nline", 20))

	out := truncate("a very long line that should be shortened", 10)
	assert.LessOrEqual(t, len([]rune(out)), 10)
	assert.Contains(t, out, "...")
}

func TestResolveInput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	require.NoError(t, os.WriteFile(path, []byte("Write about {{ topic }}."), 0o600))

	text, fromFile, err := resolveInput(path)
	require.NoError(t, err)
	assert.True(t, fromFile)
	assert.Equal(t, "Write about {{ topic }}.", text)
}

func TestResolveInput_DirectText(t *testing.T) {
	text, fromFile, err := resolveInput("Write a haiku about autumn.")
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, "Write a haiku about autumn.", text)
}

func TestResolveInput_DirectoryTreatedAsText(t *testing.T) {
	dir := t.TempDir()

	text, fromFile, err := resolveInput(dir)
	require.NoError(t, err)
	assert.False(t, fromFile)
	assert.Equal(t, dir, text)
}

func TestInputStem(t *testing.T) {
	assert.Equal(t, "fox-prompt", inputStem("prompts/fox-prompt.md", true))
	assert.Equal(t, "notes", inputStem("notes", true))
	assert.Equal(t, "image", inputStem("a direct prompt", false))
}

func TestPromptArg(t *testing.T) {
	got, err := promptArg("from-flag", nil)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", got)

	got, err = promptArg("", []string{"positional"})
	require.NoError(t, err)
	assert.Equal(t, "positional", got)

	_, err = promptArg("from-flag", []string{"positional"})
	require.Error(t, err)

	_, err = promptArg("", []string{"one", "two"})
	require.Error(t, err)

	_, err = promptArg("", nil)
	require.Error(t, err)
}

func TestSplitTools(t *testing.T) {
	assert.Nil(t, splitTools(""))
	assert.Equal(t, []string{"current_time"}, splitTools("current_time"))
	assert.Equal(t, []string{"a", "b"}, splitTools("a, b,"))
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnv_LoadsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CONJURE_DOTENV_TEST=loaded\n"), 0o600))

	t.Setenv("CONJURE_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("CONJURE_DOTENV_TEST"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CONJURE_DOTENV_TEST"))
}
