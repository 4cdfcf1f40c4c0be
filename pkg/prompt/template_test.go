package prompt_test

import (
	"testing"

	"github.com/conjure-cli/conjure/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute_Basic(t *testing.T) {
	vars := map[string]string{"name": "World", "count": "42"}

	out := prompt.Substitute("Hello {{ name }}! Count: {{ count }}", vars)
	assert.Equal(t, "Hello World! Count: 42", out)
}

func TestSubstitute_WhitespaceTolerant(t *testing.T) {
	vars := map[string]string{"name": "World"}

	assert.Equal(t, "Hello World", prompt.Substitute("Hello {{name}}", vars))
	assert.Equal(t, "Hello World", prompt.Substitute("Hello {{  name  }}", vars))
	assert.Equal(t, "Hello World", prompt.Substitute("Hello {{ name}}", vars))
}

func TestSubstitute_PunctuatedAndNumericNames(t *testing.T) {
	// Any key ParseVars accepts must round-trip through substitution,
	// including hyphens, dots, and leading digits.
	vars := map[string]string{
		"date-format": "iso8601",
		"user.name":   "ada",
		"2nd":         "two",
	}

	out := prompt.Substitute("fmt={{ date-format }} who={{ user.name }} n={{ 2nd }}", vars)
	assert.Equal(t, "fmt=iso8601 who=ada n=two", out)
}

func TestSubstitute_MissingLeftVerbatim(t *testing.T) {
	out := prompt.Substitute("Hello {{ name }}!", nil)
	assert.Equal(t, "Hello {{ name }}!", out)
}

func TestSubstitute_MixedKnownAndUnknown(t *testing.T) {
	vars := map[string]string{"known": "yes"}

	out := prompt.Substitute("{{ known }} and {{ unknown }}", vars)
	assert.Equal(t, "yes and {{ unknown }}", out)
}

func TestSubstitute_NoPlaceholders_Unchanged(t *testing.T) {
	text := "Plain text with {single braces} and nothing else."

	assert.Equal(t, text, prompt.Substitute(text, map[string]string{"any": "thing"}))
}

func TestSubstitute_NoRecursiveExpansion(t *testing.T) {
	// A substituted value containing a placeholder is not re-scanned.
	vars := map[string]string{
		"a": "{{ b }}",
		"b": "bomb",
	}

	out := prompt.Substitute("value: {{ a }}", vars)
	assert.Equal(t, "value: {{ b }}", out)
}

func TestSubstitute_RepeatedPlaceholder(t *testing.T) {
	vars := map[string]string{"x": "7"}

	out := prompt.Substitute("{{ x }} + {{ x }} = 14", vars)
	assert.Equal(t, "7 + 7 = 14", out)
}

func TestParseVars(t *testing.T) {
	vars, err := prompt.ParseVars([]string{"name=John", "city=Paris"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "John", "city": "Paris"}, vars)
}

func TestParseVars_EqualsInValue(t *testing.T) {
	vars, err := prompt.ParseVars([]string{"expr=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", vars["expr"])
}

func TestParseVars_Malformed(t *testing.T) {
	_, err := prompt.ParseVars([]string{"no_equals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_equals")
}

func TestParseVars_Empty(t *testing.T) {
	vars, err := prompt.ParseVars(nil)
	require.NoError(t, err)
	assert.Empty(t, vars)
}
