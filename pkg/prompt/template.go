// Package prompt prepares user input for the provider: template variable
// substitution, key=value variable parsing, and image reference
// normalization. Everything here is pure with respect to network state.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches {{ name }} placeholders, whitespace-tolerant inside
// the braces. The name may be any brace-free token, so every key ParseVars
// accepts is substitutable.
var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Substitute replaces each {{ name }} placeholder in template with the
// mapped value. Placeholders whose name is not in vars are left verbatim, so
// partially-specified templates still produce inspectable output. Substituted
// values are not re-scanned for further placeholders.
func Substitute(template string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if value, ok := vars[name]; ok {
			return value
		}
		return match
	})
}

// ParseVars parses repeated key=value entries into a map. An entry without
// an '=' is a validation error, surfaced before any network call. The value
// may itself contain '=' characters; only the first one splits.
func ParseVars(entries []string) (map[string]string, error) {
	vars := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("prompt: invalid variable %q: expected key=value", entry)
		}
		vars[key] = value
	}
	return vars, nil
}
