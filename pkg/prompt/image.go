package prompt

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NormalizeImageRef converts an image reference into a form the API accepts.
// HTTP(S) URLs pass through unchanged. A local file path is read and encoded
// as a base64 data URL with the MIME type inferred from the extension.
func NormalizeImageRef(ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref, nil
	}

	data, err := os.ReadFile(ref) //nolint:gosec // path is caller-provided input, reading it is the point
	if err != nil {
		return "", fmt.Errorf("prompt: read image file %q: %w", ref, err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(ref), encoded), nil
}

// mimeTypeFor maps a file extension to an image MIME type, defaulting to PNG.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
