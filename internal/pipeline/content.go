package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Storage format is XHTML, so void elements must be written as <br />.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithXHTML()),
)

// ReadContent returns a file as a storage-format body: Markdown is converted,
// HTML is passed through unchanged.
func ReadContent(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown", ".html", ".htm":
	default:
		return "", fmt.Errorf("unsupported file type %q (use .md or .html)", ext)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if ext == ".html" || ext == ".htm" {
		return string(raw), nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert(raw, &buf); err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return buf.String(), nil
}
