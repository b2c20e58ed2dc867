// ABOUTME: Markdown to HTML conversion for policy statements using goldmark with GFM extensions.
// ABOUTME: Raw HTML in sources is dropped; the output is embedded verbatim in the statement JSON.
package content

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Converter turns a Markdown source into an HTML string.
type Converter interface {
	Convert(source []byte) (string, error)
}

// MarkdownConverter is the goldmark-backed Converter.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter returns a converter with GitHub-flavored tables,
// strikethrough, autolinks, and task lists enabled.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Convert renders source to HTML. Empty input yields an empty string.
func (c *MarkdownConverter) Convert(source []byte) (string, error) {
	if len(bytes.TrimSpace(source)) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
