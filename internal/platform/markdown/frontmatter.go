// Package markdown reads and writes notes with a YAML frontmatter block.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

var ErrNoFrontmatter = errors.New("note has no frontmatter")

// Render writes meta as frontmatter followed by body. meta is any value
// yaml.v3 can encode, normally a struct with yaml tags.
func Render(meta any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fence)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(fence)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// Parse decodes the frontmatter of note into meta and returns the body.
func Parse(note []byte, meta any) (string, error) {
	content := string(note)
	if !strings.HasPrefix(content, fence) {
		return content, ErrNoFrontmatter
	}
	rest := content[len(fence):]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return "", fmt.Errorf("unterminated frontmatter")
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), meta); err != nil {
		return "", fmt.Errorf("decode frontmatter: %w", err)
	}
	return rest[end+len(fence)+1:], nil
}
