// Package frontmatter encodes and decodes the YAML metadata block at the
// top of a Markdown post.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/starford/fehu/internal/apperr"
)

const delim = "---"

// Split separates the YAML frontmatter (between leading --- delimiters)
// from the Markdown body. A file without a frontmatter block yields an
// empty mapping and the full content as body. A block that is present but
// not valid YAML is an apperr.ErrParse.
func Split(data []byte) (map[string]any, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim+"\n")) && !bytes.Equal(trimmed, []byte(delim)) {
		return map[string]any{}, string(data), nil
	}

	rest := trimmed[len(delim):]
	block, after, ok := splitAtClosingFence(rest)
	if !ok {
		// Opening fence with no closing fence: the block is malformed,
		// not silently part of the body.
		return nil, "", fmt.Errorf("%w: unterminated frontmatter block", apperr.ErrParse)
	}

	body := string(bytes.TrimLeft(after, "\n\r"))

	var meta map[string]any
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// splitAtClosingFence cuts rest at the first line consisting of exactly
// the delimiter, optionally followed by whitespace. A line that merely
// starts with the delimiter (a key like "---x" or a "----" rule) is not a
// fence. ok is false when no closing fence exists.
func splitAtClosingFence(rest []byte) (block, after []byte, ok bool) {
	offset := 0
	for {
		i := bytes.Index(rest[offset:], []byte("\n"+delim))
		if i < 0 {
			return nil, nil, false
		}
		nl := offset + i
		tail := rest[nl+1+len(delim):]

		n := 0
		for n < len(tail) && (tail[n] == ' ' || tail[n] == '\t' || tail[n] == '\r') {
			n++
		}
		if n == len(tail) {
			return rest[:nl], nil, true
		}
		if tail[n] == '\n' {
			return rest[:nl], tail[n+1:], true
		}
		offset = nl + 1
	}
}

// Render serialises a metadata mapping and body back into file content.
// An empty mapping produces the body alone, so posts that never had a
// frontmatter block round-trip without growing one.
func Render(meta map[string]any, body string) ([]byte, error) {
	if len(meta) == 0 {
		return []byte(body), nil
	}

	block, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	buf.Write(block)
	buf.WriteString(delim + "\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}
