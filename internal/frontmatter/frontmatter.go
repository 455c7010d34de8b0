// Package frontmatter splits and composes markdown files that open with a
// YAML (---) or TOML (+++) metadata block.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat accepts "yaml", "yml" or "toml", case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported front matter format: %q", s)
	}
}

func (f Format) delimiter() string {
	if f == TOML {
		return "+++"
	}
	return "---"
}

// Split separates front matter from the body. Content without front matter
// is returned whole with a nil map and empty format. Line endings are
// normalized to \n.
func Split(content []byte) (map[string]any, string, Format, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	var format Format
	switch {
	case strings.HasPrefix(text, "---\n"):
		format = YAML
	case strings.HasPrefix(text, "+++\n"):
		format = TOML
	default:
		return nil, text, "", nil
	}

	lines := strings.Split(text, "\n")
	closing := 0
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == format.delimiter() {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, "", format, fmt.Errorf("missing closing front matter delimiter %q", format.delimiter())
	}

	raw := []byte(strings.Join(lines[1:closing], "\n"))
	meta := map[string]any{}
	var err error
	if format == TOML {
		err = toml.Unmarshal(raw, &meta)
	} else {
		err = yaml.Unmarshal(raw, &meta)
	}
	if err != nil {
		return nil, "", format, fmt.Errorf("failed to parse %s front matter: %w", format, err)
	}

	body := strings.TrimLeft(strings.Join(lines[closing+1:], "\n"), "\n")
	return meta, body, format, nil
}

// Compose writes meta as front matter followed by body. Pass a struct to
// keep key order stable.
func Compose(meta any, body string, format Format) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(format.delimiter())
	buf.WriteByte('\n')

	switch format {
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("encode yaml front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case TOML:
		if err := toml.NewEncoder(&buf).Encode(meta); err != nil {
			return nil, fmt.Errorf("encode toml front matter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported front matter format: %q", format)
	}

	buf.WriteString(format.delimiter())
	buf.WriteByte('\n')
	if body != "" {
		buf.WriteByte('\n')
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
