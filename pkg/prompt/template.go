// Package prompt provides reusable prompt templates that render into
// role-tagged chat messages.
//
// String templates use {name} placeholders:
//
//	t, err := prompt.Parse("May the {subject} be with you")
//	out, err := t.Format(map[string]any{"subject": "force"})
//
// Literal braces are written as {{ and }}. Chat templates compose message
// templates with placeholders that splice caller-supplied message lists.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Template is a parsed string template with named placeholders.
type Template struct {
	raw      string
	segments []segment
}

// segment is either a literal run of text or a placeholder reference.
type segment struct {
	literal bool
	text    string // literal text, or the placeholder name
}

// Parse compiles a template string. Placeholder names match
// [a-zA-Z_][a-zA-Z0-9_]*; "{{" and "}}" escape literal braces. A bare "{"
// or "}" is a syntax error.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}

	var segments []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: true, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); {
		switch raw[i] {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			name, end, err := scanPlaceholder(raw, i)
			if err != nil {
				return nil, err
			}
			flush()
			segments = append(segments, segment{text: name})
			i = end
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("prompt: single '}' at offset %d (use \"}}\" for a literal brace): %w", i, ErrInvalidTemplate)
		default:
			lit.WriteByte(raw[i])
			i++
		}
	}
	flush()

	t.segments = segments
	return t, nil
}

// scanPlaceholder reads a "{name}" starting at the '{' at offset start and
// returns the name and the offset just past the closing brace.
func scanPlaceholder(raw string, start int) (string, int, error) {
	i := start + 1
	for i < len(raw) && isNameByte(raw[i], i > start+1) {
		i++
	}
	name := raw[start+1 : i]
	if name == "" {
		return "", 0, fmt.Errorf("prompt: empty placeholder at offset %d: %w", start, ErrInvalidTemplate)
	}
	if i >= len(raw) || raw[i] != '}' {
		return "", 0, fmt.Errorf("prompt: unclosed placeholder {%s at offset %d: %w", name, start, ErrInvalidTemplate)
	}
	return name, i + 1, nil
}

func isNameByte(c byte, tail bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return tail
	}
	return false
}

// Must panics if err is non-nil. It allows package-level template
// declarations: var tpl = prompt.Must(prompt.Parse(...)).
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Format substitutes every placeholder with its value from vars. A
// placeholder without a binding is an error wrapping ErrMissingVariable.
func (t *Template) Format(vars map[string]any) (string, error) {
	var out strings.Builder
	out.Grow(len(t.raw))

	for _, seg := range t.segments {
		if seg.literal {
			out.WriteString(seg.text)
			continue
		}
		v, ok := vars[seg.text]
		if !ok {
			return "", fmt.Errorf("prompt: variable %q: %w", seg.text, ErrMissingVariable)
		}
		out.WriteString(formatValue(v))
	}

	return out.String(), nil
}

// Variables returns the distinct placeholder names in order of first
// appearance.
func (t *Template) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, seg := range t.segments {
		if seg.literal || seen[seg.text] {
			continue
		}
		seen[seg.text] = true
		names = append(names, seg.text)
	}
	return names
}

// Raw returns the original template string.
func (t *Template) Raw() string {
	return t.raw
}

// formatValue renders a variable value in its natural string form.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	case error:
		return v.Error()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
