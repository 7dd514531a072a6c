package prompt

import (
	"fmt"

	"github.com/weftlabs/weft/pkg/chats"
)

// Source produces zero or more messages when formatted with a variable set.
// MessageTemplate, Placeholder, and Static implement it; ChatTemplate
// concatenates sources in order.
type Source interface {
	FormatMessages(vars map[string]any) ([]chats.Message, error)
	Variables() []string
}

// MessageTemplate renders a string template into a single message tagged
// with a fixed role. The role may be any string, not just the well-known
// ones; it is attached to the formatted content unchanged.
type MessageTemplate struct {
	Role chats.Role

	tpl *Template
	err error
}

// NewMessage creates a message template with an arbitrary role. A template
// syntax error is deferred and returned by FormatMessage.
func NewMessage(role chats.Role, tpl string) MessageTemplate {
	t, err := Parse(tpl)
	return MessageTemplate{Role: role, tpl: t, err: err}
}

// NewSystem creates a system message template.
func NewSystem(tpl string) MessageTemplate { return NewMessage(chats.System, tpl) }

// NewUser creates a user message template.
func NewUser(tpl string) MessageTemplate { return NewMessage(chats.User, tpl) }

// NewAssistant creates an assistant message template.
func NewAssistant(tpl string) MessageTemplate { return NewMessage(chats.Assistant, tpl) }

// FormatMessage renders the template into its role-tagged message.
func (m MessageTemplate) FormatMessage(vars map[string]any) (chats.Message, error) {
	if m.err != nil {
		return chats.Message{}, m.err
	}
	content, err := m.tpl.Format(vars)
	if err != nil {
		return chats.Message{}, err
	}
	return chats.Message{Role: m.Role, Content: content}, nil
}

// FormatMessages implements Source.
func (m MessageTemplate) FormatMessages(vars map[string]any) ([]chats.Message, error) {
	msg, err := m.FormatMessage(vars)
	if err != nil {
		return nil, err
	}
	return []chats.Message{msg}, nil
}

// Variables implements Source.
func (m MessageTemplate) Variables() []string {
	if m.err != nil {
		return nil
	}
	return m.tpl.Variables()
}

// Placeholder marks the position where a caller-supplied message list is
// spliced into the formatted output. The bound value must be a
// []chats.Message (or a single chats.Message); its order is preserved.
type Placeholder struct {
	Key      string
	Optional bool
}

// NewPlaceholder creates a required messages placeholder for the variable
// named key.
func NewPlaceholder(key string) Placeholder {
	return Placeholder{Key: key}
}

// NewOptionalPlaceholder creates a placeholder that contributes no messages
// when its variable is unbound.
func NewOptionalPlaceholder(key string) Placeholder {
	return Placeholder{Key: key, Optional: true}
}

// FormatMessages implements Source.
func (p Placeholder) FormatMessages(vars map[string]any) ([]chats.Message, error) {
	v, ok := vars[p.Key]
	if !ok {
		if p.Optional {
			return nil, nil
		}
		return nil, fmt.Errorf("prompt: variable %q: %w", p.Key, ErrMissingVariable)
	}

	switch v := v.(type) {
	case []chats.Message:
		return v, nil
	case chats.Message:
		return []chats.Message{v}, nil
	default:
		return nil, fmt.Errorf("prompt: variable %q has type %T: %w", p.Key, v, ErrBadPlaceholderValue)
	}
}

// Variables implements Source. Optional placeholders are not required and
// report no variables.
func (p Placeholder) Variables() []string {
	if p.Optional {
		return nil
	}
	return []string{p.Key}
}

// Static wraps a pre-built message so it can sit inside a ChatTemplate.
type Static chats.Message

// FormatMessages implements Source.
func (s Static) FormatMessages(map[string]any) ([]chats.Message, error) {
	return []chats.Message{chats.Message(s)}, nil
}

// Variables implements Source.
func (s Static) Variables() []string { return nil }
