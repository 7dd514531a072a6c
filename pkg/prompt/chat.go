package prompt

import (
	"github.com/weftlabs/weft/pkg/chats"
)

// ChatTemplate is an ordered sequence of message sources. Formatting
// renders each source with the same variable set and concatenates the
// results, preserving both the source order and the internal order of any
// spliced message lists.
type ChatTemplate struct {
	sources  []Source
	partials map[string]any
}

// NewChatTemplate creates a chat template from sources in presentation
// order.
func NewChatTemplate(sources ...Source) *ChatTemplate {
	return &ChatTemplate{sources: sources}
}

// Append returns the template with extra sources added at the end.
func (c *ChatTemplate) Append(sources ...Source) *ChatTemplate {
	c.sources = append(c.sources, sources...)
	return c
}

// Partial returns a copy of the template with vars pre-bound. Pre-bound
// values apply to every Format call; values passed to Format win on
// conflict.
func (c *ChatTemplate) Partial(vars map[string]any) *ChatTemplate {
	merged := make(map[string]any, len(c.partials)+len(vars))
	for k, v := range c.partials {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}
	return &ChatTemplate{sources: c.sources, partials: merged}
}

// Format renders every source in order and returns the combined message
// list.
func (c *ChatTemplate) Format(vars map[string]any) ([]chats.Message, error) {
	bound := vars
	if len(c.partials) > 0 {
		bound = make(map[string]any, len(c.partials)+len(vars))
		for k, v := range c.partials {
			bound[k] = v
		}
		for k, v := range vars {
			bound[k] = v
		}
	}

	var out []chats.Message
	for _, src := range c.sources {
		msgs, err := src.FormatMessages(bound)
		if err != nil {
			return nil, err
		}
		out = append(out, msgs...)
	}
	return out, nil
}

// Variables returns the distinct variable names the template still needs,
// in order of first appearance, excluding pre-bound partials.
func (c *ChatTemplate) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	for _, src := range c.sources {
		for _, name := range src.Variables() {
			if seen[name] {
				continue
			}
			if _, bound := c.partials[name]; bound {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Validate surfaces deferred template parse errors without formatting.
func (c *ChatTemplate) Validate() error {
	for _, src := range c.sources {
		if mt, ok := src.(MessageTemplate); ok && mt.err != nil {
			return mt.err
		}
	}
	return nil
}
