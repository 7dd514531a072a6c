package vector

import (
	"strings"

	"github.com/weftlabs/weft/pkg/llm"
)

// Chunk splits text into pieces of at most maxTokens estimated tokens,
// preferring paragraph boundaries. Paragraphs that exceed the budget on
// their own are split on word boundaries.
func Chunk(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = 256
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if llm.EstimateTokens(para) > maxTokens {
			flush()
			chunks = append(chunks, splitWords(para, maxTokens)...)
			continue
		}

		candidate := para
		if current.Len() > 0 {
			candidate = current.String() + "\n\n" + para
		}
		if llm.EstimateTokens(candidate) > maxTokens {
			flush()
			current.WriteString(para)
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}

func splitWords(text string, maxTokens int) []string {
	var chunks []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		candidate := word
		if current.Len() > 0 {
			candidate = current.String() + " " + word
		}
		if llm.EstimateTokens(candidate) > maxTokens && current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(word)
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
