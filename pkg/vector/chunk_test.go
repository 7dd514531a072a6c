package vector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/llm"
)

func TestChunk_ShortTextSingleChunk(t *testing.T) {
	chunks := Chunk("A short paragraph.", 64)
	assert.Equal(t, []string{"A short paragraph."}, chunks)
}

func TestChunk_Empty(t *testing.T) {
	assert.Empty(t, Chunk("", 64))
	assert.Empty(t, Chunk("\n\n\n\n", 64))
}

func TestChunk_PacksParagraphsUpToBudget(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."

	chunks := Chunk(text, 10)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0])
	assert.Equal(t, "Third paragraph.", chunks[1])
}

func TestChunk_RespectsTokenBudget(t *testing.T) {
	text := strings.Repeat("Some words that fill the paragraph nicely. ", 40)

	chunks := Chunk(text, 50)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, llm.EstimateTokens(chunk), 50)
	}

	// Nothing is lost: every word survives chunking.
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
}

func TestChunk_NormalizesCRLF(t *testing.T) {
	chunks := Chunk("First.\r\n\r\nSecond.", 64)
	assert.Equal(t, []string{"First.\n\nSecond."}, chunks)
}
