package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "empty string",
			input:    "",
			expected: 1,
		},
		{
			name:     "short string",
			input:    "Go",
			expected: 1,
		},
		{
			name:     "exactly 4 runes",
			input:    "Hey!",
			expected: 1,
		},
		{
			name:     "9 runes",
			input:    "Hello GPT",
			expected: 2,
		},
		{
			name:     "longer sentence",
			input:    "This is a longer sentence with multiple words.",
			expected: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	got := EstimateMessageTokens("Hello", "Hi")
	assert.Equal(t, 10, got)
}
