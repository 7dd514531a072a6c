package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMarkdown(t *testing.T) {
	res, _ := FormatMarkdown("**hello**")
	assert.Contains(t, res, "hello")
}

func TestFormatMarkdownWidth(t *testing.T) {
	res, err := FormatMarkdownWidth("# Title\n\nsome body text", 40)
	require.NoError(t, err)
	assert.Contains(t, res, "Title")
	assert.Contains(t, res, "some body text")
}

func TestFormatMarkdownWidth_ZeroFallsBack(t *testing.T) {
	res, err := FormatMarkdownWidth("plain", 0)
	require.NoError(t, err)
	assert.Contains(t, res, "plain")
}
