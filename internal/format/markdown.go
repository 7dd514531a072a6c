package format

import "github.com/charmbracelet/glamour"

func FormatMarkdown(text string) (string, error) {
	return glamour.Render(text, "dark")
}

// FormatMarkdownWidth renders markdown word-wrapped to the given width,
// used for full-page output like the docs command.
func FormatMarkdownWidth(text string, width int) (string, error) {
	if width <= 0 {
		return FormatMarkdown(text)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}
