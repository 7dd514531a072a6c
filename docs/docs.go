// Package docs carries the built-in guides served by the docs command.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.md
var pages embed.FS

// Page returns the named guide as markdown.
func Page(name string) (string, error) {
	data, err := pages.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("docs: no guide named '%s'", name)
	}
	return string(data), nil
}

// Pages lists the available guide names, sorted.
func Pages() []string {
	entries, err := pages.ReadDir(".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}
