package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/weftlabs/weft/pkg/chats"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// File is the on-disk form of a chat template.
type File struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Messages    []FileMessage `yaml:"messages"`
}

// FileMessage is one entry in a template file: either a role/content
// message template or a messages placeholder.
type FileMessage struct {
	Role        string `yaml:"role,omitempty"`
	Content     string `yaml:"content,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
}

// LoadFile reads a yaml chat template from disk.
func LoadFile(path string) (*ChatTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read %s: %w", path, err)
	}
	tpl, _, err := parseFile(data)
	if err != nil {
		return nil, fmt.Errorf("prompt: parse %s: %w", path, err)
	}
	return tpl, nil
}

func parseFile(data []byte) (*ChatTemplate, File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, File{}, err
	}
	if len(f.Messages) == 0 {
		return nil, File{}, fmt.Errorf("template has no messages: %w", ErrInvalidTemplate)
	}

	var sources []Source
	for i, m := range f.Messages {
		switch {
		case m.Placeholder != "":
			sources = append(sources, Placeholder{Key: m.Placeholder, Optional: m.Optional})
		case m.Role != "":
			mt := NewMessage(chats.Role(m.Role), m.Content)
			if mt.err != nil {
				return nil, File{}, fmt.Errorf("message %d: %w", i, mt.err)
			}
			sources = append(sources, mt)
		default:
			return nil, File{}, fmt.Errorf("message %d has neither role nor placeholder: %w", i, ErrInvalidTemplate)
		}
	}

	return NewChatTemplate(sources...), f, nil
}

// Library resolves chat templates by name: yaml files in an optional user
// directory first, embedded defaults second.
type Library struct {
	dir string
}

// NewLibrary creates a library. dir may be empty, in which case only the
// embedded templates are available.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Get resolves a template by name.
func (l *Library) Get(name string) (*ChatTemplate, error) {
	if l.dir != "" {
		path := filepath.Join(l.dir, name+".yaml")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	data, err := builtinFS.ReadFile("templates/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("prompt: template %q not found", name)
	}
	tpl, _, err := parseFile(data)
	if err != nil {
		return nil, fmt.Errorf("prompt: template %q: %w", name, err)
	}
	return tpl, nil
}

// List returns the names of all resolvable templates, sorted, with user
// templates shadowing embedded ones of the same name.
func (l *Library) List() []string {
	seen := make(map[string]bool)

	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
					continue
				}
				seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
			}
		}
	}

	entries, err := builtinFS.ReadDir("templates")
	if err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".yaml")] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
