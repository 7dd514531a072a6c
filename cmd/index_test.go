package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/pkg/llm"
	"github.com/weftlabs/weft/pkg/vector"
)

func writeIndexFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIndexAdd_ShouldChunkAndStore(t *testing.T) {
	app := NewMockApp()
	path := writeIndexFile(t, "notes.md", "hello world")

	mockEmbedder := &MockEmbedder{}
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, llm.Options{
			Model: config.DEFAULT_EMBED_MODEL,
		}).
		Return(mockEmbedder, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", config.DEFAULT_INDEX_PATH, config.DEFAULT_EMBED_DIMS, mockEmbedder).
		Return(mockStore, nil)
	mockStore.
		On("Add", mock.Anything, mock.MatchedBy(func(docs []vector.Document) bool {
			return len(docs) == 1 &&
				docs[0].Text == "hello world" &&
				docs[0].Metadata["source"] == path &&
				docs[0].Metadata["chunk"] == "0"
		})).
		Return([]string{"id-1"}, nil)
	mockStore.On("Close").Return(nil)

	output, err := executeRootCommand(app, "index", "add", path, "--provider", "openai")
	if err != nil {
		t.Error(err)
	}

	assert.Contains(t, output, "indexed 1 chunks")
	assert.Contains(t, output, "id-1")
	app.LLM().(*MockLLMService).AssertExpectations(t)
	app.Vector().(*MockVectorService).AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestIndexAdd_WithFlags_ShouldUseThem(t *testing.T) {
	app := NewMockApp()
	path := writeIndexFile(t, "notes.md", "First paragraph.\n\nSecond one.")

	mockEmbedder := &MockEmbedder{}
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOllama, llm.Options{
			Model: "nomic-embed-text",
		}).
		Return(mockEmbedder, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", "/tmp/custom.db", 768, mockEmbedder).
		Return(mockStore, nil)
	mockStore.
		On("Add", mock.Anything, mock.MatchedBy(func(docs []vector.Document) bool {
			return len(docs) == 2 &&
				docs[0].Text == "First paragraph." &&
				docs[1].Text == "Second one." &&
				docs[1].Metadata["chunk"] == "1"
		})).
		Return([]string{"id-1", "id-2"}, nil)
	mockStore.On("Close").Return(nil)

	_, err := executeRootCommand(app, "index", "add", path,
		"--provider", "ollama", "--db", "/tmp/custom.db", "--dims", "768",
		"--embed-model", "nomic-embed-text", "--chunk-tokens", "4")
	if err != nil {
		t.Error(err)
	}

	app.Vector().(*MockVectorService).AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestIndexAdd_WithIndexPathFromEnv_ShouldUseEnv(t *testing.T) {
	app := NewMockApp()
	t.Setenv("WEFT_INDEX_PATH", "/tmp/env.db")
	path := writeIndexFile(t, "notes.md", "hello world")

	mockEmbedder := &MockEmbedder{}
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(mockEmbedder, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", "/tmp/env.db", config.DEFAULT_EMBED_DIMS, mockEmbedder).
		Return(mockStore, nil)
	mockStore.
		On("Add", mock.Anything, mock.AnythingOfType("[]vector.Document")).
		Return([]string{"id-1"}, nil)
	mockStore.On("Close").Return(nil)

	_, err := executeRootCommand(app, "index", "add", path, "--provider", "openai")
	if err != nil {
		t.Error(err)
	}

	app.Vector().(*MockVectorService).AssertExpectations(t)
}

func TestIndexAdd_WithMissingFile_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	_, err := executeRootCommand(app, "index", "add", "/does/not/exist.md", "--provider", "openai")
	assert.ErrorContains(t, err, "failed to read")
}

func TestIndexAdd_WithEmptyFile_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	path := writeIndexFile(t, "empty.md", "")

	_, err := executeRootCommand(app, "index", "add", path, "--provider", "openai")
	assert.ErrorContains(t, err, "no content to index")
}

func TestIndexAdd_WithEmbedderError_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	path := writeIndexFile(t, "notes.md", "hello world")

	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(&MockEmbedder{}, errors.New("NewEmbedder error"))

	_, err := executeRootCommand(app, "index", "add", path, "--provider", "openai")
	assert.ErrorContains(t, err, "failed to create embedder")
}

func TestIndexAdd_WithOpenStoreError_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	path := writeIndexFile(t, "notes.md", "hello world")

	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(&MockEmbedder{}, nil)
	app.Vector().(*MockVectorService).
		On("OpenStore", mock.Anything, mock.Anything, mock.Anything).
		Return(&MockVectorStore{}, errors.New("open error"))

	_, err := executeRootCommand(app, "index", "add", path, "--provider", "openai")
	assert.ErrorContains(t, err, "failed to open index")
}

func TestIndexSearch_ShouldPrintResults(t *testing.T) {
	app := NewMockApp()
	mockEmbedder := &MockEmbedder{}
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(mockEmbedder, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", config.DEFAULT_INDEX_PATH, config.DEFAULT_EMBED_DIMS, mockEmbedder).
		Return(mockStore, nil)
	mockStore.
		On("Search", mock.Anything, "deadlines", mock.MatchedBy(func(opts []vector.SearchOption) bool {
			return len(opts) == 0
		})).
		Return([]vector.Result{
			{Document: vector.Document{ID: "id-1", Text: "deadline notes"}, Distance: 0.5, Similarity: 0.75},
			{Document: vector.Document{ID: "id-2", Text: "other notes"}, Distance: 1.0, Similarity: 0.5},
		}, nil)
	mockStore.On("Close").Return(nil)

	output, err := executeRootCommand(app, "index", "search", "deadlines", "--provider", "openai")
	if err != nil {
		t.Error(err)
	}

	assert.Equal(t, "0.750  id-1  deadline notes\n0.500  id-2  other notes\n", output)
	mockStore.AssertExpectations(t)
}

func TestIndexSearch_WithFlags_ShouldPassSearchOptions(t *testing.T) {
	app := NewMockApp()
	mockEmbedder := &MockEmbedder{}
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(mockEmbedder, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", mock.Anything, mock.Anything, mock.Anything).
		Return(mockStore, nil)
	mockStore.
		On("Search", mock.Anything, "deadlines", mock.MatchedBy(func(opts []vector.SearchOption) bool {
			return len(opts) == 2
		})).
		Return([]vector.Result{}, nil)
	mockStore.On("Close").Return(nil)

	output, err := executeRootCommand(app, "index", "search", "deadlines",
		"--provider", "openai", "--limit", "3", "--threshold", "0.6")
	if err != nil {
		t.Error(err)
	}

	assert.Contains(t, output, "no results")
	mockStore.AssertExpectations(t)
}

func TestIndexSearch_WithSearchError_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	app.LLM().(*MockLLMService).
		On("NewEmbedder", llm.ProviderOpenAI, mock.AnythingOfType("llm.Options")).
		Return(&MockEmbedder{}, nil)

	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", mock.Anything, mock.Anything, mock.Anything).
		Return(mockStore, nil)
	mockStore.
		On("Search", mock.Anything, "deadlines", mock.Anything).
		Return([]vector.Result{}, errors.New("Search error"))
	mockStore.On("Close").Return(nil)

	_, err := executeRootCommand(app, "index", "search", "deadlines", "--provider", "openai")
	assert.ErrorContains(t, err, "search failed")
}

func TestIndexSearch_WithInvalidProvider_ShouldReturnError(t *testing.T) {
	app := NewMockApp()
	_, err := executeRootCommand(app, "index", "search", "deadlines")
	assert.ErrorContains(t, err, "invalid provider")
}

func TestIndexRemove_ShouldDeleteDocuments(t *testing.T) {
	app := NewMockApp()
	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", config.DEFAULT_INDEX_PATH, config.DEFAULT_EMBED_DIMS, nil).
		Return(mockStore, nil)
	mockStore.
		On("Delete", mock.Anything, []string{"id-1", "id-2"}).
		Return(nil)
	mockStore.On("Close").Return(nil)

	output, err := executeRootCommand(app, "index", "rm", "id-1", "id-2")
	if err != nil {
		t.Error(err)
	}

	assert.Contains(t, output, "removed 2 documents")
	app.Vector().(*MockVectorService).AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestIndexStats_ShouldPrintCount(t *testing.T) {
	app := NewMockApp()
	mockStore := &MockVectorStore{}
	app.Vector().(*MockVectorService).
		On("OpenStore", config.DEFAULT_INDEX_PATH, config.DEFAULT_EMBED_DIMS, nil).
		Return(mockStore, nil)
	mockStore.On("Count", mock.Anything).Return(42, nil)
	mockStore.On("Close").Return(nil)

	output, err := executeRootCommand(app, "index", "stats")
	if err != nil {
		t.Error(err)
	}

	assert.Equal(t, "42 documents indexed in weft.db\n", output)
	mockStore.AssertExpectations(t)
}
