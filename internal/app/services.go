package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/weftlabs/weft/internal/config"
	"github.com/weftlabs/weft/internal/format"
	"github.com/weftlabs/weft/internal/ui"
	"github.com/weftlabs/weft/pkg/graph"
	"github.com/weftlabs/weft/pkg/llm"
	"github.com/weftlabs/weft/pkg/prompt"
	"github.com/weftlabs/weft/pkg/vector"
)

type LLMService interface {
	NewClient(provider llm.Provider, opts llm.Options) (llm.Client, error)
	NewEmbedder(provider llm.Provider, opts llm.Options) (llm.Embedder, error)
}

type TUIService interface {
	InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel
	Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error)
}

type TextFormatService interface {
	FormatMarkdown(text string) (string, error)
	FormatMarkdownWidth(text string, width int) (string, error)
}

type PromptService interface {
	Get(dir string, name string) (*prompt.ChatTemplate, error)
	List(dir string) []string
}

// VectorStore is the document index surface commands work against.
type VectorStore interface {
	Add(ctx context.Context, docs []vector.Document) ([]string, error)
	Search(ctx context.Context, query string, opts ...vector.SearchOption) ([]vector.Result, error)
	Delete(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

type VectorService interface {
	OpenStore(path string, dims int, embedder llm.Embedder) (VectorStore, error)
}

// GraphConn is an open graph database connection.
type GraphConn interface {
	graph.Runner
	VectorSearch(ctx context.Context, index string, embedding []float32, k int) ([]map[string]any, error)
	Close(ctx context.Context) error
}

type GraphService interface {
	Connect(ctx context.Context, cfg graph.Config) (GraphConn, error)
}

type App interface {
	TUI() TUIService
	LLM() LLMService
	Format() TextFormatService
	Prompts() PromptService
	Vector() VectorService
	Graph() GraphService
}

type DefaultTUIService struct{}

type DefaultLLMService struct{}

type DefaultTextFormatService struct{}

type DefaultPromptService struct{}

type DefaultVectorService struct{}

type DefaultGraphService struct{}

type DefaultApp struct {
	tui     TUIService
	llm     LLMService
	format  TextFormatService
	prompts PromptService
	vector  VectorService
	graph   GraphService
}

func (a *DefaultApp) TUI() TUIService           { return a.tui }
func (a *DefaultApp) LLM() LLMService           { return a.llm }
func (a *DefaultApp) Format() TextFormatService { return a.format }
func (a *DefaultApp) Prompts() PromptService    { return a.prompts }
func (a *DefaultApp) Vector() VectorService     { return a.vector }
func (a *DefaultApp) Graph() GraphService       { return a.graph }

func (c *DefaultTUIService) InitialModel(opts ui.InitialModelOptions) ui.ChatTUIModel {
	return ui.InitialModel(opts)
}
func (c *DefaultTUIService) Run(model ui.ChatTUIModel) (returnModel tea.Model, returnErr error) {
	return tea.NewProgram(model).Run()
}

func (l *DefaultLLMService) NewClient(provider llm.Provider, opts llm.Options) (llm.Client, error) {
	return llm.New(provider, opts)
}
func (l *DefaultLLMService) NewEmbedder(provider llm.Provider, opts llm.Options) (llm.Embedder, error) {
	return llm.NewEmbedder(provider, opts)
}

func (f *DefaultTextFormatService) FormatMarkdown(text string) (string, error) {
	return format.FormatMarkdown(text)
}
func (f *DefaultTextFormatService) FormatMarkdownWidth(text string, width int) (string, error) {
	return format.FormatMarkdownWidth(text, width)
}

func (p *DefaultPromptService) Get(dir string, name string) (*prompt.ChatTemplate, error) {
	return prompt.NewLibrary(dir).Get(name)
}
func (p *DefaultPromptService) List(dir string) []string {
	return prompt.NewLibrary(dir).List()
}

func (v *DefaultVectorService) OpenStore(path string, dims int, embedder llm.Embedder) (VectorStore, error) {
	logger := zap.NewNop()
	if viper.GetBool(config.ENV_VERBOSE) {
		logger, _ = zap.NewDevelopment()
	}

	db, err := vector.Open(path, dims, logger.Sugar())
	if err != nil {
		return nil, err
	}
	return vector.NewStore(db, embedder, logger), nil
}

func (g *DefaultGraphService) Connect(ctx context.Context, cfg graph.Config) (GraphConn, error) {
	return graph.New(ctx, cfg)
}

func NewDefaultApp() App {
	return &DefaultApp{
		tui:     &DefaultTUIService{},
		llm:     &DefaultLLMService{},
		format:  &DefaultTextFormatService{},
		prompts: &DefaultPromptService{},
		vector:  &DefaultVectorService{},
		graph:   &DefaultGraphService{},
	}
}
