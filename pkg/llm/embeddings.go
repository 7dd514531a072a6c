package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Embedder turns texts into vectors. Output order matches input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder creates an Embedder for the given provider, using the same
// environment credentials as New.
func NewEmbedder(provider Provider, opts Options) (Embedder, error) {
	switch provider {
	case ProviderOpenAI:
		apiKey, err := requireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIEmbedder(apiKey, "", opts.Model), nil
	case ProviderTogether:
		apiKey, err := requireEnv("TOGETHER_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIEmbedder(apiKey, togetherBaseURL, opts.Model), nil
	case ProviderFireworks:
		apiKey, err := requireEnv("FIREWORKS_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIEmbedder(apiKey, fireworksBaseURL, opts.Model), nil
	case ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		endpoint, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("OLLAMA_HOST URL is invalid: %v", err)
		}
		return &ollamaEmbedder{
			client: api.NewClient(endpoint, http.DefaultClient),
			model:  opts.Model,
		}, nil
	default:
		return nil, fmt.Errorf("%s: invalid provider", provider)
	}
}

type embeddingService interface {
	New(ctx context.Context, params openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

type openAIEmbedder struct {
	embeddings embeddingService
	model      string
}

var _ Embedder = (*openAIEmbedder)(nil)

func newOpenAIEmbedder(apiKey, baseURL, model string, extra ...option.RequestOption) *openAIEmbedder {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, extra...)

	client := openai.NewClient(reqOpts...)
	return &openAIEmbedder{embeddings: &client.Embeddings, model: model}
}

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := e.embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Data) != len(texts) {
		return nil, fmt.Errorf("llm: expected %d embeddings, got %d", len(texts), len(res.Data))
	}

	vectors := make([][]float32, len(res.Data))
	for i, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

type ollamaEmbeddings interface {
	Embed(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error)
}

type ollamaEmbedder struct {
	client ollamaEmbeddings
	model  string
}

var _ Embedder = (*ollamaEmbedder)(nil)

func (e *ollamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("llm: expected %d embeddings, got %d", len(texts), len(res.Embeddings))
	}
	return res.Embeddings, nil
}
