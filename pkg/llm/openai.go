package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/weftlabs/weft/pkg/chats"
)

// chatStream is the part of the SDK stream the client consumes.
type chatStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

// chatCompletions is the part of the SDK completion service the client
// calls. Kept narrow so tests can substitute it.
type chatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
	NewStreaming(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) chatStream
}

type completionService struct {
	svc openai.ChatCompletionService
}

func (s completionService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	return s.svc.New(ctx, params, opts...)
}

func (s completionService) NewStreaming(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) chatStream {
	return s.svc.NewStreaming(ctx, params, opts...)
}

// openAIClient talks to any OpenAI-compatible chat completion API. Hosted
// providers that expose the same surface (Together, Fireworks) reuse it
// with their own base URL.
type openAIClient struct {
	name        string
	completions chatCompletions
	model       string
}

var _ Client = (*openAIClient)(nil)

func newOpenAIClient(name, apiKey, baseURL, model string, extra ...option.RequestOption) *openAIClient {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	reqOpts = append(reqOpts, extra...)

	client := openai.NewClient(reqOpts...)
	return &openAIClient{
		name:        name,
		completions: completionService{svc: client.Chat.Completions},
		model:       model,
	}
}

func toOpenAIMessages(messages []chats.Message) []openai.ChatCompletionMessageParamUnion {
	var out []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case chats.User:
			out = append(out, openai.UserMessage(msg.Content))
		case chats.Assistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case chats.System:
			out = append(out, openai.SystemMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func (ai *openAIClient) params(messages []chats.Message, conf callOptions) openai.ChatCompletionNewParams {
	model := ai.model
	if conf.model != "" {
		model = conf.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		N:        openai.Int(1),
	}
	if conf.temperature != nil {
		params.Temperature = openai.Float(*conf.temperature)
	}
	if conf.topP != nil {
		params.TopP = openai.Float(*conf.topP)
	}
	if conf.maxTokens != nil {
		params.MaxTokens = openai.Int(*conf.maxTokens)
	}
	if conf.seed != nil {
		params.Seed = openai.Int(*conf.seed)
	}
	return params
}

func (ai *openAIClient) Call(ctx context.Context, messages []chats.Message, opts ...CallOption) (*Response, error) {
	res, err := ai.completions.New(ctx, ai.params(messages, applyOptions(opts)))
	if err != nil {
		return nil, err
	}
	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("llm: %s returned no choices", ai.name)
	}

	return &Response{
		Content: res.Choices[0].Message.Content,
		Usage: TokenUsage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
		},
	}, nil
}

func (ai *openAIClient) Stream(ctx context.Context, messages []chats.Message, opts ...CallOption) <-chan StreamEvent {
	out := make(chan StreamEvent)
	conf := applyOptions(opts)

	go func() {
		defer close(out)

		params := ai.params(messages, conf)
		params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}

		stream := ai.completions.NewStreaming(ctx, params)
		defer stream.Close()

		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				out <- StreamEvent{
					Type:    StreamEventContent,
					Content: chunk.Choices[0].Delta.Content,
					Usage: TokenUsage{
						InputTokens:  chunk.Usage.PromptTokens,
						OutputTokens: chunk.Usage.CompletionTokens,
					},
				}
			}
		}

		if err := stream.Err(); err != nil {
			out <- StreamEvent{
				Type:    StreamEventError,
				Content: err.Error(),
			}
			return
		}

		complete := StreamEvent{
			Type: StreamEventComplete,
			Usage: TokenUsage{
				InputTokens:  acc.Usage.PromptTokens,
				OutputTokens: acc.Usage.CompletionTokens,
			},
		}
		if len(acc.Choices) > 0 {
			complete.Content = acc.Choices[0].Message.Content
		}
		out <- complete
	}()

	return out
}
