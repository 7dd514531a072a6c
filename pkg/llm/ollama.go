package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/weftlabs/weft/pkg/chats"
)

// ollamaChatter is the part of the ollama API client the client calls.
type ollamaChatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// ollamaClient talks to a local ollama instance. The ollama API always
// streams; Call aggregates the stream into a single response.
type ollamaClient struct {
	client ollamaChatter
	model  string
}

var _ Client = (*ollamaClient)(nil)

func newOllamaClient(endpoint *url.URL, model string) *ollamaClient {
	return &ollamaClient{
		client: api.NewClient(endpoint, http.DefaultClient),
		model:  model,
	}
}

func (ai *ollamaClient) Call(ctx context.Context, messages []chats.Message, opts ...CallOption) (*Response, error) {
	var content string
	for event := range ai.chat(ctx, messages, applyOptions(opts)) {
		switch event.Type {
		case StreamEventContent:
			content += event.Content
		case StreamEventComplete:
			return &Response{Content: content, Usage: event.Usage}, nil
		case StreamEventError:
			return nil, fmt.Errorf("ollama error: %s", event.Content)
		}
	}
	return &Response{Content: content}, nil
}

func (ai *ollamaClient) Stream(ctx context.Context, messages []chats.Message, opts ...CallOption) <-chan StreamEvent {
	return ai.chat(ctx, messages, applyOptions(opts))
}

func (ai *ollamaClient) chat(ctx context.Context, messages []chats.Message, conf callOptions) <-chan StreamEvent {
	out := make(chan StreamEvent)
	stream := true

	go func() {
		defer close(out)

		req := &api.ChatRequest{
			Model:    ai.model,
			Messages: toOllamaMessages(messages),
			Stream:   &stream,
			Options:  toOllamaOptions(conf),
		}
		if conf.model != "" {
			req.Model = conf.model
		}

		err := ai.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				out <- StreamEvent{Type: StreamEventContent, Content: resp.Message.Content}
			}
			if resp.Done {
				out <- StreamEvent{
					Type: StreamEventComplete,
					Usage: TokenUsage{
						InputTokens:  int64(resp.PromptEvalCount),
						OutputTokens: int64(resp.EvalCount),
					},
				}
			}
			return nil
		})

		if err != nil {
			out <- StreamEvent{Type: StreamEventError, Content: err.Error()}
		}
	}()

	return out
}

func toOllamaMessages(messages []chats.Message) []api.Message {
	var out []api.Message
	for _, msg := range messages {
		out = append(out, api.Message{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return out
}

func toOllamaOptions(conf callOptions) map[string]any {
	opts := make(map[string]any)
	if conf.temperature != nil {
		opts["temperature"] = *conf.temperature
	}
	if conf.topP != nil {
		opts["top_p"] = *conf.topP
	}
	if conf.maxTokens != nil {
		opts["num_predict"] = *conf.maxTokens
	}
	if conf.seed != nil {
		opts["seed"] = *conf.seed
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}
