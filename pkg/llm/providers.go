package llm

import (
	"fmt"
	"net/url"
	"os"
)

// Provider selects a model backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderTogether  Provider = "together"
	ProviderFireworks Provider = "fireworks"
	ProviderOllama    Provider = "ollama"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderOpenAI, ProviderTogether, ProviderFireworks, ProviderOllama}

const (
	togetherBaseURL  = "https://api.together.xyz/v1"
	fireworksBaseURL = "https://api.fireworks.ai/inference/v1"

	defaultOllamaHost = "http://localhost:11434"
)

// Options configures a client created by New.
type Options struct {
	Model string
}

// New creates a Client for the given provider. Credentials and endpoints
// come from the environment: OPENAI_API_KEY, TOGETHER_API_KEY,
// FIREWORKS_API_KEY, or OLLAMA_HOST (which defaults to a local instance).
func New(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		apiKey, err := requireEnv("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIClient(string(provider), apiKey, "", opts.Model), nil
	case ProviderTogether:
		apiKey, err := requireEnv("TOGETHER_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIClient(string(provider), apiKey, togetherBaseURL, opts.Model), nil
	case ProviderFireworks:
		apiKey, err := requireEnv("FIREWORKS_API_KEY")
		if err != nil {
			return nil, err
		}
		return newOpenAIClient(string(provider), apiKey, fireworksBaseURL, opts.Model), nil
	case ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		endpoint, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("OLLAMA_HOST URL is invalid: %v", err)
		}
		return newOllamaClient(endpoint, opts.Model), nil
	default:
		return nil, fmt.Errorf("%s: invalid provider", provider)
	}
}

func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", fmt.Errorf("%s environment variable is not set", key)
	}
	return value, nil
}
