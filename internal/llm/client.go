// Package llm talks to the language model behind slot extraction and reply
// generation. Providers implement Client; Service adds timeout, metrics and
// tracing on top.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrServiceUnavailable marks a failed or timed-out completion call.
var ErrServiceUnavailable = errors.New("language model unavailable")

// RoleUser is the role of the prompt message.
const RoleUser = "user"

// CompletionRequest is one single-shot prompt. System travels separately
// because providers place it differently.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage is one prompt message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse is the provider reply with usage figures.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is implemented by each provider.
type Client interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// Provider names a backend.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI covers OpenAI and every compatible server, LM Studio
	// included.
	ProviderOpenAI Provider = "openai"
)

// ParseProvider maps a configuration value to a Provider. Empty means
// ProviderOpenAI.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "openai", "lmstudio":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("unknown LLM provider %q", s)
}

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Provider        Provider
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
}

// NewClient builds the client for cfg.Provider.
func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.AnthropicAPIKey)
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
}
