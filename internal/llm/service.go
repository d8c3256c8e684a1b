package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
	"github.com/capitalize-ai/sales-assistant/pkg/tracing"
)

// ServiceConfig holds per-call defaults.
type ServiceConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Service issues single-shot prompts with a fixed timeout and no retry.
type Service struct {
	client Client
	cfg    ServiceConfig
}

// NewService wraps a provider client.
func NewService(client Client, cfg ServiceConfig) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Service{client: client, cfg: cfg}
}

// Ask sends a system instruction plus one user prompt and returns the trimmed
// reply. Every failure, including a timeout, wraps ErrServiceUnavailable.
func (s *Service) Ask(ctx context.Context, purpose, system, prompt string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("%w: no client configured", ErrServiceUnavailable)
	}

	ctx, span := tracing.Tracer().Start(ctx, "llm."+purpose)
	defer span.End()
	span.SetAttributes(attribute.String("llm.provider", s.client.Name()))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.Complete(ctx, &CompletionRequest{
		Model:       s.cfg.Model,
		System:      system,
		Messages:    []ChatMessage{{Role: RoleUser, Content: prompt}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordLLMCall(purpose, "error", "", elapsed, 0, 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	metrics.RecordLLMCall(purpose, "success", resp.Model, elapsed, resp.TokensIn, resp.TokensOut)
	return strings.TrimSpace(resp.Content), nil
}

// Probe checks that the provider answers at all.
func (s *Service) Probe(ctx context.Context) (string, error) {
	return s.Ask(ctx, "probe", "", "Teste de conexão")
}
