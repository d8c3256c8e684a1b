// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/capitalize-ai/sales-assistant/internal/llm"
)

// Rule answers requests whose system prompt contains Match.
type Rule struct {
	Match string
	Reply func(req *llm.CompletionRequest) (string, error)
}

// ScriptedClient replies according to the first matching rule.
type ScriptedClient struct {
	mu    sync.Mutex
	rules []Rule
	calls []llm.CompletionRequest
}

// New creates an empty scripted client.
func New() *ScriptedClient {
	return &ScriptedClient{}
}

// On registers a fixed reply for system prompts containing match.
func (c *ScriptedClient) On(match, reply string) *ScriptedClient {
	return c.OnFunc(match, func(*llm.CompletionRequest) (string, error) { return reply, nil })
}

// OnError makes calls whose system prompt contains match fail.
func (c *ScriptedClient) OnError(match string, err error) *ScriptedClient {
	return c.OnFunc(match, func(*llm.CompletionRequest) (string, error) { return "", err })
}

// OnFunc registers a dynamic reply.
func (c *ScriptedClient) OnFunc(match string, reply func(req *llm.CompletionRequest) (string, error)) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, Rule{Match: match, Reply: reply})
	return c
}

// Complete implements llm.Client.
func (c *ScriptedClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	c.mu.Lock()
	c.calls = append(c.calls, *req)
	rules := append([]Rule(nil), c.rules...)
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range rules {
		if strings.Contains(req.System, r.Match) {
			text, err := r.Reply(req)
			if err != nil {
				return nil, err
			}
			return &llm.CompletionResponse{Content: text, Model: "scripted"}, nil
		}
	}
	return nil, errors.New("llmtest: no rule matched")
}

// Name implements llm.Client.
func (c *ScriptedClient) Name() string {
	return "scripted"
}

// Calls returns a copy of the recorded requests.
func (c *ScriptedClient) Calls() []llm.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]llm.CompletionRequest(nil), c.calls...)
}

// CallsMatching counts requests whose system prompt contains match.
func (c *ScriptedClient) CallsMatching(match string) int {
	n := 0
	for _, call := range c.Calls() {
		if strings.Contains(call.System, match) {
			n++
		}
	}
	return n
}
