// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kraklabs/devmate/internal/errors"
)

// DefaultMaxTokens is used when a caller passes a non-positive token limit.
const DefaultMaxTokens = 4000

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ProviderClient is the capability set shared by every vendor.
//
// The GenerateResponse methods never fail: request errors are rendered into
// the returned text. An empty systemPrompt means none was given.
type ProviderClient interface {
	// Name returns the canonical provider identifier.
	Name() string

	// Model returns the active model identifier.
	Model() string

	// SetModel replaces the active model. It is not validated.
	SetModel(model string)

	// GenerateResponse sends a single prompt.
	GenerateResponse(ctx context.Context, prompt, systemPrompt string, maxTokens int) string

	// GenerateResponseWithHistory sends a full conversation.
	GenerateResponseWithHistory(ctx context.Context, messages []Message, systemPrompt string, maxTokens int) string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the vendor endpoint base.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the named provider.
// Supported names: "claude", "anthropic", "openai", "gemini", "google",
// "huggingface", "grok", "deepseek".
//
// The API key is taken from apiKey when non-empty, otherwise from cfg.
// A missing key or an unknown provider returns a configuration error.
func NewClient(provider, apiKey string, cfg Config, opts ...Option) (*Client, error) {
	name := strings.ToLower(provider)
	v, ok := lookupVendor(name)
	if !ok {
		return nil, errors.NewConfigError(
			fmt.Sprintf("Unsupported provider: %s", name),
			"The provider name is not recognized",
			"Use one of: "+strings.Join(ProviderNames(), ", "),
			nil,
		)
	}

	if apiKey == "" {
		apiKey = cfg.APIKey(v.name)
	}
	if apiKey == "" {
		return nil, errors.NewConfigError(
			fmt.Sprintf("%s API key not found. Please provide an API key or set the %s environment variable in your .env file.", v.display, v.keyEnv[0]),
			fmt.Sprintf("None of %s is set", strings.Join(v.keyEnv, ", ")),
			fmt.Sprintf("export %s=<your key> or pass --api-key", v.keyEnv[0]),
			nil,
		)
	}

	model := cfg.Model(v.name)
	if model == "" {
		model = v.defaultModel
	}
	baseURL := cfg.BaseURL(v.name)
	if baseURL == "" {
		baseURL = v.baseURL
	}

	c := &Client{
		v:       v,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// =============================================================================
// ENGINE
// =============================================================================

// Client is the single request engine shared by all vendors. The vendor
// descriptor decides the endpoint, auth headers, body shape and response path.
type Client struct {
	v       *vendor
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ ProviderClient = (*Client)(nil)

func (c *Client) Name() string { return c.v.name }

// DisplayName returns the vendor name used in user-facing messages.
func (c *Client) DisplayName() string { return c.v.display }

func (c *Client) Model() string { return c.model }

func (c *Client) SetModel(model string) { c.model = model }

// Generate sends a single prompt and returns a typed result.
func (c *Client) Generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) Result {
	return c.send(ctx, "generate", c.v.single(c.model, prompt, systemPrompt, normalizeMaxTokens(maxTokens)))
}

// GenerateWithHistory sends a conversation and returns a typed result.
func (c *Client) GenerateWithHistory(ctx context.Context, messages []Message, systemPrompt string, maxTokens int) Result {
	return c.send(ctx, "history", c.v.history(c.model, messages, systemPrompt, normalizeMaxTokens(maxTokens)))
}

func (c *Client) GenerateResponse(ctx context.Context, prompt, systemPrompt string, maxTokens int) string {
	return c.Generate(ctx, prompt, systemPrompt, maxTokens).String()
}

func (c *Client) GenerateResponseWithHistory(ctx context.Context, messages []Message, systemPrompt string, maxTokens int) string {
	return c.GenerateWithHistory(ctx, messages, systemPrompt, maxTokens).String()
}

func (c *Client) send(ctx context.Context, op string, payload any) Result {
	start := time.Now()
	c.logger.Debug("llm.request.start", "provider", c.v.name, "model", c.model, "op", op)

	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(op, start, &RequestError{Provider: c.v.display, Kind: KindRequest, Err: err})
	}

	endpoint := c.v.endpoint(c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fail(op, start, &RequestError{Provider: c.v.display, Kind: KindRequest, Err: unwrapURLError(err)})
	}
	req.Header.Set("Content-Type", "application/json")
	c.v.authorize(req.Header, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, start, &RequestError{Provider: c.v.display, Kind: KindNetwork, Err: unwrapURLError(err)})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(op, start, &RequestError{Provider: c.v.display, Kind: KindNetwork, StatusCode: resp.StatusCode, Err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(op, start, &RequestError{
			Provider:   c.v.display,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		})
	}

	text, err := c.v.extract(raw)
	if err != nil {
		return c.fail(op, start, &RequestError{
			Provider:   c.v.display,
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        err,
		})
	}

	recordRequest(c.v.name, outcomeOK, time.Since(start))
	c.logger.Debug("llm.request.done", "provider", c.v.name, "op", op, "duration", time.Since(start))
	return Result{Text: text}
}

func (c *Client) fail(op string, start time.Time, rerr *RequestError) Result {
	recordRequest(c.v.name, rerr.Kind.String(), time.Since(start))
	c.logger.Warn("llm.request.error",
		"provider", c.v.name,
		"op", op,
		"kind", rerr.Kind.String(),
		"status", rerr.StatusCode,
		"error", rerr.Detail(),
	)
	return Result{Err: rerr}
}

func normalizeMaxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}

// =============================================================================
// MOCK CLIENT (for testing)
// =============================================================================

// MockCall records one invocation of a MockClient.
type MockCall struct {
	Prompt       string
	Messages     []Message
	SystemPrompt string
	MaxTokens    int
}

// MockClient is a test client that returns predictable responses.
type MockClient struct {
	model        string
	GenerateFunc func(ctx context.Context, prompt, systemPrompt string, maxTokens int) string
	HistoryFunc  func(ctx context.Context, messages []Message, systemPrompt string, maxTokens int) string
	Calls        []MockCall
}

var _ ProviderClient = (*MockClient)(nil)

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) Model() string {
	if m.model == "" {
		return "mock-model"
	}
	return m.model
}

func (m *MockClient) SetModel(model string) { m.model = model }

func (m *MockClient) GenerateResponse(ctx context.Context, prompt, systemPrompt string, maxTokens int) string {
	m.Calls = append(m.Calls, MockCall{Prompt: prompt, SystemPrompt: systemPrompt, MaxTokens: maxTokens})
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, systemPrompt, maxTokens)
	}
	return fmt.Sprintf("[mock] Generated response for: %.50s...", prompt)
}

func (m *MockClient) GenerateResponseWithHistory(ctx context.Context, messages []Message, systemPrompt string, maxTokens int) string {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	m.Calls = append(m.Calls, MockCall{Messages: msgs, SystemPrompt: systemPrompt, MaxTokens: maxTokens})
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, messages, systemPrompt, maxTokens)
	}
	lastMsg := ""
	if len(messages) > 0 {
		lastMsg = messages[len(messages)-1].Content
	}
	return fmt.Sprintf("[mock] Response to: %.50s...", lastMsg)
}
