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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/devmate/internal/errors"
)

func TestNewClient_Aliases(t *testing.T) {
	cfg := LoadConfig(MapEnv(map[string]string{
		"CLAUDE_API_KEY":      "ck",
		"OPENAI_API_KEY":      "ok",
		"GEMINI_API_KEY":      "gk",
		"HUGGINGFACE_API_KEY": "hk",
		"GROK_API_KEY":        "xk",
		"DEEPSEEK_API_KEY":    "dk",
	}))

	tests := []struct {
		provider string
		want     string
	}{
		{"claude", "claude"},
		{"anthropic", "claude"},
		{"Claude", "claude"},
		{"openai", "openai"},
		{"gemini", "gemini"},
		{"google", "gemini"},
		{"GOOGLE", "gemini"},
		{"huggingface", "huggingface"},
		{"grok", "grok"},
		{"deepseek", "deepseek"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewClient(tt.provider, "", cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}
}

func TestNewClient_AnthropicAndClaudeSameVariant(t *testing.T) {
	a, err := NewClient("anthropic", "k", Config{})
	require.NoError(t, err)
	c, err := NewClient("claude", "k", Config{})
	require.NoError(t, err)
	assert.Same(t, a.v, c.v)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient("nonexistent", "k", Config{})
	require.Error(t, err)

	var uerr *errors.UserError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, errors.ExitConfig, uerr.ExitCode)
	assert.Contains(t, uerr.Message, "Unsupported provider: nonexistent")
}

func TestNewClient_MissingKeyNamesEnvVar(t *testing.T) {
	tests := []struct {
		provider string
		env      string
	}{
		{"claude", "CLAUDE_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"gemini", "GEMINI_API_KEY"},
		{"huggingface", "HUGGINGFACE_API_KEY"},
		{"grok", "GROK_API_KEY"},
		{"deepseek", "DEEPSEEK_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewClient(tt.provider, "", LoadConfig(MapEnv(nil)))
			require.Error(t, err)
			assert.Nil(t, c)

			var uerr *errors.UserError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, errors.ExitConfig, uerr.ExitCode)
			assert.Contains(t, uerr.Message, tt.env)
		})
	}
}

func TestNewClient_ExplicitKeyWins(t *testing.T) {
	cfg := LoadConfig(MapEnv(map[string]string{"OPENAI_API_KEY": "from-env"}))
	c, err := NewClient("openai", "explicit", cfg)
	require.NoError(t, err)
	assert.Equal(t, "explicit", c.apiKey)
}

func TestLoadConfig_ClaudeKeyOrder(t *testing.T) {
	cfg := LoadConfig(MapEnv(map[string]string{
		"CLAUDE_API_KEY":    "first",
		"ANTHROPIC_API_KEY": "second",
	}))
	assert.Equal(t, "first", cfg.APIKey("claude"))
	assert.Equal(t, "first", cfg.APIKey("anthropic"))

	cfg = LoadConfig(MapEnv(map[string]string{"ANTHROPIC_API_KEY": "second"}))
	assert.Equal(t, "second", cfg.APIKey("claude"))
	assert.True(t, cfg.HasKey("claude"))
	assert.False(t, cfg.HasKey("openai"))
}

func TestNewClient_DefaultAndOverriddenModels(t *testing.T) {
	defaults := map[string]string{
		"claude":      "claude-3-sonnet-20240229",
		"openai":      "gpt-4o",
		"gemini":      "gemini-1.5-pro-latest",
		"huggingface": "mistralai/Mixtral-8x7B-Instruct-v0.1",
		"grok":        "grok-1",
		"deepseek":    "deepseek-coder",
	}
	for provider, model := range defaults {
		c, err := NewClient(provider, "k", Config{})
		require.NoError(t, err)
		assert.Equal(t, model, c.Model(), provider)
	}

	cfg := LoadConfig(MapEnv(map[string]string{"GEMINI_MODEL": "gemini-1.0-pro"}))
	c, err := NewClient("google", "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.0-pro", c.Model())

	c.SetModel("anything-goes")
	assert.Equal(t, "anything-goes", c.Model())
}

func TestKeyEnv(t *testing.T) {
	assert.Equal(t, []string{"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"}, KeyEnv("anthropic"))
	assert.Nil(t, KeyEnv("bogus"))
}

func TestMockClient(t *testing.T) {
	m := &MockClient{}
	ctx := context.Background()

	out := m.GenerateResponse(ctx, "Hello, world!", "", 0)
	assert.Contains(t, out, "[mock]")

	out = m.GenerateResponseWithHistory(ctx, Transcript("hi", "hello", "again"), "sys", 10)
	assert.Contains(t, out, "again")

	require.Len(t, m.Calls, 2)
	assert.Equal(t, "Hello, world!", m.Calls[0].Prompt)
	assert.Len(t, m.Calls[1].Messages, 3)
	assert.Equal(t, "sys", m.Calls[1].SystemPrompt)
	assert.Equal(t, "mock-model", m.Model())
}
