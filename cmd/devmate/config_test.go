// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/devmate/pkg/llm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigPath(t *testing.T) {
	path, explicit := configPath("/etc/devmate.yaml", llm.MapEnv(map[string]string{"DEVMATE_CONFIG": "/other.yaml"}))
	assert.Equal(t, "/etc/devmate.yaml", path)
	assert.True(t, explicit)

	path, explicit = configPath("", llm.MapEnv(map[string]string{"DEVMATE_CONFIG": "/other.yaml"}))
	assert.Equal(t, "/other.yaml", path)
	assert.True(t, explicit)

	path, explicit = configPath("", llm.MapEnv(nil))
	assert.False(t, explicit)
	if path != "" {
		assert.True(t, strings.HasSuffix(path, filepath.Join(".devmate", "config.yaml")))
	}
}

func TestLoadFileConfig(t *testing.T) {
	t.Run("missing implicit file", func(t *testing.T) {
		cfg, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, &FileConfig{}, cfg)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot read config file")
	})

	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, "provider: openai\nmodel: gpt-4o\nmax_tokens: 2000\ntimeout: 90s\nmarkdown: false\n")
		cfg, err := LoadFileConfig(path, true)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, 2000, cfg.MaxTokens)
		assert.Equal(t, "90s", cfg.Timeout)
		require.NotNil(t, cfg.Markdown)
		assert.False(t, *cfg.Markdown)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "provider: [openai\n")
		_, err := LoadFileConfig(path, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid config file")
	})
}

func TestResolveSettingsDefaults(t *testing.T) {
	s, err := resolveSettings(GlobalFlags{}, &FileConfig{}, llm.MapEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, s.Provider)
	assert.Empty(t, s.Model)
	assert.Equal(t, llm.DefaultMaxTokens, s.MaxTokens)
	assert.Zero(t, s.Timeout)
	assert.True(t, s.Markdown)
	assert.False(t, s.NoColor)
}

func TestResolveSettingsProviderPrecedence(t *testing.T) {
	tests := []struct {
		name string
		flag string
		env  string
		file string
		want string
	}{
		{"flag wins", "gemini", "openai", "grok", "gemini"},
		{"env over file", "", "openai", "grok", "openai"},
		{"file", "", "", "grok", "grok"},
		{"alias canonicalised", "anthropic", "", "", "claude"},
		{"case folded", "DeepSeek", "", "", "deepseek"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := llm.MapEnv(map[string]string{"DEVMATE_PROVIDER": tt.env})
			s, err := resolveSettings(GlobalFlags{Provider: tt.flag}, &FileConfig{Provider: tt.file}, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Provider)
		})
	}
}

func TestResolveSettingsUnsupportedProvider(t *testing.T) {
	_, err := resolveSettings(GlobalFlags{Provider: "Mistral"}, &FileConfig{}, llm.MapEnv(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported provider: mistral")
}

func TestResolveSettingsModel(t *testing.T) {
	file := &FileConfig{Provider: "openai", Model: "gpt-4o"}

	s, err := resolveSettings(GlobalFlags{}, file, llm.MapEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", s.Model)

	s, err = resolveSettings(GlobalFlags{Model: "gpt-3.5-turbo"}, file, llm.MapEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", s.Model, "flag beats file")

	s, err = resolveSettings(GlobalFlags{}, file, llm.MapEnv(map[string]string{"OPENAI_MODEL": "gpt-4"}))
	require.NoError(t, err)
	assert.Empty(t, s.Model, "env model is left to the client")

	s, err = resolveSettings(GlobalFlags{Provider: "claude"}, file, llm.MapEnv(nil))
	require.NoError(t, err)
	assert.Empty(t, s.Model, "file model belongs to another provider")
}

func TestResolveSettingsTimeout(t *testing.T) {
	s, err := resolveSettings(GlobalFlags{}, &FileConfig{Timeout: "45s"}, llm.MapEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, s.Timeout)
	assert.Equal(t, 45*time.Second, s.Env.Timeout)

	_, err = resolveSettings(GlobalFlags{}, &FileConfig{Timeout: "soon"}, llm.MapEnv(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid timeout")
}

func TestResolveSettingsDisplay(t *testing.T) {
	off := false
	s, err := resolveSettings(GlobalFlags{}, &FileConfig{Markdown: &off, MaxTokens: 1500}, llm.MapEnv(map[string]string{"NO_COLOR": "1"}))
	require.NoError(t, err)
	assert.False(t, s.Markdown)
	assert.True(t, s.NoColor)
	assert.Equal(t, 1500, s.MaxTokens)
}

func TestResolveSettingsKeys(t *testing.T) {
	env := llm.MapEnv(map[string]string{"ANTHROPIC_API_KEY": "sk-ant"})
	s, err := resolveSettings(GlobalFlags{APIKey: "flag-key"}, &FileConfig{}, env)
	require.NoError(t, err)
	assert.Equal(t, "flag-key", s.APIKey)
	assert.Equal(t, "sk-ant", s.Env.APIKey("claude"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Empty(t, firstNonEmpty("", ""))
	assert.Empty(t, firstNonEmpty())
}
