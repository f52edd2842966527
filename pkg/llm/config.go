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

package llm

import "time"

// Config is the provider configuration resolved once at startup.
// It is read-only after LoadConfig returns.
type Config struct {
	keys     map[string]string
	models   map[string]string
	baseURLs map[string]string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// LoadConfig resolves API keys, model overrides and base URL overrides for
// every provider using getenv (usually os.Getenv).
//
// Key lookup is first-match-wins over the provider's variables, so for Claude
// CLAUDE_API_KEY takes precedence over ANTHROPIC_API_KEY.
func LoadConfig(getenv func(string) string) Config {
	cfg := Config{
		keys:     make(map[string]string, len(vendors)),
		models:   make(map[string]string, len(vendors)),
		baseURLs: make(map[string]string, len(vendors)),
	}
	for _, v := range vendors {
		for _, env := range v.keyEnv {
			if key := getenv(env); key != "" {
				cfg.keys[v.name] = key
				break
			}
		}
		if model := getenv(v.modelEnv); model != "" {
			cfg.models[v.name] = model
		}
		if base := getenv(v.baseURLEnv); base != "" {
			cfg.baseURLs[v.name] = base
		}
	}
	return cfg
}

// MapEnv adapts a map to the getenv signature expected by LoadConfig.
func MapEnv(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

// APIKey returns the resolved key for a provider or alias.
func (c Config) APIKey(provider string) string { return c.lookup(c.keys, provider) }

// Model returns the model override for a provider or alias.
func (c Config) Model(provider string) string { return c.lookup(c.models, provider) }

// BaseURL returns the endpoint override for a provider or alias.
func (c Config) BaseURL(provider string) string { return c.lookup(c.baseURLs, provider) }

// HasKey reports whether a key was resolved for the provider.
func (c Config) HasKey(provider string) bool { return c.APIKey(provider) != "" }

func (c Config) lookup(m map[string]string, provider string) string {
	id, ok := CanonicalProvider(provider)
	if !ok {
		return ""
	}
	return m[id]
}
