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

// Package catalog describes the supported providers and their models.
//
// The built-in catalog is embedded in the binary. A replacement can be loaded
// from a YAML file with the same shape. A Catalog is read-only once built and
// may be shared freely.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var builtin []byte

// FallbackProvider supplies the system prompt for unknown providers.
const FallbackProvider = "claude"

// Model is one entry of a provider's model list.
type Model struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Tokens      int    `yaml:"tokens" json:"tokens"`
	Description string `yaml:"description" json:"description"`
}

// Provider groups a provider's display name, endpoint settings, default
// system prompt and models.
type Provider struct {
	ID           string            `yaml:"id" json:"id"`
	Name         string            `yaml:"name" json:"name"`
	Settings     map[string]string `yaml:"settings" json:"settings,omitempty"`
	SystemPrompt string            `yaml:"system_prompt" json:"system_prompt,omitempty"`
	Models       []Model           `yaml:"models" json:"models"`
}

// Catalog is an ordered set of providers.
type Catalog struct {
	providers []Provider
	byID      map[string]int
}

type document struct {
	Providers []Provider `yaml:"providers"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtin)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded models.yaml: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Load reads a catalog from path. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from YAML. Provider ids are stored lower-cased and
// must be unique.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{byID: make(map[string]int, len(doc.Providers))}
	for _, p := range doc.Providers {
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		if p.ID == "" {
			return nil, fmt.Errorf("parse catalog: provider without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate provider %q", p.ID)
		}
		c.byID[p.ID] = len(c.providers)
		c.providers = append(c.providers, p)
	}
	return c, nil
}

func (c *Catalog) lookup(provider string) (Provider, bool) {
	i, ok := c.byID[strings.ToLower(provider)]
	if !ok {
		return Provider{}, false
	}
	return c.providers[i], true
}

// Providers returns the provider ids in catalog order.
func (c *Catalog) Providers() []string {
	ids := make([]string, len(c.providers))
	for i, p := range c.providers {
		ids[i] = p.ID
	}
	return ids
}

// Provider returns the full entry for a provider.
func (c *Catalog) Provider(provider string) (Provider, bool) {
	return c.lookup(provider)
}

// DisplayName returns the provider's display name, or the id itself when the
// provider is unknown.
func (c *Catalog) DisplayName(provider string) string {
	if p, ok := c.lookup(provider); ok {
		return p.Name
	}
	return provider
}

// Models returns a copy of the provider's models, or nil when unknown.
func (c *Catalog) Models(provider string) []Model {
	p, ok := c.lookup(provider)
	if !ok {
		return nil
	}
	out := make([]Model, len(p.Models))
	copy(out, p.Models)
	return out
}

// DefaultModel returns the first model id for the provider, or "".
func (c *Catalog) DefaultModel(provider string) string {
	p, ok := c.lookup(provider)
	if !ok || len(p.Models) == 0 {
		return ""
	}
	return p.Models[0].ID
}

// HasModel reports whether id is listed for the provider.
func (c *Catalog) HasModel(provider, id string) bool {
	p, ok := c.lookup(provider)
	if !ok {
		return false
	}
	for _, m := range p.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// SystemPrompt returns the provider's default system prompt, falling back to
// the claude prompt for unknown providers.
func (c *Catalog) SystemPrompt(provider string) string {
	if p, ok := c.lookup(provider); ok && p.SystemPrompt != "" {
		return p.SystemPrompt
	}
	if p, ok := c.lookup(FallbackProvider); ok {
		return p.SystemPrompt
	}
	return ""
}

// Setting returns one endpoint setting, such as "api_endpoint".
func (c *Catalog) Setting(provider, key string) string {
	p, ok := c.lookup(provider)
	if !ok {
		return ""
	}
	return p.Settings[key]
}
