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
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/devmate/internal/errors"
	"github.com/kraklabs/devmate/pkg/llm"
)

// DefaultProvider is used when no flag, env var or config file names one.
const DefaultProvider = "claude"

// FileConfig is the optional YAML config file.
//
// Example:
//
//	provider: openai
//	model: gpt-4-turbo
//	max_tokens: 2000
//	timeout: 90s
//	markdown: true
type FileConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
	Catalog   string `yaml:"catalog"`
	NoColor   bool   `yaml:"no_color"`
	Markdown  *bool  `yaml:"markdown"`
}

// Settings is the fully resolved configuration for one run.
type Settings struct {
	Provider    string
	Model       string // explicit model, empty for the provider default
	APIKey      string
	MaxTokens   int
	Timeout     time.Duration
	CatalogPath string
	NoColor     bool
	Markdown    bool
	Env         llm.Config
}

// configPath returns the config file to read and whether the user named it
// explicitly. An explicit file must exist.
func configPath(flagPath string, getenv func(string) string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if p := getenv("DEVMATE_CONFIG"); p != "" {
		return p, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".devmate", "config.yaml"), false
}

// LoadFileConfig reads the YAML config at path. A missing file is not an
// error unless it was named explicitly.
func LoadFileConfig(path string, explicit bool) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) && !explicit {
			return &FileConfig{}, nil
		}
		return nil, errors.NewConfigError(
			"Cannot read config file",
			err.Error(),
			"Check the --config path or the DEVMATE_CONFIG environment variable",
			err,
		)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("Invalid config file %s", path),
			err.Error(),
			"Fix the YAML syntax or remove the file",
			err,
		)
	}
	return &cfg, nil
}

// resolveSettings merges flags, environment and the config file, in that
// order of precedence.
func resolveSettings(globals GlobalFlags, file *FileConfig, getenv func(string) string) (Settings, error) {
	s := Settings{
		Provider:    firstNonEmpty(globals.Provider, getenv("DEVMATE_PROVIDER"), file.Provider, DefaultProvider),
		APIKey:      globals.APIKey,
		MaxTokens:   file.MaxTokens,
		CatalogPath: file.Catalog,
		NoColor:     globals.NoColor || file.NoColor || getenv("NO_COLOR") != "",
		Markdown:    true,
		Env:         llm.LoadConfig(getenv),
	}

	id, ok := llm.CanonicalProvider(s.Provider)
	if !ok {
		return Settings{}, errors.NewConfigError(
			fmt.Sprintf("Unsupported provider: %s", strings.ToLower(s.Provider)),
			"The provider name is not recognized",
			"Use one of: "+strings.Join(llm.ProviderNames(), ", "),
			nil,
		)
	}
	s.Provider = id

	// The file's model only applies to the file's provider.
	s.Model = globals.Model
	if s.Model == "" && file.Model != "" && s.Env.Model(id) == "" {
		if fileID, _ := llm.CanonicalProvider(file.Provider); file.Provider == "" || fileID == id {
			s.Model = file.Model
		}
	}

	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return Settings{}, errors.NewConfigError(
				fmt.Sprintf("Invalid timeout %q in config file", file.Timeout),
				err.Error(),
				"Use a duration such as 60s or 2m",
				err,
			)
		}
		s.Timeout = d
	}
	s.Env.Timeout = s.Timeout

	if file.Markdown != nil {
		s.Markdown = *file.Markdown
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = llm.DefaultMaxTokens
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
