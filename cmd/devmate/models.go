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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/devmate/internal/errors"
	"github.com/kraklabs/devmate/internal/output"
	"github.com/kraklabs/devmate/internal/ui"
	"github.com/kraklabs/devmate/pkg/catalog"
	"github.com/kraklabs/devmate/pkg/llm"
)

// ProviderStatus is the --json form of one 'providers' row.
type ProviderStatus struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DefaultModel string   `json:"default_model"`
	KeyEnv       []string `json:"key_env"`
	KeySet       bool     `json:"key_set"`
	Active       bool     `json:"active"`
}

// runModels executes the 'models' CLI command, listing the catalog models
// of one provider (the configured one by default) or of all providers.
func runModels(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	all := fs.Bool("all", false, "List models for every provider")
	details := fs.Bool("details", false, "Also show endpoint settings and the default system prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate models [options] [provider]

Lists known models. The first model of each provider is its default.
With --details the endpoint settings and default system prompt are shown too.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a, err := newApp(globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	providers := []string{a.settings.Provider}
	switch {
	case *all:
		providers = a.catalog.Providers()
	case fs.NArg() > 0:
		id, ok := llm.CanonicalProvider(fs.Arg(0))
		if !ok {
			errors.FatalError(errors.NewInputError(
				fmt.Sprintf("Unsupported provider: %s", strings.ToLower(fs.Arg(0))),
				"The provider name is not recognized",
				"Use one of: "+strings.Join(a.catalog.Providers(), ", "),
			), globals.JSON)
		}
		providers = []string{id}
	}

	if globals.JSON && *details {
		full := make([]catalog.Provider, 0, len(providers))
		for _, p := range providers {
			if prov, ok := a.catalog.Provider(p); ok {
				full = append(full, prov)
			}
		}
		if err := output.JSON(full); err != nil {
			errors.FatalError(err, true)
		}
		return
	}
	if globals.JSON {
		listing := make(map[string][]catalog.Model, len(providers))
		for _, p := range providers {
			listing[p] = a.catalog.Models(p)
		}
		if err := output.JSON(listing); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	for i, p := range providers {
		if i > 0 {
			fmt.Println()
		}
		printModels(os.Stdout, a.catalog, p)
		if *details {
			printProviderDetails(os.Stdout, a.catalog, p)
		}
	}
}

// printProviderDetails writes the catalog settings and system prompt.
func printProviderDetails(w io.Writer, cat *catalog.Catalog, provider string) {
	prov, ok := cat.Provider(provider)
	if !ok {
		return
	}
	keys := make([]string, 0, len(prov.Settings))
	for k := range prov.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Label("Settings:"))
	for _, k := range keys {
		fmt.Fprintf(w, "  %-14s %s\n", k, ui.DimText(cat.Setting(provider, k)))
	}
	fmt.Fprintln(w, ui.Label("System prompt:"))
	for _, line := range strings.Split(cat.SystemPrompt(provider), "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

func printModels(w io.Writer, cat *catalog.Catalog, provider string) {
	title := cat.DisplayName(provider)
	fmt.Fprintln(w, ui.Bold.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	models := cat.Models(provider)
	if len(models) == 0 {
		fmt.Fprintln(w, ui.DimText("  (no models listed)"))
		return
	}
	for i, m := range models {
		marker := " "
		if i == 0 {
			marker = ui.Green.Sprint("*")
		}
		fmt.Fprintf(w, "%s %-40s %s %s\n", marker, m.ID, ui.CountText(m.Tokens), ui.DimText(m.Description))
	}
}

// runProviders executes the 'providers' CLI command, showing each provider
// and whether an API key was found for it.
func runProviders(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("providers", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate providers

Lists supported providers, their default model and API key status.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a, err := newApp(globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	statuses := providerStatuses(a.catalog, a.settings)
	if globals.JSON {
		if err := output.JSON(statuses); err != nil {
			errors.FatalError(err, true)
		}
		return
	}
	printProviders(os.Stdout, statuses)
}

func providerStatuses(cat *catalog.Catalog, s Settings) []ProviderStatus {
	names := llm.ProviderNames()
	out := make([]ProviderStatus, 0, len(names))
	for _, id := range names {
		out = append(out, ProviderStatus{
			ID:           id,
			Name:         cat.DisplayName(id),
			DefaultModel: cat.DefaultModel(id),
			KeyEnv:       llm.KeyEnv(id),
			KeySet:       s.Env.HasKey(id) || (s.APIKey != "" && id == s.Provider),
			Active:       id == s.Provider,
		})
	}
	return out
}

func printProviders(w io.Writer, statuses []ProviderStatus) {
	for _, st := range statuses {
		active := " "
		if st.Active {
			active = ui.Green.Sprint("*")
		}
		key := ui.Red.Sprint("missing (" + strings.Join(st.KeyEnv, " or ") + ")")
		if st.KeySet {
			key = ui.Green.Sprint("set")
		}
		fmt.Fprintf(w, "%s %-12s %-20s %s %s\n", active, st.ID, st.Name, ui.Label("key:"), key)
	}
}
