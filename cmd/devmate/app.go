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
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kraklabs/devmate/internal/render"
	"github.com/kraklabs/devmate/internal/ui"
	"github.com/kraklabs/devmate/pkg/assistant"
	"github.com/kraklabs/devmate/pkg/catalog"
	"github.com/kraklabs/devmate/pkg/llm"
)

// app carries everything a command needs after startup.
type app struct {
	globals  GlobalFlags
	settings Settings
	catalog  *catalog.Catalog
	logger   *slog.Logger
	renderer *render.Renderer
}

// newApp resolves configuration once and builds the shared pieces.
func newApp(globals GlobalFlags) (*app, error) {
	path, explicit := configPath(globals.ConfigPath, os.Getenv)
	file, err := LoadFileConfig(path, explicit)
	if err != nil {
		return nil, err
	}
	settings, err := resolveSettings(globals, file, os.Getenv)
	if err != nil {
		return nil, err
	}
	ui.InitColors(settings.NoColor)

	cat, err := catalog.Load(settings.CatalogPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(os.Stderr, globals.Debug)
	slog.SetDefault(logger)
	logger.Debug("config.resolved",
		"config", path,
		"provider", settings.Provider,
		"max_tokens", settings.MaxTokens,
		"timeout", settings.Timeout,
	)

	a := &app{
		globals:  globals,
		settings: settings,
		catalog:  cat,
		logger:   logger,
		renderer: render.New(render.DefaultWidth, settings.NoColor || !settings.Markdown || globals.JSON),
	}
	a.startMetrics()
	return a, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClient builds the client for the configured provider. A --model flag
// is not checked against the catalog; unknown models only draw a warning.
//
// --api-key and --model belong to the configured provider. Switching to
// another provider falls back to its environment key and default model.
func (a *app) newClient(provider string) (*llm.Client, error) {
	id, _ := llm.CanonicalProvider(provider)
	configured := id == a.settings.Provider

	apiKey := ""
	if configured {
		apiKey = a.settings.APIKey
	}
	client, err := llm.NewClient(provider, apiKey, a.settings.Env, llm.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if configured && a.settings.Model != "" {
		client.SetModel(a.settings.Model)
	}
	if !a.catalog.HasModel(client.Name(), client.Model()) {
		a.logger.Warn("catalog.model.unknown", "provider", client.Name(), "model", client.Model())
	}
	return client, nil
}

func (a *app) newAssistant(client llm.ProviderClient) *assistant.Assistant {
	return assistant.New(client,
		assistant.WithLogger(a.logger),
		assistant.WithMaxTokens(a.settings.MaxTokens),
	)
}

// startMetrics serves Prometheus metrics when --metrics-addr is set.
func (a *app) startMetrics() {
	addr := a.globals.MetricsAddr
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		a.logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Warn("metrics.http.error", "err", err)
		}
	}()
}
