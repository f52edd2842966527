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

// Package assistant routes user requests to prompt templates and a provider
// client, keeping the conversation history between turns.
//
// An Assistant is not safe for concurrent use. Interactive front ends run one
// call at a time, possibly off the UI goroutine.
package assistant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kraklabs/devmate/pkg/analyzer"
	"github.com/kraklabs/devmate/pkg/extract"
	"github.com/kraklabs/devmate/pkg/llm"
)

// History is an append-only conversation log.
type History struct {
	messages []llm.Message
}

// Append adds a message at the end.
func (h *History) Append(role, content string) {
	h.messages = append(h.messages, llm.Message{Role: role, Content: content})
}

// Messages returns a copy of the log in chronological order.
func (h *History) Messages() []llm.Message {
	out := make([]llm.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages.
func (h *History) Len() int { return len(h.messages) }

// Clear drops every message.
func (h *History) Clear() { h.messages = nil }

// Route names the path ProcessQuery took.
type Route string

const (
	RouteTask    Route = "task"
	RouteAnalyze Route = "analyze"
	RouteNoCode  Route = "no_code"
	RouteGeneral Route = "general"
)

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// WithAnalyzer replaces the code analyzer.
func WithAnalyzer(an *analyzer.Analyzer) Option {
	return func(a *Assistant) { a.analyzer = an }
}

// WithMaxTokens sets the token limit passed to the client.
func WithMaxTokens(n int) Option {
	return func(a *Assistant) { a.maxTokens = n }
}

// Assistant holds the conversation and the active provider client.
type Assistant struct {
	client    llm.ProviderClient
	analyzer  *analyzer.Analyzer
	history   History
	maxTokens int
	sessionID string
	logger    *slog.Logger
}

// New creates an Assistant backed by client.
func New(client llm.ProviderClient, opts ...Option) *Assistant {
	a := &Assistant{
		client:    client,
		maxTokens: llm.DefaultMaxTokens,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("session", a.sessionID)
	if a.analyzer == nil {
		a.analyzer = analyzer.New(a.logger)
	}
	return a
}

// SessionID identifies this conversation in logs.
func (a *Assistant) SessionID() string { return a.sessionID }

// Client returns the active provider client.
func (a *Assistant) Client() llm.ProviderClient { return a.client }

// SetClient switches provider. The history is kept.
func (a *Assistant) SetClient(client llm.ProviderClient) {
	a.logger.Info("assistant.client.switch", "from", a.client.Name(), "to", client.Name())
	a.client = client
}

// History returns a copy of the conversation.
func (a *Assistant) History() []llm.Message { return a.history.Messages() }

// ClearHistory forgets the conversation.
func (a *Assistant) ClearHistory() {
	a.history.Clear()
	a.logger.Debug("assistant.history.cleared")
}

// Analyzer returns the analyzer used for code review requests.
func (a *Assistant) Analyzer() *analyzer.Analyzer { return a.analyzer }

// ProcessQuery records query, answers it and records the answer.
//
// Task descriptions go to ConvertTaskToCode. Requests to analyze or review
// code go to AnalyzeCode with the extracted code. Anything else is sent with
// the full history.
func (a *Assistant) ProcessQuery(ctx context.Context, query string) string {
	a.history.Append(llm.RoleUser, query)

	var (
		reply string
		route Route
	)
	switch {
	case IsTaskDescription(query):
		route = RouteTask
		reply = a.ConvertTaskToCode(ctx, query)
	case IsAnalysisRequest(query):
		if code, ok := extract.ExtractCode(query); ok {
			route = RouteAnalyze
			reply = a.AnalyzeCode(ctx, code)
		} else {
			route = RouteNoCode
			reply = NoCodeReply
		}
	default:
		route = RouteGeneral
		reply = a.client.GenerateResponseWithHistory(ctx, a.history.Messages(), programmingSystemPrompt, a.maxTokens)
	}

	a.logger.Debug("assistant.route",
		"route", string(route),
		"provider", a.client.Name(),
		"history", a.history.Len(),
		"error_reply", llm.IsErrorReply(reply),
	)

	a.history.Append(llm.RoleAssistant, reply)
	return reply
}

// ConvertTaskToCode classifies task, then asks for beginner-friendly code.
// Two requests are made: one for the category, one for the code.
func (a *Assistant) ConvertTaskToCode(ctx context.Context, task string) string {
	category := a.identifyTaskCategory(ctx, task)
	a.logger.Debug("assistant.task.category", "category", category)
	return a.client.GenerateResponse(ctx, conversionPrompt(task, category), taskConversionSystemPrompt, a.maxTokens)
}

func (a *Assistant) identifyTaskCategory(ctx context.Context, task string) string {
	reply := a.client.GenerateResponse(ctx, categoryPrompt(task), "", a.maxTokens)
	return matchCategory(reply)
}

// AnalyzeCode runs the local analyzer and asks the model for a review that
// takes its findings into account.
func (a *Assistant) AnalyzeCode(ctx context.Context, code string) string {
	result := a.analyzer.Analyze(code)
	a.logger.Debug("assistant.analyze",
		"issues", len(result.Issues),
		"complexity", result.Complexity,
	)
	return a.client.GenerateResponse(ctx, reviewPrompt(code, result.Issues, result.Complexity), codeReviewSystemPrompt, a.maxTokens)
}

// GenerateCode writes code for a free-form specification.
func (a *Assistant) GenerateCode(ctx context.Context, specification string) string {
	return a.client.GenerateResponse(ctx, generationPrompt(specification), codeGenerationSystemPrompt, a.maxTokens)
}

// ExplainCode asks for a plain-language walkthrough of code.
func (a *Assistant) ExplainCode(ctx context.Context, code string) string {
	return a.client.GenerateResponse(ctx, explainPrompt(code), "", a.maxTokens)
}

// SimplifyCode asks for a simpler, commented version of code.
func (a *Assistant) SimplifyCode(ctx context.Context, code string) string {
	return a.client.GenerateResponse(ctx, simplifyPrompt(code), "", a.maxTokens)
}

// LastCodeReply returns the code from the most recent assistant message that
// contains any.
func (a *Assistant) LastCodeReply() (string, bool) {
	msgs := a.history.messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != llm.RoleAssistant {
			continue
		}
		if code, ok := extract.ExtractCode(msgs[i].Content); ok {
			return code, true
		}
	}
	return "", false
}
