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

// Package llm provides a unified client over hosted LLM text-generation APIs.
//
// One request engine ([Client]) serves six vendors. Each vendor is a small
// descriptor that knows its endpoint, auth headers, request body layout and
// where the reply text lives in the response.
//
// # Supported Providers
//
//   - claude (alias anthropic): POST /v1/messages with x-api-key
//   - openai: chat completions with a Bearer token
//   - gemini (alias google): generateContent with the key as a query parameter
//   - huggingface: inference API with a single instruction-formatted input
//   - grok, deepseek: OpenAI-compatible chat completions
//
// # Quick Start
//
// Resolve configuration once, then create clients from it:
//
//	cfg := llm.LoadConfig(os.Getenv)
//	client, err := llm.NewClient("anthropic", "", cfg)
//	if err != nil {
//	    errors.FatalError(err, false) // missing key or unknown provider
//	}
//	reply := client.GenerateResponse(ctx, "Explain list comprehensions", "", 0)
//
// # Error Handling
//
// Construction is the only place that returns an error. Generation never
// does: [Client.Generate] returns a [Result] whose Err field classifies the
// failure, and the GenerateResponse methods render that result to text:
//
//	I encountered an error: Error when calling Claude API: 401 Client Error: Unauthorized. Please check your API key and network connection.
//
// Use [IsErrorReply] to recognize a rendered failure.
//
// # Environment Variables
//
//   - CLAUDE_API_KEY, then ANTHROPIC_API_KEY
//   - OPENAI_API_KEY, GEMINI_API_KEY, HUGGINGFACE_API_KEY, GROK_API_KEY, DEEPSEEK_API_KEY
//   - <PROVIDER>_MODEL: default model override (e.g. CLAUDE_MODEL)
//   - <PROVIDER>_BASE_URL: endpoint override for proxies and tests
//
// # Metrics
//
// Requests are counted in devmate_llm_requests_total{provider,outcome} and
// timed in devmate_llm_request_seconds{provider} on the default Prometheus
// registry.
package llm
