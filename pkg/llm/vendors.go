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
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// vendor describes one provider's wire contract.
type vendor struct {
	name         string
	display      string
	keyEnv       []string
	modelEnv     string
	baseURLEnv   string
	defaultModel string
	baseURL      string

	endpoint  func(base, model, key string) string
	authorize func(h http.Header, key string)
	single    func(model, prompt, system string, maxTokens int) any
	history   func(model string, messages []Message, system string, maxTokens int) any
	extract   func(body []byte) (string, error)
}

var vendors = []*vendor{claude, openAI, gemini, huggingFace, grok, deepseek}

var aliases = map[string]string{
	"claude":      "claude",
	"anthropic":   "claude",
	"openai":      "openai",
	"gemini":      "gemini",
	"google":      "gemini",
	"huggingface": "huggingface",
	"grok":        "grok",
	"deepseek":    "deepseek",
}

// CanonicalProvider resolves a provider name or alias to its canonical id.
func CanonicalProvider(name string) (string, bool) {
	id, ok := aliases[strings.ToLower(name)]
	return id, ok
}

// ProviderNames returns the canonical provider ids in display order.
func ProviderNames() []string {
	names := make([]string, len(vendors))
	for i, v := range vendors {
		names[i] = v.name
	}
	return names
}

// KeyEnv returns the environment variables checked for a provider's API key.
func KeyEnv(provider string) []string {
	v, ok := lookupVendor(provider)
	if !ok {
		return nil
	}
	return append([]string(nil), v.keyEnv...)
}

func lookupVendor(name string) (*vendor, bool) {
	id, ok := CanonicalProvider(name)
	if !ok {
		return nil, false
	}
	for _, v := range vendors {
		if v.name == id {
			return v, true
		}
	}
	return nil, false
}

// =============================================================================
// CLAUDE
// =============================================================================

type claudeRequest struct {
	Model     string    `json:"model"`
	System    string    `json:"system"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

var claude = &vendor{
	name:         "claude",
	display:      "Claude",
	keyEnv:       []string{"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	modelEnv:     "CLAUDE_MODEL",
	baseURLEnv:   "CLAUDE_BASE_URL",
	defaultModel: "claude-3-sonnet-20240229",
	baseURL:      "https://api.anthropic.com/v1/messages",
	endpoint:     fixedEndpoint,
	authorize: func(h http.Header, key string) {
		h.Set("x-api-key", key)
		h.Set("anthropic-version", "2023-06-01")
	},
	single: func(model, prompt, system string, maxTokens int) any {
		return claudeRequest{
			Model:     model,
			System:    orDefaultSystemPrompt(system),
			MaxTokens: maxTokens,
			Messages:  []Message{{Role: RoleUser, Content: prompt}},
		}
	},
	history: func(model string, messages []Message, system string, maxTokens int) any {
		return claudeRequest{
			Model:     model,
			System:    orDefaultSystemPrompt(system),
			MaxTokens: maxTokens,
			Messages:  nonNil(messages),
		}
	},
	extract: func(body []byte) (string, error) {
		var result struct {
			Content []struct {
				Text *string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", err
		}
		if len(result.Content) == 0 || result.Content[0].Text == nil {
			return "", fmt.Errorf("missing content[0].text")
		}
		return *result.Content[0].Text, nil
	},
}

// =============================================================================
// OPENAI-STYLE (OpenAI, Grok, Deepseek)
// =============================================================================

type chatCompletionRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

// chatCompletion builds an OpenAI-compatible vendor. When defaultSystem is
// set, a system message is always sent; otherwise only when one is given.
func chatCompletion(name, display, keyEnv, defaultModel, baseURL string, defaultSystem bool) *vendor {
	upper := strings.ToUpper(name)
	systemFor := func(system string) []Message {
		if defaultSystem {
			return []Message{{Role: RoleSystem, Content: orDefaultSystemPrompt(system)}}
		}
		if system != "" {
			return []Message{{Role: RoleSystem, Content: system}}
		}
		return nil
	}
	return &vendor{
		name:         name,
		display:      display,
		keyEnv:       []string{keyEnv},
		modelEnv:     upper + "_MODEL",
		baseURLEnv:   upper + "_BASE_URL",
		defaultModel: defaultModel,
		baseURL:      baseURL,
		endpoint:     fixedEndpoint,
		authorize:    bearer,
		single: func(model, prompt, system string, maxTokens int) any {
			msgs := append(systemFor(system), Message{Role: RoleUser, Content: prompt})
			return chatCompletionRequest{Model: model, Messages: msgs, MaxTokens: maxTokens}
		},
		history: func(model string, messages []Message, system string, maxTokens int) any {
			msgs := append(systemFor(system), messages...)
			return chatCompletionRequest{Model: model, Messages: nonNil(msgs), MaxTokens: maxTokens}
		},
		extract: extractChoice,
	}
}

var (
	openAI   = chatCompletion("openai", "OpenAI", "OPENAI_API_KEY", "gpt-4o", "https://api.openai.com/v1/chat/completions", true)
	grok     = chatCompletion("grok", "Grok", "GROK_API_KEY", "grok-1", "https://api.grok.x/v1/chat/completions", false)
	deepseek = chatCompletion("deepseek", "Deepseek", "DEEPSEEK_API_KEY", "deepseek-coder", "https://api.deepseek.com/v1/chat/completions", false)
)

func extractChoice(body []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("missing choices[0].message.content")
	}
	return *result.Choices[0].Message.Content, nil
}

// =============================================================================
// GEMINI
// =============================================================================

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

func geminiConfig(maxTokens int) geminiGenerationConfig {
	return geminiGenerationConfig{MaxOutputTokens: maxTokens, Temperature: 0.7, TopP: 0.95, TopK: 40}
}

var gemini = &vendor{
	name:         "gemini",
	display:      "Gemini",
	keyEnv:       []string{"GEMINI_API_KEY"},
	modelEnv:     "GEMINI_MODEL",
	baseURLEnv:   "GEMINI_BASE_URL",
	defaultModel: "gemini-1.5-pro-latest",
	baseURL:      "https://generativelanguage.googleapis.com/v1beta/models",
	endpoint: func(base, model, key string) string {
		return fmt.Sprintf("%s/%s:generateContent?key=%s", base, model, url.QueryEscape(key))
	},
	authorize: func(http.Header, string) {},
	single: func(model, prompt, system string, maxTokens int) any {
		parts := []geminiPart{{Text: prompt}}
		if system != "" {
			parts = append([]geminiPart{{Text: "System: " + system}}, parts...)
		}
		return geminiRequest{
			Contents:         []geminiContent{{Parts: parts}},
			GenerationConfig: geminiConfig(maxTokens),
		}
	},
	history: func(model string, messages []Message, system string, maxTokens int) any {
		contents := make([]geminiContent, 0, len(messages)+1)
		if system != "" {
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: "System: " + system}}})
		}
		for _, m := range messages {
			role := "model"
			if m.Role == RoleUser {
				role = "user"
			}
			contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: m.Content}}})
		}
		return geminiRequest{Contents: contents, GenerationConfig: geminiConfig(maxTokens)}
	},
	extract: func(body []byte) (string, error) {
		var result struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text *string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return "", err
		}
		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 ||
			result.Candidates[0].Content.Parts[0].Text == nil {
			return "", fmt.Errorf("missing candidates[0].content.parts[0].text")
		}
		return *result.Candidates[0].Content.Parts[0].Text, nil
	},
}

// =============================================================================
// HUGGING FACE
// =============================================================================

// NoHuggingFaceResponse is returned when the inference API answers with
// something other than a non-empty list.
const NoHuggingFaceResponse = "No response generated from the model."

type huggingFaceParameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

var huggingFace = &vendor{
	name:         "huggingface",
	display:      "Hugging Face",
	keyEnv:       []string{"HUGGINGFACE_API_KEY"},
	modelEnv:     "HUGGINGFACE_MODEL",
	baseURLEnv:   "HUGGINGFACE_BASE_URL",
	defaultModel: "mistralai/Mixtral-8x7B-Instruct-v0.1",
	baseURL:      "https://api-inference.huggingface.co/models",
	endpoint: func(base, model, _ string) string {
		return base + "/" + model
	},
	authorize: bearer,
	single: func(model, prompt, system string, maxTokens int) any {
		inputs := prompt
		if system != "" {
			inputs = fmt.Sprintf("<s>[INST] %s\n\n%s [/INST]</s>", system, prompt)
		}
		return huggingFaceRequest{Inputs: inputs, Parameters: huggingFaceParameters{MaxNewTokens: maxTokens}}
	},
	history: func(model string, messages []Message, system string, maxTokens int) any {
		var sb strings.Builder
		if system != "" {
			fmt.Fprintf(&sb, "System: %s\n\n", system)
		}
		for _, m := range messages {
			role := "Assistant"
			if m.Role == RoleUser {
				role = "User"
			}
			fmt.Fprintf(&sb, "%s: %s\n\n", role, m.Content)
		}
		sb.WriteString("Assistant: ")
		return huggingFaceRequest{Inputs: sb.String(), Parameters: huggingFaceParameters{MaxNewTokens: maxTokens}}
	},
	extract: func(body []byte) (string, error) {
		var result any
		if err := json.Unmarshal(body, &result); err != nil {
			return "", err
		}
		list, ok := result.([]any)
		if !ok || len(list) == 0 {
			return NoHuggingFaceResponse, nil
		}
		first, ok := list[0].(map[string]any)
		if !ok {
			return "", fmt.Errorf("result[0] is %T, not an object", list[0])
		}
		switch text := first["generated_text"].(type) {
		case nil:
			return "", nil
		case string:
			return text, nil
		default:
			return fmt.Sprint(text), nil
		}
	},
}

// =============================================================================
// SHARED PIECES
// =============================================================================

func fixedEndpoint(base, _, _ string) string { return base }

func bearer(h http.Header, key string) {
	h.Set("Authorization", "Bearer "+key)
}

func nonNil(messages []Message) []Message {
	if messages == nil {
		return []Message{}
	}
	return messages
}
