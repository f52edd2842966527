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

import "os"

// DefaultSystemPrompt is sent by Claude and OpenAI when the caller gives none.
// It goes out byte for byte, leading newline and indentation included.
const DefaultSystemPrompt = `
            You are an AI programming assistant. Your goal is to help with programming tasks
            by providing clear, correct, and well-explained code and technical information.
            When writing code, include helpful comments. For beginners, explain concepts
            thoroughly and avoid jargon. Focus on Python programming best practices.
            `

func orDefaultSystemPrompt(system string) string {
	if system == "" {
		return DefaultSystemPrompt
	}
	return system
}

// NewClientFromEnv resolves configuration from the process environment and
// creates a client. Prefer LoadConfig once at startup plus NewClient.
func NewClientFromEnv(provider, apiKey string, opts ...Option) (*Client, error) {
	return NewClient(provider, apiKey, LoadConfig(os.Getenv), opts...)
}

// Transcript builds a message list from alternating user and assistant turns.
func Transcript(turns ...string) []Message {
	msgs := make([]Message, len(turns))
	for i, t := range turns {
		if i%2 == 0 {
			msgs[i] = Message{Role: RoleUser, Content: t}
		} else {
			msgs[i] = Message{Role: RoleAssistant, Content: t}
		}
	}
	return msgs
}
