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
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/devmate/pkg/assistant"
	"github.com/kraklabs/devmate/pkg/catalog"
	"github.com/kraklabs/devmate/pkg/extract"
	"github.com/kraklabs/devmate/pkg/llm"
)

const (
	welcomeText = "Welcome to devmate, your AI programming assistant!\nType '/help' to see available commands or enter your query."
	goodbyeText = "Goodbye! Thank you for using devmate."
)

const helpText = `Available Commands:
  /help               Show this help message
  /exit               Exit the assistant
  /clear              Clear conversation history
  /save [file]        Save the last code snippet to a file (default: generated_code.py)
  /analyze <file>     Analyze code in a file
  /task <text>        Convert a task description to code
  /explain <file>     Explain how a piece of code works
  /simplify <file>    Simplify and explain a piece of code
  /model [id]         Show or change the model
  /provider [name]    Show or change the provider (history is kept)

How to Use:
  - Type your programming questions or requests normally
  - Describe programming tasks in plain language; no programming knowledge required
  - The assistant answers with well-commented code and explanations

Examples:
  How do I read data from a CSV file?
  Create a program that downloads images from a website
  /task Create a program that sends daily weather notifications`

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeWarn
	noticeError
)

// notice is a line shown to the user that is not part of the conversation.
type notice struct {
	kind noticeKind
	text string
}

// action is what the front end should do in response to one input line.
type action struct {
	notices []notice
	quit    bool
	cleared bool

	// pending is shown while work runs.
	pending string
	// work produces the reply to display. It runs off the UI goroutine.
	work func(ctx context.Context) string
}

// session interprets chat input. It holds no UI state, so the TUI and the
// plain line mode share it.
type session struct {
	asst      *assistant.Assistant
	cat       *catalog.Catalog
	newClient func(provider string) (llm.ProviderClient, error)
	readFile  func(name string) (string, error)
	saveFile  func(code, name string) (string, error)
}

func newSession(asst *assistant.Assistant, cat *catalog.Catalog, newClient func(string) (llm.ProviderClient, error)) *session {
	return &session{
		asst:      asst,
		cat:       cat,
		newClient: newClient,
		readFile:  extract.LoadCode,
		saveFile:  extract.SaveCode,
	}
}

func info(format string, args ...any) notice {
	return notice{kind: noticeInfo, text: fmt.Sprintf(format, args...)}
}

func warn(format string, args ...any) notice {
	return notice{kind: noticeWarn, text: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) notice {
	return notice{kind: noticeError, text: fmt.Sprintf(format, args...)}
}

func success(format string, args ...any) notice {
	return notice{kind: noticeSuccess, text: fmt.Sprintf(format, args...)}
}

// handle maps one line of input to an action. Empty input does nothing.
func (s *session) handle(input string) action {
	input = strings.TrimSpace(input)
	if input == "" {
		return action{}
	}
	if !strings.HasPrefix(input, "/") {
		return action{
			pending: "Processing your request...",
			work: func(ctx context.Context) string {
				return s.asst.ProcessQuery(ctx, input)
			},
		}
	}

	command := strings.ToLower(strings.Fields(input)[0])
	args := strings.TrimSpace(input[len(command):])

	switch command {
	case "/help":
		return action{notices: []notice{info("%s", helpText)}}
	case "/exit", "/quit":
		return action{notices: []notice{info(goodbyeText)}, quit: true}
	case "/clear":
		s.asst.ClearHistory()
		return action{notices: []notice{warn("Conversation history cleared.")}, cleared: true}
	case "/save":
		return s.save(args)
	case "/analyze":
		return s.fileCommand(args, "analyze", "Analyzing", s.asst.AnalyzeCode)
	case "/explain":
		return s.fileCommand(args, "explain", "Explaining", s.asst.ExplainCode)
	case "/simplify":
		return s.fileCommand(args, "simplify", "Simplifying", s.asst.SimplifyCode)
	case "/task":
		if args == "" {
			return action{notices: []notice{fail("Please provide a task description. Example: /task Create a program that counts words in a file")}}
		}
		return action{
			pending: "Converting your task to code...",
			work: func(ctx context.Context) string {
				return s.asst.ConvertTaskToCode(ctx, args)
			},
		}
	case "/model":
		return s.model(args)
	case "/provider":
		return s.provider(args)
	default:
		return action{notices: []notice{
			fail("Unknown command: %s", command),
			warn("Type '/help' to see available commands."),
		}}
	}
}

func (s *session) save(args string) action {
	code, ok := s.asst.LastCodeReply()
	if !ok {
		return action{notices: []notice{fail("No code found in the recent conversation.")}}
	}
	filename := args
	if filename == "" {
		filename = extract.DefaultFilename
	}
	abs, err := s.saveFile(code, filename)
	if err != nil {
		return action{notices: []notice{fail("Error saving code: %v", err)}}
	}
	return action{notices: []notice{success("Code saved to %s", abs)}}
}

// fileCommand loads a file and hands its content to fn in the background.
func (s *session) fileCommand(filename, verb, progress string, fn func(context.Context, string) string) action {
	if filename == "" {
		return action{notices: []notice{fail("Please specify a file to %s. Example: /%s path/to/file.py", verb, verb)}}
	}
	code, err := s.readFile(filename)
	if err != nil {
		return action{notices: []notice{fail("File not found: %s", filename)}}
	}
	return action{
		pending: fmt.Sprintf("%s %s...", progress, filename),
		work: func(ctx context.Context) string {
			return fn(ctx, code)
		},
	}
}

func (s *session) model(args string) action {
	client := s.asst.Client()
	if args == "" {
		n := []notice{info("Current model: %s (%s)", client.Model(), client.Name())}
		for _, m := range s.cat.Models(client.Name()) {
			n = append(n, info("  %-40s %s", m.ID, m.Description))
		}
		return action{notices: n}
	}
	client.SetModel(args)
	n := []notice{success("Model set to %s", args)}
	if !s.cat.HasModel(client.Name(), args) {
		n = append(n, warn("%s is not a known %s model; requests may fail.", args, s.cat.DisplayName(client.Name())))
	}
	return action{notices: n}
}

func (s *session) provider(args string) action {
	current := s.asst.Client()
	if args == "" {
		return action{notices: []notice{info("Current provider: %s (%s)", s.cat.DisplayName(current.Name()), current.Model())}}
	}
	client, err := s.newClient(args)
	if err != nil {
		return action{notices: []notice{fail("%s", userMessage(err))}}
	}
	s.asst.SetClient(client)
	return action{notices: []notice{success("Switched to %s (%s)", s.cat.DisplayName(client.Name()), client.Model())}}
}
