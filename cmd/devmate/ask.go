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
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/devmate/internal/errors"
	"github.com/kraklabs/devmate/internal/output"
	"github.com/kraklabs/devmate/internal/ui"
	"github.com/kraklabs/devmate/pkg/assistant"
	"github.com/kraklabs/devmate/pkg/extract"
	"github.com/kraklabs/devmate/pkg/llm"
)

// ReplyResult is the --json form of a one-shot reply.
type ReplyResult struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Reply     string `json:"reply"`
	Failed    bool   `json:"failed,omitempty"`
	SavedTo   string `json:"saved_to,omitempty"`
	SessionID string `json:"session_id"`
}

// promptCommand describes one of the single-request commands.
type promptCommand struct {
	name    string
	summary string
	example string
	spinner string
	call    func(a *assistant.Assistant, ctx context.Context, input string) string
}

var (
	askCommand = promptCommand{
		name:    "ask",
		summary: "Ask a single question. Task descriptions and \"analyze this code\" requests are routed the same way as in chat.",
		example: `devmate ask "What does enumerate do?"`,
		spinner: "Thinking",
		call:    (*assistant.Assistant).ProcessQuery,
	}
	taskCommand = promptCommand{
		name:    "task",
		summary: "Convert a plain-language task description into complete, commented Python code.",
		example: `devmate task "Create a program that counts words in a file" --save count.py`,
		spinner: "Writing code",
		call:    (*assistant.Assistant).ConvertTaskToCode,
	}
	generateCommand = promptCommand{
		name:    "generate",
		summary: "Generate Python code from a specification.",
		example: `devmate generate "a function that validates email addresses"`,
		spinner: "Generating",
		call:    (*assistant.Assistant).GenerateCode,
	}
)

func runAsk(args []string, globals GlobalFlags)      { runPromptCommand(askCommand, args, globals) }
func runTask(args []string, globals GlobalFlags)     { runPromptCommand(taskCommand, args, globals) }
func runGenerate(args []string, globals GlobalFlags) { runPromptCommand(generateCommand, args, globals) }

// runPromptCommand sends one request and prints the reply.
//
// Flags:
//   - --save: Write the first code block of the reply to a file
//
// The text comes from the arguments, or stdin when none are given or the
// only argument is "-". A failed request prints the error reply and exits
// with ExitProvider.
func runPromptCommand(pc promptCommand, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet(pc.name, flag.ExitOnError)
	save := fs.String("save", "", "Save the code from the reply to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate %s [options] <text>

%s
Reads from stdin when <text> is omitted or "-".

Options:
`, pc.name, pc.summary)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n  %s\n", pc.example)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	input, err := readInput(fs.Args(), os.Stdin)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	a, err := newApp(globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	client, err := a.newClient(a.settings.Provider)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	asst := a.newAssistant(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reply := withSpinner(NewProgressConfig(globals), pc.spinner, func() string {
		return pc.call(asst, ctx, input)
	})
	failed := llm.IsErrorReply(reply)

	result := ReplyResult{
		Provider:  client.Name(),
		Model:     client.Model(),
		Reply:     reply,
		Failed:    failed,
		SessionID: asst.SessionID(),
	}
	if *save != "" && !failed {
		result.SavedTo = saveReplyCode(reply, *save, globals.JSON)
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(err, true)
		}
	} else {
		fmt.Println(a.renderer.Markdown(reply))
	}

	if failed {
		os.Exit(errors.ExitProvider)
	}
}

// saveReplyCode extracts code from reply and writes it to filename. It
// returns the absolute path, or "" when nothing was saved.
func saveReplyCode(reply, filename string, quiet bool) string {
	code, ok := extract.ExtractCode(reply)
	if !ok {
		if !quiet {
			ui.Warning("No code found in the reply; nothing saved.")
		}
		return ""
	}
	abs, err := extract.SaveCode(code, filename)
	if err != nil {
		if !quiet {
			ui.Errorf("Error saving code: %v", err)
		}
		return ""
	}
	if !quiet {
		ui.Successf("Code saved to %s", abs)
	}
	return abs
}

// readInput joins args, or reads r when args is empty or "-".
func readInput(args []string, r io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.NewInputError("Cannot read input", err.Error(), "Pass the text as an argument instead")
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.NewInputError(
			"No input given",
			"Neither an argument nor stdin provided any text",
			`Pass the text as an argument, e.g. devmate ask "What is a tuple?"`,
		)
	}
	return text, nil
}
