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

// Package main implements the devmate CLI, a programming assistant that
// talks to one of several LLM providers.
//
// Usage:
//
//	devmate                       Start an interactive chat session
//	devmate ask <question>        Ask a single question
//	devmate task <description>    Turn a task description into commented code
//	devmate analyze <file>        Run the local Python analyzer
//	devmate extract [file]        Pull code blocks out of text
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags holds flags accepted before the command name.
type GlobalFlags struct {
	ConfigPath  string
	Provider    string
	Model       string
	APIKey      string
	Debug       bool
	NoColor     bool
	JSON        bool
	Quiet       bool
	MetricsAddr string
}

// main parses global flags and dispatches to a command handler. With no
// command it starts the chat session.
func main() {
	var (
		globals     GlobalFlags
		showVersion bool
	)
	flag.CommandLine.SetInterspersed(false)
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.StringVar(&globals.ConfigPath, "config", "", "Path to config file (default: ~/.devmate/config.yaml)")
	flag.StringVarP(&globals.Provider, "provider", "p", "", "LLM provider (claude, openai, gemini, huggingface, grok, deepseek)")
	flag.StringVarP(&globals.Model, "model", "m", "", "Model identifier (default: provider default)")
	flag.StringVar(&globals.APIKey, "api-key", "", "API key (default: provider environment variable)")
	flag.BoolVar(&globals.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&globals.NoColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&globals.JSON, "json", false, "Output as JSON where supported")
	flag.BoolVarP(&globals.Quiet, "quiet", "q", false, "Suppress spinners and progress output")
	flag.StringVar(&globals.MetricsAddr, "metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `devmate - AI programming assistant

devmate helps you write, understand and improve Python code. It sends your
questions to the LLM provider of your choice and can turn plain-language task
descriptions into complete, commented programs.

Usage:
  devmate [global options] <command> [options]

Commands:
  chat          Interactive session (default)
  ask           Ask a single question
  task          Convert a task description into Python code
  generate      Generate code from a specification
  analyze       Analyze Python files locally (--review for an LLM review)
  extract       Extract code blocks from text
  models        List models for a provider
  providers     List providers and API key status
  completion    Generate shell completion script (bash|zsh|fish)

Global Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  devmate                                   Chat with the default provider
  devmate -p openai -m gpt-4o               Chat with a specific model
  devmate ask "What is a list comprehension?"
  devmate task "Create a program that renames all .txt files in a folder"
  devmate analyze script.py --review
  devmate extract reply.md --save out.py
  devmate models gemini

Environment Variables:
  DEVMATE_PROVIDER     Default provider (default: claude)
  DEVMATE_CONFIG       Config file path
  CLAUDE_API_KEY       Claude key (ANTHROPIC_API_KEY also accepted)
  OPENAI_API_KEY       OpenAI key
  GEMINI_API_KEY       Gemini key
  HUGGINGFACE_API_KEY  Hugging Face key
  GROK_API_KEY         Grok key
  DEEPSEEK_API_KEY     Deepseek key
  <PROVIDER>_MODEL     Model override, e.g. OPENAI_MODEL=gpt-4-turbo

For detailed command help: devmate <command> --help

`)
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("devmate version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}
	if globals.JSON {
		globals.Quiet = true
	}

	args := flag.Args()
	command := "chat"
	var cmdArgs []string
	if len(args) > 0 {
		command = args[0]
		cmdArgs = args[1:]
	}

	switch command {
	case "chat":
		runChat(cmdArgs, globals)
	case "ask":
		runAsk(cmdArgs, globals)
	case "task":
		runTask(cmdArgs, globals)
	case "generate":
		runGenerate(cmdArgs, globals)
	case "analyze":
		runAnalyze(cmdArgs, globals)
	case "extract":
		runExtract(cmdArgs, globals)
	case "models":
		runModels(cmdArgs, globals)
	case "providers":
		runProviders(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs)
	case "help":
		flag.Usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
