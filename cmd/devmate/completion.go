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
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/devmate/internal/errors"
)

// bashCompletionTemplate is the bash completion script for devmate.
const bashCompletionTemplate = `#!/bin/bash

# Bash completion script for devmate
# Installation:
#   source <(devmate completion bash)
#   Or add to ~/.bashrc:
#   echo 'source <(devmate completion bash)' >> ~/.bashrc

_devmate_completion() {
    local cur prev commands providers
    commands="chat ask task generate analyze extract models providers completion"
    providers="claude anthropic openai gemini google huggingface grok deepseek"

    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    case "${prev}" in
        -p|--provider)
            COMPREPLY=( $(compgen -W "${providers}" -- ${cur}) )
            return 0
            ;;
    esac

    if [ $COMP_CWORD -eq 1 ] || [[ ${cur} == -* && $COMP_CWORD -eq 1 ]]; then
        if [[ ${cur} == -* ]] ; then
            COMPREPLY=( $(compgen -W "--version --config --provider --model --api-key --debug --no-color --json --quiet --metrics-addr" -- ${cur}) )
        else
            COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        fi
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        chat)
            COMPREPLY=( $(compgen -W "--plain" -- ${cur}) )
            ;;
        ask|task|generate)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--save" -- ${cur}) )
            fi
            ;;
        analyze)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--review" -- ${cur}) )
            else
                COMPREPLY=( $(compgen -f -X '!*.py' -- ${cur}) )
            fi
            ;;
        extract)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--all --save --imports --docstrings" -- ${cur}) )
            else
                COMPREPLY=( $(compgen -f -- ${cur}) )
            fi
            ;;
        models)
            if [[ ${cur} == -* ]] ; then
                COMPREPLY=( $(compgen -W "--all --details" -- ${cur}) )
            else
                COMPREPLY=( $(compgen -W "${providers}" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _devmate_completion devmate
`

// zshCompletionTemplate is the zsh completion script for devmate.
const zshCompletionTemplate = `#compdef devmate

# Zsh completion script for devmate
# Installation:
#   devmate completion zsh > "${fpath[1]}/_devmate"
#   rm -f ~/.zcompdump; compinit

_devmate() {
    local -a commands providers
    commands=(
        'chat:Interactive session'
        'ask:Ask a single question'
        'task:Convert a task description into Python code'
        'generate:Generate code from a specification'
        'analyze:Analyze Python files'
        'extract:Extract code blocks from text'
        'models:List models for a provider'
        'providers:List providers and API key status'
        'completion:Generate shell completion script'
    )
    providers=(claude anthropic openai gemini google huggingface grok deepseek)

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--config[Path to config file]:config file:_files -g "*.yaml"' \
        '(-p --provider)'{-p,--provider}'[LLM provider]:provider:($providers)' \
        '(-m --model)'{-m,--model}'[Model identifier]:model:' \
        '--api-key[API key]:key:' \
        '--debug[Enable debug logging]' \
        '--no-color[Disable colored output]' \
        '--json[Output as JSON]' \
        '(-q --quiet)'{-q,--quiet}'[Suppress progress output]' \
        '--metrics-addr[Prometheus metrics address]:address:' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                chat)
                    _arguments '--plain[Line-by-line mode]'
                    ;;
                ask|task|generate)
                    _arguments '--save[Save code from the reply]:file:_files' '*:text:'
                    ;;
                analyze)
                    _arguments '--review[Ask the provider for a review]' '*:file:_files -g "*.py"'
                    ;;
                extract)
                    _arguments \
                        '--all[Print every fenced block]' \
                        '--save[Save the extracted code]:file:_files' \
                        '--imports[List imported modules]' \
                        '--docstrings[Suggest docstrings]' \
                        '1:file:_files'
                    ;;
                models)
                    _arguments '--all[List every provider]' '--details[Show settings and system prompt]' '1:provider:($providers)'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_devmate
`

// fishCompletionTemplate is the fish completion script for devmate.
const fishCompletionTemplate = `# Fish completion script for devmate
# Installation:
#   devmate completion fish > ~/.config/fish/completions/devmate.fish

# Commands
complete -c devmate -f -n "__fish_use_subcommand" -a "chat" -d "Interactive session"
complete -c devmate -f -n "__fish_use_subcommand" -a "ask" -d "Ask a single question"
complete -c devmate -f -n "__fish_use_subcommand" -a "task" -d "Convert a task description into Python code"
complete -c devmate -f -n "__fish_use_subcommand" -a "generate" -d "Generate code from a specification"
complete -c devmate -f -n "__fish_use_subcommand" -a "analyze" -d "Analyze Python files"
complete -c devmate -f -n "__fish_use_subcommand" -a "extract" -d "Extract code blocks from text"
complete -c devmate -f -n "__fish_use_subcommand" -a "models" -d "List models for a provider"
complete -c devmate -f -n "__fish_use_subcommand" -a "providers" -d "List providers and API key status"
complete -c devmate -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

# Global flags
complete -c devmate -l version -d "Show version and exit"
complete -c devmate -l config -d "Path to config file" -r
complete -c devmate -s p -l provider -d "LLM provider" -xa "claude openai gemini huggingface grok deepseek"
complete -c devmate -s m -l model -d "Model identifier" -r
complete -c devmate -l api-key -d "API key" -r
complete -c devmate -l debug -d "Enable debug logging"
complete -c devmate -l no-color -d "Disable colored output"
complete -c devmate -l json -d "Output as JSON"
complete -c devmate -s q -l quiet -d "Suppress progress output"
complete -c devmate -l metrics-addr -d "Prometheus metrics address" -r

# Command flags
complete -c devmate -n "__fish_seen_subcommand_from chat" -l plain -d "Line-by-line mode"
complete -c devmate -n "__fish_seen_subcommand_from ask task generate" -l save -d "Save code from the reply" -r
complete -c devmate -n "__fish_seen_subcommand_from analyze" -l review -d "Ask the provider for a review"
complete -c devmate -n "__fish_seen_subcommand_from extract" -l all -d "Print every fenced block"
complete -c devmate -n "__fish_seen_subcommand_from extract" -l save -d "Save the extracted code" -r
complete -c devmate -n "__fish_seen_subcommand_from extract" -l imports -d "List imported modules"
complete -c devmate -n "__fish_seen_subcommand_from extract" -l docstrings -d "Suggest docstrings"
complete -c devmate -n "__fish_seen_subcommand_from models" -l all -d "List every provider"
complete -c devmate -n "__fish_seen_subcommand_from models" -l details -d "Show settings and system prompt"
complete -c devmate -n "__fish_seen_subcommand_from models" -f -a "claude openai gemini huggingface grok deepseek"

# completion command arguments
complete -c devmate -n "__fish_seen_subcommand_from completion" -f -a "bash zsh fish"
`

// completionScript returns the script for shell.
func completionScript(shell string) (string, bool) {
	switch shell {
	case "bash":
		return bashCompletionTemplate, true
	case "zsh":
		return zshCompletionTemplate, true
	case "fish":
		return fishCompletionTemplate, true
	default:
		return "", false
	}
}

// runCompletion executes the 'completion' CLI command, printing a shell
// completion script for bash, zsh or fish.
//
// Examples:
//
//	source <(devmate completion bash)
//	devmate completion zsh > "${fpath[1]}/_devmate"
//	devmate completion fish | source
func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate completion <shell>

Generate shell completion scripts for bash, zsh, or fish.

Examples:
  source <(devmate completion bash)
  echo 'source <(devmate completion bash)' >> ~/.bashrc
  devmate completion zsh > "${fpath[1]}/_devmate"
  devmate completion fish > ~/.config/fish/completions/devmate.fish

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		errors.FatalError(errors.NewInputError(
			"Invalid arguments",
			"The completion command requires exactly one argument: the shell name",
			"Run 'devmate completion bash', 'devmate completion zsh', or 'devmate completion fish'",
		), false)
	}

	script, ok := completionScript(fs.Arg(0))
	if !ok {
		errors.FatalError(errors.NewInputError(
			"Unsupported shell",
			fmt.Sprintf("Shell '%s' is not supported. Valid options: bash, zsh, fish", fs.Arg(0)),
			"Run 'devmate completion bash', 'devmate completion zsh', or 'devmate completion fish'",
		), false)
	}
	fmt.Print(script)
}
