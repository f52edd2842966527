// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package errors provides the structured errors the devmate CLI reports
// before exiting.
//
// A UserError says what went wrong, why, and how to fix it, and carries the
// exit code the process should end with:
//
//	err := errors.NewConfigError(
//	    "Claude API key not found",
//	    "None of CLAUDE_API_KEY, ANTHROPIC_API_KEY is set",
//	    "export CLAUDE_API_KEY=<your key> or pass --api-key",
//	    nil,
//	)
//	errors.FatalError(err, false)
//
// prints
//
//	Error: Claude API key not found
//	Cause: None of CLAUDE_API_KEY, ANTHROPIC_API_KEY is set
//	Fix:   export CLAUDE_API_KEY=<your key> or pass --api-key
//
// and with --json the same fields are written as an object on stderr.
//
// Provider request failures are not UserErrors: they come back as reply
// text, and commands that see one exit with ExitProvider.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes.
const (
	ExitSuccess = 0

	// ExitConfig covers missing keys, unknown providers and bad config files.
	ExitConfig = 1

	// ExitProvider means a provider request failed and the reply is an
	// error message.
	ExitProvider = 2

	// ExitInput covers bad arguments and empty input.
	ExitInput = 4

	// ExitPermission means a file could not be written.
	ExitPermission = 5

	// ExitNotFound means an input file does not exist.
	ExitNotFound = 6

	// ExitInternal signals a bug that should be reported.
	ExitInternal = 10
)

// UserError is an error with context for the person running the CLI.
type UserError struct {
	Message  string // what went wrong
	Cause    string // why, when known
	Fix      string // what to try next
	ExitCode int

	// Err is the wrapped error, if any.
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func newUserError(code int, msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: code, Err: err}
}

// NewConfigError reports a configuration problem: a missing API key, an
// unsupported provider, or a config file that cannot be read or parsed.
//
// Example:
//
//	return NewConfigError(
//	    "Unsupported provider: mistral",
//	    "The provider name is not recognized",
//	    "Use one of: claude, openai, gemini, huggingface, grok, deepseek",
//	    nil,
//	)
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitConfig, msg, cause, fix, err)
}

// NewInputError reports bad arguments or missing input text.
func NewInputError(msg, cause, fix string) *UserError {
	return newUserError(ExitInput, msg, cause, fix, nil)
}

// NewPermissionError reports a file that could not be written, usually
// when saving generated code.
func NewPermissionError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitPermission, msg, cause, fix, err)
}

// NewNotFoundError reports an input file that does not exist.
//
// Example:
//
//	return NewNotFoundError(
//	    "File not found: script.py",
//	    "open script.py: no such file or directory",
//	    "Check the path and try again",
//	)
func NewNotFoundError(msg, cause, fix string) *UserError {
	return newUserError(ExitNotFound, msg, cause, fix, nil)
}

// NewInternalError reports a state the program should never reach.
func NewInternalError(msg, cause, fix string, err error) *UserError {
	return newUserError(ExitInternal, msg, cause, fix, err)
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format renders the error for a terminal. Empty Cause and Fix lines are
// left out. Colors are off when noColor is set or NO_COLOR is present; the
// global color state is restored before returning.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	line := func(label *color.Color, prefix, text string) {
		out.WriteString(label.Sprint(prefix))
		out.WriteString(text)
		out.WriteString("\n")
	}
	line(colorError, "Error: ", e.Message)
	if e.Cause != "" {
		line(colorCause, "Cause: ", e.Cause)
	}
	if e.Fix != "" {
		line(colorFix, "Fix:   ", e.Fix)
	}
	return out.String()
}

// ErrorJSON is the --json form of a UserError.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{
		Error:    e.Message,
		Cause:    e.Cause,
		Fix:      e.Fix,
		ExitCode: e.ExitCode,
	}
}

// FatalError prints err to stderr and exits. A UserError exits with its
// own code; anything else exits with ExitInternal. A nil err is a no-op.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	var ue *UserError
	if !stderrors.As(err, &ue) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInternal)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(ue.ToJSON())
	} else {
		fmt.Fprint(os.Stderr, ue.Format(false))
	}
	os.Exit(ue.ExitCode)
}
