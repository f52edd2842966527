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
	"github.com/kraklabs/devmate/pkg/analyzer"
	"github.com/kraklabs/devmate/pkg/extract"
)

// FileAnalysis is the --json form of one analyzed file.
type FileAnalysis struct {
	File   string                  `json:"file"`
	Result analyzer.AnalysisResult `json:"result"`
	Review string                  `json:"review,omitempty"`
}

// runAnalyze executes the 'analyze' CLI command.
//
// Each file is analyzed locally: line, function and class counts, common
// anti-patterns, naming conventions and a complexity bucket. With --review
// the code and the findings are also sent to the provider for a written
// review.
//
// Examples:
//
//	devmate analyze script.py
//	devmate analyze src/*.py --json
//	devmate analyze script.py --review
func runAnalyze(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	review := fs.Bool("review", false, "Ask the provider for a review of each file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate analyze [options] <file>...

Analyzes Python files without contacting a provider. Use --review to also
get an explained review with an improved version of the code.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  devmate analyze script.py
  devmate analyze script.py --review
  devmate --json analyze a.py b.py
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	files := fs.Args()
	if len(files) == 0 {
		errors.FatalError(errors.NewInputError(
			"Please specify a file to analyze.",
			"No file argument given",
			"Example: devmate analyze path/to/file.py",
		), globals.JSON)
	}

	a, err := newApp(globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}

	sources := make([]string, len(files))
	for i, f := range files {
		code, err := extract.LoadCode(f)
		if err != nil {
			errors.FatalError(errors.NewNotFoundError(
				fmt.Sprintf("File not found: %s", f),
				err.Error(),
				"Check the path and try again",
			), globals.JSON)
		}
		sources[i] = code
	}

	an := analyzer.New(a.logger)
	results := make([]FileAnalysis, len(files))
	bar := NewProgressBar(NewProgressConfig(globals), int64(len(files)), "Analyzing")
	for i, f := range files {
		results[i] = FileAnalysis{File: f, Result: an.Analyze(sources[i])}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if *review {
		client, err := a.newClient(a.settings.Provider)
		if err != nil {
			errors.FatalError(err, globals.JSON)
		}
		asst := a.newAssistant(client)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		progress := NewProgressConfig(globals)
		for i := range results {
			results[i].Review = withSpinner(progress, "Reviewing "+results[i].File, func() string {
				return asst.AnalyzeCode(ctx, sources[i])
			})
		}
	}

	if globals.JSON {
		if err := output.JSON(results); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		printAnalysis(os.Stdout, r.File, r.Result)
		if r.Review != "" {
			fmt.Println()
			fmt.Println(a.renderer.Markdown(r.Review))
		}
	}
}

// printAnalysis writes the human-readable report for one file.
func printAnalysis(w io.Writer, file string, r analyzer.AnalysisResult) {
	title := "Code Analysis: " + file
	fmt.Fprintln(w, ui.Bold.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "%s %s\n", ui.Label("Lines:     "), ui.CountText(r.LineCount))
	fmt.Fprintf(w, "%s %s\n", ui.Label("Functions: "), ui.CountText(r.FunctionCount))
	fmt.Fprintf(w, "%s %s\n", ui.Label("Classes:   "), ui.CountText(r.ClassCount))
	fmt.Fprintf(w, "%s %s\n", ui.Label("Complexity:"), ui.ComplexityText(r.Complexity))

	if len(r.Issues) == 0 {
		fmt.Fprintln(w, ui.Green.Sprint("No issues detected"))
		return
	}
	fmt.Fprintln(w, ui.Label("Issues:"))
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  %s %s\n", ui.Yellow.Sprint("•"), issue)
	}
}
