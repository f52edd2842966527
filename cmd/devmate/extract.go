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
	"io"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/devmate/internal/errors"
	"github.com/kraklabs/devmate/internal/output"
	"github.com/kraklabs/devmate/internal/render"
	"github.com/kraklabs/devmate/internal/ui"
	"github.com/kraklabs/devmate/pkg/extract"
)

// ExtractResult is the --json form of 'extract'.
type ExtractResult struct {
	Blocks     []extract.Block   `json:"blocks"`
	Imports    []string          `json:"imports,omitempty"`
	Docstrings map[string]string `json:"docstrings,omitempty"`
	SavedTo    string            `json:"saved_to,omitempty"`
}

// runExtract executes the 'extract' CLI command, pulling code out of a
// reply saved as text or markdown. No provider is contacted.
func runExtract(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	all := fs.Bool("all", false, "Print every fenced block instead of the first one")
	save := fs.String("save", "", "Save the extracted code to this file")
	imports := fs.Bool("imports", false, "List the modules imported by the extracted code")
	docstrings := fs.Bool("docstrings", false, "Suggest a docstring for each function definition")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate extract [options] [file]

Extracts code from text. The first fenced block wins; without fences, the
first run of indented lines is used. Reads stdin when no file is given.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  devmate extract reply.md
  devmate ask "Write fizzbuzz" | devmate extract --save fizzbuzz.py
  devmate extract --all notes.md
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	text, err := readExtractSource(fs.Args(), os.Stdin)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	ui.InitColors(globals.NoColor)

	var result ExtractResult
	if *all {
		result.Blocks = extract.ExtractAll(text)
	} else if code, ok := extract.ExtractCode(text); ok {
		result.Blocks = []extract.Block{{Language: "python", Code: code}}
	}
	if len(result.Blocks) == 0 {
		errors.FatalError(errors.NewNotFoundError(
			"No code found in the input.",
			"The text has no fenced code block and no indented lines",
			"Wrap code in ``` fences",
		), globals.JSON)
	}

	if *imports {
		for _, b := range result.Blocks {
			result.Imports = append(result.Imports, extract.ParseImports(b.Code)...)
		}
	}
	if *docstrings {
		result.Docstrings = suggestDocstrings(result.Blocks)
	}
	if *save != "" {
		abs, err := extract.SaveCode(result.Blocks[0].Code, *save)
		if err != nil {
			errors.FatalError(errors.NewPermissionError("Error saving code", err.Error(), "Check that the directory is writable", err), globals.JSON)
		}
		result.SavedTo = abs
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	highlight := !globals.NoColor && !ui.ColorDisabled()
	printBlocks(os.Stdout, result.Blocks, highlight)
	if len(result.Imports) > 0 {
		fmt.Println()
		fmt.Println(ui.Label("Imports:"))
		for _, imp := range result.Imports {
			fmt.Printf("  %s\n", imp)
		}
	}
	if len(result.Docstrings) > 0 {
		fmt.Println()
		fmt.Println(ui.Label("Suggested docstrings:"))
		for _, def := range sortedKeys(result.Docstrings) {
			fmt.Printf("%s\n%s\n", ui.DimText(def), result.Docstrings[def])
		}
	}
	if result.SavedTo != "" {
		ui.Successf("Code saved to %s", result.SavedTo)
	}
}

func readExtractSource(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		text, err := extract.LoadCode(args[0])
		if err != nil {
			return "", errors.NewNotFoundError(fmt.Sprintf("File not found: %s", args[0]), err.Error(), "Check the path and try again")
		}
		return text, nil
	}
	return readInput(nil, stdin)
}

// printBlocks writes blocks separated by a dim language header when there
// is more than one.
func printBlocks(w io.Writer, blocks []extract.Block, highlight bool) {
	for i, b := range blocks {
		if len(blocks) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			lang := b.Language
			if lang == "" {
				lang = "text"
			}
			fmt.Fprintln(w, ui.DimText(fmt.Sprintf("# block %d (%s)", i+1, lang)))
		}
		code := b.Code
		if highlight {
			code = render.Highlight(code, b.Language)
		}
		fmt.Fprintln(w, code)
	}
}

// suggestDocstrings maps each "def" line in blocks to a docstring skeleton.
func suggestDocstrings(blocks []extract.Block) map[string]string {
	out := make(map[string]string)
	for _, b := range blocks {
		for _, line := range strings.Split(b.Code, "\n") {
			def := strings.TrimSpace(line)
			if strings.HasPrefix(def, "def ") || strings.HasPrefix(def, "async def ") {
				out[def] = extract.SuggestDocstring(def)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
