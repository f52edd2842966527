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

// Package analyzer runs lightweight static checks over Python snippets.
//
// It is a heuristic linter, not a real one: a tree-sitter parse supplies the
// function and class counts, naming checks and a simplified complexity score,
// and a few regular expressions over the raw text flag common anti-patterns.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Complexity buckets.
const (
	ComplexityLow     = "Low"
	ComplexityMedium  = "Medium"
	ComplexityHigh    = "High"
	ComplexityUnknown = "Unknown"
)

// AnalysisResult is the outcome of one Analyze call.
type AnalysisResult struct {
	Issues        []string `json:"issues"`
	Complexity    string   `json:"complexity"`
	LineCount     int      `json:"line_count"`
	FunctionCount int      `json:"function_count"`
	ClassCount    int      `json:"class_count"`
}

// Analyzer inspects Python source. It is safe for concurrent use.
type Analyzer struct {
	logger *slog.Logger
}

// New creates an Analyzer. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze parses code and reports counts, issues and a complexity bucket.
//
// When the snippet does not parse, the result holds a single "syntax error"
// issue, zero counts and complexity Unknown.
func (a *Analyzer) Analyze(code string) AnalysisResult {
	result := AnalysisResult{
		Issues:     []string{},
		Complexity: ComplexityUnknown,
	}
	src := []byte(code)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		a.logger.Warn("analyzer.treesitter.parse_failed", "error", err)
		result.Issues = append(result.Issues, fmt.Sprintf("syntax error: %v", err))
		return result
	}
	defer tree.Close()

	root := tree.RootNode()
	msg := ""
	if node := firstSyntaxError(root); node != nil {
		msg = describeSyntaxError(node)
	} else {
		msg = structureError(root, src)
	}
	if msg != "" {
		a.logger.Debug("analyzer.treesitter.syntax_error", "detail", msg)
		result.Issues = append(result.Issues, "syntax error: "+msg)
		return result
	}

	result.LineCount = strings.Count(code, "\n") + 1

	w := &walker{src: src}
	w.walk(root)
	result.FunctionCount = w.functions
	result.ClassCount = w.classes

	result.Issues = append(result.Issues, checkPatterns(code)...)
	result.Issues = append(result.Issues, w.naming...)
	result.Complexity = Bucket(w.complexity)

	return result
}

// Bucket maps a complexity score to Low (<5), Medium (<10) or High.
func Bucket(score int) string {
	switch {
	case score < 5:
		return ComplexityLow
	case score < 10:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

// firstSyntaxError returns the first ERROR or MISSING node in document order.
// Python 2 print and exec statements also count: the grammar accepts them but
// Python 3 does not.
func firstSyntaxError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "ERROR", "print_statement", "exec_statement":
		return node
	}
	if node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstSyntaxError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func describeSyntaxError(node *sitter.Node) string {
	line := int(node.StartPoint().Row) + 1
	col := int(node.StartPoint().Column) + 1
	switch {
	case node.IsMissing():
		return fmt.Sprintf("expected '%s' at line %d, column %d", node.Type(), line, col)
	case node.Type() == "print_statement":
		return fmt.Sprintf("missing parentheses in call to 'print' at line %d, column %d", line, col)
	case node.Type() == "exec_statement":
		return fmt.Sprintf("missing parentheses in call to 'exec' at line %d, column %d", line, col)
	default:
		return fmt.Sprintf("invalid syntax at line %d, column %d", line, col)
	}
}
