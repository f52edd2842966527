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

package analyzer

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// pythonKeywords are the hard keywords. Soft keywords such as match, case
// and type are valid identifiers.
var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// bodyField names the block field of each compound statement.
var bodyField = map[string]string{
	"function_definition": "body",
	"class_definition":    "body",
	"if_statement":        "consequence",
	"elif_clause":         "consequence",
	"else_clause":         "body",
	"for_statement":       "body",
	"while_statement":     "body",
	"try_statement":       "body",
	"with_statement":      "body",
}

// structureError finds the layout errors the grammar recovers from without
// an ERROR node: empty blocks, unexpected or inconsistent indentation, and
// keywords used as names. It returns "" when the tree is sound.
func structureError(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}

	if field, ok := bodyField[node.Type()]; ok && node.ChildByFieldName(field) == nil {
		return located("expected an indented block", node)
	}

	switch node.Type() {
	case "module":
		if msg := checkIndentation(node, src, 0); msg != "" {
			return msg
		}
	case "block":
		first := firstStatement(node)
		if first == nil {
			return located("expected an indented block", node)
		}
		want := int(first.StartPoint().Column)
		if startsLine(first, src) {
			if parent := node.Parent(); parent != nil && want <= int(parent.StartPoint().Column) {
				return located("expected an indented block", first)
			}
		}
		if msg := checkIndentation(node, src, want); msg != "" {
			return msg
		}
	case "identifier":
		if name := node.Content(src); pythonKeywords[name] {
			return located(fmt.Sprintf("invalid syntax, '%s' is a keyword", name), node)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if msg := structureError(node.Child(i), src); msg != "" {
			return msg
		}
	}
	return ""
}

// checkIndentation requires every statement of a module or block that opens
// its own line to start at column want.
func checkIndentation(node *sitter.Node, src []byte, want int) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		stmt := node.NamedChild(i)
		if stmt.Type() == "comment" || !startsLine(stmt, src) {
			continue
		}
		col := int(stmt.StartPoint().Column)
		switch {
		case col > want:
			return located("unexpected indent", stmt)
		case col < want:
			return located("unindent does not match any outer indentation level", stmt)
		}
	}
	return ""
}

func firstStatement(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		if child := block.NamedChild(i); child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// startsLine reports whether only whitespace precedes node on its line.
func startsLine(node *sitter.Node, src []byte) bool {
	for i := int(node.StartByte()) - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			return true
		case ' ', '\t', '\f':
		default:
			return false
		}
	}
	return true
}

func located(msg string, node *sitter.Node) string {
	p := node.StartPoint()
	return fmt.Sprintf("%s at line %d, column %d", msg, p.Row+1, p.Column+1)
}
