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
	"regexp"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

var (
	snakeCase = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	camelCase = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

// walker accumulates counts, naming issues and the complexity score in one
// pre-order pass.
type walker struct {
	src        []byte
	functions  int
	classes    int
	complexity int
	naming     []string
}

func (w *walker) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "function_definition":
		if isAsync(node) {
			break
		}
		w.functions++
		if name := node.ChildByFieldName("name"); name != nil {
			w.checkFunction(name.Content(w.src))
		}
	case "class_definition":
		w.classes++
		if name := node.ChildByFieldName("name"); name != nil {
			w.checkClass(name.Content(w.src))
		}
	case "if_statement", "elif_clause", "for_statement", "while_statement", "try_statement":
		w.complexity++
	case "boolean_operator":
		// "a and b or c" nests as two operators, one per extra operand.
		w.complexity++
	}

	switch node.Type() {
	case "assignment", "augmented_assignment", "for_statement", "for_in_clause":
		w.storeTargets(node.ChildByFieldName("left"))
	case "named_expression":
		w.storeTargets(node.ChildByFieldName("name"))
	case "as_pattern":
		// with-statement aliases bind names; except-clause aliases are skipped.
		if parent := node.Parent(); parent != nil && parent.Type() == "with_item" {
			w.storeTargets(node.ChildByFieldName("alias"))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

// isAsync reports whether a function definition was written with async def.
// Coroutines are left out of the function count and the naming checks.
func isAsync(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "async" {
			return true
		}
		if child.IsNamed() {
			return false
		}
	}
	return false
}

// storeTargets checks every plain name bound by an assignment target.
func (w *walker) storeTargets(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case "identifier":
		w.checkVariable(node.Content(w.src))
	case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern",
		"parenthesized_expression", "expression_list", "tuple", "list":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			w.storeTargets(node.NamedChild(i))
		}
	case "as_pattern_target":
		if node.NamedChildCount() == 0 {
			w.checkVariable(node.Content(w.src))
			return
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			w.storeTargets(node.NamedChild(i))
		}
	}
}

func (w *walker) checkVariable(name string) {
	if snakeCase.MatchString(name) || isUpper(name) {
		return
	}
	w.naming = append(w.naming, fmt.Sprintf("Variable '%s' does not follow snake_case convention", name))
}

func (w *walker) checkFunction(name string) {
	if snakeCase.MatchString(name) {
		return
	}
	w.naming = append(w.naming, fmt.Sprintf("Function '%s' does not follow snake_case convention", name))
}

func (w *walker) checkClass(name string) {
	if camelCase.MatchString(name) {
		return
	}
	w.naming = append(w.naming, fmt.Sprintf("Class '%s' does not follow CamelCase convention", name))
}

// isUpper reports whether s has at least one cased letter and no lowercase
// ones, so constants such as MAX_SIZE pass.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased && strings.TrimSpace(s) != ""
}
