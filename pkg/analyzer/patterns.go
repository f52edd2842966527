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
	"regexp"
	"strings"
)

// globalAssignmentLimit is the number of "=" lines tolerated before the
// snippet is flagged for global variables.
const globalAssignmentLimit = 3

var (
	bareExcept     = regexp.MustCompile(`except\s*:`)
	mutableDefault = regexp.MustCompile(`def\s+\w+\s*\(.*=\s*(\[\]|\{\}|\(\)).*\)`)
)

// Anti-pattern messages.
const (
	IssueBareExcept     = "Uses bare 'except:' without specifying exceptions"
	IssueMutableDefault = "Uses mutable default argument (list, dict, etc.)"
	IssueGlobals        = "Possible excessive use of global variables"
)

// checkPatterns runs the text-level anti-pattern checks in a fixed order.
func checkPatterns(code string) []string {
	var issues []string
	if bareExcept.MatchString(code) {
		issues = append(issues, IssueBareExcept)
	}
	if mutableDefault.MatchString(code) {
		issues = append(issues, IssueMutableDefault)
	}
	if countAssignmentLines(code) > globalAssignmentLimit {
		issues = append(issues, IssueGlobals)
	}
	return issues
}

// countAssignmentLines counts lines containing "=" that do not start with
// def or class after leading whitespace. Indented lines and comparisons are
// counted too; the check is a rough signal, not a scope analysis.
func countAssignmentLines(code string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if !strings.Contains(line, "=") {
			continue
		}
		trimmed := strings.TrimLeft(line, " \t\r\f\v")
		if strings.HasPrefix(trimmed, "def") || strings.HasPrefix(trimmed, "class") {
			continue
		}
		n++
	}
	return n
}
