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

package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	importPattern     = regexp.MustCompile(`import\s+([\w.]+)`)
	fromImportPattern = regexp.MustCompile(`from\s+([\w.]+)\s+import`)

	defNamePattern   = regexp.MustCompile(`def\s+(\w+)\s*\(`)
	defParamsPattern = regexp.MustCompile(`(?s)def\s+\w+\s*\((.*?)\):`)
)

// ParseImports lists module names referenced by import statements. Matches
// of "import X" come first, then matches of "from X import".
func ParseImports(code string) []string {
	var imports []string
	for _, re := range []*regexp.Regexp{importPattern, fromImportPattern} {
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			imports = append(imports, m[1])
		}
	}
	return imports
}

// SuggestDocstring builds a Google-style docstring skeleton for a Python
// function definition.
func SuggestDocstring(funcDef string) string {
	name := defNamePattern.FindStringSubmatch(funcDef)
	if name == nil {
		return `"""Function docstring."""`
	}
	fn := name[1]

	m := defParamsPattern.FindStringSubmatch(funcDef)
	if m == nil {
		return fmt.Sprintf("\"\"\"%s function.\n\"\"\"", fn)
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" || raw == "self" {
		return fmt.Sprintf("\"\"\"%s function.\n\"\"\"", fn)
	}

	var params []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" || p == "self" {
			continue
		}
		p = strings.SplitN(p, ":", 2)[0]
		p = strings.TrimSpace(strings.SplitN(p, "=", 2)[0])
		params = append(params, p)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\"\"\"%s function.\n\n", fn)
	if len(params) > 0 {
		sb.WriteString("Args:\n")
		for _, p := range params {
			fmt.Fprintf(&sb, "    %s: Description of %s.\n", p, p)
		}
	}
	sb.WriteString("\nReturns:\n    Description of return value.\n\"\"\"")
	return sb.String()
}
