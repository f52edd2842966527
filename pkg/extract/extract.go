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

// Package extract pulls code out of free-form model replies and provides
// small helpers for working with Python snippets.
package extract

import (
	"regexp"
	"strings"
)

// fencePattern matches a triple-backtick block with an optional language tag
// on the opening line.
var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)[ \\t]*\\n(.*?)```")

// Block is one fenced code block.
type Block struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// ExtractCode returns the first code block in text.
//
// The first non-empty fenced block wins; its language tag is dropped and the
// body is trimmed. Otherwise the first run of lines indented by four spaces
// or a tab is returned with the common indentation removed. Blank lines
// inside the run are kept. ok is false when text holds no code.
func ExtractCode(text string) (code string, ok bool) {
	if text == "" {
		return "", false
	}
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		if body := strings.TrimSpace(m[2]); body != "" {
			return body, true
		}
	}
	return extractIndented(text)
}

// ExtractAll returns every fenced block in order of appearance.
func ExtractAll(text string) []Block {
	matches := fencePattern.FindAllStringSubmatch(text, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Language: strings.ToLower(m[1]), Code: strings.TrimSpace(m[2])})
	}
	return blocks
}

// FormatCode wraps code in a python fence for display.
func FormatCode(code string) string {
	return "```python\n" + code + "\n```"
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

func extractIndented(text string) (string, bool) {
	var run []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case isIndented(line) && strings.TrimSpace(line) != "":
			run = append(run, line)
		case strings.TrimSpace(line) == "" && len(run) > 0:
			run = append(run, "")
		case len(run) > 0:
			return dedent(run), true
		}
	}
	if len(run) == 0 {
		return "", false
	}
	return dedent(run), true
}

// dedent strips the indentation shared by all non-blank lines and drops
// trailing blank lines.
func dedent(lines []string) string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	prefix := ""
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(out, "\n")
}
