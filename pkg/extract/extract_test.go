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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "python fence",
			text:   "Here you go:\n```python\ndef count_words(s):\n    return len(s.split())\n```\nEnjoy!",
			want:   "def count_words(s):\n    return len(s.split())",
			wantOK: true,
		},
		{
			name:   "untagged fence",
			text:   "```\nprint('hi')\n```",
			want:   "print('hi')",
			wantOK: true,
		},
		{
			name:   "py tag with surrounding blank lines",
			text:   "```py\n\n\nx = 1\n\n```",
			want:   "x = 1",
			wantOK: true,
		},
		{
			name:   "first block wins",
			text:   "```python\nfirst()\n```\nand\n```python\nsecond()\n```",
			want:   "first()",
			wantOK: true,
		},
		{
			name:   "indented fallback",
			text:   "Try this:\n    x = 1\n\n    y = 2\nThat is all.\n    z = 3",
			want:   "x = 1\n\ny = 2",
			wantOK: true,
		},
		{
			name:   "tab indented fallback keeps relative indentation",
			text:   "Code:\n\tif x:\n\t\treturn 1\n",
			want:   "if x:\n\treturn 1",
			wantOK: true,
		},
		{
			name:   "fence preferred over indentation",
			text:   "    indented()\n```\nfenced()\n```",
			want:   "fenced()",
			wantOK: true,
		},
		{name: "plain prose", text: "What is a variable?", wantOK: false},
		{name: "two-space indent is not code", text: "note:\n  not code\n", wantOK: false},
		{name: "empty input", text: "", wantOK: false},
		{name: "empty fence", text: "```python\n\n```", wantOK: false},
		{
			name:   "empty fence falls through to indented code",
			text:   "```python\n```\nExample:\n\n    x = 1\n",
			want:   "x = 1",
			wantOK: true,
		},
		{
			name:   "empty fence skipped for next fence",
			text:   "```\n```\n```python\nx = 1\n```",
			want:   "x = 1",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCode(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAll(t *testing.T) {
	text := "```go\nfmt.Println()\n```\ntext\n```Python\nprint()\n```"
	blocks := ExtractAll(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, Block{Language: "go", Code: "fmt.Println()"}, blocks[0])
	assert.Equal(t, Block{Language: "python", Code: "print()"}, blocks[1])

	assert.Empty(t, ExtractAll("no code here"))
}

func TestFormatCode_RoundTrips(t *testing.T) {
	code := "def f():\n    pass"
	formatted := FormatCode(code)
	assert.Equal(t, "```python\ndef f():\n    pass\n```", formatted)

	got, ok := ExtractCode(formatted)
	require.True(t, ok)
	assert.Equal(t, code, got)
}

func TestSaveAndLoadCode(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "out", "script.py")

	abs, err := SaveCode("print('saved')\n", target)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	code, err := LoadCode(abs)
	require.NoError(t, err)
	assert.Equal(t, "print('saved')\n", code)

	_, err = LoadCode(filepath.Join(dir, "missing.py"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseImports(t *testing.T) {
	code := "import os\nimport collections.abc\nfrom pathlib import Path\n"
	assert.Equal(t, []string{"os", "collections.abc", "Path", "pathlib"}, ParseImports(code))
	assert.Empty(t, ParseImports("x = 1"))
}

func TestSuggestDocstring(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want string
	}{
		{
			name: "not a function",
			def:  "x = 1",
			want: `"""Function docstring."""`,
		},
		{
			name: "no parameters",
			def:  "def run():",
			want: "\"\"\"run function.\n\"\"\"",
		},
		{
			name: "method with only self",
			def:  "def close(self):",
			want: "\"\"\"close function.\n\"\"\"",
		},
		{
			name: "typed and defaulted parameters",
			def:  "def greet(self, name: str, times=2):",
			want: "\"\"\"greet function.\n\nArgs:\n    name: Description of name.\n    times: Description of times.\n\nReturns:\n    Description of return value.\n\"\"\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestDocstring(tt.def))
		})
	}
}
