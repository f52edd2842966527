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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, code string) AnalysisResult {
	t.Helper()
	return New(nil).Analyze(code)
}

func TestAnalyze_SyntaxError(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unclosed paren", "def broken(:\n    pass\n"},
		{"missing colon", "if x\n    y = 1\n"},
		{"python2 print", "print 'hello'\n"},
		{"missing indented block", "if True:\nprint(1)\n"},
		{"indented first line", "  x = 1\n"},
		{"unexpected indent", "x = 1\n  y = 2\n"},
		{"unexpected indent in body", "def f():\n    x = 1\n      y = 2\n"},
		{"dangling else", "else:\n  pass\n"},
		{"comment-only body", "while True:\n    # nothing yet\n"},
		{"keyword as name", "def f(pass):\n    return 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, tt.code)

			require.Len(t, result.Issues, 1)
			assert.True(t, strings.HasPrefix(result.Issues[0], "syntax error: "), "got %q", result.Issues[0])
			assert.Equal(t, ComplexityUnknown, result.Complexity)
			assert.Zero(t, result.LineCount)
			assert.Zero(t, result.FunctionCount)
			assert.Zero(t, result.ClassCount)
		})
	}
}

func TestAnalyze_IndentationMessages(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"if True:\nprint(1)\n", "syntax error: expected an indented block"},
		{"x = 1\n  y = 2\n", "syntax error: unexpected indent at line 2, column 3"},
		{"def f():\n    x = 1\n      y = 2\n", "syntax error: unexpected indent at line 3, column 7"},
	}
	for _, tt := range tests {
		result := analyze(t, tt.code)
		require.Len(t, result.Issues, 1, tt.code)
		assert.True(t, strings.HasPrefix(result.Issues[0], tt.want), "got %q", result.Issues[0])
	}
}

func TestAnalyze_ValidLayouts(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"inline bodies", "if x: y = 1\nelse: y = 2\nwhile y: y -= 1\n"},
		{"semicolons", "a = 1; b = 2\nif a:\n    c = 3; d = 4\n"},
		{"indented comments", "    # leading comment\nx = 1\ndef f():\n  # two spaces\n    return x\n"},
		{"decorated method", "class A:\n    @staticmethod\n    def run():\n        pass\n"},
		{"continuation lines", "total = sum([\n    1,\n  2,\n])\n"},
		{"soft keywords", "match = 1\ncase = 2\n"},
		{"tabs", "def f():\n\treturn 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyze(t, tt.code)
			for _, issue := range result.Issues {
				assert.False(t, strings.HasPrefix(issue, "syntax error"), "got %q", issue)
			}
			assert.NotEqual(t, ComplexityUnknown, result.Complexity)
		})
	}
}

func TestAnalyze_SyntaxErrorLocation(t *testing.T) {
	result := analyze(t, "x = 1\ny = (\n")

	require.Len(t, result.Issues, 1)
	assert.Regexp(t, `line \d+, column \d+`, result.Issues[0])
}

func TestAnalyze_Counts(t *testing.T) {
	code := `class Greeter:
    def greet(self, name):
        def shout(text):
            return text.upper()
        return shout(name)


def main():
    g = Greeter()
    print(g.greet("world"))
`
	result := analyze(t, code)

	assert.Empty(t, result.Issues)
	assert.Equal(t, 3, result.FunctionCount, "nested functions are counted")
	assert.Equal(t, 1, result.ClassCount)
	assert.Equal(t, strings.Count(code, "\n")+1, result.LineCount)
	assert.Equal(t, ComplexityLow, result.Complexity)
}

func TestAnalyze_AsyncFunctionsSkipped(t *testing.T) {
	code := `import asyncio


async def fetchData(url):
    await asyncio.sleep(1)
    return url


class Client:
    @staticmethod
    async def Close():
        pass

    def send(self, body):
        return body
`
	result := analyze(t, code)

	assert.Equal(t, 1, result.FunctionCount, "coroutines are not counted")
	assert.Equal(t, 1, result.ClassCount)
	assert.Empty(t, result.Issues, "coroutine names are not checked")
}

func TestAnalyze_LineCount(t *testing.T) {
	assert.Equal(t, 1, analyze(t, "").LineCount)
	assert.Equal(t, 1, analyze(t, "x = 1").LineCount)
	assert.Equal(t, 2, analyze(t, "x = 1\n").LineCount)
	assert.Equal(t, 3, analyze(t, "x = 1\ny = 2\n").LineCount)
}

func TestAnalyze_BareExcept(t *testing.T) {
	withBare := "try:\n    run()\nexcept:\n    pass\n"
	withTyped := "try:\n    run()\nexcept ValueError as err:\n    print(err)\n"

	assert.Contains(t, analyze(t, withBare).Issues, IssueBareExcept)
	assert.NotContains(t, analyze(t, withTyped).Issues, IssueBareExcept)
}

func TestAnalyze_MutableDefault(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"def add(item, items=[]):\n    return items\n", true},
		{"def add(item, opts={}):\n    return opts\n", true},
		{"def add(item, pair=()):\n    return pair\n", true},
		{"def add(item, items=None):\n    return items\n", false},
	}

	for _, tt := range tests {
		issues := analyze(t, tt.code).Issues
		if tt.want {
			assert.Contains(t, issues, IssueMutableDefault, tt.code)
		} else {
			assert.NotContains(t, issues, IssueMutableDefault, tt.code)
		}
	}
}

func TestAnalyze_Globals(t *testing.T) {
	three := "a = 1\nb = 2\nc = 3\n"
	four := "a = 1\nb = 2\nc = 3\nd = 4\n"

	assert.NotContains(t, analyze(t, three).Issues, IssueGlobals)
	assert.Contains(t, analyze(t, four).Issues, IssueGlobals)
}

func TestCountAssignmentLines(t *testing.T) {
	code := "def f(a=1):\n    b = 2\n    if b == 2:\n        return b\nclass C:\n    x = 1\n"

	// def and class lines are skipped; indented lines and comparisons count.
	assert.Equal(t, 3, countAssignmentLines(code))
}

func TestAnalyze_Naming(t *testing.T) {
	code := `MAX_SIZE = 10
myValue = 1
good_value = 2


def doThing():
    return 1


class bad_name:
    pass


class GoodName:
    pass
`
	result := analyze(t, code)

	assert.Equal(t, []string{
		"Variable 'myValue' does not follow snake_case convention",
		"Function 'doThing' does not follow snake_case convention",
		"Class 'bad_name' does not follow CamelCase convention",
	}, result.Issues)
}

func TestAnalyze_NamingTargets(t *testing.T) {
	code := `for Idx, itemName in pairs:
    total += 1
with open(path) as fileHandle:
    pass
if (Found := search()):
    pass
obj.attrName = 1
`
	issues := analyze(t, code).Issues

	assert.Contains(t, issues, "Variable 'Idx' does not follow snake_case convention")
	assert.Contains(t, issues, "Variable 'itemName' does not follow snake_case convention")
	assert.Contains(t, issues, "Variable 'fileHandle' does not follow snake_case convention")
	assert.Contains(t, issues, "Variable 'Found' does not follow snake_case convention")
	for _, issue := range issues {
		assert.NotContains(t, issue, "attrName", "attribute targets are not checked")
		assert.NotContains(t, issue, "'total'")
	}
}

func TestAnalyze_ComplexityBuckets(t *testing.T) {
	branches := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteString("if ready:\n    go()\n")
		}
		return sb.String()
	}

	assert.Equal(t, ComplexityLow, analyze(t, branches(4)).Complexity)
	assert.Equal(t, ComplexityMedium, analyze(t, branches(5)).Complexity)
	assert.Equal(t, ComplexityMedium, analyze(t, branches(9)).Complexity)
	assert.Equal(t, ComplexityHigh, analyze(t, branches(10)).Complexity)
}

func TestAnalyze_ComplexityScoring(t *testing.T) {
	// if + elif + for + while + try = 5, plus two boolean operators = 7.
	code := `if a and b or c:
    pass
elif d:
    pass
for x in xs:
    while x:
        try:
            x = x - 1
        except ValueError:
            break
`
	result := analyze(t, code)
	require.NotEqual(t, ComplexityUnknown, result.Complexity)
	assert.Equal(t, ComplexityMedium, result.Complexity)
}

func TestBucket(t *testing.T) {
	assert.Equal(t, ComplexityLow, Bucket(0))
	assert.Equal(t, ComplexityLow, Bucket(4))
	assert.Equal(t, ComplexityMedium, Bucket(5))
	assert.Equal(t, ComplexityMedium, Bucket(9))
	assert.Equal(t, ComplexityHigh, Bucket(10))
}

func TestAnalyze_Concurrent(t *testing.T) {
	a := New(nil)
	code := "def add(a, b):\n    return a + b\n"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := a.Analyze(code)
			assert.Equal(t, 1, result.FunctionCount)
		}()
	}
	wg.Wait()
}
