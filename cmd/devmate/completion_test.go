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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionScript(t *testing.T) {
	commands := []string{"chat", "ask", "task", "generate", "analyze", "extract", "models", "providers", "completion"}

	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			script, ok := completionScript(shell)
			assert.True(t, ok)
			for _, cmd := range commands {
				assert.Contains(t, script, cmd)
			}
			assert.Contains(t, script, "metrics-addr")
			assert.Contains(t, script, "docstrings")
		})
	}

	bash, _ := completionScript("bash")
	assert.Contains(t, bash, "complete -F _devmate_completion devmate")
	zsh, _ := completionScript("zsh")
	assert.Contains(t, zsh, "#compdef devmate")

	_, ok := completionScript("powershell")
	assert.False(t, ok)
}
