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

package assistant

import (
	"strings"

	"github.com/kraklabs/devmate/pkg/extract"
)

// GeneralCategory is used when the classification reply names no category.
const GeneralCategory = "General programming task"

// taskWordThreshold is the word count above which code-free text is treated
// as a task description.
const taskWordThreshold = 8

var taskIndicators = []string{
	"create a program", "write code", "make a script",
	"i need a program", "develop a", "build a",
	"automate", "how do i code", "how to program",
	"i want to", "can you make", "help me create",
}

type taskCategory struct {
	key   string
	label string
}

// taskCategories is matched in order against the classification reply.
var taskCategories = []taskCategory{
	{"file_operations", "Working with files (read/write/modify)"},
	{"data_processing", "Processing data (filtering/transforming/analyzing)"},
	{"web_interaction", "Web interactions (scraping/API calls/requests)"},
	{"ui_creation", "Creating user interfaces"},
	{"automation", "Automating tasks (scheduled jobs/repeated actions)"},
	{"calculation", "Performing calculations or data analysis"},
}

// IsTaskDescription reports whether text reads like a request to build a
// program rather than a question. It is a heuristic and will misfire on some
// inputs.
func IsTaskDescription(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range taskIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	if len(strings.Fields(text)) > taskWordThreshold {
		if _, ok := extract.ExtractCode(text); !ok {
			return true
		}
	}
	return false
}

// IsAnalysisRequest reports whether text asks for a review of included code.
func IsAnalysisRequest(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "analyze this code") || strings.Contains(lower, "review this code")
}

// matchCategory returns the label of the first category key found in reply.
func matchCategory(reply string) string {
	lower := strings.ToLower(reply)
	for _, c := range taskCategories {
		if strings.Contains(lower, c.key) {
			return c.label
		}
	}
	return GeneralCategory
}
