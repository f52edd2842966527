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

// Package ui holds the colour helpers shared by the devmate commands.
//
// Output respects --no-color and the NO_COLOR environment variable, and
// fatih/color turns colours off by itself when stdout is not a TTY.
//
// Colour usage:
//   - Red: request failures, high complexity
//   - Yellow: warnings, medium complexity
//   - Green: success, low complexity
//   - Cyan: counts and informational messages
//   - Bold: labels and headers
//   - Dim: paths, identifiers and other secondary details
package ui

import (
	"github.com/fatih/color"

	"github.com/kraklabs/devmate/pkg/analyzer"
)

var (
	Red    = color.New(color.FgRed)
	Yellow = color.New(color.FgYellow)
	Green  = color.New(color.FgGreen)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
	Dim    = color.New(color.Faint)
)

// InitColors disables colour output when noColor is set. It never turns
// colours back on, so a non-TTY stdout stays plain.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// ColorDisabled reports whether colour output is off.
func ColorDisabled() bool {
	return color.NoColor
}

// Successf prints a formatted green message with a checkmark prefix.
//
// Example output: "✓ Code saved to /tmp/generated_code.py"
func Successf(format string, args ...any) {
	_, _ = Green.Printf("✓ "+format+"\n", args...)
}

// Warning prints a yellow message with a warning symbol prefix.
func Warning(msg string) {
	_, _ = Yellow.Println("⚠ " + msg)
}

// Errorf prints a formatted red message with an X prefix.
func Errorf(format string, args ...any) {
	_, _ = Red.Printf("✗ "+format+"\n", args...)
}

// Label returns text in bold for inline use.
//
// Example: fmt.Printf("%s %s\n", ui.Label("Provider:"), name)
func Label(text string) string {
	return Bold.Sprint(text)
}

// DimText returns text in the faint style.
func DimText(text string) string {
	return Dim.Sprint(text)
}

// CountText returns a cyan count for statistics lines.
func CountText(count int) string {
	return Cyan.Sprint(count)
}

// ComplexityText colours an analyzer complexity level.
func ComplexityText(level string) string {
	switch level {
	case analyzer.ComplexityLow:
		return Green.Sprint(level)
	case analyzer.ComplexityMedium:
		return Yellow.Sprint(level)
	case analyzer.ComplexityHigh:
		return Red.Sprint(level)
	default:
		return Dim.Sprint(level)
	}
}
