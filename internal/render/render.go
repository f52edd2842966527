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

// Package render turns assistant replies into terminal output: markdown
// through glamour, standalone code through chroma.
package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the word-wrap width when the terminal size is unknown.
const DefaultWidth = 100

// Renderer formats replies. The zero value is not usable; call New.
type Renderer struct {
	plain bool
	width int
	md    *glamour.TermRenderer
}

// New creates a Renderer. A plain renderer returns text unchanged.
func New(width int, plain bool) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	r := &Renderer{plain: plain, width: width}
	if !plain {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

// Width returns the wrap width.
func (r *Renderer) Width() int { return r.width }

// Markdown renders a reply. On any failure the original text is returned.
func (r *Renderer) Markdown(text string) string {
	if r.plain || r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

// Code highlights source in the given language.
func (r *Renderer) Code(code, language string) string {
	if r.plain {
		return code
	}
	return Highlight(code, language)
}

// Highlight applies terminal syntax highlighting. Unknown languages are
// guessed from the content.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
