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

package llm

import (
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultString_TruncatesBodyOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "two-byte rune straddles the limit",
			body: "a" + strings.Repeat("é", maxBodyInReply),
			want: "a" + strings.Repeat("é", (maxBodyInReply-1)/2) + "...",
		},
		{
			name: "four-byte rune straddles the limit",
			body: "ab" + strings.Repeat("😀", maxBodyInReply),
			want: "ab" + strings.Repeat("😀", (maxBodyInReply-2)/4) + "...",
		},
		{
			name: "ascii cut at the limit",
			body: strings.Repeat("x", maxBodyInReply+10),
			want: strings.Repeat("x", maxBodyInReply) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Result{Err: &RequestError{
				Provider:   "OpenAI",
				Kind:       KindStatus,
				StatusCode: http.StatusBadRequest,
				Body:       tt.body,
			}}
			out := res.String()

			assert.True(t, utf8.ValidString(out), "reply must stay valid UTF-8")
			_, body, found := strings.Cut(out, "API response: ")
			require.True(t, found)
			assert.Equal(t, tt.want, body)
			assert.LessOrEqual(t, len(body), maxBodyInReply+len("..."))
		})
	}
}

func TestResultString_ShortBodyKept(t *testing.T) {
	res := Result{Err: &RequestError{Provider: "OpenAI", Kind: KindStatus, StatusCode: http.StatusBadRequest, Body: "  ünïcode  "}}

	assert.True(t, strings.HasSuffix(res.String(), "API response: ünïcode"))
}
