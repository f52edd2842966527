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
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDefaultSystemPrompt(t *testing.T) {
	assert.Equal(t, DefaultSystemPrompt, orDefaultSystemPrompt(""))
	assert.True(t, strings.HasPrefix(DefaultSystemPrompt, "\n            You are an AI programming assistant."))
	assert.True(t, strings.HasSuffix(DefaultSystemPrompt, "Python programming best practices.\n            "))
	assert.Equal(t, "be brief", orDefaultSystemPrompt("be brief"))
}

func TestTranscript(t *testing.T) {
	msgs := Transcript("q1", "a1", "q2")
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Role: RoleUser, Content: "q1"}, msgs[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "a1"}, msgs[1])
	assert.Equal(t, RoleUser, msgs[2].Role)
	assert.Empty(t, Transcript())
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("GROK_API_KEY", "xai-test")
	t.Setenv("GROK_MODEL", "grok-2")

	c, err := NewClientFromEnv("grok", "")
	require.NoError(t, err)
	assert.Equal(t, "grok", c.Name())
	assert.Equal(t, "grok-2", c.Model())

	t.Setenv("GROK_API_KEY", "")
	_, err = NewClientFromEnv("grok", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROK_API_KEY")
}

// requestCount reads devmate_llm_requests_total for one label pair.
func requestCount(t *testing.T, provider, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "devmate_llm_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["provider"] == provider && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestRequestMetrics(t *testing.T) {
	ok, _ := fakeVendor(t, http.StatusOK, `{"choices":[{"message":{"content":"hi"}}]}`)
	bad, _ := fakeVendor(t, http.StatusInternalServerError, `{"error":"down"}`)

	beforeOK := requestCount(t, "deepseek", outcomeOK)
	beforeStatus := requestCount(t, "deepseek", KindStatus.String())

	reply := newTestClient(t, "deepseek", ok.URL).GenerateResponse(context.Background(), "p", "", 0)
	assert.Equal(t, "hi", reply)
	reply = newTestClient(t, "deepseek", bad.URL).GenerateResponse(context.Background(), "p", "", 0)
	assert.True(t, IsErrorReply(reply))

	assert.Equal(t, beforeOK+1, requestCount(t, "deepseek", outcomeOK))
	assert.Equal(t, beforeStatus+1, requestCount(t, "deepseek", KindStatus.String()))
}
