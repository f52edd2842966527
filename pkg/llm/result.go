// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// ErrorPrefix starts every rendered request failure.
const ErrorPrefix = "I encountered an error: "

// maxBodyInReply bounds how much of a failed response body is echoed back.
const maxBodyInReply = 2000

// ErrorKind classifies a request failure.
type ErrorKind int

const (
	// KindRequest means the request could not be built.
	KindRequest ErrorKind = iota
	// KindNetwork covers connection failures, timeouts and cancellation.
	KindNetwork
	// KindStatus means the vendor answered with a non-2xx status.
	KindStatus
	// KindDecode means the body did not have the expected shape.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// RequestError is the typed form of a failed generation call.
type RequestError struct {
	Provider   string // display name, e.g. "Hugging Face"
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

// Detail describes the underlying failure without the provider prefix.
func (e *RequestError) Detail() string {
	switch e.Kind {
	case KindStatus:
		class := "Client Error"
		if e.StatusCode >= 500 {
			class = "Server Error"
		}
		return fmt.Sprintf("%d %s: %s", e.StatusCode, class, http.StatusText(e.StatusCode))
	case KindDecode:
		return fmt.Sprintf("unexpected response format: %v", e.Err)
	default:
		if e.Err == nil {
			return e.Kind.String() + " error"
		}
		return e.Err.Error()
	}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Error when calling %s API: %s", e.Provider, e.Detail())
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsAuth reports whether the vendor rejected the credentials.
func (e *RequestError) IsAuth() bool {
	return e.Kind == KindStatus && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Timeout reports whether the request ran out of time.
func (e *RequestError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Result is the outcome of a generation call: either Text or Err is set.
type Result struct {
	Text string
	Err  *RequestError
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == nil }

// String renders the result for the text channel. Failures become a
// readable message that starts with ErrorPrefix.
func (r Result) String() string {
	if r.Err == nil {
		return r.Text
	}
	msg := ErrorPrefix + r.Err.Error() + ". Please check your API key and network connection."
	if body := strings.TrimSpace(r.Err.Body); body != "" {
		if len(body) > maxBodyInReply {
			body = truncateUTF8(body, maxBodyInReply) + "..."
		}
		msg += "\n\nAPI response: " + body
	}
	return msg
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// IsErrorReply reports whether text is a rendered request failure.
func IsErrorReply(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

// unwrapURLError drops the *url.Error wrapper, whose message repeats the
// request URL. Gemini carries the API key in that URL.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
