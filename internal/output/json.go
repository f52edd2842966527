// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package output writes the machine-readable form of devmate results.
//
// Every command that accepts --json goes through JSON, so replies, analysis
// reports and model listings share one layout:
//
//	result := ReplyResult{Provider: "claude", Reply: text}
//	if err := output.JSON(result); err != nil {
//	    errors.FatalError(err, true)
//	}
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes data to stdout, indented by two spaces.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data to w, indented by two spaces. HTML characters are kept
// as-is because replies routinely contain code with < and &.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}
