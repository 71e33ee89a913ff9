// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Make makes a short request ID: a HHMMSS timestamp followed by 3 bytes of entropy.
//
// IDs are only used to correlate log lines and saved response bodies, so
// uniqueness across a single run of the shell is all that matters.
func Make() string {
	return MakeAt(time.Now())
}

// MakeAt is Make with an explicit clock reading.
func MakeAt(t time.Time) string {
	entropy := [3]byte{'s', 'e', 'p'}

	_, _ = rand.Read(entropy[:])

	return stamp(t) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

func stamp(t time.Time) string {
	return t.Format("150405")
}
