// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

// Package slug derives ASCII URL slugs from post titles, so that
// "Séance Zéro!" becomes "seance-zero".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD and drops the combining marks, turning
// accented letters into their base ASCII forms.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// From converts a Unicode title into a lowercase hyphenated slug.
// Runs of anything that is not a letter or digit collapse into a single
// hyphen, and leading or trailing hyphens are trimmed.
func From(title string) string {
	flattened, _, err := transform.String(stripAccents, title)
	if err != nil {
		flattened = title
	}
	flattened = strings.ToLower(flattened)

	var builder strings.Builder
	builder.Grow(len(flattened))

	pendingHyphen := false
	for _, r := range flattened {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}
