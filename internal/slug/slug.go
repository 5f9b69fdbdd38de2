// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision resolution against an existing record set.
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespaceRun matches one or more consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxProbes bounds the collision counter. Past this many taken suffixes the
// generator falls back to a random suffix so it always terminates.
const maxProbes = 5000

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// TakenFunc reports whether a candidate slug is already in use. The caller
// is expected to exclude the record being saved from the check.
type TakenFunc func(candidate string) (bool, error)

// Unique resolves base against existing slugs: it returns base itself when
// free, otherwise base-1, base-2, … at the first unused counter value. An
// empty base is a valid input and is disambiguated the same way ("", "-1",
// "-2", …). If maxProbes counters are all taken, a random hex suffix is
// appended instead of probing forever.
func Unique(base string, taken TakenFunc) (string, error) {
	candidate := base
	for i := 1; i <= maxProbes; i++ {
		inUse, err := taken(candidate)
		if err != nil {
			return "", fmt.Errorf("slug probe %q: %w", candidate, err)
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("slug random suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s", base, hex.EncodeToString(suffix)), nil
}
