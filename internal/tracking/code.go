// Package tracking generates complaint tracking codes.
//
// A code is the complainant's only handle on their record, so it has to
// survive being read over the phone and copied by hand: fixed format,
// constant prefix, and an alphabet with no ambiguous glyphs (0/O, 1/I/L).
// Codes carry no information about the submission itself.
package tracking

import (
	"crypto/rand"
	"fmt"
)

const (
	// Prefix marks the string as a complaint code at a glance.
	Prefix = "COMP-"

	// suffixLen random characters over a 31-letter alphabet give ~2.7e12
	// combinations. Uniqueness is still enforced by the database; see
	// the retry loop in the submission handler.
	suffixLen = 8

	alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// maxUniform is the largest multiple of len(alphabet) that fits in a
// byte. Bytes at or above it are rejected so every letter is drawn with
// equal probability.
const maxUniform = 256 - 256%len(alphabet)

// GenerateCode returns a fresh tracking code, e.g. "COMP-K7N2PQ4X".
func GenerateCode() (string, error) {
	suffix := make([]byte, 0, suffixLen)
	raw := make([]byte, suffixLen)

	for len(suffix) < suffixLen {
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range raw {
			if int(b) >= maxUniform {
				continue
			}
			suffix = append(suffix, alphabet[int(b)%len(alphabet)])
			if len(suffix) == suffixLen {
				break
			}
		}
	}

	return Prefix + string(suffix), nil
}
