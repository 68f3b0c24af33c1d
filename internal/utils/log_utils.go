// Package utils holds small helpers shared by the HTTP and service layers
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLogStringLength defines the maximum length, in runes, for user-provided strings in logs
const MaxLogStringLength = 120

const truncatedSuffix = "... (truncated)"

// SanitizeLogString makes a user-controlled string safe to log.
// Control characters become spaces (CRLF counts as one), fmt verbs are
// escaped and anything that is not a printable letter, digit, punctuation,
// symbol or space is dropped.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	input = strings.ReplaceAll(input, "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(input))

	runes := 0
	for _, r := range input {
		if runes == MaxLogStringLength {
			b.WriteString(truncatedSuffix)
			break
		}
		runes++

		switch {
		case r == utf8.RuneError:
			continue
		case unicode.IsControl(r):
			b.WriteByte(' ')
		case r == '%':
			b.WriteString("%%")
		case unicode.In(r, unicode.L, unicode.N, unicode.P, unicode.S, unicode.Z):
			b.WriteRune(r)
		}
	}

	return b.String()
}
