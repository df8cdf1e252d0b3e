package draft

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseFunc coerces the text of a numeric field. ok is false for the
// not-a-number state.
type ParseFunc func(s string) (n int, ok bool)

// ParseLenient accepts the longest leading integer: surrounding text after the
// digits is ignored, so "10kg" parses as 10 and "12.5" as 12. Leading
// whitespace and a single sign are allowed.
func ParseLenient(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseStrict accepts only a complete base-10 integer, ignoring surrounding
// whitespace.
func ParseStrict(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Parser returns ParseStrict when strict is set, ParseLenient otherwise.
func Parser(strict bool) ParseFunc {
	if strict {
		return ParseStrict
	}
	return ParseLenient
}
