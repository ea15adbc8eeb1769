// Package coerce provides total conversions from arbitrary decoded JSON
// values into numbers and string slices. Every function here is pure,
// never panics, and returns a defined fallback instead of an error, so
// downstream arithmetic and iteration never see a nil or NaN.
package coerce

import (
	"fmt"
	"math"
	"strconv"
)

// SafeNumber converts v into a finite float64. Numeric values pass through
// unchanged. Anything else is stringified (nil becomes "0"), stripped of
// every character that is not a digit, a dot, or a minus sign, and the
// longest valid leading number of the remainder is parsed. Any failure,
// NaN, or infinity yields 0.
func SafeNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return SafeNumber(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	s := stringify(v)
	stripped := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			stripped = append(stripped, c)
		}
	}

	n, err := strconv.ParseFloat(numericPrefix(string(stripped)), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// SafeArray returns the string elements of v in order when v is a slice,
// and an empty slice otherwise. Non-string elements are dropped, not
// substituted.
func SafeArray(v any) []string {
	seq, ok := v.([]any)
	if !ok {
		if ss, ok := v.([]string); ok {
			out := make([]string, len(ss))
			copy(out, ss)
			return out
		}
		return []string{}
	}
	out := make([]string, 0, len(seq))
	for _, el := range seq {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return "0"
	case string:
		if s == "" {
			return "0"
		}
		return s
	case bool:
		if !s {
			return "0"
		}
		return "true"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// numericPrefix returns the longest leading substring of s that forms a
// valid decimal number: an optional minus sign, digits, and at most one
// dot. This mirrors parseFloat-style prefix parsing so inputs like
// "12.5.3" or "1-2" still resolve to a number.
func numericPrefix(s string) string {
	end := 0
	seenDot := false
	seenDigit := false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '-' && i == 0:
			end = i + 1
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case c == '.' && !seenDot:
			seenDot = true
			end = i + 1
		default:
			break scan
		}
	}
	prefix := s[:end]
	if !seenDigit {
		return ""
	}
	// Trailing dot is fine for ParseFloat ("12." parses), a lone "-" is not.
	if prefix == "-" || prefix == "-." {
		return ""
	}
	return prefix
}
