package variant

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseNumber reads the longest numeric prefix of raw. Input that has no
// numeric prefix, such as "", "." or "abc", reads as 0 so that a field can
// be edited one keystroke at a time.
func ParseNumber(raw string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseInt reads the leading integer of raw, 0 when there is none.
func ParseInt(raw string) int {
	m := intPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	i, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return i
}
