// Package version compares dotted driver version strings and defines the
// priority tiers attached to recommendations.
package version

import (
	"strconv"
	"strings"
	"unicode"
)

// ComparePriority compares an installed version against the latest known
// one. Only the first two numeric segments are considered; patch and build
// segments are ignored.
//
// An empty version, or one with no digits at all, cannot be judged and
// yields Medium.
func ComparePriority(current, latest string) Priority {
	cur, ok := parse(current)
	if !ok {
		return Medium
	}
	lat, ok := parse(latest)
	if !ok {
		return Medium
	}

	if cur[0] < lat[0] {
		return High
	}
	if cur[0] == lat[0] && len(cur) > 1 && len(lat) > 1 && cur[1] < lat[1] {
		return Medium
	}
	return UpToDate
}

// parse splits v on '.' and keeps the digits of every segment. Segments
// without digits (or too large for an int) count as 0.
func parse(v string) ([]int, bool) {
	v = strings.TrimSpace(v)
	if v == "" || !strings.ContainsFunc(v, unicode.IsDigit) {
		return nil, false
	}

	segs := strings.Split(v, ".")
	out := make([]int, len(segs))
	for i, s := range segs {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, s)
		n, err := strconv.Atoi(digits)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out, true
}
