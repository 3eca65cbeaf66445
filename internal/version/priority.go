package version

import (
	"fmt"
	"sort"
	"strings"
)

// Priority is the urgency tier of a recommendation. Higher values are more
// severe; declaration order is not used for sorting anywhere.
type Priority int

const (
	UpToDate Priority = iota
	Low
	Medium
	High
	Critical
)

var priorityNames = map[Priority]string{
	UpToDate: "UpToDate",
	Low:      "Low",
	Medium:   "Medium",
	High:     "High",
	Critical: "Critical",
}

func (p Priority) String() string {
	if s, ok := priorityNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Severity returns the ordinal used for sorting, most severe highest.
func (p Priority) Severity() int { return int(p) }

// MarshalText encodes the priority by name for JSON and YAML output.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name, case-insensitively.
func (p *Priority) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	for k, v := range priorityNames {
		if strings.EqualFold(v, s) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", s)
}

// SortBySeverity stably sorts items so the most severe come first. Ties keep
// their input order.
func SortBySeverity[T any](items []T, priority func(T) Priority) {
	sort.SliceStable(items, func(i, j int) bool {
		return priority(items[i]).Severity() > priority(items[j]).Severity()
	})
}
