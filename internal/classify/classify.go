// Package classify maps free-text device and manufacturer names to the
// manufacturer ids used as catalog keys.
package classify

import "strings"

// ID is a normalized manufacturer id.
type ID string

const (
	Unclassified ID = ""

	NVIDIA   ID = "nvidia"
	AMD      ID = "amd"
	Intel    ID = "intel"
	ASUS     ID = "asus"
	MSI      ID = "msi"
	Gigabyte ID = "gigabyte"
	ASRock   ID = "asrock"

	// Default is the catalog fallback key used for motherboards that match
	// no specific vendor.
	Default ID = "default"
)

// Rule maps any of its markers to an id.
type Rule struct {
	Markers []string
	ID      ID
}

// Table is an ordered list of rules. The first rule with a marker contained
// in the lower-cased input wins.
type Table []Rule

// Match returns the id of the first matching rule or Unclassified.
func (t Table) Match(raw string) ID {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unclassified
	}
	for _, r := range t {
		for _, m := range r.Markers {
			if strings.Contains(s, m) {
				return r.ID
			}
		}
	}
	return Unclassified
}

// Rule order is significant: NVIDIA markers are tested before AMD, AMD
// before Intel.
var (
	GPUTable = Table{
		{Markers: []string{"nvidia", "geforce", "gtx", "rtx"}, ID: NVIDIA},
		{Markers: []string{"amd", "radeon"}, ID: AMD},
		{Markers: []string{"intel"}, ID: Intel},
	}

	CPUTable = Table{
		{Markers: []string{"intel"}, ID: Intel},
		{Markers: []string{"amd"}, ID: AMD},
	}

	BoardTable = Table{
		{Markers: []string{"asus"}, ID: ASUS},
		{Markers: []string{"msi", "micro-star"}, ID: MSI},
		{Markers: []string{"gigabyte"}, ID: Gigabyte},
		{Markers: []string{"asrock"}, ID: ASRock},
	}
)

// GPU classifies a graphics adapter name.
func GPU(name string) ID { return GPUTable.Match(name) }

// CPU classifies a processor manufacturer string such as "GenuineIntel".
func CPU(manufacturer string) ID { return CPUTable.Match(manufacturer) }

// Board classifies a motherboard manufacturer. Unknown boards resolve to
// Default so the catalog's generic entry applies.
func Board(manufacturer string) ID {
	if id := BoardTable.Match(manufacturer); id != Unclassified {
		return id
	}
	return Default
}

// String returns the id, or "unclassified".
func (id ID) String() string {
	if id == Unclassified {
		return "unclassified"
	}
	return string(id)
}

// Label returns the upper-cased id for display, e.g. "NVIDIA".
func (id ID) Label() string {
	return strings.ToUpper(id.String())
}
