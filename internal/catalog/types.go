package catalog

import "github.com/go-tangra/go-tangra-advisor/internal/classify"

// Category is a top-level section of the catalog document.
type Category string

const (
	GPU         Category = "gpu"
	CPU         Category = "cpu"
	Motherboard Category = "motherboard"
	Windows     Category = "windows"
)

// Categories lists the sections in document order.
var Categories = []Category{GPU, CPU, Motherboard, Windows}

// Tool describes a monitoring or overclocking utility.
type Tool struct {
	Name        string   `json:"name" yaml:"name"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty"`
	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// IsZero reports whether the tool carries no name. A nil tool is zero.
func (t *Tool) IsZero() bool {
	return t == nil || t.Name == ""
}

// Entry is the catalog record for one manufacturer in one category. Empty
// strings and nil tools mean "not provided".
type Entry struct {
	LatestDriverVersion string   `json:"latestDriverVersion,omitempty" yaml:"latestDriverVersion,omitempty"`
	DriverURL           string   `json:"driverUrl,omitempty" yaml:"driverUrl,omitempty"`
	BIOSURL             string   `json:"biosUrl,omitempty" yaml:"biosUrl,omitempty"`
	UpdateURL           string   `json:"updateUrl,omitempty" yaml:"updateUrl,omitempty"`
	Instructions        []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	MonitoringTool      *Tool    `json:"monitoringTools,omitempty" yaml:"monitoringTools,omitempty"`
	OverclockingTool    *Tool    `json:"overclockingTools,omitempty" yaml:"overclockingTools,omitempty"`
}

// HasLatest reports whether a latest driver version is known.
func (e Entry) HasLatest() bool { return e.LatestDriverVersion != "" }

// ActionURL returns the first download/update link the entry provides.
func (e Entry) ActionURL() string {
	switch {
	case e.DriverURL != "":
		return e.DriverURL
	case e.BIOSURL != "":
		return e.BIOSURL
	default:
		return e.UpdateURL
	}
}

// Document is the decoded catalog keyed by category and manufacturer id.
type Document map[Category]map[classify.ID]Entry
