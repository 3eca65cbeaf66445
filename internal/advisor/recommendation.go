// Package advisor turns an inventory snapshot and the manufacturer catalog
// into recommendation records.
package advisor

import (
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

// Category groups recommendations by hardware area.
type Category string

const (
	CategoryGPU         Category = "gpu"
	CategoryCPU         Category = "cpu"
	CategoryStorage     Category = "storage"
	CategoryMotherboard Category = "motherboard"
	CategoryWindows     Category = "windows"
)

// Recommendation is one derived suggestion for one hardware area. Empty
// strings mean "not provided".
type Recommendation struct {
	Category     Category         `json:"category" yaml:"category"`
	Component    string           `json:"component" yaml:"component"`
	CurrentValue string           `json:"current_value" yaml:"current_value"`
	LatestValue  string           `json:"latest_value,omitempty" yaml:"latest_value,omitempty"`
	Priority     version.Priority `json:"priority" yaml:"priority"`
	Description  string           `json:"description" yaml:"description"`
	ActionText   string           `json:"action_text,omitempty" yaml:"action_text,omitempty"`
	ActionURL    string           `json:"action_url,omitempty" yaml:"action_url,omitempty"`
	Instructions string           `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	ExtraInfo    string           `json:"extra_info,omitempty" yaml:"extra_info,omitempty"`
}

// Actionable reports whether the record links somewhere.
func (r Recommendation) Actionable() bool { return r.ActionURL != "" }
