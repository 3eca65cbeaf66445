// Package report assembles scan results into a renderable document and
// writes it as text, JSON, YAML or a table.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
)

// Report is the outcome of one scan.
type Report struct {
	ID         string                   `json:"id" yaml:"id"`
	Hostname   string                   `json:"hostname" yaml:"hostname"`
	ScannedAt  time.Time                `json:"scanned_at" yaml:"scanned_at"`
	Inventory  *collector.Inventory     `json:"inventory" yaml:"inventory"`
	Components []advisor.Recommendation `json:"components" yaml:"components"`
	Updates    []advisor.Recommendation `json:"updates" yaml:"updates"`
	Warnings   []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// New builds a report for inv using b.
func New(inv *collector.Inventory, b *advisor.Builder, warnings []string) *Report {
	r := &Report{
		ID:         uuid.NewString(),
		Inventory:  inv,
		Components: b.Components(inv),
		Updates:    b.Updates(inv),
		Warnings:   warnings,
	}
	if inv != nil {
		r.Hostname = inv.Hostname
		r.ScannedAt = inv.ScannedAt
	}
	return r
}
