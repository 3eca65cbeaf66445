package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

// Format is an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// SupportedFormats lists the accepted format names.
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// ParseFormat validates a format name. Empty selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown output format %q (supported: %s)", s, strings.Join(SupportedFormats(), ", ")))
	}
}

// Writer renders reports in one format.
type Writer struct {
	format Format
	out    io.Writer
	color  bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithColor enables or disables ANSI colors in text output.
func WithColor(enabled bool) WriterOption {
	return func(w *Writer) { w.color = enabled }
}

// NewWriter creates a Writer. Colors default to on, subject to the terminal
// detection done by fatih/color.
func NewWriter(format Format, out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{format: format, out: out, color: !color.NoColor}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders r.
func (w *Writer) Write(r *Report) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.writeTable(r)
	default:
		return w.writeText(r)
	}
}

// WriteSummary writes only the plain system report.
func (w *Writer) WriteSummary(r *Report) error {
	_, err := io.WriteString(w.out, SystemSummary(r.Inventory))
	return err
}

func (w *Writer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if w.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (w *Writer) priorityColor(p version.Priority) *color.Color {
	switch p {
	case version.Critical:
		return w.paint(color.FgRed, color.Bold)
	case version.High:
		return w.paint(color.FgRed)
	case version.Medium:
		return w.paint(color.FgYellow)
	case version.Low:
		return w.paint(color.FgCyan)
	default:
		return w.paint(color.FgGreen)
	}
}

func (w *Writer) writeText(r *Report) error {
	head := w.paint(color.Bold)
	dim := w.paint(color.Faint)

	var sb strings.Builder
	head.Fprintf(&sb, "Host %s  scanned %s\n", r.Hostname, r.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	if inv := r.Inventory; inv != nil {
		free, capacity := StorageTotals(inv.Drives)
		fmt.Fprintf(&sb, "  CPU      %s (%d cores / %d threads)\n", Truncate(inv.CPU.Name, 40), inv.CPU.Cores, inv.CPU.Threads)
		fmt.Fprintf(&sb, "  GPU      %s (driver %s)\n", Truncate(inv.GPU.Name, 40), Truncate(inv.GPU.DriverVersion, 40))
		fmt.Fprintf(&sb, "  RAM      %d GB\n", inv.RAMTotalGB)
		fmt.Fprintf(&sb, "  Storage  %d GB free of %d GB\n", free, capacity)
	}

	writeRecs := func(title string, recs []advisor.Recommendation) {
		sb.WriteString("\n")
		head.Fprintln(&sb, title)
		if len(recs) == 0 {
			dim.Fprintln(&sb, "  nothing to report")
			return
		}
		for _, rec := range recs {
			w.priorityColor(rec.Priority).Fprintf(&sb, "  [%s] ", rec.Priority)
			head.Fprintf(&sb, "%s", rec.Component)
			fmt.Fprintf(&sb, "  %s", rec.CurrentValue)
			if rec.LatestValue != "" {
				fmt.Fprintf(&sb, " -> %s", rec.LatestValue)
			}
			sb.WriteString("\n")
			for _, line := range strings.Split(rec.Description, "\n") {
				fmt.Fprintf(&sb, "      %s\n", line)
			}
			if rec.ActionURL != "" {
				dim.Fprintf(&sb, "      %s: %s\n", rec.ActionText, rec.ActionURL)
			}
		}
	}
	writeRecs("Components", r.Components)
	writeRecs("Updates", r.Updates)

	if len(r.Warnings) > 0 {
		sb.WriteString("\n")
		warn := w.paint(color.FgYellow)
		for _, msg := range r.Warnings {
			warn.Fprintf(&sb, "warning: %s\n", msg)
		}
	}

	_, err := io.WriteString(w.out, sb.String())
	return err
}

func (w *Writer) writeTable(r *Report) error {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VIEW\tCATEGORY\tCOMPONENT\tCURRENT\tLATEST\tPRIORITY\tACTION")
	rows := func(view string, recs []advisor.Recommendation) {
		for _, rec := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				view, rec.Category, rec.Component, rec.CurrentValue, dash(rec.LatestValue), rec.Priority, dash(rec.ActionURL))
		}
	}
	rows("component", r.Components)
	rows("update", r.Updates)
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
