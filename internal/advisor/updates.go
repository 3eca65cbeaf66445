package advisor

import (
	"fmt"
	"strings"

	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
	"github.com/go-tangra/go-tangra-advisor/internal/classify"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

// Updates returns the update-check view of the inventory: driver, tool,
// BIOS and Windows update records sorted most severe first. Ties keep the
// order GPU driver, GPU tools, CPU tools, BIOS, Windows.
func (b *Builder) Updates(inv *collector.Inventory) []Recommendation {
	if inv == nil {
		return nil
	}
	var out []Recommendation
	for _, fn := range []func(*collector.Inventory) (Recommendation, bool){
		b.gpuDriverUpdate,
		b.gpuToolsUpdate,
		b.cpuToolsUpdate,
		b.biosUpdate,
		b.windowsComponent,
	} {
		if rec, ok := fn(inv); ok {
			out = append(out, rec)
		}
	}
	version.SortBySeverity(out, func(r Recommendation) version.Priority { return r.Priority })
	return out
}

func (b *Builder) gpuDriverUpdate(inv *collector.Inventory) (Recommendation, bool) {
	if inv.GPU.Name == "" {
		return Recommendation{}, false
	}
	id := classify.GPU(inv.GPU.Name)
	entry, ok := b.catalog.Entry(catalog.GPU, id)
	if !ok || !entry.HasLatest() {
		return Recommendation{}, false
	}

	priority := version.ComparePriority(inv.GPU.DriverVersion, entry.LatestDriverVersion)
	desc := "Your GPU driver is up to date!"
	if priority != version.UpToDate {
		desc = fmt.Sprintf("A newer %s driver is available. Update for better performance and bug fixes.", id.Label())
	}
	return Recommendation{
		Category:     CategoryGPU,
		Component:    id.Label() + " Graphics Driver",
		CurrentValue: orUnknown(inv.GPU.DriverVersion),
		LatestValue:  entry.LatestDriverVersion,
		Priority:     priority,
		Description:  desc,
		ActionText:   "Update Driver",
		ActionURL:    entry.DriverURL,
		Instructions: strings.Join(entry.Instructions, "\n"),
	}, true
}

func (b *Builder) gpuToolsUpdate(inv *collector.Inventory) (Recommendation, bool) {
	if inv.GPU.Manufacturer == "" {
		return Recommendation{}, false
	}
	entry, ok := b.catalog.Entry(catalog.GPU, classify.GPU(inv.GPU.Name))
	if !ok || entry.MonitoringTool.IsZero() {
		return Recommendation{}, false
	}

	tool := entry.MonitoringTool
	return Recommendation{
		Category:     CategoryGPU,
		Component:    "GPU Monitoring & Overclocking",
		CurrentValue: "Recommendation",
		LatestValue:  tool.Name,
		Priority:     version.Low,
		Description:  tool.Description,
		ActionText:   "Open Tool Page",
		ActionURL:    tool.URL,
		Instructions: "Features:\n" + featureLines(tool.Features) + "\n\nOpen the tool page to download and install.",
	}, true
}

func (b *Builder) cpuToolsUpdate(inv *collector.Inventory) (Recommendation, bool) {
	if inv.CPU.Manufacturer == "" && inv.CPU.Name == "" {
		return Recommendation{}, false
	}
	entry, ok := b.catalog.Entry(catalog.CPU, cpuID(inv.CPU))
	if !ok || entry.MonitoringTool.IsZero() {
		return Recommendation{}, false
	}

	tool := entry.MonitoringTool
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommended: %s\n\n%s\n\nFeatures:\n%s", tool.Name, tool.Description, featureLines(tool.Features))
	if oc := entry.OverclockingTool; !oc.IsZero() {
		fmt.Fprintf(&sb, "\n\n─────────────────\nOverclocking Tool: %s\n%s\n\nURL: %s", oc.Name, oc.Description, oc.URL)
		if len(oc.Warnings) > 0 {
			sb.WriteString("\n\n" + warningLines(oc.Warnings))
		}
	}

	return Recommendation{
		Category:     CategoryCPU,
		Component:    "CPU Monitoring & Temperature",
		CurrentValue: orUnknown(inv.CPU.Name),
		LatestValue:  tool.Name,
		Priority:     version.Low,
		Description:  "Monitor your CPU temperature and performance with recommended tools.",
		ActionText:   "Open Tool Page",
		ActionURL:    tool.URL,
		Instructions: sb.String(),
	}, true
}

func (b *Builder) biosUpdate(inv *collector.Inventory) (Recommendation, bool) {
	rec, ok := b.motherboardComponent(inv)
	if !ok {
		return Recommendation{}, false
	}
	rec.Component = "BIOS/UEFI Update"
	return rec, true
}
