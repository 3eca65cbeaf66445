package advisor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
	"github.com/go-tangra/go-tangra-advisor/internal/classify"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

// Fallback destinations used when the catalog has nothing better.
var (
	defaultGPUURLs = map[classify.ID]string{
		classify.NVIDIA:       "https://www.nvidia.com/Download/index.aspx",
		classify.AMD:          "https://www.amd.com/en/support",
		classify.Intel:        "https://www.intel.com/content/www/us/en/download-center/home.html",
		classify.Unclassified: "https://support.microsoft.com/windows/update-drivers-manually-in-windows",
	}
	defaultCPUURL     = "https://www.hwinfo.com/download/"
	storageSettingURL = "ms-settings:storagesense"
)

// StorageWarnPercent is the used-space level above which a drive is flagged.
const StorageWarnPercent = 90

const storageTip = "💡 Keep at least 10-15% of every drive free; Windows and games slow down on nearly full disks."

// Builder produces recommendations. It is safe for concurrent use; the
// catalog is read-only.
type Builder struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithCatalog sets the catalog consulted for every lookup. A nil catalog
// behaves like an empty one.
func WithCatalog(c *catalog.Catalog) Option {
	return func(b *Builder) { b.catalog = c }
}

// WithClock sets the reference clock used for driver age.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder with an empty catalog and the system clock.
func New(opts ...Option) *Builder {
	b := &Builder{
		catalog: catalog.Empty(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Catalog returns the catalog the builder reads.
func (b *Builder) Catalog() *catalog.Catalog { return b.catalog }

// Components returns one record per relevant hardware area in the fixed
// order GPU, CPU, Storage, Motherboard, Windows. Areas with nothing to say
// are omitted.
func (b *Builder) Components(inv *collector.Inventory) []Recommendation {
	if inv == nil {
		return nil
	}
	var out []Recommendation
	for _, fn := range []func(*collector.Inventory) (Recommendation, bool){
		b.gpuComponent,
		b.cpuComponent,
		storageComponent,
		b.motherboardComponent,
		b.windowsComponent,
	} {
		if rec, ok := fn(inv); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (b *Builder) gpuComponent(inv *collector.Inventory) (Recommendation, bool) {
	gpu := inv.GPU
	if gpu.Name == "" {
		return Recommendation{}, false
	}

	id := classify.GPU(gpu.Name)
	entry, hasEntry := b.catalog.Entry(catalog.GPU, id)

	current := orUnknown(gpu.DriverVersion)
	rec := Recommendation{
		Category:     CategoryGPU,
		Component:    gpu.Name,
		CurrentValue: current,
		Priority:     version.Low,
		ActionText:   "Update Driver",
		ActionURL:    defaultGPUURLs[id],
	}

	lines := []string{fmt.Sprintf("Current driver: %s (%s)", current, driverAge(gpu.DriverDate, b.now()))}
	if hasEntry {
		if entry.HasLatest() {
			rec.LatestValue = entry.LatestDriverVersion
			rec.Priority = version.ComparePriority(gpu.DriverVersion, entry.LatestDriverVersion)
			if rec.Priority == version.UpToDate {
				lines = append(lines, "✅ Your driver is up to date")
			} else {
				lines = append(lines, "⬆️ Latest known driver: "+entry.LatestDriverVersion)
			}
		}
		if !entry.MonitoringTool.IsZero() {
			lines = append(lines, "📊 Recommended monitoring: "+entry.MonitoringTool.Name)
			rec.ExtraInfo = entry.MonitoringTool.Description
		}
		if entry.DriverURL != "" {
			rec.ActionURL = entry.DriverURL
		}
		rec.Instructions = strings.Join(entry.Instructions, "\n")
	}
	rec.Description = strings.Join(lines, "\n")
	return rec, true
}

func (b *Builder) cpuComponent(inv *collector.Inventory) (Recommendation, bool) {
	cpu := inv.CPU
	if cpu.Name == "" {
		return Recommendation{}, false
	}

	rec := Recommendation{
		Category:     CategoryCPU,
		Component:    cpu.Name,
		CurrentValue: fmt.Sprintf("%d cores / %d threads", cpu.Cores, cpu.Threads),
		Priority:     version.Low,
		ActionText:   "Get Monitoring Tool",
		ActionURL:    defaultCPUURL,
	}

	lines := []string{fmt.Sprintf("%d cores, %d threads", cpu.Cores, cpu.Threads)}
	if entry, ok := b.catalog.Entry(catalog.CPU, cpuID(cpu)); ok {
		if t := entry.MonitoringTool; !t.IsZero() {
			lines = append(lines, "📊 Monitoring: "+t.Name)
			if t.URL != "" {
				rec.ActionURL = t.URL
			}
		}
		if t := entry.OverclockingTool; !t.IsZero() {
			lines = append(lines, "⚡ Overclocking: "+t.Name)
			rec.ExtraInfo = warningLines(t.Warnings)
		}
		rec.Instructions = strings.Join(entry.Instructions, "\n")
	}
	rec.Description = strings.Join(lines, "\n")
	return rec, true
}

func storageComponent(inv *collector.Inventory) (Recommendation, bool) {
	if len(inv.Drives) == 0 {
		return Recommendation{}, false
	}

	var (
		lines            []string
		totalFree, total int64
		full             bool
	)
	for _, d := range inv.Drives {
		used := UsedPercent(d.CapacityGB, d.FreeSpaceGB)
		line := fmt.Sprintf("💾 %s %s (%s): %d GB free of %d GB, %d%% used",
			d.DriveLetter, d.Name, d.MediaType, d.FreeSpaceGB, d.CapacityGB, used)
		if used > StorageWarnPercent {
			line += " ⚠️ almost full"
			full = true
		}
		lines = append(lines, line)
		totalFree += d.FreeSpaceGB
		total += d.CapacityGB
	}
	lines = append(lines, storageTip)

	priority := version.Low
	if full {
		priority = version.Medium
	}
	return Recommendation{
		Category:     CategoryStorage,
		Component:    "Storage",
		CurrentValue: fmt.Sprintf("%d GB free of %d GB", totalFree, total),
		Priority:     priority,
		Description:  strings.Join(lines, "\n"),
		ActionText:   "Open Storage Settings",
		ActionURL:    storageSettingURL,
	}, true
}

func (b *Builder) motherboardComponent(inv *collector.Inventory) (Recommendation, bool) {
	mb := inv.Motherboard
	if mb.Manufacturer == "" {
		return Recommendation{}, false
	}
	entry, ok := b.catalog.Entry(catalog.Motherboard, classify.Board(mb.Manufacturer))
	if !ok {
		return Recommendation{}, false
	}

	return Recommendation{
		Category:     CategoryMotherboard,
		Component:    strings.TrimSpace(mb.Manufacturer + " " + mb.Model),
		CurrentValue: biosValue(inv.BIOS),
		LatestValue:  "Check manufacturer website",
		Priority:     version.Low,
		Description:  biosDescription(inv),
		ActionText:   "Check BIOS Updates",
		ActionURL:    entry.ActionURL(),
		Instructions: strings.Join(entry.Instructions, "\n"),
	}, true
}

func (b *Builder) windowsComponent(inv *collector.Inventory) (Recommendation, bool) {
	entry, ok := b.catalog.Entry(catalog.Windows, classify.Default)
	if !ok {
		return Recommendation{}, false
	}
	return Recommendation{
		Category:     CategoryWindows,
		Component:    "Windows",
		CurrentValue: windowsValue(inv.OS),
		LatestValue:  "Check for latest",
		Priority:     version.High,
		Description:  "Regularly check for Windows updates to ensure security and stability.",
		ActionText:   "Open Windows Update",
		ActionURL:    entry.ActionURL(),
		Instructions: strings.Join(entry.Instructions, "\n"),
	}, true
}

// UsedPercent returns the rounded share of capacity in use, clamped to
// 0..100. A zero capacity yields 0.
func UsedPercent(capacity, free int64) int {
	if capacity <= 0 {
		return 0
	}
	p := int(math.Round(float64(capacity-free) * 100 / float64(capacity)))
	return max(0, min(100, p))
}

func cpuID(cpu collector.CPUInfo) classify.ID {
	if id := classify.CPU(cpu.Manufacturer); id != classify.Unclassified {
		return id
	}
	return classify.CPU(cpu.Name)
}

var driverDateLayouts = []string{time.DateOnly, "01/02/2006", "2006/01/02", "20060102", "1/2/2006"}

// driverAge describes how old a driver is relative to now. Unparseable
// dates yield "unknown age".
func driverAge(date string, now time.Time) string {
	date = strings.TrimSpace(date)
	var (
		t   time.Time
		err error
	)
	for _, layout := range driverDateLayouts {
		if t, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return "unknown age"
	}

	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 30:
		return "less than a month old"
	case days < 365:
		return plural(days/30, "month") + " old"
	default:
		return plural(days/365, "year") + " old"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func warningLines(warnings []string) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "⚠️ " + w
	}
	return strings.Join(lines, "\n")
}

func featureLines(features []string) string {
	lines := make([]string, len(features))
	for i, f := range features {
		lines[i] = "• " + f
	}
	return strings.Join(lines, "\n")
}

func biosValue(bios collector.BIOSInfo) string {
	return fmt.Sprintf("%s (%s)", orUnknown(bios.Version), orUnknown(bios.Date))
}

func biosDescription(inv *collector.Inventory) string {
	return fmt.Sprintf("Motherboard: %s %s\nCurrent BIOS: %s\n\n"+
		"Check if a newer BIOS version is available. Only update if you're experiencing issues or need new features.",
		inv.Motherboard.Manufacturer, inv.Motherboard.Model, biosValue(inv.BIOS))
}

func windowsValue(os collector.OSInfo) string {
	return fmt.Sprintf("%s (Build %s)", orUnknown(os.Version), orUnknown(os.Build))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
