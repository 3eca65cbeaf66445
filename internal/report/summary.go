package report

import (
	"fmt"
	"strings"

	"github.com/go-tangra/go-tangra-advisor/internal/collector"
)

// SystemSummary renders the plain-text system report users paste into
// support requests.
func SystemSummary(inv *collector.Inventory) string {
	if inv == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("=== System Report ===\n\n")
	fmt.Fprintf(&sb, "CPU: %s\n", inv.CPU.Name)
	fmt.Fprintf(&sb, "Cores: %d | Threads: %d\n\n", inv.CPU.Cores, inv.CPU.Threads)
	fmt.Fprintf(&sb, "GPU: %s\n", inv.GPU.Name)
	fmt.Fprintf(&sb, "Driver: %s\n\n", inv.GPU.DriverVersion)
	fmt.Fprintf(&sb, "RAM: %d GB\n\n", inv.RAMTotalGB)
	sb.WriteString("Storage:\n")
	for _, d := range inv.Drives {
		fmt.Fprintf(&sb, "  %s (%s) - %dGB free of %dGB\n", d.DriveLetter, d.MediaType, d.FreeSpaceGB, d.CapacityGB)
		fmt.Fprintf(&sb, "    %s\n", d.Name)
	}
	return sb.String()
}

// StorageTotals returns the summed free space and capacity of all drives.
func StorageTotals(drives []collector.Drive) (free, capacity int64) {
	for _, d := range drives {
		free += d.FreeSpaceGB
		capacity += d.CapacityGB
	}
	return free, capacity
}

// Truncate shortens s to at most n runes, ending in an ellipsis when cut.
// Empty input yields "Unknown".
func Truncate(s string, n int) string {
	if s == "" {
		return "Unknown"
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
