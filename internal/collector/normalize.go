package collector

import (
	"strings"
	"time"

	"github.com/go-tangra/go-tangra-advisor/internal/classify"
)

const bytesPerGB = 1024 * 1024 * 1024

// NormalizeDriverVersion turns the raw driver version reported by the OS into
// the version users see in the vendor's tools. Only NVIDIA's four-part
// Windows format is rewritten ("32.0.15.6636" becomes "566.36"); every other
// vendor's string passes through.
func NormalizeDriverVersion(vendor classify.ID, raw string) string {
	raw = strings.TrimSpace(raw)
	if vendor != classify.NVIDIA || raw == "" {
		return raw
	}

	parts := strings.Split(raw, ".")
	if len(parts) < 4 {
		return raw
	}
	combined := parts[2] + parts[3]
	switch {
	case len(combined) >= 5:
		last := combined[len(combined)-5:]
		return last[:3] + "." + last[3:]
	case len(combined) == 4:
		return combined[:2] + "." + combined[2:]
	default:
		return raw
	}
}

// NormalizeDate converts WMI DATETIME values ("20240115000000.000000-000")
// and US-style SMBIOS dates ("01/15/2024") to YYYY-MM-DD. Anything else is
// returned trimmed but unchanged.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 8 && isDigits(raw[:8]) {
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	}
	if t, err := time.Parse("01/02/2006", raw); err == nil {
		return t.Format(time.DateOnly)
	}
	return raw
}

// MediaTypeOf guesses SSD or HDD from a disk model and the OS-reported media
// type string.
func MediaTypeOf(model, mediaType string) string {
	s := strings.ToLower(model + " " + mediaType)
	for _, m := range []string{"ssd", "nvme", "solid"} {
		if strings.Contains(s, m) {
			return MediaSSD
		}
	}
	return MediaHDD
}

// GPUManufacturer returns the display label for a classified GPU vendor.
func GPUManufacturer(id classify.ID) string {
	switch id {
	case classify.NVIDIA:
		return "NVIDIA"
	case classify.AMD:
		return "AMD"
	case classify.Intel:
		return "Intel"
	default:
		return "Unknown"
	}
}

func toGB(b uint64) int64 {
	return int64(b / bytesPerGB)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
