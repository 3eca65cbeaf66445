package collector

import "time"

// Media types reported for drives.
const (
	MediaSSD     = "SSD"
	MediaHDD     = "HDD"
	MediaUnknown = "Unknown"
)

// Inventory is one read-only hardware snapshot of the local host. Any
// string may be empty, meaning "unknown".
type Inventory struct {
	ScannedAt   time.Time       `json:"scanned_at" yaml:"scanned_at"`
	Hostname    string          `json:"hostname" yaml:"hostname"`
	CPU         CPUInfo         `json:"cpu" yaml:"cpu"`
	GPU         GPUInfo         `json:"gpu" yaml:"gpu"`
	RAMTotalGB  int64           `json:"ram_total_gb" yaml:"ram_total_gb"`
	Drives      []Drive         `json:"drives" yaml:"drives"`
	Motherboard MotherboardInfo `json:"motherboard" yaml:"motherboard"`
	BIOS        BIOSInfo        `json:"bios" yaml:"bios"`
	OS          OSInfo          `json:"os" yaml:"os"`
}

// CPUInfo holds processor details.
type CPUInfo struct {
	Name         string `json:"name" yaml:"name"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Cores        int    `json:"cores" yaml:"cores"`
	Threads      int    `json:"threads" yaml:"threads"`
}

// GPUInfo holds the primary graphics adapter. DriverDate is YYYY-MM-DD when
// known.
type GPUInfo struct {
	Name          string `json:"name" yaml:"name"`
	Manufacturer  string `json:"manufacturer" yaml:"manufacturer"`
	DriverVersion string `json:"driver_version" yaml:"driver_version"`
	DriverDate    string `json:"driver_date,omitempty" yaml:"driver_date,omitempty"`
}

// Drive is one fixed logical volume.
type Drive struct {
	Name        string `json:"name" yaml:"name"`
	MediaType   string `json:"media_type" yaml:"media_type"`
	CapacityGB  int64  `json:"capacity_gb" yaml:"capacity_gb"`
	FreeSpaceGB int64  `json:"free_space_gb" yaml:"free_space_gb"`
	DriveLetter string `json:"drive_letter" yaml:"drive_letter"`
}

// MotherboardInfo holds baseboard manufacturer and model.
type MotherboardInfo struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
}

// BIOSInfo holds firmware version and release date.
type BIOSInfo struct {
	Version string `json:"version" yaml:"version"`
	Date    string `json:"date" yaml:"date"`
}

// OSInfo holds the operating system version and build.
type OSInfo struct {
	Version string `json:"version" yaml:"version"`
	Build   string `json:"build" yaml:"build"`
}
