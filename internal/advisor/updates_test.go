package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

func components(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Component
	}
	return out
}

func TestUpdatesSortedBySeverity(t *testing.T) {
	recs := testBuilder(t).Updates(testInventory())

	assert.Equal(t, []string{
		"NVIDIA Graphics Driver",
		"Windows",
		"GPU Monitoring & Overclocking",
		"CPU Monitoring & Temperature",
		"BIOS/UEFI Update",
	}, components(recs))
	assert.Equal(t, version.High, recs[0].Priority)
	assert.Equal(t, version.High, recs[1].Priority)
}

func TestUpdatesDriverUpToDateSortsLast(t *testing.T) {
	inv := testInventory()
	inv.GPU.DriverVersion = "566.36"

	recs := testBuilder(t).Updates(inv)
	require.NotEmpty(t, recs)
	last := recs[len(recs)-1]
	assert.Equal(t, "NVIDIA Graphics Driver", last.Component)
	assert.Equal(t, version.UpToDate, last.Priority)
	assert.Equal(t, "Your GPU driver is up to date!", last.Description)
}

func TestUpdatesUnknownDriverVersion(t *testing.T) {
	inv := testInventory()
	inv.GPU.DriverVersion = ""

	recs := testBuilder(t).Updates(inv)
	rec := recs[indexOf(recs, "NVIDIA Graphics Driver")]
	assert.Equal(t, version.Medium, rec.Priority)
	assert.Equal(t, "Unknown", rec.CurrentValue)
}

func TestUpdatesCPUToolInstructions(t *testing.T) {
	recs := testBuilder(t).Updates(testInventory())
	rec := recs[indexOf(recs, "CPU Monitoring & Temperature")]

	assert.Equal(t, "HWiNFO64", rec.LatestValue)
	assert.Contains(t, rec.Instructions, "Recommended: HWiNFO64")
	assert.Contains(t, rec.Instructions, "• Logging to CSV")
	assert.Contains(t, rec.Instructions, "Overclocking Tool: AMD Ryzen Master")
	assert.Contains(t, rec.Instructions, "⚠️ Curve Optimizer changes can cause instability")
}

func TestUpdatesSkipsMissingParts(t *testing.T) {
	inv := &collector.Inventory{}

	recs := testBuilder(t).Updates(inv)
	assert.Equal(t, []string{"Windows"}, components(recs))
}

func TestUpdatesGPUToolsNeedClassifiedName(t *testing.T) {
	tests := []struct {
		name         string
		gpuName      string
		manufacturer string
		want         bool
	}{
		{name: "classified", gpuName: "NVIDIA GeForce RTX 4070", manufacturer: "NVIDIA", want: true},
		{name: "no manufacturer", gpuName: "NVIDIA GeForce RTX 4070", manufacturer: "", want: false},
		{name: "name not classified", gpuName: "Virtual Display Adapter", manufacturer: "NVIDIA", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := testInventory()
			inv.GPU.Name = tt.gpuName
			inv.GPU.Manufacturer = tt.manufacturer

			recs := testBuilder(t).Updates(inv)
			assert.Equal(t, tt.want, indexOf(recs, "GPU Monitoring & Overclocking") >= 0)
		})
	}
}

func indexOf(recs []Recommendation, component string) int {
	for i, r := range recs {
		if r.Component == component {
			return i
		}
	}
	return -1
}
