package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPU(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"geforce", "NVIDIA GeForce RTX 4070", NVIDIA},
		{"rtx lower", "rtx a2000", NVIDIA},
		{"gtx only", "GTX 1080 Ti", NVIDIA},
		{"mixed case", "GeFoRcE 970", NVIDIA},
		{"radeon", "Radeon RX 7900 XTX", AMD},
		{"amd", "AMD Radeon(TM) Graphics", AMD},
		{"intel", "Intel(R) UHD Graphics 770", Intel},
		{"intel arc", "Intel(R) Arc(TM) A770", Intel},
		{"nvidia before amd", "NVIDIA on AMD platform", NVIDIA},
		{"amd before intel", "Intel CPU with AMD Radeon", AMD},
		{"empty", "", Unclassified},
		{"blank", "   ", Unclassified},
		{"unknown", "Microsoft Basic Display Adapter", Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GPU(tt.in))
		})
	}
}

func TestCPU(t *testing.T) {
	assert.Equal(t, Intel, CPU("GenuineIntel"))
	assert.Equal(t, AMD, CPU("AuthenticAMD"))
	assert.Equal(t, Unclassified, CPU("Qualcomm"))
	assert.Equal(t, Unclassified, CPU(""))
}

func TestBoard(t *testing.T) {
	assert.Equal(t, ASUS, Board("ASUSTeK COMPUTER INC."))
	assert.Equal(t, MSI, Board("Micro-Star International Co., Ltd."))
	assert.Equal(t, Gigabyte, Board("Gigabyte Technology Co., Ltd."))
	assert.Equal(t, ASRock, Board("ASRock"))
	assert.Equal(t, Default, Board("Dell Inc."))
	assert.Equal(t, Default, Board(""))
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "unclassified", Unclassified.String())
	assert.Equal(t, "NVIDIA", NVIDIA.Label())
}
