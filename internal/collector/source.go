package collector

import "context"

// Source answers the individual inventory sub-queries. Implementations
// must be safe for concurrent calls of different methods.
type Source interface {
	CPU(ctx context.Context) (CPUInfo, error)
	GPU(ctx context.Context) (GPUInfo, error)
	MemoryGB(ctx context.Context) (int64, error)
	Drives(ctx context.Context) ([]Drive, error)
	Board(ctx context.Context) (MotherboardInfo, BIOSInfo, error)
	OS(ctx context.Context) (OSInfo, error)
}

// NewPlatformSource returns the Source for the running operating system.
func NewPlatformSource() Source {
	return newPlatformSource()
}
