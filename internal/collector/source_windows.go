//go:build windows

package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/yusufpapurcu/wmi"

	"github.com/go-tangra/go-tangra-advisor/internal/classify"
)

type win32Processor struct {
	Name                      string
	Manufacturer              string
	NumberOfCores             uint32
	NumberOfLogicalProcessors uint32
}

type win32VideoController struct {
	Name          string
	DriverVersion string
	DriverDate    string
}

type win32PhysicalMemory struct {
	Capacity uint64
}

type win32LogicalDisk struct {
	DeviceID  string
	FreeSpace uint64
	Size      uint64
}

type win32DiskPartition struct {
	DeviceID string
}

type win32DiskDrive struct {
	Model     string
	MediaType string
}

type win32BaseBoard struct {
	Manufacturer string
	Product      string
}

type win32BIOS struct {
	SMBIOSBIOSVersion string
	ReleaseDate       string
}

type win32OperatingSystem struct {
	Caption     string
	Version     string
	BuildNumber string
}

// wmiSource answers sub-queries through WMI.
type wmiSource struct{}

func newPlatformSource() Source { return wmiSource{} }

// query runs a WQL query into a fresh slice. WMI calls cannot be cancelled,
// so on ctx expiry the call is abandoned and its rows discarded.
func query[T any](ctx context.Context, q string) ([]T, error) {
	type result struct {
		rows []T
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var rows []T
		err := wmi.Query(q, &rows)
		ch <- result{rows: rows, err: err}
	}()

	select {
	case r := <-ch:
		return r.rows, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (wmiSource) CPU(ctx context.Context) (CPUInfo, error) {
	procs, err := query[win32Processor](ctx, "SELECT Name, Manufacturer, NumberOfCores, NumberOfLogicalProcessors FROM Win32_Processor")
	if err != nil {
		return CPUInfo{}, err
	}
	if len(procs) == 0 {
		return CPUInfo{}, nil
	}
	p := procs[0]
	return CPUInfo{
		Name:         strings.TrimSpace(p.Name),
		Manufacturer: strings.TrimSpace(p.Manufacturer),
		Cores:        int(p.NumberOfCores),
		Threads:      int(p.NumberOfLogicalProcessors),
	}, nil
}

// GPU reports the first adapter that is not the Microsoft Basic Display
// Adapter fallback.
func (wmiSource) GPU(ctx context.Context) (GPUInfo, error) {
	ctrls, err := query[win32VideoController](ctx, "SELECT Name, DriverVersion, DriverDate FROM Win32_VideoController")
	if err != nil {
		return GPUInfo{}, err
	}
	for _, vc := range ctrls {
		if vc.Name == "" || strings.Contains(vc.Name, "Microsoft Basic") {
			continue
		}
		name := strings.TrimSpace(vc.Name)
		vendor := classify.GPU(name)
		return GPUInfo{
			Name:          name,
			Manufacturer:  GPUManufacturer(vendor),
			DriverVersion: NormalizeDriverVersion(vendor, vc.DriverVersion),
			DriverDate:    NormalizeDate(vc.DriverDate),
		}, nil
	}
	return GPUInfo{}, nil
}

func (wmiSource) MemoryGB(ctx context.Context) (int64, error) {
	mods, err := query[win32PhysicalMemory](ctx, "SELECT Capacity FROM Win32_PhysicalMemory")
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, m := range mods {
		total += m.Capacity
	}
	return toGB(total), nil
}

// Drives lists fixed logical disks and resolves each to its physical disk
// through the partition associators to name it and detect SSDs.
func (wmiSource) Drives(ctx context.Context) ([]Drive, error) {
	disks, err := query[win32LogicalDisk](ctx, "SELECT DeviceID, FreeSpace, Size FROM Win32_LogicalDisk WHERE DriveType=3")
	if err != nil {
		return nil, err
	}

	drives := make([]Drive, 0, len(disks))
	for _, d := range disks {
		drive := Drive{
			Name:        d.DeviceID,
			MediaType:   MediaUnknown,
			CapacityGB:  toGB(d.Size),
			FreeSpaceGB: toGB(d.FreeSpace),
			DriveLetter: d.DeviceID,
		}
		if phys, ok := physicalDiskFor(ctx, d.DeviceID); ok {
			if phys.Model != "" {
				drive.Name = strings.TrimSpace(phys.Model)
			}
			drive.MediaType = MediaTypeOf(phys.Model, phys.MediaType)
		}
		drives = append(drives, drive)
	}
	return drives, nil
}

func physicalDiskFor(ctx context.Context, deviceID string) (win32DiskDrive, bool) {
	parts, err := query[win32DiskPartition](ctx, fmt.Sprintf(
		"ASSOCIATORS OF {Win32_LogicalDisk.DeviceID='%s'} WHERE AssocClass=Win32_LogicalDiskToPartition", deviceID))
	if err != nil || len(parts) == 0 {
		return win32DiskDrive{}, false
	}
	drives, err := query[win32DiskDrive](ctx, fmt.Sprintf(
		"ASSOCIATORS OF {Win32_DiskPartition.DeviceID='%s'} WHERE AssocClass=Win32_DiskDriveToDiskPartition", parts[0].DeviceID))
	if err != nil || len(drives) == 0 {
		return win32DiskDrive{}, false
	}
	return drives[0], true
}

func (wmiSource) Board(ctx context.Context) (MotherboardInfo, BIOSInfo, error) {
	boards, err := query[win32BaseBoard](ctx, "SELECT Manufacturer, Product FROM Win32_BaseBoard")
	if err != nil {
		return MotherboardInfo{}, BIOSInfo{}, err
	}
	bios, err := query[win32BIOS](ctx, "SELECT SMBIOSBIOSVersion, ReleaseDate FROM Win32_BIOS")
	if err != nil {
		return MotherboardInfo{}, BIOSInfo{}, err
	}

	var mb MotherboardInfo
	if len(boards) > 0 {
		mb.Manufacturer = strings.TrimSpace(boards[0].Manufacturer)
		mb.Model = strings.TrimSpace(boards[0].Product)
	}
	var b BIOSInfo
	if len(bios) > 0 {
		b.Version = strings.TrimSpace(bios[0].SMBIOSBIOSVersion)
		b.Date = NormalizeDate(bios[0].ReleaseDate)
	}
	return mb, b, nil
}

func (wmiSource) OS(ctx context.Context) (OSInfo, error) {
	oses, err := query[win32OperatingSystem](ctx, "SELECT Caption, Version, BuildNumber FROM Win32_OperatingSystem")
	if err != nil {
		return OSInfo{}, err
	}
	if len(oses) == 0 {
		return OSInfo{}, nil
	}
	o := oses[0]
	version := strings.TrimSpace(o.Caption)
	if version == "" {
		version = o.Version
	}
	return OSInfo{Version: version, Build: strings.TrimSpace(o.BuildNumber)}, nil
}
