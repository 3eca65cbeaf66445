//go:build !windows

package collector

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/siderolabs/go-smbios/smbios"

	"github.com/go-tangra/go-tangra-advisor/internal/classify"
)

// hostSource reads the inventory from gopsutil, ghw and the SMBIOS tables.
// It exists so the advisor can run and be tested off Windows; the
// recommendations it produces are still Windows-oriented.
type hostSource struct {
	sysModuleRoot string
	openSMBIOS    func() (*smbios.SMBIOS, error)
}

func newPlatformSource() Source {
	return hostSource{sysModuleRoot: "/sys/module", openSMBIOS: smbios.New}
}

func (hostSource) CPU(ctx context.Context) (CPUInfo, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, err
	}
	var out CPUInfo
	if len(infos) > 0 {
		out.Name = strings.TrimSpace(infos[0].ModelName)
		out.Manufacturer = strings.TrimSpace(infos[0].VendorID)
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		out.Cores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		out.Threads = n
	}
	return out, nil
}

// GPU reports the first PCI display controller. The driver version comes
// from the loaded kernel module when it publishes one.
func (s hostSource) GPU(ctx context.Context) (GPUInfo, error) {
	if err := ctx.Err(); err != nil {
		return GPUInfo{}, err
	}
	info, err := ghw.GPU(ghw.WithDisableWarnings())
	if err != nil {
		return GPUInfo{}, err
	}
	for _, card := range info.GraphicsCards {
		dev := card.DeviceInfo
		if dev == nil {
			continue
		}
		var vendorName, productName string
		if dev.Vendor != nil {
			vendorName = dev.Vendor.Name
		}
		if dev.Product != nil {
			productName = dev.Product.Name
		}
		name := strings.TrimSpace(strings.TrimSpace(vendorName) + " " + strings.TrimSpace(productName))
		if name == "" {
			continue
		}
		return GPUInfo{
			Name:          name,
			Manufacturer:  GPUManufacturer(classify.GPU(name)),
			DriverVersion: s.moduleVersion(dev.Driver),
		}, nil
	}
	return GPUInfo{}, nil
}

func (s hostSource) moduleVersion(driver string) string {
	if driver == "" {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(s.sysModuleRoot, driver, "version"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (hostSource) MemoryGB(ctx context.Context) (int64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return toGB(vm.Total), nil
}

// Drives lists mounted physical partitions and takes the media type from the
// block device backing each one.
func (hostSource) Drives(ctx context.Context) ([]Drive, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	var disks []*ghw.Disk
	if block, err := ghw.Block(ghw.WithDisableWarnings()); err == nil {
		disks = block.Disks
	}

	seen := map[string]bool{}
	drives := make([]Drive, 0, len(parts))
	for _, p := range parts {
		if seen[p.Device] || !strings.HasPrefix(p.Device, "/dev/") {
			continue
		}
		seen[p.Device] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue
		}
		drive := Drive{
			Name:        filepath.Base(p.Device),
			MediaType:   MediaUnknown,
			CapacityGB:  toGB(usage.Total),
			FreeSpaceGB: toGB(usage.Free),
			DriveLetter: p.Mountpoint,
		}
		if d := diskFor(disks, p.Device); d != nil {
			if d.Model != "" && d.Model != "unknown" {
				drive.Name = strings.TrimSpace(d.Model)
			}
			drive.MediaType = blockMediaType(d)
		}
		drives = append(drives, drive)
	}
	return drives, nil
}

func diskFor(disks []*ghw.Disk, device string) *ghw.Disk {
	base := filepath.Base(device)
	for _, d := range disks {
		if d.Name != "" && strings.HasPrefix(base, d.Name) {
			return d
		}
	}
	return nil
}

func blockMediaType(d *ghw.Disk) string {
	switch strings.ToUpper(d.DriveType.String()) {
	case "SSD":
		return MediaSSD
	case "HDD":
		return MediaHDD
	}
	return MediaTypeOf(d.Model, d.StorageController.String())
}

func (h hostSource) Board(ctx context.Context) (MotherboardInfo, BIOSInfo, error) {
	if err := ctx.Err(); err != nil {
		return MotherboardInfo{}, BIOSInfo{}, err
	}
	open := h.openSMBIOS
	if open == nil {
		open = smbios.New
	}
	s, err := open()
	if err != nil {
		return MotherboardInfo{}, BIOSInfo{}, err
	}
	board := s.BaseboardInformation
	bios := s.BIOSInformation
	return MotherboardInfo{
			Manufacturer: strings.TrimSpace(board.Manufacturer),
			Model:        strings.TrimSpace(board.Product),
		}, BIOSInfo{
			Version: strings.TrimSpace(bios.Version),
			Date:    NormalizeDate(bios.ReleaseDate),
		}, nil
}

func (hostSource) OS(ctx context.Context) (OSInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return OSInfo{}, err
	}
	version := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if version == "" {
		version = info.OS
	}
	return OSInfo{Version: version, Build: info.KernelVersion}, nil
}
