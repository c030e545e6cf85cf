package collector

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Gafion/sysmon/internal/metric"
)

// The reader interfaces are the only seam between collectors and the OS.
// Production code goes through gopsutil; tests substitute fakes.

// CPUReader reports overall utilization as a percent in [0,100].
type CPUReader interface {
	OverallPercent(ctx context.Context) (float64, error)
}

// MemReader reports physical memory counters in raw bytes.
type MemReader interface {
	Memory(ctx context.Context) (total, used, free uint64, err error)
}

// DiskReader enumerates mounted filesystems with usage counters.
type DiskReader interface {
	Mounts(ctx context.Context) ([]metric.DiskMount, error)
}

// ProcessReader lists running processes with their usage share of one
// resource. A host with no visible processes yields an empty slice.
type ProcessReader interface {
	ProcessesByCPU(ctx context.Context) ([]metric.ProcessUsage, error)
	ProcessesByMemory(ctx context.Context) ([]metric.ProcessUsage, error)
}

// psutilProbe backs every reader interface with gopsutil.
type psutilProbe struct{}

func (psutilProbe) OverallPercent(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, errors.New("no cpu readings")
	}
	return pcts[0], nil
}

func (psutilProbe) Memory(ctx context.Context) (total, used, free uint64, err error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	return v.Total, v.Used, v.Free, nil
}

func (psutilProbe) Mounts(ctx context.Context) ([]metric.DiskMount, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	mounts := make([]metric.DiskMount, 0, len(parts))
	for _, p := range parts {
		u, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			// Unreadable mountpoints (stale NFS, permission walls) are
			// skipped rather than failing the whole enumeration.
			continue
		}
		mounts = append(mounts, metric.DiskMount{
			Target:      p.Mountpoint,
			SizeBytes:   u.Total,
			UsedBytes:   u.Used,
			AvailBytes:  u.Free,
			UsedPercent: u.UsedPercent,
		})
	}
	return mounts, nil
}

func (psutilProbe) ProcessesByCPU(ctx context.Context) ([]metric.ProcessUsage, error) {
	return listProcesses(ctx, func(p *process.Process) (float64, error) {
		return p.CPUPercentWithContext(ctx)
	})
}

func (psutilProbe) ProcessesByMemory(ctx context.Context) ([]metric.ProcessUsage, error) {
	return listProcesses(ctx, func(p *process.Process) (float64, error) {
		pct, err := p.MemoryPercentWithContext(ctx)
		return float64(pct), err
	})
}

func listProcesses(ctx context.Context, percent func(*process.Process) (float64, error)) ([]metric.ProcessUsage, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	usages := make([]metric.ProcessUsage, 0, len(procs))
	for _, p := range procs {
		pct, err := percent(p)
		if err != nil {
			// The process may have exited between enumeration and query.
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		user, err := p.UsernameWithContext(ctx)
		if err != nil {
			user = "?"
		}
		usages = append(usages, metric.ProcessUsage{
			User:    user,
			Percent: pct,
			Command: name,
		})
	}
	return usages, nil
}
