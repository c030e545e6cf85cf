package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
)

// HostStatus is the banner line shown above the metric sections.
type HostStatus struct {
	Hostname string
	Uptime   time.Duration
	Load1    float64
	HasLoad  bool
}

// ReadHostStatus is best-effort: load average is unavailable on some
// platforms and simply omitted from the banner.
func ReadHostStatus(ctx context.Context) (HostStatus, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostStatus{}, err
	}

	status := HostStatus{
		Hostname: info.Hostname,
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		status.Load1 = avg.Load1
		status.HasLoad = true
	}
	return status, nil
}
