package metric

// Kind identifies one metric category.
type Kind int

const (
	KindCPU Kind = iota
	KindMemory
	KindDisk
)

func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	case KindDisk:
		return "disk"
	}
	return "unknown"
}

// AllKinds returns every metric kind in display order.
func AllKinds() []Kind {
	return []Kind{KindCPU, KindMemory, KindDisk}
}

// ProcessUsage is one row of a top-N process listing.
type ProcessUsage struct {
	User    string
	Percent float64
	Command string
}

// Sample is an immutable snapshot of one metric category at one instant.
// A sample is constructed fresh each cycle and discarded after rendering.
type Sample interface {
	Kind() Kind
}

// CPUSample holds overall utilization plus the top processes by CPU share.
type CPUSample struct {
	OverallPercent float64
	TopProcesses   []ProcessUsage
}

func (CPUSample) Kind() Kind { return KindCPU }

// MemorySample holds physical memory totals in raw bytes. Converting to
// human units is the formatter's job. UsedBytes+FreeBytes may be less than
// TotalBytes since buffer/cache pages are counted in neither.
type MemorySample struct {
	TotalBytes   uint64
	UsedBytes    uint64
	FreeBytes    uint64
	UsedPercent  float64
	TopProcesses []ProcessUsage
}

func (MemorySample) Kind() Kind { return KindMemory }

// DiskMount is one mounted filesystem. Target carries the full mount path;
// shortening it for display happens in the formatter.
type DiskMount struct {
	Target      string
	SizeBytes   uint64
	UsedBytes   uint64
	AvailBytes  uint64
	UsedPercent float64
}

// DiskSample enumerates mounted filesystems with non-zero size.
type DiskSample struct {
	Mounts []DiskMount
}

func (DiskSample) Kind() Kind { return KindDisk }
