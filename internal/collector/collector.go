package collector

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/metric"
)

const (
	// DefaultTimeout bounds a single Collect call. The underlying OS query
	// normally finishes in well under a second.
	DefaultTimeout = 2 * time.Second

	// DefaultTopN is how many processes a top listing keeps.
	DefaultTopN = 5
)

// Source queries one OS subsystem and returns a structured sample.
// Implementations never block past their configured timeout.
type Source interface {
	Kind() metric.Kind
	Collect(ctx context.Context) (metric.Sample, error)
}

// Options configures the collector set built by NewSources.
type Options struct {
	TopN    int
	Timeout time.Duration
	Logger  *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// NewSources builds the production collectors backed by gopsutil. On Linux
// the CPU and memory collectors additionally carry a procfs text-parsing
// fallback used when the primary probe errors.
func NewSources(opts Options) []Source {
	opts = opts.withDefaults()
	probe := &psutilProbe{}

	var cpuFallback CPUReader
	var memFallback MemReader
	if runtime.GOOS == "linux" {
		fb := newProcfsProbe()
		cpuFallback = fb
		memFallback = fb
	}

	return []Source{
		NewCPU(probe, cpuFallback, probe, opts),
		NewMemory(probe, memFallback, probe, opts),
		NewDisk(probe, opts),
	}
}

// await runs fn off the calling goroutine so an unresponsive OS query cannot
// outlive the collect deadline.
func await[T any](ctx context.Context, kind metric.Kind, fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := fn()
		ch <- outcome{v: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, metric.Timeout(kind, ctx.Err())
		}
		return zero, ctx.Err()
	case out := <-ch:
		return out.v, out.err
	}
}

// topN sorts descending by percent and keeps the first n rows. The sort is
// stable so ties keep the enumeration order of the input, making repeated
// runs over identical input deterministic.
func topN(procs []metric.ProcessUsage, n int) []metric.ProcessUsage {
	out := make([]metric.ProcessUsage, len(procs))
	copy(out, procs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent > out[j].Percent
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// clampPercent forces a reading into [0,100]. Per-process CPU shares can
// legitimately exceed 100 on multi-core hosts; the display contract caps
// every percent field at 100.
func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// validPercent reports whether v is a finite reading in [0,100].
func validPercent(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= 100
}
