package collector

import (
	"context"
	"time"

	"github.com/Gafion/sysmon/internal/metric"
)

type fakeCPUReader struct {
	percent float64
	err     error
	delay   time.Duration
}

func (f fakeCPUReader) OverallPercent(ctx context.Context) (float64, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.percent, f.err
}

type fakeMemReader struct {
	total, used, free uint64
	err               error
	delay             time.Duration
}

func (f fakeMemReader) Memory(ctx context.Context) (uint64, uint64, uint64, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, 0, 0, ctx.Err()
		}
	}
	return f.total, f.used, f.free, f.err
}

type fakeDiskReader struct {
	mounts []metric.DiskMount
	err    error
}

func (f fakeDiskReader) Mounts(ctx context.Context) ([]metric.DiskMount, error) {
	return f.mounts, f.err
}

type fakeProcessReader struct {
	byCPU []metric.ProcessUsage
	byMem []metric.ProcessUsage
	err   error
}

func (f fakeProcessReader) ProcessesByCPU(ctx context.Context) ([]metric.ProcessUsage, error) {
	return f.byCPU, f.err
}

func (f fakeProcessReader) ProcessesByMemory(ctx context.Context) ([]metric.ProcessUsage, error) {
	return f.byMem, f.err
}
