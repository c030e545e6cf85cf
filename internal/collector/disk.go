package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/metric"
)

// Disk enumerates mounted filesystems. Pseudo-filesystems reporting zero
// size are dropped so they never produce a divide-by-zero row.
type Disk struct {
	reader  DiskReader
	timeout time.Duration
	logger  *zap.Logger
}

func NewDisk(reader DiskReader, opts Options) *Disk {
	opts = opts.withDefaults()
	return &Disk{
		reader:  reader,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

func (d *Disk) Kind() metric.Kind { return metric.KindDisk }

func (d *Disk) Collect(ctx context.Context) (metric.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	mounts, err := await(ctx, metric.KindDisk, func() ([]metric.DiskMount, error) {
		return d.reader.Mounts(ctx)
	})
	if err != nil {
		var ce *metric.CollectionError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, metric.Unavailable(metric.KindDisk, err)
	}

	kept := make([]metric.DiskMount, 0, len(mounts))
	for _, m := range mounts {
		if m.SizeBytes == 0 {
			d.logger.Debug("skipping zero-size mount", zap.String("target", m.Target))
			continue
		}
		m.UsedPercent = clampPercent(m.UsedPercent)
		kept = append(kept, m)
	}

	return metric.DiskSample{Mounts: kept}, nil
}
