package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/metric"
)

// CPU reads overall utilization and the top-N processes by CPU share.
type CPU struct {
	reader   CPUReader
	fallback CPUReader
	procs    ProcessReader
	topN     int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCPU(reader CPUReader, fallback CPUReader, procs ProcessReader, opts Options) *CPU {
	opts = opts.withDefaults()
	return &CPU{
		reader:   reader,
		fallback: fallback,
		procs:    procs,
		topN:     opts.TopN,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

func (c *CPU) Kind() metric.Kind { return metric.KindCPU }

func (c *CPU) Collect(ctx context.Context) (metric.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	overall, err := c.overall(ctx)
	if err != nil {
		return nil, err
	}

	procs, err := await(ctx, metric.KindCPU, func() ([]metric.ProcessUsage, error) {
		return c.procs.ProcessesByCPU(ctx)
	})
	if err != nil {
		var ce *metric.CollectionError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, metric.Unavailable(metric.KindCPU, err)
	}

	for i := range procs {
		procs[i].Percent = clampPercent(procs[i].Percent)
	}

	return metric.CPUSample{
		OverallPercent: overall,
		TopProcesses:   topN(procs, c.topN),
	}, nil
}

func (c *CPU) overall(ctx context.Context) (float64, error) {
	v, err := await(ctx, metric.KindCPU, func() (float64, error) {
		return c.reader.OverallPercent(ctx)
	})
	if err != nil && c.fallback != nil && !isContextError(err) {
		c.logger.Debug("primary cpu probe failed, trying procfs fallback", zap.Error(err))
		v, err = await(ctx, metric.KindCPU, func() (float64, error) {
			return c.fallback.OverallPercent(ctx)
		})
	}
	if err != nil {
		var ce *metric.CollectionError
		if errors.As(err, &ce) {
			return 0, ce
		}
		return 0, metric.ParseFailure(metric.KindCPU, err)
	}
	if !validPercent(v) {
		return 0, metric.ParseFailure(metric.KindCPU, fmt.Errorf("utilization %v out of range", v))
	}
	return v, nil
}

func isContextError(err error) bool {
	var ce *metric.CollectionError
	if errors.As(err, &ce) && ce.Reason == metric.ReasonTimeout {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
