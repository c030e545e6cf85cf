package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/metric"
)

// Memory reads physical memory totals and the top-N consumers by memory
// share. All counters stay in raw bytes; the formatter owns unit display.
type Memory struct {
	reader   MemReader
	fallback MemReader
	procs    ProcessReader
	topN     int
	timeout  time.Duration
	logger   *zap.Logger
}

func NewMemory(reader MemReader, fallback MemReader, procs ProcessReader, opts Options) *Memory {
	opts = opts.withDefaults()
	return &Memory{
		reader:   reader,
		fallback: fallback,
		procs:    procs,
		topN:     opts.TopN,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}
}

func (m *Memory) Kind() metric.Kind { return metric.KindMemory }

func (m *Memory) Collect(ctx context.Context) (metric.Sample, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type counters struct {
		total, used, free uint64
	}

	c, err := await(ctx, metric.KindMemory, func() (counters, error) {
		total, used, free, err := m.reader.Memory(ctx)
		return counters{total, used, free}, err
	})
	if err != nil && m.fallback != nil && !isContextError(err) {
		m.logger.Debug("primary memory probe failed, trying procfs fallback", zap.Error(err))
		c, err = await(ctx, metric.KindMemory, func() (counters, error) {
			total, used, free, err := m.fallback.Memory(ctx)
			return counters{total, used, free}, err
		})
	}
	if err != nil {
		var ce *metric.CollectionError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, metric.ParseFailure(metric.KindMemory, err)
	}
	if c.total == 0 {
		return nil, metric.DivideByZero(metric.KindMemory)
	}

	procs, err := await(ctx, metric.KindMemory, func() ([]metric.ProcessUsage, error) {
		return m.procs.ProcessesByMemory(ctx)
	})
	if err != nil {
		var ce *metric.CollectionError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, metric.Unavailable(metric.KindMemory, err)
	}

	for i := range procs {
		procs[i].Percent = clampPercent(procs[i].Percent)
	}

	return metric.MemorySample{
		TotalBytes:   c.total,
		UsedBytes:    c.used,
		FreeBytes:    c.free,
		UsedPercent:  float64(c.used) / float64(c.total) * 100,
		TopProcesses: topN(procs, m.topN),
	}, nil
}
