// Package sampler runs the selected collectors for one cycle and joins
// their results in a deterministic order.
package sampler

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/collector"
	"github.com/Gafion/sysmon/internal/metric"
)

// Result pairs one metric kind with the outcome of its collector. Exactly
// one of Sample or Err is set.
type Result struct {
	Kind   metric.Kind
	Sample metric.Sample
	Err    error
}

type Sampler struct {
	sources map[metric.Kind]collector.Source
	logger  *zap.Logger
}

func New(sources []collector.Source, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	bykind := make(map[metric.Kind]collector.Source, len(sources))
	for _, src := range sources {
		bykind[src.Kind()] = src
	}
	return &Sampler{sources: bykind, logger: logger}
}

// Sample collects every requested kind concurrently. The collectors are
// independent, so one failing never suppresses the others; its Result just
// carries the error. Output order is always CPU, Memory, Disk regardless of
// request order.
func (s *Sampler) Sample(ctx context.Context, kinds []metric.Kind) []Result {
	ordered := orderKinds(kinds)
	results := make([]Result, len(ordered))

	var wg sync.WaitGroup
	for i, kind := range ordered {
		src, ok := s.sources[kind]
		if !ok {
			results[i] = Result{
				Kind: kind,
				Err:  metric.Unavailable(kind, errors.New("no source registered")),
			}
			continue
		}

		wg.Add(1)
		go func(i int, kind metric.Kind, src collector.Source) {
			defer wg.Done()
			sample, err := src.Collect(ctx)
			if err != nil {
				s.logger.Warn("collection failed",
					zap.Stringer("metric", kind),
					zap.Error(err),
				)
			}
			results[i] = Result{Kind: kind, Sample: sample, Err: err}
		}(i, kind, src)
	}
	wg.Wait()

	return results
}

// orderKinds dedupes the request and pins the canonical display order.
func orderKinds(kinds []metric.Kind) []metric.Kind {
	requested := make(map[metric.Kind]bool, len(kinds))
	for _, k := range kinds {
		requested[k] = true
	}
	ordered := make([]metric.Kind, 0, len(requested))
	for _, k := range metric.AllKinds() {
		if requested[k] {
			ordered = append(ordered, k)
		}
	}
	return ordered
}
