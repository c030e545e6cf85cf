// Package watch drives the sample/render cycle, either once or repeatedly
// at a fixed interval until cancelled.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/metric"
	"github.com/Gafion/sysmon/internal/sampler"
)

// ErrPartialFailure is returned from a single run where at least one
// collector failed. The failure details were already rendered inline;
// callers only need the exit status.
var ErrPartialFailure = errors.New("one or more collectors failed")

// Sampler runs one collection cycle.
type Sampler interface {
	Sample(ctx context.Context, kinds []metric.Kind) []sampler.Result
}

// Renderer turns samples and failures into display lines.
type Renderer interface {
	Render(s metric.Sample) []string
	RenderError(kind metric.Kind, err error) []string
}

// Recorder persists a cycle summary. Optional.
type Recorder interface {
	Record(results []sampler.Result) error
}

type Loop struct {
	sampler  Sampler
	renderer Renderer
	recorder Recorder
	banner   func(ctx context.Context) string
	out      io.Writer
	kinds    []metric.Kind
	interval time.Duration
	logger   *zap.Logger
}

// Options wires a Loop. Interval zero means single-run. Banner and Recorder
// may be nil.
type Options struct {
	Sampler  Sampler
	Renderer Renderer
	Recorder Recorder
	Banner   func(ctx context.Context) string
	Out      io.Writer
	Kinds    []metric.Kind
	Interval time.Duration
	Logger   *zap.Logger
}

func New(opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		sampler:  opts.Sampler,
		renderer: opts.Renderer,
		recorder: opts.Recorder,
		banner:   opts.Banner,
		out:      opts.Out,
		kinds:    opts.Kinds,
		interval: opts.Interval,
		logger:   logger,
	}
}

// Run executes the loop until completion or cancellation.
//
// Single-run mode performs exactly one sample+render cycle and returns
// ErrPartialFailure if any collector failed, so the caller can surface a
// non-zero exit status. Watch mode re-renders every interval, clearing the
// previous frame first, and returns nil once the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.interval <= 0 {
		if failed := l.cycle(ctx); failed {
			return ErrPartialFailure
		}
		return nil
	}

	output := termenv.NewOutput(l.out)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		output.ClearScreen()
		if failed := l.cycle(ctx); failed {
			// Partial results are better than none; keep watching.
			l.logger.Debug("cycle completed with failures")
		}

		select {
		case <-ctx.Done():
			l.logger.Info("watch loop cancelled")
			return nil
		case <-ticker.C:
		}
	}
}

// cycle samples the requested kinds, renders every section, and reports
// whether any collector failed.
func (l *Loop) cycle(ctx context.Context) (failed bool) {
	results := l.sampler.Sample(ctx, l.kinds)

	var lines []string
	if l.banner != nil {
		if header := l.banner(ctx); header != "" {
			lines = append(lines, header, "")
		}
	}

	for i, res := range results {
		if i > 0 {
			lines = append(lines, "")
		}
		if res.Err != nil {
			failed = true
			lines = append(lines, l.renderer.RenderError(res.Kind, res.Err)...)
			continue
		}
		lines = append(lines, l.renderer.Render(res.Sample)...)
	}
	fmt.Fprintln(l.out, strings.Join(lines, "\n"))

	if l.recorder != nil {
		if err := l.recorder.Record(results); err != nil {
			l.logger.Warn("failed to record cycle", zap.Error(err))
		}
	}
	return failed
}
