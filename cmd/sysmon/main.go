package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Gafion/sysmon/internal/collector"
	"github.com/Gafion/sysmon/internal/config"
	"github.com/Gafion/sysmon/internal/core"
	"github.com/Gafion/sysmon/internal/format"
	"github.com/Gafion/sysmon/internal/history"
	"github.com/Gafion/sysmon/internal/sampler"
	"github.com/Gafion/sysmon/internal/watch"
)

var BUILD_VERSION = "dev"

const usageText = `Usage: sysmon [flags]

Report resource utilization for the local host.

  -c, --cpu        include CPU metric
  -m, --memory     include memory metric
  -d, --disk       include disk metric
  -a, --all        include all three metrics
  -w, --watch N    refresh every N seconds until interrupted
  -t, --top N      show the top N processes per listing (default 5)
      --record     persist a summary of each cycle
      --last N     print the N most recent recorded cycles and exit
      --ver        display build version
  -h, --help       display this help text

With no flags, sysmon prints this help text. Exit status is 0 when every
requested collector succeeded and 1 on configuration errors or when any
collector failed.
`

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) == 1 {
		fmt.Print(usageText)
		return 0
	}

	fileCfg, err := config.LoadFile(core.ConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		return 1
	}

	cfg, err := config.Parse(os.Args[1:], fileCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		return 1
	}

	if cfg.ShowHelp {
		fmt.Print(usageText)
		return 0
	}
	if cfg.ShowVersion {
		fmt.Println(BUILD_VERSION)
		return 0
	}

	logger, err := initializeLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync() // Flush any buffered log entries
	}()

	logger.Info("-------- new sysmon run --------", zap.Any("args", os.Args))

	if cfg.Last > 0 {
		return printRecent(cfg.Last, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := collector.NewSources(collector.Options{
		TopN:    cfg.TopN,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	renderer := format.NewRenderer(cfg.TargetWidth)

	var recorder watch.Recorder
	if cfg.Record {
		r, err := history.NewRecorder(core.HistoryFile())
		if err != nil {
			logger.Warn("recording disabled", zap.Error(err))
		} else {
			defer func() {
				_ = r.Close()
			}()
			recorder = r
		}
	}

	loop := watch.New(watch.Options{
		Sampler:  sampler.New(sources, logger),
		Renderer: renderer,
		Recorder: recorder,
		Banner:   hostBanner(renderer),
		Out:      os.Stdout,
		Kinds:    cfg.Kinds,
		Interval: cfg.Interval,
		Logger:   logger,
	})

	if err := loop.Run(ctx); err != nil {
		logger.Error("run finished with failures", zap.Error(err))
		return 1
	}
	return 0
}

func initializeLogger() (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(os.Getenv("SYSMON_LOG_LEVEL")); err == nil {
		loggerConfig.Level = level
	}
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}
	return loggerConfig.Build()
}

// hostBanner reads host status fresh each frame. Failures only cost the
// banner line, never the metric sections.
func hostBanner(renderer *format.Renderer) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		status, err := collector.ReadHostStatus(ctx)
		if err != nil {
			return ""
		}
		return renderer.RenderBanner(status.Hostname, status.Uptime, status.Load1, status.HasLoad)
	}
}

func printRecent(limit int, logger *zap.Logger) int {
	recorder, err := history.NewRecorder(core.HistoryFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		return 1
	}
	defer func() {
		_ = recorder.Close()
	}()

	records, err := recorder.RecentRecords(limit)
	if err != nil {
		logger.Error("failed to read recorded cycles", zap.Error(err))
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		return 1
	}
	if len(records) == 0 {
		fmt.Println("no recorded cycles (run with --record first)")
		return 0
	}

	for _, r := range records {
		line := r.CreatedAt.Format("2006-01-02 15:04:05")
		if r.CPUPercent.Valid {
			line += fmt.Sprintf("  cpu %5.1f%%", r.CPUPercent.Float64)
		}
		if r.MemoryPercent.Valid {
			line += fmt.Sprintf("  mem %5.1f%%", r.MemoryPercent.Float64)
		}
		if r.DiskPercent.Valid {
			line += fmt.Sprintf("  disk %5.1f%%", r.DiskPercent.Float64)
		}
		fmt.Println(line)
	}
	return 0
}
