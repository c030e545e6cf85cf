// Package config builds the immutable run configuration from CLI flags and
// the optional YAML defaults file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Gafion/sysmon/internal/collector"
	"github.com/Gafion/sysmon/internal/format"
	"github.com/Gafion/sysmon/internal/metric"
)

// Reason classifies a configuration failure.
type Reason int

const (
	ReasonUnknownFlag Reason = iota
	ReasonInvalidInterval
	ReasonNoMetricSelected
)

func (r Reason) String() string {
	switch r {
	case ReasonUnknownFlag:
		return "unknown flag"
	case ReasonInvalidInterval:
		return "invalid interval"
	case ReasonNoMetricSelected:
		return "no metric selected"
	}
	return "unknown"
}

// Error is fatal: it terminates the program before any sampling occurs.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return e.Reason.String()
}

// Config is built once from parsed arguments and passed explicitly into the
// sampler and refresh loop. No global mutable selection state exists.
type Config struct {
	Kinds       []metric.Kind
	Interval    time.Duration // zero means single run
	TopN        int
	Timeout     time.Duration
	TargetWidth int
	Record      bool
	Last        int
	ShowHelp    bool
	ShowVersion bool
}

// FileConfig holds the optional defaults from ~/.config/sysmon/config.yml.
// Flags always win over file values.
type FileConfig struct {
	TopN        int `yaml:"top"`
	TimeoutSecs int `yaml:"timeout_seconds"`
	TargetWidth int `yaml:"disk_target_width"`
}

// LoadFile reads the YAML defaults file. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Parse turns CLI arguments into a Config. ShowHelp is set when -h/--help
// was requested; the caller prints usage and exits 0.
func Parse(args []string, file FileConfig) (Config, error) {
	fs := flag.NewFlagSet("sysmon", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cpuFlag := fs.Bool("c", false, "include CPU metric")
	fs.BoolVar(cpuFlag, "cpu", false, "include CPU metric")
	memFlag := fs.Bool("m", false, "include memory metric")
	fs.BoolVar(memFlag, "memory", false, "include memory metric")
	diskFlag := fs.Bool("d", false, "include disk metric")
	fs.BoolVar(diskFlag, "disk", false, "include disk metric")
	allFlag := fs.Bool("a", false, "include all metrics")
	fs.BoolVar(allFlag, "all", false, "include all metrics")
	watchFlag := fs.Int("w", 0, "refresh every N seconds until interrupted")
	fs.IntVar(watchFlag, "watch", 0, "refresh every N seconds until interrupted")
	topFlag := fs.Int("t", 0, "show the top N processes per listing")
	fs.IntVar(topFlag, "top", 0, "show the top N processes per listing")
	recordFlag := fs.Bool("record", false, "persist a summary of each cycle")
	lastFlag := fs.Int("last", 0, "print the N most recent recorded cycles and exit")
	versionFlag := fs.Bool("ver", false, "display build version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{ShowHelp: true}, nil
		}
		return Config{}, classifyParseError(err)
	}
	if fs.NArg() > 0 {
		return Config{}, &Error{Reason: ReasonUnknownFlag, Detail: fs.Arg(0)}
	}

	watchSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" || f.Name == "watch" {
			watchSet = true
		}
	})
	if watchSet && *watchFlag <= 0 {
		return Config{}, &Error{
			Reason: ReasonInvalidInterval,
			Detail: fmt.Sprintf("watch interval must be a positive number of seconds, got %d", *watchFlag),
		}
	}

	cfg := Config{
		TopN:        collector.DefaultTopN,
		Timeout:     collector.DefaultTimeout,
		TargetWidth: format.DefaultTargetWidth,
		Record:      *recordFlag,
		Last:        *lastFlag,
		ShowVersion: *versionFlag,
	}
	if file.TopN > 0 {
		cfg.TopN = file.TopN
	}
	if file.TimeoutSecs > 0 {
		cfg.Timeout = time.Duration(file.TimeoutSecs) * time.Second
	}
	if file.TargetWidth > 0 {
		cfg.TargetWidth = file.TargetWidth
	}
	if *topFlag > 0 {
		cfg.TopN = *topFlag
	}
	if watchSet {
		cfg.Interval = time.Duration(*watchFlag) * time.Second
	}

	if *allFlag {
		cfg.Kinds = metric.AllKinds()
	} else {
		if *cpuFlag {
			cfg.Kinds = append(cfg.Kinds, metric.KindCPU)
		}
		if *memFlag {
			cfg.Kinds = append(cfg.Kinds, metric.KindMemory)
		}
		if *diskFlag {
			cfg.Kinds = append(cfg.Kinds, metric.KindDisk)
		}
	}

	if cfg.ShowVersion || cfg.Last > 0 {
		return cfg, nil
	}
	if len(cfg.Kinds) == 0 {
		return Config{}, &Error{
			Reason: ReasonNoMetricSelected,
			Detail: "pick at least one of -c, -m, -d or use -a",
		}
	}
	return cfg, nil
}

// classifyParseError maps stdlib flag errors onto the config taxonomy. The
// flag package only exposes its failures as formatted strings.
func classifyParseError(err error) *Error {
	msg := err.Error()
	if strings.Contains(msg, "flag -w") || strings.Contains(msg, "flag -watch") {
		return &Error{Reason: ReasonInvalidInterval, Detail: msg}
	}
	return &Error{Reason: ReasonUnknownFlag, Detail: msg}
}
