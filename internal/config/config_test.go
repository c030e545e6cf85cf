package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gafion/sysmon/internal/metric"
)

func TestParseMetricSelection(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []metric.Kind
	}{
		{name: "short cpu", args: []string{"-c"}, want: []metric.Kind{metric.KindCPU}},
		{name: "long cpu", args: []string{"--cpu"}, want: []metric.Kind{metric.KindCPU}},
		{name: "memory and disk", args: []string{"-m", "-d"}, want: []metric.Kind{metric.KindMemory, metric.KindDisk}},
		{name: "all", args: []string{"-a"}, want: metric.AllKinds()},
		{name: "all overrides individual picks", args: []string{"-c", "--all"}, want: metric.AllKinds()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.args, FileConfig{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Kinds)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Reason
	}{
		{name: "no metric selected", args: []string{"-w", "5"}, want: ReasonNoMetricSelected},
		{name: "watch zero", args: []string{"-c", "-w", "0"}, want: ReasonInvalidInterval},
		{name: "watch negative", args: []string{"-c", "-w", "-3"}, want: ReasonInvalidInterval},
		{name: "watch non-numeric", args: []string{"-c", "-w", "abc"}, want: ReasonInvalidInterval},
		{name: "unknown flag", args: []string{"--frobnicate"}, want: ReasonUnknownFlag},
		{name: "stray positional", args: []string{"-c", "leftover"}, want: ReasonUnknownFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, FileConfig{})
			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.want, cfgErr.Reason)
		})
	}
}

func TestParseWatchInterval(t *testing.T) {
	cfg, err := Parse([]string{"-a", "--watch", "5"}, FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Interval)

	cfg, err = Parse([]string{"-a"}, FileConfig{})
	require.NoError(t, err)
	assert.Zero(t, cfg.Interval, "no watch flag means single run")
}

func TestParseHelp(t *testing.T) {
	cfg, err := Parse([]string{"-h"}, FileConfig{})
	require.NoError(t, err)
	assert.True(t, cfg.ShowHelp)
}

func TestParseVersionNeedsNoMetric(t *testing.T) {
	cfg, err := Parse([]string{"--ver"}, FileConfig{})
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
}

func TestParseLastNeedsNoMetric(t *testing.T) {
	cfg, err := Parse([]string{"--last", "10"}, FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Last)
}

func TestParseDefaultsAndOverrides(t *testing.T) {
	cfg, err := Parse([]string{"-c"}, FileConfig{})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 25, cfg.TargetWidth)

	// File values replace the built-in defaults.
	cfg, err = Parse([]string{"-c"}, FileConfig{TopN: 8, TimeoutSecs: 5, TargetWidth: 40})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TopN)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 40, cfg.TargetWidth)

	// Flags beat file values.
	cfg, err = Parse([]string{"-c", "--top", "3"}, FileConfig{TopN: 8})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopN)
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file yields zero config", func(t *testing.T) {
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Zero(t, cfg)
	})

	t.Run("values are read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("top: 7\ntimeout_seconds: 4\n"), 0644))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.TopN)
		assert.Equal(t, 4, cfg.TimeoutSecs)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("top: [broken\n"), 0644))

		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}

func TestErrorMessages(t *testing.T) {
	_, err := Parse([]string{"-c", "-w", "0"}, FileConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid interval")

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Detail, "positive")
}
