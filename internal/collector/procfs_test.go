package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcfsReadCPUTicks(t *testing.T) {
	stat := "cpu  4705 150 1120 16250 520 30 45 0 0 0\n" +
		"cpu0 1200 40 300 4100 130 10 12 0 0 0\n"
	p := &procfsProbe{statPath: writeFixture(t, "stat", stat)}

	total, idle, err := p.readCPUTicks()
	require.NoError(t, err)
	assert.Equal(t, uint64(4705+150+1120+16250+520+30+45+0), total)
	assert.Equal(t, uint64(16250), idle)
}

func TestProcfsReadCPUTicksMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "wrong first line", content: "intr 12345\n"},
		{name: "short line", content: "cpu 1 2 3\n"},
		{name: "non-numeric field", content: "cpu 1 2 3 four 5 6 7 8\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &procfsProbe{statPath: writeFixture(t, "stat", tt.content)}
			_, _, err := p.readCPUTicks()
			assert.Error(t, err)
		})
	}
}

func TestProcfsOverallPercentIdenticalSnapshots(t *testing.T) {
	// Both reads land on the same static fixture, so the tick delta is zero
	// and utilization reports 0 rather than dividing by zero.
	stat := "cpu  100 0 100 800 0 0 0 0 0 0\n"
	p := &procfsProbe{
		statPath: writeFixture(t, "stat", stat),
		window:   5 * time.Millisecond,
	}

	pct, err := p.OverallPercent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
}

func TestProcfsOverallPercentCancelled(t *testing.T) {
	stat := "cpu  100 0 100 800 0 0 0 0 0 0\n"
	p := &procfsProbe{
		statPath: writeFixture(t, "stat", stat),
		window:   time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.OverallPercent(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcfsMemory(t *testing.T) {
	meminfo := "MemTotal:       16384000 kB\n" +
		"MemFree:         2048000 kB\n" +
		"MemAvailable:    8192000 kB\n" +
		"Buffers:          512000 kB\n"
	p := &procfsProbe{meminfoPath: writeFixture(t, "meminfo", meminfo)}

	total, used, free, err := p.Memory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16384000)*1024, total)
	assert.Equal(t, uint64(16384000-8192000)*1024, used)
	assert.Equal(t, uint64(2048000)*1024, free)
}

func TestProcfsMemoryMissingTotal(t *testing.T) {
	p := &procfsProbe{meminfoPath: writeFixture(t, "meminfo", "Buffers: 512000 kB\n")}

	_, _, _, err := p.Memory(context.Background())
	assert.Error(t, err)
}
