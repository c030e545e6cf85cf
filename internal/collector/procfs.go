package collector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// procfsProbe is the documented text-parsing fallback for hosts where the
// primary statistics API misbehaves. It reads /proc/stat and /proc/meminfo
// directly, keeping all fragile text parsing in this one file.
type procfsProbe struct {
	statPath    string
	meminfoPath string

	// cpu sampling window between the two /proc/stat reads
	window time.Duration
}

func newProcfsProbe() *procfsProbe {
	return &procfsProbe{
		statPath:    "/proc/stat",
		meminfoPath: "/proc/meminfo",
		window:      200 * time.Millisecond,
	}
}

// OverallPercent derives utilization from two tick snapshots taken a short
// window apart. A single snapshot only carries counters since boot.
func (p *procfsProbe) OverallPercent(ctx context.Context) (float64, error) {
	total1, idle1, err := p.readCPUTicks()
	if err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(p.window):
	}

	total2, idle2, err := p.readCPUTicks()
	if err != nil {
		return 0, err
	}

	deltaTotal := total2 - total1
	deltaIdle := idle2 - idle1
	if deltaTotal == 0 {
		return 0, nil
	}
	return 100.0 * float64(deltaTotal-deltaIdle) / float64(deltaTotal), nil
}

func (p *procfsProbe) readCPUTicks() (total, idle uint64, err error) {
	f, err := os.Open(p.statPath)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, 0, fmt.Errorf("%s: empty", p.statPath)
	}

	// First line: "cpu  user nice system idle iowait irq softirq steal ..."
	fields := strings.Fields(scanner.Text())
	if len(fields) < 9 || fields[0] != "cpu" {
		return 0, 0, fmt.Errorf("%s: unexpected first line %q", p.statPath, scanner.Text())
	}
	for i := 1; i <= 8; i++ {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%s: field %d: %w", p.statPath, i, err)
		}
		total += v
		if i == 4 {
			idle = v
		}
	}
	return total, idle, nil
}

// Memory parses /proc/meminfo. Values arrive suffixed ("16384256 kB") and
// are normalized to bytes here so callers only ever see raw counts.
func (p *procfsProbe) Memory(_ context.Context) (total, used, free uint64, err error) {
	f, err := os.Open(p.meminfoPath)
	if err != nil {
		return 0, 0, 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	var memTotal, memAvailable, memFree uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		switch key {
		case "MemTotal", "MemAvailable", "MemFree":
		default:
			continue
		}
		v, err := parseSize(value)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%s: %s: %w", p.meminfoPath, key, err)
		}
		switch key {
		case "MemTotal":
			memTotal = v
		case "MemAvailable":
			memAvailable = v
		case "MemFree":
			memFree = v
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, 0, err
	}
	if memTotal == 0 {
		return 0, 0, 0, fmt.Errorf("%s: no MemTotal entry", p.meminfoPath)
	}
	return memTotal, memTotal - memAvailable, memFree, nil
}
