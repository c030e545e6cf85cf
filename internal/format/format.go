// Package format renders metric samples into fixed-width terminal tables.
// Rendering is pure: no I/O, no clock, identical output for identical input.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	"github.com/Gafion/sysmon/internal/metric"
)

// DefaultTargetWidth is the disk target column width. Longer mount paths
// are shortened with a trailing ellipsis.
const DefaultTargetWidth = 25

type Renderer struct {
	targetWidth int
}

func NewRenderer(targetWidth int) *Renderer {
	if targetWidth <= 3 {
		targetWidth = DefaultTargetWidth
	}
	return &Renderer{targetWidth: targetWidth}
}

// Render turns one sample into its display lines, section title included.
func (r *Renderer) Render(s metric.Sample) []string {
	switch s := s.(type) {
	case metric.CPUSample:
		return r.renderCPU(s)
	case metric.MemorySample:
		return r.renderMemory(s)
	case metric.DiskSample:
		return r.renderDisk(s)
	}
	return []string{fmt.Sprintf("%s: unsupported sample", s.Kind())}
}

// RenderError produces the inline failure section for one metric so partial
// results from other collectors still reach the operator.
func (r *Renderer) RenderError(kind metric.Kind, err error) []string {
	return []string{
		sectionTitle(kind),
		fmt.Sprintf("  error: %v", err),
	}
}

// RenderBanner formats the host status line shown above the sections.
func (r *Renderer) RenderBanner(hostname string, uptime time.Duration, load1 float64, hasLoad bool) string {
	line := fmt.Sprintf("%s  up %s", hostname, formatUptime(uptime))
	if hasLoad {
		line += fmt.Sprintf("  load %.2f", load1)
	}
	return line
}

// formatUptime renders a duration as the largest two of days/hours/minutes.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

func (r *Renderer) renderCPU(s metric.CPUSample) []string {
	lines := []string{
		sectionTitle(metric.KindCPU),
		fmt.Sprintf("Overall CPU: %.1f%%", s.OverallPercent),
	}
	return append(lines, processLines(s.TopProcesses)...)
}

func (r *Renderer) renderMemory(s metric.MemorySample) []string {
	lines := []string{
		sectionTitle(metric.KindMemory),
		fmt.Sprintf("Total: %s  Used: %s (%.1f%%)  Free: %s",
			humanize.IBytes(s.TotalBytes),
			humanize.IBytes(s.UsedBytes),
			s.UsedPercent,
			humanize.IBytes(s.FreeBytes),
		),
	}
	return append(lines, processLines(s.TopProcesses)...)
}

func (r *Renderer) renderDisk(s metric.DiskSample) []string {
	lines := []string{
		sectionTitle(metric.KindDisk),
		fmt.Sprintf("%-*s %8s %8s %8s %7s", r.targetWidth, "TARGET", "SIZE", "USED", "AVAIL", "USE%"),
	}
	for _, m := range s.Mounts {
		lines = append(lines, fmt.Sprintf("%-*s %8s %8s %8s %6.1f%%",
			r.targetWidth,
			truncateTarget(m.Target, r.targetWidth),
			humanize.IBytes(m.SizeBytes),
			humanize.IBytes(m.UsedBytes),
			humanize.IBytes(m.AvailBytes),
			m.UsedPercent,
		))
	}
	return lines
}

func processLines(procs []metric.ProcessUsage) []string {
	return lo.Map(procs, func(p metric.ProcessUsage, _ int) string {
		return fmt.Sprintf("%-8s %6.1f%% %s", p.User, p.Percent, p.Command)
	})
}

// truncateTarget shortens a mount path to the column width, keeping the
// prefix and marking the cut with an ellipsis.
func truncateTarget(target string, width int) string {
	if runewidth.StringWidth(target) <= width {
		return target
	}
	return runewidth.Truncate(target, width, "...")
}

func sectionTitle(kind metric.Kind) string {
	switch kind {
	case metric.KindCPU:
		return "CPU"
	case metric.KindMemory:
		return "Memory"
	case metric.KindDisk:
		return "Disk"
	}
	return kind.String()
}
