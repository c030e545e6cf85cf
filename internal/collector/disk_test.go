package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gafion/sysmon/internal/metric"
)

func TestDiskCollectSkipsZeroSizeMounts(t *testing.T) {
	d := NewDisk(fakeDiskReader{mounts: []metric.DiskMount{
		{Target: "/", SizeBytes: 100 * gib, UsedBytes: 40 * gib, AvailBytes: 60 * gib, UsedPercent: 40.0},
		{Target: "/proc", SizeBytes: 0},
		{Target: "/sys", SizeBytes: 0},
		{Target: "/data", SizeBytes: 10 * gib, UsedBytes: gib, AvailBytes: 9 * gib, UsedPercent: 10.0},
	}}, Options{})

	sample, err := d.Collect(context.Background())
	require.NoError(t, err)

	diskSample, ok := sample.(metric.DiskSample)
	require.True(t, ok, "expected a DiskSample")
	require.Len(t, diskSample.Mounts, 2)
	assert.Equal(t, "/", diskSample.Mounts[0].Target)
	assert.Equal(t, "/data", diskSample.Mounts[1].Target)
}

func TestDiskCollectOnlyZeroSizeMounts(t *testing.T) {
	d := NewDisk(fakeDiskReader{mounts: []metric.DiskMount{
		{Target: "/proc", SizeBytes: 0},
	}}, Options{})

	sample, err := d.Collect(context.Background())
	require.NoError(t, err, "an all-pseudo mount table is empty, not an error")
	assert.Empty(t, sample.(metric.DiskSample).Mounts)
}

func TestDiskCollectUnavailable(t *testing.T) {
	d := NewDisk(fakeDiskReader{err: errors.New("mount table unreadable")}, Options{})

	_, err := d.Collect(context.Background())
	var ce *metric.CollectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, metric.KindDisk, ce.Metric)
	assert.Equal(t, metric.ReasonUnavailable, ce.Reason)
}

func TestDiskCollectClampsPercent(t *testing.T) {
	d := NewDisk(fakeDiskReader{mounts: []metric.DiskMount{
		{Target: "/", SizeBytes: gib, UsedBytes: gib, UsedPercent: 104.2},
	}}, Options{})

	sample, err := d.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, sample.(metric.DiskSample).Mounts[0].UsedPercent)
}
