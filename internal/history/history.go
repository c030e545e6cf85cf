// Package history persists a one-row summary of each completed sampling
// cycle so operators can look back at recent readings with --last.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/Gafion/sysmon/internal/metric"
	"github.com/Gafion/sysmon/internal/sampler"
)

type Recorder struct {
	db *gorm.DB
}

// SampleRecord summarizes one cycle. A null column means that metric was
// not requested or its collector failed that cycle.
type SampleRecord struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	CPUPercent    sql.NullFloat64
	MemoryPercent sql.NullFloat64
	DiskPercent   sql.NullFloat64
}

func NewRecorder(dbFilePath string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening history database")
		return nil, err
	}

	if err := db.AutoMigrate(&SampleRecord{}); err != nil {
		return nil, err
	}

	return &Recorder{
		db: db,
	}, nil
}

// Close closes the database connection. This should be called when the
// Recorder is no longer needed, especially in tests to allow cleanup of
// temporary database files on Windows.
func (recorder *Recorder) Close() error {
	sqlDB, err := recorder.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores the summary of one cycle. Failed collectors leave their
// column null; the cycle row is written regardless.
func (recorder *Recorder) Record(results []sampler.Result) error {
	record := SampleRecord{}
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		switch s := res.Sample.(type) {
		case metric.CPUSample:
			record.CPUPercent = sql.NullFloat64{Float64: s.OverallPercent, Valid: true}
		case metric.MemorySample:
			record.MemoryPercent = sql.NullFloat64{Float64: s.UsedPercent, Valid: true}
		case metric.DiskSample:
			record.DiskPercent = sql.NullFloat64{Float64: maxUsedPercent(s.Mounts), Valid: true}
		}
	}

	result := recorder.db.Create(&record)
	return result.Error
}

// RecentRecords returns the newest records first, at most limit of them.
func (recorder *Recorder) RecentRecords(limit int) ([]SampleRecord, error) {
	var records []SampleRecord
	result := recorder.db.Order("created_at desc").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// ResetHistory drops all recorded cycles.
func (recorder *Recorder) ResetHistory() error {
	result := recorder.db.Exec("DELETE FROM sample_records")
	return result.Error
}

// maxUsedPercent summarizes a disk sample as its fullest mount.
func maxUsedPercent(mounts []metric.DiskMount) float64 {
	var max float64
	for _, m := range mounts {
		if m.UsedPercent > max {
			max = m.UsedPercent
		}
	}
	return max
}
