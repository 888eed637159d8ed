// Package stats tracks counters for a merge or restore run.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks operation statistics using lock-free atomic counters.
// A single orchestration goroutine writes; presenters read snapshots.
type Collector struct {
	archivesFound       atomic.Int64
	archivesExtracted   atomic.Int64
	archivesCreated     atomic.Int64
	placeholdersWritten atomic.Int64
	filesBackedUp       atomic.Int64
	bytesBackedUp       atomic.Int64
	stringsRelocated    atomic.Int64
	soundsSeparated     atomic.Int64
	filesRestored       atomic.Int64
	warnings            atomic.Int64
	startTime           time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddArchivesFound(n int64)       { c.archivesFound.Add(n) }
func (c *Collector) AddArchivesExtracted(n int64)   { c.archivesExtracted.Add(n) }
func (c *Collector) AddArchivesCreated(n int64)     { c.archivesCreated.Add(n) }
func (c *Collector) AddPlaceholdersWritten(n int64) { c.placeholdersWritten.Add(n) }
func (c *Collector) AddFilesBackedUp(n int64)       { c.filesBackedUp.Add(n) }
func (c *Collector) AddBytesBackedUp(n int64)       { c.bytesBackedUp.Add(n) }
func (c *Collector) AddStringsRelocated(n int64)    { c.stringsRelocated.Add(n) }
func (c *Collector) AddSoundsSeparated(n int64)     { c.soundsSeparated.Add(n) }
func (c *Collector) AddFilesRestored(n int64)       { c.filesRestored.Add(n) }
func (c *Collector) AddWarnings(n int64)            { c.warnings.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	ArchivesFound       int64
	ArchivesExtracted   int64
	ArchivesCreated     int64
	PlaceholdersWritten int64
	FilesBackedUp       int64
	BytesBackedUp       int64
	StringsRelocated    int64
	SoundsSeparated     int64
	FilesRestored       int64
	Warnings            int64
	Elapsed             time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ArchivesFound:       c.archivesFound.Load(),
		ArchivesExtracted:   c.archivesExtracted.Load(),
		ArchivesCreated:     c.archivesCreated.Load(),
		PlaceholdersWritten: c.placeholdersWritten.Load(),
		FilesBackedUp:       c.filesBackedUp.Load(),
		BytesBackedUp:       c.bytesBackedUp.Load(),
		StringsRelocated:    c.stringsRelocated.Load(),
		SoundsSeparated:     c.soundsSeparated.Load(),
		FilesRestored:       c.filesRestored.Load(),
		Warnings:            c.warnings.Load(),
		Elapsed:             c.Elapsed(),
	}
}

// String renders the snapshot as a compact key=value line.
func (s Snapshot) String() string {
	return fmt.Sprintf("found=%d extracted=%d created=%d placeholders=%d backed_up=%d strings=%d sounds=%d warnings=%d",
		s.ArchivesFound, s.ArchivesExtracted, s.ArchivesCreated, s.PlaceholdersWritten,
		s.FilesBackedUp, s.StringsRelocated, s.SoundsSeparated, s.Warnings)
}

// FormatBytes formats a byte count as a human-readable string (KiB, MiB, ...).
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// Elapsed returns the time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}
