// Package engine orchestrates merging Creation Club BA2 archives into a
// small merged archive set, and restoring the pre-merge state from backup.
//
// A single orchestration goroutine drives each run; progress is streamed as
// ordered events and every internal failure is converted into the returned
// Result rather than propagating.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ccpack/ccpack/internal/archive2"
	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/plugins"
	"github.com/ccpack/ccpack/internal/stats"
)

// Fixed names inside the game's Data directory.
const (
	// MergedPrefix names merged output files and excludes them from
	// re-discovery as inputs.
	MergedPrefix = "CCMerged"

	archiveExt     = ".ba2"
	pluginExt      = ".esl"
	dataDirName    = "Data"
	backupDirName  = "CC_Backup"
	tempDirName    = "CC_Temp"
	stringsDirName = "Strings"

	// manifestName lists string files relocated out of the extraction
	// tree, persisted in the snapshot so restore can reverse the move.
	manifestName = "moved_strings.txt"
	// checksumsName holds BLAKE3 digests of every backed-up archive.
	checksumsName = "checksums.txt"

	snapshotTimeFormat = "20060102_150405"
)

// DefaultCeiling is the maximum uncompressed input per texture archive.
// The tool's compressed output must stay under the engine's hard per-archive
// limit; textures compress roughly 2:1, so 7 GiB in yields ~3.5 GiB out.
const DefaultCeiling = 7 << 30

// Precondition errors. Reported before any side effect; a run that returns
// one of these has touched nothing.
var (
	ErrNoDataDir   = errors.New("data folder not found")
	ErrNoContent   = errors.New("no Creation Club (cc*.ba2) files found")
	ErrOnlyMerged  = errors.New("only previously merged (CCMerged) archives found, no new CC files to merge")
	ErrNoBackupDir = errors.New("no backup folder found")
	ErrNoSnapshots = errors.New("no backups found")
)

// Config describes a merge or restore operation.
type Config struct {
	// GameDir is the game installation root; content lives in GameDir/Data.
	GameDir string
	// Tool invokes the external archive executable.
	Tool *archive2.Runner
	// Registry edits the plugin activation file. A zero-path registry
	// disables registry updates.
	Registry plugins.Registry
	// Events receives ordered progress events; nil disables reporting.
	Events chan<- event.Event
	// Stats collects counters; nil disables collection.
	Stats *stats.Collector
	// Ceiling bounds uncompressed input per texture archive;
	// DefaultCeiling when zero.
	Ceiling int64
	// VerifyArchives runs a header check and tool listing on each created
	// archive. Failures are reported as warnings only. Off by default.
	VerifyArchives bool
}

func (c Config) ceiling() int64 {
	if c.Ceiling > 0 {
		return c.Ceiling
	}
	return DefaultCeiling
}

// Summary reports what a successful run produced.
type Summary struct {
	ArchivesCreated      int
	SourceFilesProcessed int
	PlaceholdersCreated  int
	FilesRestored        int
}

// Result is the outcome of a merge or restore operation.
type Result struct {
	Summary Summary
	Err     error
}

// discardStats soaks up counters when the caller supplied none.
var discardStats = &stats.Collector{}

func (c Config) counters() *stats.Collector {
	if c.Stats != nil {
		return c.Stats
	}
	return discardStats
}

// emit delivers an event in order. Blocking send: the presenter drains the
// channel for the lifetime of the run, and dropped lines would break the
// ordered-progress contract.
func (c Config) emit(e event.Event) {
	if c.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	c.Events <- e
}

// warnf reports a non-fatal problem: counted, logged, and surfaced as a
// Warning event. Never aborts the run.
func (c Config) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg)
	if c.Stats != nil {
		c.Stats.AddWarnings(1)
	}
	c.emit(event.Event{Type: event.Warning, Message: msg})
}

func (c Config) infof(format string, args ...any) {
	c.emit(event.Event{Type: event.Info, Message: fmt.Sprintf(format, args...)})
}
