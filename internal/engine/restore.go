package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/platform"
)

// Restore reverts the Data directory to the newest snapshot: merged output
// and relocated string files are deleted, their placeholders deregistered,
// the backed-up archives copied back, and every older snapshot pruned.
func Restore(ctx context.Context, cfg Config) Result {
	dataDir := filepath.Join(cfg.GameDir, dataDirName)
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return Result{Err: ErrNoDataDir}
	}

	backupRoot := filepath.Join(dataDir, backupDirName)
	if info, err := os.Stat(backupRoot); err != nil || !info.IsDir() {
		return Result{Err: ErrNoBackupDir}
	}
	snaps, err := snapshots(backupRoot)
	if err != nil {
		return Result{Err: err}
	}
	if len(snaps) == 0 {
		return Result{Err: ErrNoSnapshots}
	}
	snapDir := snaps[0]
	cfg.emit(event.Event{Type: event.SnapshotSelected, Name: filepath.Base(snapDir)})

	// Remove merged output first. A failure here is fatal: restoring the
	// originals next to half-removed merged archives would double-load
	// content in the game.
	var removedPlugins []string
	for _, name := range mergedOutputs(dataDir) {
		if strings.EqualFold(filepath.Ext(name), pluginExt) {
			removedPlugins = append(removedPlugins, name)
		}
		if err := os.Remove(filepath.Join(dataDir, name)); err != nil {
			return Result{Err: err}
		}
		cfg.emit(event.Event{Type: event.MergedRemoved, Name: name})
	}

	// Relocated string files are advisory cleanup: a leftover .STRINGS
	// file is harmless once its archive is gone.
	stringsDir := filepath.Join(dataDir, stringsDirName)
	for _, name := range mergedOutputs(stringsDir) {
		if err := os.Remove(filepath.Join(stringsDir, name)); err != nil {
			cfg.warnf("could not delete strings file %s: %v", name, err)
		}
	}
	manifest, err := readManifest(snapDir)
	if err != nil {
		cfg.warnf("could not read string manifest: %v", err)
	}
	for _, name := range manifest {
		if err := os.Remove(filepath.Join(stringsDir, name)); err != nil && !os.IsNotExist(err) {
			cfg.warnf("could not delete strings file %s: %v", name, err)
		}
	}

	if len(removedPlugins) > 0 {
		if err := cfg.Registry.Remove(removedPlugins); err != nil {
			cfg.warnf("failed to update plugin registry: %v", err)
		}
	}

	// Copy the snapshot back. Snapshot metadata stays in the snapshot.
	entries, err := os.ReadDir(snapDir)
	if err != nil {
		return Result{Err: err}
	}
	var restored int
	for _, e := range entries {
		if e.IsDir() || e.Name() == manifestName || e.Name() == checksumsName {
			continue
		}
		src := filepath.Join(snapDir, e.Name())
		if _, err := platform.CopyPreserve(src, filepath.Join(dataDir, e.Name())); err != nil {
			return Result{Err: err}
		}
		restored++
		cfg.counters().AddFilesRestored(1)
		cfg.emit(event.Event{Type: event.FileRestored, Name: e.Name()})
	}

	verifyRestored(cfg, dataDir, snapDir)

	// The restored state is the new baseline; older snapshots only hold
	// content the game no longer references.
	for _, old := range snaps[1:] {
		if err := os.RemoveAll(old); err != nil {
			cfg.warnf("could not prune old backup %s: %v", filepath.Base(old), err)
			continue
		}
		cfg.emit(event.Event{Type: event.SnapshotPruned, Name: filepath.Base(old)})
	}

	return Result{Summary: Summary{FilesRestored: restored}}
}

// verifyRestored compares each restored file against the checksums recorded
// at backup time. Advisory only: a mismatch is reported, never fatal.
func verifyRestored(cfg Config, dataDir, snapDir string) {
	sums, err := readChecksums(filepath.Join(snapDir, checksumsName))
	if err != nil {
		if !os.IsNotExist(err) {
			cfg.warnf("could not read checksum manifest: %v", err)
		}
		return
	}
	for name, want := range sums {
		got, err := HashFile(filepath.Join(dataDir, name))
		if err != nil {
			cfg.warnf("could not verify %s: %v", name, err)
			continue
		}
		if got != want {
			cfg.warnf("restored file %s does not match its backup checksum", name)
			cfg.emit(event.Event{Type: event.VerifyFailed, Name: name})
			continue
		}
		cfg.emit(event.Event{Type: event.VerifyOK, Name: name})
	}
}
