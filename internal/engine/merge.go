package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccpack/ccpack/internal/archive2"
	"github.com/ccpack/ccpack/internal/ba2"
	"github.com/ccpack/ccpack/internal/esl"
	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/platform"
	"github.com/ccpack/ccpack/internal/split"
)

// Merge runs the full merge pipeline: discovery, backup, extraction,
// string relocation, sound separation, repacking, placeholder generation,
// registration, and source cleanup. Every failure is returned in the
// Result; nothing panics past this boundary.
//
// Failures before the snapshot completes are side-effect-free on source
// content. Failures after it leave the snapshot in place, so the run is
// safely re-triggerable.
func Merge(ctx context.Context, cfg Config) Result {
	dataDir := filepath.Join(cfg.GameDir, dataDirName)
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return Result{Err: ErrNoDataDir}
	}

	archives, err := discover(dataDir)
	if err != nil {
		return Result{Err: err}
	}
	cfg.counters().AddArchivesFound(int64(len(archives)))
	cfg.emit(event.Event{Type: event.DiscoveryDone, Total: len(archives)})

	if stale := mergedOutputs(dataDir); len(stale) > 0 {
		cfg.infof("Found %d previously merged file(s). These will be replaced.", len(stale))
	}
	cleanStale(cfg, dataDir)

	snapDir, err := createSnapshot(cfg, dataDir, archives)
	if err != nil {
		return Result{Err: err}
	}

	ws, err := prepareWorkspace(dataDir)
	if err != nil {
		return Result{Err: err}
	}
	defer func() {
		if err := os.RemoveAll(ws.Root); err != nil {
			cfg.warnf("could not remove workspace %s: %v", ws.Root, err)
		}
	}()

	// Extraction. No source has been deleted yet, so an abort here is
	// safely retryable.
	for i, a := range archives {
		dest := ws.General
		if a.Textures {
			dest = ws.Textures
		}
		cfg.emit(event.Event{Type: event.ExtractStarted, Name: a.Name, Index: i + 1, Total: len(archives)})
		if err := cfg.Tool.Extract(ctx, a.Path, dest); err != nil {
			return Result{Err: err}
		}
		cfg.counters().AddArchivesExtracted(1)
		cfg.emit(event.Event{Type: event.ExtractDone, Name: a.Name})
	}

	// String relocation. The manifest must land in the snapshot: restore
	// depends on it to reverse the move.
	stringsDir := filepath.Join(dataDir, stringsDirName)
	moved, err := relocateStrings(cfg, ws.General, stringsDir)
	if err != nil {
		return Result{Err: err}
	}
	if len(moved) > 0 {
		if err := writeManifest(snapDir, moved); err != nil {
			return Result{Err: err}
		}
		cfg.infof("Moved %d string files to Data/Strings.", len(moved))
	} else {
		cfg.warnf("no STRINGS files found in extracted content")
	}

	soundCount, err := separateSounds(cfg, ws.General, ws.Sounds)
	if err != nil {
		return Result{Err: err}
	}

	var created []string // placeholder logical names, in creation order

	// Main archive, compressed. Skipped entirely when nothing general
	// remains; an empty archive is never emitted.
	general, err := hasFiles(ws.General)
	if err != nil {
		return Result{Err: err}
	}
	if general {
		name := MergedPrefix
		err := packArchive(ctx, cfg, dataDir, ws.General,
			name+" - Main"+archiveExt, name+pluginExt,
			archive2.FormatGeneral, archive2.CompressionDefault)
		if err != nil {
			return Result{Err: err}
		}
		created = append(created, name+pluginExt)
	} else {
		cfg.infof("No general content to repack; skipping Main archive.")
	}

	// Sounds archive, uncompressed.
	if soundCount > 0 {
		name := MergedPrefix + "_Sounds"
		err := packArchive(ctx, cfg, dataDir, ws.Sounds,
			name+" - Main"+archiveExt, name+pluginExt,
			archive2.FormatGeneral, archive2.CompressionNone)
		if err != nil {
			return Result{Err: err}
		}
		created = append(created, name+pluginExt)
	}

	// Texture archives, split so each group's uncompressed input stays
	// under the ceiling.
	texItems, err := listFiles(ws.Textures)
	if err != nil {
		return Result{Err: err}
	}
	groups := split.Pack(texItems, cfg.ceiling())
	for i, group := range groups {
		n := i + 1
		stage := ws.stageDir(n)
		if err := stageGroup(ws.Textures, stage, group); err != nil {
			return Result{Err: err}
		}

		name := fmt.Sprintf("%s_Textures%d", MergedPrefix, n)
		cfg.infof("Repacking textures part %d/%d...", n, len(groups))
		err := packArchive(ctx, cfg, dataDir, stage,
			name+" - Textures"+archiveExt, name+pluginExt,
			archive2.FormatTextures, archive2.CompressionDefault)
		if err != nil {
			return Result{Err: err}
		}
		created = append(created, name+pluginExt)

		// Free staging space before the next group.
		if err := os.RemoveAll(stage); err != nil {
			cfg.warnf("could not remove staging dir %s: %v", stage, err)
		}
	}

	// Registration is advisory: a registry failure does not invalidate
	// the archives already produced.
	if len(created) > 0 {
		if err := cfg.Registry.Add(created); err != nil {
			cfg.warnf("failed to update plugin registry: %v", err)
		}
		cfg.emit(event.Event{Type: event.RegistryUpdated, Total: len(created)})
	}

	// Source cleanup. The merge outcome already stands; failures here are
	// housekeeping warnings.
	for _, a := range archives {
		if err := os.Remove(a.Path); err != nil {
			cfg.warnf("could not delete %s: %v", a.Name, err)
			continue
		}
		cfg.emit(event.Event{Type: event.SourceRemoved, Name: a.Name})
	}

	return Result{Summary: Summary{
		ArchivesCreated:      len(created),
		SourceFilesProcessed: len(archives),
		PlaceholdersCreated:  len(created),
	}}
}

// cleanStale deletes merged output left by a previous run so a fresh run
// never accumulates orphans. Best effort: failures warn, never abort.
func cleanStale(cfg Config, dataDir string) {
	for _, name := range mergedOutputs(dataDir) {
		if err := os.Remove(filepath.Join(dataDir, name)); err != nil {
			cfg.warnf("could not delete %s: %v", name, err)
			continue
		}
		cfg.emit(event.Event{Type: event.StaleRemoved, Name: name})
	}
	stringsDir := filepath.Join(dataDir, stringsDirName)
	for _, name := range mergedOutputs(stringsDir) {
		if err := os.Remove(filepath.Join(stringsDir, name)); err != nil {
			cfg.warnf("could not delete strings file %s: %v", name, err)
			continue
		}
		cfg.emit(event.Event{Type: event.StaleRemoved, Name: name})
	}
}

// stageGroup copies one texture group into an isolated staging directory,
// preserving relative paths, so the tool packs exactly that group.
func stageGroup(srcRoot, stage string, group split.Group) error {
	for _, it := range group.Items {
		dst := filepath.Join(stage, it.Path)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("stage %s: %w", it.Path, err)
		}
		if _, err := platform.CopyPreserve(filepath.Join(srcRoot, it.Path), dst); err != nil {
			return fmt.Errorf("stage %s: %w", it.Path, err)
		}
	}
	return nil
}

// packArchive creates one output archive from srcDir and writes its paired
// placeholder plugin. Optionally verifies the result, warning only.
func packArchive(ctx context.Context, cfg Config, dataDir, srcDir, archiveName, pluginName string, format archive2.Format, comp archive2.Compression) error {
	dest := filepath.Join(dataDir, archiveName)
	cfg.emit(event.Event{Type: event.PackStarted, Name: archiveName})
	if err := cfg.Tool.Create(ctx, srcDir, dest, format, comp); err != nil {
		return err
	}

	var size int64
	if info, err := os.Stat(dest); err == nil {
		size = info.Size()
	}
	cfg.counters().AddArchivesCreated(1)
	cfg.emit(event.Event{Type: event.PackDone, Name: archiveName, Size: size})

	if cfg.VerifyArchives {
		if res := ba2.Check(ctx, dest, cfg.Tool); !res.OK {
			cfg.warnf("verification of %s failed: %s", archiveName, res.Detail)
		} else {
			cfg.emit(event.Event{Type: event.VerifyOK, Name: archiveName})
		}
	}

	if err := writePlaceholder(cfg, dataDir, pluginName); err != nil {
		return err
	}
	return nil
}

// writePlaceholder emits the minimal light-master plugin that makes the
// game engine load the archive sharing its base name.
func writePlaceholder(cfg Config, dataDir, pluginName string) error {
	path := filepath.Join(dataDir, pluginName)
	if err := esl.Write(path); err != nil {
		return fmt.Errorf("write placeholder %s: %w", pluginName, err)
	}
	cfg.counters().AddPlaceholdersWritten(1)
	cfg.emit(event.Event{Type: event.PlaceholderWritten, Name: pluginName})
	return nil
}
