package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/platform"
	"github.com/ccpack/ccpack/internal/split"
)

// stringExts are string-resource files pulled out of the merge and kept
// loose so the game finds localization without unpacking anything.
var stringExts = map[string]bool{
	".strings":   true,
	".dlstrings": true,
	".ilstrings": true,
}

// soundExts are audio files packed into their own uncompressed archive.
var soundExts = map[string]bool{
	".xwm": true,
	".wav": true,
	".fuz": true,
	".lip": true,
}

// workspace is the ephemeral extraction tree. Lives for one merge run.
type workspace struct {
	Root     string
	General  string
	Textures string
	Sounds   string
}

// prepareWorkspace creates a fresh extraction tree under dataDir, removing
// any leftover from an aborted earlier run.
func prepareWorkspace(dataDir string) (workspace, error) {
	root := filepath.Join(dataDir, tempDirName)
	if err := os.RemoveAll(root); err != nil {
		return workspace{}, fmt.Errorf("clear workspace: %w", err)
	}

	ws := workspace{
		Root:     root,
		General:  filepath.Join(root, "General"),
		Textures: filepath.Join(root, "Textures"),
		Sounds:   filepath.Join(root, "Sounds"),
	}
	for _, dir := range []string{ws.General, ws.Textures, ws.Sounds} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return workspace{}, fmt.Errorf("create workspace: %w", err)
		}
	}
	return ws, nil
}

// stageDir returns the staging directory for texture group n (1-based).
func (ws workspace) stageDir(n int) string {
	return filepath.Join(ws.Root, fmt.Sprintf("split_%d", n))
}

// relocateStrings moves every string-resource file under generalDir into
// stringsDir (flat, by base name) and returns the moved names. The copy
// deliberately refreshes the modification time so the game's archive
// invalidation picks the files up. Individual failures warn and continue.
func relocateStrings(cfg Config, generalDir, stringsDir string) ([]string, error) {
	if err := os.MkdirAll(stringsDir, 0755); err != nil {
		return nil, fmt.Errorf("create strings dir: %w", err)
	}

	var moved []string
	err := filepath.WalkDir(generalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !stringExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		name := filepath.Base(path)
		if _, err := platform.CopyFresh(path, filepath.Join(stringsDir, name)); err != nil {
			cfg.warnf("failed to move %s: %v", name, err)
			return nil
		}
		// Remove from the workspace so it is not packed into the archive.
		if err := os.Remove(path); err != nil {
			cfg.warnf("failed to remove %s from workspace: %v", name, err)
			return nil
		}
		moved = append(moved, name)
		cfg.counters().AddStringsRelocated(1)
		cfg.emit(event.Event{Type: event.StringRelocated, Name: name})
		return nil
	})
	if err != nil {
		return moved, fmt.Errorf("scan for string files: %w", err)
	}
	return moved, nil
}

// separateSounds moves every audio file under generalDir into soundsDir,
// preserving relative paths, so the next packing step does not capture it.
func separateSounds(cfg Config, generalDir, soundsDir string) (int, error) {
	var paths []string
	err := filepath.WalkDir(generalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && soundExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan for sound files: %w", err)
	}

	for _, path := range paths {
		rel, err := filepath.Rel(generalDir, path)
		if err != nil {
			return 0, err
		}
		dst := filepath.Join(soundsDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return 0, fmt.Errorf("separate %s: %w", rel, err)
		}
		if err := os.Rename(path, dst); err != nil {
			return 0, fmt.Errorf("separate %s: %w", rel, err)
		}
		cfg.counters().AddSoundsSeparated(1)
		cfg.emit(event.Event{Type: event.SoundSeparated, Name: rel})
	}
	return len(paths), nil
}

// listFiles returns every regular file under dir as split items with paths
// relative to dir, in deterministic walk order.
func listFiles(dir string) ([]split.Item, error) {
	var items []split.Item
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		items = append(items, split.Item{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return items, nil
}

// hasFiles reports whether any regular file exists under dir.
func hasFiles(dir string) (bool, error) {
	found := false
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
