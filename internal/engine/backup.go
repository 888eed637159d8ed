package engine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/platform"
)

// createSnapshot copies every source archive into a fresh timestamp-named
// snapshot directory under the backup root, preserving modification times,
// and writes a checksum manifest alongside. The snapshot is the sole undo
// mechanism: it must be complete before any source file is deleted.
func createSnapshot(cfg Config, dataDir string, archives []Archive) (string, error) {
	snapDir := filepath.Join(dataDir, backupDirName, time.Now().Format(snapshotTimeFormat))
	if err := os.MkdirAll(snapDir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	cfg.emit(event.Event{Type: event.BackupStarted, Name: filepath.Base(snapDir), Total: len(archives)})

	sums := make(map[string]string, len(archives))
	for _, a := range archives {
		dst := filepath.Join(snapDir, a.Name)
		if _, err := platform.CopyPreserve(a.Path, dst); err != nil {
			return "", fmt.Errorf("back up %s: %w", a.Name, err)
		}
		sum, err := HashFile(dst)
		if err != nil {
			return "", err
		}
		sums[a.Name] = sum
		cfg.counters().AddFilesBackedUp(1)
		cfg.counters().AddBytesBackedUp(a.Size)
		cfg.emit(event.Event{Type: event.FileBackedUp, Name: a.Name, Size: a.Size})
	}

	if err := writeChecksums(filepath.Join(snapDir, checksumsName), sums); err != nil {
		return "", err
	}
	return snapDir, nil
}

// writeChecksums persists name/digest pairs in "<hex>  <name>" lines,
// sorted by name for determinism.
func writeChecksums(path string, sums map[string]string) error {
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s  %s\n", sums[name], name)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write checksums: %w", err)
	}
	return nil
}

// readChecksums parses a checksum manifest back into name -> digest.
func readChecksums(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sums := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		digest, name, ok := strings.Cut(line, "  ")
		if !ok || digest == "" || name == "" {
			continue
		}
		sums[name] = digest
	}
	return sums, scanner.Err()
}

// writeManifest records the relocated string file names inside the
// snapshot, one per line.
func writeManifest(snapDir string, names []string) error {
	path := filepath.Join(snapDir, manifestName)
	if err := os.WriteFile(path, []byte(strings.Join(names, "\n")+"\n"), 0644); err != nil {
		return fmt.Errorf("write relocation manifest: %w", err)
	}
	return nil
}

// readManifest returns the relocated string file names listed in the
// snapshot's manifest. A missing manifest reads as empty.
func readManifest(snapDir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(snapDir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// snapshots lists snapshot directories under backupRoot, newest first by
// directory modification time. Directory mtime is authoritative: name sort
// could be reordered by clock changes or manual copies.
func snapshots(backupRoot string) ([]string, error) {
	entries, err := os.ReadDir(backupRoot)
	if err != nil {
		return nil, err
	}

	type snap struct {
		path  string
		mtime time.Time
	}
	var snaps []snap
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snaps = append(snaps, snap{
			path:  filepath.Join(backupRoot, entry.Name()),
			mtime: info.ModTime(),
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].mtime.After(snaps[j].mtime) })

	paths := make([]string, len(snaps))
	for i, s := range snaps {
		paths[i] = s.path
	}
	return paths, nil
}
