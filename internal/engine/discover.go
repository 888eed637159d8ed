package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Archive is a discovered source content archive. Immutable once
// discovered; read-only input to the merge.
type Archive struct {
	Path     string
	Name     string
	Size     int64
	Textures bool
}

const contentPrefix = "cc"

// isContentName reports whether name matches the cc*.ba2 content pattern,
// case-insensitively.
func isContentName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, contentPrefix) && strings.HasSuffix(lower, archiveExt)
}

// isMergedName reports whether name belongs to this tool's merged output.
func isMergedName(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), strings.ToLower(MergedPrefix))
}

// discover locates source content archives directly under dataDir,
// excluding previously merged output. Distinguishes "nothing matched" from
// "only merged output matched" so the caller can report the right error.
func discover(dataDir string) ([]Archive, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var archives []Archive
	sawMerged := false
	for _, entry := range entries {
		if entry.IsDir() || !isContentName(entry.Name()) {
			continue
		}
		if isMergedName(entry.Name()) {
			sawMerged = true
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		archives = append(archives, Archive{
			Path:     filepath.Join(dataDir, entry.Name()),
			Name:     entry.Name(),
			Size:     info.Size(),
			Textures: strings.Contains(strings.ToLower(entry.Name()), "texture"),
		})
	}

	if len(archives) == 0 {
		if sawMerged {
			return nil, ErrOnlyMerged
		}
		return nil, ErrNoContent
	}
	return archives, nil
}

// mergedOutputs lists files under dir carrying the merged-output prefix.
// A missing dir reads as empty.
func mergedOutputs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isMergedName(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names
}
