// Package plugins edits the engine's line-based plugin activation file
// (plugins.txt). Each line is a plugin file name, optionally prefixed with
// the activation marker. The file is advisory load-order state owned by the
// game; this package only adds and removes individual entries.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker prefixes an entry that is active as a light plugin.
const Marker = "*"

// Registry edits a plugins.txt file at a fixed path.
type Registry struct {
	Path string
}

// DefaultPath resolves the game's plugins.txt location from the
// environment. Returns "" when it cannot be determined, in which case
// registry updates are skipped.
func DefaultPath() string {
	appData := os.Getenv("LOCALAPPDATA")
	if appData == "" {
		return ""
	}
	return filepath.Join(appData, "Fallout4", "plugins.txt")
}

// read parses the file into trimmed lines, dropping bytes that are not
// valid UTF-8. A missing file reads as empty.
func (r Registry) read() ([]string, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.Path, err)
	}
	raw := strings.ToValidUTF8(string(data), "")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r Registry) write(lines []string) error {
	if err := os.WriteFile(r.Path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write %s: %w", r.Path, err)
	}
	return nil
}

// logicalName strips the activation marker, if any.
func logicalName(line string) string {
	return strings.TrimPrefix(line, Marker)
}

// Add appends marker-prefixed entries for each name not already present in
// either bare or marked spelling. Idempotent; writes only on change.
func (r Registry) Add(names []string) error {
	if r.Path == "" {
		return nil
	}
	if dir := filepath.Dir(r.Path); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil // game profile dir absent, nothing to register into
		}
	}

	lines, err := r.read()
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(lines))
	for _, line := range lines {
		present[line] = true
	}

	modified := false
	for _, name := range names {
		if present[name] || present[Marker+name] {
			continue
		}
		lines = append(lines, Marker+name)
		present[Marker+name] = true
		modified = true
	}

	if !modified {
		return nil
	}
	return r.write(lines)
}

// Remove drops every line whose logical name (marker stripped) is in
// names, preserving the order of the remainder. Writes only on change.
func (r Registry) Remove(names []string) error {
	if r.Path == "" {
		return nil
	}
	if _, err := os.Stat(r.Path); err != nil {
		return nil
	}

	lines, err := r.read()
	if err != nil {
		return err
	}

	remove := make(map[string]bool, len(names))
	for _, name := range names {
		remove[name] = true
	}

	kept := lines[:0:0]
	modified := false
	for _, line := range lines {
		if remove[logicalName(line)] {
			modified = true
			continue
		}
		kept = append(kept, line)
	}

	if !modified {
		return nil
	}
	return r.write(kept)
}

// Entries returns the logical names currently listed, in file order.
func (r Registry) Entries() ([]string, error) {
	lines, err := r.read()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = logicalName(line)
	}
	return out, nil
}
