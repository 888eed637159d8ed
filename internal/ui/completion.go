package ui

import (
	"fmt"

	"github.com/ccpack/ccpack/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot.
// Format: done ✓  merged 7 -> 3 archives  placeholders 3  backed up 4.2 GiB  time 3m 17s  warnings 0
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.Warnings > 0 {
		icon = "⚠"
	}

	base := fmt.Sprintf("done %s  merged %s -> %s archives  placeholders %s",
		icon,
		FormatCount(snap.ArchivesFound),
		FormatCount(snap.ArchivesCreated),
		FormatCount(snap.PlaceholdersWritten),
	)

	if snap.FilesRestored > 0 {
		base = fmt.Sprintf("done %s  restored %s files", icon, FormatCount(snap.FilesRestored))
	}

	if snap.BytesBackedUp > 0 {
		base += fmt.Sprintf("  backed up %s", FormatBytes(snap.BytesBackedUp))
	}

	base += fmt.Sprintf("  time %s  warnings %d", FormatDuration(snap.Elapsed), snap.Warnings)

	return base
}
