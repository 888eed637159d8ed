package ui

import (
	"fmt"
	"io"

	"github.com/ccpack/ccpack/internal/event"
	"github.com/ccpack/ccpack/internal/stats"
)

// plainPresenter prints one line per engine event, in emission order.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   *stats.Collector
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		p.handleEvent(ev)
	}
	return nil
}

//nolint:gocyclo // one case per event type
func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.DiscoveryDone:
		fmt.Fprintf(p.w, "Found %d CC archives.\n", ev.Total)
	case event.StaleRemoved:
		fmt.Fprintf(p.w, "Removed stale output: %s\n", ev.Name)
	case event.BackupStarted:
		fmt.Fprintf(p.w, "Backing up %d files to %s...\n", ev.Total, ev.Name)
	case event.FileBackedUp:
		if p.verbose {
			fmt.Fprintf(p.w, "  backed up %s (%s)\n", ev.Name, FormatBytes(ev.Size))
		}
	case event.ExtractStarted:
		fmt.Fprintf(p.w, "Extracting [%d/%d]: %s\n", ev.Index, ev.Total, ev.Name)
	case event.ExtractDone:
		if p.verbose {
			fmt.Fprintf(p.w, "  extracted %s\n", ev.Name)
		}
	case event.StringRelocated:
		if p.verbose {
			fmt.Fprintf(p.w, "  moved strings file %s\n", ev.Name)
		}
	case event.SoundSeparated:
		if p.verbose {
			fmt.Fprintf(p.w, "  separated sound file %s\n", ev.Name)
		}
	case event.PackStarted:
		fmt.Fprintf(p.w, "Packing %s...\n", ev.Name)
	case event.PackDone:
		fmt.Fprintf(p.w, "Created %s (%s)\n", ev.Name, FormatBytes(ev.Size))
	case event.PlaceholderWritten:
		fmt.Fprintf(p.w, "Wrote placeholder %s\n", ev.Name)
	case event.RegistryUpdated:
		fmt.Fprintf(p.w, "Updated plugin registry (%d entries).\n", ev.Total)
	case event.SourceRemoved:
		if p.verbose {
			fmt.Fprintf(p.w, "  removed source %s\n", ev.Name)
		}
	case event.SnapshotSelected:
		fmt.Fprintf(p.w, "Restoring from %s...\n", ev.Name)
	case event.MergedRemoved:
		fmt.Fprintf(p.w, "Removed merged output: %s\n", ev.Name)
	case event.FileRestored:
		if p.verbose {
			fmt.Fprintf(p.w, "  restored %s\n", ev.Name)
		}
	case event.SnapshotPruned:
		fmt.Fprintf(p.w, "Removed old backup: %s\n", ev.Name)
	case event.VerifyOK:
		if p.verbose {
			fmt.Fprintf(p.w, "  verified %s\n", ev.Name)
		}
	case event.VerifyFailed:
		fmt.Fprintf(p.errW, "MISMATCH: %s\n", ev.Name)
	case event.Warning:
		fmt.Fprintf(p.errW, "Warning: %s\n", ev.Message)
	case event.Info:
		fmt.Fprintln(p.w, ev.Message)
	}
}

func (p *plainPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}
