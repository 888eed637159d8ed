package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	DiscoveryDone Type = iota + 1
	StaleRemoved
	BackupStarted
	FileBackedUp
	ExtractStarted
	ExtractDone
	StringRelocated
	SoundSeparated
	PackStarted
	PackDone
	PlaceholderWritten
	RegistryUpdated
	SourceRemoved
	SnapshotSelected
	MergedRemoved
	FileRestored
	SnapshotPruned
	VerifyOK
	VerifyFailed
	Warning
	Info
)

var typeNames = [...]string{
	DiscoveryDone:      "DiscoveryDone",
	StaleRemoved:       "StaleRemoved",
	BackupStarted:      "BackupStarted",
	FileBackedUp:       "FileBackedUp",
	ExtractStarted:     "ExtractStarted",
	ExtractDone:        "ExtractDone",
	StringRelocated:    "StringRelocated",
	SoundSeparated:     "SoundSeparated",
	PackStarted:        "PackStarted",
	PackDone:           "PackDone",
	PlaceholderWritten: "PlaceholderWritten",
	RegistryUpdated:    "RegistryUpdated",
	SourceRemoved:      "SourceRemoved",
	SnapshotSelected:   "SnapshotSelected",
	MergedRemoved:      "MergedRemoved",
	FileRestored:       "FileRestored",
	SnapshotPruned:     "SnapshotPruned",
	VerifyOK:           "VerifyOK",
	VerifyFailed:       "VerifyFailed",
	Warning:            "Warning",
	Info:               "Info",
}

func (t Type) String() string {
	if int(t) > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
//
// Events are produced by the single orchestration goroutine and delivered
// over a FIFO channel, so consumers observe them in emission order.
type Event struct {
	Type      Type
	Timestamp time.Time
	Name      string // archive, plugin, or file name the event refers to
	Message   string // pre-rendered text for Info/Warning events
	Size      int64  // byte size, when meaningful
	Index     int    // 1-based position within a step (e.g. extract 2 of 7)
	Total     int    // total count for the step
	Error     error
}
