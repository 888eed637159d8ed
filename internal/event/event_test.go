package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "DiscoveryDone", typ: DiscoveryDone},
		{want: "StaleRemoved", typ: StaleRemoved},
		{want: "BackupStarted", typ: BackupStarted},
		{want: "FileBackedUp", typ: FileBackedUp},
		{want: "ExtractStarted", typ: ExtractStarted},
		{want: "ExtractDone", typ: ExtractDone},
		{want: "StringRelocated", typ: StringRelocated},
		{want: "SoundSeparated", typ: SoundSeparated},
		{want: "PackStarted", typ: PackStarted},
		{want: "PackDone", typ: PackDone},
		{want: "PlaceholderWritten", typ: PlaceholderWritten},
		{want: "RegistryUpdated", typ: RegistryUpdated},
		{want: "SourceRemoved", typ: SourceRemoved},
		{want: "SnapshotSelected", typ: SnapshotSelected},
		{want: "MergedRemoved", typ: MergedRemoved},
		{want: "FileRestored", typ: FileRestored},
		{want: "SnapshotPruned", typ: SnapshotPruned},
		{want: "VerifyOK", typ: VerifyOK},
		{want: "VerifyFailed", typ: VerifyFailed},
		{want: "Warning", typ: Warning},
		{want: "Info", typ: Info},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
}

func TestEventZeroValue(t *testing.T) {
	var e Event
	assert.Equal(t, Type(0), e.Type)
	assert.True(t, e.Timestamp.IsZero())
	assert.Empty(t, e.Name)
	assert.Zero(t, e.Size)
	assert.Zero(t, e.Total)
	require.NoError(t, e.Error)
}

func TestEventFields(t *testing.T) {
	now := time.Now()
	e := Event{
		Type:      ExtractDone,
		Timestamp: now,
		Name:      "ccBGSFO4001-PipBoy(Black).ba2",
		Size:      1024,
		Index:     2,
		Total:     7,
	}
	assert.Equal(t, ExtractDone, e.Type)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "ccBGSFO4001-PipBoy(Black).ba2", e.Name)
	assert.Equal(t, int64(1024), e.Size)
	assert.Equal(t, 2, e.Index)
	assert.Equal(t, 7, e.Total)
}
