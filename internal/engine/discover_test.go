package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiltersAndClassifies(t *testing.T) {
	dataDir := t.TempDir()
	for _, name := range []string{
		"ccBGSFO4001-PipBoy - Main.ba2",
		"CCbgsfo4003-Paint - Textures.ba2", // prefix match is case-insensitive
		"CCMerged - Main.ba2",              // own output, excluded
		"Fallout4 - Meshes.ba2",            // base game, excluded
		"ccNotes.txt",                      // wrong extension
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "ccSomeDir - Main.ba2"), 0755))

	archives, err := discover(dataDir)
	require.NoError(t, err)
	require.Len(t, archives, 2)

	assert.Equal(t, "CCbgsfo4003-Paint - Textures.ba2", archives[0].Name)
	assert.True(t, archives[0].Textures)
	assert.Equal(t, "ccBGSFO4001-PipBoy - Main.ba2", archives[1].Name)
	assert.False(t, archives[1].Textures)
	assert.Equal(t, int64(1), archives[1].Size)
}

func TestDiscoverEmptyAndMergedOnly(t *testing.T) {
	dataDir := t.TempDir()
	_, err := discover(dataDir)
	assert.ErrorIs(t, err, ErrNoContent)

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ccmerged_sounds - main.ba2"), []byte("x"), 0644))
	_, err = discover(dataDir)
	assert.ErrorIs(t, err, ErrOnlyMerged)
}

func TestMergedOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CCMerged.esl"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CCMerged_Textures1 - Textures.ba2"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ccBGSFO4001 - Main.ba2"), []byte("x"), 0644))

	assert.ElementsMatch(t,
		[]string{"CCMerged.esl", "CCMerged_Textures1 - Textures.ba2"},
		mergedOutputs(dir))

	assert.Empty(t, mergedOutputs(filepath.Join(dir, "missing")))
}
