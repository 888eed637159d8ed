package esl

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHeader(t *testing.T) {
	data := Record()
	require.GreaterOrEqual(t, len(data), recordHeaderSize)

	assert.Equal(t, "TES4", string(data[0:4]))

	// Record size counts everything after the 24-byte header.
	size := binary.LittleEndian.Uint32(data[4:8])
	assert.Equal(t, uint32(len(data)-24), size)

	// Master + light-master, nothing else (in particular not Localized 0x80).
	flags := binary.LittleEndian.Uint32(data[8:12])
	assert.Equal(t, uint32(0x201), flags)

	// Form ID, timestamp, version fields are zero.
	for off := 12; off < 24; off += 4 {
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[off:off+4]))
	}
}

func TestRecordSubrecords(t *testing.T) {
	data := Record()

	// HEDR immediately follows the record header.
	off := recordHeaderSize
	require.Equal(t, "HEDR", string(data[off:off+4]))
	hedrLen := binary.LittleEndian.Uint16(data[off+4 : off+6])
	require.Equal(t, uint16(12), hedrLen)
	// Version 1.0 float.
	assert.Equal(t, uint32(0x3f800000), binary.LittleEndian.Uint32(data[off+6:off+10]))
	// Record count and next object ID are zero.
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[off+10:off+14]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[off+14:off+18]))

	// CNAM with null-terminated creator string.
	off += 6 + int(hedrLen)
	require.Equal(t, "CNAM", string(data[off:off+4]))
	cnamLen := int(binary.LittleEndian.Uint16(data[off+4 : off+6]))
	creator := data[off+6 : off+6+cnamLen]
	assert.Equal(t, byte(0), creator[len(creator)-1])
	assert.Equal(t, "CC-Packer", string(creator[:len(creator)-1]))

	// SNAM with null-terminated summary.
	off += 6 + cnamLen
	require.Equal(t, "SNAM", string(data[off:off+4]))
	snamLen := int(binary.LittleEndian.Uint16(data[off+4 : off+6]))
	summary := data[off+6 : off+6+snamLen]
	assert.Equal(t, byte(0), summary[len(summary)-1])

	// INTV closes the record.
	off += 6 + snamLen
	require.Equal(t, "INTV", string(data[off:off+4]))
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(data[off+4:off+6]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[off+6:off+10]))
	assert.Equal(t, len(data), off+10)
}

func TestRecordDeterministic(t *testing.T) {
	assert.Equal(t, Record(), Record())
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CCMerged.esl")
	require.NoError(t, Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Record(), data)
}

func TestWriteBadPath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "CCMerged.esl"))
	require.Error(t, err)
}
