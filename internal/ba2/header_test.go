package ba2

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeHeader builds a synthetic BA2 with the given header fields and
// optional trailing payload.
func writeHeader(t *testing.T, magic string, version uint32, typ string, fileCount uint32, nameTableOffset uint64, payload int) string {
	t.Helper()
	buf := make([]byte, 0, headerSize+payload)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, version)
	buf = append(buf, typ...)
	buf = binary.LittleEndian.AppendUint32(buf, fileCount)
	buf = binary.LittleEndian.AppendUint64(buf, nameTableOffset)
	buf = append(buf, make([]byte, payload)...)

	path := filepath.Join(t.TempDir(), "test.ba2")
	require.NoError(t, os.WriteFile(path, buf, 0644))
	return path
}

func TestCheckHeaderValid(t *testing.T) {
	path := writeHeader(t, "BTDX", 1, "GNRL", 42, 24, 100)
	res := CheckHeader(path)
	assert.True(t, res.OK, res.Detail)
	assert.Contains(t, res.Detail, "GNRL")
	assert.Contains(t, res.Detail, "42 files")
}

func TestCheckHeaderTextures(t *testing.T) {
	for _, version := range []uint32{1, 7, 8} {
		path := writeHeader(t, "BTDX", version, "DX10", 1, 24, 0)
		res := CheckHeader(path)
		assert.True(t, res.OK, res.Detail)
	}
}

func TestCheckHeaderRejects(t *testing.T) {
	tests := []struct {
		name   string
		path   func(t *testing.T) string
		detail string
	}{
		{
			name:   "wrong magic",
			path:   func(t *testing.T) string { return writeHeader(t, "MPQX", 1, "GNRL", 0, 24, 0) },
			detail: "bad magic",
		},
		{
			name:   "bad version",
			path:   func(t *testing.T) string { return writeHeader(t, "BTDX", 2, "GNRL", 0, 24, 0) },
			detail: "version",
		},
		{
			name:   "bad type",
			path:   func(t *testing.T) string { return writeHeader(t, "BTDX", 1, "XXXX", 0, 24, 0) },
			detail: "archive type",
		},
		{
			name:   "name table beyond EOF",
			path:   func(t *testing.T) string { return writeHeader(t, "BTDX", 1, "GNRL", 0, 9999, 0) },
			detail: "beyond end of file",
		},
		{
			name: "too small",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "tiny.ba2")
				require.NoError(t, os.WriteFile(p, []byte("BTDX"), 0644))
				return p
			},
			detail: "too small",
		},
		{
			name: "missing file",
			path: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nope.ba2")
			},
			detail: "cannot open",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckHeader(tt.path(t))
			assert.False(t, res.OK)
			assert.Contains(t, res.Detail, tt.detail)
		})
	}
}

type fakeLister struct {
	err    error
	called int
}

func (f *fakeLister) List(_ context.Context, _ string) error {
	f.called++
	return f.err
}

func TestCheckWithLister(t *testing.T) {
	path := writeHeader(t, "BTDX", 1, "GNRL", 1, 24, 0)

	ok := &fakeLister{}
	res := Check(context.Background(), path, ok)
	assert.True(t, res.OK)
	assert.Equal(t, 1, ok.called)

	bad := &fakeLister{err: errors.New("timed out")}
	res = Check(context.Background(), path, bad)
	assert.False(t, res.OK)
	assert.Contains(t, res.Detail, "listing failed")
}

func TestCheckSkipsListerOnBadHeader(t *testing.T) {
	path := writeHeader(t, "MPQX", 1, "GNRL", 0, 24, 0)
	l := &fakeLister{}
	res := Check(context.Background(), path, l)
	assert.False(t, res.OK)
	assert.Zero(t, l.called)
}

func TestCheckNilLister(t *testing.T) {
	path := writeHeader(t, "BTDX", 1, "GNRL", 1, 24, 0)
	res := Check(context.Background(), path, nil)
	assert.True(t, res.OK)
}
