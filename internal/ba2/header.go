// Package ba2 performs header-level integrity checks on BA2 archives.
//
// This is not a BA2 reader: only the fixed 24-byte header is parsed, enough
// to tell a plausible archive from a truncated or corrupt one before the
// engine tries to load it.
package ba2

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// BA2 header layout: magic(4) | version(4 LE) | type(4 ASCII) | fileCount(4 LE) | nameTableOffset(8 LE).
const headerSize = 24

// Magic signature "BTDX" in little-endian.
const magic = 0x58445442

// Archive type tags.
const (
	typeGeneral  = "GNRL"
	typeTextures = "DX10"
)

// acceptedVersions covers the original release (1) and the next-gen update (7, 8).
var acceptedVersions = map[uint32]bool{1: true, 7: true, 8: true}

type header struct {
	Magic           uint32
	Version         uint32
	Type            [4]byte
	FileCount       uint32
	NameTableOffset uint64
}

// Result is the outcome of an integrity check.
type Result struct {
	OK     bool
	Detail string
}

func fail(format string, args ...any) Result {
	return Result{Detail: fmt.Sprintf(format, args...)}
}

// Lister can enumerate an archive's contents, typically by shelling out to
// the external archive tool. A timeout while listing counts as a failure.
type Lister interface {
	List(ctx context.Context, archive string) error
}

// CheckHeader validates the fixed binary header of the archive at path.
// It never returns an error: unreadable or malformed files produce a
// failing Result with a diagnostic.
func CheckHeader(path string) Result {
	f, err := os.Open(path)
	if err != nil {
		return fail("cannot open archive: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fail("cannot stat archive: %v", err)
	}
	if info.Size() < headerSize {
		return fail("file too small for a BA2 header (%d bytes)", info.Size())
	}

	var h header
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return fail("truncated BA2 header")
		}
		return fail("cannot read BA2 header: %v", err)
	}

	if h.Magic != magic {
		return fail("bad magic 0x%08X, want BTDX", h.Magic)
	}
	if !acceptedVersions[h.Version] {
		return fail("unsupported BA2 version %d", h.Version)
	}
	typ := string(h.Type[:])
	if typ != typeGeneral && typ != typeTextures {
		return fail("unknown archive type %q", typ)
	}
	if h.NameTableOffset > uint64(info.Size()) {
		return fail("name table offset %d beyond end of file (%d bytes)", h.NameTableOffset, info.Size())
	}

	return Result{
		OK:     true,
		Detail: fmt.Sprintf("%s v%d, %d files", typ, h.Version, h.FileCount),
	}
}

// Check validates the header and, when lister is non-nil, additionally asks
// the external tool to list the archive as a deeper liveness check.
func Check(ctx context.Context, path string, lister Lister) Result {
	res := CheckHeader(path)
	if !res.OK || lister == nil {
		return res
	}
	if err := lister.List(ctx, path); err != nil {
		return fail("header OK but listing failed: %v", err)
	}
	return res
}
