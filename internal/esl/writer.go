// Package esl writes minimal ESL plugin stubs in the TES4 plugin format.
//
// A merged BA2 archive is only loaded by the engine when a plugin of the
// same base name is present and active. The stubs written here carry no
// records beyond the mandatory TES4 header, so they consume a light-master
// slot and nothing else.
package esl

import (
	"encoding/binary"
	"fmt"
	"os"
)

// TES4 record flags.
const (
	flagMaster      = 0x00000001
	flagLightMaster = 0x00000200
)

// recordHeaderSize is the fixed TES4 record header: type(4) + size(4) +
// flags(4) + formid(4) + timestamp/VC(4) + version/unknown(4).
const recordHeaderSize = 24

const (
	creatorName = "CC-Packer\x00"
	summaryText = "Merged Creation Club Content - Localization Ready\x00"
)

// Write builds the stub plugin record and writes it to path.
func Write(path string) error {
	if err := os.WriteFile(path, Record(), 0644); err != nil {
		return fmt.Errorf("write placeholder %s: %w", path, err)
	}
	return nil
}

// Record returns the raw bytes of a minimal master + light-master plugin.
// Field order and sizes follow the engine's plugin format; the record size
// field counts everything after the 24-byte record header.
func Record() []byte {
	buf := make([]byte, 0, 160)
	le := binary.LittleEndian

	u16 := func(v uint16) { buf = le.AppendUint16(buf, v) }
	u32 := func(v uint32) { buf = le.AppendUint32(buf, v) }

	buf = append(buf, "TES4"...)
	sizeOff := len(buf)
	u32(0)                            // record size, patched below
	u32(flagMaster | flagLightMaster) // 0x201
	u32(0)                            // form ID (unused for TES4)
	u32(0)                            // timestamp + version control
	u32(0)                            // form version + unknown

	// HEDR: version float, record count, next object ID.
	buf = append(buf, "HEDR"...)
	u16(12)
	u32(0x3f800000) // 1.0 as IEEE-754
	u32(0)
	u32(0)

	// CNAM: creator name, null-terminated.
	buf = append(buf, "CNAM"...)
	u16(uint16(len(creatorName)))
	buf = append(buf, creatorName...)

	// SNAM: summary, null-terminated.
	buf = append(buf, "SNAM"...)
	u16(uint16(len(summaryText)))
	buf = append(buf, summaryText...)

	// INTV: tagified string count, zero for a stub.
	buf = append(buf, "INTV"...)
	u16(4)
	u32(0)

	le.PutUint32(buf[sizeOff:], uint32(len(buf)-recordHeaderSize))
	return buf
}
