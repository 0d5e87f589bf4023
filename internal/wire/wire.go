package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version  byte = 1
	kindView byte = 1
)

var (
	ErrCorrupt = errors.New("taskview: corrupt entry")
	magic4     = [...]byte{'T', 'V', 'W', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// View frame: magic(4) | ver(1) | kind(1=view) | rev(u64 be) | vlen(u32 be) | payload(vlen)
//
// The revision travels with the snapshot so a reader that no longer knows
// the revision counter (fresh process over a shared store) can detect and
// drop entries written under a counter it cannot verify.
func EncodeView(rev uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindView)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], rev)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeView rejects short, foreign, and trailing-byte inputs (strict framing).
func DecodeView(b []byte) (rev uint64, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindView {
		return 0, nil, ErrCorrupt
	}

	off := 6

	rev = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return 0, nil, ErrCorrupt
	}

	return rev, b[off : off+vlen], nil
}
