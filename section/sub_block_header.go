package section

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/format"
)

// SubBlockHeaderSize is the fixed-size prefix of a sub-block, before its
// payload: magic[8] + rec_n[8] + payload_sz[8] + crc64[8] (spec.md §3, §6).
const SubBlockHeaderSize = format.SubBlockMagicSize + 8 + 8 + 8

// SubBlockHeader is the fixed-size prefix of one column's entropy-coded
// payload within a block.
type SubBlockHeader struct {
	Magic     [format.SubBlockMagicSize]byte
	RecN      uint64
	PayloadSz uint64
	Crc64     uint64
}

// NewSubBlockHeader builds a header for a just-encoded payload.
func NewSubBlockHeader(magicPrefix string, recN uint64, payload []byte, crc64 uint64) SubBlockHeader {
	return SubBlockHeader{
		Magic:     format.SubBlockMagic(magicPrefix),
		RecN:      recN,
		PayloadSz: uint64(len(payload)),
		Crc64:     crc64,
	}
}

// Bytes serializes h into its 32-byte on-disk form.
func (h SubBlockHeader) Bytes() []byte {
	b := make([]byte, SubBlockHeaderSize)
	copy(b[0:format.SubBlockMagicSize], h.Magic[:])
	off := format.SubBlockMagicSize
	binary.BigEndian.PutUint64(b[off:off+8], h.RecN)
	binary.BigEndian.PutUint64(b[off+8:off+16], h.PayloadSz)
	binary.BigEndian.PutUint64(b[off+16:off+24], h.Crc64)

	return b
}

// ParseSubBlockHeader parses a 32-byte buffer into a SubBlockHeader and
// verifies its magic matches wantMagicPrefix.
func ParseSubBlockHeader(data []byte, wantMagicPrefix string) (SubBlockHeader, error) {
	if len(data) != SubBlockHeaderSize {
		return SubBlockHeader{}, fmt.Errorf("section: sub-block header: %w", errs.ErrInvalidHeaderSize)
	}

	var h SubBlockHeader
	copy(h.Magic[:], data[0:format.SubBlockMagicSize])
	off := format.SubBlockMagicSize
	h.RecN = binary.BigEndian.Uint64(data[off : off+8])
	h.PayloadSz = binary.BigEndian.Uint64(data[off+8 : off+16])
	h.Crc64 = binary.BigEndian.Uint64(data[off+16 : off+24])

	if !format.MatchesSubBlockMagic(h.Magic, wantMagicPrefix) {
		return SubBlockHeader{}, fmt.Errorf("section: sub-block header: %w: want %q magic", errs.ErrBadSubBlockMagic, wantMagicPrefix)
	}

	return h, nil
}
