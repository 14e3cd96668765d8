package section

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/errs"
)

// BlockHeaderSize is the on-disk size of BlockHeader: seven u64 fields
// (spec.md §6).
const BlockHeaderSize = 7 * 8

// BlockHeaderFposNxtOffset is FposNxt's byte offset within a serialized
// BlockHeader, used by container.Writer to seek directly to it for
// back-patching without rewriting the rest of the header.
const BlockHeaderFposNxtOffset = 8

// BlockHeader precedes a block's three sub-blocks. FposNxt is the single
// retrograde mutation in the format: the writer back-patches it once the
// next block's offset is known (spec.md §4.8).
type BlockHeader struct {
	// Fpos is the absolute file offset of this header's first byte.
	Fpos uint64
	// FposNxt is the offset of the next block's header, or 0 for the
	// last block in the file.
	FposNxt uint64
	// BlkCnt is this block's ordinal, from 0.
	BlkCnt uint64
	// RecCnt is the number of records in this block.
	RecCnt uint64
	// ChrCnt is an optional indexing hint: the distinct rname count
	// observed while encoding this block (0 when unused).
	ChrCnt uint64
	// PosMin is an optional indexing hint: the minimum pos seen in this
	// block's records (0 when unused).
	PosMin uint64
	// PosMax is an optional indexing hint: the maximum pos seen in this
	// block's records (0 when unused).
	PosMax uint64
}

// Bytes serializes h into its 56-byte on-disk form.
func (h BlockHeader) Bytes() []byte {
	b := make([]byte, BlockHeaderSize)
	binary.BigEndian.PutUint64(b[0:8], h.Fpos)
	binary.BigEndian.PutUint64(b[8:16], h.FposNxt)
	binary.BigEndian.PutUint64(b[16:24], h.BlkCnt)
	binary.BigEndian.PutUint64(b[24:32], h.RecCnt)
	binary.BigEndian.PutUint64(b[32:40], h.ChrCnt)
	binary.BigEndian.PutUint64(b[40:48], h.PosMin)
	binary.BigEndian.PutUint64(b[48:56], h.PosMax)

	return b
}

// ParseBlockHeader parses a 56-byte buffer into a BlockHeader.
func ParseBlockHeader(data []byte) (BlockHeader, error) {
	if len(data) != BlockHeaderSize {
		return BlockHeader{}, fmt.Errorf("section: block header: %w", errs.ErrInvalidHeaderSize)
	}

	return BlockHeader{
		Fpos:    binary.BigEndian.Uint64(data[0:8]),
		FposNxt: binary.BigEndian.Uint64(data[8:16]),
		BlkCnt:  binary.BigEndian.Uint64(data[16:24]),
		RecCnt:  binary.BigEndian.Uint64(data[24:32]),
		ChrCnt:  binary.BigEndian.Uint64(data[32:40]),
		PosMin:  binary.BigEndian.Uint64(data[40:48]),
		PosMax:  binary.BigEndian.Uint64(data[48:56]),
	}, nil
}
