package section

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/format"
)

// FileHeaderSize is the on-disk size of FileHeader: magic[5] + flags[1] +
// version[5] + rec_n[8] + blk_n[8] + blk_lc[8] (spec.md §6, canonical
// layout).
const FileHeaderSize = 5 + 1 + 5 + 8 + 8 + 8

// reservedOffset is where the spec's unfinished FASTQ/LUT extension would
// read a lut_pos offset out of the flags byte; no bit is assigned to it yet
// (spec.md §9 "Cyclic intent" — reserve, don't implement).
const reservedOffset = 5

// FileHeaderRecNOffset and FileHeaderBlkNOffset are the absolute byte
// offsets container.Writer seeks to at Close to back-patch the final
// record and block counts, once both are known (spec.md §4.8 step 5).
const (
	FileHeaderRecNOffset = 11
	FileHeaderBlkNOffset = 19
)

// FileHeader is the 35-byte header every container file begins with.
type FileHeader struct {
	// Version is the build's five-character version string, compared
	// byte-for-byte on decode (spec.md §9 Open Question (b)).
	Version string
	// RecN is the total record count across the file, set at finalize.
	RecN uint64
	// BlkN is the total block count, set at finalize.
	BlkN uint64
	// BlkLc is the per-file block-size parameter (records per block).
	BlkLc uint64
	// Reserved is the currently-unused flags byte. The FASTQ/LUT
	// extension sketched in spec.md §9 would claim bits here; core
	// code always writes 0, and ParseFileHeader reads it back unchecked.
	Reserved byte
}

// NewFileHeader returns a FileHeader for a fresh encode, stamped with this
// build's version string and the given block-size cap.
func NewFileHeader(blkLc uint64) FileHeader {
	return FileHeader{Version: format.Version, BlkLc: blkLc}
}

// Bytes serializes h into its 35-byte on-disk form.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)
	copy(b[0:5], format.FileMagic)
	b[reservedOffset] = h.Reserved
	version := padVersion(h.Version)
	copy(b[6:11], version[:])
	binary.BigEndian.PutUint64(b[11:19], h.RecN)
	binary.BigEndian.PutUint64(b[19:27], h.BlkN)
	binary.BigEndian.PutUint64(b[27:35], h.BlkLc)

	return b
}

// ParseFileHeader parses a 35-byte buffer into a FileHeader, validating the
// magic prefix and the exact-match version string (spec.md §4.9).
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) != FileHeaderSize {
		return FileHeader{}, fmt.Errorf("section: file header: %w", errs.ErrInvalidHeaderSize)
	}
	if string(data[0:5]) != format.FileMagic {
		return FileHeader{}, fmt.Errorf("section: file header: %w", errs.ErrBadMagic)
	}

	h := FileHeader{
		Reserved: data[reservedOffset],
		Version:  string(data[6:11]),
		RecN:     binary.BigEndian.Uint64(data[11:19]),
		BlkN:     binary.BigEndian.Uint64(data[19:27]),
		BlkLc:    binary.BigEndian.Uint64(data[27:35]),
	}
	if h.Version != format.Version {
		return FileHeader{}, fmt.Errorf("section: file header: %w: got %q, want %q",
			errs.ErrVersionMismatch, h.Version, format.Version)
	}

	return h, nil
}

// padVersion truncates or zero-pads s to exactly format's version width,
// used defensively if a caller ever constructs a FileHeader by hand with a
// shorter string.
func padVersion(s string) [5]byte {
	var v [5]byte
	copy(v[:], s)

	return v
}
