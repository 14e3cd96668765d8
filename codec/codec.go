// Package codec implements the three column codecs that dispatch a record
// stream into parallel sub-blocks: AuxCodec, NucCodec, and QualCodec
// (spec.md §4.5–§4.7).
//
// Each codec accumulates an in-memory residue byte stream across the
// records of one block (a pooled internal/pool.ByteBuffer), entropy-codes
// it with rangecoder or ricecoder on WriteBlock, wraps the result in a
// section.SubBlockHeader-prefixed sub-block, and clears its buffer for the
// next block — mirroring the side-by-side encoder layout of mebo's
// encoding package (ts_delta.go, ts_raw.go, numeric_raw.go next to each
// other under one conceptual column-encoder contract).
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/crc64x"
	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/section"
	"github.com/voges/tsc/stream"
)

// writeSubBlock entropy-codes nothing itself; it wraps an already-encoded
// payload in a sub-block header and writes both to sink.
func writeSubBlock(sink *stream.Sink, magicPrefix string, recN uint64, payload []byte) error {
	sum := crc64x.Checksum(payload)
	h := section.NewSubBlockHeader(magicPrefix, recN, payload, sum)
	if err := sink.PutBuf(h.Bytes()); err != nil {
		return fmt.Errorf("codec: write %s sub-block header: %w", magicPrefix, err)
	}
	if err := sink.PutBuf(payload); err != nil {
		return fmt.Errorf("codec: write %s sub-block payload: %w", magicPrefix, err)
	}

	return nil
}

// readSubBlock reads a sub-block header, verifies its magic and CRC64, and
// returns its payload and declared record count.
func readSubBlock(source *stream.Source, magicPrefix string) (payload []byte, recN uint64, err error) {
	hdrBuf, err := source.GetBuf(section.SubBlockHeaderSize)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: read %s sub-block header: %w", magicPrefix, err)
	}
	h, err := section.ParseSubBlockHeader(hdrBuf, magicPrefix)
	if err != nil {
		return nil, 0, fmt.Errorf("codec: read %s sub-block header: %w", magicPrefix, err)
	}

	payload, err = source.GetBuf(int(h.PayloadSz))
	if err != nil {
		return nil, 0, fmt.Errorf("codec: read %s sub-block payload: %w", magicPrefix, err)
	}
	if got := crc64x.Checksum(payload); got != h.Crc64 {
		return nil, 0, fmt.Errorf("codec: %s sub-block: %w: got %#x, want %#x",
			magicPrefix, errs.ErrChecksumMismatch, got, h.Crc64)
	}

	return payload, h.RecN, nil
}

// appendLengthPrefixed appends a u64 length prefix and then data, used for
// the inner length-prefixed streams packed inside NucCodec's payload
// (spec.md §4.6).
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(data)))
	buf = append(buf, n[:]...)

	return append(buf, data...)
}

// readLengthPrefixed reads a u64 length prefix followed by that many bytes
// from buf, returning the data and the number of bytes consumed.
func readLengthPrefixed(buf []byte) ([]byte, int, error) {
	if len(buf) < 8 {
		return nil, 0, fmt.Errorf("codec: %w: truncated length prefix", errs.ErrMalformedStream)
	}
	n := int(binary.BigEndian.Uint64(buf))
	if len(buf) < 8+n {
		return nil, 0, fmt.Errorf("codec: %w: truncated length-prefixed stream", errs.ErrMalformedStream)
	}

	return buf[8 : 8+n], 8 + n, nil
}

// packRangeCoded prepends a residue stream's decompressed byte length to its
// range-coded form. rangecoder's Decompress* calls need that length up
// front (they decode a caller-specified symbol count, spec.md §4.3), and
// unlike NucCodec's per-stream record counts, a residue's decompressed byte
// length isn't otherwise derivable from the block's record count alone
// (field text is variable-width) — so it travels with the payload instead.
func packRangeCoded(compressed []byte, decompressedLen int) []byte {
	buf := make([]byte, 8, 8+len(compressed))
	binary.BigEndian.PutUint64(buf, uint64(decompressedLen))

	return append(buf, compressed...)
}

// unpackRangeCoded is the dual of packRangeCoded.
func unpackRangeCoded(payload []byte) (compressed []byte, decompressedLen int, err error) {
	if len(payload) < 8 {
		return nil, 0, fmt.Errorf("codec: %w: truncated range-coded length prefix", errs.ErrMalformedStream)
	}

	return payload[8:], int(binary.BigEndian.Uint64(payload[:8])), nil
}
