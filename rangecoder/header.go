package rangecoder

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/errs"
)

// header.go serializes/parses the sparse per-table headers that precede
// the range-coded payload. These are private wire details of this
// package; callers only see CompressO0/DecompressO0/CompressO1/DecompressO1.

// appendTableHeader appends t's entries as a u16 count followed by
// (u8 symbol, u32 freq) pairs.
func appendTableHeader(buf []byte, t freqTable) []byte {
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(t.entries)))
	buf = append(buf, n[:]...)
	for _, e := range t.entries {
		var f [4]byte
		binary.BigEndian.PutUint32(f[:], e.freq)
		buf = append(buf, e.symbol)
		buf = append(buf, f[:]...)
	}

	return buf
}

// readTableHeader parses a table header written by appendTableHeader,
// returning the built freqTable and the number of bytes consumed.
func readTableHeader(buf []byte) (freqTable, int, error) {
	if len(buf) < 2 {
		return freqTable{}, 0, fmt.Errorf("rangecoder: %w: truncated table header", errs.ErrMalformedStream)
	}
	n := int(binary.BigEndian.Uint16(buf))
	pos := 2
	entries := make([]symEntry, 0, n)
	for range n {
		if pos+5 > len(buf) {
			return freqTable{}, 0, fmt.Errorf("rangecoder: %w: truncated table entry", errs.ErrMalformedStream)
		}
		sym := buf[pos]
		freq := binary.BigEndian.Uint32(buf[pos+1 : pos+5])
		if freq == 0 {
			return freqTable{}, 0, fmt.Errorf("rangecoder: %w: zero-frequency table entry", errs.ErrMalformedStream)
		}
		entries = append(entries, symEntry{symbol: sym, freq: freq})
		pos += 5
	}

	return finishTable(entries), pos, nil
}

// appendContextHeader appends the order-1 sparse context header: a u16
// count of present contexts, then for each, the context byte followed by
// its table header.
func appendContextHeader(buf []byte, tables map[byte]freqTable, order []byte) []byte {
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(order)))
	buf = append(buf, n[:]...)
	for _, ctx := range order {
		buf = append(buf, ctx)
		buf = appendTableHeader(buf, tables[ctx])
	}

	return buf
}

// readContextHeader parses an order-1 context header, returning a table
// per context byte and the number of bytes consumed.
func readContextHeader(buf []byte) (map[byte]freqTable, int, error) {
	if len(buf) < 2 {
		return nil, 0, fmt.Errorf("rangecoder: %w: truncated context header", errs.ErrMalformedStream)
	}
	n := int(binary.BigEndian.Uint16(buf))
	pos := 2
	tables := make(map[byte]freqTable, n)
	for range n {
		if pos+1 > len(buf) {
			return nil, 0, fmt.Errorf("rangecoder: %w: truncated context entry", errs.ErrMalformedStream)
		}
		ctx := buf[pos]
		pos++
		t, used, err := readTableHeader(buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		tables[ctx] = t
		pos += used
	}

	return tables, pos, nil
}
