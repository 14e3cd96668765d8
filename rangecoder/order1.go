package rangecoder

import (
	"fmt"
	"sort"
)

// CompressO1 entropy-codes in using one frequency table per previous-byte
// context (256 possible contexts). The initial context, before any byte
// has been coded, is fixed at 0 (spec.md §9 Open Question (c)).
func CompressO1(in []byte) ([]byte, error) {
	var counts [256][256]int
	ctx := byte(0)
	for _, b := range in {
		counts[ctx][b]++
		ctx = b
	}

	tables := make(map[byte]freqTable, 256)
	var order []byte
	for c := range 256 {
		cc := counts[c]
		t := buildFreqTable(&cc)
		if len(t.entries) > 0 {
			tables[byte(c)] = t
			order = append(order, byte(c))
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := appendContextHeader(nil, tables, order)
	if len(in) == 0 {
		return out, nil
	}

	enc := newEncoder()
	ctx = 0
	for _, b := range in {
		table := tables[ctx]
		idx := table.symbolIndex(b)
		enc.encodeInterval(table.cum[idx], table.entries[idx].freq, table.total)
		ctx = b
	}

	return append(out, enc.finish()...), nil
}

// DecompressO1 decodes a stream produced by CompressO1, returning exactly
// expectedOutSize bytes.
func DecompressO1(in []byte, expectedOutSize int) ([]byte, error) {
	tables, used, err := readContextHeader(in)
	if err != nil {
		return nil, fmt.Errorf("rangecoder: decompress_o1: %w", err)
	}
	if expectedOutSize == 0 {
		return nil, nil
	}

	dec := newDecoder(in[used:])
	out := make([]byte, expectedOutSize)
	ctx := byte(0)
	for i := range out {
		table := tables[ctx]
		v := dec.getFreq(table.total)
		idx := table.findByValue(v)
		dec.decodeInterval(table.cum[idx], table.entries[idx].freq)
		out[i] = table.entries[idx].symbol
		ctx = out[i]
	}

	return out, nil
}
