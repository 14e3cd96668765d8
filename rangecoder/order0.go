// Package rangecoder implements a byte-oriented range (arithmetic) coder
// with order-0 (memoryless) and order-1 (previous-byte-conditional)
// contexts, per spec.md §4.3.
//
// Both orders are "static" models in the sense that the encoder makes one
// pass over the input to build a frequency table, emits that table as a
// compact header, and only then range-codes the symbols against the fixed
// table — there is no online adaptation during the coding pass itself. The
// decoder reads the header, rebuilds the identical table, and decodes
// exactly the number of symbols the caller tells it to expect. The coded
// output does not carry that length; the codec package stores it next to
// the payload (see codec.packRangeCoded).
package rangecoder

import "fmt"

// CompressO0 entropy-codes in using a single, memoryless frequency table
// built from in's own byte histogram. The returned slice is self-delimiting
// in the sense that it carries its own symbol-frequency table; the
// original length must still be supplied to DecompressO0 by the caller.
func CompressO0(in []byte) ([]byte, error) {
	var counts [256]int
	for _, b := range in {
		counts[b]++
	}
	table := buildFreqTable(&counts)

	out := appendTableHeader(nil, table)
	if len(in) == 0 {
		return out, nil
	}

	enc := newEncoder()
	for _, b := range in {
		idx := table.symbolIndex(b)
		enc.encodeInterval(table.cum[idx], table.entries[idx].freq, table.total)
	}

	return append(out, enc.finish()...), nil
}

// DecompressO0 decodes a stream produced by CompressO0, returning exactly
// expectedOutSize bytes.
func DecompressO0(in []byte, expectedOutSize int) ([]byte, error) {
	table, used, err := readTableHeader(in)
	if err != nil {
		return nil, fmt.Errorf("rangecoder: decompress_o0: %w", err)
	}
	if expectedOutSize == 0 {
		return nil, nil
	}

	dec := newDecoder(in[used:])
	out := make([]byte, expectedOutSize)
	for i := range out {
		v := dec.getFreq(table.total)
		idx := table.findByValue(v)
		dec.decodeInterval(table.cum[idx], table.entries[idx].freq)
		out[i] = table.entries[idx].symbol
	}

	return out, nil
}
