package codec

import (
	"fmt"
	"strings"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/format"
	"github.com/voges/tsc/internal/pool"
	"github.com/voges/tsc/rangecoder"
	"github.com/voges/tsc/ricecoder"
	"github.com/voges/tsc/stream"
)

// NucFields is one record's worth of fields owned by NucCodec, as produced
// by DecodeNucBlock.
type NucFields struct {
	Pos   uint32
	CIGAR string
	Seq   string
}

// NucCodec accumulates (pos, cigar, seq) tuples for one block. On
// WriteBlock it emits three inner streams inside the "nuc-----" sub-block:
// a Rice-coded positional delta stream, and range order-0 coded CIGAR and
// SEQ residues (spec.md §4.6).
type NucCodec struct {
	positions []uint32
	cigars    *pool.ByteBuffer
	seqs      *pool.ByteBuffer
}

// NewNucCodec returns an empty NucCodec ready to accept records.
func NewNucCodec() *NucCodec {
	return &NucCodec{cigars: pool.GetResidueBuffer(), seqs: pool.GetResidueBuffer()}
}

// AddRecord appends one record's nuc fields to the block's accumulators.
func (c *NucCodec) AddRecord(pos uint32, cigar, seq string) {
	c.positions = append(c.positions, pos)
	_, _ = c.cigars.WriteString(cigar)
	_ = c.cigars.WriteByte('\n')
	_, _ = c.seqs.WriteString(seq)
	_ = c.seqs.WriteByte('\n')
}

// WriteBlock entropy-codes the accumulated pos/cigar/seq streams, writes
// them as a "nuc-----"-tagged sub-block to sink, and clears the codec for
// the next block.
func (c *NucCodec) WriteBlock(sink *stream.Sink) error {
	recN := uint64(len(c.positions))

	ricePayload := ricecoder.Encode(posDeltas(c.positions))

	cigarCompressed, err := rangecoder.CompressO0(c.cigars.Bytes())
	if err != nil {
		return fmt.Errorf("codec: nuc write block: cigar: %w", err)
	}
	seqCompressed, err := rangecoder.CompressO0(c.seqs.Bytes())
	if err != nil {
		return fmt.Errorf("codec: nuc write block: seq: %w", err)
	}

	var payload []byte
	payload = appendLengthPrefixed(payload, ricePayload)
	payload = appendLengthPrefixed(payload, packRangeCoded(cigarCompressed, c.cigars.Len()))
	payload = appendLengthPrefixed(payload, packRangeCoded(seqCompressed, c.seqs.Len()))

	if err := writeSubBlock(sink, format.NucMagicPrefix, recN, payload); err != nil {
		return err
	}
	c.reset()

	return nil
}

// reset clears the codec's accumulated state for the next block.
func (c *NucCodec) reset() {
	c.positions = c.positions[:0]
	pool.PutResidueBuffer(c.cigars)
	c.cigars = pool.GetResidueBuffer()
	pool.PutResidueBuffer(c.seqs)
	c.seqs = pool.GetResidueBuffer()
}

// DecodeNucBlock reads one nuc sub-block from source and returns its
// recCnt-length slice of NucFields.
func DecodeNucBlock(source *stream.Source, recCnt uint64) ([]NucFields, error) {
	payload, storedRecN, err := readSubBlock(source, format.NucMagicPrefix)
	if err != nil {
		return nil, err
	}
	if storedRecN != recCnt {
		return nil, fmt.Errorf("codec: nuc sub-block: %w: header says %d, block says %d",
			errs.ErrRecordCountMismatch, storedRecN, recCnt)
	}
	if recCnt == 0 {
		return nil, nil
	}

	ricePayload, n, err := readLengthPrefixed(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: pos stream: %w", err)
	}
	payload = payload[n:]

	cigarPacked, n, err := readLengthPrefixed(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: cigar stream: %w", err)
	}
	payload = payload[n:]

	seqPacked, _, err := readLengthPrefixed(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: seq stream: %w", err)
	}

	deltas, err := ricecoder.Decode(ricePayload, int(recCnt))
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: pos decode: %w", err)
	}
	positions := undoPosDeltas(deltas)

	cigarCompressed, cigarLen, err := unpackRangeCoded(cigarPacked)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: cigar: %w", err)
	}
	cigarResidue, err := rangecoder.DecompressO0(cigarCompressed, cigarLen)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: cigar decompress: %w", err)
	}
	cigars, err := splitResidueLines(cigarResidue, recCnt)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: cigar: %w", err)
	}

	seqCompressed, seqLen, err := unpackRangeCoded(seqPacked)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: seq: %w", err)
	}
	seqResidue, err := rangecoder.DecompressO0(seqCompressed, seqLen)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: seq decompress: %w", err)
	}
	seqs, err := splitResidueLines(seqResidue, recCnt)
	if err != nil {
		return nil, fmt.Errorf("codec: nuc sub-block: seq: %w", err)
	}

	out := make([]NucFields, recCnt)
	for i := range out {
		out[i] = NucFields{Pos: positions[i], CIGAR: cigars[i], Seq: seqs[i]}
	}

	return out, nil
}

// posDeltas turns absolute positions into the Rice coder's unsigned value
// sequence: the first position verbatim, then zigzag-encoded signed
// differences from the previous position (spec.md §4.6).
func posDeltas(positions []uint32) []uint64 {
	values := make([]uint64, len(positions))
	if len(positions) == 0 {
		return values
	}
	values[0] = uint64(positions[0])
	for i := 1; i < len(positions); i++ {
		d := int64(positions[i]) - int64(positions[i-1])
		values[i] = zigzagEncode(d)
	}

	return values
}

// undoPosDeltas is the dual of posDeltas.
func undoPosDeltas(values []uint64) []uint32 {
	positions := make([]uint32, len(values))
	if len(values) == 0 {
		return positions
	}
	positions[0] = uint32(values[0])
	prev := int64(positions[0])
	for i := 1; i < len(values); i++ {
		prev += zigzagDecode(values[i])
		positions[i] = uint32(prev)
	}

	return positions
}

// zigzagEncode maps a signed integer to an unsigned one so small-magnitude
// negative and positive deltas both map to small Rice-coder values.
func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// zigzagDecode is the dual of zigzagEncode.
func zigzagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// splitResidueLines splits a \n-joined, \n-terminated residue into exactly
// n lines.
func splitResidueLines(residue []byte, n uint64) ([]string, error) {
	lines := strings.Split(strings.TrimSuffix(string(residue), "\n"), "\n")
	if uint64(len(lines)) != n {
		return nil, fmt.Errorf("%w: got %d lines, want %d", errs.ErrRecordCountMismatch, len(lines), n)
	}

	return lines, nil
}
