package codec

import (
	"fmt"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/format"
	"github.com/voges/tsc/internal/pool"
	"github.com/voges/tsc/rangecoder"
	"github.com/voges/tsc/stream"
)

// QualCodec accumulates qual strings for one block, separated by \n, and
// entropy-codes the residue with range order-1 on WriteBlock. It is the
// simplest of the three codecs and the reference fallthrough shape the
// other two build on (spec.md §4.7).
type QualCodec struct {
	residue *pool.ByteBuffer
	recN    uint64
}

// NewQualCodec returns an empty QualCodec ready to accept records.
func NewQualCodec() *QualCodec {
	return &QualCodec{residue: pool.GetResidueBuffer()}
}

// AddRecord appends one record's qual string to the block's residue.
func (c *QualCodec) AddRecord(qual string) {
	_, _ = c.residue.WriteString(qual)
	_ = c.residue.WriteByte('\n')
	c.recN++
}

// WriteBlock entropy-codes the accumulated residue, writes it as a
// "qual----"-tagged sub-block to sink, and clears the codec for the next
// block.
func (c *QualCodec) WriteBlock(sink *stream.Sink) error {
	compressed, err := rangecoder.CompressO1(c.residue.Bytes())
	if err != nil {
		return fmt.Errorf("codec: qual write block: %w", err)
	}
	payload := packRangeCoded(compressed, c.residue.Len())
	if err := writeSubBlock(sink, format.QualMagicPrefix, c.recN, payload); err != nil {
		return err
	}
	c.reset()

	return nil
}

// reset clears the codec's accumulated state for the next block.
func (c *QualCodec) reset() {
	pool.PutResidueBuffer(c.residue)
	c.residue = pool.GetResidueBuffer()
	c.recN = 0
}

// DecodeQualBlock reads one qual sub-block from source and returns its
// recCnt-length slice of qual strings.
func DecodeQualBlock(source *stream.Source, recCnt uint64) ([]string, error) {
	payload, storedRecN, err := readSubBlock(source, format.QualMagicPrefix)
	if err != nil {
		return nil, err
	}
	if storedRecN != recCnt {
		return nil, fmt.Errorf("codec: qual sub-block: %w: header says %d, block says %d",
			errs.ErrRecordCountMismatch, storedRecN, recCnt)
	}
	if recCnt == 0 {
		return nil, nil
	}

	compressed, residueSize, err := unpackRangeCoded(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: qual sub-block: %w", err)
	}
	residue, err := rangecoder.DecompressO1(compressed, residueSize)
	if err != nil {
		return nil, fmt.Errorf("codec: qual decompress: %w", err)
	}

	return splitResidueLines(residue, recCnt)
}
