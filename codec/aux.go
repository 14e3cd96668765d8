package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/format"
	"github.com/voges/tsc/internal/pool"
	"github.com/voges/tsc/rangecoder"
	"github.com/voges/tsc/stream"
)

// AuxFields is one record's worth of fields owned by AuxCodec, as produced
// by DecodeAuxBlock.
type AuxFields struct {
	QName string
	Flag  uint16
	RName string
	MapQ  uint8
	RNext string
	PNext uint32
	TLen  int64
	Opt   string
}

// AuxCodec accumulates (qname, flag, rname, mapq, rnext, pnext, tlen, opt)
// tuples into a tab/newline-delimited residue string, entropy-coded with
// range order-0 on WriteBlock (spec.md §4.5).
type AuxCodec struct {
	residue *pool.ByteBuffer
	recN    uint64
}

// NewAuxCodec returns an empty AuxCodec ready to accept records.
func NewAuxCodec() *AuxCodec {
	return &AuxCodec{residue: pool.GetResidueBuffer()}
}

// AddRecord appends one record's aux fields to the block's residue.
func (c *AuxCodec) AddRecord(qname string, flag uint16, rname string, mapq uint8, rnext string, pnext uint32, tlen int64, opt string) {
	b := c.residue
	_, _ = b.WriteString(qname)
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(strconv.FormatUint(uint64(flag), 10))
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(rname)
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(strconv.FormatUint(uint64(mapq), 10))
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(rnext)
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(strconv.FormatUint(uint64(pnext), 10))
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(strconv.FormatInt(tlen, 10))
	_ = b.WriteByte('\t')
	_, _ = b.WriteString(opt)
	_ = b.WriteByte('\n')
	c.recN++
}

// WriteBlock entropy-codes the accumulated residue, writes it as a
// "aux-----"-tagged sub-block to sink, and clears the codec for the next
// block.
func (c *AuxCodec) WriteBlock(sink *stream.Sink) error {
	compressed, err := rangecoder.CompressO0(c.residue.Bytes())
	if err != nil {
		return fmt.Errorf("codec: aux write block: %w", err)
	}
	payload := packRangeCoded(compressed, c.residue.Len())
	if err := writeSubBlock(sink, format.AuxMagicPrefix, c.recN, payload); err != nil {
		return err
	}
	c.reset()

	return nil
}

// reset clears the codec's accumulated state for the next block.
func (c *AuxCodec) reset() {
	pool.PutResidueBuffer(c.residue)
	c.residue = pool.GetResidueBuffer()
	c.recN = 0
}

// DecodeAuxBlock reads one aux sub-block from source and returns its
// recCnt-length slice of AuxFields.
func DecodeAuxBlock(source *stream.Source, recCnt uint64) ([]AuxFields, error) {
	payload, storedRecN, err := readSubBlock(source, format.AuxMagicPrefix)
	if err != nil {
		return nil, err
	}
	if storedRecN != recCnt {
		return nil, fmt.Errorf("codec: aux sub-block: %w: header says %d, block says %d",
			errs.ErrRecordCountMismatch, storedRecN, recCnt)
	}
	if recCnt == 0 {
		return nil, nil
	}

	compressed, residueSize, err := unpackRangeCoded(payload)
	if err != nil {
		return nil, fmt.Errorf("codec: aux sub-block: %w", err)
	}
	residue, err := rangecoder.DecompressO0(compressed, residueSize)
	if err != nil {
		return nil, fmt.Errorf("codec: aux decompress: %w", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(residue), "\n"), "\n")
	if uint64(len(lines)) != recCnt {
		return nil, fmt.Errorf("codec: aux sub-block: %w: got %d lines, want %d",
			errs.ErrRecordCountMismatch, len(lines), recCnt)
	}

	out := make([]AuxFields, recCnt)
	for i, line := range lines {
		// opt is last and may itself hold tab-separated tags, so it takes
		// the rest of the line.
		fields := strings.SplitN(line, "\t", 8)
		if len(fields) != 8 { //nolint:mnd // qname,flag,rname,mapq,rnext,pnext,tlen,opt
			return nil, fmt.Errorf("codec: aux record %d: %w: got %d fields", i, errs.ErrFieldCountMismatch, len(fields))
		}

		flag, err := strconv.ParseUint(fields[1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("codec: aux record %d: %w: bad flag", i, errs.ErrMalformedStream)
		}
		mapq, err := strconv.ParseUint(fields[3], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("codec: aux record %d: %w: bad mapq", i, errs.ErrMalformedStream)
		}
		pnext, err := strconv.ParseUint(fields[5], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("codec: aux record %d: %w: bad pnext", i, errs.ErrMalformedStream)
		}
		tlen, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("codec: aux record %d: %w: bad tlen", i, errs.ErrMalformedStream)
		}

		out[i] = AuxFields{
			QName: fields[0],
			Flag:  uint16(flag),
			RName: fields[2],
			MapQ:  uint8(mapq),
			RNext: fields[4],
			PNext: uint32(pnext),
			TLen:  tlen,
			Opt:   fields[7],
		}
	}

	return out, nil
}
