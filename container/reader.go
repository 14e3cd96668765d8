package container

import (
	"fmt"
	"io"
	"strings"

	"github.com/voges/tsc/codec"
	"github.com/voges/tsc/record"
	"github.com/voges/tsc/section"
	"github.com/voges/tsc/stream"
)

// Reader drives the decoder state machine:
// ReadingFileHeader → ReadingSourceHeader →
// (ReadingBlockHeader → ReadingSubBlock×3 → EmittingRecords)* → Done
// (spec.md §4 "State machines").
type Reader struct {
	source *stream.Source
	header section.FileHeader
}

// NewReader reads and validates the file header from r (magic prefix and
// exact version match; spec.md §4.9), and returns a Reader positioned at
// the start of the source header.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	source := stream.NewSource(r)

	buf, err := source.GetBuf(section.FileHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("container: read file header: %w", err)
	}
	fh, err := section.ParseFileHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("container: read file header: %w", err)
	}

	return &Reader{source: source, header: fh}, nil
}

// Header returns the file header read by NewReader.
func (r *Reader) Header() section.FileHeader {
	return r.header
}

// ReadSourceHeader reads and returns the verbatim source header bytes.
func (r *Reader) ReadSourceHeader() ([]byte, error) {
	sizeBuf, err := r.source.GetBuf(section.SourceHeaderPrefixSize)
	if err != nil {
		return nil, fmt.Errorf("container: read source header: %w", err)
	}
	size, err := section.ParseSourceHeaderPrefix(sizeBuf)
	if err != nil {
		return nil, fmt.Errorf("container: read source header: %w", err)
	}

	data, err := r.source.GetBuf(int(size))
	if err != nil {
		return nil, fmt.Errorf("container: read source header: %w", err)
	}

	return data, nil
}

// ReadAll decodes every block in the file in order and returns the
// reassembled records (spec.md §4.9). Record fields are stitched from the
// three parallel per-block column arrays by index.
func (r *Reader) ReadAll() ([]record.Record, error) {
	records := make([]record.Record, 0, r.header.RecN)
	for blk := uint64(0); blk < r.header.BlkN; blk++ {
		recs, err := r.readBlock()
		if err != nil {
			return nil, fmt.Errorf("container: read block %d: %w", blk, err)
		}
		records = append(records, recs...)
	}

	return records, nil
}

// readBlock reads one block header and its three sub-blocks, and stitches
// per-record field tuples from the resulting parallel arrays.
func (r *Reader) readBlock() ([]record.Record, error) {
	buf, err := r.source.GetBuf(section.BlockHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("block header: %w", err)
	}
	bh, err := section.ParseBlockHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("block header: %w", err)
	}

	auxFields, err := codec.DecodeAuxBlock(r.source, bh.RecCnt)
	if err != nil {
		return nil, err
	}
	nucFields, err := codec.DecodeNucBlock(r.source, bh.RecCnt)
	if err != nil {
		return nil, err
	}
	quals, err := codec.DecodeQualBlock(r.source, bh.RecCnt)
	if err != nil {
		return nil, err
	}

	recs := make([]record.Record, bh.RecCnt)
	for i := range recs {
		recs[i] = record.Record{
			QName: auxFields[i].QName,
			Flag:  auxFields[i].Flag,
			RName: auxFields[i].RName,
			Pos:   nucFields[i].Pos,
			MapQ:  auxFields[i].MapQ,
			CIGAR: nucFields[i].CIGAR,
			RNext: auxFields[i].RNext,
			PNext: auxFields[i].PNext,
			TLen:  auxFields[i].TLen,
			Seq:   nucFields[i].Seq,
			Qual:  quals[i],
			Opt:   auxFields[i].Opt,
		}
	}

	return recs, nil
}

// FormatAll renders records back into the original tab-delimited SAM text
// form (record.Record.Format), joined into one string.
func FormatAll(records []record.Record) string {
	var b strings.Builder
	for _, rec := range records {
		b.WriteString(rec.Format())
	}

	return b.String()
}

// Decode drives a full decode of r into w: file header validation, source
// header passthrough, then block-by-block decode and text emission. It
// writes each block's text as soon as that block decodes successfully, so
// a failure partway through (e.g. a CRC mismatch, spec.md §8 S4) leaves w
// holding only the source header plus whatever complete blocks preceded
// the failure — never a partial or corrupted record.
func Decode(r io.ReadSeeker, w io.Writer) error {
	reader, err := NewReader(r)
	if err != nil {
		return err
	}

	sourceHeader, err := reader.ReadSourceHeader()
	if err != nil {
		return err
	}
	if _, err := w.Write(sourceHeader); err != nil {
		return fmt.Errorf("container: decode: write source header: %w", err)
	}

	for blk := uint64(0); blk < reader.header.BlkN; blk++ {
		recs, err := reader.readBlock()
		if err != nil {
			return fmt.Errorf("container: decode: block %d: %w", blk, err)
		}
		if _, err := w.Write([]byte(FormatAll(recs))); err != nil {
			return fmt.Errorf("container: decode: write block %d: %w", blk, err)
		}
	}

	return nil
}
