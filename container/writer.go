// Package container implements ContainerWriter, ContainerReader, and
// InfoReader: the block-oriented file format that drives the three column
// codecs and stitches their output back into record streams (spec.md
// §4.8–§4.10).
package container

import (
	"fmt"
	"io"

	"github.com/voges/tsc/codec"
	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/internal/options"
	"github.com/voges/tsc/internal/xxh"
	"github.com/voges/tsc/record"
	"github.com/voges/tsc/section"
	"github.com/voges/tsc/stream"
)

// Writer drives the encoder state machine:
// WritingFileHeader → WritingSourceHeader → (Accumulating → FlushingBlock)* →
// Finalizing (spec.md §4 "State machines"). It owns the three column codecs
// exclusively for the file's lifetime and is not safe for concurrent use
// (spec.md §5).
type Writer struct {
	sink *stream.Sink

	blkLc uint64

	aux  *codec.AuxCodec
	nuc  *codec.NucCodec
	qual *codec.QualCodec

	curBlockRecN uint64
	totalRecN    uint64
	blkCnt       uint64

	rnames       *xxh.DistinctSet
	posMin       uint64
	posMax       uint64
	blockStarted bool

	prevBlockHeaderOffset int64 // -1 until the first block header is written
}

// NewWriter writes the file header and source header to w and returns a
// Writer ready to accept records. sourceHeader is the original SAM text
// header, carried verbatim (spec.md §4.8 steps 1–2).
func NewWriter(w io.WriteSeeker, sourceHeader []byte, opts ...Option) (*Writer, error) {
	writer := &Writer{
		sink:                  stream.NewSink(w),
		blkLc:                 defaultBlockSize,
		aux:                   codec.NewAuxCodec(),
		nuc:                   codec.NewNucCodec(),
		qual:                  codec.NewQualCodec(),
		rnames:                xxh.NewDistinctSet(),
		prevBlockHeaderOffset: -1,
	}
	if err := options.Apply(writer, opts...); err != nil {
		return nil, fmt.Errorf("container: new writer: %w", err)
	}

	fh := section.NewFileHeader(writer.blkLc)
	if err := writer.sink.PutBuf(fh.Bytes()); err != nil {
		return nil, fmt.Errorf("container: write file header: %w", err)
	}

	sh := section.SourceHeader{Data: sourceHeader}
	if err := writer.sink.PutBuf(sh.Bytes()); err != nil {
		return nil, fmt.Errorf("container: write source header: %w", err)
	}

	return writer, nil
}

// AddRecord dispatches rec into the three column codecs, flushing the
// current block first if it is already full (spec.md §4.8 step 3).
func (w *Writer) AddRecord(rec record.Record) error {
	if w.curBlockRecN >= w.blkLc {
		if err := w.flushBlock(false); err != nil {
			return err
		}
	}

	w.aux.AddRecord(rec.QName, rec.Flag, rec.RName, rec.MapQ, rec.RNext, rec.PNext, rec.TLen, rec.Opt)
	w.nuc.AddRecord(rec.Pos, rec.CIGAR, rec.Seq)
	w.qual.AddRecord(rec.Qual)

	w.rnames.Add(rec.RName)
	if !w.blockStarted || uint64(rec.Pos) < w.posMin {
		w.posMin = uint64(rec.Pos)
	}
	if !w.blockStarted || uint64(rec.Pos) > w.posMax {
		w.posMax = uint64(rec.Pos)
	}
	w.blockStarted = true

	w.curBlockRecN++
	w.totalRecN++

	return nil
}

// Close flushes any pending final block and back-patches the file header's
// rec_n and blk_n slots (spec.md §4.8 steps 4–5).
func (w *Writer) Close() error {
	// An empty record stream writes zero blocks (spec.md §8 S1): flushing
	// here only happens when at least one record is pending.
	if w.curBlockRecN > 0 {
		if err := w.flushBlock(true); err != nil {
			return err
		}
	}

	end, err := w.sink.Tell()
	if err != nil {
		return fmt.Errorf("container: close: %w", err)
	}

	if err := w.sink.Seek(section.FileHeaderRecNOffset); err != nil {
		return fmt.Errorf("container: close: %w", err)
	}
	if err := w.sink.PutUint64(w.totalRecN); err != nil {
		return fmt.Errorf("container: close: patch rec_n: %w", err)
	}
	if err := w.sink.Seek(section.FileHeaderBlkNOffset); err != nil {
		return fmt.Errorf("container: close: %w", err)
	}
	if err := w.sink.PutUint64(w.blkCnt); err != nil {
		return fmt.Errorf("container: close: patch blk_n: %w", err)
	}

	return w.sink.Seek(end)
}

// flushBlock writes the current block's header and three sub-blocks, then
// back-patches the previous block header's fpos_nxt to point at it. final
// marks the very last block of the file (its own fpos_nxt stays 0).
func (w *Writer) flushBlock(final bool) error {
	fpos, err := w.sink.Tell()
	if err != nil {
		return fmt.Errorf("container: flush block: %w", err)
	}

	posMin, posMax := w.posMin, w.posMax
	if !w.blockStarted {
		posMin, posMax = 0, 0
	}
	bh := section.BlockHeader{
		Fpos:    uint64(fpos),
		FposNxt: 0,
		BlkCnt:  w.blkCnt,
		RecCnt:  w.curBlockRecN,
		ChrCnt:  uint64(w.rnames.Count()),
		PosMin:  posMin,
		PosMax:  posMax,
	}
	if err := w.sink.PutBuf(bh.Bytes()); err != nil {
		return fmt.Errorf("container: write block header: %w", err)
	}

	if err := w.aux.WriteBlock(w.sink); err != nil {
		return fmt.Errorf("container: flush block %d: %w", w.blkCnt, err)
	}
	if err := w.nuc.WriteBlock(w.sink); err != nil {
		return fmt.Errorf("container: flush block %d: %w", w.blkCnt, err)
	}
	if err := w.qual.WriteBlock(w.sink); err != nil {
		return fmt.Errorf("container: flush block %d: %w", w.blkCnt, err)
	}

	if err := w.backPatchPrev(fpos); err != nil {
		return err
	}

	w.prevBlockHeaderOffset = fpos
	w.blkCnt++
	w.curBlockRecN = 0
	w.rnames.Reset()
	w.blockStarted = false
	_ = final // the last block's fpos_nxt is simply never back-patched

	return nil
}

// backPatchPrev seeks back to the previous block header's fpos_nxt slot and
// writes nextFpos, then restores the sink's position to the end of the
// stream (spec.md §4.8's write-then-back-patch discipline).
func (w *Writer) backPatchPrev(nextFpos int64) error {
	if w.prevBlockHeaderOffset < 0 {
		return nil
	}
	if nextFpos <= w.prevBlockHeaderOffset {
		return fmt.Errorf("container: back-patch: %w: next block at %d does not follow header at %d",
			errs.ErrInvariant, nextFpos, w.prevBlockHeaderOffset)
	}

	end, err := w.sink.Tell()
	if err != nil {
		return fmt.Errorf("container: back-patch: %w", err)
	}
	if err := w.sink.Seek(w.prevBlockHeaderOffset + section.BlockHeaderFposNxtOffset); err != nil {
		return fmt.Errorf("container: back-patch: %w", err)
	}
	if err := w.sink.PutUint64(uint64(nextFpos)); err != nil {
		return fmt.Errorf("container: back-patch: %w", err)
	}

	return w.sink.Seek(end)
}
