package container

import (
	"fmt"
	"io"

	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/section"
	"github.com/voges/tsc/stream"
)

// BlockInfo is one row of InfoReader.Walk's output: a block header's seven
// fields, without touching any sub-block payload (spec.md §4.10).
type BlockInfo = section.BlockHeader

// InfoReader walks the block-header chain via fpos_nxt, skipping every
// sub-block payload. It is the cheapest way to inspect a file's block
// layout without paying for entropy decoding.
type InfoReader struct {
	source *stream.Source
	header section.FileHeader
}

// NewInfoReader reads and validates the file header from r.
func NewInfoReader(r io.ReadSeeker) (*InfoReader, error) {
	source := stream.NewSource(r)
	buf, err := source.GetBuf(section.FileHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("container: info: read file header: %w", err)
	}
	fh, err := section.ParseFileHeader(buf)
	if err != nil {
		return nil, fmt.Errorf("container: info: read file header: %w", err)
	}

	return &InfoReader{source: source, header: fh}, nil
}

// Header returns the file header read by NewInfoReader.
func (r *InfoReader) Header() section.FileHeader {
	return r.header
}

// Walk skips the source header using its size prefix, then follows
// fpos_nxt from block to block until a zero terminator, returning each
// block header in order. A next offset that does not strictly increase
// from the current header's own offset is treated as a cycle and reported
// as errs.ErrInvariant, terminating the walk cleanly (spec.md §4.10).
func (r *InfoReader) Walk() ([]BlockInfo, error) {
	sizeBuf, err := r.source.GetBuf(section.SourceHeaderPrefixSize)
	if err != nil {
		return nil, fmt.Errorf("container: info: read source header size: %w", err)
	}
	size, err := section.ParseSourceHeaderPrefix(sizeBuf)
	if err != nil {
		return nil, fmt.Errorf("container: info: read source header size: %w", err)
	}
	skipTo := int64(section.FileHeaderSize) + int64(section.SourceHeaderPrefixSize) + int64(size)
	if err := r.source.Seek(skipTo); err != nil {
		return nil, fmt.Errorf("container: info: skip source header: %w", err)
	}

	infos := make([]BlockInfo, 0, r.header.BlkN)
	if r.header.BlkN == 0 {
		return infos, nil
	}

	fpos, err := r.source.Tell()
	if err != nil {
		return nil, fmt.Errorf("container: info: %w", err)
	}

	for {
		if err := r.source.Seek(fpos); err != nil {
			return nil, fmt.Errorf("container: info: %w", err)
		}
		buf, err := r.source.GetBuf(section.BlockHeaderSize)
		if err != nil {
			return nil, fmt.Errorf("container: info: read block header: %w", err)
		}
		bh, err := section.ParseBlockHeader(buf)
		if err != nil {
			return nil, fmt.Errorf("container: info: read block header: %w", err)
		}
		infos = append(infos, bh)

		if bh.FposNxt == 0 {
			break
		}
		if bh.FposNxt <= bh.Fpos {
			return infos, fmt.Errorf("container: info: %w: fpos_nxt %d does not strictly increase from fpos %d",
				errs.ErrInvariant, bh.FposNxt, bh.Fpos)
		}
		fpos = int64(bh.FposNxt)
	}

	return infos, nil
}
