// Package stream provides length-prefixed, big-endian primitive I/O over a
// seekable byte stream (spec.md §4.1).
//
// Sink wraps an io.WriteSeeker for sequential writes with an occasional
// back-seek (used by container.Writer to patch a previous block header's
// fpos_nxt once the next block's offset is known). Source wraps an
// io.ReadSeeker for the symmetric read side. Every multi-byte integer is
// big-endian on disk, independent of the host's native byte order — see
// PutUint32/GetUint32 and PutUint64/GetUint64.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/voges/tsc/errs"
)

// Sink writes primitive values to an io.WriteSeeker.
//
// Sink is not safe for concurrent use; the container format is single
// producer, single consumer per file (spec.md §5).
type Sink struct {
	w   io.WriteSeeker
	buf [8]byte
}

// NewSink wraps w for primitive big-endian writes.
func NewSink(w io.WriteSeeker) *Sink {
	return &Sink{w: w}
}

// PutByte writes a single byte.
func (s *Sink) PutByte(b byte) error {
	s.buf[0] = b
	n, err := s.w.Write(s.buf[:1])
	if err != nil {
		return fmt.Errorf("stream: put byte: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("stream: put byte: %w", errs.ErrShortWrite)
	}

	return nil
}

// PutBuf writes buf verbatim.
func (s *Sink) PutBuf(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := s.w.Write(buf)
	if err != nil {
		return fmt.Errorf("stream: put buf: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("stream: put buf: %w", errs.ErrShortWrite)
	}

	return nil
}

// PutUint32 writes x as 4 big-endian bytes.
func (s *Sink) PutUint32(x uint32) error {
	binary.BigEndian.PutUint32(s.buf[:4], x)

	return s.PutBuf(s.buf[:4])
}

// PutUint64 writes x as 8 big-endian bytes.
func (s *Sink) PutUint64(x uint64) error {
	binary.BigEndian.PutUint64(s.buf[:8], x)

	return s.PutBuf(s.buf[:8])
}

// Tell returns the current absolute offset in the underlying stream.
func (s *Sink) Tell() (int64, error) {
	off, err := s.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("stream: tell: %w", errs.ErrSeek)
	}

	return off, nil
}

// Seek moves the write position to the given absolute offset.
func (s *Sink) Seek(absOffset int64) error {
	_, err := s.w.Seek(absOffset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("stream: seek to %d: %w", absOffset, errs.ErrSeek)
	}

	return nil
}

// Source reads primitive values from an io.ReadSeeker.
//
// Source is not safe for concurrent use (spec.md §5).
type Source struct {
	r   io.ReadSeeker
	buf [8]byte
}

// NewSource wraps r for primitive big-endian reads.
func NewSource(r io.ReadSeeker) *Source {
	return &Source{r: r}
}

// GetByte reads a single byte.
func (s *Source) GetByte() (byte, error) {
	if _, err := io.ReadFull(s.r, s.buf[:1]); err != nil {
		return 0, fmt.Errorf("stream: get byte: %w", shortReadErr(err))
	}

	return s.buf[0], nil
}

// GetBuf reads exactly n bytes.
func (s *Source) GetBuf(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, fmt.Errorf("stream: get buf(%d): %w", n, shortReadErr(err))
	}

	return buf, nil
}

// GetUint32 reads 4 big-endian bytes and returns them as a uint32.
func (s *Source) GetUint32() (uint32, error) {
	if _, err := io.ReadFull(s.r, s.buf[:4]); err != nil {
		return 0, fmt.Errorf("stream: get uint32: %w", shortReadErr(err))
	}

	return binary.BigEndian.Uint32(s.buf[:4]), nil
}

// GetUint64 reads 8 big-endian bytes and returns them as a uint64.
func (s *Source) GetUint64() (uint64, error) {
	if _, err := io.ReadFull(s.r, s.buf[:8]); err != nil {
		return 0, fmt.Errorf("stream: get uint64: %w", shortReadErr(err))
	}

	return binary.BigEndian.Uint64(s.buf[:8]), nil
}

// Tell returns the current absolute offset in the underlying stream.
func (s *Source) Tell() (int64, error) {
	off, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("stream: tell: %w", errs.ErrSeek)
	}

	return off, nil
}

// Seek moves the read position to the given absolute offset.
func (s *Source) Seek(absOffset int64) error {
	_, err := s.r.Seek(absOffset, io.SeekStart)
	if err != nil {
		return fmt.Errorf("stream: seek to %d: %w", absOffset, errs.ErrSeek)
	}

	return nil
}

// shortReadErr maps io.EOF/io.ErrUnexpectedEOF to errs.ErrShortRead while
// passing other errors through unwrapped (they already carry useful
// context from the underlying reader).
func shortReadErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF { //nolint:errorlint // sentinel check from stdlib io.ReadFull
		return errs.ErrShortRead
	}

	return err
}
