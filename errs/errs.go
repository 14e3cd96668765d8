// Package errs defines the sentinel errors shared across tsc's packages.
//
// Call sites wrap these with additional context using fmt.Errorf("...: %w", errs.ErrX),
// so callers can still branch on the taxonomy with errors.Is while getting a
// human-readable message.
package errs

import "errors"

// I/O errors (spec taxonomy: Io).
var (
	// ErrShortWrite is returned when a write to a stream.Sink writes fewer
	// bytes than requested.
	ErrShortWrite = errors.New("short write")
	// ErrShortRead is returned when a read from a stream.Source returns
	// fewer bytes than requested before EOF.
	ErrShortRead = errors.New("short read")
	// ErrSeek is returned when seeking on the underlying stream fails.
	ErrSeek = errors.New("seek failed")
)

// Header errors (spec taxonomy: MalformedHeader).
var (
	// ErrInvalidHeaderSize is returned when a header buffer is not the
	// expected fixed size.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrBadMagic is returned when a magic prefix does not match what is
	// expected for the section being read.
	ErrBadMagic = errors.New("bad magic")
	// ErrVersionMismatch is returned when the file header's version field
	// does not match this build's version string exactly.
	ErrVersionMismatch = errors.New("version mismatch")
)

// Block errors (spec taxonomy: MalformedBlock).
var (
	// ErrBadSubBlockMagic is returned when a sub-block's magic tag does not
	// match the column it was read for.
	ErrBadSubBlockMagic = errors.New("bad sub-block magic")
	// ErrChecksumMismatch is returned when a sub-block payload's CRC64 does
	// not match its stored checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrFieldCountMismatch is returned when a decoded residue line does not
	// split into the expected number of tab-separated fields.
	ErrFieldCountMismatch = errors.New("field count mismatch")
	// ErrRecordCountMismatch is returned when a sub-block's decoded record
	// count does not match the block header's rec_cnt.
	ErrRecordCountMismatch = errors.New("record count mismatch")
)

// Stream (entropy coder) errors (spec taxonomy: MalformedStream).
var (
	// ErrMalformedStream is returned when a range- or Rice-coded stream's
	// header cannot be parsed, or its frequency table is internally
	// inconsistent.
	ErrMalformedStream = errors.New("malformed entropy-coded stream")
)

// Truncation errors (spec taxonomy: Truncated).
var (
	// ErrTruncated is returned when a stream ends before a symbol or header
	// has been fully consumed.
	ErrTruncated = errors.New("truncated stream")
)

// Internal invariant errors (spec taxonomy: Invariant).
var (
	// ErrInvariant is returned when an internal invariant is violated, e.g.
	// a back-patch target offset precedes the header being patched.
	ErrInvariant = errors.New("internal invariant violated")
)
