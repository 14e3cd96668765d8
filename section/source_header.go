package section

import (
	"encoding/binary"
	"fmt"

	"github.com/voges/tsc/errs"
)

// SourceHeaderPrefixSize is the size of the u64 length prefix preceding the
// opaque source header bytes.
const SourceHeaderPrefixSize = 8

// SourceHeader wraps the original SAM text header (the lines beginning with
// `@`), carried verbatim so decode can reproduce it byte-for-byte
// (spec.md §4.9).
type SourceHeader struct {
	Data []byte
}

// Bytes serializes h as a u64 size prefix followed by Data.
func (h SourceHeader) Bytes() []byte {
	b := make([]byte, SourceHeaderPrefixSize+len(h.Data))
	binary.BigEndian.PutUint64(b[:SourceHeaderPrefixSize], uint64(len(h.Data)))
	copy(b[SourceHeaderPrefixSize:], h.Data)

	return b
}

// ParseSourceHeaderPrefix decodes the u64 size prefix from an 8-byte buffer.
func ParseSourceHeaderPrefix(data []byte) (uint64, error) {
	if len(data) != SourceHeaderPrefixSize {
		return 0, fmt.Errorf("section: source header prefix: %w", errs.ErrInvalidHeaderSize)
	}

	return binary.BigEndian.Uint64(data), nil
}
