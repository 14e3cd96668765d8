// Package pool provides pooled scratch buffers for the codec residue streams.
//
// Each block-codec (aux, nuc, qual) accumulates a residue byte stream across
// the records of one block, entropy-codes it, then clears it for the next
// block. Pooling that scratch buffer across blocks (and across files, for
// long-lived encoder processes) avoids a per-block allocation for the common
// case of many similarly-sized blocks.
package pool

import "sync"

// ResidueBufferDefaultSize is the default capacity of a residue buffer
// obtained from the pool. A block whose residue is larger (a default-sized
// 10,000-record block usually is) grows the buffer on demand.
const ResidueBufferDefaultSize = 1024 * 64 // 64KiB

// ResidueBufferMaxThreshold is the largest buffer capacity retained by the
// pool on Put. Buffers larger than this (e.g. from an unusually large
// block) are discarded rather than pooled, to avoid memory bloat from one
// outlier block inflating every future Get.
const ResidueBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB

// ByteBuffer is a growable byte buffer intended for reuse via sync.Pool.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the buffer's current contents.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes currently held.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer while retaining its allocated capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

var residuePool = sync.Pool{
	New: func() any {
		return NewByteBuffer(ResidueBufferDefaultSize)
	},
}

// GetResidueBuffer retrieves an empty ByteBuffer from the shared pool.
func GetResidueBuffer() *ByteBuffer {
	bb, _ := residuePool.Get().(*ByteBuffer)
	return bb
}

// PutResidueBuffer returns bb to the shared pool after resetting it.
// Buffers larger than ResidueBufferMaxThreshold are dropped instead of
// pooled.
func PutResidueBuffer(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if cap(bb.B) > ResidueBufferMaxThreshold {
		return
	}
	bb.Reset()
	residuePool.Put(bb)
}
