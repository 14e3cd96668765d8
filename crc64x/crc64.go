// Package crc64x computes the fixed-polynomial CRC64 checksum used to
// protect every sub-block payload (spec.md §4.2).
//
// The variant is a reflected (LSB-first) CRC64 with polynomial
// 0xAD93D23594C935A9, initial value 0, and no final XOR. The table comes
// from Go's standard hash/crc64.MakeTable, so this package is a thin,
// table-cached wrapper rather than a hand-rolled bit-reflection routine;
// because crc64.Checksum itself inverts the register before and after, the
// wrapper cancels both inversions to get the 0/no-XOR variant. There is no third-party CRC64 implementation
// anywhere in the retrieved example corpus; reusing the standard library's
// table-driven algorithm is the only way to guarantee the encoder and
// decoder agree bit-for-bit on every host, which is the actual
// correctness requirement here (see DESIGN.md).
package crc64x

import "hash/crc64"

// Polynomial is the CRC64 polynomial, in the reflected form
// hash/crc64.MakeTable takes. Both encode and decode must use this exact
// variant.
const Polynomial = 0xAD93D23594C935A9

var table = crc64.MakeTable(Polynomial)

// Checksum returns the CRC64 of data using the fixed Polynomial, initial
// value 0, and no final XOR.
func Checksum(data []byte) uint64 {
	// crc64.Update inverts its input and its result; passing an all-ones
	// seed and inverting the result leaves a register that starts at 0 and
	// gets no final XOR.
	return ^crc64.Update(^uint64(0), table, data)
}
