// Package ricecoder implements a Golomb-Rice coder for sequences of
// nonnegative integers, per spec.md §4.4.
//
// A single parameter k, chosen once per block from the data's mean, is
// written as a leading byte; each value v is then coded as q = v>>k unary
// one-bits terminated by a zero-bit, followed by the k low bits of v,
// MSB-first. This is the classic exp-distributed small-integer coding used
// for the nucleotide predictor's positional deltas (nuc residue stream,
// spec.md §4.6), where most deltas cluster near zero and a handful spike.
package ricecoder

import (
	"fmt"

	"github.com/voges/tsc/errs"
)

// maxK is the largest Rice parameter chooseK will select, however large
// the mean; 32 is already far beyond what any realistic 32-bit pos delta
// mean would select (see chooseK).
const maxK = 32

// Encode Rice-codes values using a parameter chosen from their mean
// (chooseK), and returns the parameter byte followed by the packed bits.
func Encode(values []uint64) []byte {
	k := chooseK(values)

	w := &bitWriter{}
	out := make([]byte, 1, 1+len(values)) //nolint:mnd // leading k byte
	out[0] = byte(k)

	for _, v := range values {
		w.writeUnary(v >> k)
		w.writeBits(v, k)
	}

	return append(out, w.bytes()...)
}

// Decode reverses Encode, reading exactly n values. It returns
// errs.ErrTruncated if the input ends mid-symbol.
func Decode(in []byte, n int) ([]uint64, error) {
	if len(in) < 1 {
		return nil, fmt.Errorf("ricecoder: decode: %w: missing k byte", errs.ErrTruncated)
	}
	k := uint(in[0])

	r := &bitReader{in: in[1:]}
	out := make([]uint64, n)
	for i := range out {
		q, ok := r.readUnary()
		if !ok {
			return nil, fmt.Errorf("ricecoder: decode: %w: symbol %d", errs.ErrTruncated, i)
		}
		low, ok := r.readBits(k)
		if !ok {
			return nil, fmt.Errorf("ricecoder: decode: %w: symbol %d", errs.ErrTruncated, i)
		}
		out[i] = (q << k) | low
	}

	return out, nil
}

// chooseK picks the Rice parameter that makes q = v>>k average close to 1
// for the given values, i.e. k ≈ log2(mean). This is the textbook
// mean-based Rice parameter estimate; an empty or all-zero input yields
// k == 0.
func chooseK(values []uint64) uint {
	if len(values) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range values {
		sum += v
	}
	mean := sum / uint64(len(values))

	k := uint(0)
	for (uint64(1) << k) < mean && k < maxK {
		k++
	}

	return k
}
