package rangecoder

// engine.go implements the low-level 32-bit carry-propagating range coder
// that both the order-0 and order-1 models (model.go) ride on top of.
//
// This is the classic byte-oriented range coder construction found in the
// LZMA family of codecs: a 64-bit `low` accumulator lets a carry out of the
// 32-bit range register ripple into already-buffered output bytes via a
// run-length-counted cache, instead of the encoder needing to look ahead.
// Renormalization shifts a byte out whenever the range drops below
// topValue (1<<24), which is the "top byte stable" condition spec.md §4.3
// describes in prose. Encoder and decoder are written side by side in this
// package and are only required to agree with each other bit-for-bit —
// there is no requirement to match a third-party bitstream.
const topValue = uint32(1) << 24

// encoder is the low-level range encoder. It knows nothing about symbol
// probabilities; callers supply a cumulative frequency interval
// [cumFreq, cumFreq+freq) out of totFreq per symbol.
type encoder struct {
	low       uint64
	rng       uint32
	cache     byte
	cacheSize int64
	out       []byte
}

func newEncoder() *encoder {
	return &encoder{rng: 0xFFFFFFFF, cacheSize: 1}
}

// shiftLow emits the top byte of low once it has stabilized, propagating
// any carry into the run of pending 0xFF bytes buffered in cache/cacheSize.
func (e *encoder) shiftLow() {
	if uint32(e.low>>32) != 0 || e.low < 0xFF000000 {
		temp := e.cache
		for {
			e.out = append(e.out, temp+byte(e.low>>32))
			temp = 0xFF
			e.cacheSize--
			if e.cacheSize == 0 {
				break
			}
		}
		e.cache = byte(e.low >> 24)
	}
	e.cacheSize++
	e.low = (e.low << 8) & 0xFFFFFFFF
}

// encodeInterval narrows the coder's range to [cumFreq, cumFreq+freq) out of
// totFreq and renormalizes.
func (e *encoder) encodeInterval(cumFreq, freq, totFreq uint32) {
	r := e.rng / totFreq
	e.low += uint64(r) * uint64(cumFreq)
	e.rng = r * freq
	for e.rng < topValue {
		e.rng <<= 8
		e.shiftLow()
	}
}

// finish flushes the remaining state and returns the encoded bytes. The
// first emitted byte is always a redundant zero consumed by decoder.init's
// 5-byte preload (see below); this mirrors the classic LZMA range coder
// bitstream and is not special-cased away, to keep encoder and decoder
// symmetric and simple.
func (e *encoder) finish() []byte {
	for range 5 {
		e.shiftLow()
	}

	return e.out
}

// decoder is the dual of encoder.
type decoder struct {
	rng  uint32
	code uint32
	in   []byte
	pos  int
}

func newDecoder(in []byte) *decoder {
	d := &decoder{rng: 0xFFFFFFFF, in: in}
	for range 5 {
		d.code = (d.code << 8) | uint32(d.readByte())
	}

	return d
}

// readByte returns the next input byte, or 0 once the input is exhausted.
// Reading zeros past the end mirrors the encoder's own flush behavior and
// keeps the decoder from needing a separate "out of data" error path for
// the handful of trailing pad bytes every stream legitimately has.
func (d *decoder) readByte() byte {
	if d.pos < len(d.in) {
		b := d.in[d.pos]
		d.pos++

		return b
	}

	return 0
}

// getFreq returns the cumulative-frequency point the coder's current state
// corresponds to, out of totFreq. The caller uses this to find which
// symbol's interval contains it, then calls decodeInterval with that
// symbol's (cumFreq, freq).
func (d *decoder) getFreq(totFreq uint32) uint32 {
	d.rng /= totFreq
	v := d.code / d.rng
	if v >= totFreq {
		v = totFreq - 1
	}

	return v
}

// decodeInterval consumes the symbol whose interval [cumFreq, cumFreq+freq)
// contains the value returned by getFreq, and renormalizes.
func (d *decoder) decodeInterval(cumFreq, freq uint32) {
	d.code -= cumFreq * d.rng
	d.rng *= freq
	for d.rng < topValue {
		d.code = (d.code << 8) | uint32(d.readByte())
		d.rng <<= 8
	}
}
