package rangecoder

// model.go builds the static (non-adaptive) frequency tables the order-0
// and order-1 codecs use (spec.md §4.3); header.go carries a table from
// encoder to decoder.

// maxTotalFreq is the ceiling a symbol-frequency table's total is clamped
// to before encoding. It keeps rng/totFreq from underflowing to zero after
// renormalization (rng is always >= topValue == 1<<24 at the start of an
// encodeInterval/decodeInterval call, so totFreq <= maxTotalFreq leaves a
// comfortable margin).
const maxTotalFreq = uint32(1) << 15

// symEntry is one (symbol, frequency) pair as it appears in a table header.
type symEntry struct {
	symbol byte
	freq   uint32
}

// freqTable is a fully-built frequency table ready for encoding or
// decoding: entries in ascending symbol order with cumulative offsets
// precomputed, plus the grand total.
type freqTable struct {
	entries []symEntry
	cum     []uint32 // cum[i] = sum of entries[0:i].freq; len(cum) == len(entries)
	total   uint32
}

// buildFreqTable normalizes raw byte counts into a freqTable whose total
// does not exceed maxTotalFreq. Symbols with a zero count are omitted.
func buildFreqTable(counts *[256]int) freqTable {
	var sum int64
	for _, c := range counts {
		sum += int64(c)
	}
	if sum == 0 {
		return freqTable{}
	}

	var entries []symEntry
	if sum <= int64(maxTotalFreq) {
		for s, c := range counts {
			if c > 0 {
				entries = append(entries, symEntry{symbol: byte(s), freq: uint32(c)})
			}
		}
	} else {
		var scaledSum uint32
		maxIdx := -1
		for s, c := range counts {
			if c == 0 {
				continue
			}
			f := uint32(int64(c) * int64(maxTotalFreq) / sum)
			if f == 0 {
				f = 1
			}
			entries = append(entries, symEntry{symbol: byte(s), freq: f})
			scaledSum += f
			if maxIdx == -1 || f > entries[maxIdx].freq {
				maxIdx = len(entries) - 1
			}
		}
		if diff := int64(maxTotalFreq) - int64(scaledSum); diff != 0 {
			adjusted := int64(entries[maxIdx].freq) + diff
			if adjusted < 1 {
				adjusted = 1
			}
			entries[maxIdx].freq = uint32(adjusted)
		}
	}

	return finishTable(entries)
}

// finishTable computes cumulative offsets and the grand total for entries,
// which must already be in ascending symbol order.
func finishTable(entries []symEntry) freqTable {
	cum := make([]uint32, len(entries))
	var running uint32
	for i, e := range entries {
		cum[i] = running
		running += e.freq
	}

	return freqTable{entries: entries, cum: cum, total: running}
}

// symbolIndex maps a symbol byte to its index in entries, or -1.
func (t freqTable) symbolIndex(sym byte) int {
	for i, e := range t.entries {
		if e.symbol == sym {
			return i
		}
	}

	return -1
}

// findByValue returns the index of the entry whose cumulative interval
// contains value (as returned by decoder.getFreq).
func (t freqTable) findByValue(value uint32) int {
	for i := range t.entries {
		lo := t.cum[i]
		hi := lo + t.entries[i].freq
		if value >= lo && value < hi {
			return i
		}
	}

	return len(t.entries) - 1
}
