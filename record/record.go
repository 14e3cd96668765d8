// Package record defines the typed Record tuple the container package
// dispatches into its three column codecs, plus the text tokenizer and
// formatter that bridge it to the tab-delimited SAM line form (spec.md §3
// EXPANDED; ambient CLI/test tooling, not part of the weighted codec core).
package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voges/tsc/errs"
)

// fieldCount is the number of mandatory tab-separated fields a SAM record
// line carries; OPT is an optional 12th field.
const fieldCount = 11

// Record is the typed tuple produced by parsing one SAM record line.
type Record struct {
	QName, RName, CIGAR, RNext, Seq, Qual, Opt string
	Flag                                       uint16
	Pos, PNext                                 uint32
	MapQ                                       uint8
	TLen                                       int64
}

// Parse tokenizes one tab-delimited SAM record line into a Record. line
// must not include its trailing newline.
func Parse(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < fieldCount {
		return Record{}, fmt.Errorf("record: parse: %w: got %d fields, want at least %d",
			errs.ErrFieldCountMismatch, len(fields), fieldCount)
	}

	flag, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return Record{}, fmt.Errorf("record: parse: bad flag %q: %w", fields[1], err)
	}
	pos, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("record: parse: bad pos %q: %w", fields[3], err)
	}
	mapq, err := strconv.ParseUint(fields[4], 10, 8)
	if err != nil {
		return Record{}, fmt.Errorf("record: parse: bad mapq %q: %w", fields[4], err)
	}
	pnext, err := strconv.ParseUint(fields[7], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("record: parse: bad pnext %q: %w", fields[7], err)
	}
	tlen, err := strconv.ParseInt(fields[8], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("record: parse: bad tlen %q: %w", fields[8], err)
	}

	r := Record{
		QName: fields[0],
		Flag:  uint16(flag),
		RName: fields[2],
		Pos:   uint32(pos),
		MapQ:  uint8(mapq),
		CIGAR: fields[5],
		RNext: fields[6],
		PNext: uint32(pnext),
		TLen:  tlen,
		Seq:   fields[9],
		Qual:  fields[10],
	}
	if len(fields) > fieldCount {
		r.Opt = strings.Join(fields[fieldCount:], "\t")
	}

	return r, nil
}

// Format renders r back into its tab-delimited SAM line form, terminated
// by \n. Trailing empty fields are dropped together with their separators,
// preserving the original record's rightmost-empty truncation (spec.md
// §4.9); an empty field followed by a non-empty one keeps its separators.
func (r Record) Format() string {
	fields := []string{
		r.QName,
		strconv.FormatUint(uint64(r.Flag), 10),
		r.RName,
		strconv.FormatUint(uint64(r.Pos), 10),
		strconv.FormatUint(uint64(r.MapQ), 10),
		r.CIGAR,
		r.RNext,
		strconv.FormatUint(uint64(r.PNext), 10),
		strconv.FormatInt(r.TLen, 10),
		r.Seq,
		r.Qual,
		r.Opt,
	}

	lastNonEmpty := -1
	for i, f := range fields {
		if f != "" {
			lastNonEmpty = i
		}
	}
	// The numeric fields (flag, pos, mapq, pnext, tlen) are never empty
	// text, so lastNonEmpty reaches at least index 8 for any record.

	var b strings.Builder
	for i := 0; i <= lastNonEmpty; i++ {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(fields[i])
	}
	b.WriteByte('\n')

	return b.String()
}
