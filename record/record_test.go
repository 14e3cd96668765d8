package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_Format_RoundTrip(t *testing.T) {
	line := "r1\t0\tr\t1\t30\t5M\t*\t0\t0\tACGTA\t!!!!!"
	r, err := Parse(line)
	require.NoError(t, err)
	require.Equal(t, Record{
		QName: "r1", Flag: 0, RName: "r", Pos: 1, MapQ: 30,
		CIGAR: "5M", RNext: "*", PNext: 0, TLen: 0, Seq: "ACGTA", Qual: "!!!!!",
	}, r)
	require.Equal(t, line+"\n", r.Format())
}

func TestParse_WithOpt(t *testing.T) {
	line := "r2\t16\tchr2\t100\t60\t3M\t=\t50\t-30\tACG\tIII\tNM:i:0\tMD:Z:3"
	r, err := Parse(line)
	require.NoError(t, err)
	require.Equal(t, "NM:i:0\tMD:Z:3", r.Opt)
	require.Equal(t, line+"\n", r.Format())
}

func TestParse_TooFewFields(t *testing.T) {
	_, err := Parse("too\tfew\tfields")
	require.Error(t, err)
}

func TestFormat_UnmappedRecord(t *testing.T) {
	r := Record{QName: "r3", Flag: 4, RName: "*", Pos: 0, MapQ: 0, CIGAR: "*", RNext: "*", PNext: 0, TLen: 0, Seq: "*", Qual: ""}
	require.Equal(t, "r3\t4\t*\t0\t0\t*\t*\t0\t0\t*\n", r.Format())
}

func TestFormat_EmptyQualAndOpt(t *testing.T) {
	r := Record{QName: "r4", RName: "chr1", CIGAR: "1M", RNext: "*", Seq: "A"}
	require.Equal(t, "r4\t0\tchr1\t0\t0\t1M\t*\t0\t0\tA\n", r.Format())
}
