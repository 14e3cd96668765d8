package codec

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voges/tsc/stream"
)

// seekBuf adapts a byte slice into an io.ReadWriteSeeker, letting a single
// Sink/Source pair exercise a codec's WriteBlock/Decode round trip.
type seekBuf struct {
	data []byte
	pos  int64
}

func (s *seekBuf) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	n := copy(s.data[s.pos:end], p)
	s.pos = end

	return n, nil
}

func (s *seekBuf) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(len(s.data)) + offset
	}

	return s.pos, nil
}

func TestAuxCodec_RoundTrip(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewAuxCodec()
	c.AddRecord("r1", 0, "chr1", 30, "*", 0, 0, "")
	c.AddRecord("r2", 16, "chr2", 60, "=", 100, -50, "NM:i:0")
	c.AddRecord("r3", 4, "*", 0, "*", 0, 0, "")
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeAuxBlock(source, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, AuxFields{QName: "r1", Flag: 0, RName: "chr1", MapQ: 30, RNext: "*", PNext: 0, TLen: 0, Opt: ""}, got[0])
	require.Equal(t, AuxFields{QName: "r2", Flag: 16, RName: "chr2", MapQ: 60, RNext: "=", PNext: 100, TLen: -50, Opt: "NM:i:0"}, got[1])
	require.Equal(t, AuxFields{QName: "r3", Flag: 4, RName: "*", MapQ: 0, RNext: "*", PNext: 0, TLen: 0, Opt: ""}, got[2])
}

func TestAuxCodec_ZeroRecordBlock(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewAuxCodec()
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeAuxBlock(source, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestNucCodec_RoundTrip(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewNucCodec()
	c.AddRecord(1, "5M", "ACGTA")
	c.AddRecord(6, "3M2I", "ACG")
	c.AddRecord(0, "*", "")
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeNucBlock(source, 3)
	require.NoError(t, err)
	require.Equal(t, []NucFields{
		{Pos: 1, CIGAR: "5M", Seq: "ACGTA"},
		{Pos: 6, CIGAR: "3M2I", Seq: "ACG"},
		{Pos: 0, CIGAR: "*", Seq: ""},
	}, got)
}

func TestNucCodec_LargeDeltas(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewNucCodec()
	positions := []uint32{1, 1000000, 500, 999999999, 1}
	for _, p := range positions {
		c.AddRecord(p, "1M", "A")
	}
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeNucBlock(source, uint64(len(positions)))
	require.NoError(t, err)
	for i, p := range positions {
		require.Equal(t, p, got[i].Pos)
	}
}

func TestQualCodec_RoundTrip(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewQualCodec()
	c.AddRecord("!!!!!")
	c.AddRecord("IIIIIIIIII")
	c.AddRecord("")
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeQualBlock(source, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"!!!!!", "IIIIIIIIII", ""}, got)
}

func TestQualCodec_ZeroRecordBlock(t *testing.T) {
	buf := &seekBuf{}
	sink := stream.NewSink(buf)

	c := NewQualCodec()
	require.NoError(t, c.WriteBlock(sink))

	require.NoError(t, sink.Seek(0))
	source := stream.NewSource(buf)
	got, err := DecodeQualBlock(source, 0)
	require.NoError(t, err)
	require.Empty(t, got)
}
