package container

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voges/tsc/errs"
	"github.com/voges/tsc/record"
	"github.com/voges/tsc/section"
)

// seekBuf adapts a byte slice into an io.ReadWriteSeeker for exercising a
// Writer/Reader pair against a single underlying store.
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

func sampleRecord(qname string, pos uint32) record.Record {
	return record.Record{
		QName: qname, Flag: 0, RName: "r", Pos: pos, MapQ: 30,
		CIGAR: "5M", RNext: "*", PNext: 0, TLen: 0, Seq: "ACGTA", Qual: "!!!!!",
	}
}

func TestS1_EmptyStream(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@HD\tVN:1.6\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	r, err := NewReader(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(0), r.Header().BlkN)

	sh, err := r.ReadSourceHeader()
	require.NoError(t, err)
	require.Equal(t, "@HD\tVN:1.6\n", string(sh))

	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestS2_OneRecord(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@SQ\tSN:r\tLN:10\n"))
	require.NoError(t, err)
	require.NoError(t, w.AddRecord(sampleRecord("r1", 1)))
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	r, err := NewReader(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(1), r.Header().BlkN)
	require.Equal(t, uint64(1), r.Header().RecN)

	_, err = r.ReadSourceHeader()
	require.NoError(t, err)

	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []record.Record{sampleRecord("r1", 1)}, recs)
}

func TestS3_BlockBoundary(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@HD\tVN:1.6\n"), WithBlockSize(3))
	require.NoError(t, err)
	for i := range 6 {
		require.NoError(t, w.AddRecord(sampleRecord("r", uint32(i+1))))
	}
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	info, err := NewInfoReader(buf)
	require.NoError(t, err)
	require.Equal(t, uint64(2), info.Header().BlkN)

	blocks, err := info.Walk()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.Equal(t, uint64(3), blocks[0].RecCnt)
	require.Equal(t, uint64(3), blocks[1].RecCnt)
	require.Equal(t, blocks[1].Fpos, blocks[0].FposNxt)
	require.Equal(t, uint64(0), blocks[1].FposNxt)

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	r, err := NewReader(buf)
	require.NoError(t, err)
	_, err = r.ReadSourceHeader()
	require.NoError(t, err)
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 6)
}

func TestS4_CRCTamper(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@SQ\tSN:r\tLN:10\n"))
	require.NoError(t, err)
	require.NoError(t, w.AddRecord(sampleRecord("r1", 1)))
	require.NoError(t, w.Close())

	// The aux sub-block's payload begins right after the file header,
	// source header, and block header; flip a byte inside it.
	auxPayloadStart := section.FileHeaderSize + section.SourceHeaderPrefixSize +
		len("@SQ\tSN:r\tLN:10\n") + section.BlockHeaderSize + section.SubBlockHeaderSize
	buf.data[auxPayloadStart] ^= 0xFF

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	var out bytes.Buffer
	err = Decode(buf, &out)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	require.Equal(t, "@SQ\tSN:r\tLN:10\n", out.String())
}

func TestS5_VersionMismatch(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@HD\tVN:1.6\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	const versionOffset = 6
	copy(buf.data[versionOffset:versionOffset+5], "99.99")

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = NewReader(buf)
	require.ErrorIs(t, err, errs.ErrVersionMismatch)
}

func TestS6_InfoWalk(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, []byte("@HD\tVN:1.6\n"), WithBlockSize(1))
	require.NoError(t, err)
	for i := range 3 {
		require.NoError(t, w.AddRecord(sampleRecord("r", uint32(i+1))))
	}
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	info, err := NewInfoReader(buf)
	require.NoError(t, err)
	blocks, err := info.Walk()
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		require.Equal(t, uint64(i), b.BlkCnt)
	}
}

func TestWriter_EmptyOptionalFields(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf, nil)
	require.NoError(t, err)

	rec := record.Record{QName: "r1", RName: "*", Pos: 0, CIGAR: "*", RNext: "*", Seq: "*"}
	require.NoError(t, w.AddRecord(rec))
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	r, err := NewReader(buf)
	require.NoError(t, err)
	_, err = r.ReadSourceHeader()
	require.NoError(t, err)
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []record.Record{rec}, recs)
}
