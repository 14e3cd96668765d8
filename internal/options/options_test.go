package options_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voges/tsc/container"
	"github.com/voges/tsc/internal/options"
	"github.com/voges/tsc/record"
)

// seekBuf is a minimal io.ReadWriteSeeker backed by an in-memory slice, used
// only to exercise container.NewWriter's option handling end to end.
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
	case io.SeekStart:
		s.pos = offset
	case io.SeekCurrent:
		s.pos += offset
	case io.SeekEnd:
		s.pos = int64(len(s.data)) + offset
	}

	return s.pos, nil
}

// blockSizeSetting is a tiny tsc-domain stand-in for container.Writer's
// blk_lc field, used to test options.New/Apply's error-propagation mechanics
// without needing access to Writer's unexported fields.
type blockSizeSetting struct {
	blkLc uint64
}

func (s *blockSizeSetting) setBlockSize(n uint64) error {
	if n == 0 {
		return errors.New("block size must be positive")
	}
	s.blkLc = n

	return nil
}

func TestOption_New_AppliesAndPropagatesError(t *testing.T) {
	setting := &blockSizeSetting{}

	opt := options.New(func(s *blockSizeSetting) error {
		return s.setBlockSize(500)
	})
	require.NoError(t, options.Apply(setting, opt))
	require.Equal(t, uint64(500), setting.blkLc)

	badOpt := options.New(func(s *blockSizeSetting) error {
		return s.setBlockSize(0)
	})
	err := options.Apply(setting, badOpt)
	require.Error(t, err)
	require.Contains(t, err.Error(), "block size must be positive")
}

func TestOption_Apply_StopsAtFirstError(t *testing.T) {
	setting := &blockSizeSetting{}

	opts := []options.Option[*blockSizeSetting]{
		options.New(func(s *blockSizeSetting) error { return s.setBlockSize(10) }),
		options.New(func(s *blockSizeSetting) error { return s.setBlockSize(0) }),
		options.NoError(func(s *blockSizeSetting) { s.blkLc = 999 }),
	}

	err := options.Apply(setting, opts...)
	require.Error(t, err)
	require.Equal(t, uint64(10), setting.blkLc, "the third option must not run after the second failed")
}

func TestOption_Apply_EmptyOptionsIsNoop(t *testing.T) {
	setting := &blockSizeSetting{}
	require.NoError(t, options.Apply(setting))
	require.Equal(t, uint64(0), setting.blkLc)
}

func TestOption_ContainerWithBlockSize(t *testing.T) {
	buf := &seekBuf{}
	w, err := container.NewWriter(buf, []byte("@HD\tVN:1.6\n"), container.WithBlockSize(2))
	require.NoError(t, err)

	for i := range 4 {
		rec := record.Record{
			QName: "r", Flag: 0, RName: "r", Pos: uint32(i + 1), MapQ: 30,
			CIGAR: "1M", RNext: "*", PNext: 0, TLen: 0, Seq: "A", Qual: "!",
		}
		require.NoError(t, w.AddRecord(rec))
	}
	require.NoError(t, w.Close())

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	info, err := container.NewInfoReader(buf)
	require.NoError(t, err)
	blocks, err := info.Walk()
	require.NoError(t, err)
	require.Len(t, blocks, 2, "WithBlockSize(2) over 4 records must split into two blocks")
	require.Equal(t, uint64(2), blocks[0].RecCnt)
	require.Equal(t, uint64(2), blocks[1].RecCnt)
}

func TestOption_ContainerWithBlockSize_ZeroIsNoop(t *testing.T) {
	buf := &seekBuf{}
	// WithBlockSize(0) must leave the writer's default block size in place
	// rather than producing a zero-capacity (infinitely flushing) block.
	w, err := container.NewWriter(buf, nil, container.WithBlockSize(0))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
