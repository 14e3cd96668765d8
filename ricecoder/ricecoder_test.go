package ricecoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cases := [][]uint64{
		{},
		{0},
		{0, 0, 0, 0},
		{1, 2, 3, 4, 5},
		{100, 1, 0, 7, 255, 1024, 0, 3},
		{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89},
	}
	for _, values := range cases {
		encoded := Encode(values)
		decoded, err := Decode(encoded, len(values))
		require.NoError(t, err)
		require.Equal(t, values, decoded)
	}
}

func TestEncodeDecode_LargeSpike(t *testing.T) {
	values := make([]uint64, 1000)
	for i := range values {
		values[i] = 1
	}
	values[500] = 1 << 20

	encoded := Encode(values)
	decoded, err := Decode(encoded, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestChooseK_EmptyIsZero(t *testing.T) {
	require.Equal(t, uint(0), chooseK(nil))
}

func TestChooseK_TracksMeanMagnitude(t *testing.T) {
	small := chooseK([]uint64{1, 1, 1, 1})
	large := chooseK([]uint64{10000, 10000, 10000})
	require.Less(t, small, large)
}

func TestDecode_TruncatedMissingKByte(t *testing.T) {
	_, err := Decode(nil, 1)
	require.Error(t, err)
}

func TestDecode_TruncatedMidSymbol(t *testing.T) {
	// k byte only, no payload bits, but caller expects one value.
	_, err := Decode([]byte{3}, 1)
	require.Error(t, err)
}

func TestDecode_ZeroExpectedValues(t *testing.T) {
	encoded := Encode(nil)
	decoded, err := Decode(encoded, 0)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
