package cuckoo

import "testing"

import "github.com/stretchr/testify/require"

func TestPermCodecBijection(t *testing.T) {
	c := sharedPermCodec

	seen := make(map[uint16]bool, numCodewords)
	for idx := 0; idx < numCodewords; idx++ {
		v := c.dec[idx]
		require.False(t, seen[v], "dec_table produced duplicate value %x at idx %d", v, idx)
		seen[v] = true

		gotIdx := c.enc[v]
		require.Equal(t, uint16(idx), gotIdx, "enc_table[dec_table[%d]] should round-trip", idx)
		require.Equal(t, v, c.dec[gotIdx])
	}
	require.Len(t, seen, numCodewords)
}

func TestPermCodecTuplesAreSorted(t *testing.T) {
	c := sharedPermCodec
	for idx := 0; idx < numCodewords; idx++ {
		a, b, cc, d := unpackNibbles(c.dec[idx])
		require.True(t, a <= b && b <= cc && cc <= d, "tuple at idx %d not sorted: %d %d %d %d", idx, a, b, cc, d)
	}
}

func TestPackUnpackNibblesRoundTrip(t *testing.T) {
	cases := [][4]uint8{
		{0, 0, 0, 0},
		{0xf, 0xf, 0xf, 0xf},
		{0x1, 0x2, 0x3, 0x4},
		{0xa, 0x0, 0x5, 0xe},
	}
	for _, tuple := range cases {
		packed := packNibbles(&tuple)
		a, b, c, d := unpackNibbles(packed)
		require.Equal(t, tuple, [4]uint8{a, b, c, d})
	}
}
