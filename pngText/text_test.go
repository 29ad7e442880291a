package pngText

import (
	"testing"

	"github.com/poolqa/PngChunkKit/pngDeflate"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLatin1_RoundTrip(t *testing.T) {
	packed, err := CompressText("Grüße, Zoë", Latin1)
	require.NoError(t, err)

	raw, err := pngDeflate.Decompress(packed)
	require.NoError(t, err)
	// ü is a single byte in Latin-1.
	require.Equal(t, byte(0xFC), raw[2])

	got, err := DecompressText(packed, Latin1)
	require.NoError(t, err)
	require.Equal(t, "Grüße, Zoë", got)
}

func TestLatin1_Unrepresentable(t *testing.T) {
	_, err := CompressText("日本", Latin1)
	require.Error(t, err)
}

func TestUTF8_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "text")

		packed, err := CompressText(s, UTF8)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		got, err := DecompressText(packed, UTF8)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if got != s {
			t.Fatalf("got %q, want %q", got, s)
		}
	})
}

func TestDecompressText_Corrupt(t *testing.T) {
	_, err := DecompressText([]byte{0x78, 0xDA, 0xff}, UTF8)
	require.ErrorIs(t, err, pngDeflate.ErrCorruptCompressedData)
}
