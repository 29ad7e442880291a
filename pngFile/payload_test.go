package pngFile

import (
	"bytes"
	"context"
	"testing"

	"github.com/poolqa/PngChunkKit/pngChunk"
	"github.com/poolqa/PngChunkKit/pngDeflate"
	"github.com/stretchr/testify/require"
)

func TestTexts(t *testing.T) {
	img := sampleImage(t)

	for _, workers := range []int{0, 1, 4} {
		entries, err := img.Texts(context.Background(), pngDeflate.Default, workers)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		require.Equal(t, TextEntry{Index: 2, Type: "tEXt", Keyword: "Author", Text: "Jane"}, entries[0])
		require.Equal(t, TextEntry{Index: 3, Type: "zTXt", Keyword: "Comment", Text: "shot on a phone"}, entries[1])
		require.Equal(t, TextEntry{
			Index: 4, Type: "iTXt", Keyword: "Title", Language: "de", TranslatedKeyword: "Titel", Text: "Straße",
		}, entries[2])
	}
}

func TestTexts_CorruptPayload(t *testing.T) {
	bad, err := pngChunk.New("zTXt", []byte("Comment\x00\x00\x78\xDA\xff\xff"))
	require.NoError(t, err)
	good, err := pngChunk.NewText("Author", "Jane")
	require.NoError(t, err)

	entries, err := New(bad, good).Texts(context.Background(), pngDeflate.Default, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.ErrorIs(t, entries[0].Err, pngDeflate.ErrCorruptCompressedData)
	require.Equal(t, "Comment", entries[0].Keyword)
	require.NoError(t, entries[1].Err)
	require.Equal(t, "Jane", entries[1].Text)
}

func TestTexts_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sampleImage(t).Texts(ctx, pngDeflate.Default, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestImageData_CgBI(t *testing.T) {
	packed, err := pngDeflate.Compress(scanlines)
	require.NoError(t, err)

	cgbi, err := pngChunk.New("CgBI", []byte{0x50, 0x00, 0x20, 0x02})
	require.NoError(t, err)
	idat, err := pngChunk.New("IDAT", packed[2:])
	require.NoError(t, err)
	end, err := pngChunk.New("IEND", nil)
	require.NoError(t, err)

	img, _, err := Decode(bytes.NewReader(New(cgbi, idat, end).Bytes()), pngChunk.Options{})
	require.NoError(t, err)
	require.True(t, img.IsCgBI())

	data, err := img.ImageData(context.Background(), pngDeflate.Default)
	require.NoError(t, err)
	require.Equal(t, scanlines, data)
}

func TestImageData_Corrupt(t *testing.T) {
	idat, err := pngChunk.New("IDAT", []byte{0x78, 0xDA, 0xff})
	require.NoError(t, err)

	_, err = New(idat).ImageData(context.Background(), pngDeflate.Default)
	require.ErrorIs(t, err, pngDeflate.ErrCorruptCompressedData)
}
