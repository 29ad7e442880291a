package pngChunk

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/poolqa/PngChunkKit/pngCrc"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// encode lays out a chunk by hand, independently of Write.
func encode(typ string, data []byte, crc uint32) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], typ)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc)
}

func encodeValid(typ string, data []byte) []byte {
	return encode(typ, data, pngCrc.ChunkChecksum([]byte(typ), data))
}

// errorReader fails once after bytes have been served.
type errorReader struct {
	io.Reader
	index int
	after int
}

func newErrorReaderFromBuf(after int, buf []byte) *errorReader {
	return &errorReader{
		after:  after,
		Reader: bytes.NewReader(buf),
	}
}

func (r *errorReader) Read(p []byte) (n int, err error) {
	if r.index == r.after {
		return 0, errors.New("error on read")
	}

	if r.index+len(p) > r.after {
		p = p[:r.after-r.index]
	}

	n, err = r.Reader.Read(p)
	r.index += n

	return
}

func TestParse_TextChunk(t *testing.T) {
	raw := encodeValid("tEXt", []byte("Author\x00Jane"))

	c, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, KindTEXT, c.Kind())
	require.Equal(t, "tEXt", c.Type())
	require.Equal(t, uint32(11), c.Length())
	require.True(t, c.CrcValid())

	text, ok := c.(*Text)
	require.True(t, ok)
	require.Equal(t, "Author", text.Keyword())
	require.Equal(t, "Jane", text.Text())

	// Corrupt one data byte: the stored CRC no longer matches.
	raw[8+len("Author\x00")] = 'X'
	c2, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.False(t, c2.CrcValid())
	require.Equal(t, c.Length(), c2.Length())
	require.Equal(t, c.Type(), c2.Type())
	require.Equal(t, c.Crc(), c2.Crc())
	require.NotEqual(t, c2.Crc(), c2.ExpectedCrc())
}

func TestParse_UnknownType(t *testing.T) {
	data := []byte{1, 2, 3}
	raw := encodeValid("zzzz", data)

	col := &Collector{}
	c, err := NewReader(bytes.NewReader(raw), Options{Observer: col}).Next()
	require.NoError(t, err)

	_, ok := c.(*Unknown)
	require.True(t, ok)
	require.Equal(t, KindUnknown, c.Kind())
	require.Equal(t, uint32(3), c.Length())
	require.Equal(t, data, c.Data())
	require.True(t, c.CrcValid())
	require.True(t, c.RemoveWhenAnonymizing())

	diags := col.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, DiagUnknownType, diags[0].Kind)
	require.Equal(t, "zzzz", diags[0].Type)
}

func TestParse_CaseSensitiveDispatch(t *testing.T) {
	c, err := Parse(bytes.NewReader(encodeValid("iend", nil)))
	require.NoError(t, err)
	require.Equal(t, KindUnknown, c.Kind())
}

func TestParse_CrcMismatch(t *testing.T) {
	raw := encodeValid("IEND", nil)
	raw[len(raw)-1] ^= 0xff

	col := &Collector{}
	c, err := NewReader(bytes.NewReader(raw), Options{Observer: col}).Next()
	require.NoError(t, err)
	require.False(t, c.CrcValid())
	require.Equal(t, uint32(0xAE426082), c.ExpectedCrc())
	require.Equal(t, uint32(0xAE426082^0xff), c.Crc())

	diags := col.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, DiagCrcMismatch, diags[0].Kind)
	require.Equal(t, c.ExpectedCrc(), diags[0].Expected)
	require.Equal(t, c.Crc(), diags[0].Actual)
}

func TestParse_StrictCrc(t *testing.T) {
	raw := encode("IEND", nil, 0)

	_, err := NewReader(bytes.NewReader(raw), Options{Strict: true}).Next()
	require.ErrorIs(t, err, ErrCrcMismatch)

	var crcErr *CrcError
	require.True(t, errors.As(err, &crcErr))
	require.Equal(t, uint32(0xAE426082), crcErr.Expected)
	require.Equal(t, uint32(0), crcErr.Actual)
	require.Equal(t, KindIEND, crcErr.Chunk.Kind())
}

func TestParse_Truncated(t *testing.T) {
	raw := encodeValid("tEXt", []byte("Author\x00Jane"))

	for n := 0; n < len(raw); n++ {
		c, err := Parse(bytes.NewReader(raw[:n]))
		require.Nil(t, c, "prefix %d", n)
		require.ErrorIs(t, err, ErrTruncatedChunk, "prefix %d", n)
		if n == 0 {
			require.ErrorIs(t, err, io.EOF)
		} else {
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		}
	}
}

func TestParse_TruncatedReportsField(t *testing.T) {
	raw := encodeValid("IDAT", make([]byte, 100))

	_, err := Parse(bytes.NewReader(raw[:50]))
	var te *TruncatedError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "data", te.Field)
	require.Equal(t, int64(100), te.Want)
	require.Equal(t, int64(42), te.Got)
}

func TestParse_ReadError(t *testing.T) {
	raw := encodeValid("IEND", nil)

	_, err := Parse(newErrorReaderFromBuf(6, raw))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTruncatedChunk)
}

func TestParse_LengthOverflow(t *testing.T) {
	raw := encode("IDAT", nil, 0)
	binary.BigEndian.PutUint32(raw, 0x80000000)

	_, err := Parse(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrLengthOverflow)

	raw = encodeValid("IDAT", make([]byte, 10))
	_, err = NewReader(bytes.NewReader(raw), Options{MaxLength: 9}).Next()
	require.ErrorIs(t, err, ErrLengthOverflow)
}

func TestParse_HugeLengthTruncatesWithoutAllocating(t *testing.T) {
	raw := encode("IDAT", nil, 0)
	binary.BigEndian.PutUint32(raw, MaxLength)

	_, err := Parse(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrTruncatedChunk)
}

func TestReader_InvalidPayloadSkipsToNextChunk(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeValid("IHDR", []byte{0, 0, 0, 1})...)
	stream = append(stream, encodeValid("IEND", nil)...)

	col := &Collector{}
	r := NewReader(bytes.NewReader(stream), Options{Observer: col})

	c, err := r.Next()
	require.Nil(t, c)
	require.ErrorIs(t, err, ErrInvalidChunkPayload)

	var pe *PayloadError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "IHDR", pe.Type)
	require.Equal(t, "IHDR", pe.Chunk.Type())
	require.Equal(t, []byte{0, 0, 0, 1}, pe.Chunk.Data())
	require.Equal(t, KindUnknown, pe.Chunk.Kind())
	require.True(t, pe.Chunk.CrcValid())

	c, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, KindIEND, c.Kind())

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)

	diags := col.Diagnostics()
	require.Len(t, diags, 1)
	require.Equal(t, DiagInvalidPayload, diags[0].Kind)
}

func TestReader_Offsets(t *testing.T) {
	first := encodeValid("tEXt", []byte("a\x00b"))
	second := encodeValid("zzzz", nil)
	stream := append(append([]byte{}, first...), second...)

	col := &Collector{}
	r := NewReader(bytes.NewReader(stream), Options{Observer: col})
	_, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, int64(len(first)), r.Offset())

	_, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, int64(len(stream)), r.Offset())
	require.Equal(t, int64(len(first)), col.Diagnostics()[0].Offset)
}

func TestReader_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(bytes.NewReader(encodeValid("IEND", nil)), Options{})
	_, err := r.ReadContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, int64(0), r.Offset())
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		typ := string(rapid.SliceOfN(rapid.ByteRange('a', 'z'), 4, 4).Draw(t, "type"))
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		crc := rapid.Uint32().Draw(t, "crc")

		var c Chunk
		var err error
		if rapid.Bool().Draw(t, "fresh") {
			c, err = New(typ, data)
		} else {
			c, err = NewWithCrc(typ, data, crc)
		}
		if err != nil {
			t.Fatalf("build: %v", err)
		}

		got, err := Parse(bytes.NewReader(Bytes(c)))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !Equal(c, got) {
			t.Fatalf("round trip mismatch: %s vs %s", c.FormatData(), got.FormatData())
		}
	})
}

func TestRoundTrip_Catalog(t *testing.T) {
	for tag, data := range validSamples(t) {
		t.Run(tag, func(t *testing.T) {
			c, err := New(tag, data)
			require.NoError(t, err)
			require.True(t, c.CrcValid())

			got, err := Parse(bytes.NewReader(Bytes(c)))
			require.NoError(t, err)
			require.True(t, Equal(c, got))
			require.Equal(t, c.Kind(), got.Kind())
		})
	}
}
