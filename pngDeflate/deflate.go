// Package pngDeflate compresses and decompresses the zlib-wrapped deflate
// payloads stored in zTXt, iTXt, iCCP and IDAT chunks.
//
// Decompress takes the payload exactly as stored in a chunk: it checks and
// skips the two byte zlib header, inflates the deflate stream and ignores
// anything after the final deflate block. A trailing Adler-32 is therefore
// accepted but never required or verified.
//
// Compress writes 0x78 0xDA at every level, then the deflate stream and,
// unless Options.AppendAdler32 is set, no Adler-32 trailer. Strict zlib readers
// reject that output; it is kept because existing files depend on the layout.
package pngDeflate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// ErrCorruptCompressedData is returned when a payload cannot be inflated.
var ErrCorruptCompressedData = errors.New("corrupt compressed data")

// Header is the zlib header written in front of every compressed payload.
var Header = [2]byte{0x78, 0xDA}

const blockSize = 32 * 1024

type Options struct {
	// Level is the flate compression level. Nil means flate.BestCompression.
	Level *int
	// AppendAdler32 produces a conformant zlib stream with its checksum.
	AppendAdler32 bool
}

// Codec is safe for concurrent use; every call allocates its own buffers.
type Codec struct {
	Options Options
}

// Default is the codec used by the package level functions.
var Default = Codec{}

func New(opts Options) Codec {
	return Codec{Options: opts}
}

func (c Codec) level() int {
	if c.Options.Level == nil {
		return flate.BestCompression
	}
	return *c.Options.Level
}

// Compress returns the zlib-wrapped deflate encoding of data.
func Compress(data []byte) ([]byte, error) {
	return Default.Compress(data)
}

// Decompress inflates a zlib-wrapped payload.
func Decompress(data []byte) ([]byte, error) {
	return Default.Decompress(data)
}

// CompressContext is Compress with cancellation.
func CompressContext(ctx context.Context, data []byte) ([]byte, error) {
	return Default.CompressContext(ctx, data)
}

// DecompressContext is Decompress with cancellation.
func DecompressContext(ctx context.Context, data []byte) ([]byte, error) {
	return Default.DecompressContext(ctx, data)
}

// DecompressRaw inflates a deflate stream that carries no zlib header.
func DecompressRaw(data []byte) ([]byte, error) {
	return inflate(context.Background(), data)
}

// DecompressRawContext is DecompressRaw with cancellation.
func (c Codec) DecompressRawContext(ctx context.Context, data []byte) ([]byte, error) {
	return inflate(ctx, data)
}

func (c Codec) Compress(data []byte) ([]byte, error) {
	return c.CompressContext(context.Background(), data)
}

func (c Codec) Decompress(data []byte) ([]byte, error) {
	return c.DecompressContext(context.Background(), data)
}

func (c Codec) CompressContext(ctx context.Context, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error

	if c.Options.AppendAdler32 {
		w, err = zlib.NewWriterLevel(&buf, c.level())
	} else {
		buf.Write(Header[:])
		w, err = flate.NewWriter(&buf, c.level())
	}
	if err != nil {
		return nil, fmt.Errorf("error creating deflate writer: %w", err)
	}

	for len(data) > 0 {
		if err := ctx.Err(); err != nil {
			w.Close()
			return nil, err
		}
		n := len(data)
		if n > blockSize {
			n = blockSize
		}
		if _, err := w.Write(data[:n]); err != nil {
			w.Close()
			return nil, fmt.Errorf("error compressing payload: %w", err)
		}
		data = data[n:]
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("error flushing deflate writer: %w", err)
	}
	out := buf.Bytes()
	// The zlib writer derives FLEVEL from the level; PNG payloads always
	// carry Header. 0x78DA passes the FCHECK test and FLEVEL is advisory.
	copy(out, Header[:])
	return out, nil
}

func (c Codec) DecompressContext(ctx context.Context, data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: missing zlib header", ErrCorruptCompressedData)
	}
	if err := checkHeader(data[0], data[1]); err != nil {
		return nil, err
	}
	return inflate(ctx, data[2:])
}

// checkHeader validates a zlib CMF/FLG pair, see RFC 1950 section 2.2.
func checkHeader(cmf, flg byte) error {
	if cmf&0x0f != 8 || cmf>>4 > 7 {
		return fmt.Errorf("%w: unsupported compression method 0x%02x", ErrCorruptCompressedData, cmf)
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return fmt.Errorf("%w: bad zlib header check bits 0x%02x%02x", ErrCorruptCompressedData, cmf, flg)
	}
	if flg&0x20 != 0 {
		return fmt.Errorf("%w: preset dictionary not supported", ErrCorruptCompressedData)
	}
	return nil
}

func inflate(ctx context.Context, raw []byte) ([]byte, error) {
	fr := flate.NewReader(&ctxReader{ctx: ctx, r: bytes.NewReader(raw)})
	defer fr.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, fr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrCorruptCompressedData, err)
	}
	return out.Bytes(), nil
}

// ctxReader stops feeding the inflater once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
