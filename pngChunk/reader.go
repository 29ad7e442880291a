package pngChunk

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxLength is the largest length a PNG chunk may declare (2^31-1).
const MaxLength = 0x7fffffff

// Data is read in steps of this size so a corrupt length field cannot force
// a large allocation before the stream proves it holds the bytes.
const readStep = 1 << 20

type Options struct {
	// Registry selects variants. Nil means DefaultRegistry.
	Registry *Registry
	// Observer receives diagnostics. Nil means Discard.
	Observer Observer
	// Strict turns a CRC mismatch into a *CrcError.
	Strict bool
	// MaxLength caps the length field. Zero means MaxLength.
	MaxLength uint32
}

// Reader parses consecutive chunks from a forward-only stream. A Reader must
// not be used from several goroutines at once.
type Reader struct {
	r      io.Reader
	opts   Options
	offset int64
	buf    [4]byte
}

func NewReader(r io.Reader, opts Options) *Reader {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry
	}
	if opts.Observer == nil {
		opts.Observer = Discard
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = MaxLength
	}
	return &Reader{r: r, opts: opts}
}

// Parse reads a single chunk from r with the default registry.
func Parse(r io.Reader) (Chunk, error) {
	return NewReader(r, Options{}).Next()
}

// Offset is the number of bytes consumed so far, which is where the next
// chunk starts.
func (r *Reader) Offset() int64 { return r.offset }

// Next reads the next chunk.
func (r *Reader) Next() (Chunk, error) {
	return r.ReadContext(context.Background())
}

// ReadContext reads the next chunk. It returns a *TruncatedError when the
// stream ends before the chunk is complete; at a clean chunk boundary that
// error also matches io.EOF. A *PayloadError leaves the reader positioned
// after the rejected chunk.
func (r *Reader) ReadContext(ctx context.Context) (Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := r.offset

	if err := r.readFull(start, "length", r.buf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(r.buf[:])
	if length > r.opts.MaxLength {
		return nil, fmt.Errorf("%w: chunk at offset %d declares %d bytes, limit %d",
			ErrLengthOverflow, start, length, r.opts.MaxLength)
	}

	var typ [4]byte
	if err := r.readFull(start, "type", typ[:]); err != nil {
		return nil, err
	}

	data, err := r.readData(ctx, start, length)
	if err != nil {
		return nil, err
	}

	if err := r.readFull(start, "crc", r.buf[:]); err != nil {
		return nil, err
	}
	crc := binary.BigEndian.Uint32(r.buf[:])

	b := newBase(string(typ[:]), data, crc)
	if !b.crcValid {
		r.opts.Observer.Observe(Diagnostic{
			Kind:     DiagCrcMismatch,
			Offset:   start,
			Type:     b.typ,
			Expected: b.expectedCrc,
			Actual:   b.crc,
		})
	}

	c, known, err := r.opts.Registry.build(b)
	if !known {
		r.opts.Observer.Observe(Diagnostic{Kind: DiagUnknownType, Offset: start, Type: b.typ})
	}
	if err != nil {
		r.opts.Observer.Observe(Diagnostic{
			Kind:    DiagInvalidPayload,
			Offset:  start,
			Type:    b.typ,
			Message: err.Error(),
		})
		return nil, err
	}
	if r.opts.Strict && !b.crcValid {
		return nil, &CrcError{Type: b.typ, Expected: b.expectedCrc, Actual: b.crc, Chunk: c}
	}
	return c, nil
}

func (r *Reader) readFull(start int64, field string, p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.offset += int64(n)
	if err != nil {
		return r.readError(start, field, int64(len(p)), int64(n), err)
	}
	return nil
}

func (r *Reader) readData(ctx context.Context, start int64, length uint32) ([]byte, error) {
	var buf bytes.Buffer
	if length <= readStep {
		buf.Grow(int(length))
	}
	remaining := int64(length)
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := remaining
		if step > readStep {
			step = readStep
		}
		n, err := io.CopyN(&buf, r.r, step)
		r.offset += n
		remaining -= n
		if err != nil {
			return nil, r.readError(start, "data", int64(length), int64(length)-remaining, err)
		}
	}
	return buf.Bytes(), nil
}

func (r *Reader) readError(start int64, field string, want, got int64, err error) error {
	if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("error reading chunk %s at offset %d: %w", field, start, err)
	}
	cause := io.ErrUnexpectedEOF
	if r.offset == start {
		cause = io.EOF
	}
	return &TruncatedError{Field: field, Offset: start, Want: want, Got: got, Err: cause}
}
