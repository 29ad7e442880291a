// Package pngFile holds a whole PNG chunk stream: the signature followed by
// its chunks in file order.
package pngFile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/poolqa/PngChunkKit/pngChunk"
)

// 89 50 4E 47 0D 0A 1A 0A
const pngHeader = "\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"

// Apple's CgBI chunk precedes IHDR in PNGs optimised by Xcode.
const cgbiType = "CgBI"

type Image struct {
	Signature [8]byte
	Chunks    []pngChunk.Chunk
}

// New returns an image with the standard signature and the given chunks.
func New(chunks ...pngChunk.Chunk) *Image {
	img := &Image{Chunks: chunks}
	copy(img.Signature[:], pngHeader)
	return img
}

// Decode reads a PNG stream. See DecodeContext.
func Decode(r io.Reader, opts pngChunk.Options) (*Image, *Report, error) {
	return DecodeContext(context.Background(), r, opts)
}

// DecodeContext reads the signature and then chunks until the stream ends.
//
// A signature mismatch and CRC mismatches are only reported. A chunk that
// fails its validity check is recorded in the report and kept as an Unknown
// chunk so the stream can be written back unchanged. Truncation, read
// errors and strict-mode CRC errors stop decoding: the chunks read so far
// are returned together with the error.
func DecodeContext(ctx context.Context, r io.Reader, opts pngChunk.Options) (*Image, *Report, error) {
	img := &Image{}
	report := &Report{}

	if _, err := io.ReadFull(r, img.Signature[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, report, fmt.Errorf("error reading signature: %w", err)
	}
	if string(img.Signature[:]) != pngHeader {
		report.SignatureValid = false
		if opts.Observer != nil {
			opts.Observer.Observe(pngChunk.Diagnostic{
				Kind:    pngChunk.DiagBadSignature,
				Message: fmt.Sprintf("not a PNG signature: % x", img.Signature),
			})
		}
	} else {
		report.SignatureValid = true
	}

	cr := pngChunk.NewReader(r, opts)
	for idx := 0; ; idx++ {
		offset := int64(len(pngHeader)) + cr.Offset()
		c, err := cr.ReadContext(ctx)

		var pe *pngChunk.PayloadError
		switch {
		case err == nil:
		case errors.As(err, &pe):
			c = pe.Chunk
		case errors.Is(err, pngChunk.ErrTruncatedChunk) && errors.Is(err, io.EOF):
			return img, report, nil
		default:
			return img, report, err
		}

		img.Chunks = append(img.Chunks, c)
		report.Entries = append(report.Entries, newEntry(idx, offset, c, opts.Registry, err))
	}
}

// Encode writes the signature and every chunk in order.
func (img *Image) Encode(w io.Writer) error {
	return img.EncodeContext(context.Background(), w)
}

func (img *Image) EncodeContext(ctx context.Context, w io.Writer) error {
	if _, err := w.Write(img.Signature[:]); err != nil {
		return fmt.Errorf("error writing signature: %w", err)
	}
	for _, c := range img.Chunks {
		if err := pngChunk.WriteContext(ctx, w, c); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the encoded image.
func (img *Image) Bytes() []byte {
	var buf bytes.Buffer
	_ = img.Encode(&buf)
	return buf.Bytes()
}

// Filter returns a new image holding the chunks keep accepts, in order.
// Chunks are shared, which is safe because they are immutable.
func (img *Image) Filter(keep func(pngChunk.Chunk) bool) *Image {
	out := &Image{Signature: img.Signature}
	for _, c := range img.Chunks {
		if keep(c) {
			out.Chunks = append(out.Chunks, c)
		}
	}
	return out
}

// Anonymize drops every chunk that reports RemoveWhenAnonymizing.
func (img *Image) Anonymize() *Image {
	return img.Filter(func(c pngChunk.Chunk) bool {
		return !c.RemoveWhenAnonymizing()
	})
}

// ChunksOf returns the chunks of the given type, in order.
func (img *Image) ChunksOf(typ string) []pngChunk.Chunk {
	var out []pngChunk.Chunk
	for _, c := range img.Chunks {
		if c.Type() == typ {
			out = append(out, c)
		}
	}
	return out
}

// Header returns the first valid IHDR chunk, if any.
func (img *Image) Header() (*pngChunk.Header, bool) {
	for _, c := range img.Chunks {
		if h, ok := c.(*pngChunk.Header); ok {
			return h, true
		}
	}
	return nil, false
}

// IsCgBI reports whether the stream starts with Apple's CgBI chunk, whose
// IDAT payload is a raw deflate stream without zlib header.
func (img *Image) IsCgBI() bool {
	return len(img.Chunks) > 0 && img.Chunks[0].Type() == cgbiType
}
