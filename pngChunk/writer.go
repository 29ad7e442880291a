package pngChunk

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// Write emits c as [length][type][data][crc] using the chunk's values
// verbatim. Nothing is recomputed: a chunk read with a bad CRC is written
// back with the same bad CRC.
func Write(w io.Writer, c Chunk) error {
	return WriteContext(context.Background(), w, c)
}

func WriteContext(ctx context.Context, w io.Writer, c Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := c.base()

	var head [8]byte
	binary.BigEndian.PutUint32(head[:4], b.length)
	copy(head[4:], b.typ)
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("error writing %s chunk header: %w", b.typ, err)
	}
	if _, err := w.Write(b.data); err != nil {
		return fmt.Errorf("error writing %s chunk data: %w", b.typ, err)
	}
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], b.crc)
	if _, err := w.Write(tail[:]); err != nil {
		return fmt.Errorf("error writing %s chunk crc: %w", b.typ, err)
	}
	return nil
}

// Bytes returns the wire encoding of c.
func Bytes(c Chunk) []byte {
	var buf bytes.Buffer
	buf.Grow(12 + int(c.Length()))
	_ = Write(&buf, c)
	return buf.Bytes()
}
