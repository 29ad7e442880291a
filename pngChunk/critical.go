package pngChunk

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

const headerLength = 13

// Color type, as defined by PNG.
const (
	ctGrayscale      = 0
	ctTrueColor      = 2
	ctPaletted       = 3
	ctGrayscaleAlpha = 4
	ctTrueColorAlpha = 6
)

// Interlace type.
const (
	itNone  = 0
	itAdam7 = 1
)

// Header is the IHDR chunk.
// IHDR: http://www.libpng.org/pub/png/spec/1.2/PNG-Chunks.html#C.IHDR
//
//	width:              4 bytes
//	height:             4 bytes
//	Bit depth:          1 byte
//	Color type:         1 byte
//	Compression method: 1 byte
//	Filter method:      1 byte
//	Interlace method:   1 byte
type Header struct {
	Base
}

func (c *Header) Width() uint32  { return binary.BigEndian.Uint32(c.data[0:4]) }
func (c *Header) Height() uint32 { return binary.BigEndian.Uint32(c.data[4:8]) }

func (c *Header) BitDepth() uint8          { return c.data[8] }
func (c *Header) ColorType() uint8         { return c.data[9] }
func (c *Header) CompressionMethod() uint8 { return c.data[10] }
func (c *Header) FilterMethod() uint8      { return c.data[11] }
func (c *Header) InterlaceMethod() uint8   { return c.data[12] }

// BitsPerPixel derives the pixel size from colour type and bit depth.
func (c *Header) BitsPerPixel() int {
	depth := int(c.BitDepth())
	switch c.ColorType() {
	case ctTrueColor:
		return depth * 3
	case ctGrayscaleAlpha:
		return depth * 2
	case ctTrueColorAlpha:
		return depth * 4
	}
	return depth
}

func (c *Header) RemoveWhenAnonymizing() bool { return false }

func (c *Header) FormatData() string {
	return fmt.Sprintf("%s, Width: %d, Height: %d, Bit depth: %d, Color type: %d, Compression: %d, Filter: %d, Interlace: %d",
		c.Base.FormatData(), c.Width(), c.Height(), c.BitDepth(), c.ColorType(),
		c.CompressionMethod(), c.FilterMethod(), c.InterlaceMethod())
}

func (c *Header) Validate() error {
	if c.length != headerLength {
		return invalid(c.typ, "got length %d - expected %d", c.length, headerLength)
	}
	tmp := c.data

	if w := binary.BigEndian.Uint32(tmp[0:4]); w == 0 || w > MaxLength {
		return invalid(c.typ, "invalid width - got %x", tmp[0:4])
	}
	if h := binary.BigEndian.Uint32(tmp[4:8]); h == 0 || h > MaxLength {
		return invalid(c.typ, "invalid height - got %x", tmp[4:8])
	}

	depth := tmp[8]
	valid := false
	switch tmp[9] {
	case ctGrayscale:
		valid = depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case ctTrueColor, ctGrayscaleAlpha, ctTrueColorAlpha:
		valid = depth == 8 || depth == 16
	case ctPaletted:
		valid = depth == 1 || depth == 2 || depth == 4 || depth == 8
	}
	if !valid {
		return invalid(c.typ, "bit depth %d, color type %d", depth, tmp[9])
	}

	// Only compression method 0 is supported
	if tmp[10] != 0 {
		return invalid(c.typ, "invalid compression method - expected 0 - got %x", tmp[10])
	}
	// Only filter method 0 is supported
	if tmp[11] != 0 {
		return invalid(c.typ, "invalid filter method - expected 0 - got %x", tmp[11])
	}
	if tmp[12] != itNone && tmp[12] != itAdam7 {
		return invalid(c.typ, "invalid interlace method - expected 0 or 1 - got %x", tmp[12])
	}
	return nil
}

// Palette is the PLTE chunk: 1 to 256 RGB triples.
type Palette struct {
	Base
}

func (c *Palette) Entries() []color.RGBA {
	out := make([]color.RGBA, 0, len(c.data)/3)
	for i := 0; i+2 < len(c.data); i += 3 {
		out = append(out, color.RGBA{R: c.data[i], G: c.data[i+1], B: c.data[i+2], A: 0xff})
	}
	return out
}

func (c *Palette) RemoveWhenAnonymizing() bool { return false }

func (c *Palette) FormatData() string {
	return fmt.Sprintf("%s, Entries: %d", c.Base.FormatData(), c.length/3)
}

func (c *Palette) Validate() error {
	if c.length%3 != 0 || c.length == 0 || c.length > 256*3 {
		return invalid(c.typ, "bad palette length %d", c.length)
	}
	return nil
}

// ImageData is an IDAT chunk. Consecutive IDAT payloads form one zlib stream.
type ImageData struct {
	Base
}

func (c *ImageData) RemoveWhenAnonymizing() bool { return false }

// End is the IEND chunk, which carries no data.
type End struct {
	Base
}

func (c *End) RemoveWhenAnonymizing() bool { return false }

func (c *End) Validate() error {
	if c.length != 0 {
		return invalid(c.typ, "got length %d - expected 0", c.length)
	}
	return nil
}
