package pngChunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Transparency is the tRNS chunk. Its layout depends on the colour type in
// IHDR, so only the raw bytes are exposed.
type Transparency struct {
	Base
}

func (c *Transparency) RemoveWhenAnonymizing() bool { return false }

// Chromaticities is the cHRM chunk: eight values scaled by 100000.
type Chromaticities struct {
	Base
}

func (c *Chromaticities) value(i int) float64 {
	return float64(binary.BigEndian.Uint32(c.data[i*4:])) / 100000
}

func (c *Chromaticities) WhitePoint() (x, y float64) { return c.value(0), c.value(1) }
func (c *Chromaticities) Red() (x, y float64)        { return c.value(2), c.value(3) }
func (c *Chromaticities) Green() (x, y float64)      { return c.value(4), c.value(5) }
func (c *Chromaticities) Blue() (x, y float64)       { return c.value(6), c.value(7) }

func (c *Chromaticities) RemoveWhenAnonymizing() bool { return false }

func (c *Chromaticities) FormatData() string {
	wx, wy := c.WhitePoint()
	rx, ry := c.Red()
	gx, gy := c.Green()
	bx, by := c.Blue()
	return fmt.Sprintf("%s, White: (%.5f, %.5f), Red: (%.5f, %.5f), Green: (%.5f, %.5f), Blue: (%.5f, %.5f)",
		c.Base.FormatData(), wx, wy, rx, ry, gx, gy, bx, by)
}

func (c *Chromaticities) Validate() error {
	if c.length != 32 {
		return invalid(c.typ, "got length %d - expected 32", c.length)
	}
	return nil
}

var renderingIntents = [...]string{"Perceptual", "Relative colorimetric", "Saturation", "Absolute colorimetric"}

// StandardRGB is the sRGB chunk.
type StandardRGB struct {
	Base
}

func (c *StandardRGB) RenderingIntent() uint8 { return c.data[0] }

func (c *StandardRGB) RemoveWhenAnonymizing() bool { return false }

func (c *StandardRGB) FormatData() string {
	return fmt.Sprintf("%s, Rendering intent: %s", c.Base.FormatData(), renderingIntents[c.RenderingIntent()])
}

func (c *StandardRGB) Validate() error {
	if c.length != 1 {
		return invalid(c.typ, "got length %d - expected 1", c.length)
	}
	if int(c.data[0]) >= len(renderingIntents) {
		return invalid(c.typ, "unknown rendering intent %d", c.data[0])
	}
	return nil
}

// Gamma is the gAMA chunk.
type Gamma struct {
	Base
}

// Gamma returns the image gamma; the stored value is scaled by 100000.
func (c *Gamma) Gamma() float64 {
	return float64(binary.BigEndian.Uint32(c.data)) / 100000
}

func (c *Gamma) RemoveWhenAnonymizing() bool { return false }

func (c *Gamma) FormatData() string {
	return fmt.Sprintf("%s, Gamma: %.5f", c.Base.FormatData(), c.Gamma())
}

func (c *Gamma) Validate() error {
	if c.length != 4 {
		return invalid(c.typ, "got length %d - expected 4", c.length)
	}
	return nil
}

// SignificantBits is the sBIT chunk, one byte per channel.
type SignificantBits struct {
	Base
}

func (c *SignificantBits) Bits() []byte { return c.Data() }

func (c *SignificantBits) FormatData() string {
	return fmt.Sprintf("%s, Bits: %v", c.Base.FormatData(), c.data)
}

func (c *SignificantBits) Validate() error {
	if c.length < 1 || c.length > 4 {
		return invalid(c.typ, "got length %d - expected 1 to 4", c.length)
	}
	return nil
}

// Background is the bKGD chunk: a palette index, a gray level or an RGB
// triple depending on its length.
type Background struct {
	Base
}

func (c *Background) PaletteIndex() (uint8, bool) {
	if c.length != 1 {
		return 0, false
	}
	return c.data[0], true
}

func (c *Background) Gray() (uint16, bool) {
	if c.length != 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(c.data), true
}

func (c *Background) RGB() (r, g, b uint16, ok bool) {
	if c.length != 6 {
		return 0, 0, 0, false
	}
	return binary.BigEndian.Uint16(c.data[0:]), binary.BigEndian.Uint16(c.data[2:]), binary.BigEndian.Uint16(c.data[4:]), true
}

func (c *Background) FormatData() string {
	if i, ok := c.PaletteIndex(); ok {
		return fmt.Sprintf("%s, Palette index: %d", c.Base.FormatData(), i)
	}
	if g, ok := c.Gray(); ok {
		return fmt.Sprintf("%s, Gray: %d", c.Base.FormatData(), g)
	}
	r, g, b, _ := c.RGB()
	return fmt.Sprintf("%s, RGB: (%d, %d, %d)", c.Base.FormatData(), r, g, b)
}

func (c *Background) Validate() error {
	switch c.length {
	case 1, 2, 6:
		return nil
	}
	return invalid(c.typ, "got length %d - expected 1, 2 or 6", c.length)
}

// Histogram is the hIST chunk, one frequency per palette entry.
type Histogram struct {
	Base
}

func (c *Histogram) Frequencies() []uint16 {
	out := make([]uint16, len(c.data)/2)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(c.data[i*2:])
	}
	return out
}

func (c *Histogram) FormatData() string {
	return fmt.Sprintf("%s, Entries: %d", c.Base.FormatData(), c.length/2)
}

func (c *Histogram) Validate() error {
	if c.length%2 != 0 {
		return invalid(c.typ, "odd length %d", c.length)
	}
	return nil
}

// SuggestedEntry is one sPLT colour. Sample values are widened to 16 bits
// regardless of the chunk's sample depth.
type SuggestedEntry struct {
	Red, Green, Blue, Alpha uint16
	Frequency               uint16
}

// SuggestedPalette is the sPLT chunk.
type SuggestedPalette struct {
	Base
}

func (c *SuggestedPalette) Name() string {
	name, _, _ := splitKeyword(c.data)
	return latin1(name)
}

func (c *SuggestedPalette) SampleDepth() uint8 {
	_, rest, _ := splitKeyword(c.data)
	return rest[0]
}

func (c *SuggestedPalette) Entries() []SuggestedEntry {
	_, rest, _ := splitKeyword(c.data)
	depth, body := rest[0], rest[1:]
	size := 6
	if depth == 16 {
		size = 10
	}
	out := make([]SuggestedEntry, 0, len(body)/size)
	for ; len(body) >= size; body = body[size:] {
		var e SuggestedEntry
		if depth == 16 {
			e.Red = binary.BigEndian.Uint16(body[0:])
			e.Green = binary.BigEndian.Uint16(body[2:])
			e.Blue = binary.BigEndian.Uint16(body[4:])
			e.Alpha = binary.BigEndian.Uint16(body[6:])
			e.Frequency = binary.BigEndian.Uint16(body[8:])
		} else {
			e.Red, e.Green, e.Blue, e.Alpha = uint16(body[0]), uint16(body[1]), uint16(body[2]), uint16(body[3])
			e.Frequency = binary.BigEndian.Uint16(body[4:])
		}
		out = append(out, e)
	}
	return out
}

func (c *SuggestedPalette) FormatData() string {
	return fmt.Sprintf("%s, Name: %s, Sample depth: %d, Entries: %d",
		c.Base.FormatData(), c.Name(), c.SampleDepth(), len(c.Entries()))
}

func (c *SuggestedPalette) Validate() error {
	_, rest, err := splitKeyword(c.data)
	if err != nil {
		return invalid(c.typ, "%v", err)
	}
	if len(rest) < 1 {
		return invalid(c.typ, "missing sample depth")
	}
	var size int
	switch rest[0] {
	case 8:
		size = 6
	case 16:
		size = 10
	default:
		return invalid(c.typ, "sample depth %d - expected 8 or 16", rest[0])
	}
	if (len(rest)-1)%size != 0 {
		return invalid(c.typ, "%d entry bytes not a multiple of %d", len(rest)-1, size)
	}
	return nil
}

// splitKeyword splits a NUL terminated keyword of 1 to 79 bytes from data.
func splitKeyword(data []byte) (keyword, rest []byte, err error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, nil, fmt.Errorf("keyword is not null terminated")
	}
	if i == 0 || i > 79 {
		return nil, nil, fmt.Errorf("keyword length %d - expected 1 to 79", i)
	}
	return data[:i], data[i+1:], nil
}
