package pngChunk

import (
	"encoding/binary"
	"fmt"
	"time"
)

// PhysicalDimensions is the pHYs chunk.
type PhysicalDimensions struct {
	Base
}

func (c *PhysicalDimensions) PixelsPerUnitX() uint32 { return binary.BigEndian.Uint32(c.data[0:4]) }
func (c *PhysicalDimensions) PixelsPerUnitY() uint32 { return binary.BigEndian.Uint32(c.data[4:8]) }

// Unit is 1 for metres and 0 when only the aspect ratio is known.
func (c *PhysicalDimensions) Unit() uint8 { return c.data[8] }

func (c *PhysicalDimensions) FormatData() string {
	unit := "unknown"
	if c.Unit() == 1 {
		unit = "metre"
	}
	return fmt.Sprintf("%s, X: %d, Y: %d, Unit: %s", c.Base.FormatData(), c.PixelsPerUnitX(), c.PixelsPerUnitY(), unit)
}

func (c *PhysicalDimensions) Validate() error {
	if c.length != 9 {
		return invalid(c.typ, "got length %d - expected 9", c.length)
	}
	if c.data[8] > 1 {
		return invalid(c.typ, "unit %d - expected 0 or 1", c.data[8])
	}
	return nil
}

// ModificationTime is the tIME chunk, always in UTC.
type ModificationTime struct {
	Base
}

func (c *ModificationTime) Time() time.Time {
	d := c.data
	return time.Date(int(binary.BigEndian.Uint16(d[0:2])), time.Month(d[2]), int(d[3]),
		int(d[4]), int(d[5]), int(d[6]), 0, time.UTC)
}

func (c *ModificationTime) FormatData() string {
	return fmt.Sprintf("%s, Time: %s", c.Base.FormatData(), c.Time().Format(time.RFC3339))
}

func (c *ModificationTime) Validate() error {
	if c.length != 7 {
		return invalid(c.typ, "got length %d - expected 7", c.length)
	}
	d := c.data
	switch {
	case d[2] < 1 || d[2] > 12:
		return invalid(c.typ, "month %d out of range", d[2])
	case d[3] < 1 || d[3] > 31:
		return invalid(c.typ, "day %d out of range", d[3])
	case d[4] > 23:
		return invalid(c.typ, "hour %d out of range", d[4])
	case d[5] > 59:
		return invalid(c.typ, "minute %d out of range", d[5])
	case d[6] > 60: // leap second
		return invalid(c.typ, "second %d out of range", d[6])
	}
	return nil
}

// NewModificationTime builds a tIME chunk for t converted to UTC.
func NewModificationTime(t time.Time) (*ModificationTime, error) {
	t = t.UTC()
	if t.Year() < 0 || t.Year() > 0xffff {
		return nil, invalid("tIME", "year %d out of range", t.Year())
	}
	data := make([]byte, 7)
	binary.BigEndian.PutUint16(data, uint16(t.Year()))
	data[2], data[3] = byte(t.Month()), byte(t.Day())
	data[4], data[5], data[6] = byte(t.Hour()), byte(t.Minute()), byte(t.Second())

	c := &ModificationTime{Base: newBase("tIME", data, 0)}
	if err := seal(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ImageOffset is the oFFs chunk.
type ImageOffset struct {
	Base
}

func (c *ImageOffset) X() int32 { return int32(binary.BigEndian.Uint32(c.data[0:4])) }
func (c *ImageOffset) Y() int32 { return int32(binary.BigEndian.Uint32(c.data[4:8])) }

// Unit is 0 for pixels and 1 for micrometres.
func (c *ImageOffset) Unit() uint8 { return c.data[8] }

func (c *ImageOffset) FormatData() string {
	unit := "pixel"
	if c.Unit() == 1 {
		unit = "micrometre"
	}
	return fmt.Sprintf("%s, X: %d, Y: %d, Unit: %s", c.Base.FormatData(), c.X(), c.Y(), unit)
}

func (c *ImageOffset) Validate() error {
	if c.length != 9 {
		return invalid(c.typ, "got length %d - expected 9", c.length)
	}
	if c.data[8] > 1 {
		return invalid(c.typ, "unit %d - expected 0 or 1", c.data[8])
	}
	return nil
}

// Stereo is the sTER chunk.
type Stereo struct {
	Base
}

// Mode is 0 for cross-fuse and 1 for diverging-fuse layout.
func (c *Stereo) Mode() uint8 { return c.data[0] }

func (c *Stereo) FormatData() string {
	mode := "cross-fuse"
	if c.Mode() == 1 {
		mode = "diverging-fuse"
	}
	return fmt.Sprintf("%s, Mode: %s", c.Base.FormatData(), mode)
}

func (c *Stereo) Validate() error {
	if c.length != 1 {
		return invalid(c.typ, "got length %d - expected 1", c.length)
	}
	if c.data[0] > 1 {
		return invalid(c.typ, "mode %d - expected 0 or 1", c.data[0])
	}
	return nil
}

// Exif is the eXIf chunk, a TIFF-structured Exif profile.
type Exif struct {
	Base
}

// ByteOrder reports the TIFF byte order the profile declares.
func (c *Exif) ByteOrder() binary.ByteOrder {
	if c.data[0] == 'I' {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (c *Exif) FormatData() string {
	order := "big endian"
	if c.data[0] == 'I' {
		order = "little endian"
	}
	return fmt.Sprintf("%s, Byte order: %s", c.Base.FormatData(), order)
}

func (c *Exif) Validate() error {
	if c.length < 4 {
		return invalid(c.typ, "got length %d - expected at least 4", c.length)
	}
	switch string(c.data[:4]) {
	case "MM\x00\x2a", "II\x2a\x00":
		return nil
	}
	return invalid(c.typ, "bad TIFF header % x", c.data[:4])
}
