// Package bitio provides byte- and bit-aligned readers over a borrowed byte
// span. Every reader is side-effect-free on its input: it returns a value
// plus an advanced span rather than mutating anything in place.
package bitio

import "errors"

// Errors returned by the cursor primitives.
var (
	// NotEnoughBytes is returned when a byte-aligned read runs off the end
	// of the span.
	NotEnoughBytes = errors.New("bitio: not enough bytes")
	// NotEnoughBits is returned when a bit-aligned read runs off the end
	// of the span.
	NotEnoughBits = errors.New("bitio: not enough bits")
)

// Cursor is a read-only view over a borrowed byte slice plus a bit offset
// into its first byte. All Cursor methods return a new Cursor rather than
// mutating the receiver.
type Cursor struct {
	data      []byte
	bitOffset uint // 0-7, offset within data[0]
}

// NewCursor wraps data as a byte-aligned cursor.
func NewCursor(data []byte) Cursor {
	return Cursor{data: data}
}

// Len reports the number of bytes remaining, counting a partly read
// first byte as a whole byte if the cursor is mid-byte.
func (c Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the unread byte slice when the cursor is byte-aligned.
// Callers must check Aligned first; Remaining panics otherwise, since a
// mid-byte span can't be expressed as a clean []byte.
func (c Cursor) Remaining() []byte {
	if c.bitOffset != 0 {
		panic("bitio: Remaining called on a non-byte-aligned cursor")
	}
	return c.data
}

// Aligned reports whether the cursor sits on a byte boundary.
func (c Cursor) Aligned() bool {
	return c.bitOffset == 0
}

// U8 reads one byte-aligned unsigned byte.
func (c Cursor) U8() (uint8, Cursor, error) {
	if !c.Aligned() {
		panic("bitio: U8 called on a non-byte-aligned cursor")
	}
	if len(c.data) < 1 {
		return 0, c, NotEnoughBytes
	}
	return c.data[0], Cursor{data: c.data[1:]}, nil
}

// BeU16 reads a big-endian 16-bit unsigned value.
func (c Cursor) BeU16() (uint16, Cursor, error) {
	if !c.Aligned() {
		panic("bitio: BeU16 called on a non-byte-aligned cursor")
	}
	if len(c.data) < 2 {
		return 0, c, NotEnoughBytes
	}
	v := uint16(c.data[0])<<8 | uint16(c.data[1])
	return v, Cursor{data: c.data[2:]}, nil
}

// BeU24 reads a big-endian 24-bit unsigned value, returned widened to
// uint32. Used for the O-RAN section header's packed
// section_id|rb|sym_inc|start_prbc field.
func (c Cursor) BeU24() (uint32, Cursor, error) {
	if !c.Aligned() {
		panic("bitio: BeU24 called on a non-byte-aligned cursor")
	}
	if len(c.data) < 3 {
		return 0, c, NotEnoughBytes
	}
	v := uint32(c.data[0])<<16 | uint32(c.data[1])<<8 | uint32(c.data[2])
	return v, Cursor{data: c.data[3:]}, nil
}

// BeU32 reads a big-endian 32-bit unsigned value.
func (c Cursor) BeU32() (uint32, Cursor, error) {
	if !c.Aligned() {
		panic("bitio: BeU32 called on a non-byte-aligned cursor")
	}
	if len(c.data) < 4 {
		return 0, c, NotEnoughBytes
	}
	v := uint32(c.data[0])<<24 | uint32(c.data[1])<<16 | uint32(c.data[2])<<8 | uint32(c.data[3])
	return v, Cursor{data: c.data[4:]}, nil
}

// Take reads n raw bytes, byte-aligned.
func (c Cursor) Take(n int) ([]byte, Cursor, error) {
	if !c.Aligned() {
		panic("bitio: Take called on a non-byte-aligned cursor")
	}
	if len(c.data) < n {
		return nil, c, NotEnoughBytes
	}
	return c.data[:n], Cursor{data: c.data[n:]}, nil
}

// Bits reads an unsigned value of the given bit width, consuming MSB-first
// from the current byte onward. width must be in [0, 32].
func (c Cursor) Bits(width uint) (uint32, Cursor, error) {
	if width == 0 {
		return 0, c, nil
	}
	if width > 32 {
		panic("bitio: Bits width must be <= 32")
	}

	availableBits := uint(len(c.data))*8 - c.bitOffset
	if availableBits < width {
		return 0, c, NotEnoughBits
	}

	var value uint32
	data := c.data
	offset := c.bitOffset
	remaining := width

	for remaining > 0 {
		bitsLeftInByte := 8 - offset
		take := bitsLeftInByte
		if take > remaining {
			take = remaining
		}

		shift := bitsLeftInByte - take
		mask := byte((1 << take) - 1)
		chunk := (data[0] >> shift) & mask

		value = (value << take) | uint32(chunk)

		remaining -= take
		offset += take
		if offset == 8 {
			data = data[1:]
			offset = 0
		}
	}

	return value, Cursor{data: data, bitOffset: offset}, nil
}

// SignExtend interprets the low `width` bits of u as two's-complement and
// sign-extends to a signed 32-bit integer.
func SignExtend(u uint32, width uint) int32 {
	if width == 0 || width >= 32 {
		return int32(u)
	}
	signBit := uint32(1) << (width - 1)
	if u&signBit == 0 {
		return int32(u)
	}
	return int32(u) - int32(uint32(1)<<width)
}
