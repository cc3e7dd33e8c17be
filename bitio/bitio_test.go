package bitio

import (
	"testing"

	"pgregory.net/rapid"
)

func TestU8(t *testing.T) {
	c := NewCursor([]byte{0x12, 0x34})
	v, next, err := c.U8()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x12 {
		t.Errorf("got %#x, want 0x12", v)
	}
	if next.Len() != 1 {
		t.Errorf("got remaining len %d, want 1", next.Len())
	}
}

func TestU8InsufficientLength(t *testing.T) {
	c := NewCursor(nil)
	if _, _, err := c.U8(); err != NotEnoughBytes {
		t.Errorf("got %v, want NotEnoughBytes", err)
	}
}

func TestBeU16(t *testing.T) {
	c := NewCursor([]byte{0xAE, 0xFE, 0x01})
	v, next, err := c.BeU16()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0xAEFE {
		t.Errorf("got %#x, want 0xAEFE", v)
	}
	if next.Len() != 1 {
		t.Errorf("got remaining len %d, want 1", next.Len())
	}
}

func TestBeU24(t *testing.T) {
	// section_id=0x107, rb=1, sym_inc=1, start_prbc=0x3FF packed into 24 bits.
	c := NewCursor([]byte{0x10, 0x7F, 0xFF})
	v, _, err := c.BeU24()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x107FFF {
		t.Errorf("got %#x, want 0x107FFF", v)
	}
}

func TestTakeInsufficientLength(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02})
	if _, _, err := c.Take(3); err != NotEnoughBytes {
		t.Errorf("got %v, want NotEnoughBytes", err)
	}
}

func TestBitsMSBFirst(t *testing.T) {
	// 0b1011_0010, read 4 bits then 4 bits.
	c := NewCursor([]byte{0xB2})
	hi, next, err := c.Bits(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hi != 0xB {
		t.Errorf("got %#x, want 0xB", hi)
	}
	lo, next, err := next.Bits(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lo != 0x2 {
		t.Errorf("got %#x, want 0x2", lo)
	}
	if next.Len() != 0 {
		t.Errorf("expected cursor exhausted, got len %d", next.Len())
	}
}

func TestBitsCrossesByteBoundary(t *testing.T) {
	// A 9-bit read takes all 8 bits of 0b1010_1010 plus the top bit (0)
	// of 0b0101_0101, MSB-first, leaving the cursor 1 bit into the
	// second byte.
	c := NewCursor([]byte{0b1010_1010, 0b0101_0101})
	v, next, err := c.Bits(9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint32(0b1_0101_0100)
	if v != want {
		t.Errorf("got %#b, want %#b", v, want)
	}
	if next.Len() != 1 {
		t.Errorf("expected 7 remaining bits in the trailing byte, got len %d", next.Len())
	}
}

func TestBitsNotEnoughBits(t *testing.T) {
	c := NewCursor([]byte{0xFF})
	if _, _, err := c.Bits(9); err != NotEnoughBits {
		t.Errorf("got %v, want NotEnoughBits", err)
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		u     uint32
		width uint
		want  int32
	}{
		{u: 0x0, width: 9, want: 0},
		{u: 0xFF, width: 9, want: 255},
		{u: 0x100, width: 9, want: -256},
		{u: 0x1FF, width: 9, want: -1},
		{u: 0x7, width: 4, want: 7},
		{u: 0x8, width: 4, want: -8},
	}
	for _, tc := range cases {
		got := SignExtend(tc.u, tc.width)
		if got != tc.want {
			t.Errorf("SignExtend(%#x, %d) = %d, want %d", tc.u, tc.width, got, tc.want)
		}
	}
}

// TestSignExtendRangeProperty pins down spec.md §8's invariant: for any
// packed value and mantissa width, the decoded signed value lies in
// [-2^(m-1), 2^(m-1)-1].
func TestSignExtendRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.UintRange(1, 24).Draw(t, "width")
		u := rapid.Uint32Range(0, uint32(1)<<width-1).Draw(t, "u")

		got := SignExtend(u, width)

		min := -(int32(1) << (width - 1))
		max := int32(1)<<(width-1) - 1
		if got < min || got > max {
			t.Fatalf("SignExtend(%#x, %d) = %d, out of range [%d, %d]", u, width, got, min, max)
		}
	})
}

// TestBitsRoundTripsBeU16Property checks that two consecutive 8-bit Bits
// reads agree with BeU16 on arbitrary two-byte input.
func TestBitsRoundTripsBeU16Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b0 := rapid.Byte().Draw(t, "b0")
		b1 := rapid.Byte().Draw(t, "b1")

		c := NewCursor([]byte{b0, b1})
		want, _, err := c.BeU16()
		if err != nil {
			t.Fatal(err)
		}

		hi, next, err := c.Bits(8)
		if err != nil {
			t.Fatal(err)
		}
		lo, _, err := next.Bits(8)
		if err != nil {
			t.Fatal(err)
		}
		got := hi<<8 | lo
		if got != uint32(want) {
			t.Fatalf("got %#x, want %#x", got, want)
		}
	})
}
