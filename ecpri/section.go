package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// SectionHeader is the 4-byte header shared by every C-Plane and
// U-Plane section: a 24-bit packed field plus num_prbc.
type SectionHeader struct {
	SectionId   uint16
	RbIndicator bool
	SymInc      bool
	StartPrbc   uint16
	NumPrbc     uint8
}

// ParseSectionHeader decodes the 24-bit packed
// section_id|rb|sym_inc|start_prbc field followed by the num_prbc byte.
func ParseSectionHeader(c bitio.Cursor) (SectionHeader, bitio.Cursor, error) {
	packed, next, err := c.BeU24()
	if err != nil {
		return SectionHeader{}, c, TruncatedPacket
	}
	numPrbc, next, err := next.U8()
	if err != nil {
		return SectionHeader{}, c, TruncatedPacket
	}

	hdr := SectionHeader{
		SectionId:   uint16((packed >> 12) & 0xFFF),
		RbIndicator: (packed>>11)&0x1 != 0,
		SymInc:      (packed>>10)&0x1 != 0,
		StartPrbc:   uint16(packed & 0x3FF),
		NumPrbc:     numPrbc,
	}
	return hdr, next, nil
}

// FrameStructure is the packed fft_size/mu byte shared by Type 0 and
// Type 3 bodies.
type FrameStructure struct {
	FftSize uint8
	Mu      uint8
}

func parseFrameStructure(b uint8) FrameStructure {
	return FrameStructure{FftSize: (b >> 4) & 0xF, Mu: b & 0xF}
}

// Type0Entry is one entry in a Type 0 (idle/guard) section list.
type Type0Entry struct {
	Header    SectionHeader
	ReMask    uint16
	NumSymbol uint8
	Ef        bool
	Reserved  uint16
}

// Type0Body is the Type 0 (idle/guard) C-Plane section body.
type Type0Body struct {
	TimeOffset     uint16
	FrameStructure FrameStructure
	CpLength       uint16
	Reserved       uint8
	Entries        []Type0Entry
}

// ParseType0Body decodes the Type 0 header and its num_sections entries.
func ParseType0Body(c bitio.Cursor, numSections uint8) (Type0Body, bitio.Cursor, error) {
	timeOffset, next, err := c.BeU16()
	if err != nil {
		return Type0Body{}, c, TruncatedPacket
	}
	fsByte, next, err := next.U8()
	if err != nil {
		return Type0Body{}, c, TruncatedPacket
	}
	cpLength, next, err := next.BeU16()
	if err != nil {
		return Type0Body{}, c, TruncatedPacket
	}
	reserved, next, err := next.U8()
	if err != nil {
		return Type0Body{}, c, TruncatedPacket
	}

	body := Type0Body{
		TimeOffset:     timeOffset,
		FrameStructure: parseFrameStructure(fsByte),
		CpLength:       cpLength,
		Reserved:       reserved,
	}

	for i := uint8(0); i < numSections; i++ {
		var entry Type0Entry
		entry.Header, next, err = ParseSectionHeader(next)
		if err != nil {
			return Type0Body{}, c, err
		}

		reMask, n, err := next.Bits(12)
		if err != nil {
			return Type0Body{}, c, TruncatedPacket
		}
		numSymbol, n, err := n.Bits(4)
		if err != nil {
			return Type0Body{}, c, TruncatedPacket
		}
		ef, n, err := n.Bits(1)
		if err != nil {
			return Type0Body{}, c, TruncatedPacket
		}
		rsv, n, err := n.Bits(15)
		if err != nil {
			return Type0Body{}, c, TruncatedPacket
		}

		entry.ReMask = uint16(reMask)
		entry.NumSymbol = uint8(numSymbol)
		entry.Ef = ef != 0
		entry.Reserved = uint16(rsv)
		next = n

		body.Entries = append(body.Entries, entry)
	}

	return body, next, nil
}

// Type1Entry is one entry in a Type 1 (UL/DL channel) section list.
// Type 2 sections share this exact layout.
type Type1Entry struct {
	Header    SectionHeader
	ReMask    uint16
	NumSymbol uint8
	Ef        bool
	BeamId    uint16
}

// Type1Body is the Type 1/2 C-Plane section body.
type Type1Body struct {
	UdCompHdr uint8
	Reserved  uint8
	Entries   []Type1Entry
}

// ParseType1Body decodes the Type 1 header and its num_sections entries.
func ParseType1Body(c bitio.Cursor, numSections uint8) (Type1Body, bitio.Cursor, error) {
	udCompHdr, next, err := c.U8()
	if err != nil {
		return Type1Body{}, c, TruncatedPacket
	}
	reserved, next, err := next.U8()
	if err != nil {
		return Type1Body{}, c, TruncatedPacket
	}

	body := Type1Body{UdCompHdr: udCompHdr, Reserved: reserved}

	for i := uint8(0); i < numSections; i++ {
		var entry Type1Entry
		entry.Header, next, err = ParseSectionHeader(next)
		if err != nil {
			return Type1Body{}, c, err
		}

		reMask, n, err := next.Bits(12)
		if err != nil {
			return Type1Body{}, c, TruncatedPacket
		}
		numSymbol, n, err := n.Bits(4)
		if err != nil {
			return Type1Body{}, c, TruncatedPacket
		}
		ef, n, err := n.Bits(1)
		if err != nil {
			return Type1Body{}, c, TruncatedPacket
		}
		beamId, n, err := n.Bits(15)
		if err != nil {
			return Type1Body{}, c, TruncatedPacket
		}

		entry.ReMask = uint16(reMask)
		entry.NumSymbol = uint8(numSymbol)
		entry.Ef = ef != 0
		entry.BeamId = uint16(beamId)
		next = n

		body.Entries = append(body.Entries, entry)
	}

	return body, next, nil
}

// Type3Entry is one entry in a Type 3 (PRACH / mixed numerology)
// section list.
type Type3Entry struct {
	Header     SectionHeader
	ReMask     uint16
	NumSymbol  uint8
	Ef         bool
	BeamId     uint16
	FreqOffset uint16
	Reserved   uint8
}

// Type3Body is the Type 3 (PRACH / mixed numerology) C-Plane section
// body: the Type 0 timing fields plus the Type 1 compression header,
// followed by entries carrying an extra frequency offset.
type Type3Body struct {
	TimeOffset     uint16
	FrameStructure FrameStructure
	CpLength       uint16
	UdCompHdr      uint8
	Entries        []Type3Entry
}

// ParseType3Body decodes the Type 3 header and its num_sections entries.
func ParseType3Body(c bitio.Cursor, numSections uint8) (Type3Body, bitio.Cursor, error) {
	timeOffset, next, err := c.BeU16()
	if err != nil {
		return Type3Body{}, c, TruncatedPacket
	}
	fsByte, next, err := next.U8()
	if err != nil {
		return Type3Body{}, c, TruncatedPacket
	}
	cpLength, next, err := next.BeU16()
	if err != nil {
		return Type3Body{}, c, TruncatedPacket
	}
	udCompHdr, next, err := next.U8()
	if err != nil {
		return Type3Body{}, c, TruncatedPacket
	}

	body := Type3Body{
		TimeOffset:     timeOffset,
		FrameStructure: parseFrameStructure(fsByte),
		CpLength:       cpLength,
		UdCompHdr:      udCompHdr,
	}

	for i := uint8(0); i < numSections; i++ {
		var entry Type3Entry
		entry.Header, next, err = ParseSectionHeader(next)
		if err != nil {
			return Type3Body{}, c, err
		}

		reMask, n, err := next.Bits(12)
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}
		numSymbol, n, err := n.Bits(4)
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}
		ef, n, err := n.Bits(1)
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}
		beamId, n, err := n.Bits(15)
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}
		freqOffset, n, err := n.BeU16()
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}
		rsv, n, err := n.U8()
		if err != nil {
			return Type3Body{}, c, TruncatedPacket
		}

		entry.ReMask = uint16(reMask)
		entry.NumSymbol = uint8(numSymbol)
		entry.Ef = ef != 0
		entry.BeamId = uint16(beamId)
		entry.FreqOffset = freqOffset
		entry.Reserved = rsv
		next = n

		body.Entries = append(body.Entries, entry)
	}

	return body, next, nil
}
