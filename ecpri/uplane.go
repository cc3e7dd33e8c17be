package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// PrbBlock is one physical resource block's compressed IQ payload: a
// 4-bit reserved field, a 4-bit block-floating-point exponent, and the
// packed I/Q mantissas for its 12 resource elements.
type PrbBlock struct {
	Reserved uint8
	Exponent uint8
	PackedIQ []byte
}

// UPlaneMessage is a decoded user-plane eCPRI payload: the radio timing
// fields, one section header, and its PRB blocks. See SPEC_FULL.md §9
// for why this dialect carries exactly one section per message.
type UPlaneMessage struct {
	Direction      Direction
	PayloadVersion uint8
	FilterIndex    FilterIndex
	FrameId        uint8
	SubframeId     uint8
	SlotId         uint8
	StartSymbolId  uint8
	Section        SectionHeader
	PrbBlocks      []PrbBlock
}

// ParseUPlane decodes a user-plane eCPRI payload at the given mantissa
// width. mantissa must be one of {4, 8, 9, 12, 16}; PackedIQ length per
// block is (mantissa*24)/8 bytes.
func ParseUPlane(c bitio.Cursor, mantissa uint) (UPlaneMessage, bitio.Cursor, error) {
	b0, next, err := c.U8()
	if err != nil {
		return UPlaneMessage{}, c, TruncatedPacket
	}
	frameId, next, err := next.U8()
	if err != nil {
		return UPlaneMessage{}, c, TruncatedPacket
	}

	subframeId, next, err := next.Bits(4)
	if err != nil {
		return UPlaneMessage{}, c, TruncatedPacket
	}
	slotId, next, err := next.Bits(6)
	if err != nil {
		return UPlaneMessage{}, c, TruncatedPacket
	}
	startSymbolId, next, err := next.Bits(6)
	if err != nil {
		return UPlaneMessage{}, c, TruncatedPacket
	}

	section, next, err := ParseSectionHeader(next)
	if err != nil {
		return UPlaneMessage{}, c, err
	}

	packedBytesPerBlock := int(mantissa * 24 / 8)

	msg := UPlaneMessage{
		Direction:      Direction((b0 >> 7) & 0x1),
		PayloadVersion: (b0 >> 4) & 0x7,
		FilterIndex:    FilterIndex(b0 & 0xF),
		FrameId:        frameId,
		SubframeId:     uint8(subframeId),
		SlotId:         uint8(slotId),
		StartSymbolId:  uint8(startSymbolId),
		Section:        section,
	}

	for i := uint8(0); i < section.NumPrbc; i++ {
		resExp, n, err := next.U8()
		if err != nil {
			return UPlaneMessage{}, c, TruncatedPacket
		}
		packed, n, err := n.Take(packedBytesPerBlock)
		if err != nil {
			return UPlaneMessage{}, c, TruncatedPacket
		}

		msg.PrbBlocks = append(msg.PrbBlocks, PrbBlock{
			Reserved: (resExp >> 4) & 0xF,
			Exponent: resExp & 0xF,
			PackedIQ: packed,
		})
		next = n
	}

	return msg, next, nil
}
