package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// TimingHeader is the C-Plane radio-timing header: 4 bytes of common
// fields plus the section count and section type that select the body
// decoder.
type TimingHeader struct {
	Direction      Direction
	PayloadVersion uint8
	FilterIndex    FilterIndex
	FrameId        uint8
	SubframeId     uint8
	SlotId         uint8
	StartSymbolId  uint8
	NumSections    uint8
	SectionType    SectionType
}

// ParseTimingHeader decodes the 6-byte C-Plane timing header: one byte
// of direction|payload_version|filter_index, one byte of frame_id, two
// bytes of subframe_id(4)|slot_id(6)|start_symbol_id(6), then
// num_sections and section_type.
func ParseTimingHeader(c bitio.Cursor) (TimingHeader, bitio.Cursor, error) {
	b0, next, err := c.U8()
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}
	frameId, next, err := next.U8()
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}

	subframeId, next, err := next.Bits(4)
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}
	slotId, next, err := next.Bits(6)
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}
	startSymbolId, next, err := next.Bits(6)
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}

	numSections, next, err := next.U8()
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}
	sectionType, next, err := next.U8()
	if err != nil {
		return TimingHeader{}, c, TruncatedPacket
	}

	hdr := TimingHeader{
		Direction:      Direction((b0 >> 7) & 0x1),
		PayloadVersion: (b0 >> 4) & 0x7,
		FilterIndex:    FilterIndex(b0 & 0xF),
		FrameId:        frameId,
		SubframeId:     uint8(subframeId),
		SlotId:         uint8(slotId),
		StartSymbolId:  uint8(startSymbolId),
		NumSections:    numSections,
		SectionType:    SectionType(sectionType),
	}
	return hdr, next, nil
}
