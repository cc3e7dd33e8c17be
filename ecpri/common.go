package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// Preamble is the 2-byte marker this dialect requires at the start of
// every eCPRI frame, in place of the transport-layer framing a real
// eCPRI-over-Ethernet deployment would carry.
var Preamble = [2]byte{0xAE, 0xFE}

// CommonHeader is the 8-byte eCPRI common header that follows the
// preamble.
type CommonHeader struct {
	Revision      uint8
	Reserved      uint8
	Concatenation bool
	MessageType   MessageType
	PayloadSize   uint16
	PcId          uint16
	SeqId         uint16
}

// ParseCommonHeader validates the preamble and decodes the 8-byte common
// header that follows it, returning the cursor advanced past both.
//
// Reserved is extracted with (byte & 0xE0) >> 1, a known-wrong mask
// carried over from the source dialect: it reads the top 3 bits of the
// revision nibble rather than the 3 reserved bits between the revision
// and the concatenation flag. Do not "fix" this — see SPEC_FULL.md §9.
func ParseCommonHeader(c bitio.Cursor) (CommonHeader, bitio.Cursor, error) {
	preamble, next, err := c.Take(2)
	if err != nil {
		return CommonHeader{}, c, NotEcpri
	}
	if preamble[0] != Preamble[0] || preamble[1] != Preamble[1] {
		return CommonHeader{}, c, NotEcpri
	}

	b0, next, err := next.U8()
	if err != nil {
		return CommonHeader{}, c, TruncatedPacket
	}
	msgType, next, err := next.U8()
	if err != nil {
		return CommonHeader{}, c, TruncatedPacket
	}
	payloadSize, next, err := next.BeU16()
	if err != nil {
		return CommonHeader{}, c, TruncatedPacket
	}
	pcId, next, err := next.BeU16()
	if err != nil {
		return CommonHeader{}, c, TruncatedPacket
	}
	seqId, next, err := next.BeU16()
	if err != nil {
		return CommonHeader{}, c, TruncatedPacket
	}

	hdr := CommonHeader{
		Revision:      (b0 & 0xF0) >> 4,
		Reserved:      (b0 & 0xE0) >> 1,
		Concatenation: b0&0x01 != 0,
		MessageType:   MessageType(msgType),
		PayloadSize:   payloadSize,
		PcId:          pcId,
		SeqId:         seqId,
	}
	return hdr, next, nil
}
