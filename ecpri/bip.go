package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// BIPType is the 4-bit message type carried in a BIP header. The top
// bit distinguishes BIP from routable RBIP traffic. The constants below
// name the non-routable types; ParseBIPHeader does not check that bit
// and decodes every type value the same way.
type BIPType uint8

const (
	BIPTypeExtendedHeader BIPType = 0x0
	BIPTypeStreamingLTEIQ BIPType = 0x1
	BIPTypeEventChaining  BIPType = 0x2
	BIPTypeBICMP          BIPType = 0x3
	BIPTypeRMWA22Bit      BIPType = 0x4
	BIPTypeRMWA12Bit      BIPType = 0x5
)

// BIPHeader is the 8-byte BIP header: a packed 4-bit type / 12-bit
// stream ID, a payload size, and a timestamp or pointer whose meaning
// depends on the upper-layer type. Decoded structurally only; never
// forwarded to reassembly (SPEC_FULL.md §4.3).
type BIPHeader struct {
	MsgType     BIPType
	StreamId    uint16
	PayloadSize uint16
	Timestamp   uint32
}

// ParseBIPHeader decodes the 8-byte BIP header from the payload
// following the BIP EtherType.
func ParseBIPHeader(c bitio.Cursor) (BIPHeader, bitio.Cursor, error) {
	typeAndStream, next, err := c.BeU16()
	if err != nil {
		return BIPHeader{}, c, TruncatedPacket
	}
	payloadSize, next, err := next.BeU16()
	if err != nil {
		return BIPHeader{}, c, TruncatedPacket
	}
	timestamp, next, err := next.BeU32()
	if err != nil {
		return BIPHeader{}, c, TruncatedPacket
	}

	hdr := BIPHeader{
		MsgType:     BIPType(typeAndStream >> 12),
		StreamId:    typeAndStream & 0xFFF,
		PayloadSize: payloadSize,
		Timestamp:   timestamp,
	}
	return hdr, next, nil
}
