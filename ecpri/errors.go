package ecpri

import "errors"

// Non-fatal, packet-level errors. The driver logs these and advances to
// the next capture record; no reassembly state is touched.
var (
	// NotEcpri is returned when the leading 2-byte preamble doesn't equal
	// the 0xAEFE marker this dialect expects.
	NotEcpri = errors.New("ecpri: not an eCPRI frame")
	// TruncatedPacket is returned when a recognized structure runs off
	// the end of the borrowed byte span.
	TruncatedPacket = errors.New("ecpri: truncated packet")
	// UnsupportedMessageType is returned for any message_type other than
	// 0 (user-plane) or 2 (fast control-plane).
	UnsupportedMessageType = errors.New("ecpri: unsupported message type")
	// UnsupportedSectionType is returned for any C-Plane section_type
	// other than 0, 1, or 3.
	UnsupportedSectionType = errors.New("ecpri: unsupported section type")
)

// MessageType is the closed set of eCPRI message types this dialect
// dispatches on. Per SPEC_FULL.md, this is modeled as a sum type with a
// catch-all rather than open subtyping.
type MessageType uint8

const (
	MessageTypeUPlane  MessageType = 0
	MessageTypeCPlane  MessageType = 2
)

// Direction is the radio link direction carried in the timing header.
type Direction uint8

const (
	DirectionUL Direction = 0
	DirectionDL Direction = 1
)

func (d Direction) String() string {
	if d == DirectionDL {
		return "DL"
	}
	return "UL"
}

// FilterIndex is the timing-header filter selector.
type FilterIndex uint8

const (
	FilterNone     FilterIndex = 0
	FilterNRPrach  FilterIndex = 3
)

// SectionType is the closed set of C-Plane section bodies this dialect
// understands.
type SectionType uint8

const (
	SectionType0 SectionType = 0
	SectionType1 SectionType = 1
	SectionType3 SectionType = 3
)
