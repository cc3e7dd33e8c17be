package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// CPlaneMessage is the fully-decoded, structural-only result of parsing
// a fast C-Plane eCPRI payload. Nothing from it is forwarded to
// reassembly; decoding it to completion is itself the validation step.
type CPlaneMessage struct {
	Timing TimingHeader
	Type0  *Type0Body
	Type1  *Type1Body
	Type3  *Type3Body
}

// ParseCPlane decodes a fast control-plane eCPRI payload: the timing
// header, then the section body selected by its section_type.
func ParseCPlane(c bitio.Cursor) (CPlaneMessage, bitio.Cursor, error) {
	timing, next, err := ParseTimingHeader(c)
	if err != nil {
		return CPlaneMessage{}, c, err
	}

	msg := CPlaneMessage{Timing: timing}

	switch timing.SectionType {
	case SectionType0:
		body, n, err := ParseType0Body(next, timing.NumSections)
		if err != nil {
			return CPlaneMessage{}, c, err
		}
		msg.Type0 = &body
		next = n
	case SectionType1:
		body, n, err := ParseType1Body(next, timing.NumSections)
		if err != nil {
			return CPlaneMessage{}, c, err
		}
		msg.Type1 = &body
		next = n
	case SectionType3:
		body, n, err := ParseType3Body(next, timing.NumSections)
		if err != nil {
			return CPlaneMessage{}, c, err
		}
		msg.Type3 = &body
		next = n
	default:
		return CPlaneMessage{}, c, UnsupportedSectionType
	}

	return msg, next, nil
}
