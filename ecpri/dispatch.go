package ecpri

import "github.com/oranfh/ecpridecode/bitio"

// Message is the closed result of dispatching one eCPRI payload: exactly
// one of UPlane or CPlane is set, matching the message_type in Common.
type Message struct {
	Common CommonHeader
	UPlane *UPlaneMessage
	CPlane *CPlaneMessage
}

// Parse validates the preamble and common header, then dispatches on
// message_type: 0 decodes a user-plane IQ payload at the given mantissa
// width, 2 decodes a fast control-plane section. Any other message_type
// yields UnsupportedMessageType.
func Parse(data []byte, mantissa uint) (Message, error) {
	c := bitio.NewCursor(data)

	common, next, err := ParseCommonHeader(c)
	if err != nil {
		return Message{}, err
	}

	switch common.MessageType {
	case MessageTypeUPlane:
		u, _, err := ParseUPlane(next, mantissa)
		if err != nil {
			return Message{}, err
		}
		return Message{Common: common, UPlane: &u}, nil
	case MessageTypeCPlane:
		cp, _, err := ParseCPlane(next)
		if err != nil {
			return Message{}, err
		}
		return Message{Common: common, CPlane: &cp}, nil
	default:
		return Message{}, UnsupportedMessageType
	}
}
