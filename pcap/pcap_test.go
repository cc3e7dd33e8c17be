package pcap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyHeader(order binary.ByteOrder) []byte {
	buf := &bytes.Buffer{}
	if order == binary.BigEndian {
		buf.Write(legacyMagicBig)
	} else {
		buf.Write(legacyMagicLittle)
	}
	binary.Write(buf, order, uint16(2))       // major
	binary.Write(buf, order, uint16(4))       // minor
	binary.Write(buf, order, int32(0))        // tz correction
	binary.Write(buf, order, uint32(0))       // sigfigs
	binary.Write(buf, order, uint32(65535))   // snaplen
	binary.Write(buf, order, uint32(1))       // linktype: ethernet
	return buf.Bytes()
}

func appendRecord(buf *bytes.Buffer, order binary.ByteOrder, data []byte) {
	binary.Write(buf, order, uint32(10))            // ts_sec
	binary.Write(buf, order, uint32(20))             // ts_usec
	binary.Write(buf, order, uint32(len(data)))     // incl_len
	binary.Write(buf, order, uint32(len(data)))     // orig_len
	buf.Write(data)
}

func TestOpenRejectsUnrecognizedFormat(t *testing.T) {
	_, err := Open(bytes.NewReader([]byte{0, 1, 2, 3}))
	assert.ErrorIs(t, err, UnrecognizedFormat)
}

func TestOpenAcceptsLittleEndianLegacyMagic(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write(legacyHeader(binary.LittleEndian))

	s, err := Open(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), s.LinkType())
}

func TestOpenAcceptsPcapng(t *testing.T) {
	s, err := Open(bytes.NewReader(pcapngMagic))
	require.NoError(t, err)
	assert.True(t, s.pcapng)
}

func TestNextYieldsRecordsInOrder(t *testing.T) {
	order := binary.BigEndian
	buf := &bytes.Buffer{}
	buf.Write(legacyHeader(order))
	appendRecord(buf, order, []byte{0xDE, 0xAD})
	appendRecord(buf, order, []byte{0xBE, 0xEF})

	s, err := Open(buf)
	require.NoError(t, err)

	r1, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, r1.Data)

	r2, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBE, 0xEF}, r2.Data)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrEOF)
}

func TestNextSurfacesIncompleteOnTruncatedRecord(t *testing.T) {
	order := binary.BigEndian
	buf := &bytes.Buffer{}
	buf.Write(legacyHeader(order))
	binary.Write(buf, order, uint32(10))
	binary.Write(buf, order, uint32(20))
	binary.Write(buf, order, uint32(4)) // incl_len claims 4 bytes...
	binary.Write(buf, order, uint32(4))
	buf.Write([]byte{0x01, 0x02}) // ...but only 2 follow

	s, err := Open(buf)
	require.NoError(t, err)

	_, err = s.Next()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestRefillIsANoOp(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write(legacyHeader(binary.BigEndian))
	s, err := Open(buf)
	require.NoError(t, err)
	assert.NoError(t, s.Refill())
}
