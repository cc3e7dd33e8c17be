package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"github.com/oranfh/ecpridecode/internal/config"
	"github.com/oranfh/ecpridecode/internal/metrics"
	"github.com/oranfh/ecpridecode/internal/runlog"
	"github.com/oranfh/ecpridecode/reassembly"
)

func ethernetFrame(etherType uint16, payload []byte) []byte {
	b := make([]byte, 14+len(payload))
	copy(b[0:6], []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	copy(b[6:12], []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	b[12] = byte(etherType >> 8)
	b[13] = byte(etherType)
	copy(b[14:], payload)
	return b
}

func uPlanePacket(frameId, subframe, slot, sym, exponent uint8, packed []byte) []byte {
	preamble := []byte{0xAE, 0xFE}
	common := []byte{0x10, 0x00, 0x00, byte(len(packed) + 10), 0x00, 0x01, 0x00, 0x00}

	sym16 := uint16(subframe)<<12 | uint16(slot)<<6 | uint16(sym)
	timing := []byte{0x00, frameId, byte(sym16 >> 8), byte(sym16)}

	sectionHdr := []byte{0x00, 0x00, 0x00, 0x01}
	prb := append([]byte{exponent & 0x0F}, packed...)

	out := append([]byte{}, preamble...)
	out = append(out, common...)
	out = append(out, timing...)
	out = append(out, sectionHdr...)
	out = append(out, prb...)
	return out
}

func bipPayload() []byte {
	return []byte{0x21, 0xC5, 0x02, 0x3C, 0xDE, 0xAD, 0xBE, 0xEF}
}

// legacyPcap wraps each Ethernet frame in records as a minimal legacy-pcap
// byte stream, mirroring pcap_test.go's own helper shape.
func legacyPcap(frames ...[]byte) []byte {
	order := binary.BigEndian
	buf := &bytes.Buffer{}
	buf.Write([]byte{0xa1, 0xb2, 0xc3, 0xd4})
	binary.Write(buf, order, uint16(2))
	binary.Write(buf, order, uint16(4))
	binary.Write(buf, order, int32(0))
	binary.Write(buf, order, uint32(0))
	binary.Write(buf, order, uint32(65535))
	binary.Write(buf, order, uint32(1))

	for _, f := range frames {
		binary.Write(buf, order, uint32(10))
		binary.Write(buf, order, uint32(20))
		binary.Write(buf, order, uint32(len(f)))
		binary.Write(buf, order, uint32(len(f)))
		buf.Write(f)
	}
	return buf.Bytes()
}

func tempFile(t *testing.T, data []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "capture-*.pcap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func TestDecodeReturnsOneOnUnrecognizedCapture(t *testing.T) {
	captureFile := tempFile(t, []byte{0x00, 0x01, 0x02, 0x03})
	defer captureFile.Close()
	outFile := tempFile(t, nil)
	defer outFile.Close()

	code := decode(captureFile, outFile, config.Default(), runlog.New(), metrics.New())
	if code != 1 {
		t.Errorf("got exit code %d, want 1", code)
	}
}

func TestDecodeSucceedsOnEmptyCapture(t *testing.T) {
	data := legacyPcap()
	captureFile := tempFile(t, data)
	defer captureFile.Close()
	outFile := tempFile(t, nil)
	defer outFile.Close()

	code := decode(captureFile, outFile, config.Default(), runlog.New(), metrics.New())
	if code != 0 {
		t.Errorf("got exit code %d, want 0", code)
	}
}

func TestDecodeIngestsUPlaneIntoOutput(t *testing.T) {
	packed := make([]byte, 27) // mantissa=9: 24*9/8 bytes
	frame := ethernetFrame(0x8100, uPlanePacket(10, 0, 0, 0, 0, packed))
	data := legacyPcap(frame)

	captureFile := tempFile(t, data)
	defer captureFile.Close()
	outFile := tempFile(t, nil)
	defer outFile.Close()

	cfg := config.Default()
	counts := metrics.New()
	code := decode(captureFile, outFile, cfg, runlog.New(), counts)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0", code)
	}

	metricsBuf := &bytes.Buffer{}
	if err := counts.Render(metricsBuf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(metricsBuf.String(), "ecpridecode_uplane_packets_ingested_total 1") {
		t.Errorf("expected one ingested U-Plane packet, got:\n%s", metricsBuf.String())
	}
}

func TestIngestRecordDecodesBIPStructurallyWithoutReassembly(t *testing.T) {
	frame := ethernetFrame(0x8951, bipPayload())
	reasm := reassembly.NewMap()
	counts := metrics.New()

	ingestRecord(frame, 9, reasm, runlog.New(), counts)

	if len(reasm.Drain()) != 0 {
		t.Errorf("expected no reassembly entries from a BIP frame")
	}

	buf := &bytes.Buffer{}
	if err := counts.Render(buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `reason="bip_frame"`) {
		t.Errorf("expected a bip_frame skip counter, got:\n%s", buf.String())
	}
}

func TestIngestRecordSkipsPTPAndUnknownWithoutReassembly(t *testing.T) {
	for _, tc := range []struct {
		etherType uint16
		reason    string
	}{
		{0x88F7, "ptp_frame"},
		{0x0800, "unknown_frame"},
	} {
		frame := ethernetFrame(tc.etherType, []byte{0x01, 0x02})
		reasm := reassembly.NewMap()
		counts := metrics.New()

		ingestRecord(frame, 9, reasm, runlog.New(), counts)

		if len(reasm.Drain()) != 0 {
			t.Errorf("etherType %#04x: expected no reassembly entries", tc.etherType)
		}

		buf := &bytes.Buffer{}
		if err := counts.Render(buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `reason="`+tc.reason+`"`) {
			t.Errorf("etherType %#04x: expected skip reason %q, got:\n%s", tc.etherType, tc.reason, buf.String())
		}
	}
}
