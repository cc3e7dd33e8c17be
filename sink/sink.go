// Package sink streams reassembled radio frames as textual records,
// applying the frame-boundary policy that skips any partial leading
// frame a capture may begin mid-way through.
package sink

import (
	"bufio"
	"fmt"
	"io"

	"github.com/oranfh/ecpridecode/reassembly"
)

// Writer streams reassembly.DrainedEntry values to an underlying
// io.Writer as text records, buffered with a guaranteed flush on Close.
type Writer struct {
	w bufio.Writer

	started    bool
	startFrame uint8
}

// New wraps w for buffered record writing.
func New(w io.Writer) *Writer {
	return &Writer{w: *bufio.NewWriter(w)}
}

// WriteAll applies the frame-boundary policy to entries, in drain order,
// and writes exactly one complete frame's worth of records. It waits for
// the key (*, 0, 0, 0) of some frame_id to begin emission, then stops at
// the first entry whose frame_id differs from that starting frame.
func (s *Writer) WriteAll(entries []reassembly.DrainedEntry) error {
	for _, de := range entries {
		if !s.started {
			if de.Key.SubframeId != 0 || de.Key.SlotId != 0 || de.Key.SymbolId != 0 {
				continue
			}
			s.started = true
			s.startFrame = de.Key.FrameId
		}

		if de.Key.FrameId != s.startFrame {
			break
		}

		if err := s.writeEntry(de); err != nil {
			return err
		}
	}
	return nil
}

func (s *Writer) writeEntry(de reassembly.DrainedEntry) error {
	_, err := fmt.Fprintf(&s.w, "frame_id: %d, subframe_id: %d, slot_id: %d, slot_dir: %d, symbol_id: %d, iq:\n",
		de.Key.FrameId, de.Key.SubframeId, de.Key.SlotId, de.Entry.Direction, de.Key.SymbolId)
	if err != nil {
		return err
	}
	for _, sample := range de.Entry.IQ {
		if _, err := fmt.Fprintf(&s.w, "%d, %d\n", sample.I, sample.Q); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes any buffered output.
func (s *Writer) Close() error {
	return s.w.Flush()
}
