// Package reassembly accumulates decompressed IQ samples into per-symbol
// entries keyed by radio timing, preserving both arrival order within a
// key and lexicographic order across keys at drain time.
package reassembly

import (
	"sort"

	"github.com/oranfh/ecpridecode/ecpri"
	"github.com/oranfh/ecpridecode/iqsample"
)

// Key identifies one reassembly entry: a carrier/antenna stream plus its
// radio timing coordinates.
type Key struct {
	PcId       uint16
	FrameId    uint8
	SubframeId uint8
	SlotId     uint8
	SymbolId   uint8
}

// Less reports whether k sorts before other in the lexicographic order
// spec.md §4.8 requires at drain time.
func (k Key) Less(other Key) bool {
	if k.PcId != other.PcId {
		return k.PcId < other.PcId
	}
	if k.FrameId != other.FrameId {
		return k.FrameId < other.FrameId
	}
	if k.SubframeId != other.SubframeId {
		return k.SubframeId < other.SubframeId
	}
	if k.SlotId != other.SlotId {
		return k.SlotId < other.SlotId
	}
	return k.SymbolId < other.SymbolId
}

// Entry is one reassembled symbol: its direction and the growing
// sequence of IQ pairs appended as packets for its key arrive.
type Entry struct {
	Direction ecpri.Direction
	IQ        []iqsample.Sample
}

// Map is the reassembly engine's state: an insertion-ordered-within-key,
// lexicographically-ordered-at-drain accumulation of reassembly entries.
type Map struct {
	entries map[Key]*Entry
}

// NewMap returns an empty reassembly map.
func NewMap() *Map {
	return &Map{entries: make(map[Key]*Entry)}
}

// Ingest appends samples to the entry for key, creating it with
// direction if this is the first arrival for that key. A nil or empty
// samples slice still creates the key with an empty IQ list.
func (m *Map) Ingest(key Key, direction ecpri.Direction, samples []iqsample.Sample) {
	e, ok := m.entries[key]
	if !ok {
		e = &Entry{Direction: direction}
		m.entries[key] = e
	}
	e.IQ = append(e.IQ, samples...)
}

// DrainedEntry pairs a key with its accumulated entry for Drain's output.
type DrainedEntry struct {
	Key   Key
	Entry Entry
}

// Drain consumes the map and returns its entries in lexicographic key
// order. The map is empty after Drain returns.
func (m *Map) Drain() []DrainedEntry {
	out := make([]DrainedEntry, 0, len(m.entries))
	for k, e := range m.entries {
		out = append(out, DrainedEntry{Key: k, Entry: *e})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Less(out[j].Key)
	})
	m.entries = make(map[Key]*Entry)
	return out
}
