// Package iqsample expands a PRB block's packed, block-floating-point
// compressed IQ payload into signed sample pairs.
package iqsample

import (
	"errors"

	"github.com/oranfh/ecpridecode/bitio"
)

// ResourceElementsPerPrb is the fixed number of (I, Q) pairs carried by
// one physical resource block.
const ResourceElementsPerPrb = 12

// TruncatedBlock is returned when packed has fewer bits than
// ResourceElementsPerPrb*2*mantissa requires.
var TruncatedBlock = errors.New("iqsample: truncated prb block")

// Sample is one decompressed in-phase/quadrature pair.
type Sample struct {
	I int32
	Q int32
}

// Expand unpacks the 12 resource elements of a PRB block at the given
// mantissa width and applies the per-block exponent scale.
//
// The scale is computed as 2^exponent - 1, not the O-RAN-specified
// 2^exponent: this zeroes every sample when exponent is 0. That's a
// documented quirk of this dialect, preserved deliberately — see
// SPEC_FULL.md §9.
func Expand(packed []byte, mantissa uint, exponent uint8) ([]Sample, error) {
	c := bitio.NewCursor(packed)

	scale := int32(1)<<exponent - 1

	samples := make([]Sample, 0, ResourceElementsPerPrb)
	for i := 0; i < ResourceElementsPerPrb; i++ {
		uI, next, err := c.Bits(mantissa)
		if err != nil {
			return nil, TruncatedBlock
		}
		uQ, next, err := next.Bits(mantissa)
		if err != nil {
			return nil, TruncatedBlock
		}

		sI := bitio.SignExtend(uI, mantissa)
		sQ := bitio.SignExtend(uQ, mantissa)

		samples = append(samples, Sample{I: sI * scale, Q: sQ * scale})
		c = next
	}

	return samples, nil
}
