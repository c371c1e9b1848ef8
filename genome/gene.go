// Package genome provides the 32-bit gene codec and population-level genetic operators.
package genome

import (
	"fmt"
	"math"
)

// Gene bit layout:
//
//	bit  31     source kind (0=sensor, 1=internal)
//	bits 30-24  source id (7 bits)
//	bit  23     sink kind (0=internal, 1=action)
//	bits 22-16  sink id (7 bits)
//	bits 15-0   weight (signed int16)
const (
	sourceKindShift = 31
	sourceIDShift   = 24
	sinkKindShift   = 23
	sinkIDShift     = 16
	idMask          = 0x7F
	weightMask      = 0xFFFF
)

// WeightDivisor scales the raw int16 weight down to a small float.
const WeightDivisor = 8000.0

// Weight range representable by the 16-bit field.
const (
	MinRawWeight = -32768
	MaxRawWeight = 32767
)

// Gene is one encoded synaptic connection.
type Gene uint32

// SourceKind identifies where a connection reads from.
type SourceKind uint8

const (
	SourceSensor   SourceKind = 0
	SourceInternal SourceKind = 1
)

// SinkKind identifies where a connection writes to.
type SinkKind uint8

const (
	SinkInternal SinkKind = 0
	SinkAction   SinkKind = 1
)

// Pools holds the live neuron pool sizes used to reduce decoded ids.
type Pools struct {
	Sensors  int
	Internal int
	Actions  int
}

// Fields is the decoded form of a gene.
type Fields struct {
	SourceKind SourceKind
	SourceID   int
	SinkKind   SinkKind
	SinkID     int
	Weight     float64
}

// Decode unpacks a gene. Ids are reduced modulo the pool size of their kind,
// so every decoded gene is structurally valid.
func Decode(g Gene, pools Pools) Fields {
	f := Fields{
		SourceKind: SourceKind((g >> sourceKindShift) & 0x1),
		SourceID:   int((g >> sourceIDShift) & idMask),
		SinkKind:   SinkKind((g >> sinkKindShift) & 0x1),
		SinkID:     int((g >> sinkIDShift) & idMask),
		Weight:     float64(int16(g&weightMask)) / WeightDivisor,
	}

	if f.SourceKind == SourceSensor {
		f.SourceID %= atLeastOne(pools.Sensors)
	} else {
		f.SourceID %= atLeastOne(pools.Internal)
	}
	if f.SinkKind == SinkAction {
		f.SinkID %= atLeastOne(pools.Actions)
	} else {
		f.SinkID %= atLeastOne(pools.Internal)
	}

	return f
}

// Encode packs fields into a gene. The scaled weight is rounded to the
// nearest step and saturates at the int16 range rather than wrapping.
func Encode(f Fields) Gene {
	raw := int64(math.Round(f.Weight * WeightDivisor))
	if raw < MinRawWeight {
		raw = MinRawWeight
	} else if raw > MaxRawWeight {
		raw = MaxRawWeight
	}

	g := Gene(f.SourceKind&0x1) << sourceKindShift
	g |= Gene(f.SourceID&idMask) << sourceIDShift
	g |= Gene(f.SinkKind&0x1) << sinkKindShift
	g |= Gene(f.SinkID&idMask) << sinkIDShift
	g |= Gene(uint16(int16(raw)))
	return g
}

// String returns the gene as fixed-width hex.
func (g Gene) String() string {
	return fmt.Sprintf("%08x", uint32(g))
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
