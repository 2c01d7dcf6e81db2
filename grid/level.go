package grid

import (
	"github.com/wippyai/structlayout/layout"
)

// Level is one tier of the address grid.
type Level struct {
	Name   string
	Bytes  int64
	Struct bool
}

// ByteLevels returns the fixed tiers, one per field width.
func ByteLevels() []Level {
	sizes := layout.AllSizes()
	out := make([]Level, len(sizes))
	for i, s := range sizes {
		out[i] = Level{Name: s.String(), Bytes: s.Bytes()}
	}
	return out
}

// StructLevel returns the tier whose cells span one structure instance.
func StructLevel(res *layout.Result, name string) Level {
	if name == "" {
		name = layout.DefaultStructName
	}
	return Level{Name: name, Bytes: res.Size, Struct: true}
}

// Levels returns the byte tiers followed by the structure tier.
func Levels(res *layout.Result, name string) []Level {
	return append(ByteLevels(), StructLevel(res, name))
}

// Degenerate reports whether the level has no width, which is the case for
// the structure tier of an empty structure.
func (l Level) Degenerate() bool {
	return l.Bytes <= 0
}

// Span returns the width of one cell in scroll units.
func (l Level) Span(cellWidth float64) float64 {
	return float64(l.Bytes) * cellWidth
}
