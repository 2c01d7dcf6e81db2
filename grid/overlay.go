package grid

import (
	"github.com/wippyai/structlayout/layout"
)

// Block is one field or padding region drawn inside a structure cell.
type Block struct {
	Label string
	// Repetition is the index of the structure cell the block belongs to.
	Repetition int64
	// Address is the absolute byte address of the first byte.
	Address int64
	// Offset is the position of the block within its structure.
	Offset int64
	Len    int64
	Min    float64
	Max    float64
	// Field is the field index, or -1 for padding.
	Field int
	Tail  bool
	Shade int
}

// Padding reports whether the block is filler.
func (b Block) Padding() bool {
	return b.Field < 0
}

// Contains reports whether x falls inside the block.
func (b Block) Contains(x float64) bool {
	return x >= b.Min && x < b.Max
}

// Overlay places the regions of res inside structure cell c. The same
// layout is reused for every repetition; only the base address changes.
// Empty cells have nothing to overlay.
func Overlay(c Cell, res *layout.Result, cellWidth float64) []Block {
	if c.Empty || res.Size == 0 {
		return nil
	}
	regions := res.Spans()
	out := make([]Block, 0, len(regions))
	tailStart := int64(-1)
	for _, p := range res.Padding {
		if p.Tail {
			tailStart = p.Start
		}
	}
	for _, reg := range regions {
		b := Block{
			Repetition: c.Index,
			Address:    c.Address + reg.Start,
			Offset:     reg.Start,
			Len:        reg.Len,
			Min:        c.Min + float64(reg.Start)*cellWidth,
			Max:        c.Min + float64(reg.Start+reg.Len)*cellWidth,
			Field:      reg.Field,
			Shade:      c.Shade,
		}
		if reg.IsPadding() {
			b.Tail = reg.Start == tailStart
		} else {
			b.Label = layout.FieldName(reg.Field)
		}
		out = append(out, b)
	}
	return out
}
