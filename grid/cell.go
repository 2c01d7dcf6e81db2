package grid

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Viewport is the visible scroll range [Start, End).
type Viewport struct {
	Start float64
	End   float64
}

// Width returns the visible extent.
func (v Viewport) Width() float64 {
	return v.End - v.Start
}

// At returns a viewport of the given width starting at x.
func At(x, width float64) Viewport {
	return Viewport{Start: x, End: x + width}
}

// Cell is one cell of a level, in absolute scroll coordinates.
type Cell struct {
	Label   string
	Index   int64
	Address int64
	Bytes   int64
	Min     float64
	Max     float64
	// Shade alternates 0/1 with the parity of Index.
	Shade int
	// Empty marks the placeholder cell of a zero-width level.
	Empty bool
}

// Width returns Max - Min.
func (c Cell) Width() float64 {
	return c.Max - c.Min
}

// Contains reports whether x falls inside the cell.
func (c Cell) Contains(x float64) bool {
	return x >= c.Min && x < c.Max
}

// Label formats the label of cell i.
func (l Level) Label(i int64) string {
	return fmt.Sprintf("%s %d", l.Name, i)
}

// Cell returns cell i of the level. A degenerate level yields an empty
// placeholder regardless of i.
func (l Level) Cell(i int64, cellWidth float64) Cell {
	if l.Degenerate() || cellWidth <= 0 {
		return Cell{Label: l.Name, Empty: true}
	}
	cw := l.Span(cellWidth)
	return Cell{
		Label:   l.Label(i),
		Index:   i,
		Address: i * l.Bytes,
		Bytes:   l.Bytes,
		Min:     float64(i) * cw,
		Max:     float64(i+1) * cw,
		Shade:   int(i & 1),
	}
}

// FirstIndex returns the index the visible run starts from. It looks back
// half a cell so the leftmost partially visible cell survives rounding.
func (l Level) FirstIndex(v Viewport, cellWidth float64) int64 {
	if l.Degenerate() || cellWidth <= 0 {
		return 0
	}
	cw := l.Span(cellWidth)
	return int64(math.Round((v.Start - cw) / cw))
}

// Cells yields the cells covering v, left to right, ending with the first
// cell whose right edge lies past v.End. The sequence can be ranged over any
// number of times. A degenerate level yields a single empty cell positioned
// at v.Start.
func (l Level) Cells(v Viewport, cellWidth float64) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		if l.Degenerate() || cellWidth <= 0 {
			c := l.Cell(0, cellWidth)
			c.Min, c.Max = v.Start, v.Start
			yield(c)
			return
		}
		for i := l.FirstIndex(v, cellWidth); ; i++ {
			c := l.Cell(i, cellWidth)
			if !yield(c) || c.Max > v.End {
				return
			}
		}
	}
}

// Visible collects Cells into a slice.
func (l Level) Visible(v Viewport, cellWidth float64) []Cell {
	return slices.Collect(l.Cells(v, cellWidth))
}

// IndexAt returns the index of the cell containing scroll position x.
func (l Level) IndexAt(x, cellWidth float64) (int64, bool) {
	if l.Degenerate() || cellWidth <= 0 {
		return 0, false
	}
	return int64(math.Floor(x / l.Span(cellWidth))), true
}
