package grid

import (
	"github.com/wippyai/structlayout/layout"
)

// Options controls frame geometry.
type Options struct {
	// CellWidth is the width of one byte in scroll units.
	CellWidth float64
	// RowHeight is the height of one row. Zero means CellWidth.
	RowHeight float64
	// Top is the offset of the first row. Zero means no margin.
	Top float64
	// StructName labels the structure tier.
	StructName string
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Row is the visible part of one level.
type Row struct {
	Level Level
	Cells []Cell
	Y0    float64
	Y1    float64
}

// Frame is everything needed to draw one render pass.
type Frame struct {
	Layout  layout.Result
	Rows    []Row
	Overlay []Block
	View    Viewport
	Opts    Options
	// OverlayY0 and OverlayY1 bound the row holding the field breakdown,
	// directly below the structure tier.
	OverlayY0 float64
	OverlayY1 float64
}

// Build computes the visible cells of every level and the field overlay
// for fields as seen through v.
func Build(v Viewport, opts Options, fields layout.FieldList) Frame {
	if opts.RowHeight <= 0 {
		opts.RowHeight = opts.CellWidth
	}
	if opts.StructName == "" {
		opts.StructName = layout.DefaultStructName
	}

	f := Frame{
		Layout: layout.Compute(fields),
		View:   v,
		Opts:   opts,
	}

	levels := Levels(&f.Layout, opts.StructName)
	f.Rows = make([]Row, len(levels))
	for i, lvl := range levels {
		y := opts.Top + float64(i)*opts.RowHeight
		f.Rows[i] = Row{
			Level: lvl,
			Cells: lvl.Visible(v, opts.CellWidth),
			Y0:    y,
			Y1:    y + opts.RowHeight,
		}
	}

	structRow := f.Rows[len(f.Rows)-1]
	for _, c := range structRow.Cells {
		f.Overlay = append(f.Overlay, Overlay(c, &f.Layout, opts.CellWidth)...)
	}
	f.OverlayY0 = structRow.Y1
	f.OverlayY1 = structRow.Y1 + opts.RowHeight
	return f
}

// Height returns the total height of all rows including the overlay row.
func (f *Frame) Height() float64 {
	return f.OverlayY1
}

// StructRow returns the structure tier row.
func (f *Frame) StructRow() *Row {
	return &f.Rows[len(f.Rows)-1]
}

// CellRect returns the rectangle of c in row r relative to the viewport.
func (f *Frame) CellRect(r *Row, c Cell) Rect {
	return Rect{
		X0: c.Min - f.View.Start,
		Y0: r.Y0,
		X1: c.Max - f.View.Start,
		Y1: r.Y1,
	}
}

// BlockRect returns the rectangle of b relative to the viewport.
func (f *Frame) BlockRect(b Block) Rect {
	return Rect{
		X0: b.Min - f.View.Start,
		Y0: f.OverlayY0,
		X1: b.Max - f.View.Start,
		Y1: f.OverlayY1,
	}
}

// Hit describes what lies under a point.
type Hit struct {
	Level   Level
	Cell    Cell
	Block   *Block
	Address int64
}

// HitTest resolves a viewport-relative point to the cell or block under it
// and the byte address shown on hover.
func (f *Frame) HitTest(x, y float64) (Hit, bool) {
	abs := x + f.View.Start
	if y >= f.OverlayY0 && y < f.OverlayY1 {
		for i := range f.Overlay {
			b := &f.Overlay[i]
			if b.Contains(abs) {
				return Hit{Level: f.StructRow().Level, Block: b, Address: b.Address}, true
			}
		}
		return Hit{}, false
	}
	for i := range f.Rows {
		r := &f.Rows[i]
		if y < r.Y0 || y >= r.Y1 {
			continue
		}
		i, ok := r.Level.IndexAt(abs, f.Opts.CellWidth)
		if !ok {
			return Hit{}, false
		}
		c := r.Level.Cell(i, f.Opts.CellWidth)
		return Hit{Level: r.Level, Cell: c, Address: c.Address}, true
	}
	return Hit{}, false
}
