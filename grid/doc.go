// Package grid maps byte addresses onto an infinite horizontal strip at
// several resolutions.
//
// Each Level is a periodic coordinate strip with a fixed number of bytes per
// cell: one tier per field width (u8..u128) plus a structure tier whose cell
// covers one whole instance of the current structure. Cell i of a level with
// b bytes per cell covers addresses [i*b, (i+1)*b) and occupies the scroll
// range [i*b*w, (i+1)*b*w) for a cell width of w units per byte.
//
// Nothing is materialized beyond the viewport. Level.Cell is a pure function
// of the index, and Level.Cells yields the visible slice of the strip lazily,
// starting from the viewport on every call:
//
//	for c := range lvl.Cells(grid.Viewport{Start: 1200, End: 2400}, 50) {
//		draw(c.Min-1200, c.Max-1200, c.Label)
//	}
//
// Build evaluates every level for one render pass and overlays the field
// breakdown from the layout package on each visible structure cell.
package grid
