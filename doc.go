// Package structlayout visualizes how fixed-width unsigned integer fields
// are laid out in memory under C-compatible layout rules.
//
// Given an ordered list of field widths, the module computes every field's
// offset, the padding inserted between fields and at the tail, and the
// overall size and alignment. The result is drawn on an infinite address
// grid with one row per power-of-two tier and one row per structure
// instance, refined by a breakdown of fields and padding.
//
// # Architecture Overview
//
//	structlayout/
//	├── layout/          Offsets, padding, size and alignment of a field list
//	├── grid/            Tiers, lazily generated visible cells, field overlay
//	├── snapshot/        Rasterizes a grid frame to PNG
//	├── probe/           Materializes an array of structures in wasm memory
//	├── canon/           Cross-checks layouts against the canonical ABI
//	├── store/           Persists the field list between sessions
//	├── errors/          Structured error types for debugging
//	├── internal/config/ Command line configuration
//	└── cmd/structviz/   Terminal UI and batch commands
//
// # Quick Start
//
//	fields := layout.FieldList{layout.U8, layout.U128}
//	res := layout.Compute(fields)
//	fmt.Print(res.Decl(layout.DefaultStructName))
//
//	f := grid.Build(grid.At(0, 1600), grid.Options{CellWidth: 50}, fields)
//	err := snapshot.SavePNG("grid.png", &f, snapshot.DefaultOptions())
package structlayout
