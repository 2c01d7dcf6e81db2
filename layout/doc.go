// Package layout computes C-style memory layouts for structures made of
// unsigned integer fields.
//
// A field of size n must start at an address divisible by n (natural
// alignment). Fields are placed in declaration order, padding is inserted in
// front of any field that would otherwise be misaligned, and tail padding
// rounds the structure up to a multiple of its alignment so that consecutive
// elements of an array stay aligned.
//
// # Layout Rules
//
//	Field   Size   Alignment
//	─────────────────────────
//	u8      1      1
//	u16     2      2
//	u32     4      4
//	u64     8      8
//	u128    16     16
//	struct  sum    max field size (1 when empty)
//
// # Usage
//
//	res := layout.Compute(layout.FieldList{layout.U8, layout.U128})
//	// res.Size == 32, res.Align == 16
//	// res.Fields[1].Offset == 16
//	// res.Padding[0] == layout.Span{Start: 1, Len: 15}
//
// Compute holds no state between calls. The same field list always produces
// the same Result.
package layout
