// Package canon checks structure layouts against the WebAssembly Component
// Model canonical ABI.
//
// A structure of u8..u64 fields maps directly onto a WIT record, and the
// canonical ABI lays records out with the same natural alignment rule used
// by the layout package. The check builds the equivalent record with the
// go.bytecodealliance.org/wit type model and compares its size and alignment
// with layout.Compute. u128 has no WIT primitive, so structures containing
// one cannot be checked.
package canon

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/layout"
)

// RecordName is the WIT name given to the checked structure.
const RecordName = "my-struct"

// Report is the outcome of a successful check.
type Report struct {
	Record *wit.TypeDef
	Size   int64
	Align  int64
}

// Type maps a field size onto its WIT primitive.
func Type(s layout.FieldSize) (wit.Type, error) {
	switch s {
	case layout.U8:
		return wit.U8{}, nil
	case layout.U16:
		return wit.U16{}, nil
	case layout.U32:
		return wit.U32{}, nil
	case layout.U64:
		return wit.U64{}, nil
	}
	return nil, errors.Unsupported(errors.PhaseCheck, s.String(), "no canonical ABI primitive")
}

// Record builds the WIT record equivalent to fields. Field names follow
// layout.FieldName.
func Record(fields layout.FieldList) (*wit.TypeDef, error) {
	rec := &wit.Record{Fields: make([]wit.Field, 0, len(fields))}
	for i, f := range fields {
		t, err := Type(f)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = []string{layout.FieldName(i)}
			}
			return nil, err
		}
		rec.Fields = append(rec.Fields, wit.Field{Name: layout.FieldName(i), Type: t})
	}
	name := RecordName
	return &wit.TypeDef{Name: &name, Kind: rec}, nil
}

// Check compares layout.Compute with the canonical ABI layout of the
// equivalent record.
//
// An empty structure is reported with alignment 1 on both sides; the
// canonical ABI gives an empty record alignment 1 and size 0 as well.
func Check(fields layout.FieldList) (Report, error) {
	def, err := Record(fields)
	if err != nil {
		return Report{}, err
	}

	res := layout.Compute(fields)
	size := int64(def.Size())
	align := int64(def.Align())
	if len(fields) == 0 {
		align = 1
	}

	if size != res.Size {
		return Report{}, errors.Mismatch(errors.PhaseCheck, []string{RecordName, "size"}, "record size", res.Size, size)
	}
	if align != res.Align {
		return Report{}, errors.Mismatch(errors.PhaseCheck, []string{RecordName, "align"}, "record align", res.Align, align)
	}

	return Report{Record: def, Size: size, Align: align}, nil
}

// WIT renders the record declaration for fields in WIT syntax.
func WIT(fields layout.FieldList) (string, error) {
	def, err := Record(fields)
	if err != nil {
		return "", err
	}
	rec := def.Kind.(*wit.Record)

	var b strings.Builder
	fmt.Fprintf(&b, "record %s {\n", *def.Name)
	for _, f := range rec.Fields {
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name, witName(f.Type))
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func witName(t wit.Type) string {
	switch t.(type) {
	case wit.U8:
		return "u8"
	case wit.U16:
		return "u16"
	case wit.U32:
		return "u32"
	case wit.U64:
		return "u64"
	default:
		return fmt.Sprintf("%T", t)
	}
}
