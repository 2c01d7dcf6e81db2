package layout

import (
	"fmt"
	"strings"
)

// DefaultStructName is the name used for the visualized structure.
const DefaultStructName = "MyStruct"

// Decl renders the structure as a #[repr(C)] declaration with explicit
// padding members.
func (r *Result) Decl(name string) string {
	if name == "" {
		name = DefaultStructName
	}

	var b strings.Builder
	b.WriteString("#[repr(C)]\n")
	fmt.Fprintf(&b, "struct %s {\n", name)
	for _, reg := range r.Spans() {
		if reg.IsPadding() {
			fmt.Fprintf(&b, "    _: [u8; %d], // necessary padding for alignment\n", reg.Len)
			continue
		}
		f := r.Fields[reg.Field]
		fmt.Fprintf(&b, "    %s: %s,\n", f.Name(), f.Size)
	}
	b.WriteString("}\n")
	return b.String()
}

// Table renders one line per region with its offset range, for the
// non-interactive printout.
func (r *Result) Table() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-6s %-8s %-8s\n", "member", "type", "offset", "size")
	for _, reg := range r.Spans() {
		if reg.IsPadding() {
			fmt.Fprintf(&b, "%-8s %-6s %-8d %-8d\n", "_", "pad", reg.Start, reg.Len)
			continue
		}
		f := r.Fields[reg.Field]
		fmt.Fprintf(&b, "%-8s %-6s %-8d %-8d\n", f.Name(), f.Size, f.Offset, f.Size.Bytes())
	}
	fmt.Fprintf(&b, "size %d, align %d, padding %d\n", r.Size, r.Align, r.PaddingBytes())
	return b.String()
}
