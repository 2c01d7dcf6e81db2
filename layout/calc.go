package layout

// Slot is the resolved placement of one field.
type Slot struct {
	Index  int
	Size   FieldSize
	Offset int64
}

// End returns the first address past the field.
func (s Slot) End() int64 {
	return s.Offset + s.Size.Bytes()
}

// Name returns the positional display name of the field.
func (s Slot) Name() string {
	return FieldName(s.Index)
}

// Span is a run of padding bytes. Tail is set for the padding appended
// after the last field.
type Span struct {
	Start int64
	Len   int64
	Tail  bool
}

// End returns the first address past the span.
func (s Span) End() int64 {
	return s.Start + s.Len
}

// Result is the layout of one structure.
type Result struct {
	Fields  []Slot
	Padding []Span
	Size    int64
	Align   int64
}

// AlignTo rounds offset up to the next multiple of align. An align of zero
// leaves offset unchanged.
func AlignTo(offset, align int64) int64 {
	if align <= 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + align - rem
	}
	return offset
}

// Compute lays out fields in declaration order.
func Compute(fields FieldList) Result {
	res := Result{
		Fields: make([]Slot, 0, len(fields)),
	}

	var offset, maxSize int64
	for i, f := range fields {
		size := f.Bytes()
		if size > maxSize {
			maxSize = size
		}

		if rem := offset % size; rem != 0 {
			pad := size - rem
			res.Padding = append(res.Padding, Span{Start: offset, Len: pad})
			offset += pad
		}

		res.Fields = append(res.Fields, Slot{Index: i, Size: f, Offset: offset})
		offset += size
	}

	if maxSize == 0 {
		res.Align = 1
		return res
	}

	if rem := offset % maxSize; rem != 0 {
		pad := maxSize - rem
		res.Padding = append(res.Padding, Span{Start: offset, Len: pad, Tail: true})
		offset += pad
	}

	res.Size = offset
	res.Align = maxSize
	return res
}

// Empty reports whether the structure has no fields.
func (r *Result) Empty() bool {
	return len(r.Fields) == 0
}

// PaddingBytes returns the total number of padding bytes.
func (r *Result) PaddingBytes() int64 {
	var n int64
	for _, p := range r.Padding {
		n += p.Len
	}
	return n
}

// Region is either a field or a padding span, as returned by Spans.
type Region struct {
	Start int64
	Len   int64
	// Field is the index of the field covering the region, or -1 for padding.
	Field int
}

// IsPadding reports whether the region holds no field value.
func (r Region) IsPadding() bool {
	return r.Field < 0
}

// Spans returns fields and padding merged in address order. Together they
// cover [0, Size) exactly once.
func (r *Result) Spans() []Region {
	out := make([]Region, 0, len(r.Fields)+len(r.Padding))
	fi, pi := 0, 0
	for fi < len(r.Fields) || pi < len(r.Padding) {
		if pi >= len(r.Padding) || (fi < len(r.Fields) && r.Fields[fi].Offset < r.Padding[pi].Start) {
			f := r.Fields[fi]
			out = append(out, Region{Start: f.Offset, Len: f.Size.Bytes(), Field: f.Index})
			fi++
			continue
		}
		p := r.Padding[pi]
		out = append(out, Region{Start: p.Start, Len: p.Len, Field: -1})
		pi++
	}
	return out
}

// RegionAt resolves an address relative to the start of one structure
// instance. Addresses outside [0, Size) are reduced modulo Size so that any
// element of an array of the structure can be queried. ok is false for an
// empty structure.
func (r *Result) RegionAt(addr int64) (Region, bool) {
	if r.Size == 0 {
		return Region{}, false
	}
	addr %= r.Size
	if addr < 0 {
		addr += r.Size
	}
	for _, reg := range r.Spans() {
		if addr >= reg.Start && addr < reg.Start+reg.Len {
			return reg, true
		}
	}
	return Region{}, false
}
