package layout

import (
	"strings"

	"github.com/wippyai/structlayout/errors"
)

// FieldSize is the byte width of an unsigned integer field.
type FieldSize uint8

const (
	U8   FieldSize = 1
	U16  FieldSize = 2
	U32  FieldSize = 4
	U64  FieldSize = 8
	U128 FieldSize = 16
)

var allSizes = [...]FieldSize{U8, U16, U32, U64, U128}

// AllSizes returns every supported field size in ascending order.
func AllSizes() []FieldSize {
	out := make([]FieldSize, len(allSizes))
	copy(out, allSizes[:])
	return out
}

// Bytes returns the width of the field in bytes.
func (s FieldSize) Bytes() int64 {
	return int64(s)
}

// Valid reports whether s is one of the supported widths.
func (s FieldSize) Valid() bool {
	switch s {
	case U8, U16, U32, U64, U128:
		return true
	}
	return false
}

func (s FieldSize) String() string {
	switch s {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	default:
		return "invalid"
	}
}

// Next returns the next wider size, wrapping from u128 back to u8.
func (s FieldSize) Next() FieldSize {
	for i, v := range allSizes {
		if v == s {
			return allSizes[(i+1)%len(allSizes)]
		}
	}
	return U8
}

// Prev returns the next narrower size, wrapping from u8 to u128.
func (s FieldSize) Prev() FieldSize {
	for i, v := range allSizes {
		if v == s {
			return allSizes[(i+len(allSizes)-1)%len(allSizes)]
		}
	}
	return U8
}

// MarshalText encodes the size as its type tag.
func (s FieldSize) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.PhaseSave, errors.KindInvalidData).
			Type("FieldSize").
			Value(uint8(s)).
			Detail("field size %d is not a supported width", uint8(s)).
			Build()
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a type tag such as "u32".
func (s *FieldSize) UnmarshalText(text []byte) error {
	v, err := ParseFieldSize(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseFieldSize parses a type tag. Accepted forms are "u8".."u128" and the
// plain byte counts "1".."16".
func ParseFieldSize(tag string) (FieldSize, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "u8", "1":
		return U8, nil
	case "u16", "2":
		return U16, nil
	case "u32", "4":
		return U32, nil
	case "u64", "8":
		return U64, nil
	case "u128", "16":
		return U128, nil
	}
	return 0, errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Type("FieldSize").
		Value(tag).
		Detail("unknown field type %q (want u8, u16, u32, u64 or u128)", tag).
		Build()
}

// FieldList is an ordered sequence of field sizes in declaration order.
type FieldList []FieldSize

// ParseFieldList parses a comma or whitespace separated list of type tags.
// An empty string yields an empty list.
func ParseFieldList(s string) (FieldList, error) {
	tags := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	out := make(FieldList, 0, len(tags))
	for i, tag := range tags {
		v, err := ParseFieldSize(tag)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = []string{FieldName(i)}
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Clone returns an independent copy of the list.
func (l FieldList) Clone() FieldList {
	if l == nil {
		return nil
	}
	out := make(FieldList, len(l))
	copy(out, l)
	return out
}

func (l FieldList) String() string {
	parts := make([]string, len(l))
	for i, f := range l {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// FieldName returns the positional display name of field i: a..z, then
// aa, ab, and so on.
func FieldName(i int) string {
	if i < 0 {
		return "?"
	}
	var buf [16]byte
	n := len(buf)
	for {
		n--
		buf[n] = byte('a' + i%26)
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return string(buf[n:])
}
