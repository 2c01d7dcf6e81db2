package grid

import (
	"testing"

	"github.com/wippyai/structlayout/layout"
)

const testCellWidth = 50.0

var testViewports = []Viewport{
	{Start: 0, End: 800},
	{Start: 1225, End: 2025},
	{Start: 12345.678, End: 13111.1},
	{Start: -937.25, End: -12.5},
	{Start: 0.4, End: 0.6},
	{Start: 7e6 + 0.125, End: 7e6 + 1920.875},
}

func TestCellsGeometry(t *testing.T) {
	res := layout.Compute(layout.FieldList{layout.U8, layout.U32, layout.U16})
	for _, lvl := range Levels(&res, "") {
		for _, v := range testViewports {
			cells := lvl.Visible(v, testCellWidth)
			if len(cells) == 0 {
				t.Fatalf("%s %+v: no cells", lvl.Name, v)
			}

			want := float64(lvl.Bytes) * testCellWidth
			for i, c := range cells {
				if c.Width() != want {
					t.Errorf("%s %+v cell %d width: got %v, want %v", lvl.Name, v, c.Index, c.Width(), want)
				}
				if c.Address != c.Index*lvl.Bytes {
					t.Errorf("%s cell %d address: got %d, want %d", lvl.Name, c.Index, c.Address, c.Index*lvl.Bytes)
				}
				if i == 0 {
					continue
				}
				prev := cells[i-1]
				if c.Index != prev.Index+1 {
					t.Errorf("%s index: got %d after %d", lvl.Name, c.Index, prev.Index)
				}
				if c.Min != prev.Max {
					t.Errorf("%s cell %d not contiguous: %v vs %v", lvl.Name, c.Index, c.Min, prev.Max)
				}
			}

			first, last := cells[0], cells[len(cells)-1]
			if first.Min > v.Start {
				t.Errorf("%s %+v: first cell starts at %v, after viewport", lvl.Name, v, first.Min)
			}
			if last.Max <= v.End {
				t.Errorf("%s %+v: last cell ends at %v, inside viewport", lvl.Name, v, last.Max)
			}
			if len(cells) > 1 && cells[len(cells)-2].Max > v.End {
				t.Errorf("%s %+v: emitted cells past the first one crossing End", lvl.Name, v)
			}
			if first.Min+2*want <= v.Start {
				t.Errorf("%s %+v: lookback too deep, first cell at %v", lvl.Name, v, first.Min)
			}
		}
	}
}

func TestStructTierAlignment(t *testing.T) {
	lists := []layout.FieldList{
		{layout.U8, layout.U128},
		{layout.U32, layout.U8, layout.U16},
		{layout.U8},
		{layout.U64, layout.U8, layout.U8, layout.U8},
	}
	for _, fields := range lists {
		res := layout.Compute(fields)
		lvl := StructLevel(&res, "")
		for _, v := range testViewports {
			for c := range lvl.Cells(v, testCellWidth) {
				if c.Address%res.Size != 0 {
					t.Errorf("%v: cell %d address %d not a multiple of %d", fields, c.Index, c.Address, res.Size)
				}
				if got := c.Min / testCellWidth; got != float64(c.Address) {
					t.Errorf("%v: cell %d starts at byte %v, want %d", fields, c.Index, got, c.Address)
				}
			}
		}
	}
}

func TestFirstIndex(t *testing.T) {
	u8 := ByteLevels()[0]
	tests := []struct {
		start float64
		want  int64
	}{
		{0, -1},
		{1200, 23},
		{1224, 23},
		{1225, 24},
		{-50, -2},
		{-74, -2},
	}
	for _, tc := range tests {
		got := u8.FirstIndex(Viewport{Start: tc.start, End: tc.start + 100}, testCellWidth)
		if got != tc.want {
			t.Errorf("FirstIndex(%v): got %d, want %d", tc.start, got, tc.want)
		}
	}
}

func TestCellsRestartable(t *testing.T) {
	lvl := ByteLevels()[2]
	v := Viewport{Start: 333, End: 1333}
	seq := lvl.Cells(v, testCellWidth)

	var a, b []int64
	for c := range seq {
		a = append(a, c.Index)
	}
	for c := range seq {
		b = append(b, c.Index)
	}
	if len(a) != len(b) {
		t.Fatalf("second pass: got %d cells, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("pass mismatch at %d: %d vs %d", i, a[i], b[i])
		}
	}

	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("early break: got %d", n)
	}
}

func TestDegenerateStructTier(t *testing.T) {
	res := layout.Compute(nil)
	lvl := StructLevel(&res, "")
	if !lvl.Degenerate() {
		t.Fatal("empty structure tier should be degenerate")
	}

	for _, v := range testViewports {
		cells := lvl.Visible(v, testCellWidth)
		if len(cells) != 1 {
			t.Fatalf("%+v: got %d cells, want 1", v, len(cells))
		}
		c := cells[0]
		if !c.Empty {
			t.Error("placeholder cell should be Empty")
		}
		if c.Width() != 0 {
			t.Errorf("placeholder width: got %v", c.Width())
		}
		if c.Label != "MyStruct" {
			t.Errorf("placeholder label: got %q", c.Label)
		}
		if Overlay(c, &res, testCellWidth) != nil {
			t.Error("overlay on empty cell should be nil")
		}
	}

	if _, ok := lvl.IndexAt(100, testCellWidth); ok {
		t.Error("IndexAt should fail on a degenerate level")
	}
}

func TestCellLabels(t *testing.T) {
	res := layout.Compute(layout.FieldList{layout.U8, layout.U128})
	levels := Levels(&res, "")
	if len(levels) != 6 {
		t.Fatalf("levels: got %d, want 6", len(levels))
	}

	tests := []struct {
		level int
		index int64
		label string
		addr  int64
	}{
		{0, 7, "u8 7", 7},
		{1, 7, "u16 7", 14},
		{4, -3, "u128 -3", -48},
		{5, 2, "MyStruct 2", 64},
	}
	for _, tc := range tests {
		c := levels[tc.level].Cell(tc.index, testCellWidth)
		if c.Label != tc.label {
			t.Errorf("label: got %q, want %q", c.Label, tc.label)
		}
		if c.Address != tc.addr {
			t.Errorf("%s address: got %d, want %d", tc.label, c.Address, tc.addr)
		}
	}

	if levels[0].Cell(4, 1).Shade != 0 || levels[0].Cell(5, 1).Shade != 1 || levels[0].Cell(-1, 1).Shade != 1 {
		t.Error("shade should follow index parity")
	}
}

func TestIndexAt(t *testing.T) {
	u32 := ByteLevels()[2]
	tests := []struct {
		x    float64
		want int64
	}{
		{0, 0},
		{199.9, 0},
		{200, 1},
		{-0.1, -1},
	}
	for _, tc := range tests {
		got, ok := u32.IndexAt(tc.x, testCellWidth)
		if !ok || got != tc.want {
			t.Errorf("IndexAt(%v): got %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestViewport(t *testing.T) {
	v := At(100, 300)
	if v.Width() != 300 {
		t.Errorf("width: got %v", v.Width())
	}
	if v.Start != 100 || v.End != 400 {
		t.Errorf("bounds: got %+v", v)
	}
}
