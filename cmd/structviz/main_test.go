package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/structlayout/internal/config"
	"github.com/wippyai/structlayout/layout"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRunPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := runPrint(&buf, layout.FieldList{layout.U8, layout.U128}); err != nil {
		t.Fatalf("runPrint: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"struct MyStruct {",
		"    _: [u8; 15], // necessary padding for alignment",
		"size 32, align 16, padding 15",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCheckRejectsU128(t *testing.T) {
	var buf bytes.Buffer
	if err := runCheck(&buf, layout.FieldList{layout.U128}); err == nil {
		t.Fatal("expected error for u128")
	}
	buf.Reset()
	if err := runCheck(&buf, layout.FieldList{layout.U32, layout.U8, layout.U16}); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if !strings.Contains(buf.String(), "record my-struct {") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestDrawLine(t *testing.T) {
	plain := func(_ segment, body string) string { return body }

	tests := []struct {
		name  string
		width int
		segs  []segment
		want  string
	}{
		{"empty", 4, nil, "    "},
		{"centered", 8, []segment{{x0: 0, x1: 8, text: "u8 1"}}, "  u8 1  "},
		{"drops_tier_name", 8, []segment{{x0: 0, x1: 4, text: "u8 12"}, {x0: 4, x1: 8, text: "u8 13"}}, " 12  13 "},
		{"gap", 6, []segment{{x0: 2, x1: 4, text: "a"}}, "  a   "},
		{"truncated", 3, []segment{{x0: 0, x1: 3, text: "u8 12345"}}, "…45"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := drawLine(tc.width, tc.segs, plain)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestColumnsClip(t *testing.T) {
	x0, x1 := columns(-8, 8, 0, 80)
	if x0 != 0 || x1 != 8 {
		t.Errorf("left clip: got %d..%d", x0, x1)
	}
	x0, x1 = columns(72, 88, 0, 80)
	if x0 != 72 || x1 != 80 {
		t.Errorf("right clip: got %d..%d", x0, x1)
	}
}

func TestModelEditsFields(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U8, layout.U128}, 8, 0, 80)

	m.Update(runes("a"))
	if got := m.fields.String(); got != "u8,u8,u128" {
		t.Fatalf("after add: %s", got)
	}
	if m.selected != 1 {
		t.Errorf("selected: got %d, want 1", m.selected)
	}

	m.Update(runes("]"))
	m.Update(runes("]"))
	if got := m.fields.String(); got != "u8,u32,u128" {
		t.Fatalf("after cycle: %s", got)
	}
	if m.frame.Layout.Size != 32 {
		t.Errorf("frame not rebuilt: size %d", m.frame.Layout.Size)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(runes("d"))
	if got := m.fields.String(); got != "u8,u32" {
		t.Fatalf("after remove: %s", got)
	}
	if m.selected != 1 {
		t.Errorf("selected clamped: got %d, want 1", m.selected)
	}
}

func TestModelRemoveAll(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U16}, 8, 0, 40)
	m.Update(runes("d"))
	m.Update(runes("d"))
	if len(m.fields) != 0 {
		t.Fatalf("fields: %v", m.fields)
	}
	if !m.frame.Layout.Empty() {
		t.Error("layout should be empty")
	}
	if !strings.Contains(m.View(), "(no fields)") {
		t.Error("view should show an empty field list")
	}
}

func TestModelScroll(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U8}, 8, 0, 80)

	m.Update(runes("l"))
	if m.start != 8 {
		t.Errorf("scroll right: start %v", m.start)
	}
	m.Update(runes("L"))
	if m.start != 88 {
		t.Errorf("page right: start %v", m.start)
	}
	m.Update(runes("0"))
	if m.start != 0 {
		t.Errorf("home: start %v", m.start)
	}
	if m.frame.View.Start != 0 {
		t.Errorf("frame viewport: %v", m.frame.View)
	}
}

func TestModelGoto(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U8, layout.U128}, 8, 0, 80)

	m.Update(runes("g"))
	if m.state != stateGoto {
		t.Fatalf("state: %v", m.state)
	}
	m.input.SetValue("32")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateBrowse {
		t.Fatalf("state after enter: %v", m.state)
	}
	if m.start != 32*8 {
		t.Errorf("start: got %v, want %v", m.start, 32*8)
	}
	if got := m.status(); !strings.HasPrefix(got, "address 32  MyStruct[1].a: u8 +0") {
		t.Errorf("status: %q", got)
	}
}

func TestModelEditPrompt(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U8}, 8, 0, 80)

	m.Update(runes("e"))
	m.input.SetValue("u32 u8 nope")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.err == nil || m.state != stateEdit {
		t.Fatalf("bad list should keep the prompt open, err=%v state=%v", m.err, m.state)
	}

	m.input.SetValue("u32 u8 u16")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("err: %v", m.err)
	}
	if m.frame.Layout.Size != 8 {
		t.Errorf("size: got %d, want 8", m.frame.Layout.Size)
	}
}

func TestModelStatusPadding(t *testing.T) {
	m := newInteractiveModel(layout.FieldList{layout.U8, layout.U128}, 8, 0, 80)
	m.cursor = 8 * 3
	m.rebuild()
	if got := m.status(); got != "address 3  MyStruct[0] +3  padding" {
		t.Errorf("status: %q", got)
	}
}

func TestRunPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	cfg := &config.Config{PNGPath: path, CellWidth: 50, Width: 800, Mode: config.ModePNG, Dark: true}

	var buf bytes.Buffer
	if err := runPNG(&buf, cfg, layout.FieldList{layout.U32, layout.U8, layout.U16}); err != nil {
		t.Fatalf("runPNG: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Wrote "+path) {
		t.Errorf("output: %q", buf.String())
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 800 {
		t.Errorf("width: got %d, want 800", got)
	}
	r, g, b, _ := img.At(5, 5).RGBA()
	if r != 0x1b1b || g != 0x1b1b || b != 0x1b1b {
		t.Errorf("dark background: got %04x %04x %04x", r, g, b)
	}
}
