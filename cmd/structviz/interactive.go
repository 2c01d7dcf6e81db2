package main

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/structlayout/grid"
	"github.com/wippyai/structlayout/internal/config"
	"github.com/wippyai/structlayout/layout"
	"github.com/wippyai/structlayout/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	evenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")).
			Background(lipgloss.Color("#DCDCDC"))

	oddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3C3C3C")).
			Background(lipgloss.Color("#F0F0F0"))

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#3B5BDB"))

	paddingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#FF0000"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	declStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Remove    key.Binding
	Smaller   key.Binding
	Larger    key.Binding
	Left      key.Binding
	Right     key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	CursorL   key.Binding
	CursorR   key.Binding
	Home      key.Binding
	Goto      key.Binding
	Edit      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev field")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next field")),
	Add:       key.NewBinding(key.WithKeys("+", "a"), key.WithHelp("+/a", "add u8")),
	Remove:    key.NewBinding(key.WithKeys("-", "d"), key.WithHelp("-/d", "remove")),
	Smaller:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "narrower")),
	Larger:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "wider")),
	Left:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "scroll left")),
	Right:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "scroll right")),
	PageLeft:  key.NewBinding(key.WithKeys("H", "pgup"), key.WithHelp("H", "page left")),
	PageRight: key.NewBinding(key.WithKeys("L", "pgdown"), key.WithHelp("L", "page right")),
	CursorL:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
	CursorR:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cursor right")),
	Home:      key.NewBinding(key.WithKeys("0", "home"), key.WithHelp("0", "address 0")),
	Goto:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goto address")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit fields")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Remove, k.Smaller, k.Larger, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Remove, k.Smaller, k.Larger},
		{k.Left, k.Right, k.PageLeft, k.PageRight, k.CursorL, k.CursorR},
		{k.Home, k.Goto, k.Edit, k.Help, k.Quit},
	}
}

type modelState int

const (
	stateBrowse modelState = iota
	stateGoto
	stateEdit
)

type interactiveModel struct {
	err      error
	fields   layout.FieldList
	frame    grid.Frame
	input    textinput.Model
	help     help.Model
	cell     float64
	start    float64
	width    int
	cursor   int
	selected int
	state    modelState
}

func newInteractiveModel(fields layout.FieldList, cellWidth, start float64, width int) *interactiveModel {
	m := &interactiveModel{
		fields: fields.Clone(),
		help:   help.New(),
		cell:   cellWidth,
		start:  start,
		width:  width,
	}
	m.rebuild()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// rebuild recomputes the frame after any change to fields or viewport.
func (m *interactiveModel) rebuild() {
	if m.width <= 0 {
		m.width = 80
	}
	m.cursor = min(max(m.cursor, 0), m.width-1)
	if len(m.fields) == 0 {
		m.selected = 0
	} else {
		m.selected = min(max(m.selected, 0), len(m.fields)-1)
	}
	m.frame = grid.Build(grid.At(m.start, float64(m.width)), grid.Options{
		CellWidth: m.cell,
		RowHeight: 1,
	}, m.fields)
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.state != stateBrowse {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *interactiveModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.fields)-1 {
			m.selected++
		}

	case key.Matches(msg, keys.Add):
		at := 0
		if len(m.fields) > 0 {
			at = m.selected + 1
		}
		m.fields = slices.Insert(m.fields, at, layout.U8)
		m.selected = at
	case key.Matches(msg, keys.Remove):
		if len(m.fields) > 0 {
			m.fields = slices.Delete(m.fields, m.selected, m.selected+1)
		}
	case key.Matches(msg, keys.Smaller):
		if len(m.fields) > 0 {
			m.fields[m.selected] = m.fields[m.selected].Prev()
		}
	case key.Matches(msg, keys.Larger):
		if len(m.fields) > 0 {
			m.fields[m.selected] = m.fields[m.selected].Next()
		}

	case key.Matches(msg, keys.Left):
		m.start -= m.cell
	case key.Matches(msg, keys.Right):
		m.start += m.cell
	case key.Matches(msg, keys.PageLeft):
		m.start -= float64(m.width)
	case key.Matches(msg, keys.PageRight):
		m.start += float64(m.width)
	case key.Matches(msg, keys.CursorL):
		m.cursor--
	case key.Matches(msg, keys.CursorR):
		m.cursor++
	case key.Matches(msg, keys.Home):
		m.start = 0
		m.cursor = 0

	case key.Matches(msg, keys.Goto):
		m.prompt(stateGoto, "goto: ", "byte address", "")
		return m, textinput.Blink
	case key.Matches(msg, keys.Edit):
		m.prompt(stateEdit, "fields: ", "u8, u16, u32, u64, u128", m.fields.String())
		return m, textinput.Blink

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	m.rebuild()
	return m, nil
}

func (m *interactiveModel) prompt(state modelState, prompt, placeholder, value string) {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.SetValue(value)
	ti.Focus()
	m.input = ti
	m.state = state
}

func (m *interactiveModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowse
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		if err := m.submit(m.input.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.state = stateBrowse
		m.rebuild()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) submit(value string) error {
	switch m.state {
	case stateGoto:
		addr, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
		if err != nil {
			return fmt.Errorf("address %q: %w", value, err)
		}
		m.start = float64(addr) * m.cell
		m.cursor = 0
	case stateEdit:
		fields, err := layout.ParseFieldList(value)
		if err != nil {
			return err
		}
		m.fields = fields
	}
	return nil
}

// segment is a run of columns [x0, x1) holding one cell or block.
type segment struct {
	x0, x1 int
	text   string
	style  lipgloss.Style
}

// columns maps a scroll range onto terminal columns, clipped to the view.
func columns(minX, maxX, start float64, width int) (int, int) {
	x0 := int(math.Round(minX - start))
	x1 := int(math.Round(maxX - start))
	return max(x0, 0), min(x1, width)
}

// drawLine lays segments out on a line of width columns. Each label is
// fitted to its segment and centered; uncovered columns are blank.
func drawLine(width int, segs []segment, render func(segment, string) string) string {
	var b strings.Builder
	col := 0
	for _, s := range segs {
		if s.x1 <= s.x0 || s.x0 < col {
			continue
		}
		b.WriteString(strings.Repeat(" ", s.x0-col))
		n := s.x1 - s.x0
		label := grid.Fit(s.text, n)
		pad := n - len([]rune(label))
		body := strings.Repeat(" ", pad/2) + label + strings.Repeat(" ", pad-pad/2)
		b.WriteString(render(s, body))
		col = s.x1
	}
	if col < width {
		b.WriteString(strings.Repeat(" ", width-col))
	}
	return b.String()
}

func styled(s segment, body string) string {
	return s.style.Render(body)
}

func shadeStyle(shade int) lipgloss.Style {
	if shade == 0 {
		return evenStyle
	}
	return oddStyle
}

func (m *interactiveModel) rowSegments(r *grid.Row) []segment {
	var segs []segment
	for _, c := range r.Cells {
		if c.Empty {
			segs = append(segs, segment{x0: 0, x1: m.width, text: c.Label + " (empty)", style: emptyStyle})
			continue
		}
		x0, x1 := columns(c.Min, c.Max, m.frame.View.Start, m.width)
		segs = append(segs, segment{x0: x0, x1: x1, text: c.Label, style: shadeStyle(c.Shade)})
	}
	return segs
}

func (m *interactiveModel) overlaySegments() []segment {
	var segs []segment
	for _, b := range m.frame.Overlay {
		x0, x1 := columns(b.Min, b.Max, m.frame.View.Start, m.width)
		s := segment{x0: x0, x1: x1, text: b.Label, style: fieldStyle}
		if b.Padding() {
			s.style = paddingStyle
		}
		segs = append(segs, s)
	}
	return segs
}

// status describes what lies under the cursor column.
func (m *interactiveModel) status() string {
	x := float64(m.cursor) + 0.5
	hit, ok := m.frame.HitTest(x, m.frame.Rows[0].Y0)
	if !ok {
		return ""
	}
	s := fmt.Sprintf("address %d", hit.Address)
	res := &m.frame.Layout
	reg, ok := res.RegionAt(hit.Address)
	if !ok {
		return s
	}
	rep := hit.Address / res.Size
	off := hit.Address % res.Size
	if off < 0 {
		rep--
		off += res.Size
	}
	if reg.IsPadding() {
		return fmt.Sprintf("%s  %s[%d] +%d  padding", s, layout.DefaultStructName, rep, off)
	}
	f := res.Fields[reg.Field]
	return fmt.Sprintf("%s  %s[%d].%s: %s +%d", s, layout.DefaultStructName, rep, f.Name(), f.Size, off-f.Offset)
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	res := &m.frame.Layout

	b.WriteString(titleStyle.Render("Struct Layout"))
	fmt.Fprintf(&b, " size %d, align %d, padding %d\n\n", res.Size, res.Align, res.PaddingBytes())

	for i := range m.frame.Rows {
		b.WriteString(drawLine(m.width, m.rowSegments(&m.frame.Rows[i]), styled))
		b.WriteString("\n")
	}
	b.WriteString(drawLine(m.width, m.overlaySegments(), styled))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", m.cursor) + "^\n")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	for i, f := range res.Fields {
		line := fmt.Sprintf("%s: %s @%d", f.Name(), typeStyle.Render(f.Size.String()), f.Offset)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if len(res.Fields) == 0 {
		b.WriteString(emptyStyle.Render("  (no fields)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(declStyle.Render(res.Decl(layout.DefaultStructName)))
	b.WriteString("\n")

	if m.state != stateBrowse {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.state != stateBrowse {
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	} else {
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func runInteractive(cfg *config.Config, st *store.Store, fields layout.FieldList) error {
	m := newInteractiveModel(fields, cfg.CellWidth, cfg.Start, int(cfg.Width))
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if cfg.NoSave || st == nil {
		return nil
	}
	return st.Save(final.(*interactiveModel).fields)
}
