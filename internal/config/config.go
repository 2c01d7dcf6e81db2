// Package config holds the command line configuration of structviz.
package config

import (
	"flag"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/layout"
)

// Mode selects what the command does.
type Mode int

const (
	ModeInteractive Mode = iota
	ModePrint
	ModeDump
	ModePNG
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModePrint:
		return "print"
	case ModeDump:
		return "dump"
	case ModePNG:
		return "png"
	case ModeCheck:
		return "check"
	}
	return "unknown"
}

// MaxCells bounds the number of one-byte cells a single row may show, so
// every frame stays small regardless of -cell and -width.
const MaxCells = 1 << 14

const (
	minTermCell     = 1
	defaultTermCell = 8
	defaultPNGCell  = 50
	defaultWidth    = 80
)

// Config is the parsed command line.
type Config struct {
	Fields    layout.FieldList // nil: use stored state
	StatePath string
	LogPath   string
	PNGPath   string
	CellWidth float64
	Start     float64
	Width     float64
	DumpCount int
	Mode      Mode
	NoSave    bool
	// Dark selects the dark palette for -png.
	Dark bool
}

// Parse reads flags from args. isTTY reports whether stdout is a terminal
// and termWidth its width, both used for defaults.
func Parse(args []string, output io.Writer, isTTY bool, termWidth int) (*Config, error) {
	fs := flag.NewFlagSet("structviz", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		fields      = fs.String("fields", "", "Field list to show, e.g. u8,u128 (default: saved state)")
		state       = fs.String("state", "", "State file (default: user config dir)")
		logPath     = fs.String("log", "", "Write debug logs to this file")
		cell        = fs.Float64("cell", 0, "Columns (TUI) or pixels (PNG) per byte")
		start       = fs.Float64("start", 0, "Viewport start, in the same units as -cell")
		width       = fs.Float64("width", 0, "Viewport width (default: terminal width, or 1600 for -png)")
		printOnly   = fs.Bool("print", false, "Print the struct declaration and layout table")
		dump        = fs.Int("dump", 0, "Hex dump N instances from a wasm linear memory")
		pngPath     = fs.String("png", "", "Render the grid to a PNG file")
		check       = fs.Bool("check", false, "Cross-check the layout against the canonical ABI")
		interactive = fs.Bool("i", false, "Interactive mode with TUI")
		noSave      = fs.Bool("nosave", false, "Do not save the field list on exit")
		dark        = fs.Bool("dark", false, "Use the dark palette for -png")
	)
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errors.PhaseValidate, errors.KindInvalidInput, err, "parse flags")
	}

	cfg := &Config{
		StatePath: *state,
		LogPath:   *logPath,
		PNGPath:   *pngPath,
		CellWidth: *cell,
		Start:     *start,
		Width:     *width,
		DumpCount: *dump,
		NoSave:    *noSave,
		Dark:      *dark,
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "fields" {
			cfg.Fields = layout.FieldList{}
		}
	})
	if cfg.Fields != nil {
		parsed, err := layout.ParseFieldList(*fields)
		if err != nil {
			return nil, err
		}
		cfg.Fields = parsed
	}

	switch {
	case *interactive:
		cfg.Mode = ModeInteractive
	case *printOnly:
		cfg.Mode = ModePrint
	case *dump > 0:
		cfg.Mode = ModeDump
	case *pngPath != "":
		cfg.Mode = ModePNG
	case *check:
		cfg.Mode = ModeCheck
	case isTTY:
		cfg.Mode = ModeInteractive
	default:
		cfg.Mode = ModePrint
	}

	if cfg.CellWidth == 0 {
		cfg.CellWidth = defaultTermCell
		if cfg.Mode == ModePNG {
			cfg.CellWidth = defaultPNGCell
		}
	}
	if cfg.Width == 0 {
		switch {
		case cfg.Mode == ModePNG:
			cfg.Width = 32 * defaultPNGCell
		case termWidth > 0:
			cfg.Width = float64(termWidth)
		default:
			cfg.Width = defaultWidth
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CellWidth <= 0 {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path("cell").
			Value(c.CellWidth).
			Detail("cell width must be positive").
			Build()
	}
	if c.Mode == ModeInteractive && c.CellWidth < minTermCell {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path("cell").
			Value(c.CellWidth).
			Detail("cell width must be at least %d column in the terminal", minTermCell).
			Build()
	}
	if c.Width <= 0 {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path("width").
			Value(c.Width).
			Detail("viewport width must be positive").
			Build()
	}
	if cells := c.Width / c.CellWidth; cells > MaxCells {
		return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
			Path("width").
			Value(cells).
			Detail("viewport shows %.0f byte cells, at most %d allowed", cells, MaxCells).
			Build()
	}
	if c.DumpCount < 0 {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Path("dump").
			Value(c.DumpCount).
			Detail("repetition count must not be negative").
			Build()
	}
	return nil
}

// Terminal reports whether stdout is a terminal and its width in columns.
func Terminal() (bool, int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, w
}
