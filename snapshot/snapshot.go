// Package snapshot draws a grid frame to a PNG image.
//
// The picture matches the interactive view: one two-tone banded row per
// level, a field breakdown row below the structure tier with padding in red
// and fields outlined in blue, and index labels centered in every cell.
package snapshot

import (
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wippyai/structlayout/errors"
	"github.com/wippyai/structlayout/grid"
)

// Palette colors, as hex strings.
type Palette struct {
	Background string
	ShadeEven  string
	ShadeOdd   string
	Padding    string
	Outline    string
	Text       string
}

// LightPalette mirrors the default light theme.
var LightPalette = Palette{
	Background: "#f8f8f8",
	ShadeEven:  "#dcdcdc",
	ShadeOdd:   "#f0f0f0",
	Padding:    "#ff0000",
	Outline:    "#0000ff",
	Text:       "#3c3c3c",
}

// DarkPalette mirrors the default dark theme.
var DarkPalette = Palette{
	Background: "#1b1b1b",
	ShadeEven:  "#373737",
	ShadeOdd:   "#1b1b1b",
	Padding:    "#ff0000",
	Outline:    "#0000ff",
	Text:       "#ffffff",
}

// Options controls the rendered image.
type Options struct {
	Palette Palette
	// Labels disables text when false. Useful for tests and very wide
	// viewports.
	Labels bool
}

// DefaultOptions draws labels in the light palette.
func DefaultOptions() Options {
	return Options{Palette: LightPalette, Labels: true}
}

// Render draws f onto a new context sized to the viewport and frame height.
// The caller owns the returned context and must Close it.
func Render(f *grid.Frame, opts Options) (*gg.Context, error) {
	w := int(math.Ceil(f.View.Width()))
	h := int(math.Ceil(f.Height()))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.PhaseRender, errors.KindInvalidInput).
			Detail("empty image %dx%d", w, h).
			Build()
	}
	if opts.Palette == (Palette{}) {
		opts.Palette = LightPalette
	}

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Hex(opts.Palette.Background))
	if err := draw(dc, f, opts); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

func draw(dc *gg.Context, f *grid.Frame, opts Options) error {
	var source *text.FontSource
	if opts.Labels {
		var err error
		source, err = text.NewFontSource(goregular.TTF)
		if err != nil {
			return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "load label font")
		}
		defer source.Close()
	}

	p := opts.Palette
	for i := range f.Rows {
		row := &f.Rows[i]
		for _, c := range row.Cells {
			if c.Empty {
				continue
			}
			r := f.CellRect(row, c)
			if err := fillRect(dc, r, shade(p, c.Shade)); err != nil {
				return err
			}
			if source != nil {
				dc.SetFont(source.Face(grid.LabelSize(row.Level, c.Index)))
				dc.SetHexColor(p.Text)
				cx, cy := center(r)
				dc.DrawStringAnchored(c.Label, cx, cy, 0.5, 0.5)
			}
		}
	}

	for _, b := range f.Overlay {
		r := f.BlockRect(b)
		if b.Padding() {
			if err := fillRect(dc, r, p.Padding); err != nil {
				return err
			}
			continue
		}
		if err := fillRect(dc, r, shade(p, b.Shade)); err != nil {
			return err
		}
		dc.SetHexColor(p.Outline)
		dc.SetLineWidth(1)
		dc.DrawRectangle(r.X0+0.5, r.Y0+0.5, r.X1-r.X0-1, r.Y1-r.Y0-1)
		if err := dc.Stroke(); err != nil {
			return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "outline field")
		}
		if source != nil {
			dc.SetFont(source.Face(grid.LabelPoints))
			dc.SetHexColor(p.Text)
			cx, cy := center(r)
			dc.DrawStringAnchored(b.Label, cx, cy, 0.5, 0.5)
		}
	}
	return nil
}

// WritePNG renders f and encodes it to w.
func WritePNG(w io.Writer, f *grid.Frame, opts Options) error {
	dc, err := Render(f, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return errors.IO(errors.PhaseRender, "png", err)
	}
	return nil
}

// SavePNG renders f to a file.
func SavePNG(path string, f *grid.Frame, opts Options) error {
	dc, err := Render(f, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return errors.IO(errors.PhaseRender, path, err)
	}
	return nil
}

func shade(p Palette, s int) string {
	if s == 0 {
		return p.ShadeEven
	}
	return p.ShadeOdd
}

func center(r grid.Rect) (float64, float64) {
	return (r.X0 + r.X1) / 2, (r.Y0 + r.Y1) / 2
}

func fillRect(dc *gg.Context, r grid.Rect, hex string) error {
	dc.SetHexColor(hex)
	dc.DrawRectangle(r.X0, r.Y0, r.X1-r.X0, r.Y1-r.Y0)
	if err := dc.Fill(); err != nil {
		return errors.Wrap(errors.PhaseRender, errors.KindInvalidData, err, "fill rectangle")
	}
	return nil
}
