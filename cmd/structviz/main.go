package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/structlayout/canon"
	"github.com/wippyai/structlayout/grid"
	"github.com/wippyai/structlayout/internal/config"
	"github.com/wippyai/structlayout/layout"
	"github.com/wippyai/structlayout/probe"
	"github.com/wippyai/structlayout/snapshot"
	"github.com/wippyai/structlayout/store"
)

// pngTop is the margin above the first row of a rendered image.
const pngTop = 25

func main() {
	isTTY, width := config.Terminal()
	cfg, err := config.Parse(os.Args[1:], os.Stderr, isTTY, width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: structviz [-fields u8,u128] [-i | -print | -dump N | -png out.png | -check]")
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	store.SetLogger(logger)
	probe.SetLogger(logger)
	logger.Debug("starting",
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("fields", cfg.Fields),
		zap.Float64("cell_width", cfg.CellWidth),
		zap.Float64("width", cfg.Width),
	)

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.StatePath
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return store.New(path), nil
}

// loadFields returns the -fields list, or the saved one. A broken state file
// is reported but not fatal.
func loadFields(cfg *config.Config, st *store.Store) layout.FieldList {
	if cfg.Fields != nil {
		return cfg.Fields
	}
	if st == nil {
		return store.Default()
	}
	fields, err := st.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return fields
}

func run(cfg *config.Config, out io.Writer) error {
	st, err := openStore(cfg)
	if err != nil {
		if cfg.Mode == config.ModeInteractive && !cfg.NoSave {
			return err
		}
		st = nil
	}
	fields := loadFields(cfg, st)

	switch cfg.Mode {
	case config.ModeInteractive:
		return runInteractive(cfg, st, fields)
	case config.ModeDump:
		return runDump(out, fields, cfg.DumpCount)
	case config.ModePNG:
		return runPNG(out, cfg, fields)
	case config.ModeCheck:
		return runCheck(out, fields)
	default:
		return runPrint(out, fields)
	}
}

func runPrint(out io.Writer, fields layout.FieldList) error {
	res := layout.Compute(fields)
	_, err := fmt.Fprintf(out, "%s\n%s", res.Decl(layout.DefaultStructName), res.Table())
	return err
}

func runDump(out io.Writer, fields layout.FieldList, count int) error {
	ctx := context.Background()

	p, err := probe.New(ctx)
	if err != nil {
		return fmt.Errorf("start probe: %w", err)
	}
	defer p.Close(ctx)

	res := layout.Compute(fields)
	fmt.Fprintf(out, "%s x %d (size %d, align %d)\n", fields, count, res.Size, res.Align)
	return p.Dump(out, &res, count)
}

func runPNG(out io.Writer, cfg *config.Config, fields layout.FieldList) error {
	f := grid.Build(grid.At(cfg.Start, cfg.Width), grid.Options{
		CellWidth: cfg.CellWidth,
		Top:       pngTop,
	}, fields)
	opts := snapshot.DefaultOptions()
	if cfg.Dark {
		opts.Palette = snapshot.DarkPalette
	}
	if err := snapshot.SavePNG(cfg.PNGPath, &f, opts); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Wrote %s (%d levels, %d overlay blocks)\n", cfg.PNGPath, len(f.Rows), len(f.Overlay))
	return err
}

func runCheck(out io.Writer, fields layout.FieldList) error {
	report, err := canon.Check(fields)
	if err != nil {
		return err
	}
	decl, err := canon.WIT(fields)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\ncanonical ABI agrees: size %d, align %d\n", decl, report.Size, report.Align)
	return err
}
