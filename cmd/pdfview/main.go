// Command pdfview renders pages of PDF documents to PNG files.
//
// Usage:
//
//	pdfview [flags] file.pdf...
//	pdfview -print-config [flags] > pdfview.toml
//
// All documents share one render owner. With -watch, documents are
// rendered again whenever their files change.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/pdfview"
	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/internal/config"
	"github.com/gogpu/pdfview/renderq"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		pages      = flag.String("pages", "", "pages to render, e.g. 1-3,7 (default all)")
		zoom       = flag.Float64("zoom", 0, "zoom factor, snapped to 25% steps (overrides config)")
		outDir     = flag.String("out", "", "output directory (overrides config)")
		capacity   = flag.Int("cache", 0, "pages cached per document (overrides config)")
		watch      = flag.Bool("watch", false, "render again when a file changes")
		verbose    = flag.Bool("v", false, "verbose logging")
		showVer    = flag.Bool("version", false, "print version and exit")
		printCfg   = flag.Bool("print-config", false, "print the effective configuration as TOML and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.pdf...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Println("pdfview", pdfview.Version)
		return
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *zoom != 0 {
		cfg.Zoom = *zoom
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *capacity != 0 {
		cfg.CacheCapacity = *capacity
	}
	if *watch {
		cfg.Watch = true
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if *printCfg {
		if err := printConfig(os.Stdout, cfg); err != nil {
			fatal(err)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	sel, err := parsePages(*pages)
	if err != nil {
		fatal(err)
	}

	pdfview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, sel, flag.Args()); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, sel pageSet, files []string) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	owner, err := renderq.Start(func() (engine.Engine, error) {
		return engine.NewRaster(engine.WithMaxPixels(cfg.MaxPixels)), nil
	}, renderq.WithName("pdfview"))
	if err != nil {
		return err
	}
	defer func() {
		if err := owner.Close(); err != nil {
			pdfview.Logger().Warn("pdfview: closing engine", "err", err)
		}
	}()

	r := &renderer{owner: owner, cfg: cfg, pages: sel}
	if err := r.renderAll(ctx, files); err != nil && !cfg.Watch {
		return err
	}
	if !cfg.Watch {
		return nil
	}
	return r.watch(ctx, files)
}

// printConfig writes cfg in the format Load reads, so the output can seed
// a configuration file.
func printConfig(w io.Writer, cfg config.Config) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pdfview:", err)
	os.Exit(1)
}
