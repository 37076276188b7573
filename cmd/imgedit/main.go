// Command imgedit serves the layered image editor to browsers, or replays
// a scripted editing session against an image file.
//
// Usage:
//
//	imgedit serve [-config imgedit.toml]
//	imgedit replay -in photo.png -script strokes.yaml -out result.png
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/gogpu/imgedit"
	"github.com/gogpu/imgedit/config"
	"github.com/gogpu/imgedit/ingest"
	"github.com/gogpu/imgedit/replay"
	"github.com/gogpu/imgedit/server"
	"github.com/gogpu/imgedit/tools"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes a subcommand and returns the process exit code.
func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "serve":
		err = serve(ctx, args[1:])
	case "replay":
		err = runReplay(ctx, args[1:])
	default:
		usage()
		return 2
	}
	if err != nil {
		log.Printf("imgedit: %v", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: imgedit serve [-config path]")
	fmt.Fprintln(os.Stderr, "       imgedit replay -in image -script steps.yaml -out out.png")
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	path := fs.String("config", "", "TOML configuration file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	srv := server.New(cfg)
	if *path != "" {
		go func() {
			err := config.Watch(ctx, *path, srv.SetConfig, func(err error) {
				imgedit.Logger().Warn("config: reload rejected", "err", err)
			})
			if err != nil {
				imgedit.Logger().Warn("config: watch stopped", "err", err)
			}
		}()
	}
	return srv.ListenAndServe(ctx)
}

func runReplay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	var (
		in     = fs.String("in", "", "input image")
		script = fs.String("script", "", "YAML replay script")
		out    = fs.String("out", "out.png", "output PNG file")
		path   = fs.String("config", "", "TOML configuration file")
	)
	_ = fs.Parse(args)
	if *in == "" || *script == "" {
		return errors.New("replay needs -in and -script")
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	steps, err := replay.ParseFile(*script)
	if err != nil {
		return err
	}
	item, err := ingest.FromFile(*in)
	if err != nil {
		return err
	}

	palette, err := tools.NewPalette(cfg.Tools)
	if err != nil {
		return err
	}
	ed := imgedit.New(palette)
	if err := ingest.Ingest(ctx, item, ed, ingest.WithMaxPixels(cfg.MaxPixels)); err != nil {
		return err
	}
	if err := replay.Run(ctx, ed, palette, steps); err != nil {
		return err
	}

	if err := imgio.Save(*out, ed.Flatten().RGBA(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", *out, err)
	}
	w, h := ed.Size()
	log.Printf("Result saved to %s (%dx%d, %d layers)\n", *out, w, h, len(ed.Layers()))
	return nil
}

func setupLogging(cfg config.Config) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})
	imgedit.SetLogger(slog.New(h))
}
