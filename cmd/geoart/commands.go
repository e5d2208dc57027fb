package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	geoart "github.com/mhdeeb/geo-art"
	"github.com/mhdeeb/geo-art/remote"
	"github.com/mhdeeb/geo-art/settings"
	"github.com/mhdeeb/geo-art/shader"
)

func runRender(args []string) error {
	var c common
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	c.register(fs)
	output := fs.String("o", "geoart.png", "output file; the extension selects the format")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := c.app()
	if err != nil {
		return err
	}
	defer app.Close()

	path, err := app.ExportFile(*output)
	if err != nil {
		return err
	}
	done("saved %s (%dx%d)", path, c.width, c.height)
	return nil
}

func runRecord(args []string) error {
	var c common
	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	c.register(fs)
	output := fs.String("o", "geoart.gif", "output gif")
	frames := fs.Int("frames", 120, "number of frames")
	fps := fs.Int("fps", 30, "frames per second")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *frames <= 0 || *fps <= 0 {
		return fmt.Errorf("frames and fps must be positive")
	}

	interval := time.Second / time.Duration(*fps)
	app, err := c.app(geoart.WithInterval(interval), geoart.WithMaxFrames(*frames))
	if err != nil {
		return err
	}
	defer app.Close()

	// Frames are driven by a synthetic clock so the output does not
	// depend on how fast they render.
	app.ToggleRecording()
	start := time.Now()
	for i := range *frames {
		app.Tick(start.Add(time.Duration(i) * interval))
	}
	app.ToggleRecording()

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := app.WriteGIF(f); err != nil {
		f.Close()
		os.Remove(*output)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	done("saved %s, %d frames", *output, app.RecordedFrames())
	return nil
}

func runServe(args []string) error {
	var c common
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	c.register(fs)
	addr := fs.String("addr", "localhost:8080", "listen address")
	watch := fs.Bool("watch", false, "reload the settings file when it changes")
	exportTo := fs.String("export", "geoart", "path used by the export action; the extension defaults to export_ext")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, err := c.app()
	if err != nil {
		return err
	}
	defer app.Close()

	srv := remote.NewServer(app.Settings())
	defer srv.Close()
	srv.Handle("export", func() error {
		path, err := app.ExportFile(*exportTo)
		if err == nil {
			done("saved %s", path)
		}
		return err
	})
	srv.Handle("record", func() error {
		if app.ToggleRecording() {
			return nil
		}
		_, err := app.ExportFile(*exportTo + ".gif")
		return err
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Run(ctx) })
	g.Go(func() error { return srv.ListenAndServe(ctx, *addr) })
	if path := c.configPath(); *watch && path != "" {
		g.Go(func() error { return settings.Watch(ctx, path, app.Settings()) })
	}
	done("serving ws://%s%s", *addr, remote.Path)

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s := app.Stats()
	done("stopped after %d frames (%d skipped)", s.Frames, s.Skipped)
	return err
}

func runShader(args []string) error {
	var c common
	fs := flag.NewFlagSet("shader", flag.ContinueOnError)
	c.register(fs)
	kindName := fs.String("kind", "line", "material: line or point")
	glsl := fs.Bool("glsl", false, "print GLSL instead of WGSL")
	stage := fs.String("stage", "fs_main", "entry point for -glsl: vs_main or fs_main")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind := shader.Line
	switch *kindName {
	case "line":
	case "point":
		kind = shader.Point
	default:
		return fmt.Errorf("unknown kind %q", *kindName)
	}

	app, err := c.app()
	if err != nil {
		return err
	}
	defer app.Close()

	p := app.Materials().Snapshot().Material(kind).Program
	if !*glsl {
		fmt.Print(p.Source)
		return nil
	}
	src, err := p.GLSL(*stage)
	if err != nil {
		return err
	}
	fmt.Print(src)
	return nil
}
