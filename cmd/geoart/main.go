// Command geoart renders, records and serves hypotrochoid sketches.
//
// Usage:
//
//	geoart render [-config file] [-o out.png] [-set key=value]...
//	geoart record [-config file] [-o out.gif] [-frames n] [-fps n]
//	geoart serve  [-config file] [-addr :8080] [-watch]
//	geoart shader [-config file] [-kind line|point] [-glsl] [-stage fs_main]
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	geoart "github.com/mhdeeb/geo-art"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/settings"
)

var (
	stdout  = termenv.NewOutput(os.Stdout)
	stderr  = termenv.NewOutput(os.Stderr)
	printer = message.NewPrinter(language.English)
)

var commands = map[string]func(args []string) error{
	"render": runRender,
	"record": runRecord,
	"serve":  runServe,
	"shader": runShader,
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		usage()
		os.Exit(2)
	}
	if err := cmd(os.Args[2:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, stderr.String("error:").Foreground(termenv.ANSIRed).Bold(), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: geoart <render|record|serve|shader> [flags]")
}

func done(format string, args ...any) {
	fmt.Fprintln(os.Stdout, stdout.String("✓").Foreground(termenv.ANSIGreen), printer.Sprintf(format, args...))
}

// common holds the flags shared by every command.
type common struct {
	config  string
	width   int
	height  int
	verbose bool
	caption bool
	point   float64
	opacity float64
	sets    setFlags
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "settings file (.json, .toml, .yaml); default ~/.geo-art/settings.json if present")
	fs.IntVar(&c.width, "width", geoart.DefaultWidth, "image width")
	fs.IntVar(&c.height, "height", geoart.DefaultHeight, "image height")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.BoolVar(&c.caption, "caption", false, "draw the curve parameters")
	fs.Float64Var(&c.point, "point-size", material.DefaultPointSize, "point radius in model units")
	fs.Float64Var(&c.opacity, "opacity", material.DefaultOpacity, "line opacity in [0, 1]")
	fs.Var(&c.sets, "set", "override a setting, key=value (repeatable)")
}

// configPath returns the file given by -config, or the default settings
// file when it exists.
func (c *common) configPath() string {
	if c.config != "" {
		return c.config
	}
	path, err := settings.DefaultPath()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (c *common) app(opts ...geoart.Option) (*geoart.App, error) {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	geoart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	s := settings.Defaults()
	if path := c.configPath(); path != "" {
		var err error
		if s, err = settings.LoadFile(path); err != nil {
			return nil, err
		}
	}
	opts = append([]geoart.Option{
		geoart.WithSettings(s),
		geoart.WithSize(c.width, c.height),
		geoart.WithPointSize(c.point),
		geoart.WithLineOpacity(c.opacity),
	}, opts...)
	if c.caption {
		opts = append(opts, geoart.WithCaption())
	}
	app, err := geoart.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := app.Settings().Update(c.sets.values); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// setFlags collects repeated -set key=value flags.
type setFlags struct {
	values map[string]any
}

func (f *setFlags) String() string {
	pairs := make([]string, 0, len(f.values))
	for k, v := range f.values {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(pairs, ",")
}

func (f *setFlags) Set(s string) error {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	if f.values == nil {
		f.values = make(map[string]any)
	}
	f.values[key] = parseValue(key, raw)
	return nil
}

// parseValue reads numbers and booleans; anything else, and any value of a
// string setting, stays a string.
func parseValue(key, raw string) any {
	if cur, err := settings.Defaults().Get(key); err == nil {
		if _, ok := cur.(string); ok {
			return raw
		}
	}
	if x, err := strconv.ParseFloat(raw, 64); err == nil {
		return x
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
