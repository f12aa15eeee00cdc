// Command putxform mirrors or revolves the parcels of a put file, writing
// put_mirror.dat or put_revolve.dat next to the source.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/putxform/internal/config"
	"github.com/banshee-data/putxform/internal/container"
	"github.com/banshee-data/putxform/internal/container/h5store"
	"github.com/banshee-data/putxform/internal/preview"
	"github.com/banshee-data/putxform/internal/putfile"
	"github.com/banshee-data/putxform/internal/version"
)

// cliFlags holds the parsed command line. Short and long names share a
// variable.
type cliFlags struct {
	file       string
	plane      string
	revolve    bool
	axis       string
	angle      float64
	number     int
	tne        bool
	configPath string
	preview    string
	quiet      bool
	version    bool
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *cliFlags) {
	fs := flag.NewFlagSet("putxform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	for _, name := range []string{"f", "file"} {
		fs.StringVar(&f.file, name, config.DefaultFile, "put file to transform")
	}
	for _, name := range []string{"p", "plane"} {
		fs.StringVar(&f.plane, name, config.DefaultPlane, "mirror plane: x, y or z")
	}
	for _, name := range []string{"r", "revolve"} {
		fs.BoolVar(&f.revolve, name, false, "revolve instead of mirror")
	}
	for _, name := range []string{"a", "axis"} {
		fs.StringVar(&f.axis, name, config.DefaultAxis, "revolve axis: x, y or z")
	}
	for _, name := range []string{"g", "angle"} {
		fs.Float64Var(&f.angle, name, config.DefaultAngle, "revolve sweep in degrees")
	}
	for _, name := range []string{"n", "number"} {
		fs.IntVar(&f.number, name, config.DefaultStations, "number of revolve stations (0 = one per degree)")
	}
	for _, name := range []string{"t", "tne"} {
		fs.BoolVar(&f.tne, name, false, "also transform the _ev companion file")
	}
	for _, name := range []string{"c", "config"} {
		fs.StringVar(&f.configPath, name, "", "JSON or YAML config file")
	}
	fs.StringVar(&f.preview, "preview", "", "write a PNG projection of the output positions")
	for _, name := range []string{"q", "quiet"} {
		fs.BoolVar(&f.quiet, name, false, "mute diagnostic output")
	}
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	return fs, f
}

// overrides returns the config fields set explicitly on the command line.
func overrides(fs *flag.FlagSet, f *cliFlags) *config.TransformConfig {
	o := config.EmptyTransformConfig()
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "f", "file":
			o.File = &f.file
		case "p", "plane":
			o.Plane = &f.plane
		case "r", "revolve":
			o.Revolve = &f.revolve
		case "a", "axis":
			o.Axis = &f.axis
		case "g", "angle":
			o.Angle = &f.angle
		case "n", "number":
			o.Number = &f.number
		case "t", "tne":
			o.Companion = &f.tne
		case "preview":
			o.Preview = &f.preview
		}
	})
	return o
}

// run parses args and performs the transform against backend.
func run(args []string, stdout, stderr io.Writer, backend container.Backend) error {
	fs, f := newFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if f.version {
		fmt.Fprintln(stdout, version.String())
		return nil
	}

	diag := stdout
	if f.quiet {
		diag = nil
	}
	putfile.SetLogWriters(putfile.LogWriters{Ops: stderr, Diag: diag})

	cfg := config.EmptyTransformConfig()
	if f.configPath != "" {
		loaded, err := config.LoadTransformConfig(f.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Merge(overrides(fs, f))
	if err := cfg.Validate(); err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	results, err := putfile.NewRunner(backend).Run(opts)
	if err != nil {
		return err
	}

	if path := cfg.GetPreview(); path != "" {
		pos, ok := results[0].Outputs["position"]
		if !ok {
			return fmt.Errorf("preview: %s has no position field", results[0].Source)
		}
		if err := (&preview.Plotter{}).Save(pos, results[0].Transform, path); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "preview written to %s\n", path)
	}

	for _, r := range results {
		fmt.Fprintf(stdout, "%s: wrote %s (%d fields, %d copies)\n",
			r.Source, r.Destination, len(r.Written), r.Transform.Copies())
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, h5store.Backend{}); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("putxform: %v", err)
	}
}
