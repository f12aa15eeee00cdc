// Package putfile runs mirror and revolve transforms over put files.
//
// A run resolves and validates the transform before touching any file, then
// makes one pass over the source container (and optionally its companion),
// writing a new destination container next to each source.
package putfile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/putxform/internal/container"
	"github.com/banshee-data/putxform/internal/geometry"
	"github.com/banshee-data/putxform/internal/replicate"
	"github.com/banshee-data/putxform/internal/stations"
)

// Options describes one invocation.
type Options struct {
	Source string
	Mode   replicate.Mode

	Plane    string  // mirror plane, x|y|z
	Axis     string  // revolve axis, x|y|z
	Angle    float64 // sweep, degrees
	Stations int     // 0 selects one station per degree

	Companion       bool
	CompanionSuffix string

	// Field tables and pass-through groups. Nil selects the defaults.
	Fields          []FieldSpec
	CompanionFields []FieldSpec
	PassThrough     []string
}

// Result reports one file pass.
type Result struct {
	RunID       string
	Source      string
	Destination string
	Transform   replicate.Transform

	Written []string // fields transformed, in table order
	Skipped []string // optional fields absent from the source

	// Outputs holds the transformed fields by name.
	Outputs map[string]replicate.Field
}

// Runner executes transforms against a container backend.
type Runner struct {
	Backend container.Backend

	// NewID returns the run identifier logged with each pass. Nil uses a
	// random UUID.
	NewID func() string
}

// NewRunner returns a Runner over b.
func NewRunner(b container.Backend) *Runner {
	return &Runner{Backend: b}
}

// Resolve validates opts and builds the transform. It performs no I/O.
func Resolve(opts Options) (replicate.Transform, error) {
	switch opts.Mode {
	case replicate.Mirror:
		plane, err := geometry.ParsePlane(opts.Plane)
		if err != nil {
			return replicate.Transform{}, err
		}
		return replicate.MirrorTransform(plane), nil
	case replicate.Revolve:
		axis, err := geometry.ParseAxis(opts.Axis)
		if err != nil {
			return replicate.Transform{}, err
		}
		angles, err := stations.Plan(opts.Angle, opts.Stations)
		if err != nil {
			return replicate.Transform{}, err
		}
		return replicate.RevolveTransform(axis, angles), nil
	}
	return replicate.Transform{}, fmt.Errorf("unknown mode %d", int(opts.Mode))
}

type pass struct {
	source string
	fields []FieldSpec
}

// Run transforms the source container and, if requested, its companion. It
// returns the results of every pass that completed. A failed pass stops the
// run.
func (r *Runner) Run(opts Options) ([]Result, error) {
	if opts.Source == "" {
		return nil, errors.New("no source file given")
	}
	t, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	if t.Mode == replicate.Revolve {
		diagf("revolving about %v through %d stations: %v", t.Axis, len(t.Angles), t.Angles)
	} else {
		diagf("mirroring about the %v plane", t.Plane)
	}

	passes := []pass{{source: opts.Source, fields: orDefault(opts.Fields, DefaultFields)}}
	if opts.Companion {
		passes = append(passes, pass{
			source: CompanionPath(opts.Source, opts.CompanionSuffix),
			fields: orDefault(opts.CompanionFields, DefaultCompanionFields),
		})
	}
	passThrough := opts.PassThrough
	if passThrough == nil {
		passThrough = DefaultPassThrough
	}

	var results []Result
	for _, p := range passes {
		res, err := r.runPass(p, passThrough, t)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func orDefault(specs, def []FieldSpec) []FieldSpec {
	if specs == nil {
		return def
	}
	return specs
}

func (r *Runner) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

// runPass transforms one source container into a new destination. Both
// containers are closed on every path, and a destination left incomplete by
// an error is removed.
func (r *Runner) runPass(p pass, passThrough []string, t replicate.Transform) (res Result, err error) {
	res = Result{
		RunID:       r.newID(),
		Source:      p.source,
		Destination: OutputPath(p.source, t.Mode),
		Transform:   t,
		Outputs:     make(map[string]replicate.Field),
	}
	opsf("run %s: %v %s -> %s", res.RunID, t.Mode, res.Source, res.Destination)

	in, err := r.Backend.Open(res.Source)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := r.Backend.Create(res.Destination)
	if err != nil {
		return res, fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination: %w", cerr)
		}
		if err != nil {
			opsf("run %s: aborted, removing %s: %v", res.RunID, res.Destination, err)
			if rerr := r.Backend.Remove(res.Destination); rerr != nil {
				opsf("run %s: could not remove partial output: %v", res.RunID, rerr)
			}
		}
	}()

	for _, g := range passThrough {
		if !in.Exists(g) {
			diagf("run %s: no %s group, not copied", res.RunID, g)
			continue
		}
		if err := container.CopySubtree(in, out, g); err != nil {
			return res, fmt.Errorf("copy %s: %w", g, err)
		}
	}

	for _, spec := range p.fields {
		f, ok, err := transformField(in, out, spec, t)
		if err != nil {
			return res, fmt.Errorf("%s: field %s: %w", res.Source, spec.Name, err)
		}
		if !ok {
			diagf("run %s: optional field %s absent, skipped", res.RunID, spec.Name)
			res.Skipped = append(res.Skipped, spec.Name)
			continue
		}
		res.Written = append(res.Written, spec.Name)
		res.Outputs[spec.Name] = f
	}

	opsf("run %s: wrote %d fields to %s", res.RunID, len(res.Written), res.Destination)
	return res, nil
}

// transformField replicates one field from in to out. ok is false when an
// optional field is absent.
func transformField(in, out container.Store, spec FieldSpec, t replicate.Transform) (f replicate.Field, ok bool, err error) {
	dataPath := container.Join(spec.Name, DataName)
	if !in.Exists(dataPath) {
		if spec.Required {
			return f, false, fmt.Errorf("required %s: %w", dataPath, container.ErrNotFound)
		}
		return f, false, nil
	}

	data, err := in.ReadArray(dataPath)
	if err != nil {
		return f, false, err
	}
	ivPath := container.Join(spec.Name, IntervalSetName)
	ivArr, err := in.ReadArray(ivPath)
	if err != nil {
		return f, false, err
	}
	iv, err := replicate.DecodeIntervalSet(ivArr)
	if err != nil {
		return f, false, err
	}
	if iv.Len() != int64(data.Rows()) {
		opsf("warning: %s interval set [%d, %d] spans %d entries but data has %d rows",
			spec.Name, iv.Lo, iv.Hi, iv.Len(), data.Rows())
	}
	checkVecSize(in, spec)

	f, err = replicate.Apply(spec.Kind, replicate.Field{Name: spec.Name, Data: data, Interval: iv}, t)
	if err != nil {
		return f, false, err
	}

	if err := out.WriteArray(dataPath, f.Data); err != nil {
		return f, false, err
	}
	if err := out.WriteArray(ivPath, f.Interval.Encode()); err != nil {
		return f, false, err
	}
	for _, m := range PassThroughMembers {
		mp := container.Join(spec.Name, m)
		if !in.Exists(mp) {
			continue
		}
		if err := container.CopySubtree(in, out, mp); err != nil {
			return f, false, err
		}
	}

	diagf("%s (%v): %d -> %d rows, interval [%d, %d] -> [%d, %d]",
		spec.Name, spec.Kind, data.Rows(), f.Data.Rows(), iv.Lo, iv.Hi, f.Interval.Lo, f.Interval.Hi)
	return f, true, nil
}

// checkVecSize warns when a field's stored vec_size disagrees with its table
// kind.
func checkVecSize(in container.Store, spec FieldSpec) {
	a, err := in.ReadArray(container.Join(spec.Name, VecSizeName))
	if err != nil {
		return
	}
	vals, err := a.Int64s()
	if err != nil || len(vals) != 1 {
		return
	}
	want := int64(1)
	if spec.Kind == replicate.Vector {
		want = 3
	}
	if vals[0] != want {
		opsf("warning: %s has vec_size %d but is handled as a %v field", spec.Name, vals[0], spec.Kind)
	}
}
