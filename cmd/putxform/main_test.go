package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/putxform/internal/container"
	"github.com/banshee-data/putxform/internal/geometry"
	"github.com/banshee-data/putxform/internal/putfile"
)

func addField(t *testing.T, s *container.MemoryStore, name string, data *container.Array, rows int64) {
	t.Helper()
	require.NoError(t, s.WriteArray(name+"/"+putfile.DataName, data))
	require.NoError(t, s.WriteArray(name+"/"+putfile.IntervalSetName, container.NewInt64Array([]int64{0, rows - 1})))
}

func newBackend(t *testing.T, name string) *container.MemoryBackend {
	t.Helper()
	b := container.NewMemoryBackend()
	s := container.NewMemoryStore()
	addField(t, s, "position", container.NewFloat64Array([]float64{1, 2, 3, 4, 5, 6}, 2, 3), 2)
	addField(t, s, "velocity", container.NewFloat64Array([]float64{0, 0, 1, 0, 0, 1}, 2, 3), 2)
	addField(t, s, "temperature", container.NewFloat64Array([]float64{300, 400}, 2), 2)
	b.Put(name, s)
	return b
}

func TestFlagDefaults(t *testing.T) {
	fs, f := newFlagSet(&bytes.Buffer{})
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, "put.dat", f.file)
	assert.Equal(t, "z", f.plane)
	assert.False(t, f.revolve)
	assert.Equal(t, "x", f.axis)
	assert.Equal(t, 90.0, f.angle)
	assert.Equal(t, 0, f.number)
	assert.False(t, f.tne)

	o := overrides(fs, f)
	assert.Nil(t, o.File)
	assert.Nil(t, o.Plane)
	assert.Nil(t, o.Revolve)
}

func TestFlagAliases(t *testing.T) {
	fs, f := newFlagSet(&bytes.Buffer{})
	require.NoError(t, fs.Parse([]string{"-r", "--axis", "y", "-g", "180", "--number=5", "-t", "--file", "case/put.dat"}))

	assert.True(t, f.revolve)
	assert.Equal(t, "y", f.axis)
	assert.Equal(t, 180.0, f.angle)
	assert.Equal(t, 5, f.number)
	assert.True(t, f.tne)
	assert.Equal(t, "case/put.dat", f.file)

	o := overrides(fs, f)
	assert.Equal(t, "y", o.GetAxis())
	assert.Equal(t, 5, o.GetNumber())
	assert.True(t, o.GetCompanion())
	assert.Nil(t, o.Plane)
}

func TestRun_Mirror(t *testing.T) {
	b := newBackend(t, "put.dat")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-p", "y"}, &stdout, &stderr, b))

	out := b.Get("put_mirror.dat")
	require.NotNil(t, out)
	a, err := out.ReadArray("position/data")
	require.NoError(t, err)
	assert.Equal(t, 4, a.Rows())
	assert.Contains(t, stdout.String(), "put.dat: wrote put_mirror.dat (3 fields, 2 copies)")
	assert.Contains(t, stdout.String(), "mirroring about the y plane")
	assert.Contains(t, stderr.String(), "run ")
}

func TestRun_RevolveQuiet(t *testing.T) {
	b := newBackend(t, "put.dat")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"--revolve", "-a", "z", "-g", "90", "-n", "2", "-q"}, &stdout, &stderr, b))

	out := b.Get("put_revolve.dat")
	require.NotNil(t, out)
	a, err := out.ReadArray("temperature/data")
	require.NoError(t, err)
	vals, err := a.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 400, 300, 400}, vals)
	assert.NotContains(t, stdout.String(), "revolving about")
	assert.Contains(t, stdout.String(), "wrote put_revolve.dat")
}

func TestRun_ConfigWithFlagOverride(t *testing.T) {
	b := newBackend(t, "case/put.dat")
	cfgPath := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("file: case/put.dat\nplane: x\n"), 0644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-c", cfgPath, "-p", "z"}, &stdout, &stderr, b))

	out := b.Get("case/put_mirror.dat")
	require.NotNil(t, out)
	a, err := out.ReadArray("position/data")
	require.NoError(t, err)
	vals, err := a.Float64s()
	require.NoError(t, err)
	// Flag plane z wins over the config's x.
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 1, 2, -3, 4, 5, -6}, vals)
}

func TestRun_Preview(t *testing.T) {
	b := newBackend(t, "put.dat")
	png := filepath.Join(t.TempDir(), "preview", "put.png")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--preview", png}, &stdout, &stderr, b))

	info, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"invalid plane", []string{"-p", "w"}, geometry.ErrInvalidPlane},
		{"invalid axis", []string{"-r", "-a", "w"}, geometry.ErrInvalidAxis},
		{"missing file", []string{"-f", "absent.dat"}, container.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t, "put.dat")
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr, b)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, b.Get("put_mirror.dat"))
			assert.Nil(t, b.Get("put_revolve.dat"))
		})
	}

	var stdout, stderr bytes.Buffer
	b := newBackend(t, "put.dat")
	assert.Error(t, run([]string{"stray"}, &stdout, &stderr, b))
	assert.Error(t, run([]string{"-c", "missing.json"}, &stdout, &stderr, b))
	assert.ErrorIs(t, run([]string{"-h"}, &stdout, &stderr, b), flag.ErrHelp)
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &stdout, &stderr, container.NewMemoryBackend()))
	assert.Contains(t, stdout.String(), "putxform dev")
}
