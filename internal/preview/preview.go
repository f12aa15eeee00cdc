// Package preview renders a PNG projection of transformed parcel positions so
// a mirror or revolve can be checked by eye before the output is used.
package preview

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/putxform/internal/fsutil"
	"github.com/banshee-data/putxform/internal/geometry"
	"github.com/banshee-data/putxform/internal/replicate"
)

// maxLegendBlocks bounds the legend; larger sweeps are drawn unlabelled.
const maxLegendBlocks = 12

// sourceColor marks the untransformed block.
var sourceColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}

// Plotter writes preview images.
type Plotter struct {
	FS     fsutil.FileSystem // nil uses the OS
	Width  vg.Length         // 0 uses 6in
	Height vg.Length         // 0 uses 6in
}

// Projection returns the two components plotted for t as (horizontal,
// vertical). A mirror shows the plane component vertically so the reflection
// reads as a flip; a revolve shows the plane normal to its axis.
func Projection(t replicate.Transform) (h, v geometry.Axis) {
	if t.Mode == replicate.Revolve {
		return (t.Axis + 1) % 3, (t.Axis + 2) % 3
	}
	return (t.Plane + 1) % 3, t.Plane
}

// Blocks splits a transformed vector field into its copies and projects each
// one. Block 0 is the source.
func Blocks(f replicate.Field, t replicate.Transform) ([]plotter.XYs, error) {
	if f.Data == nil {
		return nil, errors.New("no position data")
	}
	if len(f.Data.Dims) != 2 || f.Data.Dims[1] != 3 {
		return nil, fmt.Errorf("%s: %w: want (n, 3), got %v", f.Name, replicate.ErrBadShape, f.Data.Dims)
	}
	vals, err := f.Data.Float64s()
	if err != nil {
		return nil, err
	}
	copies := t.Copies()
	rows := f.Data.Rows()
	if copies == 0 || rows%copies != 0 {
		return nil, fmt.Errorf("%s: %d rows do not split into %d copies", f.Name, rows, copies)
	}
	per := rows / copies
	h, v := Projection(t)

	blocks := make([]plotter.XYs, copies)
	for b := range blocks {
		pts := make(plotter.XYs, per)
		for i := range pts {
			row := vals[(b*per+i)*3:]
			pts[i] = plotter.XY{X: row[h], Y: row[v]}
		}
		blocks[b] = pts
	}
	return blocks, nil
}

// Save renders f, the transformed position field, to path.
func (p *Plotter) Save(f replicate.Field, t replicate.Transform, path string) error {
	blocks, err := Blocks(f, t)
	if err != nil {
		return err
	}
	h, v := Projection(t)

	pl := plot.New()
	if t.Mode == replicate.Revolve {
		pl.Title.Text = fmt.Sprintf("%s revolved about %v, %d stations", f.Name, t.Axis, len(t.Angles))
	} else {
		pl.Title.Text = fmt.Sprintf("%s mirrored about %v", f.Name, t.Plane)
	}
	pl.X.Label.Text = h.String()
	pl.Y.Label.Text = v.String()
	pl.Add(plotter.NewGrid())

	colors := generateColors(len(blocks) - 1)
	for i, pts := range blocks {
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		if i == 0 {
			sc.GlyphStyle.Color = sourceColor
		} else {
			sc.GlyphStyle.Color = colors[i-1]
		}
		pl.Add(sc)
		if len(blocks) <= maxLegendBlocks {
			pl.Legend.Add(blockLabel(t, i), sc)
		}
	}
	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	fs := p.FS
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create preview dir: %w", err)
		}
	}
	if err := pl.Save(orDefault(p.Width), orDefault(p.Height), path); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}

func orDefault(l vg.Length) vg.Length {
	if l <= 0 {
		return 6 * vg.Inch
	}
	return l
}

func blockLabel(t replicate.Transform, i int) string {
	if t.Mode == replicate.Revolve {
		return fmt.Sprintf("%.1f°", t.Angles[i])
	}
	if i == 0 {
		return "source"
	}
	return "reflected"
}

// generateColors creates a palette of n distinct colors.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
