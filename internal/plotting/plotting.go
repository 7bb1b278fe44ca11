// Package plotting renders PNG figures from parsed calculation output:
// thermal conductivity versus temperature and phonon dispersions.
package plotting

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sciforge/ink/internal/bte"
	"github.com/sciforge/ink/internal/phonopy"
)

var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// Kappa plots the diagonal conductivity components versus temperature
// and saves the figure as PNG.
func Kappa(points []bte.KappaPoint, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no conductivity data to plot")
	}

	p := plot.New()
	p.Title.Text = "Lattice thermal conductivity"
	p.X.Label.Text = "T (K)"
	p.Y.Label.Text = "kappa (W/mK)"
	p.Add(plotter.NewGrid())

	for i, direction := range []string{"xx", "yy", "zz"} {
		pts := make(plotter.XYs, len(points))
		for j, kp := range points {
			v, err := kp.Component(direction)
			if err != nil {
				return err
			}
			pts[j].X = kp.T
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(direction, line)
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// Dispersion plots a phonon band structure along the high-symmetry path
// and saves the figure as PNG. Branch lines break at path-segment
// boundaries, and segment ticks label the axis.
func Dispersion(band *phonopy.Band, path string) error {
	if len(band.Distances) == 0 {
		return fmt.Errorf("no dispersion data to plot")
	}

	p := plot.New()
	p.Title.Text = "Phonon dispersion"
	p.Y.Label.Text = "Frequency (THz)"
	// The distance slice ends with a NaN gap row; the last tick carries
	// the true path end.
	p.X.Min = band.Distances[0]
	if n := len(band.Ticks); n > 0 {
		p.X.Max = band.Ticks[n-1].End
	}
	p.X.Tick.Marker = plot.ConstantTicks(pathTicks(band.Ticks))
	p.Add(plotter.NewGrid())

	for branch := range band.Branches {
		for _, seg := range branchSegments(band, branch) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return err
			}
			line.Color = palette[0]
			p.Add(line)
		}
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// branchSegments splits one branch into contiguous runs, breaking at the
// NaN gap rows between path segments.
func branchSegments(band *phonopy.Band, branch int) []plotter.XYs {
	var segments []plotter.XYs
	var current plotter.XYs
	for i, dist := range band.Distances {
		v := band.Frequencies[i][branch]
		if math.IsNaN(v) {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: dist, Y: v})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// pathTicks converts segment boundaries to axis ticks. Coincident
// segment ends merge into a single label.
func pathTicks(ticks []phonopy.Tick) []plot.Tick {
	var out []plot.Tick
	for i, t := range ticks {
		if i == 0 {
			out = append(out, plot.Tick{Value: t.Start, Label: t.StartLabel})
		}
		out = append(out, plot.Tick{Value: t.End, Label: t.EndLabel})
	}
	return out
}
