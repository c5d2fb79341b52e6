/*
Copyright © 2026 the ASLI authors.
This file is part of ASLI.

ASLI is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ASLI is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ASLI.  If not, see <http://www.gnu.org/licenses/>.
*/

package asli

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// gridHeat adapts a Grid (descending latitude axis) to the ascending-axis
// grid interface the heat map plotter expects. Land and missing cells are
// drawn at the field minimum.
type gridHeat struct {
	g    *Grid
	mask *Grid
	min  float64
}

func newGridHeat(g, mask *Grid) *gridHeat {
	min := math.Inf(1)
	for _, v := range g.Data.Elements {
		if !math.IsNaN(v) && v < min {
			min = v
		}
	}
	return &gridHeat{g: g, mask: mask, min: min}
}

func (h *gridHeat) Dims() (c, r int) { return len(h.g.Lon), len(h.g.Lat) }
func (h *gridHeat) X(c int) float64  { return h.g.Lon[c] }
func (h *gridHeat) Y(r int) float64  { return h.g.Lat[len(h.g.Lat)-1-r] }

func (h *gridHeat) Z(c, r int) float64 {
	i := len(h.g.Lat) - 1 - r
	v := h.g.Data.Get(i, c)
	if math.IsNaN(v) || (h.mask != nil && h.mask.Data.Get(i, c) >= landThreshold) {
		return h.min
	}
	return v
}

// PlotStep renders one time slice as a heat map with the sector outline
// and a marker at each index row matching the slice's time label, saving
// the image to path. The file format follows the extension (.png, .svg,
// .pdf, ...).
func PlotStep(g, mask *Grid, region Region, asl CandidateTable, path string) error {
	p := plot.New()
	p.Title.Text = g.Time
	p.X.Label.Text = "longitude"
	p.Y.Label.Text = "latitude"

	p.Add(plotter.NewHeatMap(newGridHeat(g, mask), palette.Heat(16, 1)))

	box, err := plotter.NewLine(plotter.XYs{
		{X: region.West, Y: region.South},
		{X: region.East, Y: region.South},
		{X: region.East, Y: region.North},
		{X: region.West, Y: region.North},
		{X: region.West, Y: region.South},
	})
	if err != nil {
		return fmt.Errorf("asli: plotting sector outline: %w", err)
	}
	box.LineStyle.Width = vg.Points(1.5)
	box.LineStyle.Color = color.RGBA{A: 255}
	p.Add(box)

	var marks plotter.XYs
	for _, c := range asl {
		if c.Time == timeLabel(g.Time) {
			marks = append(marks, plotter.XY{X: c.Lon, Y: c.Lat})
		}
	}
	if len(marks) > 0 {
		s, err := plotter.NewScatter(marks)
		if err != nil {
			return fmt.Errorf("asli: plotting index markers: %w", err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  color.RGBA{R: 255, B: 255, A: 255},
			Radius: vg.Points(5),
			Shape:  draw.CrossGlyph{},
		}
		p.Add(s)
	}

	return p.Save(20*vg.Centimeter, 15*vg.Centimeter, path)
}

// PlotSteps renders up to max slices of a series into dir, one image per
// time step, named asl_<label>.png.
func PlotSteps(s *Series, mask *Grid, region Region, asl CandidateTable, dir string, max int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("asli: creating plot directory: %w", err)
	}
	n := s.Len()
	if max > 0 && max < n {
		n = max
	}
	maskSlice := mask
	if mask != nil && !axesEqual(mask.Lat, s.Lat) {
		maskSlice = SliceGridRegion(mask, region, regionBorder)
	}
	for t := 0; t < n; t++ {
		g := s.Slice(t)
		path := filepath.Join(dir, fmt.Sprintf("asl_%s.png", timeLabel(g.Time)))
		if err := PlotStep(g, maskSlice, region, asl, path); err != nil {
			return err
		}
	}
	return nil
}
