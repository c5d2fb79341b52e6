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
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/stat"
)

// landThreshold is the land-sea mask cutoff: cells with mask values below
// it are sea (valid), all others are land (invalid).
const landThreshold = 0.5

// A Grid is a single 2-D field on a regular latitude × longitude grid.
// The latitude axis is descending (north first) and the longitude axis is
// ascending, matching the ERA5 convention. Missing values are NaN.
type Grid struct {
	Data *sparse.DenseArray // ny × nx

	// Lat and Lon are the coordinate axes [degrees]. Both must be
	// strictly monotonic.
	Lat, Lon []float64

	// Time is the label of the time step this field belongs to.
	Time string
}

// Dims returns the number of grid cells in the latitude and longitude
// directions.
func (g *Grid) Dims() (ny, nx int) {
	return len(g.Lat), len(g.Lon)
}

// A Series is a stack of 2-D fields sharing one pair of coordinate axes.
type Series struct {
	Data *sparse.DenseArray // nt × ny × nx

	Lat, Lon []float64

	// Times holds one label per slice: ISO dates for a time axis, or the
	// four season names when Seasonal is set.
	Times []string

	// Seasonal marks a series with a season axis (exactly 4 slices)
	// instead of a time axis.
	Seasonal bool
}

// Len returns the number of steps along the iteration axis: 4 for a
// seasonal series, otherwise the length of the time axis.
func (s *Series) Len() int {
	if s.Seasonal {
		return 4
	}
	return len(s.Times)
}

// Slice copies out the 2-D field at step t.
func (s *Series) Slice(t int) *Grid {
	ny, nx := len(s.Lat), len(s.Lon)
	data := sparse.ZerosDense(ny, nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			data.Set(s.Data.Get(t, i, j), i, j)
		}
	}
	return &Grid{
		Data: data,
		Lat:  append([]float64{}, s.Lat...),
		Lon:  append([]float64{}, s.Lon...),
		Time: s.Times[t],
	}
}

func axesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

// coRegistered checks that g and mask share identical coordinate axes.
// Detection is undefined on grids that are not co-registered, so callers
// must fail fast on a non-nil return.
func (g *Grid) coRegistered(mask *Grid) error {
	if !axesEqual(g.Lat, mask.Lat) || !axesEqual(g.Lon, mask.Lon) {
		return fmt.Errorf("asli: pressure grid and land-sea mask are not co-registered: "+
			"grid is %d×%d, mask is %d×%d with differing coordinate values",
			len(g.Lat), len(g.Lon), len(mask.Lat), len(mask.Lon))
	}
	return nil
}

// SectorMean returns the mean of g over sea cells (mask < 0.5) within
// region, ignoring missing values. The result is NaN when no valid cell
// falls inside the region; NaN propagates through downstream arithmetic
// rather than being treated as an error.
//
// The grid and mask must be co-registered.
func SectorMean(g, mask *Grid, region Region) float64 {
	var vals []float64
	for i, lat := range g.Lat {
		if lat < region.South || lat > region.North {
			continue
		}
		for j, lon := range g.Lon {
			if lon < region.West || lon > region.East {
				continue
			}
			if mask.Data.Get(i, j) >= landThreshold {
				continue
			}
			v := g.Data.Get(i, j)
			if math.IsNaN(v) {
				continue
			}
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// latRange returns the half-open index range of a descending latitude axis
// selecting latitudes within [south, north], scanning north to south.
func latRange(lat []float64, north, south float64) (i0, i1 int) {
	i0 = len(lat)
	for i, v := range lat {
		if v <= north {
			i0 = i
			break
		}
	}
	i1 = i0
	for i := i0; i < len(lat); i++ {
		if lat[i] < south {
			break
		}
		i1 = i + 1
	}
	return i0, i1
}

// lonRange returns the half-open index range of an ascending longitude axis
// selecting longitudes within [west, east].
func lonRange(lon []float64, west, east float64) (j0, j1 int) {
	j0 = len(lon)
	for j, v := range lon {
		if v >= west {
			j0 = j
			break
		}
	}
	j1 = j0
	for j := j0; j < len(lon); j++ {
		if lon[j] > east {
			break
		}
		j1 = j + 1
	}
	return j0, j1
}

// SliceRegion windows s to region widened by border degrees on all sides.
func SliceRegion(s *Series, region Region, border float64) *Series {
	i0, i1 := latRange(s.Lat, region.North+border, region.South-border)
	j0, j1 := lonRange(s.Lon, region.West-border, region.East+border)
	nt := s.Data.Shape[0]
	data := sparse.ZerosDense(nt, i1-i0, j1-j0)
	for t := 0; t < nt; t++ {
		for i := i0; i < i1; i++ {
			for j := j0; j < j1; j++ {
				data.Set(s.Data.Get(t, i, j), t, i-i0, j-j0)
			}
		}
	}
	return &Series{
		Data:     data,
		Lat:      append([]float64{}, s.Lat[i0:i1]...),
		Lon:      append([]float64{}, s.Lon[j0:j1]...),
		Times:    append([]string{}, s.Times...),
		Seasonal: s.Seasonal,
	}
}

// SliceGridRegion windows a single 2-D grid to region widened by border
// degrees on all sides.
func SliceGridRegion(g *Grid, region Region, border float64) *Grid {
	i0, i1 := latRange(g.Lat, region.North+border, region.South-border)
	j0, j1 := lonRange(g.Lon, region.West-border, region.East+border)
	data := sparse.ZerosDense(i1-i0, j1-j0)
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			data.Set(g.Data.Get(i, j), i-i0, j-j0)
		}
	}
	return &Grid{
		Data: data,
		Lat:  append([]float64{}, g.Lat[i0:i1]...),
		Lon:  append([]float64{}, g.Lon[j0:j1]...),
		Time: g.Time,
	}
}

// nanMax returns the largest non-NaN element of a, or NaN if there is none.
func nanMax(a *sparse.DenseArray) float64 {
	max := math.NaN()
	for _, v := range a.Elements {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}
