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
	"math"
	"sort"

	"github.com/ctessum/sparse"
)

const (
	// peakSeparation is the minimum separation between accepted
	// low centers [grid cells].
	peakSeparation = 5

	// maxPeaks is the maximum number of low centers accepted per
	// time step.
	maxPeaks = 3
)

// GetLows detects candidate low-pressure centers in a single time slice.
//
// The detection threshold is the sector mean of g over region, recomputed
// for every slice. Land cells are filled with the slice's global maximum so
// they can never be selected, the field is negated, and local maxima of the
// negated field are accepted if they are at least as intense as the negated
// sector mean, separated by at least 5 cells, and no more than 3 in number.
// Maxima within the separation distance of the grid border are kept.
//
// Zero accepted peaks yields an empty table, not an error. A nil or
// non-co-registered mask is a precondition failure and returns an error
// before any detection work is done.
func GetLows(g, mask *Grid, region Region) (CandidateTable, error) {
	if mask == nil {
		return nil, errMaskNotLoaded
	}
	if err := g.coRegistered(mask); err != nil {
		return nil, err
	}

	sectorPres := SectorMean(g, mask, region)

	// Fill land with the highest value in the slice to limit lows being
	// found there, then negate so that a peak search finds minima.
	ny, nx := g.Dims()
	gridMax := nanMax(g.Data)
	surface := sparse.ZerosDense(ny, nx)
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			v := g.Data.Get(i, j)
			if mask.Data.Get(i, j) >= landThreshold || math.IsNaN(v) {
				v = gridMax
			}
			surface.Set(-v, i, j)
		}
	}

	threshold := -sectorPres
	if math.IsNaN(threshold) {
		// No valid sea cell in the sector: fall back to the mean of
		// the negated surface.
		threshold = surface.Sum() / float64(len(surface.Elements))
	}

	peaks := peakLocalMax(surface, peakSeparation, maxPeaks, threshold)

	lows := CandidateTable{}
	for _, p := range peaks {
		act := g.Data.Get(p.row, p.col)
		lows = append(lows, Candidate{
			Time:       timeLabel(g.Time),
			Lon:        g.Lon[p.col],
			Lat:        g.Lat[p.row],
			ActCenPres: act,
			SectorPres: sectorPres,
			RelCenPres: act - sectorPres,
		})
	}
	return lows, nil
}

// timeLabel truncates a time coordinate label to day precision.
func timeLabel(t string) string {
	if len(t) > 10 {
		return t[:10]
	}
	return t
}

type peak struct {
	row, col  int
	intensity float64
}

// peakLocalMax finds local maxima of a 2-D field. A cell is a local
// maximum when no cell within Chebyshev distance minDistance of it is
// larger; cells near the border are compared against their in-bounds
// neighborhood only. Maxima with intensity not strictly greater than
// threshold are rejected. The survivors are ranked by descending
// intensity, ranking ties broken by row-major scan order (first cell
// wins), and then accepted greedily, skipping any maximum within Euclidean
// distance minDistance of a previously accepted one, until numPeaks have
// been accepted.
func peakLocalMax(data *sparse.DenseArray, minDistance, numPeaks int, threshold float64) []peak {
	ny, nx := data.Shape[0], data.Shape[1]
	var cands []peak
	for i := 0; i < ny; i++ {
		for j := 0; j < nx; j++ {
			v := data.Get(i, j)
			if !(v > threshold) { // NaN also fails
				continue
			}
			if !isNeighborhoodMax(data, i, j, minDistance) {
				continue
			}
			cands = append(cands, peak{row: i, col: j, intensity: v})
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].intensity > cands[b].intensity
	})

	var accepted []peak
	for _, p := range cands {
		if len(accepted) == numPeaks {
			break
		}
		ok := true
		for _, q := range accepted {
			dr, dc := p.row-q.row, p.col-q.col
			if dr*dr+dc*dc <= minDistance*minDistance {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, p)
		}
	}
	return accepted
}

func isNeighborhoodMax(data *sparse.DenseArray, i, j, r int) bool {
	ny, nx := data.Shape[0], data.Shape[1]
	v := data.Get(i, j)
	for ii := max(i-r, 0); ii <= min(i+r, ny-1); ii++ {
		for jj := max(j-r, 0); jj <= min(j+r, nx-1); jj++ {
			if data.Get(ii, jj) > v {
				return false
			}
		}
	}
	return true
}
