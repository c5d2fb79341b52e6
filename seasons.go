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
	"time"

	"github.com/ctessum/sparse"
)

// seasonNames are the meteorological seasons in calendar order.
var seasonNames = []string{"DJF", "MAM", "JJA", "SON"}

// SeasonMean resamples a series to quarterly means with quarters anchored
// on the start of March (so December, January and February fall into the
// quarter beginning the preceding December). Each output slice is the
// per-cell mean over the quarter's slices, ignoring missing values, and is
// labelled with the quarter's start date.
func SeasonMean(s *Series) (*Series, error) {
	if s.Seasonal {
		return nil, fmt.Errorf("asli: cannot resample a seasonal series by time")
	}
	keys := make([]string, len(s.Times))
	for t, label := range s.Times {
		date, err := time.Parse("2006-01-02", timeLabel(label))
		if err != nil {
			return nil, fmt.Errorf("asli: time label %q is not a date: %w", label, err)
		}
		keys[t] = quarterStart(date).Format("2006-01-02")
	}
	return groupMean(s, keys, false)
}

// SeasonClimatology averages a series into 4 slices, one per
// meteorological season (DJF, MAM, JJA, SON), producing a seasonal series.
func SeasonClimatology(s *Series) (*Series, error) {
	if s.Seasonal {
		return s, nil
	}
	keys := make([]string, len(s.Times))
	for t, label := range s.Times {
		date, err := time.Parse("2006-01-02", timeLabel(label))
		if err != nil {
			return nil, fmt.Errorf("asli: time label %q is not a date: %w", label, err)
		}
		keys[t] = seasonNames[(int(date.Month())/3)%4]
	}
	out, err := groupMean(s, keys, true)
	if err != nil {
		return nil, err
	}
	if len(out.Times) != 4 {
		return nil, fmt.Errorf("asli: series covers %d seasons; a seasonal climatology needs all 4", len(out.Times))
	}
	return out, nil
}

// quarterStart returns the first day of the March-anchored quarter
// containing date.
func quarterStart(date time.Time) time.Time {
	y, m := date.Year(), int(date.Month())
	start := m - (m-3+12)%3
	if start < 1 {
		start += 12
		y--
	}
	return time.Date(y, time.Month(start), 1, 0, 0, 0, 0, time.UTC)
}

// groupMean averages slices sharing a key. Group order follows first
// occurrence of each key, which is chronological for a time-sorted input.
// When seasonal is set the keys are season names and the result has a
// season axis; otherwise keys are dates and the result keeps a time axis.
func groupMean(s *Series, keys []string, seasonal bool) (*Series, error) {
	ny, nx := len(s.Lat), len(s.Lon)
	cells := ny * nx

	var order []string
	groups := make(map[string][]int)
	for t, k := range keys {
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}
	if seasonal {
		// Season order is fixed, not first-occurrence.
		order = order[:0]
		for _, name := range seasonNames {
			if _, ok := groups[name]; ok {
				order = append(order, name)
			}
		}
	}

	data := sparse.ZerosDense(len(order), ny, nx)
	sum := make([]float64, cells)
	count := make([]int, cells)
	for g, key := range order {
		for i := range sum {
			sum[i], count[i] = 0, 0
		}
		for _, t := range groups[key] {
			for i := 0; i < cells; i++ {
				v := s.Data.Elements[t*cells+i]
				if math.IsNaN(v) {
					continue
				}
				sum[i] += v
				count[i]++
			}
		}
		for i := 0; i < cells; i++ {
			v := math.NaN()
			if count[i] > 0 {
				v = sum[i] / float64(count[i])
			}
			data.Elements[g*cells+i] = v
		}
	}
	return &Series{
		Data:     data,
		Lat:      append([]float64{}, s.Lat...),
		Lon:      append([]float64{}, s.Lon...),
		Times:    order,
		Seasonal: seasonal,
	}, nil
}
