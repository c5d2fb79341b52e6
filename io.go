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
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

// ERA5 variable names.
const (
	maskVar = "lsm"
	mslVar  = "msl"
	latVar  = "latitude"
	lonVar  = "longitude"
	timeVar = "time"
)

// ReadMask reads a land-sea mask from a NetCDF file. A leading
// length-one time dimension, if present, is squeezed out.
func ReadMask(filename string) (*Grid, error) {
	ff, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("asli: opening land-sea mask file: %w", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("asli: reading land-sea mask file %s: %w", filename, err)
	}
	lat, err := readAxis(f, latVar)
	if err != nil {
		return nil, err
	}
	lon, err := readAxis(f, lonVar)
	if err != nil {
		return nil, err
	}
	data, err := readGridVar(f, maskVar, 0)
	if err != nil {
		return nil, err
	}
	if data.Shape[0] != len(lat) || data.Shape[1] != len(lon) {
		return nil, fmt.Errorf("asli: land-sea mask variable %s is %d×%d but axes are %d×%d",
			maskVar, data.Shape[0], data.Shape[1], len(lat), len(lon))
	}
	return &Grid{Data: data, Lat: lat, Lon: lon}, nil
}

// ReadMSL reads a mean sea level pressure series from the NetCDF files
// matching pattern, concatenated along the time axis in file name order.
// Pressures are converted to hPa. All files must share the same
// coordinate axes.
func ReadMSL(pattern string) (*Series, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("asli: bad msl file pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("asli: no files match msl pattern %q", pattern)
	}
	sort.Strings(files)

	var lat, lon []float64
	var times []string
	var slices []*sparse.DenseArray
	for _, file := range files {
		fLat, fLon, fTimes, fSlices, err := readMSLFile(file)
		if err != nil {
			return nil, err
		}
		if lat == nil {
			lat, lon = fLat, fLon
		} else if !axesEqual(lat, fLat) || !axesEqual(lon, fLon) {
			return nil, fmt.Errorf("asli: msl file %s has different coordinate axes than %s", file, files[0])
		}
		times = append(times, fTimes...)
		slices = append(slices, fSlices...)
	}

	ny, nx := len(lat), len(lon)
	data := sparse.ZerosDense(len(slices), ny, nx)
	for t, sl := range slices {
		for i := 0; i < ny; i++ {
			for j := 0; j < nx; j++ {
				data.Set(sl.Get(i, j), t, i, j)
			}
		}
	}
	return &Series{Data: data, Lat: lat, Lon: lon, Times: times}, nil
}

func readMSLFile(filename string) (lat, lon []float64, times []string, slices []*sparse.DenseArray, err error) {
	ff, err := os.Open(filename)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("asli: opening msl file: %w", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("asli: reading msl file %s: %w", filename, err)
	}
	if lat, err = readAxis(f, latVar); err != nil {
		return nil, nil, nil, nil, err
	}
	if lon, err = readAxis(f, lonVar); err != nil {
		return nil, nil, nil, nil, err
	}
	timeVals, err := readAxis(f, timeVar)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	units, _ := attrString(f, timeVar, "units")
	times, err = decodeTimes(units, timeVals)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("asli: msl file %s: %w", filename, err)
	}

	pUnits, _ := attrString(f, mslVar, "units")
	scale, err := pressureScale(pUnits)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("asli: msl file %s: %w", filename, err)
	}
	for t := range times {
		sl, err := readGridVar(f, mslVar, t)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("asli: msl file %s time step %d: %w", filename, t, err)
		}
		if scale != 1 {
			sl.Scale(scale)
		}
		slices = append(slices, sl)
	}
	return lat, lon, times, slices, nil
}

// readAxis reads a 1-D coordinate variable in full.
func readAxis(f *cdf.File, v string) ([]float64, error) {
	dims := f.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("asli: variable %s not in netcdf file", v)
	}
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("asli: reading netcdf variable %s: %w", v, err)
	}
	return toFloat64s(buf), nil
}

// readGridVar reads one 2-D (lat × lon) slice of variable v, at the given
// leading-dimension index if v has three dimensions. Packed variables are
// unpacked using their scale_factor and add_offset attributes, and fill
// values become NaN.
func readGridVar(f *cdf.File, v string, index int) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(v)
	if len(dims) == 0 {
		return nil, fmt.Errorf("asli: variable %s not in netcdf file", v)
	}
	var begin, end []int
	switch len(dims) {
	case 2:
		// no leading axis to index into
	case 3:
		begin = []int{index, 0, 0}
		end = []int{index + 1, 0, 0}
		dims = dims[1:]
	default:
		return nil, fmt.Errorf("asli: variable %s has %d dimensions; want 2 or 3", v, len(dims))
	}
	nread := dims[0] * dims[1]
	r := f.Reader(v, begin, end)
	buf := r.Zero(nread)
	if _, err := r.Read(buf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("asli: reading netcdf variable %s: %w", v, err)
	}
	vals := toFloat64s(buf)

	fill, hasFill := attrFloat(f, v, "_FillValue")
	if !hasFill {
		fill, hasFill = attrFloat(f, v, "missing_value")
	}
	scale, hasScale := attrFloat(f, v, "scale_factor")
	offset, hasOffset := attrFloat(f, v, "add_offset")

	data := sparse.ZerosDense(dims...)
	for i, val := range vals {
		if hasFill && val == fill {
			data.Elements[i] = math.NaN()
			continue
		}
		if hasScale {
			val *= scale
		}
		if hasOffset {
			val += offset
		}
		data.Elements[i] = val
	}
	return data, nil
}

func toFloat64s(buf interface{}) []float64 {
	switch b := buf.(type) {
	case []float64:
		return b
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out
	case []uint8:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out
	}
	return nil
}

func attrString(f *cdf.File, v, a string) (string, bool) {
	val, ok := f.Header.GetAttribute(v, a).(string)
	return val, ok
}

func attrFloat(f *cdf.File, v, a string) (float64, bool) {
	switch val := f.Header.GetAttribute(v, a).(type) {
	case []float64:
		if len(val) > 0 {
			return val[0], true
		}
	case []float32:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case []int32:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	case []int16:
		if len(val) > 0 {
			return float64(val[0]), true
		}
	}
	return 0, false
}

// pressureScale returns the factor converting pressures in the given units
// to hectopascals. An empty units attribute is assumed to mean Pa, the
// ERA5 convention.
func pressureScale(units string) (float64, error) {
	switch strings.TrimSpace(units) {
	case "", "Pa", "pascals":
		ratio := unit.Div(unit.New(1, unit.Pascal), unit.New(100, unit.Pascal))
		if err := ratio.Check(unit.Dimless); err != nil {
			return 0, fmt.Errorf("asli: pressure unit conversion: %w", err)
		}
		return ratio.Value(), nil
	case "hPa", "millibars", "mbar":
		return 1, nil
	}
	return 0, fmt.Errorf("asli: unsupported pressure units %q", units)
}

var timeUnitsRe = regexp.MustCompile(`^(\w+) since (\d{4}-\d{1,2}-\d{1,2})(?:[ T](\d{1,2}:\d{1,2}:\d{1,2}(?:\.\d+)?))?`)

// decodeTimes converts CF-style numeric time coordinates (for example
// "hours since 1900-01-01 00:00:0.0") to ISO date labels at day precision.
func decodeTimes(units string, vals []float64) ([]string, error) {
	m := timeUnitsRe.FindStringSubmatch(units)
	if m == nil {
		return nil, fmt.Errorf("cannot parse time units %q", units)
	}
	var step float64 // seconds
	switch strings.ToLower(m[1]) {
	case "seconds", "second":
		step = 1
	case "minutes", "minute":
		step = 60
	case "hours", "hour":
		step = 3600
	case "days", "day":
		step = 86400
	default:
		return nil, fmt.Errorf("unsupported time unit %q", m[1])
	}
	layout := "2006-1-2"
	stamp := m[2]
	if m[3] != "" {
		layout += " 15:4:5"
		stamp += " " + strings.SplitN(m[3], ".", 2)[0]
	}
	base, err := time.Parse(layout, stamp)
	if err != nil {
		return nil, fmt.Errorf("cannot parse time epoch %q: %w", units, err)
	}
	labels := make([]string, len(vals))
	for i, v := range vals {
		t := base.Add(time.Duration(v * step * float64(time.Second)))
		labels[i] = t.UTC().Format("2006-01-02")
	}
	return labels, nil
}
