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
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ctessum/cdf"
	"github.com/google/go-cmp/cmp"
)

var (
	ioLat = []float64{-60, -70, -80}
	ioLon = []float64{170, 180, 190, 200}
)

func writeMaskFile(t *testing.T, path string, vals []float32) {
	t.Helper()
	h := cdf.NewHeader([]string{"time", "latitude", "longitude"}, []int{1, len(ioLat), len(ioLon)})
	h.AddVariable("latitude", []string{"latitude"}, []float64{0})
	h.AddVariable("longitude", []string{"longitude"}, []float64{0})
	h.AddVariable("lsm", []string{"time", "latitude", "longitude"}, []float32{0})
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	for v, buf := range map[string]interface{}{
		"latitude":  ioLat,
		"longitude": ioLon,
		"lsm":       vals,
	} {
		if _, err := f.Writer(v, nil, nil).Write(buf); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v, err)
		}
	}
}

// writeMSLFile writes one pressure file in Pa, packed as int16 with an
// add_offset, holding a single time step.
func writeMSLFile(t *testing.T, path string, date time.Time, raw []int16) {
	t.Helper()
	h := cdf.NewHeader([]string{"time", "latitude", "longitude"}, []int{1, len(ioLat), len(ioLon)})
	h.AddVariable("time", []string{"time"}, []int32{0})
	h.AddAttribute("time", "units", "hours since 1900-01-01 00:00:0.0")
	h.AddVariable("latitude", []string{"latitude"}, []float64{0})
	h.AddVariable("longitude", []string{"longitude"}, []float64{0})
	h.AddVariable("msl", []string{"time", "latitude", "longitude"}, []int16{0})
	h.AddAttribute("msl", "units", "Pa")
	h.AddAttribute("msl", "scale_factor", []float64{1})
	h.AddAttribute("msl", "add_offset", []float64{100000})
	h.AddAttribute("msl", "_FillValue", []int16{-32767})
	h.Define()

	ff, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		t.Fatal(err)
	}
	epoch := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := int32(date.Sub(epoch).Hours())
	for v, buf := range map[string]interface{}{
		"time":      []int32{hours},
		"latitude":  ioLat,
		"longitude": ioLon,
		"msl":       raw,
	} {
		if _, err := f.Writer(v, nil, nil).Write(buf); err != nil && err != io.EOF {
			t.Fatalf("writing %s: %v", v, err)
		}
	}
}

func TestReadMask(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "era5_lsm.nc")
	vals := make([]float32, len(ioLat)*len(ioLon))
	vals[5] = 1 // land at (1, 1)
	writeMaskFile(t, path, vals)

	mask, err := ReadMask(path)
	if err != nil {
		t.Fatal(err)
	}
	if !axesEqual(mask.Lat, ioLat) || !axesEqual(mask.Lon, ioLon) {
		t.Errorf("mask axes = %v, %v; want %v, %v", mask.Lat, mask.Lon, ioLat, ioLon)
	}
	if got := mask.Data.Get(1, 1); got != 1 {
		t.Errorf("mask(1,1) = %g; want 1", got)
	}
	if got := mask.Data.Get(0, 0); got != 0 {
		t.Errorf("mask(0,0) = %g; want 0", got)
	}
}

func TestReadMSL(t *testing.T) {
	dir := t.TempDir()
	n := len(ioLat) * len(ioLon)

	// Two files, one time step each; values are 100000 Pa plus a small
	// per-cell signature. The second file has one missing cell.
	raw1 := make([]int16, n)
	raw2 := make([]int16, n)
	for i := 0; i < n; i++ {
		raw1[i] = int16(i)
		raw2[i] = int16(100 + i)
	}
	raw2[3] = -32767
	writeMSLFile(t, filepath.Join(dir, "era5_msl_1979.nc"), time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC), raw1)
	writeMSLFile(t, filepath.Join(dir, "era5_msl_1980.nc"), time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), raw2)

	s, err := ReadMSL(filepath.Join(dir, "era5_msl_*.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1979-01-01", "1980-01-01"}, s.Times); diff != "" {
		t.Fatalf("time labels mismatch (-want +got):\n%s", diff)
	}
	// 100000 Pa → 1000 hPa.
	if got, want := s.Data.Get(0, 0, 0), 1000.0; math.Abs(got-want) > testTolerance {
		t.Errorf("first cell = %g hPa; want %g", got, want)
	}
	if got, want := s.Data.Get(1, 1, 0), (100000.+100.+4.)/100.; math.Abs(got-want) > testTolerance {
		t.Errorf("cell (1,1,0) = %g hPa; want %g", got, want)
	}
	if got := s.Data.Get(1, 0, 3); !math.IsNaN(got) {
		t.Errorf("filled cell = %g; want NaN", got)
	}
}

func TestReadMSLNoFiles(t *testing.T) {
	if _, err := ReadMSL(filepath.Join(t.TempDir(), "missing_*.nc")); err == nil {
		t.Error("expected error for pattern matching no files")
	}
}

func TestDecodeTimes(t *testing.T) {
	labels, err := decodeTimes("days since 1979-1-1", []float64{0, 31})
	if err != nil {
		t.Fatal(err)
	}
	if labels[0] != "1979-01-01" || labels[1] != "1979-02-01" {
		t.Errorf("labels = %v; want [1979-01-01 1979-02-01]", labels)
	}
	if _, err := decodeTimes("fortnights since 1979-01-01", []float64{0}); err == nil {
		t.Error("expected error for unsupported time unit")
	}
}
