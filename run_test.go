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
	"strings"
	"testing"

	"github.com/ctessum/sparse"
)

// troughSeries builds an all-sea series of nt steps with one trough per
// step. Step t has its trough at row 1+t%2, column 1+t%2 (all strictly
// inside the Amundsen Sea sector for the test axes).
func troughSeries(nt int) (*Series, *Grid) {
	data := sparse.ZerosDense(nt, len(testLat), len(testLon))
	times := make([]string, nt)
	for t := 0; t < nt; t++ {
		times[t] = fmt.Sprintf("1979-%02d-01", t+1)
		for i := range testLat {
			for j := range testLon {
				data.Set(1000+float64(t), t, i, j)
			}
		}
		data.Set(960-float64(t), t, 1+t%2, 1+t%2)
	}
	s := &Series{Data: data, Lat: testLat, Lon: testLon, Times: times}
	return s, constGrid(0, testLat, testLon)
}

func TestRunPreservesTimeOrder(t *testing.T) {
	const nt = 8
	s, mask := troughSeries(nt)
	c := &Calculator{Region: ASLRegion, SlicedMSL: s, sectorMask: mask}

	// Worker completion order varies between runs; output order must not.
	for run := 0; run < 5; run++ {
		lows, err := c.Run(4)
		if err != nil {
			t.Fatal(err)
		}
		if len(lows) != nt {
			t.Fatalf("run %d: got %d candidates; want %d", run, len(lows), nt)
		}
		for i, low := range lows {
			if low.Time != s.Times[i] {
				t.Fatalf("run %d: row %d has time %s; want %s", run, i, low.Time, s.Times[i])
			}
		}
	}
}

func TestRunProgress(t *testing.T) {
	const nt = 6
	s, mask := troughSeries(nt)
	c := &Calculator{Region: ASLRegion, SlicedMSL: s, sectorMask: mask}
	c.MsgChan = make(chan string, nt)

	if _, err := c.Run(2); err != nil {
		t.Fatal(err)
	}
	close(c.MsgChan)
	var ticks int
	for range c.MsgChan {
		ticks++
	}
	if ticks != nt {
		t.Errorf("got %d progress ticks; want %d", ticks, nt)
	}
}

func TestRunNotLoaded(t *testing.T) {
	c := &Calculator{Region: ASLRegion}
	if _, err := c.Run(1); err == nil {
		t.Error("expected error when pressure data not loaded")
	} else if !strings.Contains(err.Error(), "not loaded") {
		t.Errorf("error = %q; want mention of unloaded data", err)
	}

	s, _ := troughSeries(2)
	c = &Calculator{Region: ASLRegion, SlicedMSL: s}
	if _, err := c.Run(1); err == nil {
		t.Error("expected error when mask not loaded")
	} else if !strings.Contains(err.Error(), "mask not loaded") {
		t.Errorf("error = %q; want mention of the unloaded mask", err)
	}
}

func TestRunWorkerFailureAbortsRun(t *testing.T) {
	s, _ := troughSeries(4)
	badMask := constGrid(0, testLat, []float64{181, 201, 221, 241})
	c := &Calculator{Region: ASLRegion, SlicedMSL: s, sectorMask: badMask}

	lows, err := c.Run(2)
	if err == nil {
		t.Fatal("expected run-level failure from worker error")
	}
	if !strings.Contains(err.Error(), "co-registered") {
		t.Errorf("error = %q; want the underlying cause surfaced", err)
	}
	if lows != nil {
		t.Error("partial results returned alongside an error")
	}
}

func TestRunSeasonal(t *testing.T) {
	s, mask := troughSeries(4)
	s.Times = []string{"DJF", "MAM", "JJA", "SON"}
	s.Seasonal = true
	c := &Calculator{Region: ASLRegion, SlicedMSL: s, sectorMask: mask}

	lows, err := c.Run(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lows) != 4 {
		t.Fatalf("got %d candidates; want one per season", len(lows))
	}
	for i, want := range []string{"DJF", "MAM", "JJA", "SON"} {
		if lows[i].Time != want {
			t.Errorf("row %d has label %s; want %s", i, lows[i].Time, want)
		}
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	// Two 3×4 all-sea steps with one known trough each: the index must
	// have exactly two rows with the trough coordinates, and RelCenPres
	// equal to trough − full-grid mean.
	data := sparse.ZerosDense(2, len(testLat), len(testLon))
	troughs := []struct {
		i, j int
		v    float64
	}{
		{1, 1, 980},
		{2, 3, 975},
	}
	bases := []float64{1000, 1010}
	for st, base := range bases {
		for i := range testLat {
			for j := range testLon {
				data.Set(base, st, i, j)
			}
		}
		data.Set(troughs[st].v, st, troughs[st].i, troughs[st].j)
	}
	s := &Series{Data: data, Lat: testLat, Lon: testLon, Times: []string{"1979-01-01", "1979-02-01"}}
	c := &Calculator{Region: ASLRegion, SlicedMSL: s, sectorMask: constGrid(0, testLat, testLon)}

	asl, err := c.Calculate(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(asl) != 2 {
		t.Fatalf("got %d index rows; want 2", len(asl))
	}
	for st, row := range asl {
		tr := troughs[st]
		if row.Lon != testLon[tr.j] || row.Lat != testLat[tr.i] {
			t.Errorf("step %d: low at (%g, %g); want (%g, %g)",
				st, row.Lon, row.Lat, testLon[tr.j], testLat[tr.i])
		}
		mean := (bases[st]*11 + tr.v) / 12
		if math.Abs(row.RelCenPres-(tr.v-mean)) > testTolerance {
			t.Errorf("step %d: RelCenPres = %g; want %g", st, row.RelCenPres, tr.v-mean)
		}
	}
	if len(c.ASL) != 2 {
		t.Error("result not stored on the calculator")
	}
}
