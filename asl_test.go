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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefineASLPicksDeepest(t *testing.T) {
	lows := CandidateTable{
		{Time: "1979-01-01", Lon: 200, Lat: -70, ActCenPres: 980},
		{Time: "1979-01-01", Lon: 250, Lat: -75, ActCenPres: 975},
		{Time: "1979-02-01", Lon: 210, Lat: -72, ActCenPres: 990},
	}
	want := CandidateTable{
		{Time: "1979-01-01", Lon: 250, Lat: -75, ActCenPres: 975},
		{Time: "1979-02-01", Lon: 210, Lat: -72, ActCenPres: 990},
	}
	got := DefineASL(lows, ASLRegion)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestDefineASLBoundaryStrict(t *testing.T) {
	const eps = 1e-6
	lows := CandidateTable{
		{Time: "1979-01-01", Lon: ASLRegion.West, Lat: -70, ActCenPres: 950},
		{Time: "1979-02-01", Lon: ASLRegion.West + eps, Lat: -70, ActCenPres: 960},
		{Time: "1979-03-01", Lon: 200, Lat: ASLRegion.South, ActCenPres: 955},
		{Time: "1979-04-01", Lon: 200, Lat: ASLRegion.North, ActCenPres: 956},
	}
	got := DefineASL(lows, ASLRegion)
	if len(got) != 1 {
		t.Fatalf("got %d rows; want 1 (only the candidate strictly inside)", len(got))
	}
	if got[0].Time != "1979-02-01" {
		t.Errorf("kept row for %s; want 1979-02-01", got[0].Time)
	}
}

func TestDefineASLDropsEmptySteps(t *testing.T) {
	lows := CandidateTable{
		{Time: "1979-01-01", Lon: 10, Lat: 50, ActCenPres: 980}, // far outside
		{Time: "1979-02-01", Lon: 210, Lat: -72, ActCenPres: 990},
	}
	got := DefineASL(lows, ASLRegion)
	if len(got) != 1 || got[0].Time != "1979-02-01" {
		t.Errorf("got %v; want only the 1979-02-01 row", got)
	}
}

func TestDefineASLTieBreak(t *testing.T) {
	lows := CandidateTable{
		{Time: "1979-01-01", Lon: 200, Lat: -70, ActCenPres: 975},
		{Time: "1979-01-01", Lon: 250, Lat: -75, ActCenPres: 975},
	}
	for run := 0; run < 10; run++ {
		got := DefineASL(lows, ASLRegion)
		if len(got) != 1 {
			t.Fatalf("got %d rows; want 1", len(got))
		}
		if got[0].Lon != 200 {
			t.Errorf("run %d: tie broken to lon %g; want first-occurrence 200", run, got[0].Lon)
		}
	}
}

func TestDefineASLIdempotent(t *testing.T) {
	lows := CandidateTable{
		{Time: "1979-01-01", Lon: 200, Lat: -70, ActCenPres: 980},
		{Time: "1979-01-01", Lon: 250, Lat: -75, ActCenPres: 975},
		{Time: "1979-02-01", Lon: 210, Lat: -72, ActCenPres: 990},
	}
	once := DefineASL(lows, ASLRegion)
	twice := DefineASL(once, ASLRegion)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("selection not idempotent (-once +twice):\n%s", diff)
	}
}
