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

// DefineASL reduces a concatenated candidate table to the final index:
// one row per time step, the lowest actual central pressure among the
// candidates strictly inside region. Candidates on the region boundary are
// excluded. Ties are broken by first occurrence in the input, and time
// steps with no qualifying candidate are dropped. The output keeps the
// input's time order; applying DefineASL to its own output returns it
// unchanged.
func DefineASL(lows CandidateTable, region Region) CandidateTable {
	asl := CandidateTable{}
	rows := make(map[string]int) // time label → index into asl
	for _, c := range lows {
		if !region.Contains(c.Lon, c.Lat) {
			continue
		}
		if i, ok := rows[c.Time]; ok {
			if c.ActCenPres < asl[i].ActCenPres {
				asl[i] = c
			}
			continue
		}
		rows[c.Time] = len(asl)
		asl = append(asl, c)
	}
	return asl
}
