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

// Package asli calculates the Amundsen Sea Low Index from gridded mean sea
// level pressure fields. For each time step it detects candidate
// low-pressure centers relative to a sector-mean background, then selects
// the single deepest low inside the Amundsen Sea sector, following the
// relative central pressure convention of Hosking et al. (2013).
package asli

// Version is the version of this package.
const Version = "1.0.0"

// CalculationVersion identifies the version of the calculation method,
// *not* the package version.
const CalculationVersion = "3.20210820"

// A Candidate is one detected low-pressure center at one time step.
type Candidate struct {
	// Time is the time step label: an ISO date (YYYY-MM-DD) for a time
	// axis, or a season name (DJF, MAM, JJA, SON) for a season axis.
	Time string

	// Lon and Lat are the coordinates of the central grid cell
	// [degrees]. Longitudes are on a 0–360 axis.
	Lon, Lat float64

	// ActCenPres is the actual central pressure [hPa].
	ActCenPres float64

	// SectorPres is the sector-mean background pressure [hPa].
	SectorPres float64

	// RelCenPres is ActCenPres − SectorPres; negative values indicate
	// a low deeper than the regional background.
	RelCenPres float64
}

// A CandidateTable is an ordered sequence of detected lows. Tables from
// successive time steps are concatenated in time order.
type CandidateTable []Candidate
