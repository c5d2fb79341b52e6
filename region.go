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

import "github.com/ctessum/geom"

// A Region is an axis-aligned geographic bounding box [degrees].
// Longitudes are on a 0–360 axis.
type Region struct {
	West, East, South, North float64
}

// ASLRegion is the Amundsen Sea sector used both for the background
// sector-mean calculation and for the final index selection.
var ASLRegion = Region{
	West:  170.0,
	East:  298.0,
	South: -80.0,
	North: -60.0,
}

// Polygon returns the region outline as a closed polygon in
// (longitude, latitude) coordinates.
func (r Region) Polygon() geom.Polygon {
	return geom.Polygon{{
		{X: r.West, Y: r.South},
		{X: r.East, Y: r.South},
		{X: r.East, Y: r.North},
		{X: r.West, Y: r.North},
	}}
}

// Contains reports whether the point (lon, lat) lies strictly inside the
// region. Points on the boundary are not contained.
func (r Region) Contains(lon, lat float64) bool {
	return geom.Point{X: lon, Y: lat}.Within(r.Polygon()) == geom.Inside
}
