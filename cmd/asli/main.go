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

// Command asli calculates the Amundsen Sea Low Index from gridded mean
// sea level pressure data.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/thomaszwagerman/amundsen-sea-low-index/asliutil"
)

func main() {
	if err := asliutil.Root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
