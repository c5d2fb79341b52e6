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

package asliutil

import (
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	asli "github.com/thomaszwagerman/amundsen-sea-low-index"
)

// CalculatorFromConfig builds a Calculator from the configuration. The
// sector bounds come from the Region.* options so their scope of effect
// (background threshold and final filter) is visible here rather than
// implied by package-level state.
func CalculatorFromConfig(cfg *viper.Viper) *asli.Calculator {
	c := asli.New(os.ExpandEnv(cfg.GetString("DataDir")))
	if v := cfg.GetString("MaskFilename"); v != "" {
		c.MaskFilename = os.ExpandEnv(v)
	}
	if v := cfg.GetString("MSLPattern"); v != "" {
		c.MSLPattern = os.ExpandEnv(v)
	}
	c.Region = asli.Region{
		West:  cast.ToFloat64(cfg.Get("Region.West")),
		East:  cast.ToFloat64(cfg.Get("Region.East")),
		South: cast.ToFloat64(cfg.Get("Region.South")),
		North: cast.ToFloat64(cfg.Get("Region.North")),
	}
	return c
}
