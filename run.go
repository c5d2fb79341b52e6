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
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
)

const (
	// DefaultMaskFilename is the land-sea mask file within DataDir.
	DefaultMaskFilename = "era5_lsm.nc"

	// DefaultMSLPattern is the mean sea level pressure file glob
	// within DataDir.
	DefaultMSLPattern = "monthly/era5_mean_sea_level_pressure_monthly_*.nc"

	// DefaultJobs is the default number of concurrent detection workers.
	DefaultJobs = 4

	// regionBorder is the width of the window kept around the sector
	// when slicing the input fields [degrees].
	regionBorder = 8.0
)

var (
	errMaskNotLoaded = errors.New("asli: land-sea mask not loaded: read the mask before requesting detection")
	errMSLNotLoaded  = errors.New("asli: mean sea level pressure data not loaded")
)

// A Calculator handles calculations of the Amundsen Sea Low Index from
// input files on disk.
//
// The zero value is not usable; create Calculators with New. The expected
// call sequence is ReadData (or ReadMaskData then ReadMSLData) followed by
// Calculate.
type Calculator struct {
	// DataDir is the directory holding the input files.
	DataDir string

	// MaskFilename is the land-sea mask file, relative to DataDir.
	MaskFilename string

	// MSLPattern is a file path or glob pattern for the mean sea level
	// pressure files, relative to DataDir.
	MSLPattern string

	// Region is the sector used for background statistics and for the
	// final index selection.
	Region Region

	// MsgChan, if non-nil, receives progress messages. The caller must
	// drain it.
	MsgChan chan string

	// LandSeaMask is the full-extent mask, available after ReadMaskData.
	LandSeaMask *Grid

	// RawMSL is the pressure series as read [hPa], available after
	// ReadMSLData.
	RawMSL *Series

	// SlicedMSL is RawMSL windowed to Region plus a border, and is what
	// detection runs on.
	SlicedMSL *Series

	// sectorMask is LandSeaMask windowed to match SlicedMSL.
	sectorMask *Grid

	// ASL holds the result of the most recent Calculate call.
	ASL CandidateTable
}

// New returns a Calculator reading inputs from dataDir, with the default
// ERA5 file names and the Amundsen Sea sector.
func New(dataDir string) *Calculator {
	return &Calculator{
		DataDir:      dataDir,
		MaskFilename: DefaultMaskFilename,
		MSLPattern:   DefaultMSLPattern,
		Region:       ASLRegion,
	}
}

// ReadMaskData reads the land-sea mask from <DataDir>/<MaskFilename>.
func (c *Calculator) ReadMaskData() error {
	mask, err := ReadMask(filepath.Join(c.DataDir, c.MaskFilename))
	if err != nil {
		return err
	}
	c.LandSeaMask = mask
	return nil
}

// ReadMSLData reads the mean sea level pressure files matching
// <DataDir>/<MSLPattern>, converts them to hPa, and windows them to the
// calculation region. The land-sea mask must be read first so that
// co-registration can be checked before any detection work begins.
func (c *Calculator) ReadMSLData() error {
	if c.LandSeaMask == nil {
		return fmt.Errorf("asli: land-sea mask must be read before mean sea level pressure data")
	}
	raw, err := ReadMSL(filepath.Join(c.DataDir, c.MSLPattern))
	if err != nil {
		return err
	}
	if !axesEqual(raw.Lat, c.LandSeaMask.Lat) || !axesEqual(raw.Lon, c.LandSeaMask.Lon) {
		return fmt.Errorf("asli: mean sea level pressure grid is not co-registered with the land-sea mask")
	}
	c.RawMSL = raw
	c.SlicedMSL = SliceRegion(raw, c.Region, regionBorder)
	c.sectorMask = SliceGridRegion(c.LandSeaMask, c.Region, regionBorder)
	return nil
}

// ReadData is a convenience method reading both the mask and the pressure
// files.
func (c *Calculator) ReadData() error {
	if err := c.ReadMaskData(); err != nil {
		return err
	}
	return c.ReadMSLData()
}

// Run detects candidate lows in every step of the loaded pressure series,
// dispatching detection across nJobs workers (DefaultJobs if nJobs < 1),
// and returns the concatenated candidate table in time order. For a
// seasonal series the iteration axis is the 4 seasons; otherwise it is the
// full time axis.
//
// Results are reassembled by step index, so the output order does not
// depend on worker completion order. An error in any step aborts the whole
// run: a partial table is never returned as if complete.
func (c *Calculator) Run(nJobs int) (CandidateTable, error) {
	if c.SlicedMSL == nil {
		return nil, errMSLNotLoaded
	}
	if c.sectorMask == nil {
		return nil, errMaskNotLoaded
	}
	if nJobs < 1 {
		nJobs = DefaultJobs
	}

	n := c.SlicedMSL.Len()
	results := make([]CandidateTable, n)
	jobChan := make(chan int, n)
	errChan := make(chan error, nJobs)
	var completed int64

	for w := 0; w < nJobs; w++ {
		go func() {
			var werr error
			for t := range jobChan {
				if werr != nil {
					continue // drain remaining jobs after a failure
				}
				lows, err := GetLows(c.SlicedMSL.Slice(t), c.sectorMask, c.Region)
				if err != nil {
					werr = fmt.Errorf("asli: detecting lows in time step %d: %w", t, err)
					continue
				}
				results[t] = lows
				if c.MsgChan != nil {
					c.MsgChan <- fmt.Sprintf("Completed %d of %d time steps.\n",
						atomic.AddInt64(&completed, 1), n)
				}
			}
			errChan <- werr
		}()
	}
	for t := 0; t < n; t++ {
		jobChan <- t
	}
	close(jobChan)

	var firstErr error
	for w := 0; w < nJobs; w++ {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	all := CandidateTable{}
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Calculate runs detection across the series and reduces the result to the
// final index table, which is stored in c.ASL and returned.
func (c *Calculator) Calculate(nJobs int) (CandidateTable, error) {
	lows, err := c.Run(nJobs)
	if err != nil {
		return nil, err
	}
	c.ASL = DefineASL(lows, c.Region)
	return c.ASL, nil
}
