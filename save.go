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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvColumns is the fixed column contract of the output table.
var csvColumns = []string{"time", "lon", "lat", "ActCenPres", "SectorPres", "RelCenPres"}

// WriteCSV writes the table to w in the fixed column order
// [time lon lat ActCenPres SectorPres RelCenPres], preceded by a comment
// line recording the calculation method version. Missing values are
// written as NaN.
func (t CandidateTable) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# calculation_version: %s\n", CalculationVersion); err != nil {
		return fmt.Errorf("asli: writing csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("asli: writing csv header: %w", err)
	}
	for _, c := range t {
		rec := []string{
			c.Time,
			strconv.FormatFloat(c.Lon, 'g', -1, 64),
			strconv.FormatFloat(c.Lat, 'g', -1, 64),
			strconv.FormatFloat(c.ActCenPres, 'g', -1, 64),
			strconv.FormatFloat(c.SectorPres, 'g', -1, 64),
			strconv.FormatFloat(c.RelCenPres, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("asli: writing csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to the named file, creating or truncating
// it.
func (t CandidateTable) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("asli: creating output file: %w", err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV reads a table previously written by WriteCSV. Comment lines
// starting with '#' are skipped.
func ReadCSV(r io.Reader) (CandidateTable, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("asli: reading csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("asli: csv input has no header row")
	}
	header := recs[0]
	if len(header) != len(csvColumns) {
		return nil, fmt.Errorf("asli: csv header has %d columns; want %d", len(header), len(csvColumns))
	}
	for i, c := range csvColumns {
		if header[i] != c {
			return nil, fmt.Errorf("asli: csv column %d is %q; want %q", i, header[i], c)
		}
	}
	t := CandidateTable{}
	for n, rec := range recs[1:] {
		vals := make([]float64, 5)
		for i := range vals {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("asli: csv row %d column %s: %w", n+1, csvColumns[i+1], err)
			}
			vals[i] = v
		}
		t = append(t, Candidate{
			Time:       rec[0],
			Lon:        vals[0],
			Lat:        vals[1],
			ActCenPres: vals[2],
			SectorPres: vals[3],
			RelCenPres: vals[4],
		})
	}
	return t, nil
}

// ReadCSVFile reads a table from the named file.
func ReadCSVFile(path string) (CandidateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asli: opening csv file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
