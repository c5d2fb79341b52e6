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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetch(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("netcdf bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest, err := Fetch(srv.URL+"/era5_lsm.nc", dir)
	if err != nil {
		t.Fatal(err)
	}
	if dest != filepath.Join(dir, "era5_lsm.nc") {
		t.Errorf("dest = %q; want it named after the URL in %q", dest, dir)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "netcdf bytes" {
		t.Errorf("downloaded content = %q", b)
	}

	// A second fetch keeps the existing file.
	if _, err := Fetch(srv.URL+"/era5_lsm.nc", dir); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times; want 1", hits)
	}
}
