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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/cenkalti/backoff"
)

// Fetch downloads rawurl into destDir, keeping the URL's base file name,
// and returns the path of the downloaded file. An existing file of the
// same name is kept as-is. Transient HTTP failures are retried with
// exponential backoff.
func Fetch(rawurl, destDir string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", fmt.Errorf("asli: parsing download URL %q: %w", rawurl, err)
	}
	dest := filepath.Join(destDir, path.Base(u.Path))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	op := func() error {
		resp, err := http.Get(rawurl)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		// Download to a temporary name so a partial file is never
		// mistaken for a complete one.
		tmp, err := os.CreateTemp(destDir, path.Base(u.Path)+".part")
		if err != nil {
			return backoff.Permanent(err)
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return err
		}
		return os.Rename(tmp.Name(), dest)
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)); err != nil {
		return "", fmt.Errorf("asli: downloading %s: %w", rawurl, err)
	}
	return dest, nil
}
