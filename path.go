// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import "path/filepath"

// MaterializePath normalizes a resolved value that denotes a filesystem
// location: an absolute location is returned cleaned, a relative one is
// joined to base. Base is typically the directory of the project file
// that introduced the pipeline's settings. No interpolation and no
// existence checks happen here, so callers can tell path problems apart
// from reference resolution errors.
func MaterializePath(value, base string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

// Path resolves (section, key) and materializes it as a filesystem
// location against base.
func (c *Config) Path(section, key, base string) (string, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return "", err
	}
	return MaterializePath(s, base), nil
}
