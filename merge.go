// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"sync"

	"github.com/z5labs/stratum/layer"
)

// Config is the precedence-folded view of an ordered layer stack as a
// single (section, key) value space, together with a memoized
// placeholder resolution cache. It is immutable after Merge returns;
// the cache is internally locked so concurrent readers are safe.
type Config struct {
	values map[string]map[string]string

	// first-seen iteration order across layers, so error messages and
	// dumps are deterministic.
	sections []string
	keys     map[string][]string

	mu       sync.Mutex
	resolved map[Ref]string
}

// Merge folds the given layers, lowest precedence first, into a Config.
// For any (section, key) defined by several layers the last layer wins,
// even when it sets the value to an empty string; keys and sections
// absent from later layers survive from earlier ones. No placeholder
// validation happens here since a value may reference a key any layer
// defines.
func Merge(layers ...layer.Layer) (*Config, error) {
	c := &Config{
		values:   make(map[string]map[string]string),
		keys:     make(map[string][]string),
		resolved: make(map[Ref]string),
	}

	for _, l := range layers {
		for _, s := range l.Sections() {
			name := s.Name()
			if _, seen := c.values[name]; !seen {
				c.sections = append(c.sections, name)
				c.values[name] = make(map[string]string)
			}

			for _, key := range s.Keys() {
				if _, seen := c.values[name][key]; !seen {
					c.keys[name] = append(c.keys[name], key)
				}
				v, _ := s.Value(key)
				c.values[name][key] = v
			}
		}
	}
	return c, nil
}
