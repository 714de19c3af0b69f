// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stratum resolves layered configuration for image segmentation
// pipelines.
//
// A pipeline's configuration is an ordered stack of layers: built-in
// defaults, a project file, and an optional local override file that
// always wins. Values may embed ${section:key} placeholders which are
// resolved across section and layer boundaries against the merged view
// of the whole stack, and values whose content is a JSON literal can be
// decoded into typed Go values after interpolation.
//
//	cfg, err := stratum.Load(
//	    layer.NewMap("defaults", defaults),
//	    layer.NewFile("roads.ini"),
//	    layer.NewFile("local_overrule.ini", layer.Optional()),
//	)
//
// A Config is immutable once loaded and safe for concurrent readers.
// Reacting to a changed override file means calling Load again; there
// are no live-watch semantics.
package stratum

import (
	"fmt"

	"github.com/z5labs/stratum/layer"
)

// Ref names a single configuration value by its section and key.
type Ref struct {
	Section string
	Key     string
}

// String implements the fmt.Stringer interface.
func (r Ref) String() string {
	return r.Section + ":" + r.Key
}

// NotFoundError occurs when a (section, key) pair, or a whole section
// when Ref.Key is empty, is accessed directly but is not present in
// any layer.
type NotFoundError struct {
	Ref Ref
}

// Error implements the error interface.
func (e NotFoundError) Error() string {
	if e.Ref.Key == "" {
		return fmt.Sprintf("no section %q in any layer", e.Ref.Section)
	}
	return fmt.Sprintf("no value for %s in any layer", e.Ref)
}

// Load loads every source, lowest precedence first, and merges the
// resulting layers into a Config. Later sources override earlier ones
// key by key; sections only present in earlier sources survive.
func Load(srcs ...layer.Source) (*Config, error) {
	layers := make([]layer.Layer, 0, len(srcs))
	for _, src := range srcs {
		l, err := src.Load()
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return Merge(layers...)
}

// Sections returns all section names across every layer, in first-seen
// order.
func (c *Config) Sections() []string {
	sections := make([]string, len(c.sections))
	copy(sections, c.sections)
	return sections
}

// Keys returns the keys of the given section in first-seen order, or
// nil if no layer defines the section.
func (c *Config) Keys(section string) []string {
	if c.keys[section] == nil {
		return nil
	}
	keys := make([]string, len(c.keys[section]))
	copy(keys, c.keys[section])
	return keys
}

// Has reports whether any layer defines (section, key).
func (c *Config) Has(section, key string) bool {
	_, ok := c.values[section][key]
	return ok
}

// Raw returns the value of (section, key) exactly as the winning layer
// wrote it, placeholders and all.
func (c *Config) Raw(section, key string) (string, error) {
	v, ok := c.values[section][key]
	if !ok {
		return "", NotFoundError{Ref: Ref{Section: section, Key: key}}
	}
	return v, nil
}

// Dump resolves every value in the Config and returns them grouped by
// section. It fails on the first resolution error, which makes it a
// cheap whole-stack validation for tooling.
func (c *Config) Dump() (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(c.sections))
	for _, section := range c.sections {
		out[section] = make(map[string]string, len(c.keys[section]))
		for _, key := range c.keys[section] {
			v, err := c.Resolved(section, key)
			if err != nil {
				return nil, err
			}
			out[section][key] = v
		}
	}
	return out, nil
}
