// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package layer loads configuration sources into ordered sections of raw
// key/value pairs. Values are kept byte-for-byte as written; placeholder
// interpolation and typed parsing happen later, against the merged view of
// the whole layer stack.
package layer

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/z5labs/stratum/internal/try"
)

// Source defines valid layer sources as those who can load
// themselves into a Layer.
type Source interface {
	Load() (Layer, error)
}

// Format identifies the on-disk syntax of a layer source.
type Format int

const (
	// FormatINI is the primary format: [section] headers followed by
	// key = value lines, with indented continuation lines appended to
	// the previous value.
	FormatINI Format = iota

	// FormatJSON is a single JSON object mapping section names to
	// objects of key/value pairs. Comments and trailing commas are
	// tolerated.
	FormatJSON

	// FormatYAML is a YAML mapping of section names to mappings of
	// scalar key/value pairs.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatINI:
		return "ini"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Section is a named group of raw key/value pairs. Keys are unique within
// a section and iterate in the order the source declared them.
type Section struct {
	name   string
	keys   []string
	values map[string]string
}

// Name returns the section name.
func (s Section) Name() string {
	return s.name
}

// Keys returns the section's keys in declaration order.
func (s Section) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Value returns the raw value for key and whether the key is present.
func (s Section) Value(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Layer is one configuration source's parsed sections, in declaration
// order. A Layer is immutable once loaded.
type Layer struct {
	name     string
	sections []Section
}

// Name returns the source name the layer was loaded from, e.g. a file
// path or URL. It appears in load and resolution error messages.
func (l Layer) Name() string {
	return l.name
}

// Sections returns the layer's sections in declaration order.
func (l Layer) Sections() []Section {
	sections := make([]Section, len(l.sections))
	copy(sections, l.sections)
	return sections
}

// Empty reports whether the layer carries no sections at all, which is
// how an absent optional source loads.
func (l Layer) Empty() bool {
	return len(l.sections) == 0
}

// layerBuilder accumulates sections while a source is parsed and rejects
// duplicate sections and duplicate keys within a section.
type layerBuilder struct {
	name     string
	sections []Section
	index    map[string]int
}

func newLayerBuilder(name string) *layerBuilder {
	return &layerBuilder{
		name:  name,
		index: make(map[string]int),
	}
}

func (b *layerBuilder) addSection(name string) error {
	if _, ok := b.index[name]; ok {
		return fmt.Errorf("duplicate section %q", name)
	}
	b.index[name] = len(b.sections)
	b.sections = append(b.sections, Section{
		name:   name,
		values: make(map[string]string),
	})
	return nil
}

func (b *layerBuilder) set(section, key, value string) error {
	i, ok := b.index[section]
	if !ok {
		err := b.addSection(section)
		if err != nil {
			return err
		}
		i = b.index[section]
	}
	s := &b.sections[i]
	if _, ok := s.values[key]; ok {
		return fmt.Errorf("duplicate key %q in section %q", key, section)
	}
	s.keys = append(s.keys, key)
	s.values[key] = value
	return nil
}

// appendTo appends more text to the most recently set key of section i.
func (b *layerBuilder) appendTo(i int, text string) {
	s := &b.sections[i]
	key := s.keys[len(s.keys)-1]
	s.values[key] = s.values[key] + "\n" + text
}

func (b *layerBuilder) layer() Layer {
	return Layer{
		name:     b.name,
		sections: b.sections,
	}
}

// ReaderSource loads a layer from an arbitrary io.Reader. If the reader
// also implements io.Closer it is closed after loading.
type ReaderSource struct {
	name   string
	format Format
	r      io.Reader
}

// NewReader returns a Source which parses the given reader using the
// given format. The name identifies the source in error messages.
func NewReader(name string, format Format, r io.Reader) ReaderSource {
	return ReaderSource{
		name:   name,
		format: format,
		r:      r,
	}
}

// Load implements the Source interface.
func (src ReaderSource) Load() (_ Layer, err error) {
	defer try.Close(&err, src.r)
	return parse(src.name, src.format, src.r)
}

func parse(name string, format Format, r io.Reader) (Layer, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(name, r)
	case FormatYAML:
		return ParseYAML(name, r)
	default:
		return ParseINI(name, r)
	}
}

// MapSource loads a layer from an in-memory nested map. It is meant for
// built-in defaults shipped with a pipeline.
type MapSource struct {
	name     string
	sections map[string]map[string]string
}

// NewMap returns a Source backed by the given section map. Sections and
// keys iterate in lexical order since the map carries no declaration
// order of its own.
func NewMap(name string, sections map[string]map[string]string) MapSource {
	return MapSource{
		name:     name,
		sections: sections,
	}
}

// Load implements the Source interface.
func (src MapSource) Load() (Layer, error) {
	b := newLayerBuilder(src.name)

	names := make([]string, 0, len(src.sections))
	for name := range src.sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		keys := make([]string, 0, len(src.sections[name]))
		for key := range src.sections[name] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			err := b.set(name, key, src.sections[name][key])
			if err != nil {
				return Layer{}, err
			}
		}
	}
	return b.layer(), nil
}

// UnknownFormatError occurs when a source path carries an extension no
// parser is registered for.
type UnknownFormatError struct {
	Path string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("no layer format known for %q", e.Path)
}

func sniffFormat(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".ini", ".cfg", ".conf":
		return FormatINI, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatINI, UnknownFormatError{Path: p}
	}
}
