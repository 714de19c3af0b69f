// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/tidwall/jsonc"
)

// ParseJSON parses a layer from a single JSON object mapping section
// names to objects of key/value pairs. Comments and trailing commas are
// stripped before parsing so hand-edited override files can be
// annotated. String values are taken as-is; any other value is kept as
// its compact JSON text so structured literals can be written natively
// instead of as escaped strings.
//
// JSON objects carry no declaration order, so sections and keys iterate
// in lexical order. Duplicate keys follow encoding/json semantics.
func ParseJSON(name string, r io.Reader) (Layer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layer{}, SourceUnavailableError{Source: name, Cause: err}
	}

	var sections map[string]map[string]json.RawMessage
	err = json.Unmarshal(jsonc.ToJSON(data), &sections)
	if err != nil {
		return Layer{}, MalformedSourceError{
			Source: name,
			Reason: err.Error(),
		}
	}

	flat := make(map[string]map[string]string, len(sections))
	for section, pairs := range sections {
		flat[section] = make(map[string]string, len(pairs))
		for key, raw := range pairs {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				flat[section][key] = s
				continue
			}
			var buf bytes.Buffer
			if json.Compact(&buf, raw) == nil {
				flat[section][key] = buf.String()
				continue
			}
			flat[section][key] = string(raw)
		}
	}
	return NewMap(name, flat).Load()
}
