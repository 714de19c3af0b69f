// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"os"
	"sort"
	"strings"
)

// EnvSource loads a layer from the process environment. It is meant to
// sit last in the stack for machine-specific values, e.g. a GPU bound
// batch size, without editing any file.
type EnvSource struct {
	prefix  string
	environ func() []string
}

// Env returns a Source which maps environment variables of the form
//
//	PREFIX_SECTION__KEY=value
//
// to (section, key) pairs. Section and key are lowercased; the double
// underscore separates them so keys may themselves contain single
// underscores. Variables without the prefix are ignored.
func Env(prefix string) EnvSource {
	return EnvSource{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Load implements the Source interface.
func (src EnvSource) Load() (Layer, error) {
	prefix := src.prefix
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}

	pairs := make(map[string]map[string]string)
	for _, kv := range src.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.TrimPrefix(name, prefix), "__")
		if !ok || section == "" || key == "" {
			continue
		}
		section = strings.ToLower(section)
		key = strings.ToLower(key)
		if _, ok := pairs[section]; !ok {
			pairs[section] = make(map[string]string)
		}
		pairs[section][key] = value
	}

	b := newLayerBuilder("env:" + src.prefix)

	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		keys := make([]string, 0, len(pairs[name]))
		for key := range pairs[name] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			err := b.set(name, key, pairs[name][key])
			if err != nil {
				return Layer{}, err
			}
		}
	}
	return b.layer(), nil
}
