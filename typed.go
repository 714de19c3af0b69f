// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/jsonc"
)

// InvalidStructuredValueError occurs when typed access is requested on
// a resolved value whose content does not parse as the requested shape.
// Raw and resolved access to the same key are unaffected. Offset is the
// byte position of the syntax error when known.
type InvalidStructuredValueError struct {
	Ref    Ref
	Offset int64
	Cause  error
}

// Error implements the error interface.
func (e InvalidStructuredValueError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("value of %s is not a valid structured literal at offset %d: %s", e.Ref, e.Offset, e.Cause)
	}
	return fmt.Sprintf("value of %s is not a valid structured literal: %s", e.Ref, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidStructuredValueError) Unwrap() error {
	return e.Cause
}

// Typed resolves (section, key) and parses the whole resolved value as
// a JSON document: object, array, string, number, boolean or null.
// Comments and trailing commas are tolerated. Placeholders inside the
// literal's string fields are already substituted by the time parsing
// happens, so the literal's own syntax is never subject to placeholder
// scanning.
func (c *Config) Typed(section, key string) (any, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return nil, err
	}

	var v any
	err = json.Unmarshal(jsonc.ToJSON([]byte(s)), &v)
	if err != nil {
		e := InvalidStructuredValueError{
			Ref:   Ref{Section: section, Key: key},
			Cause: err,
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			e.Offset = syntaxErr.Offset
		}
		return nil, e
	}
	return v, nil
}

// Unmarshal resolves (section, key), parses it as a structured literal
// and decodes the result into v. Struct fields are matched via the
// "config" tag.
func (c *Config) Unmarshal(section, key string, v any) error {
	t, err := c.Typed(section, key)
	if err != nil {
		return err
	}
	return decode(t, v)
}

// UnmarshalSection resolves every key of the given section and decodes
// the section into v, typically a struct with "config" tags. Scalar
// fields are coerced from their string form; fields with map or slice
// types are parsed from JSON literals.
func (c *Config) UnmarshalSection(section string, v any) error {
	if _, ok := c.values[section]; !ok {
		return NotFoundError{Ref: Ref{Section: section}}
	}

	keys := c.keys[section]
	m := make(map[string]any, len(keys))
	for _, key := range keys {
		s, err := c.Resolved(section, key)
		if err != nil {
			return err
		}
		m[key] = s
	}
	return decode(m, v)
}

func decode(from, to any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           to,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonLiteralHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(from)
}

// jsonLiteralHookFunc parses string values into map or slice typed
// fields so a section can be decoded even when some of its values are
// embedded JSON documents.
func jsonLiteralHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t.Kind() != reflect.Map && t.Kind() != reflect.Slice {
			return data, nil
		}
		out := reflect.New(t).Interface()
		err := json.Unmarshal(jsonc.ToJSON([]byte(data.(string))), out)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(out).Elem().Interface(), nil
	}
}

// Int resolves (section, key) and parses it as a base-10 integer.
func (c *Config) Int(section, key string) (int, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, InvalidStructuredValueError{Ref: Ref{Section: section, Key: key}, Cause: err}
	}
	return n, nil
}

// Float resolves (section, key) and parses it as a float.
func (c *Config) Float(section, key string) (float64, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, InvalidStructuredValueError{Ref: Ref{Section: section, Key: key}, Cause: err}
	}
	return f, nil
}

// Bool resolves (section, key) and parses it as a boolean. The accepted
// spellings are those of strconv.ParseBool.
func (c *Config) Bool(section, key string) (bool, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, InvalidStructuredValueError{Ref: Ref{Section: section, Key: key}, Cause: err}
	}
	return b, nil
}

// Duration resolves (section, key) and parses it with
// time.ParseDuration.
func (c *Config) Duration(section, key string) (time.Duration, error) {
	s, err := c.Resolved(section, key)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, InvalidStructuredValueError{Ref: Ref{Section: section, Key: key}, Cause: err}
	}
	return d, nil
}
