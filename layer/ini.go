// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"bufio"
	"io"
	"strings"
)

// ParseINI parses an INI-style layer:
//
//	[section]
//	key = value
//	other: value
//	multiline = first line
//	    continuation line
//
// Keys are delimited from values by the first '=' or ':' on the line.
// Lines indented below a key are appended to its value, joined with
// newlines, which is how structured JSON literals span several lines.
// Lines starting with '#' or ';' in the first column are comments.
//
// A duplicate key within a section, or a duplicate section header, is a
// MalformedSourceError: repeating a key inside one source is ambiguous
// authoring, never a silent last-wins.
func ParseINI(name string, r io.Reader) (Layer, error) {
	b := newLayerBuilder(name)

	var section string
	sectionIdx := -1
	haveKey := false

	malformed := func(line int, text, reason string) (Layer, error) {
		return Layer{}, MalformedSourceError{
			Source: name,
			Line:   line,
			Text:   text,
			Reason: reason,
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if line[0] == '#' || line[0] == ';' {
			continue
		}

		// Indented lines continue the value of the previous key.
		if line[0] == ' ' || line[0] == '\t' {
			if !haveKey {
				return malformed(lineNo, line, "continuation line with no preceding key")
			}
			b.appendTo(sectionIdx, trimmed)
			continue
		}

		if line[0] == '[' {
			end := strings.IndexByte(trimmed, ']')
			if end < 0 {
				return malformed(lineNo, line, "unterminated section header")
			}
			if end != len(trimmed)-1 {
				return malformed(lineNo, line, "trailing characters after section header")
			}
			section = strings.TrimSpace(trimmed[1:end])
			if section == "" {
				return malformed(lineNo, line, "empty section name")
			}
			err := b.addSection(section)
			if err != nil {
				return malformed(lineNo, line, err.Error())
			}
			sectionIdx = b.index[section]
			haveKey = false
			continue
		}

		if section == "" {
			return malformed(lineNo, line, "key/value pair outside of any section")
		}

		delim := strings.IndexAny(line, "=:")
		if delim < 0 {
			return malformed(lineNo, line, "expected 'key = value'")
		}
		key := strings.TrimSpace(line[:delim])
		if key == "" {
			return malformed(lineNo, line, "empty key")
		}
		value := strings.TrimSpace(line[delim+1:])

		err := b.set(section, key, value)
		if err != nil {
			return malformed(lineNo, line, err.Error())
		}
		haveKey = true
	}
	if err := sc.Err(); err != nil {
		return Layer{}, SourceUnavailableError{Source: name, Cause: err}
	}
	return b.layer(), nil
}
