// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"errors"
	"io/fs"
	"os"

	"github.com/z5labs/stratum/internal/try"
)

// FileOption represents options for configuring a FileSource.
type FileOption func(*FileSource)

// Optional marks the file as allowed to not exist. Loading a missing
// optional file yields an empty layer instead of SourceUnavailableError,
// which is the intended behaviour for a local override file that only
// some machines carry.
func Optional() FileOption {
	return func(src *FileSource) {
		src.optional = true
	}
}

// WithFS reads the file from the given fs.FS instead of the host
// filesystem.
func WithFS(fsys fs.FS) FileOption {
	return func(src *FileSource) {
		src.fsys = fsys
	}
}

// WithFormat overrides the format sniffed from the file extension.
func WithFormat(format Format) FileOption {
	return func(src *FileSource) {
		src.format = format
		src.formatSet = true
	}
}

// FileSource loads a layer from a file, sniffing the format from the
// extension unless WithFormat is given.
type FileSource struct {
	path      string
	fsys      fs.FS
	format    Format
	formatSet bool
	optional  bool
}

// NewFile returns a Source which loads the layer from the file at path.
func NewFile(path string, opts ...FileOption) *FileSource {
	src := &FileSource{
		path: path,
	}
	for _, opt := range opts {
		opt(src)
	}
	return src
}

// Load implements the Source interface.
func (src *FileSource) Load() (_ Layer, err error) {
	format := src.format
	if !src.formatSet {
		format, err = sniffFormat(src.path)
		if err != nil {
			return Layer{}, err
		}
	}

	f, err := src.open()
	if err != nil {
		if src.optional && errors.Is(err, fs.ErrNotExist) {
			return Layer{name: src.path}, nil
		}
		return Layer{}, SourceUnavailableError{Source: src.path, Cause: err}
	}
	defer try.Close(&err, f)

	return parse(src.path, format, f)
}

func (src *FileSource) open() (fs.File, error) {
	if src.fsys != nil {
		return src.fsys.Open(src.path)
	}
	return os.Open(src.path)
}
