// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	fsys := fstest.MapFS{
		"general.ini": &fstest.MapFile{
			Data: []byte("[dirs]\nprojects_dir = ..\n"),
		},
		"project.yaml": &fstest.MapFile{
			Data: []byte("train:\n  batch_size_fit: \"2\"\n"),
		},
	}

	t.Run("will sniff the format from the extension", func(t *testing.T) {
		l, err := NewFile("general.ini", WithFS(fsys)).Load()
		require.NoError(t, err)

		v, ok := l.Sections()[0].Value("projects_dir")
		require.True(t, ok)
		require.Equal(t, "..", v)

		l, err = NewFile("project.yaml", WithFS(fsys)).Load()
		require.NoError(t, err)

		v, ok = l.Sections()[0].Value("batch_size_fit")
		require.True(t, ok)
		require.Equal(t, "2", v)
	})

	t.Run("will fail on a missing required file", func(t *testing.T) {
		_, err := NewFile("local_overrule.ini", WithFS(fsys)).Load()

		var serr SourceUnavailableError
		require.ErrorAs(t, err, &serr)
		require.Equal(t, "local_overrule.ini", serr.Source)
	})

	t.Run("will load a missing optional file as an empty layer", func(t *testing.T) {
		l, err := NewFile("local_overrule.ini", WithFS(fsys), Optional()).Load()
		require.NoError(t, err)
		require.True(t, l.Empty())
		require.Equal(t, "local_overrule.ini", l.Name())
	})

	t.Run("will fail on an unknown extension", func(t *testing.T) {
		_, err := NewFile("general.toml", WithFS(fsys)).Load()

		var uerr UnknownFormatError
		require.ErrorAs(t, err, &uerr)
	})

	t.Run("will honor an explicit format over the extension", func(t *testing.T) {
		fsys := fstest.MapFS{
			"stack.txt": &fstest.MapFile{
				Data: []byte("[a]\nx = 1\n"),
			},
		}

		l, err := NewFile("stack.txt", WithFS(fsys), WithFormat(FormatINI)).Load()
		require.NoError(t, err)
		require.False(t, l.Empty())
	})
}
