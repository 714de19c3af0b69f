// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	t.Run("will order sections and keys lexically", func(t *testing.T) {
		l, err := NewMap("defaults", map[string]map[string]string{
			"train": {
				"batch_size_fit": "6",
				"image_size":     "512",
			},
			"dirs": {
				"projects_dir": "..",
			},
		}).Load()
		require.NoError(t, err)

		sections := l.Sections()
		require.Len(t, sections, 2)
		require.Equal(t, "dirs", sections[0].Name())
		require.Equal(t, "train", sections[1].Name())
		require.Equal(t, []string{"batch_size_fit", "image_size"}, sections[1].Keys())
	})
}

func TestEnv(t *testing.T) {
	environ := func() []string {
		return []string{
			"ORTHO_TRAIN__BATCH_SIZE_FIT=2",
			"ORTHO_GENERAL__SEGMENT_SUBJECT=roads",
			"ORTHO_MALFORMED=nope",
			"OTHER_TRAIN__BATCH_SIZE_FIT=99",
			"NOT_EVEN_A_PAIR",
		}
	}

	t.Run("will map PREFIX_SECTION__KEY pairs", func(t *testing.T) {
		src := Env("ORTHO")
		src.environ = environ

		l, err := src.Load()
		require.NoError(t, err)

		sections := l.Sections()
		require.Len(t, sections, 2)
		require.Equal(t, "general", sections[0].Name())
		require.Equal(t, "train", sections[1].Name())

		v, ok := sections[1].Value("batch_size_fit")
		require.True(t, ok)
		require.Equal(t, "2", v)
	})

	t.Run("will ignore variables without the prefix or separator", func(t *testing.T) {
		src := Env("ORTHO_")
		src.environ = func() []string {
			return []string{"ORTHO_MALFORMED=nope", "UNRELATED=1"}
		}

		l, err := src.Load()
		require.NoError(t, err)
		require.True(t, l.Empty())
	})
}

func TestNewReader(t *testing.T) {
	t.Run("will parse with the given format", func(t *testing.T) {
		src := NewReader("inline", FormatINI, strings.NewReader("[a]\nx = 1\n"))

		l, err := src.Load()
		require.NoError(t, err)
		require.Equal(t, "inline", l.Name())

		v, ok := l.Sections()[0].Value("x")
		require.True(t, ok)
		require.Equal(t, "1", v)
	})
}

func TestSniffFormat(t *testing.T) {
	testCases := []struct {
		path   string
		format Format
	}{
		{path: "general.ini", format: FormatINI},
		{path: "general.cfg", format: FormatINI},
		{path: "project.JSON", format: FormatJSON},
		{path: "project.jsonc", format: FormatJSON},
		{path: "project.yaml", format: FormatYAML},
		{path: "project.yml", format: FormatYAML},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			f, err := sniffFormat(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.format, f)
		})
	}

	t.Run("will fail on an unknown extension", func(t *testing.T) {
		_, err := sniffFormat("project.toml")

		var uerr UnknownFormatError
		require.ErrorAs(t, err, &uerr)
		require.Equal(t, "project.toml", uerr.Path)
	})
}
