// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stratum

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterializePath(t *testing.T) {
	abs, err := filepath.Abs(string(filepath.Separator) + filepath.Join("srv", "orthoseg"))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		value    string
		base     string
		expected string
	}{
		{
			name:     "relative value joins the base",
			value:    "../roads",
			base:     filepath.Join("projects", "config"),
			expected: filepath.Join("projects", "roads"),
		},
		{
			name:     "absolute value ignores the base",
			value:    abs,
			base:     filepath.Join("projects", "config"),
			expected: abs,
		},
		{
			name:     "absolute value is cleaned",
			value:    abs + string(filepath.Separator) + "." + string(filepath.Separator),
			base:     "anything",
			expected: abs,
		},
		{
			name:     "empty base keeps the value relative",
			value:    "../roads",
			base:     "",
			expected: filepath.Join("..", "roads"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, MaterializePath(tc.value, tc.base))
		})
	}
}

func TestConfig_Path(t *testing.T) {
	t.Run("will resolve before materializing", func(t *testing.T) {
		cfg, err := Merge(loadLayer(t, "defaults", `
[general]
segment_subject = roads

[dirs]
projects_dir = ..
project_dir = ${dirs:projects_dir}/${general:segment_subject}
`))
		require.NoError(t, err)

		p, err := cfg.Path("dirs", "project_dir", filepath.Join("srv", "projects", "config"))
		require.NoError(t, err)
		require.Equal(t, filepath.Join("srv", "projects", "roads"), p)
	})

	t.Run("will surface resolution errors unchanged", func(t *testing.T) {
		cfg, err := Merge(loadLayer(t, "defaults", `
[dirs]
project_dir = ${dirs:projects_dir}/roads
`))
		require.NoError(t, err)

		_, err = cfg.Path("dirs", "project_dir", "base")

		var uerr UnresolvedReferenceError
		require.ErrorAs(t, err, &uerr)
	})
}
