package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *ProgramState {
	return &ProgramState{
		ClearColor:        mgl32.Vec3{0.1, 0.2, 0.3},
		PanelEnabled:      true,
		CameraPosition:    mgl32.Vec3{1.5, -2, 17.25},
		CameraFront:       mgl32.Vec3{0, 0.5, -0.75},
		CameraMouseUpdate: false,
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	for _, name := range []string{"program_state.yaml", "program_state.txt"} {
		s, err := Load(filepath.Join(t.TempDir(), name))
		require.NoError(t, err, name)
		assert.Equal(t, Default(), s, name)
	}
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, Default().CameraPosition)
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")
	require.NoError(t, sample().Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestTextFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program_state.txt")
	require.NoError(t, sample().Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.1\n0.2\n0.3\n1\n1.5\n-2\n17.25\n0\n0.5\n-0.75\n", string(data))

	got, err := Load(path)
	require.NoError(t, err)
	want := sample()
	want.CameraMouseUpdate = true // not stored, keeps the default
	assert.Equal(t, want, got)
}

func TestTextFormatAcceptsAnyWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program_state.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0 0 0\n1 2 3   0 0 -1"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.False(t, got.PanelEnabled)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.CameraPosition)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"short.txt", "0 0 0 1 1 2", "camera position: unexpected end of file"},
		{"flag.txt", "0 0 0 yes 0 0 0 0 0 0", "panel flag"},
		{"nan.txt", "0 x 0 1 0 0 0 0 0 0", "clear color"},
		{"bad.yaml", "clear_color: {r: 1}\n", "decode state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			s, err := Load(path)
			assert.ErrorContains(t, err, tt.errMsg)
			assert.Equal(t, Default(), s, "defaults on error")
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}
