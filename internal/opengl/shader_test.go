package opengl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSourceBuiltin(t *testing.T) {
	vert, frag, fromFiles, err := resolveSource("", ShaderBlur)
	require.NoError(t, err)
	assert.False(t, fromFiles)
	assert.Equal(t, quadVertSrc, vert)
	assert.Equal(t, blurFragSrc, frag)

	_, _, fromFiles, err = resolveSource(t.TempDir(), ShaderComposite)
	require.NoError(t, err)
	assert.False(t, fromFiles, "empty directory falls back to built-ins")

	_, _, _, err = resolveSource("", "ssao")
	assert.ErrorContains(t, err, "unknown shader")
}

func TestResolveSourceOverrides(t *testing.T) {
	dir := t.TempDir()
	_, fp := ShaderFiles(dir, ShaderGrass)
	require.NoError(t, os.WriteFile(fp, []byte("// custom grass"), 0o644))

	vert, frag, fromFiles, err := resolveSource(dir, ShaderGrass)
	require.NoError(t, err)
	assert.True(t, fromFiles)
	assert.Equal(t, modelVertSrc, vert, "missing half comes from the built-in")
	assert.Equal(t, "// custom grass", frag)
}

func TestShaderFiles(t *testing.T) {
	vp, fp := ShaderFiles("res/shaders", "bloom")
	assert.Equal(t, filepath.Join("res/shaders", "bloom.vs"), vp)
	assert.Equal(t, filepath.Join("res/shaders", "bloom.fs"), fp)
}

func TestBuiltinShadersComplete(t *testing.T) {
	for _, name := range shaderOrder {
		src, ok := builtinShaders[name]
		require.True(t, ok, name)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(src.vert), "#version 410 core"), name)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(src.frag), "#version 410 core"), name)
	}
	assert.Len(t, builtinShaders, len(shaderOrder))

	// every scene-pass program writes both attachments
	for _, name := range []string{ShaderModel, ShaderMoon, ShaderFirefly, ShaderGrass, ShaderSkybox} {
		assert.Contains(t, builtinShaders[name].frag, "layout (location = 1) out vec4 BrightColor", name)
	}
}

func TestNullTerminated(t *testing.T) {
	assert.Equal(t, "abc\x00", nullTerminated("abc"))
	assert.Equal(t, "abc\x00", nullTerminated("abc\x00"))
}

func TestSkyViewDropsTranslation(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{5, 2, 9}, mgl32.Vec3{5, 2, 8}, mgl32.Vec3{0, 1, 0})
	sky := SkyView(view)
	assert.Equal(t, float32(0), sky.At(0, 3))
	assert.Equal(t, float32(0), sky.At(1, 3))
	assert.Equal(t, float32(0), sky.At(2, 3))
	assert.Equal(t, float32(1), sky.At(3, 3))
	assert.Equal(t, view.At(0, 0), sky.At(0, 0))
}

func TestShaderWatcherQueuesChangedShaders(t *testing.T) {
	dir := t.TempDir()
	vp, fp := ShaderFiles(dir, ShaderModel)
	require.NoError(t, os.WriteFile(vp, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte("f1"), 0o644))

	sw, err := NewShaderWatcher(zerolog.Nop())
	require.NoError(t, err)
	defer sw.Close()

	s := &Shader{Name: ShaderModel, vertPath: vp, fragPath: fp}
	require.NoError(t, sw.Watch(s))
	require.NoError(t, sw.Watch(&Shader{Name: ShaderBlur}), "built-in shaders are ignored")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte("f2"), 0o644))

	select {
	case <-sw.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload queued")
	}
	assert.Eventually(t, func() bool {
		sw.mu.Lock()
		defer sw.mu.Unlock()
		_, ok := sw.pending[s]
		return ok
	}, time.Second, 10*time.Millisecond)

	got := sw.take()
	assert.Equal(t, []*Shader{s}, got)
	assert.Empty(t, sw.take(), "take drains the queue")
}
