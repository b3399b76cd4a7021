package opengl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

// Shader is a linked GLSL program with a uniform location cache. Shaders
// loaded from a directory remember their file paths so they can be reloaded.
type Shader struct {
	ID   uint32
	Name string

	vertPath string
	fragPath string

	uniformCache map[string]int32
}

// ShaderFiles returns the override paths for a named shader in dir.
func ShaderFiles(dir, name string) (vert, frag string) {
	return filepath.Join(dir, name+".vs"), filepath.Join(dir, name+".fs")
}

// resolveSource reads the <name>.vs / <name>.fs pair from dir. When neither
// file exists the built-in source is used and fromFiles is false. A pair
// with only one half on disk takes the other half from the built-in.
func resolveSource(dir, name string) (vert, frag string, fromFiles bool, err error) {
	builtin, ok := builtinShaders[name]
	if !ok {
		return "", "", false, fmt.Errorf("unknown shader %q", name)
	}
	vert, frag = builtin.vert, builtin.frag
	if dir == "" {
		return vert, frag, false, nil
	}

	vp, fp := ShaderFiles(dir, name)
	for _, f := range []struct {
		path string
		dst  *string
	}{{vp, &vert}, {fp, &frag}} {
		data, rerr := os.ReadFile(f.path)
		switch {
		case rerr == nil:
			*f.dst = string(data)
			fromFiles = true
		case errors.Is(rerr, os.ErrNotExist):
		default:
			return "", "", false, fmt.Errorf("read shader %s: %w", f.path, rerr)
		}
	}
	return vert, frag, fromFiles, nil
}

// LoadShader compiles the named shader, preferring files in dir over the
// built-in source.
func LoadShader(dir, name string) (*Shader, error) {
	vert, frag, fromFiles, err := resolveSource(dir, name)
	if err != nil {
		return nil, err
	}
	id, err := newProgram(vert, frag)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	s := &Shader{ID: id, Name: name, uniformCache: make(map[string]int32)}
	if fromFiles {
		s.vertPath, s.fragPath = ShaderFiles(dir, name)
	}
	return s, nil
}

// Reloadable reports whether the shader came from files on disk.
func (s *Shader) Reloadable() bool { return s.vertPath != "" }

// Reload recompiles the shader from disk. On failure the previous program
// stays bound so a typo in a shader file does not blank the frame.
func (s *Shader) Reload() error {
	if !s.Reloadable() {
		return fmt.Errorf("shader %s has no source files", s.Name)
	}
	vert, frag, _, err := resolveSource(filepath.Dir(s.vertPath), s.Name)
	if err != nil {
		return err
	}
	id, err := newProgram(vert, frag)
	if err != nil {
		return fmt.Errorf("reload shader %s: %w", s.Name, err)
	}
	gl.DeleteProgram(s.ID)
	s.ID = id
	s.uniformCache = make(map[string]int32)
	return nil
}

func (s *Shader) Use() { gl.UseProgram(s.ID) }

func (s *Shader) Delete() {
	if s.ID != 0 {
		gl.DeleteProgram(s.ID)
		s.ID = 0
	}
}

func (s *Shader) location(name string) int32 {
	if loc, ok := s.uniformCache[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.uniformCache[name] = loc
	return loc
}

func (s *Shader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(s.location(name), i)
}

func (s *Shader) SetInt(name string, v int32)     { gl.Uniform1i(s.location(name), v) }
func (s *Shader) SetFloat(name string, v float32) { gl.Uniform1f(s.location(name), v) }

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(s.location(name), v[0], v[1], v[2])
}

func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

// ── Compilation ───────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(nullTerminated(src))
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func nullTerminated(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// ── Hot reload ────────────────────────────────────────────────────────────────

// ShaderWatcher watches shader source files. The watch goroutine only queues
// the affected shaders; Drain recompiles them and must run on the thread that
// owns the GL context, between frames.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu      sync.Mutex
	byPath  map[string]*Shader
	pending map[*Shader]struct{}

	notify chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewShaderWatcher starts watching. Call Close to stop.
func NewShaderWatcher(log zerolog.Logger) (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader watcher: %w", err)
	}
	sw := &ShaderWatcher{
		watcher: w,
		log:     log,
		byPath:  make(map[string]*Shader),
		pending: make(map[*Shader]struct{}),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.loop()
	return sw, nil
}

// Watch registers s for reload. Shaders without source files are ignored.
func (sw *ShaderWatcher) Watch(s *Shader) error {
	if !s.Reloadable() {
		return nil
	}
	sw.mu.Lock()
	defer sw.mu.Unlock()
	for _, p := range []string{s.vertPath, s.fragPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		sw.byPath[abs] = s
	}
	// Editors replace files on save; watching the directory survives that.
	return sw.watcher.Add(filepath.Dir(s.vertPath))
}

func (sw *ShaderWatcher) loop() {
	defer sw.wg.Done()
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			sw.queue(ev.Name)
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.log.Warn().Err(err).Msg("shader watcher error")
		case <-sw.done:
			return
		}
	}
}

func (sw *ShaderWatcher) queue(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	sw.mu.Lock()
	s, ok := sw.byPath[abs]
	if ok {
		sw.pending[s] = struct{}{}
	}
	sw.mu.Unlock()
	if !ok {
		return
	}
	select {
	case sw.notify <- struct{}{}:
	default:
	}
}

// take removes and returns the queued shaders.
func (sw *ShaderWatcher) take() []*Shader {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.pending) == 0 {
		return nil
	}
	out := make([]*Shader, 0, len(sw.pending))
	for s := range sw.pending {
		out = append(out, s)
	}
	sw.pending = make(map[*Shader]struct{})
	return out
}

// Drain reloads every queued shader and returns how many succeeded.
func (sw *ShaderWatcher) Drain() int {
	n := 0
	for _, s := range sw.take() {
		if err := s.Reload(); err != nil {
			sw.log.Error().Err(err).Str("shader", s.Name).Msg("shader reload failed, keeping previous program")
			continue
		}
		sw.log.Info().Str("shader", s.Name).Msg("shader reloaded")
		n++
	}
	return n
}

func (sw *ShaderWatcher) Close() error {
	close(sw.done)
	err := sw.watcher.Close()
	sw.wg.Wait()
	return err
}
