// Package state persists the program state between runs.
package state

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// ProgramState is what survives a restart: background color, panel
// visibility and the camera pose.
type ProgramState struct {
	ClearColor        mgl32.Vec3 `yaml:"clear_color"`
	PanelEnabled      bool       `yaml:"panel_enabled"`
	CameraPosition    mgl32.Vec3 `yaml:"camera_position"`
	CameraFront       mgl32.Vec3 `yaml:"camera_front"`
	CameraMouseUpdate bool       `yaml:"camera_mouse_update"`
}

// Default is the state used when no file exists.
func Default() *ProgramState {
	return &ProgramState{
		CameraPosition:    mgl32.Vec3{0, 0, 3},
		CameraFront:       mgl32.Vec3{0, 0, -1},
		CameraMouseUpdate: true,
	}
}

// legacy reports whether path uses the line-per-value text format.
func legacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// Load reads the state from path. A missing file is not an error and yields
// Default. The format follows the extension: ".txt" is the line-per-value
// format, anything else YAML.
func Load(path string) (*ProgramState, error) {
	s := Default()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("open state: %w", err)
	}
	defer f.Close()

	if legacy(path) {
		err = s.readText(f)
	} else {
		err = yaml.NewDecoder(f).Decode(s)
		if errors.Is(err, io.EOF) {
			err = nil // empty file
		}
	}
	if err != nil {
		return Default(), fmt.Errorf("decode state %s: %w", path, err)
	}
	return s, nil
}

// Save writes the state to path, creating the directory if needed.
func (s *ProgramState) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}

	if legacy(path) {
		err = s.writeText(f)
	} else {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		err = enc.Encode(s)
		if err == nil {
			err = enc.Close()
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}

// ── Line-per-value format ─────────────────────────────────────────────────────
//
// clear r, g, b / panel flag (0 or 1) / position x, y, z / front x, y, z,
// one whitespace-separated value each. The mouse-update flag is not stored.

func (s *ProgramState) writeText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	vec := func(v mgl32.Vec3) {
		for _, c := range v {
			bw.WriteString(strconv.FormatFloat(float64(c), 'g', -1, 32))
			bw.WriteByte('\n')
		}
	}
	vec(s.ClearColor)
	if s.PanelEnabled {
		bw.WriteString("1\n")
	} else {
		bw.WriteString("0\n")
	}
	vec(s.CameraPosition)
	vec(s.CameraFront)
	return bw.Flush()
}

func (s *ProgramState) readText(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%s: unexpected end of file", what)
		}
		return sc.Text(), nil
	}
	vec := func(what string, dst *mgl32.Vec3) error {
		var v mgl32.Vec3
		for i := range v {
			tok, err := next(what)
			if err != nil {
				return err
			}
			f, err := strconv.ParseFloat(tok, 32)
			if err != nil {
				return fmt.Errorf("%s: %w", what, err)
			}
			v[i] = float32(f)
		}
		*dst = v
		return nil
	}

	if err := vec("clear color", &s.ClearColor); err != nil {
		return err
	}
	tok, err := next("panel flag")
	if err != nil {
		return err
	}
	switch tok {
	case "0":
		s.PanelEnabled = false
	case "1":
		s.PanelEnabled = true
	default:
		return fmt.Errorf("panel flag: want 0 or 1, got %q", tok)
	}
	if err := vec("camera position", &s.CameraPosition); err != nil {
		return err
	}
	return vec("camera front", &s.CameraFront)
}
