package scene

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels []byte
	// Channels is the channel count of the source image (1, 3 or 4).
	// Four-channel textures are sampled clamp-to-edge so transparent borders
	// do not bleed in from the opposite edge.
	Channels int
	// GLID is the OpenGL texture object ID, set by opengl.UploadTexture.
	GLID uint32
}

// HasAlpha reports whether the source image carried an alpha channel.
func (t *Texture) HasAlpha() bool { return t.Channels == 4 }

// LoadTexture reads a PNG, JPEG, BMP, TIFF or WebP file and returns a
// CPU-side Texture converted to RGBA8.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	tex, err := decodeTexture(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return tex, nil
}

func decodeImageBytes(name string, data []byte) (*Texture, error) {
	return decodeTexture(name, bytes.NewReader(data))
}

func decodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Texture{
		Name:     name,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Pixels:   rgba.Pix,
		Channels: channelCount(img),
	}, nil
}

func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// NewSolidTexture creates a 1x1 texture with the given RGBA color values (0–255).
func NewSolidTexture(name string, r, g, b, a uint8) *Texture {
	return &Texture{
		Name:     name,
		Width:    1,
		Height:   1,
		Pixels:   []byte{r, g, b, a},
		Channels: 4,
	}
}

// Cubemap holds the six faces in GL order: +X, -X, +Y, -Y, +Z, -Z.
type Cubemap struct {
	Faces [6]*Texture
	GLID  uint32
}

// LoadCubemap loads six face images. All faces must share one size.
func LoadCubemap(paths [6]string) (*Cubemap, error) {
	cm := &Cubemap{}
	for i, p := range paths {
		tex, err := LoadTexture(p)
		if err != nil {
			return nil, fmt.Errorf("cubemap face %d: %w", i, err)
		}
		if i > 0 && (tex.Width != cm.Faces[0].Width || tex.Height != cm.Faces[0].Height) {
			return nil, fmt.Errorf("cubemap face %d is %dx%d, want %dx%d",
				i, tex.Width, tex.Height, cm.Faces[0].Width, cm.Faces[0].Height)
		}
		cm.Faces[i] = tex
	}
	return cm, nil
}

// UniformCubemap uses one image for every face.
func UniformCubemap(path string) [6]string {
	return [6]string{path, path, path, path, path, path}
}
