package hdr

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Image is a float32 RGBA buffer, row-major from the bottom row like a GL
// texture.
type Image struct {
	Width  int
	Height int
	Pix    []mgl32.Vec4
}

// NewImage allocates a black, fully transparent image.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]mgl32.Vec4, width*height)}
}

// At samples with clamp-to-edge addressing.
func (im *Image) At(x, y int) mgl32.Vec4 {
	x = clampInt(x, 0, im.Width-1)
	y = clampInt(y, 0, im.Height-1)
	return im.Pix[y*im.Width+x]
}

// Set writes one pixel; out-of-range coordinates are ignored.
func (im *Image) Set(x, y int, c mgl32.Vec4) {
	if x < 0 || y < 0 || x >= im.Width || y >= im.Height {
		return
	}
	im.Pix[y*im.Width+x] = c
}

// Fill sets every pixel to c.
func (im *Image) Fill(c mgl32.Vec4) {
	for i := range im.Pix {
		im.Pix[i] = c
	}
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Width: im.Width, Height: im.Height, Pix: make([]mgl32.Vec4, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BlurCall records one BlurPass issued to the software backend.
type BlurCall struct {
	Dst        TextureID
	Src        TextureID
	Horizontal bool
}

// Software is a CPU Backend. It runs the same blur kernel and tone map as the
// GL shaders, which makes the pipeline testable without a context.
type Software struct {
	textures map[TextureID]*Image
	nextID   uint32
	bound    *SceneTarget

	// Screen is the default framebuffer, written by Composite.
	Screen *Image

	// Blurs records every blur pass in order.
	Blurs []BlurCall
	// Composites counts composite passes.
	Composites int
	// QuadsCreated counts CreateQuad calls.
	QuadsCreated int

	// Failure injection: report the scene target, the n-th (1-based) blur
	// target, or the quad as incomplete.
	FailSceneTarget bool
	FailBlurTarget  int
	FailQuad        bool

	blurTargets int
	live        int
}

// NewSoftware returns an empty software backend.
func NewSoftware() *Software {
	return &Software{textures: make(map[TextureID]*Image)}
}

var _ Backend = (*Software)(nil)

func (s *Software) newTexture(width, height int) TextureID {
	s.nextID++
	id := TextureID(s.nextID)
	s.textures[id] = NewImage(width, height)
	return id
}

func (s *Software) deleteTexture(id TextureID) {
	delete(s.textures, id)
}

// Texture returns the image behind id, or nil.
func (s *Software) Texture(id TextureID) *Image {
	return s.textures[id]
}

// Live returns the number of targets and quads created and not yet destroyed.
func (s *Software) Live() int { return s.live }

func (s *Software) CreateSceneTarget(width, height int) (SceneTarget, error) {
	if s.FailSceneTarget {
		return SceneTarget{}, fmt.Errorf("%w: software scene target", ErrFramebufferIncomplete)
	}
	s.nextID++
	t := SceneTarget{
		FBO:    s.nextID,
		Color:  s.newTexture(width, height),
		Bright: s.newTexture(width, height),
		Width:  width,
		Height: height,
	}
	s.live++
	return t, nil
}

func (s *Software) CreateBlurTarget(width, height int) (BlurTarget, error) {
	s.blurTargets++
	if s.FailBlurTarget == s.blurTargets {
		return BlurTarget{}, fmt.Errorf("%w: software blur target %d", ErrFramebufferIncomplete, s.blurTargets)
	}
	s.nextID++
	t := BlurTarget{FBO: s.nextID, Color: s.newTexture(width, height)}
	s.live++
	return t, nil
}

func (s *Software) CreateQuad() (Quad, error) {
	if s.FailQuad {
		return Quad{}, errors.New("failed to create software quad: out of buffers")
	}
	s.QuadsCreated++
	s.nextID++
	s.live++
	return Quad{VAO: s.nextID}, nil
}

func (s *Software) BindScene(t SceneTarget, clear mgl32.Vec3) {
	if img := s.textures[t.Color]; img != nil {
		img.Fill(clear.Vec4(1))
	}
	if img := s.textures[t.Bright]; img != nil {
		img.Fill(mgl32.Vec4{})
	}
	bound := t
	s.bound = &bound
}

// DrawSolid emulates a full-screen draw of an unlit color into the bound
// scene target: the color goes to attachment 0 and, when its luminance
// exceeds threshold, to the bright-pass attachment too.
func (s *Software) DrawSolid(c mgl32.Vec3, threshold float32) {
	if s.bound == nil {
		return
	}
	scene, bright := s.textures[s.bound.Color], s.textures[s.bound.Bright]
	scene.Fill(c.Vec4(1))
	if Luminance(c) > threshold {
		bright.Fill(c.Vec4(1))
	} else {
		bright.Fill(mgl32.Vec4{0, 0, 0, 1})
	}
}

// DrawPixel emulates a draw covering a single fragment.
func (s *Software) DrawPixel(x, y int, c mgl32.Vec3, threshold float32) {
	if s.bound == nil {
		return
	}
	s.textures[s.bound.Color].Set(x, y, c.Vec4(1))
	if Luminance(c) > threshold {
		s.textures[s.bound.Bright].Set(x, y, c.Vec4(1))
	}
}

func (s *Software) BlurPass(dst BlurTarget, src TextureID, horizontal bool, q Quad) {
	s.bound = nil
	s.Blurs = append(s.Blurs, BlurCall{Dst: dst.Color, Src: src, Horizontal: horizontal})

	out := s.textures[dst.Color]
	in := s.textures[src]
	if out == nil {
		return
	}
	if in == nil {
		out.Fill(mgl32.Vec4{})
		return
	}
	GaussianBlur(out, in, horizontal)
}

func (s *Software) Composite(scene, bloom TextureID, st Settings, q Quad) {
	s.bound = nil
	s.Composites++

	in := s.textures[scene]
	if in == nil {
		return
	}
	blurred := s.textures[bloom]
	if s.Screen == nil || s.Screen.Width != in.Width || s.Screen.Height != in.Height {
		s.Screen = NewImage(in.Width, in.Height)
	}
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			hdr := in.At(x, y).Vec3()
			if st.Bloom && blurred != nil {
				hdr = hdr.Add(blurred.At(x, y).Vec3().Mul(st.BloomStrength))
			}
			s.Screen.Set(x, y, ToneMap(hdr, st).Vec4(1))
		}
	}
}

func (s *Software) DestroySceneTarget(t SceneTarget) {
	if _, ok := s.textures[t.Color]; !ok {
		return
	}
	s.deleteTexture(t.Color)
	s.deleteTexture(t.Bright)
	if s.bound != nil && s.bound.FBO == t.FBO {
		s.bound = nil
	}
	s.live--
}

func (s *Software) DestroyBlurTarget(t BlurTarget) {
	if _, ok := s.textures[t.Color]; !ok {
		return
	}
	s.deleteTexture(t.Color)
	s.live--
}

func (s *Software) DestroyQuad(q Quad) {
	if q.VAO == 0 {
		return
	}
	s.live--
}

// GaussianBlur writes one axis of the separable 9-tap Gaussian of in into
// out. Both images must have the same size.
func GaussianBlur(out, in *Image, horizontal bool) {
	dx, dy := 0, 1
	if horizontal {
		dx, dy = 1, 0
	}
	for y := 0; y < in.Height; y++ {
		for x := 0; x < in.Width; x++ {
			sum := in.At(x, y).Vec3().Mul(GaussianWeights[0])
			for i := 1; i < len(GaussianWeights); i++ {
				w := GaussianWeights[i]
				sum = sum.Add(in.At(x+i*dx, y+i*dy).Vec3().Mul(w))
				sum = sum.Add(in.At(x-i*dx, y-i*dy).Vec3().Mul(w))
			}
			out.Set(x, y, sum.Vec4(1))
		}
	}
}

// ToneMap applies exposure mapping 1 - exp(-hdr * exposure) followed by the
// optional gamma curve.
func ToneMap(hdr mgl32.Vec3, s Settings) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range hdr {
		v := 1 - math.Exp(-float64(hdr[i])*float64(s.Exposure))
		if s.EncodesGamma() {
			v = math.Pow(v, 1/float64(s.Gamma))
		}
		out[i] = float32(v)
	}
	return out
}

// Luminance is the Rec. 709 luma used for the bright-pass threshold.
func Luminance(c mgl32.Vec3) float32 {
	return c.Dot(mgl32.Vec3{0.2126, 0.7152, 0.0722})
}
