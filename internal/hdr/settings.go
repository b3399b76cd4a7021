package hdr

// Settings are the per-frame HDR/bloom parameters. The frame loop owns them
// and changes them only between frames.
type Settings struct {
	Exposure      float32 // tone-mapping exposure, 1 - exp(-hdr * Exposure)
	Bloom         bool    // add the blurred bright-pass to the scene before tone mapping
	BloomStrength float32 // multiplier on the blurred contribution
	BlurPasses    int     // single-direction blur passes; 0 skips blurring
	Gamma         float32 // display gamma; 0 or 1 leaves the tone-mapped value linear
	Threshold     float32 // luminance above which scene shaders write the bright-pass
}

// DefaultBlurPasses is the number of alternating H/V blur passes per frame.
const DefaultBlurPasses = 10

// DefaultSettings returns the values the demo starts with.
func DefaultSettings() Settings {
	return Settings{
		Exposure:      0.5,
		Bloom:         true,
		BloomStrength: 1.0,
		BlurPasses:    DefaultBlurPasses,
		Gamma:         2.2,
		Threshold:     1.0,
	}
}

// passes clamps a negative pass count to zero.
func (s Settings) passes() int {
	if s.BlurPasses < 0 {
		return 0
	}
	return s.BlurPasses
}

// EncodesGamma reports whether the composite applies a gamma curve.
func (s Settings) EncodesGamma() bool {
	return s.Gamma > 0 && s.Gamma != 1
}
