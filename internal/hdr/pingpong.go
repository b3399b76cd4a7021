package hdr

// PingPong holds the two blur targets. parity indexes the buffer holding the
// latest result; every pass writes other() and then swaps.
type PingPong struct {
	targets [2]BlurTarget
	parity  int
}

func (pp *PingPong) current() BlurTarget { return pp.targets[pp.parity] }
func (pp *PingPong) other() BlurTarget   { return pp.targets[pp.parity^1] }

func (pp *PingPong) swap()  { pp.parity ^= 1 }
func (pp *PingPong) reset() { pp.parity = 0 }

// Index returns the slot that holds the most recent blur result.
func (pp *PingPong) Index() int { return pp.parity }

// run blurs src for n passes, alternating horizontal and vertical starting
// horizontal, and returns the texture holding the result. The first pass
// reads src; each later pass reads what the previous one wrote. With n == 0
// src is returned untouched.
func (pp *PingPong) run(b Backend, src TextureID, n int, q Quad) TextureID {
	pp.reset()
	for i := 0; i < n; i++ {
		b.BlurPass(pp.other(), src, i%2 == 0, q)
		pp.swap()
		src = pp.current().Color
	}
	return src
}
