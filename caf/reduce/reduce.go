// Package reduce implements the per-row magnitude-squared reduction used to
// turn a raw cross-correlation output into a surface row's (mag, peak index,
// peak value) triple.
package reduce

import (
	"github.com/cwbudde/algo-caf/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Scratch holds reusable real/imaginary unpacking buffers and the output
// magnitude buffer for repeated Reduce calls, mirroring dsp/spectrum's
// getScratch/putScratch split of complex bins before handing them to
// vecmath's SIMD-dispatching kernels. A Scratch is the unit of reuse across
// the many rows one worker computes, the same role xcorr.Handle's scratch
// buffers play for the FFT side of a row.
type Scratch struct {
	re, im, mag []float64
}

// NewScratch returns an empty Scratch whose buffers grow to size on first
// use.
func NewScratch() *Scratch {
	return &Scratch{}
}

// Reduce computes mag[k] = |r[k]|^2 for every bin into s's reusable buffers,
// along with the first index of the maximum value. Ties resolve to the
// lowest index. The returned mag slice aliases s's internal buffer and is
// only valid until the next call to Reduce on the same Scratch.
func (s *Scratch) Reduce(r []complex128) (mag []float64, idx int, val float64) {
	n := len(r)
	s.re = core.EnsureLen(s.re, n)
	s.im = core.EnsureLen(s.im, n)
	s.mag = core.EnsureLen(s.mag, n)
	if n == 0 {
		return s.mag, 0, 0
	}

	for i, c := range r {
		s.re[i] = real(c)
		s.im[i] = imag(c)
	}
	core.Zero(s.mag)

	vecmath.Power(s.mag, s.re, s.im)

	idx = 0
	val = s.mag[0]
	for i := 1; i < n; i++ {
		if s.mag[i] > val {
			val = s.mag[i]
			idx = i
		}
	}

	return s.mag, idx, val
}

// Reduce is the single-shot form of (*Scratch).Reduce for callers that do
// not compute enough rows to make buffer reuse worthwhile. The returned mag
// slice is freshly allocated and safe to keep.
func Reduce(r []complex128) (mag []float64, idx int, val float64) {
	s := NewScratch()
	m, idx, val := s.Reduce(r)
	mag = make([]float64, len(m))
	core.CopyInto(mag, m)
	return mag, idx, val
}
