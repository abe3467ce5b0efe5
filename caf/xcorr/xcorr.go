// Package xcorr implements a fixed-size FFT cross-correlation kernel for
// power-of-two length complex buffers.
//
// A Handle owns a matched pair of forward/inverse FFT plans plus three
// scratch buffers sized to its transform length N. Run computes
//
//	IFFT( FFT(a) * conj(FFT(b)) / N )
//
// which is the circular cross-correlation of a and b. Callers that need
// linear correlation must zero-pad their inputs to at least 2*len before
// constructing a Handle (the caf package's surface builder does this).
package xcorr

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by this package.
var (
	ErrInvalidLength  = errors.New("xcorr: length must be a positive power of two")
	ErrLengthMismatch = errors.New("xcorr: input length does not match handle size")
)

// Handle is a reusable cross-correlation kernel for transforms of length N.
// A Handle is not safe for concurrent use; call Clone to obtain an
// independent handle per goroutine.
type Handle struct {
	n int

	forward *algofft.Plan[complex128]
	inverse *algofft.Plan[complex128]

	a []complex128 // scratch: time-domain in / frequency-domain product
	b []complex128 // scratch: FFT(a) / IFFT output
	c []complex128 // scratch: FFT(b)
}

// New constructs a Handle for length-n transforms. n must be a positive
// power of two.
func New(n int) (*Handle, error) {
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLength, n)
	}

	forward, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create forward FFT plan: %w", err)
	}

	inverse, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("xcorr: failed to create inverse FFT plan: %w", err)
	}

	return &Handle{
		n:       n,
		forward: forward,
		inverse: inverse,
		a:       make([]complex128, n),
		b:       make([]complex128, n),
		c:       make([]complex128, n),
	}, nil
}

// N returns the handle's configured transform length.
func (h *Handle) N() int {
	return h.n
}

// Clone returns an independent Handle that shares this handle's FFT plans
// but owns fresh scratch buffers. Clones may be used concurrently with each
// other and with the original handle.
func (h *Handle) Clone() *Handle {
	return &Handle{
		n:       h.n,
		forward: h.forward,
		inverse: h.inverse,
		a:       make([]complex128, h.n),
		b:       make([]complex128, h.n),
		c:       make([]complex128, h.n),
	}
}

// Run computes IFFT(FFT(a) * conj(FFT(b)) / N) and returns a fresh
// length-N slice. Both a and b must have length exactly N.
func (h *Handle) Run(a, b []complex128) ([]complex128, error) {
	if len(a) != h.n {
		return nil, fmt.Errorf("%w: a has length %d, want %d", ErrLengthMismatch, len(a), h.n)
	}
	if len(b) != h.n {
		return nil, fmt.Errorf("%w: b has length %d, want %d", ErrLengthMismatch, len(b), h.n)
	}

	copy(h.a, a)
	if err := h.forward.Forward(h.b, h.a); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT of a failed: %w", err)
	}

	copy(h.a, b)
	if err := h.forward.Forward(h.c, h.a); err != nil {
		return nil, fmt.Errorf("xcorr: forward FFT of b failed: %w", err)
	}

	for k := range h.c {
		h.c[k] = complex(real(h.c[k]), -imag(h.c[k]))
	}

	// algo-fft's Plan.Inverse already scales by 1/N (the same convention
	// dsp/conv.CorrelateFFT relies on), so the product is left unnormalized
	// here to divide by N exactly once in total.
	for k := range h.a {
		h.a[k] = h.b[k] * h.c[k]
	}

	if err := h.inverse.Inverse(h.b, h.a); err != nil {
		return nil, fmt.Errorf("xcorr: inverse FFT failed: %w", err)
	}

	out := make([]complex128, h.n)
	copy(out, h.b)
	return out, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
