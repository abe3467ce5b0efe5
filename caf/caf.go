// Package caf computes the Cross-Ambiguity Function (CAF) surface between a
// short reference signal (the needle) and a longer observed signal (the
// haystack), and locates the surface's global peak.
//
// The channel model is haystack(t) ≈ needle(t-τ)·e^(j·2π·Δf·t) plus noise;
// BuildSurface estimates, for each candidate Δf in a caller-supplied shift
// grid, the lag τ that best aligns a frequency-shifted needle to the
// haystack. FindPeak then picks the (Δf, τ) pair with the strongest
// correlation across the whole surface.
package caf

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-caf/caf/reduce"
	"github.com/cwbudde/algo-caf/caf/shift"
	"github.com/cwbudde/algo-caf/caf/xcorr"
	"github.com/cwbudde/algo-caf/dsp/core"
)

// Errors returned by this package.
var (
	ErrInvalidLength = errors.New("caf: needle and haystack must have equal, positive power-of-two length")
	ErrEmptySurface  = errors.New("caf: surface has no rows")
	ErrWorkerFailure = errors.New("caf: worker failed")
)

// Row is one row of a CAF surface: the result of cross-correlating the
// haystack against the needle shifted by Freq hertz.
type Row struct {
	// Freq is the frequency shift, in hertz, that produced this row.
	Freq float64

	// XcorMag holds |xcorr|^2 for every lag, length 2*len(needle).
	XcorMag []float64

	// XcorPeakIdx is the lowest index achieving max(XcorMag).
	XcorPeakIdx int

	// XcorPeakVal is XcorMag[XcorPeakIdx].
	XcorPeakVal float64
}

// Surface is a CAF surface: one Row per input shift. Row order is
// unspecified; consumers must look up rows by Freq, not by position.
type Surface []Row

// BuildSurface computes a CAF surface for needle against haystack over the
// given shift grid. needle and haystack must have equal length, and that
// length must be a positive power of two. fs is the sample rate in hertz.
//
// Rows are computed concurrently across a worker pool sized to
// runtime.GOMAXPROCS(0); the needle and haystack are zero-padded once and
// shared read-only, and each worker clones its own xcorr.Handle so FFT plans
// are shared but scratch buffers are not.
func BuildSurface(needle, haystack []complex128, shifts []float64, fs uint32) (Surface, error) {
	l := len(needle)
	if l == 0 || l != len(haystack) || !isPowerOfTwo(l) {
		return nil, fmt.Errorf("%w: needle=%d haystack=%d", ErrInvalidLength, len(needle), len(haystack))
	}

	n := 2 * l
	paddedNeedle := zeroPad(needle, n)
	paddedHaystack := zeroPad(haystack, n)

	base, err := xcorr.New(n)
	if err != nil {
		return nil, fmt.Errorf("caf: failed to build xcorr handle: %w", err)
	}

	m := len(shifts)
	if m == 0 {
		return Surface{}, nil
	}

	rows := make([]Row, m)

	workers := runtime.GOMAXPROCS(0)
	if workers > m {
		workers = m
	}

	jobs := make(chan int, m)
	for i := range shifts {
		jobs <- i
	}
	close(jobs)

	done := make(chan struct{})
	errOnce := sync.Once{}
	var firstErr error

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			handle := base.Clone()
			scratch := reduce.NewScratch()
			for i := range jobs {
				select {
				case <-done:
					return
				default:
				}

				row, err := computeRow(handle, scratch, paddedNeedle, paddedHaystack, shifts[i], fs)
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("%w: shift %g Hz: %w", ErrWorkerFailure, shifts[i], err)
						close(done)
					})
					return
				}
				rows[i] = row
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return rows, nil
}

func computeRow(handle *xcorr.Handle, scratch *reduce.Scratch, paddedNeedle, paddedHaystack []complex128, freq float64, fs uint32) (Row, error) {
	shifted := shift.Apply(paddedNeedle, freq, fs)

	// Argument order matters: a peak at index d means the haystack lags the
	// needle by d samples (see SPEC_FULL.md §4.6).
	res, err := handle.Run(paddedHaystack, shifted)
	if err != nil {
		return Row{}, err
	}

	mag, idx, val := scratch.Reduce(res)

	// mag aliases scratch's reusable buffer, which the next job on this
	// worker will overwrite; the row needs its own copy to outlive that.
	out := make([]float64, len(mag))
	core.CopyInto(out, mag)

	return Row{Freq: freq, XcorMag: out, XcorPeakIdx: idx, XcorPeakVal: val}, nil
}

// FindPeak returns the (frequency, sample lag) of the surface row with the
// greatest XcorPeakVal. Ties resolve to the first such row in iteration
// order over s.
func FindPeak(s Surface) (freqHz float64, sampleLag int, err error) {
	if len(s) == 0 {
		return 0, 0, ErrEmptySurface
	}

	best := s[0]
	for _, row := range s[1:] {
		if row.XcorPeakVal > best.XcorPeakVal {
			best = row
		}
	}

	return best.Freq, best.XcorPeakIdx, nil
}

func zeroPad(x []complex128, n int) []complex128 {
	out := make([]complex128, n)
	copy(out, x)
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
