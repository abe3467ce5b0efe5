// Package shift provides the frequency-shift generator used to synthesize
// a copy of a signal as it would appear offset by a given frequency.
package shift

import "math"

// Apply returns a fresh copy of x with a per-sample frequency shift applied:
//
//	y[n] = x[n] * exp(j*2*pi*deltaHz*n/fs)
//
// fs is the sample rate in hertz. deltaHz may be negative. Apply is pure: it
// never mutates x, and calling it twice with the same arguments produces
// identical output.
func Apply(x []complex128, deltaHz float64, fs uint32) []complex128 {
	out := make([]complex128, len(x))
	if len(x) == 0 {
		return out
	}

	if deltaHz == 0 {
		copy(out, x)
		return out
	}

	step := 2 * math.Pi * deltaHz / float64(fs)
	for n, v := range x {
		sinv, cosv := math.Sincos(step * float64(n))
		rot := complex(cosv, sinv)
		out[n] = v * rot
	}

	return out
}
