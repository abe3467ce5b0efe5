// Package c64 reads and writes the packed-complex ".c64" sample format: a
// flat sequence of little-endian IEEE-754 binary32 values, alternating real
// and imaginary, with no header or trailer.
//
// This is a collaborator to the CAF core (SPEC_FULL.md §6), not part of its
// numeric API: the core consumes and produces in-memory []complex128
// buffers, and this package is how those buffers reach disk.
package c64

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// Errors returned by this package.
var (
	// ErrShortFile reports a packed-complex file whose byte count is not a
	// multiple of 8 (one complex sample is two binary32 values).
	ErrShortFile = errors.New("c64: file length is not a multiple of 8 bytes")
)

const bytesPerSample = 8 // 4 bytes real + 4 bytes imaginary, both float32

// Read loads a packed-complex file and widens each sample to complex128.
func Read(filename string) ([]complex128, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("c64: read %s: %w", filename, err)
	}

	return Decode(raw)
}

// Decode widens a buffer of packed little-endian float32 real/imaginary
// pairs into complex128 samples.
func Decode(raw []byte) ([]complex128, error) {
	if len(raw)%bytesPerSample != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortFile, len(raw))
	}

	n := len(raw) / bytesPerSample
	out := make([]complex128, n)
	for i := range out {
		off := i * bytesPerSample
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		out[i] = complex(float64(re), float64(im))
	}

	return out, nil
}

// Write narrows each sample to a little-endian float32 real/imaginary pair
// and writes the result to filename.
func Write(filename string, samples []complex128) error {
	raw := Encode(samples)
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		return fmt.Errorf("c64: write %s: %w", filename, err)
	}
	return nil
}

// Encode narrows samples to packed little-endian float32 real/imaginary
// pairs.
func Encode(samples []complex128) []byte {
	out := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		off := i * bytesPerSample
		binary.LittleEndian.PutUint32(out[off:off+4], math.Float32bits(float32(real(s))))
		binary.LittleEndian.PutUint32(out[off+4:off+8], math.Float32bits(float32(imag(s))))
	}
	return out
}
