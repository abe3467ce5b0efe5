package caf_test

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-caf/caf"
	"github.com/cwbudde/algo-caf/dsp/core"
	"github.com/cwbudde/algo-caf/internal/testsignal"
)

// BenchmarkBuildSurface mirrors the original implementation's bench_rustfft
// scenario: a chirp needle against a delayed, frequency-shifted haystack,
// scanned over a +/-100Hz shift grid at 0.5Hz steps.
func BenchmarkBuildSurface(b *testing.B) {
	const fs = 48000

	sizes := []int{256, 1024, 4096}

	for _, n := range sizes {
		g := testsignal.NewGenerator(core.WithSampleRate(fs))
		needle, err := g.LinearChirp(1000, 8000, 1, n)
		if err != nil {
			b.Fatalf("LinearChirp: %v", err)
		}

		haystack, err := g.EmbedDelayedShifted(needle, n/4, 69.25, fs, 0)
		if err != nil {
			b.Fatalf("EmbedDelayedShifted: %v", err)
		}

		shifts := caf.GenShifts(-100, 100, 0.5)

		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				surface, err := caf.BuildSurface(needle, haystack, shifts, fs)
				if err != nil {
					b.Fatalf("BuildSurface: %v", err)
				}
				if _, _, err := caf.FindPeak(surface); err != nil {
					b.Fatalf("FindPeak: %v", err)
				}
			}
		})
	}
}
