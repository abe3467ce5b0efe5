// Package testsignal synthesizes deterministic complex-baseband fixtures for
// the CAF engine's property and end-to-end tests: chirps to use as a needle,
// and delayed, frequency-shifted, noisy copies of that chirp to use as the
// matching haystack.
package testsignal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-caf/caf/shift"
	"github.com/cwbudde/algo-caf/dsp/core"
)

const defaultSeed int64 = 1

// Generator creates deterministic complex-baseband signals from a shared
// sample-rate configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic RNG seed used by noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: defaultSeed,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with
// generator-specific options in addition to the shared sample-rate config.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: defaultSeed,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// LinearChirp generates a complex-baseband linear-frequency chirp:
//
//	x[n] = amplitude * exp(j*2*pi*(startHz*t + 0.5*k*t^2))
//
// where k is chosen so the instantaneous frequency sweeps linearly from
// startHz to endHz over the requested sample count. This is the complex
// analogue of LinearSweep's real-valued chirp, used here as the reference
// "needle" in CAF property and end-to-end tests.
func (g *Generator) LinearChirp(startHz, endHz, amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("chirp samples must be > 0: %d", samples)
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("chirp sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	duration := float64(samples) / g.cfg.SampleRate
	k := (endHz - startHz) / duration

	out := make([]complex128, samples)
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		phase := 2 * math.Pi * (startHz*t + 0.5*k*t*t)
		sinv, cosv := math.Sincos(phase)
		out[i] = complex(amplitude*cosv, amplitude*sinv)
	}

	return out, nil
}

// ComplexNoise generates deterministic complex white noise: real and
// imaginary parts are each independently uniform in
// [-amplitude, amplitude], reproducible from the generator's seed.
func (g *Generator) ComplexNoise(amplitude float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]complex128, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		re := (rng.Float64()*2 - 1) * amplitude
		im := (rng.Float64()*2 - 1) * amplitude
		out[i] = complex(re, im)
	}

	return out, nil
}

// EmbedDelayedShifted builds a haystack of the same length as needle,
// containing a copy of needle that has been frequency-shifted by freqHz
// (applied the same way caf's surface builder would shift a needle, see
// caf/shift) and delayed by delaySamples, with the remainder filled by
// deterministic complex noise of the given amplitude.
//
// This is how the end-to-end fixtures described in SPEC_FULL.md §8 are
// built in-process: the haystack has the needle's length and holds a
// shifted, delayed copy of the needle whose tail past the end is dropped.
func (g *Generator) EmbedDelayedShifted(needle []complex128, delaySamples int, freqHz float64, fs uint32, noiseAmplitude float64) ([]complex128, error) {
	l := len(needle)
	if l == 0 {
		return nil, errors.New("embed: needle must not be empty")
	}

	if delaySamples < 0 || delaySamples >= l {
		return nil, fmt.Errorf("embed: delaySamples out of range: %d", delaySamples)
	}

	haystack, err := g.ComplexNoise(noiseAmplitude, l)
	if err != nil {
		return nil, err
	}

	shifted := shift.Apply(needle, freqHz, fs)
	copy(haystack[delaySamples:], shifted[:l-delaySamples])

	return haystack, nil
}
