package caf

import "math"

// GenShifts builds a shift grid over the half-open interval [startHz, endHz)
// stepped by stepHz, rounding through integer millihertz so that floating
// point error cannot accumulate across thousands of steps (the same
// millihertz-stepping recipe SPEC_FULL.md §8 uses for its end-to-end test
// cases).
func GenShifts(startHz, endHz, stepHz float64) []float64 {
	if stepHz <= 0 {
		return nil
	}

	startMilli := int64(math.Round(startHz * 1000))
	endMilli := int64(math.Round(endHz * 1000))
	stepMilli := int64(math.Round(stepHz * 1000))
	if stepMilli <= 0 {
		return nil
	}

	var out []float64
	for m := startMilli; m < endMilli; m += stepMilli {
		out = append(out, float64(m)/1000.0)
	}

	return out
}
