// Command caf estimates the time-delay and frequency-offset between a
// needle (reference) and a haystack (observed) packed-complex recording.
//
// Usage:
//
//	caf [flags] needle.c64 haystack.c64
//
// Examples:
//
//	caf -fs 48000 -start -100 -end 100 -step 0.25 needle.c64 haystack.c64
//	caf -start -50 -end 50 -step 1 chirp_needle.c64 chirp_haystack.c64
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cwbudde/algo-caf/caf"
	"github.com/cwbudde/algo-caf/caf/c64"
)

func main() {
	fs := flag.Uint("fs", 48000, "sample rate in hertz")
	start := flag.Float64("start", -100, "shift grid start, in hertz (inclusive)")
	end := flag.Float64("end", 100, "shift grid end, in hertz (exclusive)")
	step := flag.Float64("step", 0.25, "shift grid step, in hertz")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: caf [flags] needle.c64 haystack.c64\n\n")
		fmt.Fprintf(os.Stderr, "Estimates the frequency shift and sample lag that align needle to haystack.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  caf -fs 48000 -start -100 -end 100 -step 0.25 needle.c64 haystack.c64\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(args[0], args[1], *start, *end, *step, uint32(*fs)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(needlePath, haystackPath string, start, end, step float64, fs uint32) error {
	needle, err := c64.Read(needlePath)
	if err != nil {
		return err
	}

	haystack, err := c64.Read(haystackPath)
	if err != nil {
		return err
	}

	if len(haystack) > len(needle) {
		haystack = haystack[:len(needle)]
	}

	shifts := caf.GenShifts(start, end, step)
	fmt.Fprintf(os.Stderr, "building CAF surface: %d shifts, fs=%d Hz\n", len(shifts), fs)

	t0 := time.Now()
	surface, err := caf.BuildSurface(needle, haystack, shifts, fs)
	if err != nil {
		return err
	}

	freq, lag, err := caf.FindPeak(surface)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "build took %s\n", time.Since(t0))
	fmt.Printf("freq=%g lag=%d\n", freq, lag)
	return nil
}
