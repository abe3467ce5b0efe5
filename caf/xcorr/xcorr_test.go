package xcorr

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	for _, n := range []int{0, -1, 3, 5, 100} {
		if _, err := New(n); err == nil {
			t.Fatalf("New(%d): expected error", n)
		}
	}
}

func TestNewAcceptsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 1024} {
		h, err := New(n)
		if err != nil {
			t.Fatalf("New(%d): unexpected error: %v", n, err)
		}
		if h.N() != n {
			t.Fatalf("N() = %d, want %d", h.N(), n)
		}
	}
}

func TestRunRejectsLengthMismatch(t *testing.T) {
	h, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ok := make([]complex128, 8)
	bad := make([]complex128, 4)

	if _, err := h.Run(bad, ok); err == nil {
		t.Fatal("expected error for mismatched a")
	}
	if _, err := h.Run(ok, bad); err == nil {
		t.Fatal("expected error for mismatched b")
	}
}

func TestRunDeterministic(t *testing.T) {
	h, err := New(16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a := randomComplexVector(16, 1)
	b := randomComplexVector(16, 2)

	r1, err := h.Run(a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	r2, err := h.Run(a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i := range r1 {
		if r1[i] != r2[i] {
			t.Fatalf("non-deterministic at index %d: %v vs %v", i, r1[i], r2[i])
		}
	}
}

func TestAutoCorrelationPeaksAtZero(t *testing.T) {
	const n = 64
	h, err := New(n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v := randomComplexVector(n, 7)

	r, err := h.Run(v, v)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	peakIdx := 0
	peakMag := cmplx.Abs(r[0])
	for i, c := range r {
		if m := cmplx.Abs(c); m > peakMag {
			peakMag = m
			peakIdx = i
		}
	}

	if peakIdx != 0 {
		t.Fatalf("auto-correlation peak at index %d, want 0", peakIdx)
	}
}

func TestCloneIndependentScratch(t *testing.T) {
	h, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	clone := h.Clone()
	if clone == h {
		t.Fatal("Clone returned the same handle")
	}

	a := randomComplexVector(8, 3)
	b := randomComplexVector(8, 4)

	r1, err := h.Run(a, b)
	if err != nil {
		t.Fatalf("Run on original: %v", err)
	}
	r2, err := clone.Run(a, b)
	if err != nil {
		t.Fatalf("Run on clone: %v", err)
	}

	for i := range r1 {
		if cmplx.Abs(r1[i]-r2[i]) > 1e-9 {
			t.Fatalf("clone diverged at index %d: %v vs %v", i, r1[i], r2[i])
		}
	}
}

func TestRunKnownImpulse(t *testing.T) {
	// Correlating an impulse at index 0 with itself shifted by d should
	// locate the shift's inverse via circular correlation.
	const n = 8
	h, err := New(n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a := make([]complex128, n)
	a[0] = 1

	const d = 3
	b := make([]complex128, n)
	b[d] = 1

	r, err := h.Run(a, b)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	peakIdx := 0
	peakMag := cmplx.Abs(r[0])
	for i, c := range r {
		if m := cmplx.Abs(c); m > peakMag {
			peakMag = m
			peakIdx = i
		}
	}

	want := (n - d) % n
	if peakIdx != want {
		t.Fatalf("peak at %d, want %d", peakIdx, want)
	}
	if math.Abs(peakMag-1) > 1e-9 {
		t.Fatalf("peak magnitude = %v, want 1", peakMag)
	}
}

func randomComplexVector(n int, seed int64) []complex128 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return out
}
