package audio

import (
	"math"
	"testing"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectFinite(t *testing.T, values ...float64) {
	t.Helper()
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("expected finite value, but got: %v", v)
		}
	}
}

func TestBitreverse(t *testing.T) {
	expectEqual(t, bitReverse(0, 8), 0)
	expectEqual(t, bitReverse(1, 8), 4)
	expectEqual(t, bitReverse(2, 8), 2)
	expectEqual(t, bitReverse(3, 8), 6)
	expectEqual(t, bitReverse(4, 8), 1)
	expectEqual(t, bitReverse(5, 8), 5)
	expectEqual(t, bitReverse(6, 8), 3)
	expectEqual(t, bitReverse(7, 8), 7)
}

func TestFFT(t *testing.T) {
	fft, err := NewFFT(8)
	expectNoError(t, err)
	re := []float64{0, 0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}
	im := make([]float64, 8)
	fft.Calc(re, im)
	expectNearlyEqual(t, re[0], 4)
	expectNearlyEqual(t, re[1], -(1 + math.Sqrt(2)/2))
	expectNearlyEqual(t, re[2], 0)
	expectNearlyEqual(t, re[3], -(1 - math.Sqrt(2)/2))
	expectNearlyEqual(t, re[4], 0)
	expectNearlyEqual(t, re[5], -(1 - math.Sqrt(2)/2))
	expectNearlyEqual(t, re[6], 0)
	expectNearlyEqual(t, re[7], -(1 + math.Sqrt(2)/2))
	for _, v := range im {
		expectNearlyEqual(t, v, 0)
	}
}

func TestFFTRejectsInvalidLength(t *testing.T) {
	_, err := NewFFT(12)
	if err == nil {
		t.Errorf("expected error for non power of two")
	}
}

func TestFFTSine(t *testing.T) {
	const n = 64
	fft, err := NewFFT(n)
	expectNoError(t, err)
	re := make([]float64, n)
	im := make([]float64, n)
	for i := range re {
		re[i] = math.Sin(2 * math.Pi * 4 * float64(i) / n)
	}
	fft.Calc(re, im)
	expectNearlyEqual(t, math.Hypot(re[4], im[4]), n/2)
	expectNearlyEqual(t, math.Hypot(re[5], im[5]), 0)
}
