package audio

import (
	"math"
	"math/rand"
	"testing"
)

func expectWeights(t *testing.T, mode, k, m0, m1, m2 float64) {
	t.Helper()
	a, b, c := modeWeights(mode, k)
	expectNearlyEqual(t, a, m0)
	expectNearlyEqual(t, b, m1)
	expectNearlyEqual(t, c, m2)
}

func TestModeWeights(t *testing.T) {
	k := 2.0
	expectWeights(t, 0, k, 0, 0, 1)     // lowpass
	expectWeights(t, 45, k, 0, 0.5, 0.5)
	expectWeights(t, 90, k, 0, 1, 0)    // bandpass
	expectWeights(t, 180, k, 1, -k, -1) // highpass
	expectWeights(t, 270, k, 1, -k, 0)  // notch
	expectWeights(t, 360, k, 0, 0, 1)
	expectWeights(t, -90, k, 1, -k, 0)
}

func TestModeWeightsContinuous(t *testing.T) {
	k := 1 / 0.71
	for _, edge := range []float64{90, 180, 270, 360} {
		a0, a1, a2 := modeWeights(edge-1e-9, k)
		b0, b1, b2 := modeWeights(edge, k)
		if math.Abs(a0-b0) > 1e-6 || math.Abs(a1-b1) > 1e-6 || math.Abs(a2-b2) > 1e-6 {
			t.Errorf("weights jump at %v: (%v %v %v) -> (%v %v %v)", edge, a0, a1, a2, b0, b1, b2)
		}
	}
}

func TestFilterQUpdatesWeights(t *testing.T) {
	f := newFilter(newADSR(44100), 44100, 64)
	f.setMode(180)
	f.setQ(2)
	expectNearlyEqual(t, f.channels[0].m1, -0.5)
	expectNearlyEqual(t, f.channels[1].m1, -0.5)
}

func rms(buf []float64) float64 {
	sum := 0.0
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func TestFilterLowpass(t *testing.T) {
	sampleRate := 44100.0
	f := newFilter(newADSR(sampleRate), sampleRate, 4096)
	f.setCutoff(200)
	f.setQ(0.71)
	left := make([]float64, 4096)
	right := make([]float64, 4096)
	for i := range left {
		left[i] = math.Sin(2 * math.Pi * 5000 * float64(i) / sampleRate)
		right[i] = 1
	}
	f.process(left, right, 440)
	if r := rms(left[1024:]); r > 0.01 {
		t.Errorf("expected 5kHz to be attenuated, but got rms %v", r)
	}
	expectNearlyEqual(t, right[4095], 1)
}

func TestFilterKeyTracking(t *testing.T) {
	f := newFilter(newADSR(44100), 44100, 64)
	f.setCutoff(1000)
	f.setTracking(1)
	expectNearlyEqual(t, f.cutoffAt(0, 880), 2000)
	f.setTracking(0)
	expectNearlyEqual(t, f.cutoffAt(0, 880), 1000)
	f.setEnvAmount(2)
	expectNearlyEqual(t, f.cutoffAt(0.5, 440), 2000)
	f.setCutoff(30000)
	expectNearlyEqual(t, f.cutoffAt(0, 440), 44100.0/2-1)
	f.setCutoff(1)
	expectNearlyEqual(t, f.cutoffAt(0, 440), minCutoff)
}

func TestFilterStability(t *testing.T) {
	sampleRate := 44100.0
	const block = 441
	f := newFilter(newADSR(sampleRate), sampleRate, block)
	rng := rand.New(rand.NewSource(1))
	left := make([]float64, block)
	right := make([]float64, block)
	blocks := int(10 * sampleRate / block)
	for _, mode := range []float64{0, 45, 90, 135, 180, 225, 270, 315} {
		f.setMode(mode)
		for b := 0; b < blocks; b++ {
			x := float64(b) / float64(blocks-1)
			f.setCutoff(20 * math.Pow((sampleRate/2-1)/20, x))
			f.setQ(0.71 + (6-0.71)*x)
			for i := range left {
				left[i] = rng.Float64()*2 - 1
				right[i] = rng.Float64()*2 - 1
			}
			f.process(left, right, 440)
			for _, c := range f.channels {
				expectFinite(t, c.ic1eq, c.ic2eq)
			}
		}
	}
}
