package audio

import (
	"math"
	"math/rand"
	"testing"
)

func newTestDualOsc() *dualOsc {
	return newDualOsc(rand.New(rand.NewSource(1)), 44100, 1024)
}

func TestUnisonOffset(t *testing.T) {
	expectNearlyEqual(t, unisonOffset(0, 1), 0)
	expectNearlyEqual(t, unisonOffset(0, 3), -1.0/24)
	expectNearlyEqual(t, unisonOffset(1, 3), 0)
	expectNearlyEqual(t, unisonOffset(2, 3), 1.0/24)
}

func TestUnisonRightGain(t *testing.T) {
	expectNearlyEqual(t, unisonRightGain(0, 1, 1), 0.5)
	expectNearlyEqual(t, unisonRightGain(0, 3, 1), 0)
	expectNearlyEqual(t, unisonRightGain(1, 3, 1), 0.5)
	expectNearlyEqual(t, unisonRightGain(2, 3, 1), 1)
	expectNearlyEqual(t, unisonRightGain(0, 3, 0), 0.5)
	expectNearlyEqual(t, unisonRightGain(2, 3, 0.5), 0.75)
}

func TestDualOscFrequencies(t *testing.T) {
	d := newTestDualOsc()
	d.setDrift(0)
	d.setUnison(3)
	d.setDetune(1)
	d.setSlaveOctave(1)
	d.setSlaveSemi(0)
	d.setSlaveFine(0)
	d.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
	expectNearlyEqual(t, d.masters[1].freq, 440)
	expectNearlyEqual(t, d.slaves[1].freq, 880)
	expectNearlyEqual(t, d.slaves[1].masterFreq, 440)
	expectNearlyEqual(t, d.masters[0].freq, 440*math.Pow(2, -1.0/24))
	expectNearlyEqual(t, d.masters[2].freq, 440*math.Pow(2, 1.0/24))

	d.setSlaveSemi(7)
	d.setSlaveFine(-50)
	expectNearlyEqual(t, d.slaves[1].freq, 440*math.Pow(2, 1+7.0/12-50.0/1200))
}

func TestDualOscPitchBendKeepsPhase(t *testing.T) {
	d := newTestDualOsc()
	d.setDrift(0)
	d.setUnison(2)
	d.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
	left := make([]float64, 100)
	right := make([]float64, 100)
	d.generate(left, right)
	phase := d.masters[0].phase
	coef := math.Pow(2, 2.0/12)
	d.onEvent(PitchBend{Coef: coef})
	expectNearlyEqual(t, d.masters[0].phase, phase)
	expectNearlyEqual(t, d.keyFreq(), 440*coef)
	expectNearlyEqual(t, d.masters[0].freq, 440*coef*math.Pow(2, d.detune*unisonOffset(0, 2)))
}

func TestDualOscDrift(t *testing.T) {
	d := newTestDualOsc()
	d.setUnison(1)
	d.setDrift(1)
	lo := 440 * math.Pow(2, -1.0/48)
	hi := 440 * math.Pow(2, 1.0/48)
	differs := false
	for i := 0; i < 20; i++ {
		d.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
		f := d.masters[0].freq
		if f < lo || f > hi {
			t.Fatalf("drifted frequency %v outside [%v, %v]", f, lo, hi)
		}
		if f != 440 {
			differs = true
		}
	}
	expectEqual(t, differs, true)
}

func TestDualOscNoiseIsIndependentPerChannel(t *testing.T) {
	d := newTestDualOsc()
	d.setNoise(1)
	for i := 0; i < maxUnison; i++ {
		d.masters[i].setAmplitude(0)
		d.slaves[i].setAmplitude(0)
	}
	d.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
	left := make([]float64, 512)
	right := make([]float64, 512)
	d.generate(left, right)
	same := 0
	for i := range left {
		if math.Abs(left[i]) > 1 || math.Abs(right[i]) > 1 {
			t.Fatalf("noise out of range: %v %v", left[i], right[i])
		}
		if left[i] == right[i] {
			same++
		}
	}
	if same > 0 {
		t.Errorf("expected uncorrelated channels, but %v samples were equal", same)
	}
}

func TestDualOscStereoWidth(t *testing.T) {
	d := newTestDualOsc()
	d.setNoise(0)
	d.setDrift(0)
	d.setUnison(2)
	d.setStereo(1)
	for i := 0; i < maxUnison; i++ {
		d.slaves[i].setAmplitude(0)
	}
	d.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
	left := make([]float64, 1024)
	right := make([]float64, 1024)
	d.generate(left, right)

	// voice 0 is hard left and voice 1 hard right, each at half level
	m0 := make([]float64, 1024)
	m1 := make([]float64, 1024)
	d2 := newTestDualOsc()
	d2.setNoise(0)
	d2.setDrift(0)
	d2.setUnison(2)
	d2.setStereo(1)
	for i := 0; i < maxUnison; i++ {
		d2.slaves[i].setAmplitude(0)
	}
	d2.onEvent(NoteOn{Note: 69, Freq: 440, Velocity: 100})
	d2.masters[0].generate(m0)
	d2.masters[1].generate(m1)
	for i := range left {
		expectNearlyEqual(t, left[i], m0[i]/2)
		expectNearlyEqual(t, right[i], m1[i]/2)
	}
}
