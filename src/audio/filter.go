package audio

import "math"

// ----- SVF ----- //

const (
	minCutoff = 5.0
	minQ      = 0.01
)

// svf is one channel of a zero-delay-feedback state-variable filter.
type svf struct {
	ic1eq float64
	ic2eq float64
	a1    float64
	a2    float64
	a3    float64
	m0    float64
	m1    float64
	m2    float64
}

func svfCoefs(cutoff, sampleRate, k float64) (a1, a2, a3 float64) {
	g := math.Tan(math.Pi * cutoff / sampleRate)
	a1 = 1 / (1 + g*(g+k))
	a2 = g * a1
	a3 = g * a2
	return
}

// modeWeights blends lowpass, bandpass, highpass and notch across 90 degree quadrants.
func modeWeights(mode, k float64) (m0, m1, m2 float64) {
	mode = positiveMod(mode, 360)
	right := positiveMod(mode/90, 1)
	left := 1 - right
	switch int(mode / 90) {
	case 0: // lowpass -> bandpass
		return 0, right, left
	case 1: // bandpass -> highpass
		return right, left - k*right, -right
	case 2: // highpass -> notch
		return 1, -k, -left
	default: // notch -> lowpass
		return left, -left * k, right
	}
}

func (f *svf) reset() {
	f.ic1eq = 0
	f.ic2eq = 0
}

func (f *svf) process(v0 float64) float64 {
	v3 := v0 - f.ic2eq
	v1 := f.a1*f.ic1eq + f.a2*v3
	v2 := f.ic2eq + f.a2*f.ic1eq + f.a3*v3
	f.ic1eq = 2*v1 - f.ic1eq
	f.ic2eq = 2*v2 - f.ic2eq
	return f.m0*v0 + f.m1*v1 + f.m2*v2
}

// ----- Filter ----- //

type filter struct {
	env        *adsr
	channels   [2]svf
	sampleRate float64
	cutoff     float64
	q          float64
	k          float64
	mode       float64
	tracking   float64
	envAmount  float64 // octave
	envBuf     []float64
}

func newFilter(env *adsr, sampleRate float64, maxBlock int) *filter {
	f := &filter{
		env:        env,
		sampleRate: sampleRate,
		cutoff:     sampleRate / 2,
		envBuf:     make([]float64, maxBlock),
	}
	f.setQ(math.Sqrt2 / 2)
	return f
}

func (f *filter) setSampleRate(sampleRate float64) {
	f.sampleRate = sampleRate
	f.env.setSampleRate(sampleRate)
	for i := range f.channels {
		f.channels[i].reset()
	}
}

func (f *filter) setCutoff(cutoff float64) {
	f.cutoff = cutoff
}

func (f *filter) setQ(q float64) {
	if q < minQ {
		q = minQ
	}
	f.q = q
	f.k = 1 / q
	f.updateWeights()
}

func (f *filter) setMode(mode float64) {
	f.mode = mode
	f.updateWeights()
}

func (f *filter) setTracking(tracking float64) {
	f.tracking = clamp(tracking, 0, 1)
}

func (f *filter) setEnvAmount(octaves float64) {
	f.envAmount = octaves
}

func (f *filter) updateWeights() {
	m0, m1, m2 := modeWeights(f.mode, f.k)
	for i := range f.channels {
		f.channels[i].m0 = m0
		f.channels[i].m1 = m1
		f.channels[i].m2 = m2
	}
}

func (f *filter) onEvent(e Event) {
	f.env.onEvent(e)
}

func (f *filter) cutoffAt(envValue, keyFreq float64) float64 {
	c := f.cutoff * math.Pow(2, envValue*f.envAmount) * ((1 - f.tracking) + f.tracking*keyFreq/440)
	return clamp(c, minCutoff, f.sampleRate/2-1)
}

// process filters left and right in place. keyFreq is the bent note frequency.
func (f *filter) process(left, right []float64, keyFreq float64) {
	env := f.envBuf[:len(left)]
	f.env.generate(env)
	l := &f.channels[0]
	r := &f.channels[1]
	for i := range left {
		a1, a2, a3 := svfCoefs(f.cutoffAt(env[i], keyFreq), f.sampleRate, f.k)
		l.a1, l.a2, l.a3 = a1, a2, a3
		r.a1, r.a2, r.a3 = a1, a2, a3
		left[i] = l.process(left[i])
		right[i] = r.process(right[i])
	}
}
