package audio

import "math/rand"

// ----- Voice ----- //

// voice is the fixed oscillator -> filter -> amp chain.
type voice struct {
	osc    *dualOsc
	filter *filter
	amp    *amp
	left   []float64
	right  []float64
}

func newVoice(rng *rand.Rand, sampleRate float64, maxBlock int) *voice {
	return &voice{
		osc:    newDualOsc(rng, sampleRate, maxBlock),
		filter: newFilter(newADSR(sampleRate), sampleRate, maxBlock),
		amp:    newAmp(newADSR(sampleRate), maxBlock),
		left:   make([]float64, maxBlock),
		right:  make([]float64, maxBlock),
	}
}

func (v *voice) setSampleRate(sampleRate float64) {
	v.osc.setSampleRate(sampleRate)
	v.filter.setSampleRate(sampleRate)
	v.amp.env.setSampleRate(sampleRate)
}

func (v *voice) onEvent(e Event) {
	v.osc.onEvent(e)
	v.filter.onEvent(e)
	v.amp.onEvent(e)
}

func (v *voice) isActive() bool {
	return v.amp.isActive()
}

// generate renders n frames into the voice's own buffers and returns them.
func (v *voice) generate(n int) (left, right []float64) {
	left = v.left[:n]
	right = v.right[:n]
	v.osc.generate(left, right)
	v.filter.process(left, right, v.osc.keyFreq())
	v.amp.process(left, right)
	return left, right
}
