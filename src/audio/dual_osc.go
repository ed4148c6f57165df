package audio

import (
	"math"
	"math/rand"
)

// ----- Dual OSC ----- //

const maxUnison = 8

// dualOsc layers up to maxUnison master/slave pairs plus stereo noise.
// All units are allocated up front; changing the unison count only changes how many are rendered.
type dualOsc struct {
	rand       *rand.Rand
	sampleRate float64
	masters    [maxUnison]*osc
	slaves     [maxUnison]*osc
	unison     int
	detune     float64
	stereo     float64
	drift      float64
	noise      float64
	octave     float64
	semi       float64
	fine       float64 // cent
	baseFreq   float64
	driftCoef  float64
	bendCoef   float64
	mono       []float64
}

func newDualOsc(rng *rand.Rand, sampleRate float64, maxBlock int) *dualOsc {
	d := &dualOsc{
		rand:       rng,
		sampleRate: sampleRate,
		unison:     1,
		driftCoef:  1,
		bendCoef:   1,
		mono:       make([]float64, maxBlock),
	}
	for i := 0; i < maxUnison; i++ {
		d.masters[i] = newOsc(sampleRate)
		d.slaves[i] = newOsc(sampleRate)
		d.slaves[i].setSynced(true)
	}
	return d
}

func (d *dualOsc) setSampleRate(sampleRate float64) {
	d.sampleRate = sampleRate
	for i := 0; i < maxUnison; i++ {
		d.masters[i].setSampleRate(sampleRate)
		d.slaves[i].setSampleRate(sampleRate)
	}
}

func (d *dualOsc) setUnison(n int) {
	if n < 1 {
		n = 1
	}
	if n > maxUnison {
		n = maxUnison
	}
	d.unison = n
	d.updateFreqs()
}

func (d *dualOsc) setDetune(detune float64) {
	d.detune = detune
	d.updateFreqs()
}

func (d *dualOsc) setStereo(width float64) {
	d.stereo = clamp(width, 0, 1)
}

func (d *dualOsc) setDrift(drift float64) {
	d.drift = drift
}

func (d *dualOsc) setNoise(amplitude float64) {
	d.noise = amplitude
}

func (d *dualOsc) setSlaveOctave(octave float64) {
	d.octave = octave
	d.updateFreqs()
}

func (d *dualOsc) setSlaveSemi(semi float64) {
	d.semi = semi
	d.updateFreqs()
}

func (d *dualOsc) setSlaveFine(cent float64) {
	d.fine = cent
	d.updateFreqs()
}

func (d *dualOsc) setSync(synced bool) {
	for _, o := range d.slaves {
		o.setSynced(synced)
	}
}

func (d *dualOsc) forMasters(f func(o *osc)) {
	for _, o := range d.masters {
		f(o)
	}
}

func (d *dualOsc) forSlaves(f func(o *osc)) {
	for _, o := range d.slaves {
		f(o)
	}
}

// keyFreq is the bent note frequency used for filter key tracking.
func (d *dualOsc) keyFreq() float64 {
	return d.baseFreq * d.bendCoef
}

func (d *dualOsc) onEvent(e Event) {
	switch ev := e.(type) {
	case NoteOn:
		d.baseFreq = ev.Freq
		d.driftCoef = math.Pow(2, (d.rand.Float64()*2-1)*d.drift/48)
		for i := 0; i < maxUnison; i++ {
			masterPhase := d.rand.Float64()
			slavePhase := d.rand.Float64()
			d.masters[i].reset(masterPhase, 0)
			d.slaves[i].reset(slavePhase, masterPhase)
		}
		d.updateFreqs()
	case PitchBend:
		d.bendCoef = ev.Coef
		d.updateFreqs()
	}
}

func unisonOffset(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return (2*float64(i)/float64(n-1) - 1) / 24
}

func unisonRightGain(i, n int, width float64) float64 {
	if n <= 1 {
		return 0.5
	}
	return 0.5*(1-width) + width*float64(i)/float64(n-1)
}

func (d *dualOsc) updateFreqs() {
	master := d.baseFreq * d.driftCoef * d.bendCoef
	slave := master * math.Pow(2, d.octave+d.semi/12+d.fine/1200)
	for i := 0; i < d.unison; i++ {
		mul := math.Pow(2, d.detune*unisonOffset(i, d.unison))
		d.masters[i].setFreq(master * mul)
		d.slaves[i].setFreq(slave * mul)
		d.slaves[i].setMasterFreq(master * mul)
	}
}

// generate overwrites left and right with the oscillator output.
func (d *dualOsc) generate(left, right []float64) {
	for i := range left {
		left[i] = (d.rand.Float64()*2 - 1) * d.noise
		right[i] = (d.rand.Float64()*2 - 1) * d.noise
	}
	n := float64(d.unison)
	for u := 0; u < d.unison; u++ {
		mono := d.mono[:len(left)]
		zero(mono)
		d.masters[u].generate(mono)
		d.slaves[u].generate(mono)
		r := unisonRightGain(u, d.unison, d.stereo) / n
		l := (1 - unisonRightGain(u, d.unison, d.stereo)) / n
		for i, v := range mono {
			left[i] += v * l
			right[i] += v * r
		}
	}
}
