package audio

// ----- BLEP ----- //

// poly3blep0 is the integrated polynomial step residual after a discontinuity.
func poly3blep0(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	t2 := t * t
	return t2*t - 0.5*t2*t2
}

// poly3blep1 is the residual carried into the following sample.
func poly3blep1(t float64) float64 {
	return -poly3blep0(1 - t)
}

// fractionalTime is how far back (in samples, 0-1) a crossing happened.
func fractionalTime(overshoot, normFreq float64) float64 {
	if normFreq <= 0 {
		return 1
	}
	return clamp(overshoot/normFreq, 0, 1)
}

// ----- OSC ----- //

const (
	rampUp = iota
	rampDown
)

const (
	minPulseWidth = 0.01
	maxPulseWidth = 0.99
)

// osc morphs between saw (mix=0) and pulse (mix=1) with polynomial
// band-limited steps. Output lags one sample behind the phase so that
// residuals on both sides of each discontinuity can be applied.
type osc struct {
	sampleRate     float64
	freq           float64
	masterFreq     float64
	normFreq       float64
	normMasterFreq float64
	phase          float64
	masterPhase    float64
	stage          int
	currValue      float64
	nextValue      float64
	mix            float64
	pulseWidth     float64
	amplitude      float64
	synced         bool
}

func newOsc(sampleRate float64) *osc {
	return &osc{
		sampleRate: sampleRate,
		pulseWidth: 0.5,
		amplitude:  1,
	}
}

func (o *osc) setSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	o.updateNormalizedFreqs()
}

func (o *osc) setFreq(freq float64) {
	o.freq = freq
	o.updateNormalizedFreqs()
}

func (o *osc) setMasterFreq(freq float64) {
	o.masterFreq = freq
	o.updateNormalizedFreqs()
}

func (o *osc) updateNormalizedFreqs() {
	o.normFreq = o.freq / o.sampleRate
	o.normMasterFreq = o.masterFreq / o.sampleRate
}

func (o *osc) normalizedFreq() float64 {
	return o.normFreq
}

func (o *osc) setMix(mix float64) {
	o.mix = clamp(mix, 0, 1)
}

func (o *osc) setPulseWidth(pw float64) {
	o.pulseWidth = clamp(pw, minPulseWidth, maxPulseWidth)
}

func (o *osc) setAmplitude(amplitude float64) {
	o.amplitude = amplitude
}

func (o *osc) setSynced(synced bool) {
	o.synced = synced
}

func (o *osc) reset(phase, masterPhase float64) {
	o.phase = positiveMod(phase, 1)
	o.masterPhase = positiveMod(masterPhase, 1)
	o.stage = rampUp
	if o.phase >= o.pulseWidth {
		o.stage = rampDown
	}
	o.currValue = 0
	o.nextValue = 0
}

func (o *osc) naive(phase float64) float64 {
	v := (1 - o.mix) * phase
	if o.stage == rampDown {
		v += o.mix
	}
	return v
}

// resolve applies residuals for every edge the phase has crossed.
// offset shifts the residual time when the edges are measured from a sync reset.
func (o *osc) resolve(phase *float64, offset float64) {
	for {
		if o.stage == rampUp {
			if *phase < o.pulseWidth {
				return
			}
			t := fractionalTime(*phase-o.pulseWidth, o.normFreq) + offset
			o.currValue += o.mix * poly3blep0(t)
			o.nextValue += o.mix * poly3blep1(t)
			o.stage = rampDown
		}
		if *phase < 1 {
			return
		}
		t := fractionalTime(*phase-1, o.normFreq) + offset
		o.currValue -= poly3blep0(t)
		o.nextValue -= poly3blep1(t)
		*phase -= 1
		o.stage = rampUp
	}
}

func (o *osc) step() float64 {
	o.currValue = o.nextValue
	o.nextValue = 0
	o.phase += o.normFreq
	if o.synced {
		o.masterPhase += o.normMasterFreq
		for o.masterPhase >= 1 {
			resetTime := fractionalTime(o.masterPhase-1, o.normMasterFreq)
			phaseAtReset := o.phase - o.normFreq*resetTime
			o.resolve(&phaseAtReset, resetTime)
			jump := o.naive(phaseAtReset)
			o.currValue -= jump * poly3blep0(resetTime)
			o.nextValue -= jump * poly3blep1(resetTime)
			o.masterPhase -= 1
			o.phase = o.normFreq * resetTime
			o.stage = rampUp
			if o.normMasterFreq <= 0 {
				break
			}
		}
	}
	o.resolve(&o.phase, 0)
	o.nextValue += o.naive(o.phase)
	return o.amplitude * (2*o.currValue - 1)
}

// generate adds the oscillator output to out.
func (o *osc) generate(out []float64) {
	for i := range out {
		out[i] += o.step()
	}
}
