package audio

import "math"

// ----- ADSR ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

const (
	attackOvershoot = 1.05
	releaseFloor    = 1e-8
	minRate         = 1.0
	maxRate         = 100.0
)

/*
  1 +     x
    |    / \
    |   /   \
  s +  /     x------x
    | /              \
    |/                \
  0 +-----+----+------+---
    |a    |d   |s     |r |
*/
// adsr is a one-pole exponential envelope. Rates run from 1 (slow) to 100 (fast)
// and are converted to per-sample coefficients relative to 44.1kHz.
type adsr struct {
	sampleRate  float64
	attackRate  float64
	decayRate   float64
	releaseRate float64
	sustain     float64
	attackCoef  float64
	decayCoef   float64
	releaseCoef float64
	value       float64
	stage       int
}

func newADSR(sampleRate float64) *adsr {
	a := &adsr{
		sampleRate:  sampleRate,
		attackRate:  maxRate,
		decayRate:   maxRate,
		releaseRate: maxRate,
		sustain:     1,
	}
	a.updateCoefs()
	return a
}

func (a *adsr) setSampleRate(sampleRate float64) {
	a.sampleRate = sampleRate
	a.updateCoefs()
}

func (a *adsr) setAttackRate(rate float64) {
	a.attackRate = clamp(rate, minRate, maxRate)
	a.updateCoefs()
}

func (a *adsr) setDecayRate(rate float64) {
	a.decayRate = clamp(rate, minRate, maxRate)
	a.updateCoefs()
}

func (a *adsr) setReleaseRate(rate float64) {
	a.releaseRate = clamp(rate, minRate, maxRate)
	a.updateCoefs()
}

func (a *adsr) setSustain(level float64) {
	a.sustain = clamp(level, 0, 1)
}

func (a *adsr) updateCoefs() {
	exp := referenceSampleRate / a.sampleRate
	a.attackCoef = math.Pow(1-0.0001*a.attackRate*a.attackRate, exp)
	a.decayCoef = math.Pow(1-0.00001*a.decayRate, exp)
	a.releaseCoef = math.Pow(1-0.00001*a.releaseRate, exp)
}

func (a *adsr) onEvent(e Event) {
	switch e.(type) {
	case NoteOn:
		a.noteOn()
	case NoteOff:
		a.noteOff()
	}
}

func (a *adsr) noteOn() {
	a.stage = stageAttack
	a.value = 0
}

func (a *adsr) noteOff() {
	if a.stage == stageIdle {
		return
	}
	a.stage = stageRelease
}

func (a *adsr) isActive() bool {
	return a.stage != stageIdle
}

func (a *adsr) step() float64 {
	switch a.stage {
	case stageAttack:
		a.value = attackOvershoot * (1 - (1-a.value/attackOvershoot)*a.attackCoef)
		if a.value >= 1 {
			a.value = 1
			a.stage = stageDecay
		}
		return a.value
	case stageDecay:
		a.value *= a.decayCoef
		if a.value <= a.sustain {
			a.value = a.sustain
			a.stage = stageSustain
		}
		return a.value
	case stageSustain:
		a.value = a.sustain
		return a.value
	case stageRelease:
		a.value *= a.releaseCoef
		if math.Abs(a.value) < releaseFloor {
			a.value = 0
			a.stage = stageIdle
		}
		return a.value
	default:
		return 0
	}
}

func (a *adsr) generate(out []float64) {
	for i := range out {
		out[i] = a.step()
	}
}
