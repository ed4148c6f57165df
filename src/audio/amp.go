package audio

import "github.com/cwbudde/algo-vecmath"

// ----- Amp ----- //

type amp struct {
	env      *adsr
	volume   float64
	velocity float64
	gainBuf  []float64
}

func newAmp(env *adsr, maxBlock int) *amp {
	return &amp{
		env:      env,
		volume:   1,
		velocity: 1,
		gainBuf:  make([]float64, maxBlock),
	}
}

func (a *amp) setVolume(volume float64) {
	a.volume = clamp(volume, 0, 1)
}

func (a *amp) onEvent(e Event) {
	if ev, ok := e.(NoteOn); ok {
		a.velocity = velocityToGain(ev.Velocity)
	}
	a.env.onEvent(e)
}

func (a *amp) isActive() bool {
	return a.env.isActive()
}

// process applies velocity, volume and the envelope in place.
func (a *amp) process(left, right []float64) {
	gain := a.gainBuf[:len(left)]
	a.env.generate(gain)
	vecmath.ScaleBlock(gain, gain, a.velocity*a.volume)
	vecmath.MulBlockInPlace(left, gain)
	vecmath.MulBlockInPlace(right, gain)
}
