package audio

// ----- Delay ----- //

const (
	minEchoTime = 10.0   // ms
	maxEchoTime = 1000.0 // ms
)

type delay struct {
	cursor int
	past   []float64
}

// allocate reserves room for the longest delay at the given sample rate.
func (d *delay) allocate(sampleRate float64) {
	d.past = make([]float64, int(sampleRate*maxEchoTime/1000)+1)
	d.cursor = 0
}

func (d *delay) setLength(sampleRate float64, millis float64) {
	millis = clamp(millis, minEchoTime, maxEchoTime)
	length := int(sampleRate * millis / 1000)
	if length < 1 {
		length = 1
	}
	if length > cap(d.past) {
		length = cap(d.past)
	}
	d.past = d.past[0:length]
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
}

func (d *delay) step(in float64) {
	d.past[d.cursor] = in
	d.cursor++
	if d.cursor >= len(d.past) {
		d.cursor = 0
	}
}

func (d *delay) getDelayed() float64 {
	return d.past[d.cursor]
}

func (d *delay) clear() {
	past := d.past[:cap(d.past)]
	zero(past)
}

// ----- Echo ----- //

// echo is a stereo feedback delay applied to the summed pool output.
type echo struct {
	sampleRate   float64
	enabled      bool
	time         float64 // ms
	feedbackGain float64 // [0,1)
	mix          float64 // [0,1]
	delays       [2]delay
}

func newEcho(sampleRate float64) *echo {
	e := &echo{time: 500}
	e.setSampleRate(sampleRate)
	return e
}

func (e *echo) setSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	for i := range e.delays {
		e.delays[i].allocate(sampleRate)
		e.delays[i].setLength(sampleRate, e.time)
	}
}

func (e *echo) setEnabled(enabled bool) {
	if enabled && !e.enabled {
		for i := range e.delays {
			e.delays[i].clear()
		}
	}
	e.enabled = enabled
}

func (e *echo) setTime(millis float64) {
	e.time = millis
	for i := range e.delays {
		e.delays[i].setLength(e.sampleRate, millis)
	}
}

func (e *echo) setFeedback(gain float64) {
	e.feedbackGain = clamp(gain, 0, 0.95)
}

func (e *echo) setMix(mix float64) {
	e.mix = clamp(mix, 0, 1)
}

func (e *echo) step(d *delay, in float64) float64 {
	delayed := d.getDelayed()
	d.step(in + delayed*e.feedbackGain)
	return in + delayed*e.mix
}

// process runs channel 0 through the left delay and channel 1 through the right one.
func (e *echo) process(out [][]float64, n int) {
	if !e.enabled {
		return
	}
	for ch := 0; ch < len(out) && ch < len(e.delays); ch++ {
		d := &e.delays[ch]
		buf := out[ch][:n]
		for i, v := range buf {
			buf[i] = e.step(d, v)
		}
	}
}
