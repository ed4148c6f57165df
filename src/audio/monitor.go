package audio

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

const monitorSize = 2048 // power of two

// ----- Monitor ----- //

// monitor keeps the most recent mono mix so a UI can draw a spectrum.
type monitor struct {
	ring []float64
	pos  int
}

func newMonitor(size int) *monitor {
	return &monitor{ring: make([]float64, size)}
}

func (m *monitor) write(out [][]float64, n int) {
	gain := 1 / float64(len(out))
	for i := 0; i < n; i++ {
		v := 0.0
		for ch := range out {
			v += out[ch][i]
		}
		m.ring[m.pos] = v * gain
		m.pos++
		if m.pos >= len(m.ring) {
			m.pos = 0
		}
	}
}

// snapshot copies the ring into dst, oldest sample first.
func (m *monitor) snapshot(dst []float64) {
	k := copy(dst, m.ring[m.pos:])
	copy(dst[k:], m.ring[:m.pos])
}

// ----- Spectrum ----- //

// analyzer turns a frame into normalized magnitudes.
type analyzer struct {
	sync.Mutex
	fft    *FFT
	window []float64
	re     []float64
	im     []float64
	mag    []float64
}

func newAnalyzer(size int) *analyzer {
	fft, err := NewFFT(size)
	if err != nil {
		panic(err)
	}
	return &analyzer{
		fft:    fft,
		window: hanWindow(size),
		re:     make([]float64, size),
		im:     make([]float64, size),
		mag:    make([]float64, size),
	}
}

// magnitudes expects a.re to hold the frame.
func (a *analyzer) magnitudes() []float64 {
	n := a.fft.Len()
	vecmath.MulBlockInPlace(a.re, a.window)
	zero(a.im)
	a.fft.Calc(a.re, a.im)
	vecmath.Magnitude(a.mag, a.re, a.im)
	vecmath.ScaleBlock(a.mag, a.mag, 2/float64(n))
	result := make([]float64, n/2)
	copy(result, a.mag)
	return result
}

// Spectrum returns the magnitude spectrum of the latest output, one value
// per bin up to Nyquist. Bin i is at i*SampleRate/2048 Hz.
func (s *Synth) Spectrum() []float64 {
	a := s.analyzer
	a.Lock()
	defer a.Unlock()
	s.mu.Lock()
	s.monitor.snapshot(a.re)
	s.mu.Unlock()
	return a.magnitudes()
}
