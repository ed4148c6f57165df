package audio

import "math"

// hanWindow returns Hann coefficients for a periodic window of length n.
func hanWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
	}
	return w
}
