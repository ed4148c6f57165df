package audio

import "math"

const referenceSampleRate = 44100.0

func positiveMod(a float64, b float64) float64 {
	if b < 0 {
		panic("b should not be negative")
	}
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
