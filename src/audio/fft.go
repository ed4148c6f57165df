package audio

import (
	"fmt"
	"math"
)

// ----- FFT ----- //

// FFT is a radix-2 transform working on split real/imaginary slices.
type FFT struct {
	bitReverseTable []int
	wRe             []float64
	wIm             []float64
}

// NewFFT ...
func NewFFT(length int) (*FFT, error) {
	if length < 2 || length&(length-1) != 0 {
		return nil, fmt.Errorf("fft length must be a power of two: %d", length)
	}
	f := &FFT{
		bitReverseTable: make([]int, length),
		wRe:             make([]float64, length/2),
		wIm:             make([]float64, length/2),
	}
	for i := range f.bitReverseTable {
		f.bitReverseTable[i] = bitReverse(i, length)
	}
	w := -2.0 * math.Pi / float64(length)
	for i := range f.wRe {
		f.wRe[i] = math.Cos(w * float64(i))
		f.wIm[i] = math.Sin(w * float64(i))
	}
	return f, nil
}

// Len ...
func (f *FFT) Len() int {
	return len(f.bitReverseTable)
}

func bitReverse(k, n int) int {
	m := 0
	for ; n > 1; n = n >> 1 {
		m = m<<1 + k&1
		k = k >> 1
	}
	return m
}

// Calc transforms re and im in place. Both must have length Len().
func (f *FFT) Calc(re, im []float64) {
	n := len(f.bitReverseTable)
	re = re[:n]
	im = im[:n]
	for i := 0; i < n; i++ {
		rev := f.bitReverseTable[i]
		if i < rev {
			re[i], re[rev] = re[rev], re[i]
			im[i], im[rev] = im[rev], im[i]
		}
	}
	for m := 1; m < n; m = m << 1 {
		step := m << 1
		for k := 0; k < m; k++ {
			idx := n / step * k
			wr, wi := f.wRe[idx], f.wIm[idx]
			for i := k; i < n; i += step {
				j := i + m
				tr := re[j]*wr - im[j]*wi
				ti := re[j]*wi + im[j]*wr
				re[j] = re[i] - tr
				im[j] = im[i] - ti
				re[i] += tr
				im[i] += ti
			}
		}
	}
}
