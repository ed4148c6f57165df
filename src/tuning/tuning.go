package tuning

import "math"

// Tuning maps a MIDI note to a frequency.
type Tuning interface {
	Freq(note int) float64
}

// ----- Equal Temperament ----- //

// Equal is 12-tone equal temperament with A4 (note 69) at A.
type Equal struct {
	A float64
}

// Standard ...
var Standard = Equal{A: 440}

// Freq ...
func (e Equal) Freq(note int) float64 {
	return e.A * math.Pow(2, float64(note-69)/12)
}

// ----- Scala ----- //

// RootNote is the note that plays the scale's 1/1.
const RootNote = 60

// ScaleTuning repeats a Scale every len(Ratios) notes around RootNote.
type ScaleTuning struct {
	ratios   []float64 // starts with 1/1, period removed
	period   float64
	rootFreq float64
}

// NewScaleTuning ...
func NewScaleTuning(s *Scale) *ScaleTuning {
	size := len(s.Ratios)
	ratios := make([]float64, size)
	ratios[0] = 1
	copy(ratios[1:], s.Ratios[:size-1])
	return &ScaleTuning{
		ratios:   ratios,
		period:   s.Ratios[size-1],
		rootFreq: Standard.Freq(RootNote),
	}
}

// Freq ...
func (t *ScaleTuning) Freq(note int) float64 {
	size := len(t.ratios)
	offset := note - RootNote
	periods := floorDiv(offset, size)
	degree := offset - periods*size
	return t.rootFreq * math.Pow(t.period, float64(periods)) * t.ratios[degree]
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
