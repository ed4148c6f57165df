package audio

import "math"

// ----- Events ----- //

// Event is one of NoteOn, NoteOff or PitchBend.
type Event interface {
	isEvent()
}

// NoteOn starts a note. Freq is resolved by the tuning collaborator, not by the engine.
type NoteOn struct {
	Note     int
	Freq     float64
	Velocity int // 0-127
}

// NoteOff releases every voice playing Note.
type NoteOff struct {
	Note int
}

// PitchBend carries a frequency multiplier, 2^(semitones/12).
type PitchBend struct {
	Coef float64
}

func (NoteOn) isEvent()    {}
func (NoteOff) isEvent()   {}
func (PitchBend) isEvent() {}

const (
	pitchBendCenter = 8192
	pitchBendRange  = 2.0 // semitones in each direction
)

// PitchBendFromMIDI converts a 14-bit bend payload (0-16383) to a PitchBend event.
func PitchBendFromMIDI(value int) PitchBend {
	if value < 0 {
		value = 0
	}
	if value > 16383 {
		value = 16383
	}
	semitones := 2*pitchBendRange*float64(value)/(2*pitchBendCenter) - pitchBendRange
	return PitchBend{Coef: math.Pow(2, semitones/12)}
}

// velocityToGain maps MIDI velocity to the amplifier's velocity scale.
func velocityToGain(velocity int) float64 {
	if velocity < 0 {
		velocity = 0
	}
	if velocity > 127 {
		velocity = 127
	}
	return 0.2 + 0.8*float64(velocity)/127
}
