package midiin

import (
	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/tuning"
)

// Translator turns raw channel messages into engine events.
type Translator struct {
	tuning tuning.Tuning
}

// NewTranslator ...
func NewTranslator(t tuning.Tuning) *Translator {
	if t == nil {
		t = tuning.Standard
	}
	return &Translator{tuning: t}
}

// Translate returns false for anything the engine does not handle.
// A note-on with velocity 0 is a note-off.
func (t *Translator) Translate(data []byte) (audio.Event, bool) {
	if len(data) < 3 {
		return nil, false
	}
	note := int(data[1] & 0x7f)
	value := int(data[2] & 0x7f)
	switch data[0] >> 4 {
	case 0x8:
		return audio.NoteOff{Note: note}, true
	case 0x9:
		if value == 0 {
			return audio.NoteOff{Note: note}, true
		}
		return audio.NoteOn{Note: note, Freq: t.tuning.Freq(note), Velocity: value}, true
	case 0xe:
		return audio.PitchBendFromMIDI(value<<7 | note), true
	}
	return nil, false
}
