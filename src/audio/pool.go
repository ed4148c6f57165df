package audio

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// ----- Pool ----- //

type activeVoice struct {
	voice *voice
	note  int
}

// pool hands out a fixed set of voices. pooled + active = polyphony,
// and active is kept in NoteOn order so that active[0] is the oldest note.
type pool struct {
	voices []*voice
	pooled []*voice
	active []activeVoice
}

func newPool(polyphony int, newVoice func(i int) *voice) (*pool, error) {
	if polyphony <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolyphony, polyphony)
	}
	p := &pool{
		voices: make([]*voice, polyphony),
		pooled: make([]*voice, 0, polyphony),
		active: make([]activeVoice, 0, polyphony),
	}
	for i := range p.voices {
		p.voices[i] = newVoice(i)
	}
	for i := len(p.voices) - 1; i >= 0; i-- {
		p.pooled = append(p.pooled, p.voices[i])
	}
	return p, nil
}

func (p *pool) setSampleRate(sampleRate float64) {
	for _, v := range p.voices {
		v.setSampleRate(sampleRate)
	}
}

func (p *pool) onEvent(e Event) {
	switch ev := e.(type) {
	case NoteOn:
		var v *voice
		if n := len(p.pooled); n > 0 {
			v = p.pooled[n-1]
			p.pooled = p.pooled[:n-1]
		} else {
			// steal the oldest
			v = p.active[0].voice
			copy(p.active, p.active[1:])
			p.active = p.active[:len(p.active)-1]
		}
		p.active = append(p.active, activeVoice{voice: v, note: ev.Note})
		v.onEvent(ev)
	case NoteOff:
		for _, a := range p.active {
			if a.note == ev.Note {
				a.voice.onEvent(ev)
			}
		}
	case PitchBend:
		for _, v := range p.voices {
			v.onEvent(ev)
		}
	}
}

// generate overwrites out[ch][:n] with the sum of all active voices,
// then moves finished voices back to the free list.
func (p *pool) generate(out [][]float64, n int) {
	for ch := range out {
		zero(out[ch][:n])
	}
	for _, a := range p.active {
		left, right := a.voice.generate(n)
		for ch := range out {
			src := left
			if ch%2 == 1 {
				src = right
			}
			vecmath.AddBlockInPlace(out[ch][:n], src)
		}
	}
	p.recycle()
}

func (p *pool) recycle() {
	kept := 0
	for _, a := range p.active {
		if a.voice.isActive() {
			p.active[kept] = a
			kept++
		} else {
			p.pooled = append(p.pooled, a.voice)
		}
	}
	for i := kept; i < len(p.active); i++ {
		p.active[i] = activeVoice{}
	}
	p.active = p.active[:kept]
}

func (p *pool) activeCount() int {
	return len(p.active)
}

func (p *pool) freeCount() int {
	return len(p.pooled)
}
