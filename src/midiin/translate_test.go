package midiin

import (
	"math"
	"strings"
	"testing"

	"github.com/jinjor/desktop-synth/src/audio"
	"github.com/jinjor/desktop-synth/src/tuning"
)

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func TestTranslateNotes(t *testing.T) {
	tr := NewTranslator(nil)
	e, ok := tr.Translate([]byte{0x90, 69, 100})
	if !ok {
		t.Fatal("note-on not translated")
	}
	on, isOn := e.(audio.NoteOn)
	if !isOn || on.Note != 69 || on.Velocity != 100 {
		t.Fatalf("unexpected event: %#v", e)
	}
	expectNearlyEqual(t, on.Freq, 440)

	e, _ = tr.Translate([]byte{0x93, 60, 0})
	if off, ok := e.(audio.NoteOff); !ok || off.Note != 60 {
		t.Errorf("expected note-off for velocity 0, but got %#v", e)
	}
	e, _ = tr.Translate([]byte{0x80, 61, 64})
	if off, ok := e.(audio.NoteOff); !ok || off.Note != 61 {
		t.Errorf("expected note-off, but got %#v", e)
	}
}

func TestTranslatePitchBend(t *testing.T) {
	tr := NewTranslator(nil)
	e, ok := tr.Translate([]byte{0xe0, 0x00, 0x40})
	if !ok {
		t.Fatal("pitch bend not translated")
	}
	expectNearlyEqual(t, e.(audio.PitchBend).Coef, 1)
	e, _ = tr.Translate([]byte{0xe0, 0x00, 0x00})
	expectNearlyEqual(t, e.(audio.PitchBend).Coef, math.Pow(2, -2.0/12))
}

func TestTranslateIgnoresOthers(t *testing.T) {
	tr := NewTranslator(nil)
	for _, data := range [][]byte{{0xb0, 1, 64}, {0xf8}, {0x90, 60}} {
		if _, ok := tr.Translate(data); ok {
			t.Errorf("expected %v to be ignored", data)
		}
	}
}

func TestTranslateUsesTuning(t *testing.T) {
	s, err := tuning.Parse(strings.NewReader("fifths\n2\n3/2\n2/1\n"))
	if err != nil {
		t.Fatal(err)
	}
	tr := NewTranslator(tuning.NewScaleTuning(s))
	e, _ := tr.Translate([]byte{0x90, 61, 100})
	expectNearlyEqual(t, e.(audio.NoteOn).Freq, tuning.Standard.Freq(60)*1.5)
}

type port string

func (p port) String() string { return string(p) }

func TestSelectIndex(t *testing.T) {
	ports := []port{"Midi Through", "Arturia KeyStep 32"}
	get := func(i int) named { return ports[i] }
	if i := selectIndex(len(ports), get, ""); i != 0 {
		t.Errorf("expected first port, but got %v", i)
	}
	if i := selectIndex(len(ports), get, "keystep"); i != 1 {
		t.Errorf("expected KeyStep, but got %v", i)
	}
	if i := selectIndex(len(ports), get, "launchpad"); i != -1 {
		t.Errorf("expected no match, but got %v", i)
	}
	if i := selectIndex(0, get, ""); i != -1 {
		t.Errorf("expected no match, but got %v", i)
	}
}
