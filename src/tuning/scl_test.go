package tuning

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

const pentatonic = `! pentatonic.scl
!
Just pentatonic
 5
!
 9/8
 5/4
 701.955 fifth
 5/3
 2
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(pentatonic))
	expectNoError(t, err)
	if s.Description != "Just pentatonic" {
		t.Errorf("unexpected description: %q", s.Description)
	}
	if len(s.Ratios) != 5 {
		t.Fatalf("expected 5 ratios, but got %v", len(s.Ratios))
	}
	expectNearlyEqual(t, s.Ratios[0], 9.0/8)
	expectNearlyEqual(t, s.Ratios[1], 5.0/4)
	expectNearlyEqual(t, s.Ratios[2], 1.5)
	expectNearlyEqual(t, s.Ratios[3], 5.0/3)
	expectNearlyEqual(t, s.Ratios[4], 2)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no count":      "desc\nfoo\n",
		"bad pitch":     "desc\n1\nabc\n",
		"zero division": "desc\n1\n3/0\n",
		"too few":       "desc\n3\n2/1\n",
		"no pitches":    "desc\n0\n",
	}
	for name, text := range cases {
		_, err := Parse(strings.NewReader(text))
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%s: expected ErrSyntax, but got: %v", name, err)
		}
	}
}

func TestEqual(t *testing.T) {
	expectNearlyEqual(t, Standard.Freq(69), 440)
	expectNearlyEqual(t, Standard.Freq(81), 880)
	expectNearlyEqual(t, Standard.Freq(60), 261.6256)
}

func TestScaleTuning(t *testing.T) {
	s, err := Parse(strings.NewReader(pentatonic))
	expectNoError(t, err)
	tuning := NewScaleTuning(s)
	root := Standard.Freq(RootNote)
	expectNearlyEqual(t, tuning.Freq(60), root)
	expectNearlyEqual(t, tuning.Freq(61), root*9/8)
	expectNearlyEqual(t, tuning.Freq(63), root*1.5)
	expectNearlyEqual(t, tuning.Freq(65), root*2)
	expectNearlyEqual(t, tuning.Freq(66), root*2*9/8)
	expectNearlyEqual(t, tuning.Freq(59), root/2*5/3)
	expectNearlyEqual(t, tuning.Freq(55), root/2)
}

func TestScaleTuningNonOctavePeriod(t *testing.T) {
	s, err := Parse(strings.NewReader("Bohlen-Pierce\n2\n9/7\n3/1\n"))
	expectNoError(t, err)
	tuning := NewScaleTuning(s)
	root := Standard.Freq(RootNote)
	expectNearlyEqual(t, tuning.Freq(62), root*3)
	expectNearlyEqual(t, tuning.Freq(58), root/3)
	expectNearlyEqual(t, tuning.Freq(63), root*3*9/7)
}
