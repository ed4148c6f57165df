package tuning

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("invalid scala file")

// Scale is a parsed .scl file. Ratios excludes the implicit 1/1;
// the last ratio is the period (usually 2/1).
type Scale struct {
	Description string
	Ratios      []float64
}

const (
	stateDescription = iota
	stateCount
	statePitches
)

// Load reads a .scl file from path.
func Load(path string) (*Scale, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads the Scala format: comment lines start with '!', then a
// description line, a pitch count and one pitch per line.
func Parse(r io.Reader) (*Scale, error) {
	scanner := bufio.NewScanner(r)
	state := stateDescription
	scale := &Scale{}
	count := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "!") {
			continue
		}
		switch state {
		case stateDescription:
			scale.Description = strings.TrimSpace(line)
			state = stateCount
		case stateCount:
			fields := strings.Fields(line)
			if len(fields) == 0 {
				return nil, fmt.Errorf("%w: line %d: expected number of notes", ErrSyntax, lineNum)
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: expected number of notes, found %q", ErrSyntax, lineNum, line)
			}
			count = n
			scale.Ratios = make([]float64, 0, n)
			state = statePitches
		case statePitches:
			if strings.TrimSpace(line) == "" || len(scale.Ratios) == count {
				continue
			}
			ratio, err := parsePitch(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, lineNum, err)
			}
			scale.Ratios = append(scale.Ratios, ratio)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if state != statePitches {
		return nil, fmt.Errorf("%w: missing header", ErrSyntax)
	}
	if len(scale.Ratios) != count {
		return nil, fmt.Errorf("%w: expected %d pitches, found %d", ErrSyntax, count, len(scale.Ratios))
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: scale has no pitches", ErrSyntax)
	}
	return scale, nil
}

// parsePitch accepts cents ("701.955"), ratios ("3/2") and integers ("2").
// Anything after the first field is a comment.
func parsePitch(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("expected pitch definition, found %q", line)
	}
	s := fields[0]
	if strings.Contains(s, ".") {
		cents, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cents %q", s)
		}
		return math.Pow(2, cents/1200), nil
	}
	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ratio %q", s)
	}
	d, err := strconv.ParseUint(den, 10, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid ratio %q", s)
	}
	if n == 0 {
		return 0, fmt.Errorf("ratio must be positive: %q", s)
	}
	return float64(n) / float64(d), nil
}
