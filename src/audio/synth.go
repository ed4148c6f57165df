package audio

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// ErrInvalidPolyphony is returned when the pool would have no voices.
var ErrInvalidPolyphony = errors.New("polyphony must be positive")

// ----- Config ----- //

// Config ...
type Config struct {
	SampleRate float64
	Channels   int
	Polyphony  int
	MaxBlock   int   // frames rendered per internal chunk
	Seed       int64 // 0 picks a time based seed
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		Channels:   2,
		Polyphony:  16,
		MaxBlock:   8192,
	}
}

func (c Config) validate() error {
	if c.Polyphony <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPolyphony, c.Polyphony)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %v", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", c.Channels)
	}
	if c.MaxBlock <= 0 {
		return fmt.Errorf("invalid block size: %d", c.MaxBlock)
	}
	return nil
}

// ----- Synth ----- //

// Synth is the entry point shared by the audio thread and control input.
// One mutex serializes Generate against events and parameter changes.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	maxBlock   int
	params     *Registry
	pool       *pool
	echo       *echo
	monitor    *monitor
	analyzer   *analyzer
	views      [][]float64
}

// NewSynth ...
func NewSynth(config Config) (*Synth, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	params, err := NewRegistry(defaultParams()...)
	if err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	pool, err := newPool(config.Polyphony, func(i int) *voice {
		v := newVoice(rand.New(rand.NewSource(seed+int64(i))), config.SampleRate, config.MaxBlock)
		params.bindVoice(v)
		return v
	})
	if err != nil {
		return nil, err
	}
	s := &Synth{
		sampleRate: config.SampleRate,
		maxBlock:   config.MaxBlock,
		params:     params,
		pool:       pool,
		echo:       newEcho(config.SampleRate),
		monitor:    newMonitor(monitorSize),
		analyzer:   newAnalyzer(monitorSize),
		views:      make([][]float64, config.Channels),
	}
	params.bindEcho(s.echo)
	return s, nil
}

// SampleRate ...
func (s *Synth) SampleRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

// SetSampleRate propagates a new rate to every voice. Not for the audio thread:
// the echo lines are reallocated.
func (s *Synth) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		log.Printf("[WARN] ignored sample rate %v", sampleRate)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampleRate = sampleRate
	s.pool.setSampleRate(sampleRate)
	s.echo.setSampleRate(sampleRate)
	s.echo.setTime(s.params.byID[ParamEchoTime].Value())
}

// OnEvent ...
func (s *Synth) OnEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.onEvent(e)
}

// SetParameter ...
func (s *Synth) SetParameter(id string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Set(id, value)
}

// SetParameterString ...
func (s *Synth) SetParameterString(id string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.SetString(id, value)
}

// Parameter returns the current value of id.
func (s *Synth) Parameter(id string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.params.Get(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	return p.Value(), nil
}

// Parameters returns a snapshot of every parameter value.
func (s *Synth) Parameters() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Values()
}

// ParameterInfo describes the registry without values.
type ParameterInfo struct {
	ID      string
	Kind    ParamKind
	Min     float64
	Max     float64
	Default float64
	Unit    string
}

// ParameterInfos ...
func (s *Synth) ParameterInfos() []ParameterInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]ParameterInfo, 0, len(s.params.All()))
	for _, p := range s.params.All() {
		infos = append(infos, ParameterInfo{ID: p.ID, Kind: p.Kind, Min: p.Min, Max: p.Max, Default: p.Default, Unit: p.Unit})
	}
	return infos
}

// IsActive reports whether any voice is still sounding.
func (s *Synth) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.activeCount() > 0
}

// ActiveVoices ...
func (s *Synth) ActiveVoices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.activeCount()
}

// Generate overwrites out[ch][:n] for every channel. Odd channels carry the
// right side of each voice, even channels the left. It does not allocate
// while len(out) <= Config.Channels. A fault while rendering is logged and the block is replaced by silence.
func (s *Synth) Generate(out [][]float64, n int) {
	if len(out) == 0 || n <= 0 {
		return
	}
	for ch := range out {
		if len(out[ch]) < n {
			n = len(out[ch])
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered in Generate: %v", r)
			for ch := range out {
				zero(out[ch][:n])
			}
		}
	}()
	views := s.views[:0]
	for offset := 0; offset < n; offset += s.maxBlock {
		size := n - offset
		if size > s.maxBlock {
			size = s.maxBlock
		}
		views = views[:0]
		for ch := range out {
			views = append(views, out[ch][offset:offset+size])
		}
		s.pool.generate(views, size)
		s.echo.process(views, size)
		s.monitor.write(views, size)
	}
}
