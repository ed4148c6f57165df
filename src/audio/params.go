package audio

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrUnknownParameter is returned for an id that is not in the registry.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidRange is returned when a parameter's min, default and max are out of order.
	ErrInvalidRange = errors.New("invalid parameter range")
)

// ----- Parameter ----- //

// ParamKind ...
type ParamKind int

// ParamKind values
const (
	ParamFloat ParamKind = iota
	ParamInt
	ParamBool
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamBool:
		return "bool"
	default:
		return "float"
	}
}

// Parameter is a single control. Set clamps, so a stored value is always within [Min, Max].
type Parameter struct {
	ID        string
	Kind      ParamKind
	Min       float64
	Max       float64
	Default   float64
	Unit      string
	value     float64
	listeners []func(float64)
}

func newParam(id string, kind ParamKind, min, max, def float64, unit string) *Parameter {
	return &Parameter{ID: id, Kind: kind, Min: min, Max: max, Default: def, Unit: unit, value: def}
}

// Value ...
func (p *Parameter) Value() float64 {
	return p.value
}

// Set stores the clamped value and pushes it to every subscriber.
func (p *Parameter) Set(value float64) {
	if math.IsNaN(value) {
		return
	}
	value = clamp(value, p.Min, p.Max)
	switch p.Kind {
	case ParamInt:
		value = math.Round(value)
	case ParamBool:
		if value >= 0.5 {
			value = 1
		} else {
			value = 0
		}
	}
	p.value = value
	for _, f := range p.listeners {
		f(value)
	}
}

// Subscribe registers f and calls it once with the current value.
func (p *Parameter) Subscribe(f func(float64)) {
	p.listeners = append(p.listeners, f)
	f(p.value)
}

func (p *Parameter) parse(s string) (float64, error) {
	switch p.Kind {
	case ParamBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}

// Format renders the value the way SetString accepts it.
func (p *Parameter) Format() string {
	switch p.Kind {
	case ParamBool:
		return strconv.FormatBool(p.value >= 0.5)
	case ParamInt:
		return strconv.FormatInt(int64(p.value), 10)
	default:
		return strconv.FormatFloat(p.value, 'g', -1, 64)
	}
}

// ----- Registry ----- //

// Registry keeps parameters in declaration order.
type Registry struct {
	params []*Parameter
	byID   map[string]*Parameter
}

// NewRegistry validates ranges and ids.
func NewRegistry(params ...*Parameter) (*Registry, error) {
	r := &Registry{
		params: make([]*Parameter, 0, len(params)),
		byID:   make(map[string]*Parameter, len(params)),
	}
	for _, p := range params {
		if !(p.Min <= p.Default && p.Default <= p.Max) {
			return nil, fmt.Errorf("%w: %s [%v, %v] default %v", ErrInvalidRange, p.ID, p.Min, p.Max, p.Default)
		}
		if _, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("duplicate parameter %q", p.ID)
		}
		r.params = append(r.params, p)
		r.byID[p.ID] = p
	}
	return r, nil
}

// Get ...
func (r *Registry) Get(id string) (*Parameter, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// All returns parameters in declaration order.
func (r *Registry) All() []*Parameter {
	return r.params
}

// Set ...
func (r *Registry) Set(id string, value float64) error {
	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	p.Set(value)
	return nil
}

// SetString parses value according to the parameter kind.
func (r *Registry) SetString(id string, value string) error {
	p, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, id)
	}
	v, err := p.parse(value)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", id, err)
	}
	p.Set(v)
	return nil
}

// Values ...
func (r *Registry) Values() map[string]float64 {
	values := make(map[string]float64, len(r.params))
	for _, p := range r.params {
		values[p.ID] = p.value
	}
	return values
}

// ----- Parameter IDs ----- //

// Parameter ids as stored in presets.
const (
	ParamSlaveOctave     = "slave_octave"
	ParamSlaveSemi       = "slave_semi"
	ParamSlaveFine       = "slave_fine"
	ParamDrift           = "drift"
	ParamSync            = "sync"
	ParamMasterMix       = "master_mix"
	ParamSlaveMix        = "slave_mix"
	ParamMasterPW        = "master_pw"
	ParamSlavePW         = "slave_pw"
	ParamMasterAmplitude = "master_amplitude"
	ParamSlaveAmplitude  = "slave_amplitude"
	ParamNoiseAmplitude  = "noise_amplitude"
	ParamUnisonVoices    = "unison_voices"
	ParamUnisonDetune    = "unison_detune"
	ParamUnisonStereo    = "unison_stereo"
	ParamAmpAttack       = "amp_attack"
	ParamAmpDecay        = "amp_decay"
	ParamAmpSustain      = "amp_sustain"
	ParamAmpRelease      = "amp_release"
	ParamVolume          = "volume"
	ParamFilterAttack    = "filter_attack"
	ParamFilterDecay     = "filter_decay"
	ParamFilterSustain   = "filter_sustain"
	ParamFilterRelease   = "filter_release"
	ParamFilterEnvAmount = "filter_env_amount"
	ParamFilterCutoff    = "filter_cutoff"
	ParamFilterQ         = "filter_q"
	ParamFilterMode      = "filter_mode"
	ParamFilterTracking  = "filter_tracking"
	ParamEchoEnabled     = "echo_enabled"
	ParamEchoTime        = "echo_time"
	ParamEchoFeedback    = "echo_feedback"
	ParamEchoMix         = "echo_mix"
)

func defaultParams() []*Parameter {
	return []*Parameter{
		newParam(ParamSlaveOctave, ParamInt, -3, 3, 1, "oct"),
		newParam(ParamSlaveSemi, ParamInt, -12, 12, 0, "semi"),
		newParam(ParamSlaveFine, ParamInt, -50, 50, 0, "cent"),
		newParam(ParamDrift, ParamFloat, 0, 1, 0.05, ""),
		newParam(ParamSync, ParamBool, 0, 1, 1, ""),
		newParam(ParamMasterMix, ParamFloat, 0, 1, 0, ""),
		newParam(ParamSlaveMix, ParamFloat, 0, 1, 1, ""),
		newParam(ParamMasterPW, ParamFloat, minPulseWidth, maxPulseWidth, 0.5, ""),
		newParam(ParamSlavePW, ParamFloat, minPulseWidth, maxPulseWidth, 0.5, ""),
		newParam(ParamMasterAmplitude, ParamFloat, 0.001, 1, 1, ""),
		newParam(ParamSlaveAmplitude, ParamFloat, 0.001, 1, 0.001, ""),
		newParam(ParamNoiseAmplitude, ParamFloat, 0.001, 1, 0.001, ""),
		newParam(ParamUnisonVoices, ParamInt, 1, maxUnison, 3, ""),
		newParam(ParamUnisonDetune, ParamFloat, 0, 1, 0.1, ""),
		newParam(ParamUnisonStereo, ParamFloat, 0, 1, 0.1, ""),
		newParam(ParamAmpAttack, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamAmpDecay, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamAmpSustain, ParamFloat, 0, 1, 0.6, ""),
		newParam(ParamAmpRelease, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamVolume, ParamFloat, 0, 1, 1, ""),
		newParam(ParamFilterAttack, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamFilterDecay, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamFilterSustain, ParamFloat, 0, 1, 0.6, ""),
		newParam(ParamFilterRelease, ParamFloat, minRate, maxRate, 5, ""),
		newParam(ParamFilterEnvAmount, ParamFloat, -10, 10, 0, "oct"),
		newParam(ParamFilterCutoff, ParamFloat, 20, 22050, 22050, "Hz"),
		newParam(ParamFilterQ, ParamFloat, 0.71, 6, 0.71, ""),
		newParam(ParamFilterMode, ParamFloat, 0, 360, 0, "deg"),
		newParam(ParamFilterTracking, ParamFloat, 0, 1, 0, ""),
		newParam(ParamEchoEnabled, ParamBool, 0, 1, 0, ""),
		newParam(ParamEchoTime, ParamFloat, minEchoTime, maxEchoTime, 500, "ms"),
		newParam(ParamEchoFeedback, ParamFloat, 0, 0.95, 0.7, ""),
		newParam(ParamEchoMix, ParamFloat, 0, 1, 0.3, ""),
	}
}

// bindVoice subscribes v to every voice-level parameter.
func (r *Registry) bindVoice(v *voice) {
	sub := func(id string, f func(float64)) {
		r.byID[id].Subscribe(f)
	}
	o := v.osc
	sub(ParamSlaveOctave, o.setSlaveOctave)
	sub(ParamSlaveSemi, o.setSlaveSemi)
	sub(ParamSlaveFine, o.setSlaveFine)
	sub(ParamDrift, o.setDrift)
	sub(ParamSync, func(x float64) { o.setSync(x >= 0.5) })
	sub(ParamMasterMix, func(x float64) { o.forMasters(func(u *osc) { u.setMix(x) }) })
	sub(ParamSlaveMix, func(x float64) { o.forSlaves(func(u *osc) { u.setMix(x) }) })
	sub(ParamMasterPW, func(x float64) { o.forMasters(func(u *osc) { u.setPulseWidth(x) }) })
	sub(ParamSlavePW, func(x float64) { o.forSlaves(func(u *osc) { u.setPulseWidth(x) }) })
	sub(ParamMasterAmplitude, func(x float64) { o.forMasters(func(u *osc) { u.setAmplitude(x) }) })
	sub(ParamSlaveAmplitude, func(x float64) { o.forSlaves(func(u *osc) { u.setAmplitude(x) }) })
	sub(ParamNoiseAmplitude, o.setNoise)
	sub(ParamUnisonVoices, func(x float64) { o.setUnison(int(x)) })
	sub(ParamUnisonDetune, o.setDetune)
	sub(ParamUnisonStereo, o.setStereo)

	ampEnv := v.amp.env
	sub(ParamAmpAttack, ampEnv.setAttackRate)
	sub(ParamAmpDecay, ampEnv.setDecayRate)
	sub(ParamAmpSustain, ampEnv.setSustain)
	sub(ParamAmpRelease, ampEnv.setReleaseRate)
	sub(ParamVolume, v.amp.setVolume)

	f := v.filter
	sub(ParamFilterAttack, f.env.setAttackRate)
	sub(ParamFilterDecay, f.env.setDecayRate)
	sub(ParamFilterSustain, f.env.setSustain)
	sub(ParamFilterRelease, f.env.setReleaseRate)
	sub(ParamFilterEnvAmount, f.setEnvAmount)
	sub(ParamFilterCutoff, f.setCutoff)
	sub(ParamFilterQ, f.setQ)
	sub(ParamFilterMode, f.setMode)
	sub(ParamFilterTracking, f.setTracking)
}

func (r *Registry) bindEcho(e *echo) {
	r.byID[ParamEchoEnabled].Subscribe(func(x float64) { e.setEnabled(x >= 0.5) })
	r.byID[ParamEchoTime].Subscribe(e.setTime)
	r.byID[ParamEchoFeedback].Subscribe(e.setFeedback)
	r.byID[ParamEchoMix].Subscribe(e.setMix)
}
