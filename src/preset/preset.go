package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/jinjor/desktop-synth/src/audio"
)

// Target is what a preset is applied to and captured from.
type Target interface {
	SetParameter(id string, value float64) error
	Parameters() map[string]float64
}

// Preset is a flat id -> value map.
type Preset struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params"`
}

// Capture snapshots every parameter of t.
func Capture(name string, t Target) *Preset {
	return &Preset{Name: name, Params: t.Parameters()}
}

// Read decodes a preset from r.
func Read(r io.Reader) (*Preset, error) {
	p := &Preset{}
	if err := json.NewDecoder(r).Decode(p); err != nil {
		return nil, fmt.Errorf("failed to decode preset: %w", err)
	}
	if p.Params == nil {
		p.Params = map[string]float64{}
	}
	return p, nil
}

// Write encodes p to w.
func (p *Preset) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Load ...
func Load(path string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes through a temporary file so a watcher never sees a partial preset.
func (p *Preset) Save(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := p.Write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ApplyTo pushes every value into t in id order. Unknown ids are logged and
// skipped; the count of applied values is returned with the first other error.
func (p *Preset) ApplyTo(t Target) (int, error) {
	ids := make([]string, 0, len(p.Params))
	for id := range p.Params {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	applied := 0
	var firstErr error
	for _, id := range ids {
		err := t.SetParameter(id, p.Params[id])
		if err == nil {
			applied++
			continue
		}
		if errors.Is(err, audio.ErrUnknownParameter) {
			log.Printf("[WARN] preset %q: %v", p.Name, err)
			continue
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return applied, firstErr
}

// ErrNotFound is returned by Manager for a missing preset.
var ErrNotFound = errors.New("preset not found")
