package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ext = ".json"

// Manager stores presets as <dir>/<name>.json.
type Manager struct {
	dir string
}

// NewManager ...
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Path returns the file a named preset lives in.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name+ext)
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}

// List returns preset names in alphabetical order.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}

// Load ...
func (m *Manager) Load(name string) (*Preset, error) {
	if !validName(name) {
		return nil, fmt.Errorf("invalid preset name %q", name)
	}
	p, err := Load(m.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, err
}

// Save ...
func (m *Manager) Save(p *Preset) error {
	if !validName(p.Name) {
		return fmt.Errorf("invalid preset name %q", p.Name)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}
	return p.Save(m.Path(p.Name))
}

// ApplyToTarget loads name and applies it to t.
func (m *Manager) ApplyToTarget(name string, t Target) error {
	p, err := m.Load(name)
	if err != nil {
		return err
	}
	_, err = p.ApplyTo(t)
	return err
}
