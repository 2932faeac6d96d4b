package presets

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Registry holds loaded presets and provides lookup utilities.
type Registry struct {
	byName map[string]*Preset
	all    []Preset
}

// NewRegistry creates a registry from loaded presets.
func NewRegistry(presets []Preset) *Registry {
	registry := &Registry{
		byName: make(map[string]*Preset),
		all:    presets,
	}
	for i := range presets {
		registry.byName[presets[i].Name] = &presets[i]
	}
	return registry
}

// LoadRegistry loads and creates a registry from the embedded presets.json.
func LoadRegistry() (*Registry, error) {
	presets, err := LoadPresets()
	if err != nil {
		return nil, err
	}
	if len(presets) == 0 {
		return nil, errors.New("no presets loaded from presets.json")
	}
	return NewRegistry(presets), nil
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	registry, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByName returns the preset with the given name, or nil if not found.
func (r *Registry) GetByName(name string) *Preset {
	return r.byName[name]
}

// Lookup is like GetByName but reports a missing preset as an error.
func (r *Registry) Lookup(name string) (*Preset, error) {
	p := r.byName[name]
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// All returns all presets in file order.
func (r *Registry) All() []Preset {
	return r.all
}

// Count returns the number of presets in the registry.
func (r *Registry) Count() int {
	return len(r.all)
}
