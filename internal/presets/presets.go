package presets

import "sort"

// Preset is a named set of configuration overrides keyed like the
// CAVEMOSAIC_* environment variables (lower-case, without prefix).
type Preset struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Values      map[string]string `json:"values"`
}

// Keys returns the override keys in sorted order.
func (p Preset) Keys() []string {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadPresets loads all presets from the embedded presets.json.
func LoadPresets() ([]Preset, error) {
	return Load[[]Preset]("presets.json")
}
