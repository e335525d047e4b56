package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownPreset = errors.New("unknown board preset")
)

// Preset is a named board size.
type Preset struct {
	Name  string `yaml:"name"`
	Rows  int    `yaml:"rows"`
	Cols  int    `yaml:"cols"`
	Mines int    `yaml:"mines"`
}

// Presets is an ordered list of board sizes.
type Presets []Preset

// DefaultPresets are the classic board sizes.
var DefaultPresets = Presets{
	{Name: "small", Rows: 8, Cols: 8, Mines: 10},
	{Name: "medium", Rows: 16, Cols: 16, Mines: 40},
	{Name: "large", Rows: 16, Cols: 32, Mines: 100},
	{Name: "humongous", Rows: 32, Cols: 32, Mines: 225},
}

// Lookup finds a preset by case-insensitive name.
func (p Presets) Lookup(name string) (Preset, error) {
	for _, preset := range p {
		if strings.EqualFold(preset.Name, strings.TrimSpace(name)) {
			return preset, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// LoadPresets reads presets from a YAML file shaped as
//
//	presets:
//	  - {name: small, rows: 8, cols: 8, mines: 10}
//
// An empty path yields DefaultPresets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return DefaultPresets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePresets(data)
}

// ParsePresets decodes and validates a presets document.
func ParsePresets(data []byte) (Presets, error) {
	var doc struct {
		Presets Presets `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	if len(doc.Presets) == 0 {
		return nil, errors.New("presets file defines no presets")
	}

	seen := make(map[string]struct{})
	for _, p := range doc.Presets {
		key := strings.ToLower(p.Name)
		if key == "" {
			return nil, errors.New("preset without a name")
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("preset %q defined twice", p.Name)
		}
		seen[key] = struct{}{}
		if p.Rows <= 0 || p.Cols <= 0 || p.Mines < 0 || p.Mines >= p.Rows*p.Cols {
			return nil, fmt.Errorf("preset %q: %dx%d with %d mines is not a valid board", p.Name, p.Rows, p.Cols, p.Mines)
		}
	}
	return doc.Presets, nil
}
