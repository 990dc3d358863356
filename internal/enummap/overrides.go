package enummap

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of a mapping override file. Each section
// adds or replaces label entries in the corresponding built-in table.
type overrideFile struct {
	AssetType      map[string]int `yaml:"asset_type"`
	Relationship   map[string]int `yaml:"relationship"`
	StatementType  map[string]int `yaml:"statement_type"`
	PositionPeriod map[string]int `yaml:"position_period"`
}

// LoadOverrides merges label entries from a YAML file into the mapper's
// tables. Labels are normalized the same way lookups are, so override files
// can use natural casing.
func (m *Mapper) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "enummap: read overrides %s", path)
	}
	var f overrideFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return eris.Wrapf(err, "enummap: parse overrides %s", path)
	}

	m.apply(AssetType, f.AssetType)
	m.apply(Relationship, f.Relationship)
	m.apply(StatementType, f.StatementType)
	m.apply(PositionPeriod, f.PositionPeriod)
	return nil
}

func (m *Mapper) apply(category Category, entries map[string]int) {
	for label, code := range entries {
		m.tables[category][normalize(label)] = code
	}
}
