package benchmark

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// File mirrors config/benchmarks.yaml:
//
//	default:
//	  planner_fte_per_100m_revenue: 2
//	  ...
//	industries:
//	  - industry: Retail
//	    ...
type File struct {
	Default    Profile   `yaml:"default"`
	Industries []Profile `yaml:"industries"`
}

// ParseYAML builds a Table from benchmark YAML.
func ParseYAML(data []byte) (*Table, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks: %w", err)
	}
	return NewTable(f.Default, f.Industries)
}

// LoadYAML reads and parses a benchmark file.
func LoadYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks %s: %w", path, err)
	}
	t, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// MarshalYAML renders t back into the File layout.
func MarshalYAML(t *Table) ([]byte, error) {
	return yaml.Marshal(File{Default: t.Default(), Industries: t.Profiles()})
}
