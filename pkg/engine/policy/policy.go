// Package policy exempts operator-protected files from optimization.
// Rules are CEL expressions over file attributes, kept in a YAML file
// next to the cluster config. A file matching any enabled rule never
// appears in a plan or a generated script.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule is one user-defined exclusion.
type Rule struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression" json:"expression"` // CEL: "path.startsWith('/data/critical')"
	Enabled    bool   `yaml:"enabled" json:"enabled"`
}

// RulesFile is the on-disk shape of the rules document.
type RulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads exclusion rules from a YAML file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	return rf.Rules, nil
}

// NewFromFile loads, compiles, and returns a ready engine.
func NewFromFile(path string) (*Engine, error) {
	rules, err := Load(path)
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine()
	if err != nil {
		return nil, err
	}
	if err := engine.Compile(rules); err != nil {
		return nil, err
	}
	return engine, nil
}
