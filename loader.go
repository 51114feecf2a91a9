package gofwmod

import (
	"fmt"
	"os"
)

// LoadModulesFile reads a JSON or YAML file holding a list of modules.
// The format is chosen by extension (.yaml/.yml for YAML, JSON otherwise).
// Every module must carry an "_id".
func LoadModulesFile(filename string) ([]Module, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read modules file %s: %w", filename, err)
	}
	var modules []Module
	if err := decodeDescriptor(filename, data, &modules); err != nil {
		return nil, fmt.Errorf("parse modules file %s: %w", filename, err)
	}
	for i, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("parse modules file %s: modules[%d]: missing _id", filename, i)
		}
	}
	return modules, nil
}
