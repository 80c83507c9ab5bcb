package mapping

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML rule file from the given path.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rule file %s", path)
	}

	rf, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rule file %s", path)
	}

	return rf, nil
}

// Parse parses YAML data into a RuleFile.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	err := yaml.Unmarshal(data, &rf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse rule YAML")
	}

	// Apply defaults and normalize
	applyDefaults(&rf)

	return &rf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = CurrentVersion
	}

	for i := range rf.Overrides {
		o := &rf.Overrides[i]

		if o.Type == "" {
			o.Type = "exact"
		}

		if o.Scope.IsZero() {
			o.Scope.Kind = "global"
		}

		if o.CreatedBy == "" {
			o.CreatedBy = rf.Defaults.CreatedBy
		}

		if o.CaseSensitive == nil {
			cs := rf.Defaults.CaseSensitive
			o.CaseSensitive = &cs
		}

		if o.Priority == nil {
			p := rf.Defaults.Priority
			o.Priority = &p
		}

		if o.Name == "" {
			o.Name = o.ID
		}

		for j := range o.Conditions {
			c := &o.Conditions[j]
			if c.Field == "" {
				c.Field = c.Type
			}
		}
	}
}
