package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides is the naming override snapshot supplied by the operator.
// Overrides are keyed by registry ids and take precedence over derived
// naming, per segment. The snapshot is read once before a run starts
// and is read-only thereafter.
type Overrides struct {
	// Areas maps area id to a literal area name fragment.
	Areas map[string]string `yaml:"areas"`

	// Devices maps device id to a literal device name fragment.
	Devices map[string]string `yaml:"devices"`

	// Entities maps entity stable id to a literal location fragment.
	Entities map[string]string `yaml:"entities"`
}

// LoadOverrides reads the naming override snapshot from a YAML file.
// A missing file is not an error; it yields an empty snapshot so runs
// work out of the box with fully derived naming.
func LoadOverrides(path string) (*Overrides, error) {
	ov := &Overrides{
		Areas:    make(map[string]string),
		Devices:  make(map[string]string),
		Entities: make(map[string]string),
	}

	if path == "" {
		return ov, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ov, nil
		}
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}

	if err := yaml.Unmarshal(data, ov); err != nil {
		return nil, fmt.Errorf("parsing overrides file: %w", err)
	}

	// Unmarshalling may have replaced the maps with nil when a section
	// is absent from the file.
	if ov.Areas == nil {
		ov.Areas = make(map[string]string)
	}
	if ov.Devices == nil {
		ov.Devices = make(map[string]string)
	}
	if ov.Entities == nil {
		ov.Entities = make(map[string]string)
	}

	return ov, nil
}
