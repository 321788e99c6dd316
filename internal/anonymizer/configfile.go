package anonymizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OperatorsFile is the top-level YAML structure for an operator config
// file:
//
//	anonymizers:
//	  PHONE_NUMBER:
//	    type: mask
//	    params:
//	      masking_char: "*"
//	      chars_to_mask: 6
//	  DEFAULT:
//	    type: replace
//	deanonymizers:
//	  PHONE_NUMBER:
//	    type: decrypt
type OperatorsFile struct {
	Anonymizers   map[string]OperatorConfig `yaml:"anonymizers,omitempty"`
	Deanonymizers map[string]OperatorConfig `yaml:"deanonymizers,omitempty"`
}

// ParseOperatorsFile parses operator config YAML bytes.
func ParseOperatorsFile(data []byte) (*OperatorsFile, error) {
	var of OperatorsFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, fmt.Errorf("parsing operators YAML: %w", err)
	}
	return &of, nil
}

// LoadOperatorsFile reads and parses an operator config YAML file.
// Returns nil (not an error) if the file does not exist, so callers can
// treat an absent config as "use the built-in fallback".
func LoadOperatorsFile(path string) (*OperatorsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading operators file %s: %w", path, err)
	}
	return ParseOperatorsFile(data)
}
