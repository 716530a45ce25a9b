package flagstore

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed is the flag set a store starts with when no seed file is given.
func DefaultSeed() []Flag {
	return []Flag{
		{
			ID:          TextID("beta_dashboard"),
			Enabled:     true,
			Description: "Enable access to the new dashboard",
		},
		{
			ID:          TextID("live_chat"),
			Enabled:     false,
			Description: "Enable live chat support for users",
		},
	}
}

type YAMLFlag struct {
	ID          interface{} `yaml:"id"`
	Enabled     bool        `yaml:"enabled"`
	Description string      `yaml:"description"`
}

type YAMLData struct {
	Flags []YAMLFlag `yaml:"flags"`
}

// LoadSeed reads a seed file of the form
//
//	flags:
//	  - id: beta_dashboard
//	    enabled: true
//	    description: Enable access to the new dashboard
//	  - id: 42
//	    enabled: false
//	    description: Numeric flag
//
// Unquoted integer ids become integer-keyed flags, everything else is text.
func LoadSeed(filePath string) ([]Flag, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]Flag, error) {
	var yamlData YAMLData
	err := yaml.Unmarshal(data, &yamlData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	flags := make([]Flag, 0, len(yamlData.Flags))
	for i, yf := range yamlData.Flags {
		id, err := seedID(yf.ID)
		if err != nil {
			return nil, fmt.Errorf("flag #%d: %w", i, err)
		}
		flags = append(flags, Flag{
			ID:          id,
			Enabled:     yf.Enabled,
			Description: yf.Description,
		})
	}
	return flags, nil
}

func seedID(v interface{}) (ID, error) {
	switch id := v.(type) {
	case string:
		return TextID(id), nil
	case int:
		return IntID(int64(id)), nil
	case int64:
		return IntID(id), nil
	case uint64:
		if id > math.MaxInt64 {
			return ID{}, fmt.Errorf("id %d out of range", id)
		}
		return IntID(int64(id)), nil
	case nil:
		return ID{}, fmt.Errorf("id: %w", ErrMissingField)
	default:
		return ID{}, fmt.Errorf("%w, got %T", errInvalidID, v)
	}
}
