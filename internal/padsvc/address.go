package padsvc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Address identifies one connected controller within a backend. It is
// the opaque device handle used by the dispatch layer; it exists from
// device identification until disconnect.
type Address struct {
	Backend string `yaml:"backend" json:"backend"`
	ID      string `yaml:"id" json:"id"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s/%s", a.Backend, a.ID)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Address) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(a.String())
}

func (a *Address) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func ParseAddress(s string) (Address, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Address{}, fmt.Errorf("invalid address: %s", s)
	}
	return Address{Backend: parts[0], ID: parts[1]}, nil
}
