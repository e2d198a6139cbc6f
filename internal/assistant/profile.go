package assistant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is one portfolio project surfaced to the assistant.
type Project struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

// Profile is the grounding data about the site owner, kept in a local YAML
// file so copy edits never require a rebuild.
type Profile struct {
	Name      string    `yaml:"name"`
	Role      string    `yaml:"role"`
	Location  string    `yaml:"location"`
	Skills    []string  `yaml:"skills"`
	Interests []string  `yaml:"interests"`
	Projects  []Project `yaml:"projects"`
}

// LoadProfile reads and parses the profile file. Called per request so the
// file can be edited in place on a running deployment.
func LoadProfile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("assistant: read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("assistant: parse profile: %w", err)
	}
	if p.Name == "" {
		return Profile{}, fmt.Errorf("assistant: profile %s has no name", path)
	}
	return p, nil
}
