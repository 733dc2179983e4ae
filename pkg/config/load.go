package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadRelationships reads and parses a relationship document from path.
func LoadRelationships(path string) (*Relationships, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read relationships file")
	}
	return ParseRelationships(data)
}

// ParseRelationships parses a relationship document from raw YAML.
func ParseRelationships(data []byte) (*Relationships, error) {
	rel := &Relationships{}
	if err := yaml.Unmarshal(data, rel); err != nil {
		return nil, errors.Wrap(err, "failed to parse relationships document")
	}
	return rel, nil
}
