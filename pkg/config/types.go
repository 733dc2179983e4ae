// Package config defines the raw data model for the skill relationship
// graph: categories, per-skill metadata, matrix-level relationship rules,
// aliases, and stack presets. These types mirror the relationship document
// on disk; pkg/matrix merges them into the query-ready form.
package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Category groups skills for presentation and selection. Categories form a
// two-level tree via Parent.
type Category struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Parent    string `yaml:"parent,omitempty"`
	Exclusive bool   `yaml:"exclusive,omitempty"`
	Required  bool   `yaml:"required,omitempty"`
	Order     int    `yaml:"order,omitempty"`
}

// Skill is the raw metadata extracted from a skill's own definition.
// Compatibility lists here are skill-declared, as opposed to the
// matrix-declared rules below.
type Skill struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Category       string   `yaml:"category"`
	CompatibleWith []string `yaml:"compatible_with,omitempty"`
	ConflictsWith  []string `yaml:"conflicts_with,omitempty"`
	Requires       []string `yaml:"requires,omitempty"`
	// ProvidesFor marks a setup-type skill that only configures another
	// (usage-type) skill. Used for the unused-setup warning.
	ProvidesFor string   `yaml:"provides_for,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Path        string   `yaml:"-"`
}

// ConflictRule declares a set of mutually exclusive skills.
type ConflictRule struct {
	Skills []string `yaml:"skills"`
	Reason string   `yaml:"reason,omitempty"`
}

// DiscourageRule declares skills that may coexist but warn when combined.
type DiscourageRule struct {
	Skills []string `yaml:"skills"`
	Reason string   `yaml:"reason,omitempty"`
}

// RecommendRule suggests skills whenever the trigger skill is selected.
type RecommendRule struct {
	Skill    string   `yaml:"skill"`
	Suggests []string `yaml:"suggests"`
	Reason   string   `yaml:"reason,omitempty"`
}

// RequireRule declares a dependency of Skill on Needs. NeedsAny switches
// satisfaction from AND (every needed skill) to OR (at least one).
type RequireRule struct {
	Skill    string   `yaml:"skill"`
	Needs    []string `yaml:"needs"`
	NeedsAny bool     `yaml:"needs_any,omitempty"`
	Reason   string   `yaml:"reason,omitempty"`
}

// AlternativeRule is an informational grouping of interchangeable skills
// serving the same purpose. Never enforced.
type AlternativeRule struct {
	Purpose string   `yaml:"purpose"`
	Skills  []string `yaml:"skills"`
}

// StackEntry is one flattened position of a stack preset: the category path
// it came from and the skill name or alias it selects.
type StackEntry struct {
	Category    string
	Subcategory string
	Value       string
}

// StackPreset is a named preset whose nested category→subcategory→name
// mapping flattens to an ordered skill list.
type StackPreset struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Entries     []StackEntry `yaml:"-"`
}

// UnmarshalYAML flattens the preset's skills mapping in document order.
// Go maps would lose declaration order, which the resolved skill list must
// preserve, so the mapping is walked as raw yaml nodes instead.
func (s *StackPreset) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	s.ID = head.ID
	s.Name = head.Name
	s.Description = head.Description

	var skillsNode *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "skills" {
			skillsNode = node.Content[i+1]
			break
		}
	}
	if skillsNode == nil {
		return nil
	}
	if skillsNode.Kind != yaml.MappingNode {
		return errors.Errorf("stack %q: skills must be a mapping", s.ID)
	}

	for i := 0; i+1 < len(skillsNode.Content); i += 2 {
		category := skillsNode.Content[i].Value
		value := skillsNode.Content[i+1]
		entries, err := flattenStackValue(category, "", value)
		if err != nil {
			return errors.Wrapf(err, "stack %q category %q", s.ID, category)
		}
		s.Entries = append(s.Entries, entries...)
	}
	return nil
}

func flattenStackValue(category, subcategory string, node *yaml.Node) ([]StackEntry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []StackEntry{{Category: category, Subcategory: subcategory, Value: node.Value}}, nil
	case yaml.SequenceNode:
		var entries []StackEntry
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, errors.New("sequence values must be skill names")
			}
			entries = append(entries, StackEntry{Category: category, Subcategory: subcategory, Value: item.Value})
		}
		return entries, nil
	case yaml.MappingNode:
		if subcategory != "" {
			return nil, errors.New("skills mapping nests deeper than category/subcategory")
		}
		var entries []StackEntry
		for i := 0; i+1 < len(node.Content); i += 2 {
			sub, err := flattenStackValue(category, node.Content[i].Value, node.Content[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
		}
		return entries, nil
	default:
		return nil, errors.New("unsupported node in skills mapping")
	}
}

// Relationships is the full relationship-declaration document.
type Relationships struct {
	Categories   []Category        `yaml:"categories"`
	Conflicts    []ConflictRule    `yaml:"conflicts,omitempty"`
	Discourages  []DiscourageRule  `yaml:"discourages,omitempty"`
	Recommends   []RecommendRule   `yaml:"recommends,omitempty"`
	Requires     []RequireRule     `yaml:"requires,omitempty"`
	Alternatives []AlternativeRule `yaml:"alternatives,omitempty"`
	Aliases      map[string]string `yaml:"aliases,omitempty"`
	Stacks       []StackPreset     `yaml:"stacks,omitempty"`
}
