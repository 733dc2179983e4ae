package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ProfileSettings is one named settings overlay from the config file.
type ProfileSettings map[string]interface{}

// Settings holds the tool's own runtime configuration, loaded from viper
// (config file, environment, bound flags). A profile, if active, is merged
// on top of the base settings.
type Settings struct {
	SkillDirs     []string                   `mapstructure:"skill_dirs"`
	Relationships string                     `mapstructure:"relationships"`
	LogLevel      string                     `mapstructure:"log_level"`
	LogFormat     string                     `mapstructure:"log_format"`
	Profiles      map[string]ProfileSettings `mapstructure:"profiles"`
}

// LoadSettings unmarshals tool settings from viper, applies the active
// profile, and fills in defaults for anything unset.
func LoadSettings() (*Settings, error) {
	s := &Settings{}
	if err := viper.Unmarshal(s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal settings")
	}

	if name := activeProfile(); name != "" {
		profile, exists := s.Profiles[name]
		if !exists {
			return nil, errors.Errorf("profile %q is not defined", name)
		}
		if err := applyProfile(s, profile); err != nil {
			return nil, err
		}
	}

	if len(s.SkillDirs) == 0 {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get user home directory")
		}
		s.SkillDirs = []string{
			"./.skillwright/skills", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillwright", "skills"),
		}
	}
	if s.Relationships == "" {
		s.Relationships = defaultRelationshipsPath(s.SkillDirs)
	}
	if s.LogLevel == "" {
		s.LogLevel = "warn"
	}
	return s, nil
}

func activeProfile() string {
	profile := viper.GetString("profile")
	if profile == "default" {
		return ""
	}
	return profile
}

// applyProfile merges a profile overlay into the base settings without
// zeroing fields the profile does not mention.
func applyProfile(s *Settings, profile ProfileSettings) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           s,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}
	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile")
	}
	return nil
}

// defaultRelationshipsPath returns the first relationships.yaml found next
// to a skill directory, falling back to the repo-local location.
func defaultRelationshipsPath(skillDirs []string) string {
	for _, dir := range skillDirs {
		candidate := filepath.Join(filepath.Dir(dir), "relationships.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return "./.skillwright/relationships.yaml"
}
