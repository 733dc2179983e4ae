// Package skills discovers skill definitions from configured directories.
// A skill is a directory containing a SKILL.md file whose YAML frontmatter
// declares its identity, category, and skill-declared compatibility lists.
// The discovered metadata feeds the relationship matrix; skill content is
// opaque to this tool and handed to the compiler untouched.
package skills

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/skillwright/skillwright/pkg/config"
)

const skillFileName = "SKILL.md"

// Discovery finds skills in configured directories. Earlier directories
// take precedence: the first definition of an id wins.
type Discovery struct {
	skillDirs []string
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories.
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill directory must be specified")
		}
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes the repo-local and user-global directories.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./.skillwright/skills", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".skillwright", "skills"),
		}
		return nil
	}
}

// NewDiscovery creates a skill discovery instance. Without options the
// default directories are used.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}
	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Discover returns all skills found in the configured directories, sorted
// by id for deterministic output. Directories that do not exist or entries
// that fail to parse are skipped.
func (d *Discovery) Discover() ([]*config.Skill, error) {
	byID := make(map[string]*config.Skill)
	for _, dir := range d.skillDirs {
		d.discoverFromDir(dir, byID)
	}

	skills := make([]*config.Skill, 0, len(byID))
	for _, s := range byID {
		skills = append(skills, s)
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].ID < skills[j].ID })
	return skills, nil
}

func (d *Discovery) discoverFromDir(dir string, byID map[string]*config.Skill) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skill, err := LoadSkill(filepath.Join(entryPath, skillFileName))
		if err != nil {
			continue
		}

		skill.Path = entryPath
		if _, exists := byID[skill.ID]; !exists {
			byID[skill.ID] = skill
		}
	}
}

// LoadSkill parses a single SKILL.md file into raw skill metadata.
func LoadSkill(path string) (*config.Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}
	return ParseSkill(content)
}

// ParseSkill extracts skill metadata from SKILL.md content. The id and
// description frontmatter fields are mandatory; everything else is
// optional.
func ParseSkill(content []byte) (*config.Skill, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	id, _ := metaData["id"].(string)
	if id == "" {
		// Older skills declare "name" as the identifier.
		id, _ = metaData["name"].(string)
	}
	description, _ := metaData["description"].(string)

	if id == "" {
		return nil, errors.New("skill id is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	skill := &config.Skill{
		ID:             id,
		Description:    description,
		CompatibleWith: stringList(metaData["compatible_with"]),
		ConflictsWith:  stringList(metaData["conflicts_with"]),
		Requires:       stringList(metaData["requires"]),
		Tags:           stringList(metaData["tags"]),
	}
	skill.Name, _ = metaData["title"].(string)
	if skill.Name == "" {
		skill.Name = id
	}
	skill.Category, _ = metaData["category"].(string)
	skill.Author, _ = metaData["author"].(string)
	skill.ProvidesFor, _ = metaData["provides_for"].(string)

	return skill, nil
}

// stringList coerces a frontmatter value into a string slice. goldmark-meta
// yields []interface{} for YAML sequences; a bare scalar is accepted as a
// single-element list.
func stringList(v interface{}) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case string:
		return []string{value}
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return nil
	}
}
