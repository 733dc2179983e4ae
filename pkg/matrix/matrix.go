// Package matrix merges raw relationship declarations and skill metadata
// into the resolved, bidirectionally-indexed relationship matrix that the
// query engine, validator, and wizard operate on. The merge is a pure
// function of its inputs; the resulting matrix is immutable and safe to
// share across read-only queries.
package matrix

import (
	"sort"

	"github.com/skillwright/skillwright/pkg/config"
)

// Relation is one edge of the resolved graph: a related skill id plus the
// human-readable reason carried from the declaring rule. Relations are plain
// ids rather than pointers so the matrix stays trivially serializable.
type Relation struct {
	ID     string
	Reason string
}

// RequireRelation is a resolved dependency edge. Any switches satisfaction
// from every needed id to at least one.
type RequireRelation struct {
	IDs    []string
	Any    bool
	Reason string
}

// ResolvedSkill is a raw skill plus its computed relation lists. Every id in
// a relation list refers to a skill present in the same matrix.
type ResolvedSkill struct {
	config.Skill

	ConflictsWith []Relation
	Discourages   []Relation
	Recommends    []Relation
	RecommendedBy []Relation
	Requires      []RequireRelation
	RequiredBy    []Relation
	Alternatives  []Relation
}

// ResolvedStack is a stack preset flattened to an ordered list of canonical
// skill ids, aliases expanded and duplicates removed.
type ResolvedStack struct {
	ID          string
	Name        string
	Description string
	SkillIDs    []string
}

// Matrix is the merged, query-ready relationship graph.
type Matrix struct {
	Categories []config.Category
	Skills     map[string]*ResolvedSkill
	Stacks     []ResolvedStack
	Aliases    *Aliases

	skillOrder []string // declaration order, for deterministic listings
	categories map[string]*config.Category
}

// Skill returns the resolved skill for a canonical id.
func (m *Matrix) Skill(id string) (*ResolvedSkill, bool) {
	s, ok := m.Skills[id]
	return s, ok
}

// Category returns the category with the given id.
func (m *Matrix) Category(id string) (*config.Category, bool) {
	c, ok := m.categories[id]
	return c, ok
}

// Stack returns the resolved stack preset with the given id.
func (m *Matrix) Stack(id string) (*ResolvedStack, bool) {
	for i := range m.Stacks {
		if m.Stacks[i].ID == id {
			return &m.Stacks[i], true
		}
	}
	return nil, false
}

// SkillIDs returns every skill id in declaration order.
func (m *Matrix) SkillIDs() []string {
	ids := make([]string, len(m.skillOrder))
	copy(ids, m.skillOrder)
	return ids
}

// TopLevelCategories returns the categories without a parent, in display
// order. The wizard iterates these.
func (m *Matrix) TopLevelCategories() []config.Category {
	var top []config.Category
	for _, c := range m.Categories {
		if c.Parent == "" {
			top = append(top, c)
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Order < top[j].Order })
	return top
}

// SkillsInCategory returns the skills whose category is categoryID or one of
// its direct subcategories, in skill declaration order.
func (m *Matrix) SkillsInCategory(categoryID string) []*ResolvedSkill {
	members := map[string]bool{categoryID: true}
	for _, c := range m.Categories {
		if c.Parent == categoryID {
			members[c.ID] = true
		}
	}

	var skills []*ResolvedSkill
	for _, id := range m.skillOrder {
		if s := m.Skills[id]; members[s.Category] {
			skills = append(skills, s)
		}
	}
	return skills
}

// CategoryOf returns the category a skill belongs to. The second return is
// false when the skill is unknown or its category was never declared.
func (m *Matrix) CategoryOf(skillID string) (*config.Category, bool) {
	s, ok := m.Skills[skillID]
	if !ok {
		return nil, false
	}
	return m.Category(s.Category)
}

// ExclusiveRootOf returns the nearest exclusive category on the skill's
// category chain (the category itself, or its parent). Used to decide when
// one selection must replace another.
func (m *Matrix) ExclusiveRootOf(skillID string) (*config.Category, bool) {
	c, ok := m.CategoryOf(skillID)
	if !ok {
		return nil, false
	}
	if c.Exclusive {
		return c, true
	}
	if c.Parent != "" {
		if parent, ok := m.Category(c.Parent); ok && parent.Exclusive {
			return parent, true
		}
	}
	return nil, false
}
