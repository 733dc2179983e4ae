// Package query answers point-in-time questions against a resolved matrix
// and a candidate selection: whether a skill is disabled, discouraged, or
// recommended, and why. Every function here is a pure projection of
// (matrix, selection, candidate); nothing is cached and nothing mutates.
package query

import (
	"fmt"

	"github.com/skillwright/skillwright/pkg/matrix"
)

// Option is the annotated view of one candidate skill that the interactive
// surface renders. The surface must not recompute these flags itself.
//
// Disabled marks hard ineligibility (a conflict with a selected skill).
// Category exclusivity never disables an option: picking a different member
// of an exclusive category replaces the prior pick, so the sibling stays
// selectable and Replaces names the skill it would displace.
type Option struct {
	Skill *matrix.ResolvedSkill

	Selected          bool
	Disabled          bool
	DisabledReason    string
	Replaces          string
	Discouraged       bool
	DiscouragedReason string
	Recommended       bool
	RecommendedReason string
}

// IsConflicted reports whether the candidate conflicts with a selected
// skill. The first matching relation in declaration order wins.
func IsConflicted(m *matrix.Matrix, sel matrix.Selection, candidate string) (bool, string) {
	s, ok := m.Skill(candidate)
	if !ok {
		return false, ""
	}
	for _, rel := range s.ConflictsWith {
		if sel.Contains(rel.ID) {
			return true, conflictReason(m, rel)
		}
	}
	return false, ""
}

// IsDisabled reports whether the candidate cannot join the selection as-is,
// without displacing anything: either it conflicts with a selected skill,
// or its category is exclusive and a different member of that category is
// already selected. Conflict reasons take priority over
// category-exclusivity reasons.
func IsDisabled(m *matrix.Matrix, sel matrix.Selection, candidate string) (bool, string) {
	if conflicted, reason := IsConflicted(m, sel, candidate); conflicted {
		return true, reason
	}

	if replaced, ok := Replacement(m, sel, candidate); ok {
		if root, exclusive := m.ExclusiveRootOf(candidate); exclusive {
			return true, fmt.Sprintf("%s allows only one selection (%s already selected)", root.Name, displayName(m, replaced))
		}
	}

	return false, ""
}

// Replacement returns the selected skill the candidate would displace if
// picked: a different member of the candidate's exclusive category that is
// already in the selection.
func Replacement(m *matrix.Matrix, sel matrix.Selection, candidate string) (string, bool) {
	root, exclusive := m.ExclusiveRootOf(candidate)
	if !exclusive {
		return "", false
	}
	for _, selected := range sel {
		if selected == candidate {
			continue
		}
		if other, ok := m.ExclusiveRootOf(selected); ok && other.ID == root.ID {
			return selected, true
		}
	}
	return "", false
}

// IsDiscouraged reports whether the candidate's discourage set intersects
// the selection. Non-blocking; first matching reason wins.
func IsDiscouraged(m *matrix.Matrix, sel matrix.Selection, candidate string) (bool, string) {
	s, ok := m.Skill(candidate)
	if !ok {
		return false, ""
	}
	for _, rel := range s.Discourages {
		if sel.Contains(rel.ID) {
			if rel.Reason != "" {
				return true, rel.Reason
			}
			return true, fmt.Sprintf("not recommended together with %s", displayName(m, rel.ID))
		}
	}
	return false, ""
}

// IsRecommended reports whether any selected skill lists the candidate in
// its recommends set.
func IsRecommended(m *matrix.Matrix, sel matrix.Selection, candidate string) (bool, string) {
	s, ok := m.Skill(candidate)
	if !ok {
		return false, ""
	}
	for _, rel := range s.RecommendedBy {
		if sel.Contains(rel.ID) {
			if rel.Reason != "" {
				return true, rel.Reason
			}
			return true, fmt.Sprintf("recommended by %s", displayName(m, rel.ID))
		}
	}
	return false, ""
}

// OptionsForCategory produces the annotated option list for every skill in
// the category, including subcategories when the category is a parent.
func OptionsForCategory(m *matrix.Matrix, categoryID string, sel matrix.Selection) []Option {
	skills := m.SkillsInCategory(categoryID)
	options := make([]Option, 0, len(skills))
	for _, s := range skills {
		opt := Option{
			Skill:    s,
			Selected: sel.Contains(s.ID),
		}
		opt.Disabled, opt.DisabledReason = IsConflicted(m, sel, s.ID)
		if !opt.Disabled && !opt.Selected {
			opt.Replaces, _ = Replacement(m, sel, s.ID)
		}
		opt.Discouraged, opt.DiscouragedReason = IsDiscouraged(m, sel, s.ID)
		opt.Recommended, opt.RecommendedReason = IsRecommended(m, sel, s.ID)
		options = append(options, opt)
	}
	return options
}

// EligibleCount returns how many options can still be picked: not disabled
// and not already selected. The wizard uses this to skip exhausted
// categories.
func EligibleCount(options []Option) int {
	n := 0
	for _, opt := range options {
		if !opt.Disabled && !opt.Selected {
			n++
		}
	}
	return n
}

// HasSelected reports whether any option is already part of the selection.
// A category with a selected member is never exhausted: revisiting it must
// prompt so the earlier pick can be changed.
func HasSelected(options []Option) bool {
	for _, opt := range options {
		if opt.Selected {
			return true
		}
	}
	return false
}

func conflictReason(m *matrix.Matrix, rel matrix.Relation) string {
	if rel.Reason != "" {
		return fmt.Sprintf("conflicts with %s: %s", displayName(m, rel.ID), rel.Reason)
	}
	return fmt.Sprintf("conflicts with %s", displayName(m, rel.ID))
}

func displayName(m *matrix.Matrix, id string) string {
	if s, ok := m.Skill(id); ok && s.Name != "" {
		return s.Name
	}
	return id
}
