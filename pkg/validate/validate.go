// Package validate runs the full rule set against a finished selection and
// produces a structured report. Errors make the selection invalid; warnings
// flag suboptimal but legal combinations. The check is a single pass over
// the selection against the precomputed matrix, never over the whole graph.
package validate

import (
	"fmt"

	"github.com/skillwright/skillwright/pkg/matrix"
)

// Code classifies a reported issue.
type Code string

// Issue codes.
const (
	CodeUnknownSkill       Code = "unknown-skill"
	CodeConflict           Code = "conflict"
	CodeMissingCategory    Code = "missing-required-category"
	CodeUnmetRequirement   Code = "unmet-requirement"
	CodeDiscouraged        Code = "discouraged"
	CodeMissingRecommended Code = "missing-recommendation"
	CodeUnusedSetup        Code = "unused-setup"
)

// Issue is one finding of the validator.
type Issue struct {
	Code    Code
	SkillID string
	Related []string
	Message string
}

// Report is the validator's result. An empty Errors list means the
// selection is valid; warnings never block.
type Report struct {
	Errors   []Issue
	Warnings []Issue
}

// Valid reports whether the selection passed validation.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) addError(issue Issue) {
	r.Errors = append(r.Errors, issue)
}

func (r *Report) addWarning(issue Issue) {
	r.Warnings = append(r.Warnings, issue)
}

// Check validates a finished selection against the matrix.
func Check(m *matrix.Matrix, sel matrix.Selection) *Report {
	report := &Report{}

	checkKnown(m, sel, report)
	checkConflicts(m, sel, report)
	checkRequiredCategories(m, sel, report)
	checkRequirements(m, sel, report)
	checkDiscouraged(m, sel, report)
	checkRecommendations(m, sel, report)
	checkUnusedSetup(m, sel, report)

	return report
}

func checkKnown(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	for _, id := range sel {
		if _, ok := m.Skill(id); !ok {
			report.addError(Issue{
				Code:    CodeUnknownSkill,
				SkillID: id,
				Message: fmt.Sprintf("unknown skill %q", id),
			})
		}
	}
}

func checkConflicts(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	seen := map[string]bool{}
	for _, id := range sel {
		s, ok := m.Skill(id)
		if !ok {
			continue
		}
		for _, rel := range s.ConflictsWith {
			if !sel.Contains(rel.ID) {
				continue
			}
			if seen[pairKey(id, rel.ID)] {
				continue
			}
			seen[pairKey(id, rel.ID)] = true
			msg := fmt.Sprintf("%s conflicts with %s", id, rel.ID)
			if rel.Reason != "" {
				msg += ": " + rel.Reason
			}
			report.addError(Issue{
				Code:    CodeConflict,
				SkillID: id,
				Related: []string{rel.ID},
				Message: msg,
			})
		}
	}
}

func checkRequiredCategories(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	for _, c := range m.Categories {
		if !c.Required {
			continue
		}
		selected := false
		for _, s := range m.SkillsInCategory(c.ID) {
			if sel.Contains(s.ID) {
				selected = true
				break
			}
		}
		if !selected {
			report.addError(Issue{
				Code:    CodeMissingCategory,
				Related: []string{c.ID},
				Message: fmt.Sprintf("category %s requires at least one selection", c.Name),
			})
		}
	}
}

func checkRequirements(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	for _, id := range sel {
		s, ok := m.Skill(id)
		if !ok {
			continue
		}
		for _, req := range s.Requires {
			var missing []string
			satisfied := 0
			for _, need := range req.IDs {
				if sel.Contains(need) {
					satisfied++
				} else {
					missing = append(missing, need)
				}
			}

			if req.Any {
				if satisfied == 0 {
					report.addError(Issue{
						Code:    CodeUnmetRequirement,
						SkillID: id,
						Related: req.IDs,
						Message: fmt.Sprintf("%s requires at least one of %v", id, req.IDs),
					})
				}
				continue
			}
			for _, need := range missing {
				report.addError(Issue{
					Code:    CodeUnmetRequirement,
					SkillID: id,
					Related: []string{need},
					Message: fmt.Sprintf("%s requires %s", id, need),
				})
			}
		}
	}
}

func checkDiscouraged(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	seen := map[string]bool{}
	for _, id := range sel {
		s, ok := m.Skill(id)
		if !ok {
			continue
		}
		for _, rel := range s.Discourages {
			if !sel.Contains(rel.ID) || seen[pairKey(id, rel.ID)] {
				continue
			}
			seen[pairKey(id, rel.ID)] = true
			msg := fmt.Sprintf("%s and %s are not recommended together", id, rel.ID)
			if rel.Reason != "" {
				msg += ": " + rel.Reason
			}
			report.addWarning(Issue{
				Code:    CodeDiscouraged,
				SkillID: id,
				Related: []string{rel.ID},
				Message: msg,
			})
		}
	}
}

func checkRecommendations(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	for _, id := range sel {
		s, ok := m.Skill(id)
		if !ok {
			continue
		}
		for _, rel := range s.Recommends {
			if sel.Contains(rel.ID) {
				continue
			}
			msg := fmt.Sprintf("%s recommends %s", id, rel.ID)
			if rel.Reason != "" {
				msg += ": " + rel.Reason
			}
			report.addWarning(Issue{
				Code:    CodeMissingRecommended,
				SkillID: id,
				Related: []string{rel.ID},
				Message: msg,
			})
		}
	}
}

func checkUnusedSetup(m *matrix.Matrix, sel matrix.Selection, report *Report) {
	for _, id := range sel {
		s, ok := m.Skill(id)
		if !ok || s.ProvidesFor == "" {
			continue
		}
		target := m.Aliases.Resolve(s.ProvidesFor)
		if !sel.Contains(target) {
			report.addWarning(Issue{
				Code:    CodeUnusedSetup,
				SkillID: id,
				Related: []string{target},
				Message: fmt.Sprintf("%s configures %s, which is not selected", id, target),
			})
		}
	}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
