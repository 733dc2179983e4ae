package matrix

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillwright/skillwright/pkg/config"
)

// Merge combines raw relationship declarations with the full skill list into
// a resolved matrix. Every id referenced anywhere is canonicalized through
// the alias table first, so the matrix only ever stores canonical ids.
//
// Configuration problems (dangling references, alias collisions, category
// cycles) are collected into a single aggregated error rather than failing
// on the first occurrence; the returned matrix is still populated as far as
// possible so callers can report against it. Merging the same inputs twice
// yields structurally identical matrices.
func Merge(rel *config.Relationships, skills []*config.Skill) (*Matrix, error) {
	mg := &merger{
		matrix: &Matrix{
			Categories: append([]config.Category(nil), rel.Categories...),
			Skills:     make(map[string]*ResolvedSkill, len(skills)),
			Aliases:    NewAliases(rel.Aliases),
			categories: make(map[string]*config.Category, len(rel.Categories)),
		},
	}

	// Sort before indexing: the category map holds pointers into the slice.
	sort.SliceStable(mg.matrix.Categories, func(i, j int) bool {
		return mg.matrix.Categories[i].Order < mg.matrix.Categories[j].Order
	})

	mg.indexCategories()
	mg.indexSkills(skills)
	mg.checkAliases(rel.Aliases)
	mg.seedDeclaredRelations()
	mg.foldRules(rel)
	mg.resolveStacks(rel.Stacks)

	return mg.matrix, mg.errs.ErrorOrNil()
}

type merger struct {
	matrix *Matrix
	errs   *multierror.Error
}

func (mg *merger) fail(format string, args ...any) {
	mg.errs = multierror.Append(mg.errs, errors.Errorf(format, args...))
}

func (mg *merger) indexCategories() {
	for i := range mg.matrix.Categories {
		c := &mg.matrix.Categories[i]
		if _, dup := mg.matrix.categories[c.ID]; dup {
			mg.fail("duplicate category %q", c.ID)
			continue
		}
		mg.matrix.categories[c.ID] = c
	}

	// Parent chains must form a tree.
	for _, c := range mg.matrix.categories {
		seen := map[string]bool{c.ID: true}
		for cur := c; cur.Parent != ""; {
			parent, ok := mg.matrix.categories[cur.Parent]
			if !ok {
				mg.fail("category %q references unknown parent %q", cur.ID, cur.Parent)
				break
			}
			if seen[parent.ID] {
				mg.fail("category %q is part of a parent cycle", c.ID)
				break
			}
			seen[parent.ID] = true
			cur = parent
		}
	}
}

func (mg *merger) indexSkills(skills []*config.Skill) {
	for _, s := range skills {
		if _, dup := mg.matrix.Skills[s.ID]; dup {
			mg.fail("duplicate skill id %q", s.ID)
			continue
		}
		resolved := &ResolvedSkill{Skill: *s}
		mg.matrix.Skills[s.ID] = resolved
		mg.matrix.skillOrder = append(mg.matrix.skillOrder, s.ID)

		if s.Category != "" {
			if _, ok := mg.matrix.categories[s.Category]; !ok {
				mg.fail("skill %q references unknown category %q", s.ID, s.Category)
			}
		}
	}
}

func (mg *merger) checkAliases(raw map[string]string) {
	// Injectivity: no two aliases may share a target, and an alias must not
	// shadow a canonical id.
	byTarget := make(map[string]string, len(raw))
	aliases := make([]string, 0, len(raw))
	for alias := range raw {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases) // deterministic error ordering

	for _, alias := range aliases {
		target := raw[alias]
		if _, isSkill := mg.matrix.Skills[alias]; isSkill {
			mg.fail("alias %q collides with a canonical skill id", alias)
		}
		if prev, dup := byTarget[target]; dup {
			mg.fail("aliases %q and %q both map to %q", prev, alias, target)
		} else {
			byTarget[target] = alias
		}
		if _, ok := mg.matrix.Skills[target]; !ok {
			mg.fail("alias %q targets unknown skill %q", alias, target)
		}
	}
}

// resolveRef canonicalizes a reference and records a configuration error if
// it does not name a known skill. The canonical id is returned either way so
// folding can continue and surface every problem at once.
func (mg *merger) resolveRef(ref, context string) (string, bool) {
	id := mg.matrix.Aliases.Resolve(ref)
	if _, ok := mg.matrix.Skills[id]; !ok {
		mg.fail("%s references unknown skill %q", context, ref)
		return id, false
	}
	return id, true
}

func addRelation(list *[]Relation, id, reason string) {
	// First reason wins: declaration order is the documented tie-break for
	// contradictory reasons on the same pair.
	for _, r := range *list {
		if r.ID == id {
			return
		}
	}
	*list = append(*list, Relation{ID: id, Reason: reason})
}

func declaredReason(skillID string) string {
	return fmt.Sprintf("declared by %s", skillID)
}

// seedDeclaredRelations folds each skill's own compatibility lists into its
// computed relations before any matrix-level rule is applied, so
// skill-declared reasons win ties against later matrix declarations.
func (mg *merger) seedDeclaredRelations() {
	for _, id := range mg.matrix.skillOrder {
		s := mg.matrix.Skills[id]
		context := fmt.Sprintf("skill %q", id)

		for _, ref := range s.Skill.ConflictsWith {
			target, ok := mg.resolveRef(ref, context)
			if !ok {
				continue
			}
			addRelation(&s.ConflictsWith, target, declaredReason(id))
			addRelation(&mg.matrix.Skills[target].ConflictsWith, id, declaredReason(id))
		}

		for _, ref := range s.Skill.CompatibleWith {
			target, ok := mg.resolveRef(ref, context)
			if !ok {
				continue
			}
			addRelation(&s.Recommends, target, declaredReason(id))
			addRelation(&mg.matrix.Skills[target].RecommendedBy, id, declaredReason(id))
		}

		if len(s.Skill.Requires) > 0 {
			var needs []string
			for _, ref := range s.Skill.Requires {
				target, ok := mg.resolveRef(ref, context)
				if !ok {
					continue
				}
				needs = appendUnique(needs, target)
				addRelation(&mg.matrix.Skills[target].RequiredBy, id, declaredReason(id))
			}
			if len(needs) > 0 {
				s.Requires = append(s.Requires, RequireRelation{IDs: needs, Reason: declaredReason(id)})
			}
		}
	}
}

func (mg *merger) foldRules(rel *config.Relationships) {
	for i, rule := range rel.Conflicts {
		context := fmt.Sprintf("conflict rule #%d", i+1)
		ids := mg.resolveSet(rule.Skills, context)
		for _, a := range ids {
			for _, b := range ids {
				if a != b {
					addRelation(&mg.matrix.Skills[a].ConflictsWith, b, rule.Reason)
				}
			}
		}
	}

	for i, rule := range rel.Discourages {
		context := fmt.Sprintf("discourage rule #%d", i+1)
		ids := mg.resolveSet(rule.Skills, context)
		for _, a := range ids {
			for _, b := range ids {
				if a != b {
					addRelation(&mg.matrix.Skills[a].Discourages, b, rule.Reason)
				}
			}
		}
	}

	for i, rule := range rel.Recommends {
		context := fmt.Sprintf("recommend rule #%d", i+1)
		trigger, ok := mg.resolveRef(rule.Skill, context)
		if !ok {
			continue
		}
		for _, ref := range rule.Suggests {
			target, ok := mg.resolveRef(ref, context)
			if !ok {
				continue
			}
			addRelation(&mg.matrix.Skills[trigger].Recommends, target, rule.Reason)
			addRelation(&mg.matrix.Skills[target].RecommendedBy, trigger, rule.Reason)
		}
	}

	for i, rule := range rel.Requires {
		context := fmt.Sprintf("require rule #%d", i+1)
		dependent, ok := mg.resolveRef(rule.Skill, context)
		if !ok {
			continue
		}
		var needs []string
		for _, ref := range rule.Needs {
			target, ok := mg.resolveRef(ref, context)
			if !ok {
				continue
			}
			needs = appendUnique(needs, target)
			addRelation(&mg.matrix.Skills[target].RequiredBy, dependent, rule.Reason)
		}
		if len(needs) > 0 {
			dep := mg.matrix.Skills[dependent]
			dep.Requires = append(dep.Requires, RequireRelation{
				IDs:    needs,
				Any:    rule.NeedsAny,
				Reason: rule.Reason,
			})
		}
	}

	for i, rule := range rel.Alternatives {
		context := fmt.Sprintf("alternative group %q", rule.Purpose)
		if rule.Purpose == "" {
			context = fmt.Sprintf("alternative group #%d", i+1)
		}
		ids := mg.resolveSet(rule.Skills, context)
		for _, a := range ids {
			for _, b := range ids {
				if a != b {
					addRelation(&mg.matrix.Skills[a].Alternatives, b, rule.Purpose)
				}
			}
		}
	}
}

// resolveSet canonicalizes a rule's skill set, dropping unresolvable members
// after recording them, and deduplicating while preserving order.
func (mg *merger) resolveSet(refs []string, context string) []string {
	var ids []string
	for _, ref := range refs {
		id, ok := mg.resolveRef(ref, context)
		if !ok {
			continue
		}
		ids = appendUnique(ids, id)
	}
	return ids
}

func (mg *merger) resolveStacks(stacks []config.StackPreset) {
	for _, preset := range stacks {
		resolved := ResolvedStack{
			ID:          preset.ID,
			Name:        preset.Name,
			Description: preset.Description,
		}
		for _, entry := range preset.Entries {
			context := fmt.Sprintf("stack %q category %q", preset.ID, entry.Category)
			id, ok := mg.resolveRef(entry.Value, context)
			if !ok {
				continue
			}
			resolved.SkillIDs = appendUnique(resolved.SkillIDs, id)
		}
		mg.matrix.Stacks = append(mg.matrix.Stacks, resolved)
	}
}

func appendUnique(list []string, id string) []string {
	for _, member := range list {
		if member == id {
			return list
		}
	}
	return append(list, id)
}
