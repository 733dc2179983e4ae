package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillwright/skillwright/pkg/config"
)

func testSkills() []*config.Skill {
	return []*config.Skill{
		{ID: "react", Name: "React", Category: "framework"},
		{ID: "vue", Name: "Vue", Category: "framework"},
		{ID: "sass", Name: "Sass", Category: "styling"},
		{ID: "css-modules", Name: "CSS Modules", Category: "styling"},
		{ID: "tailwind", Name: "Tailwind", Category: "styling"},
		{ID: "zustand", Name: "Zustand", Category: "state"},
	}
}

func testRelationships() *config.Relationships {
	return &config.Relationships{
		Categories: []config.Category{
			{ID: "framework", Name: "Framework", Exclusive: true, Required: true, Order: 1},
			{ID: "styling", Name: "Styling", Exclusive: true, Order: 2},
			{ID: "state", Name: "State Management", Order: 3},
		},
		Conflicts: []config.ConflictRule{
			{Skills: []string{"sass", "css-modules"}, Reason: "both own the stylesheet pipeline"},
		},
		Discourages: []config.DiscourageRule{
			{Skills: []string{"vue", "zustand"}, Reason: "zustand is designed for react"},
		},
		Recommends: []config.RecommendRule{
			{Skill: "react", Suggests: []string{"zustand"}, Reason: "pairs well for app state"},
		},
		Requires: []config.RequireRule{
			{Skill: "zustand", Needs: []string{"react"}},
		},
		Alternatives: []config.AlternativeRule{
			{Purpose: "styling", Skills: []string{"sass", "tailwind"}},
		},
		Aliases: map[string]string{
			"rx": "react",
			"tw": "tailwind",
		},
	}
}

func TestMerge_ConflictsAreBidirectional(t *testing.T) {
	m, err := Merge(testRelationships(), testSkills())
	require.NoError(t, err)

	sass, ok := m.Skill("sass")
	require.True(t, ok)
	cssModules, ok := m.Skill("css-modules")
	require.True(t, ok)

	require.Len(t, sass.ConflictsWith, 1)
	assert.Equal(t, "css-modules", sass.ConflictsWith[0].ID)
	assert.Equal(t, "both own the stylesheet pipeline", sass.ConflictsWith[0].Reason)

	require.Len(t, cssModules.ConflictsWith, 1)
	assert.Equal(t, "sass", cssModules.ConflictsWith[0].ID)
}

func TestMerge_RecommendBuildsInverseEdges(t *testing.T) {
	m, err := Merge(testRelationships(), testSkills())
	require.NoError(t, err)

	react, _ := m.Skill("react")
	require.Len(t, react.Recommends, 1)
	assert.Equal(t, "zustand", react.Recommends[0].ID)

	zustand, _ := m.Skill("zustand")
	require.Len(t, zustand.RecommendedBy, 1)
	assert.Equal(t, "react", zustand.RecommendedBy[0].ID)
	assert.Equal(t, "pairs well for app state", zustand.RecommendedBy[0].Reason)
}

func TestMerge_RequireBuildsInverseEdges(t *testing.T) {
	m, err := Merge(testRelationships(), testSkills())
	require.NoError(t, err)

	zustand, _ := m.Skill("zustand")
	require.Len(t, zustand.Requires, 1)
	assert.Equal(t, []string{"react"}, zustand.Requires[0].IDs)
	assert.False(t, zustand.Requires[0].Any)

	react, _ := m.Skill("react")
	require.Len(t, react.RequiredBy, 1)
	assert.Equal(t, "zustand", react.RequiredBy[0].ID)
}

func TestMerge_SkillDeclaredRelationsAreSeeded(t *testing.T) {
	skills := testSkills()
	skills[2].ConflictsWith = []string{"tw"} // sass declares, via alias

	m, err := Merge(testRelationships(), skills)
	require.NoError(t, err)

	sass, _ := m.Skill("sass")
	ids := relationIDs(sass.ConflictsWith)
	assert.Contains(t, ids, "tailwind")

	// Inverse edge on the target.
	tailwind, _ := m.Skill("tailwind")
	assert.Contains(t, relationIDs(tailwind.ConflictsWith), "sass")
}

func TestMerge_FirstReasonWins(t *testing.T) {
	rel := testRelationships()
	rel.Conflicts = append(rel.Conflicts, config.ConflictRule{
		Skills: []string{"sass", "css-modules"},
		Reason: "a later, contradictory reason",
	})

	m, err := Merge(rel, testSkills())
	require.NoError(t, err)

	sass, _ := m.Skill("sass")
	require.Len(t, sass.ConflictsWith, 1)
	assert.Equal(t, "both own the stylesheet pipeline", sass.ConflictsWith[0].Reason)
}

func TestMerge_AliasesResolveEverywhere(t *testing.T) {
	rel := testRelationships()
	rel.Recommends = append(rel.Recommends, config.RecommendRule{
		Skill: "rx", Suggests: []string{"tw"}, Reason: "utility styling",
	})

	m, err := Merge(rel, testSkills())
	require.NoError(t, err)

	react, _ := m.Skill("react")
	assert.Contains(t, relationIDs(react.Recommends), "tailwind")
}

func TestMerge_StackFlattensInOrder(t *testing.T) {
	rel := testRelationships()
	var preset config.StackPreset
	preset.ID = "frontend"
	preset.Name = "Frontend"
	preset.Entries = []config.StackEntry{
		{Category: "frontend", Subcategory: "framework", Value: "rx"},
		{Category: "frontend", Subcategory: "styling", Value: "tw"},
		{Category: "frontend", Subcategory: "styling", Value: "tailwind"}, // duplicate after resolution
	}
	rel.Stacks = []config.StackPreset{preset}

	m, err := Merge(rel, testSkills())
	require.NoError(t, err)

	stack, ok := m.Stack("frontend")
	require.True(t, ok)
	assert.Equal(t, []string{"react", "tailwind"}, stack.SkillIDs)
}

func TestMerge_AggregatesConfigurationErrors(t *testing.T) {
	rel := testRelationships()
	rel.Conflicts = append(rel.Conflicts, config.ConflictRule{Skills: []string{"sass", "ghost"}})
	rel.Requires = append(rel.Requires, config.RequireRule{Skill: "phantom", Needs: []string{"react"}})
	rel.Aliases["rx2"] = "react" // second alias for the same target

	_, err := Merge(rel, testSkills())
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, `"ghost"`)
	assert.Contains(t, msg, `"phantom"`)
	assert.Contains(t, msg, `both map to "react"`)
}

func TestMerge_CategoryParentMustExist(t *testing.T) {
	rel := testRelationships()
	rel.Categories = append(rel.Categories, config.Category{ID: "css", Name: "CSS", Parent: "nope"})

	_, err := Merge(rel, testSkills())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parent "nope"`)
}

func TestMerge_Idempotent(t *testing.T) {
	first, err := Merge(testRelationships(), testSkills())
	require.NoError(t, err)
	second, err := Merge(testRelationships(), testSkills())
	require.NoError(t, err)

	require.Equal(t, first.SkillIDs(), second.SkillIDs())
	for _, id := range first.SkillIDs() {
		a, _ := first.Skill(id)
		b, _ := second.Skill(id)
		assert.Equal(t, a.ConflictsWith, b.ConflictsWith, id)
		assert.Equal(t, a.Recommends, b.Recommends, id)
		assert.Equal(t, a.RecommendedBy, b.RecommendedBy, id)
		assert.Equal(t, a.Requires, b.Requires, id)
		assert.Equal(t, a.RequiredBy, b.RequiredBy, id)
		assert.Equal(t, a.Discourages, b.Discourages, id)
		assert.Equal(t, a.Alternatives, b.Alternatives, id)
	}
	assert.Equal(t, first.Stacks, second.Stacks)
}

func TestSkillsInCategory_IncludesSubcategories(t *testing.T) {
	rel := testRelationships()
	rel.Categories = append(rel.Categories,
		config.Category{ID: "css-frameworks", Name: "CSS Frameworks", Parent: "styling", Order: 4},
	)
	skills := append(testSkills(), &config.Skill{ID: "bootstrap", Name: "Bootstrap", Category: "css-frameworks"})

	m, err := Merge(rel, skills)
	require.NoError(t, err)

	var ids []string
	for _, s := range m.SkillsInCategory("styling") {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"sass", "css-modules", "tailwind", "bootstrap"}, ids)
}

func relationIDs(relations []Relation) []string {
	ids := make([]string, 0, len(relations))
	for _, r := range relations {
		ids = append(ids, r.ID)
	}
	return ids
}
