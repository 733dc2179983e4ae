package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillwright/skillwright/pkg/config"
	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/query"
	"github.com/skillwright/skillwright/pkg/validate"
)

// scriptedPrompter feeds a fixed response sequence to the engine and
// records every prompt it was shown.
type scriptedPrompter struct {
	t         *testing.T
	responses []Response

	calls       []string
	lastOptions map[string][]query.Option
	lastReport  *validate.Report
}

func newScriptedPrompter(t *testing.T, responses ...Response) *scriptedPrompter {
	return &scriptedPrompter{
		t:           t,
		responses:   responses,
		lastOptions: map[string][]query.Option{},
	}
}

func (p *scriptedPrompter) next(call string) Response {
	p.calls = append(p.calls, call)
	require.NotEmpty(p.t, p.responses, "prompter script exhausted at %s (calls: %v)", call, p.calls)
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp
}

func (p *scriptedPrompter) ChooseApproach(context.Context) (Response, error) {
	return p.next("approach"), nil
}

func (p *scriptedPrompter) ChooseStack(_ context.Context, _ []matrix.ResolvedStack) (Response, error) {
	return p.next("stack"), nil
}

func (p *scriptedPrompter) ChooseSkill(_ context.Context, category config.Category, options []query.Option) (Response, error) {
	p.lastOptions[category.ID] = options
	return p.next("category:" + category.ID), nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, _ matrix.Selection, report *validate.Report) (Response, error) {
	p.lastReport = report
	return p.next("confirm"), nil
}

func testMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	rel := &config.Relationships{
		Categories: []config.Category{
			{ID: "framework", Name: "Framework", Exclusive: true, Required: true, Order: 1},
			{ID: "styling", Name: "Styling", Exclusive: true, Order: 2},
			{ID: "state", Name: "State Management", Order: 3},
		},
		Conflicts: []config.ConflictRule{
			{Skills: []string{"sass", "css-modules"}, Reason: "both own the stylesheet pipeline"},
		},
		Requires: []config.RequireRule{
			{Skill: "zustand", Needs: []string{"react"}},
		},
		Stacks: []config.StackPreset{
			{
				ID:   "frontend",
				Name: "Frontend",
				Entries: []config.StackEntry{
					{Category: "frontend", Subcategory: "framework", Value: "react"},
					{Category: "frontend", Subcategory: "styling", Value: "tailwind"},
				},
			},
			{
				ID:   "spa",
				Name: "SPA",
				Entries: []config.StackEntry{
					{Category: "spa", Subcategory: "framework", Value: "vue"},
					{Category: "spa", Subcategory: "state", Value: "zustand"},
				},
			},
		},
	}
	skills := []*config.Skill{
		{ID: "react", Name: "React", Category: "framework"},
		{ID: "vue", Name: "Vue", Category: "framework"},
		{ID: "sass", Name: "Sass", Category: "styling"},
		{ID: "css-modules", Name: "CSS Modules", Category: "styling"},
		{ID: "tailwind", Name: "Tailwind", Category: "styling"},
		{ID: "zustand", Name: "Zustand", Category: "state"},
	}
	m, err := matrix.Merge(rel, skills)
	require.NoError(t, err)
	return m
}

func TestRun_CustomFlowCompletes(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "react"},
		Response{Action: Advance, Value: "tailwind"},
		Response{Action: Advance, Value: "zustand"},
		Response{Action: Advance},
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, matrix.Selection{"react", "tailwind", "zustand"}, result.Selection)
	assert.True(t, result.Report.Valid())
	assert.Equal(t, []string{"approach", "category:framework", "category:styling", "category:state", "confirm"}, p.calls)
}

func TestRun_BackTwiceReturnsToEarlierCategoryWithSelectionsIntact(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "react"},    // category 1
		Response{Action: Advance, Value: "sass"},     // category 2
		Response{Action: Back},                       // at category 3, go back
		Response{Action: Back},                       // at category 2, go back again
		Response{Action: Cancel},                     // now at category 1
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)

	assert.Equal(t, []string{
		"approach",
		"category:framework", "category:styling", "category:state",
		"category:styling", "category:framework",
	}, p.calls)

	// Back navigation keeps prior selections: the last framework prompt
	// still shows react as selected.
	options := p.lastOptions["framework"]
	var reactSelected bool
	for _, opt := range options {
		if opt.Skill.ID == "react" {
			reactSelected = opt.Selected
		}
	}
	assert.True(t, reactSelected)
}

func TestRun_ExclusiveCategoryReplacesPriorPick(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "react"},
		Response{Action: Back},                    // back to framework
		Response{Action: Advance, Value: "vue"},   // replaces react
		Response{Action: Skip},                    // styling
		Response{Action: Skip},                    // state
		Response{Action: Advance},                 // confirm
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, matrix.Selection{"vue"}, result.Selection)

	// On the revisit vue was offered as a replacement, not disabled.
	for _, opt := range p.lastOptions["framework"] {
		if opt.Skill.ID == "vue" {
			assert.False(t, opt.Disabled)
			assert.Equal(t, "react", opt.Replaces)
		}
	}
}

func TestRun_SkipRejectedForRequiredCategory(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Skip},                     // framework is required: re-prompt
		Response{Action: Advance, Value: "react"},
		Response{Action: Skip},
		Response{Action: Skip},
		Response{Action: Advance},
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, []string{
		"approach",
		"category:framework", "category:framework",
		"category:styling", "category:state", "confirm",
	}, p.calls)
}

func TestRun_ExhaustedCategoryIsImplicitlySkipped(t *testing.T) {
	rel := &config.Relationships{
		Categories: []config.Category{
			{ID: "framework", Name: "Framework", Exclusive: true, Required: true, Order: 1},
			{ID: "styling", Name: "Styling", Order: 2},
			{ID: "state", Name: "State Management", Order: 3},
		},
		Conflicts: []config.ConflictRule{
			{Skills: []string{"react", "sass"}, Reason: "fixture conflict"},
		},
	}
	skills := []*config.Skill{
		{ID: "react", Name: "React", Category: "framework"},
		{ID: "sass", Name: "Sass", Category: "styling"}, // only styling option
		{ID: "zustand", Name: "Zustand", Category: "state"},
	}
	m, err := matrix.Merge(rel, skills)
	require.NoError(t, err)

	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "react"},
		// styling never prompts: its only option conflicts with react
		Response{Action: Skip},    // state
		Response{Action: Advance}, // confirm
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, []string{"approach", "category:framework", "category:state", "confirm"}, p.calls)
}

func TestRun_StackFlowCompletes(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachStack},
		Response{Action: Advance, Value: "frontend"},
		Response{Action: Advance},
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, matrix.Selection{"react", "tailwind"}, result.Selection)
	assert.Equal(t, []string{"approach", "stack", "confirm"}, p.calls)
}

func TestRun_ValidationErrorsBlockConfirmation(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "vue"},     // zustand will be unmet
		Response{Action: Skip},                      // styling
		Response{Action: Advance, Value: "zustand"}, // requires react
		Response{Action: Advance},                   // confirm: blocked
		Response{Action: Cancel},                    // back at category 1, give up
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)

	// After the blocked confirmation the wizard re-enters category
	// iteration with the selection intact.
	assert.Equal(t, "category:framework", p.calls[len(p.calls)-1])
	require.NotNil(t, p.lastReport)
	assert.False(t, p.lastReport.Valid())

	options := p.lastOptions["framework"]
	var vueSelected bool
	for _, opt := range options {
		if opt.Skill.ID == "vue" {
			vueSelected = opt.Selected
		}
	}
	assert.True(t, vueSelected)
}

func TestRun_BackAfterBlockedConfirmationNeverJumpsForward(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "vue"},
		Response{Action: Skip},                      // styling
		Response{Action: Advance, Value: "zustand"}, // requires react
		Response{Action: Advance},                   // confirm: blocked
		Response{Action: Back},                      // at category 1 again
		Response{Action: Cancel},                    // back at the approach step
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)

	// Back from the restarted pass lands on the approach step, not on a
	// later category from the abandoned first pass.
	assert.Equal(t, []string{
		"approach",
		"category:framework", "category:styling", "category:state",
		"confirm",
		"category:framework", "approach",
	}, p.calls)

	// The selection survived the restart.
	options := p.lastOptions["framework"]
	var vueSelected bool
	for _, opt := range options {
		if opt.Skill.ID == "vue" {
			vueSelected = opt.Selected
		}
	}
	assert.True(t, vueSelected)
}

func TestRun_BackAfterBlockedStackConfirmation(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachStack},
		Response{Action: Advance, Value: "spa"}, // vue + zustand: invalid
		Response{Action: Advance},               // confirm: blocked
		Response{Action: Back},                  // back at the stack step
		Response{Action: Cancel},                // back at the approach step
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
	assert.Equal(t, []string{"approach", "stack", "confirm", "stack", "approach"}, p.calls)
}

func TestRun_GivingUpOnInvalidSelectionIsInvalidOutcome(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t,
		Response{Action: Advance, Value: ApproachCustom},
		Response{Action: Advance, Value: "vue"},
		Response{Action: Skip},
		Response{Action: Advance, Value: "zustand"},
		Response{Action: Cancel}, // abort at confirm while invalid
	)

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, result.Status)
	require.NotNil(t, result.Report)
	assert.False(t, result.Report.Valid())
}

func TestRun_CancelAtFirstStep(t *testing.T) {
	m := testMatrix(t)
	p := newScriptedPrompter(t, Response{Action: Cancel})

	result, err := New(m, p).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
}

func TestRun_ContextCancellationTerminates(t *testing.T) {
	m := testMatrix(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newScriptedPrompter(t)
	result, err := New(m, p).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
	assert.Empty(t, p.calls)
}
