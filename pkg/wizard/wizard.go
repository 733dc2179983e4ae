// Package wizard implements the interactive selection engine: a small state
// machine that walks the user through preset or category-by-category skill
// selection, with back navigation, live option state from the query engine,
// and validation before the selection is finalized.
//
// The engine owns the only mutable state of a run and never touches the
// matrix. Prompt rendering lives behind the Prompter interface; the engine
// hands it annotated options and consumes one response per step.
package wizard

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/skillwright/skillwright/pkg/config"
	"github.com/skillwright/skillwright/pkg/logger"
	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/query"
	"github.com/skillwright/skillwright/pkg/validate"
)

// Step identifies where the wizard currently is.
type Step string

// Wizard steps.
const (
	StepApproach   Step = "choosing-approach"
	StepStack      Step = "choosing-preset"
	StepCategories Step = "iterating-categories"
	StepConfirm    Step = "confirming"
)

// Action is the outcome of one prompt.
type Action int

// Prompt actions.
const (
	// Advance accepts the response value and moves forward.
	Advance Action = iota
	// Back returns to the previously prompted step.
	Back
	// Skip moves past the current category without selecting. Only legal
	// for categories that are not required.
	Skip
	// Cancel aborts the wizard, discarding all state.
	Cancel
)

// Response is one user answer delivered by the Prompter.
type Response struct {
	Action Action
	Value  string
}

// Approach values for the first step.
const (
	ApproachStack  = "stack"
	ApproachCustom = "custom"
)

// Prompter renders wizard steps and collects exactly one response per call.
// It must not compute option state itself; everything it needs to render is
// in the arguments.
type Prompter interface {
	ChooseApproach(ctx context.Context) (Response, error)
	ChooseStack(ctx context.Context, stacks []matrix.ResolvedStack) (Response, error)
	ChooseSkill(ctx context.Context, category config.Category, options []query.Option) (Response, error)
	Confirm(ctx context.Context, selection matrix.Selection, report *validate.Report) (Response, error)
}

// Status is the terminal outcome of a wizard run.
type Status string

// Terminal outcomes.
const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusInvalid   Status = "invalid"
)

// Result carries the wizard's terminal outcome. Selection and Report are
// set for completed runs; Report alone is set for invalid ones.
type Result struct {
	Status    Status
	Selection matrix.Selection
	Report    *validate.Report
}

// State is the transient, engine-owned state of one wizard run.
type State struct {
	Step      Step
	Selection matrix.Selection
	StackID   string
	Cursor    int

	history []snapshot
}

type snapshot struct {
	step   Step
	cursor int
}

// push records the current position before advancing, so Back can restore
// it. Implicitly skipped steps are never pushed: back navigation only lands
// on steps the user actually saw.
func (st *State) push() {
	st.history = append(st.history, snapshot{step: st.Step, cursor: st.Cursor})
}

var stepOrder = map[Step]int{
	StepApproach:   0,
	StepStack:      1,
	StepCategories: 2,
	StepConfirm:    3,
}

// rewindTo restarts the run at the given step, dropping every history
// snapshot recorded at or after it. Back from the restarted pass can then
// only land on earlier steps, never forward into the abandoned one.
func (st *State) rewindTo(step Step) {
	for len(st.history) > 0 {
		last := st.history[len(st.history)-1]
		if stepOrder[last.step] < stepOrder[step] {
			break
		}
		st.history = st.history[:len(st.history)-1]
	}
	st.Step = step
	st.Cursor = 0
}

// pop restores the most recently prompted step. Returns false at the first
// step, where there is nothing to go back to.
func (st *State) pop() bool {
	if len(st.history) == 0 {
		return false
	}
	last := st.history[len(st.history)-1]
	st.history = st.history[:len(st.history)-1]
	st.Step = last.step
	st.Cursor = last.cursor
	return true
}

// Engine drives one interactive selection run against an immutable matrix.
type Engine struct {
	matrix   *matrix.Matrix
	prompter Prompter
}

// New creates a wizard engine.
func New(m *matrix.Matrix, p Prompter) *Engine {
	return &Engine{matrix: m, prompter: p}
}

// Run executes the wizard loop until a terminal outcome. The loop is
// synchronous: it suspends at each step awaiting one response and resumes
// deterministically with that value. A context cancellation observed at a
// suspension point terminates the run as cancelled.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	sessionID := uuid.NewString()
	ctx = logger.WithLogger(ctx, logger.G(ctx).WithField("wizard_session", sessionID))
	log := logger.G(ctx)

	st := &State{Step: StepApproach}
	categories := e.matrix.TopLevelCategories()

	for {
		if err := ctx.Err(); err != nil {
			log.WithField("step", st.Step).Debug("wizard context cancelled")
			return &Result{Status: StatusCancelled}, nil
		}

		switch st.Step {
		case StepApproach:
			done, result, err := e.runApproach(ctx, st)
			if done || err != nil {
				return result, err
			}
		case StepStack:
			done, result, err := e.runStack(ctx, st)
			if done || err != nil {
				return result, err
			}
		case StepCategories:
			done, result, err := e.runCategory(ctx, st, categories)
			if done || err != nil {
				return result, err
			}
		case StepConfirm:
			done, result, err := e.runConfirm(ctx, st)
			if done || err != nil {
				return result, err
			}
		default:
			return nil, errors.Errorf("wizard reached unknown step %q", st.Step)
		}
	}
}

func (e *Engine) runApproach(ctx context.Context, st *State) (bool, *Result, error) {
	resp, err := e.prompter.ChooseApproach(ctx)
	if err != nil {
		return true, nil, errors.Wrap(err, "approach prompt failed")
	}

	switch resp.Action {
	case Cancel:
		return true, &Result{Status: StatusCancelled}, nil
	case Advance:
		st.push()
		if resp.Value == ApproachStack && len(e.matrix.Stacks) > 0 {
			st.Step = StepStack
		} else {
			st.StackID = ""
			st.Step = StepCategories
			st.Cursor = 0
		}
	}
	// Back and Skip have no meaning at the first step; re-prompt.
	return false, nil, nil
}

func (e *Engine) runStack(ctx context.Context, st *State) (bool, *Result, error) {
	resp, err := e.prompter.ChooseStack(ctx, e.matrix.Stacks)
	if err != nil {
		return true, nil, errors.Wrap(err, "stack prompt failed")
	}

	switch resp.Action {
	case Cancel:
		return true, &Result{Status: StatusCancelled}, nil
	case Back:
		st.pop()
	case Advance:
		stack, ok := e.matrix.Stack(resp.Value)
		if !ok {
			logger.G(ctx).WithField("stack", resp.Value).Warn("prompter returned unknown stack")
			return false, nil, nil
		}
		st.push()
		st.StackID = stack.ID
		st.Selection = matrix.Selection(stack.SkillIDs).Clone()
		st.Step = StepConfirm
	}
	return false, nil, nil
}

func (e *Engine) runCategory(ctx context.Context, st *State, categories []config.Category) (bool, *Result, error) {
	// Past the last category: move to confirmation. Not pushed; Back at
	// the confirm step returns to the last category actually prompted.
	if st.Cursor >= len(categories) {
		st.Step = StepConfirm
		return false, nil, nil
	}

	category := categories[st.Cursor]
	options := query.OptionsForCategory(e.matrix, category.ID, st.Selection)

	// A category with nothing left to pick is an implicit skip, not a
	// stall. A category holding a selection still prompts so the pick can
	// be changed. Not pushed onto history: back navigation skips it too.
	if query.EligibleCount(options) == 0 && !query.HasSelected(options) {
		logger.G(ctx).WithField("category", category.ID).Debug("no eligible options, skipping category")
		st.Cursor++
		return false, nil, nil
	}

	resp, err := e.prompter.ChooseSkill(ctx, category, options)
	if err != nil {
		return true, nil, errors.Wrapf(err, "prompt for category %q failed", category.ID)
	}

	switch resp.Action {
	case Cancel:
		return true, &Result{Status: StatusCancelled}, nil
	case Back:
		st.pop()
	case Skip:
		if category.Required && !e.categorySatisfied(category.ID, st.Selection) {
			logger.G(ctx).WithField("category", category.ID).Debug("skip rejected for required category")
			return false, nil, nil
		}
		st.push()
		st.Cursor++
	case Advance:
		if !e.acceptSkill(ctx, st, category, options, resp.Value) {
			return false, nil, nil
		}
		st.push()
		st.Cursor++
	}
	return false, nil, nil
}

// acceptSkill applies one skill choice to the selection. In an exclusive
// category the new choice replaces any prior pick from the same category
// instead of joining it.
func (e *Engine) acceptSkill(ctx context.Context, st *State, category config.Category, options []query.Option, id string) bool {
	var chosen *query.Option
	for i := range options {
		if options[i].Skill.ID == id {
			chosen = &options[i]
			break
		}
	}
	if chosen == nil || chosen.Disabled {
		logger.G(ctx).WithField("category", category.ID).WithField("skill", id).
			Warn("prompter returned ineligible skill")
		return false
	}

	if root, exclusive := e.matrix.ExclusiveRootOf(id); exclusive {
		for _, selected := range st.Selection.Clone() {
			if selected == id {
				continue
			}
			if other, ok := e.matrix.ExclusiveRootOf(selected); ok && other.ID == root.ID {
				st.Selection = st.Selection.Remove(selected)
			}
		}
	}

	st.Selection = st.Selection.Add(id)
	return true
}

func (e *Engine) runConfirm(ctx context.Context, st *State) (bool, *Result, error) {
	report := validate.Check(e.matrix, st.Selection)

	resp, err := e.prompter.Confirm(ctx, st.Selection, report)
	if err != nil {
		return true, nil, errors.Wrap(err, "confirmation prompt failed")
	}

	switch resp.Action {
	case Cancel:
		// Giving up while the selection is invalid is a distinct outcome:
		// the caller maps it to a different exit code.
		if !report.Valid() {
			return true, &Result{Status: StatusInvalid, Report: report}, nil
		}
		return true, &Result{Status: StatusCancelled}, nil
	case Back:
		st.pop()
	case Advance:
		if report.Valid() {
			return true, &Result{
				Status:    StatusCompleted,
				Selection: st.Selection.Clone(),
				Report:    report,
			}, nil
		}
		// Errors block confirmation; return to editing with the selection
		// intact.
		logger.G(ctx).WithField("errors", len(report.Errors)).Debug("confirmation blocked by validation errors")
		if st.StackID != "" {
			st.rewindTo(StepStack)
		} else {
			st.rewindTo(StepCategories)
		}
	}
	return false, nil, nil
}

func (e *Engine) categorySatisfied(categoryID string, sel matrix.Selection) bool {
	for _, s := range e.matrix.SkillsInCategory(categoryID) {
		if sel.Contains(s.ID) {
			return true
		}
	}
	return false
}
