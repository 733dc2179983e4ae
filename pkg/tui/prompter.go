package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/skillwright/skillwright/pkg/config"
	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/query"
	"github.com/skillwright/skillwright/pkg/validate"
	"github.com/skillwright/skillwright/pkg/wizard"
)

// Prompter implements wizard.Prompter with one bubbletea program per step.
type Prompter struct {
	matrix *matrix.Matrix
}

// NewPrompter creates a terminal prompter for the given matrix.
func NewPrompter(m *matrix.Matrix) *Prompter {
	return &Prompter{matrix: m}
}

var _ wizard.Prompter = (*Prompter)(nil)

// ChooseApproach asks whether to start from a stack preset or pick skills
// category by category.
func (p *Prompter) ChooseApproach(ctx context.Context) (wizard.Response, error) {
	items := []item{
		{id: wizard.ApproachStack, title: "Start from a stack preset", hint: "pick a curated skill list, then adjust"},
		{id: wizard.ApproachCustom, title: "Choose skills one by one", hint: "walk through every category"},
	}
	if len(p.matrix.Stacks) == 0 {
		items = items[1:]
	}
	return p.run(ctx, newSelectModel("How do you want to assemble your skills?", items, false, false))
}

// ChooseStack asks which stack preset to start from.
func (p *Prompter) ChooseStack(ctx context.Context, stacks []matrix.ResolvedStack) (wizard.Response, error) {
	items := make([]item, 0, len(stacks))
	for _, stack := range stacks {
		hint := stack.Description
		if hint == "" {
			hint = strings.Join(stack.SkillIDs, ", ")
		}
		items = append(items, item{
			id:    stack.ID,
			title: stack.Name,
			hint:  truncate(hint, 72),
		})
	}
	return p.run(ctx, newSelectModel("Choose a stack", items, true, false))
}

// ChooseSkill renders one category's annotated options.
func (p *Prompter) ChooseSkill(ctx context.Context, category config.Category, options []query.Option) (wizard.Response, error) {
	items := make([]item, 0, len(options))
	for _, opt := range options {
		it := item{
			id:          opt.Skill.ID,
			title:       opt.Skill.Name,
			selected:    opt.Selected,
			disabled:    opt.Disabled,
			recommended: opt.Recommended,
			discouraged: opt.Discouraged,
			hint:        truncate(opt.Skill.Description, 72),
		}
		switch {
		case opt.Disabled:
			it.reason = opt.DisabledReason
		case opt.Discouraged:
			it.reason = opt.DiscouragedReason
		case opt.Recommended:
			it.reason = opt.RecommendedReason
		case opt.Replaces != "":
			it.reason = fmt.Sprintf("replaces %s", p.skillName(opt.Replaces))
		}
		items = append(items, it)
	}

	title := fmt.Sprintf("Choose a skill for %s", category.Name)
	if !category.Required {
		title += " (optional)"
	}
	return p.run(ctx, newSelectModel(title, items, true, !category.Required))
}

func (p *Prompter) skillName(id string) string {
	if s, ok := p.matrix.Skill(id); ok && s.Name != "" {
		return s.Name
	}
	return id
}

// Confirm shows the finished selection and its validation report.
func (p *Prompter) Confirm(ctx context.Context, selection matrix.Selection, report *validate.Report) (wizard.Response, error) {
	model := newConfirmModel(p.matrix, selection, report)
	return p.run(ctx, model)
}

// run executes one prompt program and extracts its response.
func (p *Prompter) run(ctx context.Context, model tea.Model) (wizard.Response, error) {
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return wizard.Response{Action: wizard.Cancel}, nil
		}
		return wizard.Response{}, errors.Wrap(err, "prompt failed")
	}

	switch m := final.(type) {
	case *selectModel:
		if !m.done {
			return wizard.Response{Action: wizard.Cancel}, nil
		}
		return m.response, nil
	case *confirmModel:
		if !m.done {
			return wizard.Response{Action: wizard.Cancel}, nil
		}
		return m.response, nil
	default:
		return wizard.Response{}, errors.New("prompt returned unexpected model")
	}
}
