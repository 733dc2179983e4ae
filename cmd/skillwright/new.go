package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/presenter"
	"github.com/skillwright/skillwright/pkg/tui"
	"github.com/skillwright/skillwright/pkg/validate"
	"github.com/skillwright/skillwright/pkg/wizard"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Assemble a new skill selection interactively",
	Long: `Walk through the selection wizard: pick a stack preset or choose skills
category by category, with live conflict and recommendation state. The
finalized selection is printed as one canonical skill id per line, ready for
the compiler.

With --stack the named preset is resolved and validated without any
interaction.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		m, _ := buildMatrix(ctx)

		if stackID, _ := cmd.Flags().GetString("stack"); stackID != "" {
			runStackSelection(m, stackID)
			return
		}

		engine := wizard.New(m, tui.NewPrompter(m))
		result, err := engine.Run(ctx)
		if err != nil {
			presenter.Error(err, "wizard failed")
			os.Exit(exitInvalid)
		}

		switch result.Status {
		case wizard.StatusCompleted:
			emitSelection(m, result.Selection, result.Report)
			os.Exit(exitOK)
		case wizard.StatusCancelled:
			presenter.Info("Cancelled.")
			os.Exit(exitCancelled)
		case wizard.StatusInvalid:
			reportIssues(result.Report)
			os.Exit(exitInvalid)
		}
	},
}

func init() {
	newCmd.Flags().String("stack", "", "use a stack preset without interaction")
}

// runStackSelection resolves a preset non-interactively and validates it.
func runStackSelection(m *matrix.Matrix, stackID string) {
	stack, ok := m.Stack(m.Aliases.Resolve(stackID))
	if !ok {
		presenter.Error(fmt.Errorf("unknown stack %q", stackID), "")
		os.Exit(exitInvalid)
	}

	selection := matrix.Selection(stack.SkillIDs).Clone()
	report := validate.Check(m, selection)
	if !report.Valid() {
		reportIssues(report)
		os.Exit(exitInvalid)
	}
	emitSelection(m, selection, report)
}

// emitSelection prints the compiler-facing output: the ordered canonical
// ids on stdout, with warnings on the side for user awareness.
func emitSelection(m *matrix.Matrix, selection matrix.Selection, report *validate.Report) {
	for _, issue := range report.Warnings {
		presenter.Warning(issue.Message)
	}
	presenter.Success(fmt.Sprintf("Selection complete (%d skills)", len(selection)))
	for _, id := range selection {
		fmt.Println(id)
	}
}

func reportIssues(report *validate.Report) {
	for _, issue := range report.Errors {
		presenter.Error(fmt.Errorf("%s", issue.Message), "")
	}
	for _, issue := range report.Warnings {
		presenter.Warning(issue.Message)
	}
}
