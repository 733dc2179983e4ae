package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillwright/skillwright/pkg/matrix"
	"github.com/skillwright/skillwright/pkg/presenter"
	"github.com/skillwright/skillwright/pkg/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <skill>...",
	Short: "Validate a selection without the wizard",
	Long: `Run the full rule set against a selection given on the command line.
Aliases are accepted and resolved to canonical ids. Exits non-zero when the
selection has errors; warnings are printed but do not fail the run.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, _ := buildMatrix(cmd.Context())

		var selection matrix.Selection
		for _, arg := range args {
			selection = selection.Add(m.Aliases.Resolve(arg))
		}

		report := validate.Check(m, selection)
		reportIssues(report)
		if !report.Valid() {
			os.Exit(exitInvalid)
		}
		presenter.Success(fmt.Sprintf("Selection is valid (%d skills, %d warnings)", len(selection), len(report.Warnings)))
	},
}
