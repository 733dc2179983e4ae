package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillwright/skillwright/pkg/presenter"
)

var stacksCmd = &cobra.Command{
	Use:   "stacks",
	Short: "List stack presets",
	Long:  `List every stack preset with its resolved skill ids, aliases expanded.`,
	Run: func(cmd *cobra.Command, _ []string) {
		m, _ := buildMatrix(cmd.Context())

		presenter.Section("Stack presets")
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSKILLS")
		for _, stack := range m.Stacks {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", stack.ID, stack.Name, strings.Join(stack.SkillIDs, ", "))
		}
		tw.Flush()
	},
}
