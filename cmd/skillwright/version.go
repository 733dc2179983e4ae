package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillwright/skillwright/pkg/presenter"
	"github.com/skillwright/skillwright/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			out, err := version.Get().JSON()
			if err != nil {
				presenter.Error(err, "failed to render version")
				return
			}
			fmt.Println(out)
			return
		}
		fmt.Println(version.Get().String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "output version information as JSON")
}
