package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillwright/skillwright/pkg/logger"
	"github.com/skillwright/skillwright/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLWRIGHT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillwright")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillwright",
	Short: "Assemble a conflict-free bundle of skills",
	Long: `Skillwright discovers capability modules ("skills"), models the
relationships between them (conflicts, recommendations, requirements,
alternatives), and walks you through an interactive wizard to assemble a
validated selection.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		// Logs go to stderr so piped command output stays clean.
		logger.SetLogOutput(cmd.ErrOrStderr())
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().StringSlice("skill-dir", nil, "skill directories to search (overrides config)")
	rootCmd.PersistentFlags().String("relationships", "", "path to the relationships document")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("profile", "", "settings profile from the config file")

	viper.BindPFlag("skill_dirs", rootCmd.PersistentFlags().Lookup("skill-dir"))
	viper.BindPFlag("relationships", rootCmd.PersistentFlags().Lookup("relationships"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(stacksCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
