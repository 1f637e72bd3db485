package cmd

import (
	"github.com/spf13/cobra"

	"github.com/karimnasser/schedbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize schedbot configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the assistant and generates a .schedbot.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
