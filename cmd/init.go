package cmd

import (
	"github.com/spf13/cobra"

	"github.com/procureml/poclass/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a poclass configuration interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
