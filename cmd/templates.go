package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
)

func templatesCommand(app app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available prompt templates.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := viper.GetString(config.ENV_TEMPLATE_DIR)
			for _, name := range app.Prompts().List(dir) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
