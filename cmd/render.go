package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/internal/config"
)

func renderCommand(app app.App) *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a prompt template to messages without calling a model.",
		Args:  cobra.ExactArgs(1),
		Example: `
weft render summarize --var sentences=2 --var text="Go is a programming language."
weft render chat --var input="Hello there"
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, app)
		},
	}

	renderCmd.Flags().StringArray("var", []string{}, "Template variable as key=value, repeatable.")

	return renderCmd
}

func runRender(cmd *cobra.Command, args []string, app app.App) error {
	dir := viper.GetString(config.ENV_TEMPLATE_DIR)
	tpl, err := app.Prompts().Get(dir, args[0])
	if err != nil {
		return err
	}

	pairs, err := cmd.Flags().GetStringArray("var")
	if err != nil {
		pairs = []string{}
	}
	vars, err := parseVars(pairs)
	if err != nil {
		return err
	}

	messages, err := tpl.Format(vars)
	if err != nil {
		return fmt.Errorf("failed to render template: %v", err)
	}

	for _, msg := range messages {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg.Role, msg.Content)
	}
	return nil
}
