package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/docs"
	"github.com/weftlabs/weft/internal/app"
)

const docsPageWidth = 100

func docsCommand(app app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs [page]",
		Short: "Show the built-in guides.",
		Args:  cobra.RangeArgs(0, 1),
		Example: `
weft docs   # list the available guides
weft docs templates
weft docs together
weft docs neo4j
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, args, app)
		},
	}
}

func runDocs(cmd *cobra.Command, args []string, app app.App) error {
	if len(args) == 0 {
		for _, name := range docs.Pages() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	page, err := docs.Page(args[0])
	if err != nil {
		return err
	}

	formatted, err := app.Format().FormatMarkdownWidth(page, docsPageWidth)
	if err != nil {
		return fmt.Errorf("failed to format page: %v", err)
	}
	cmd.OutOrStdout().Write([]byte(formatted))
	return nil
}
