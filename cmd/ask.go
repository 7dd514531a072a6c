package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weftlabs/weft/internal/app"
	"github.com/weftlabs/weft/pkg/chats"
	"github.com/weftlabs/weft/pkg/llm"
)

func askCommand(app app.App) *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a model one question and print the answer.",
		Args:  cobra.RangeArgs(0, 1),
		Example: `
weft ask "What is a goroutine?"
weft ask --stream "Explain channels in two paragraphs"
weft ask -s "You answer in French." "What is a pointer?"
weft ask --template summarize --var sentences=2 --var text="..."
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, app)
		},
		PreRunE: validateModel,
	}

	askCmd.Flags().SortFlags = false

	askCmd.Flags().StringP("system", "s", "", "System prompt to prepend to the question. Ignored when --template is set.")
	askCmd.Flags().StringP("template", "t", "", "Prompt template to build the conversation from.")
	askCmd.Flags().StringArray("var", []string{}, "Template variable as key=value, repeatable.")
	askCmd.Flags().Float64("temperature", 0, "Sampling temperature.")
	askCmd.Flags().Float64("top-p", 0, "Nucleus sampling probability mass.")
	askCmd.Flags().Int64("max-tokens", 0, "Maximum number of tokens to generate.")
	askCmd.Flags().Int64("seed", 0, "Seed for reproducible sampling, when the provider supports it.")
	askCmd.Flags().Bool("stream", false, "Print the answer as it is generated.")

	return askCmd
}

func runAsk(cmd *cobra.Command, args []string, app app.App) error {
	messages, err := askMessages(cmd, args, app)
	if err != nil {
		return err
	}

	client, err := newClient(app)
	if err != nil {
		return err
	}

	callOpts := callOptionsFromFlags(cmd)

	stream, err := cmd.Flags().GetBool("stream")
	if err != nil {
		stream = false
	}

	if stream {
		out := cmd.OutOrStdout()
		for event := range client.Stream(cmd.Context(), messages, callOpts...) {
			switch event.Type {
			case llm.StreamEventContent:
				fmt.Fprint(out, event.Content)
			case llm.StreamEventComplete:
				fmt.Fprintln(out)
			case llm.StreamEventError:
				return fmt.Errorf("failed to generate response: %s", event.Content)
			}
		}
		return nil
	}

	aiRes, err := client.Call(cmd.Context(), messages, callOpts...)
	if err != nil {
		return fmt.Errorf("failed to generate response: %v", err)
	}

	formattedRes, err := app.Format().FormatMarkdown(aiRes.Content)
	if err != nil {
		return fmt.Errorf("failed to format response: %v", err)
	}
	cmd.OutOrStdout().Write([]byte(formattedRes))
	return nil
}

// askMessages builds the conversation from a template or a system prompt
// plus the question argument.
func askMessages(cmd *cobra.Command, args []string, app app.App) ([]chats.Message, error) {
	messages, err := seedMessages(cmd, app)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		messages = append(messages, chats.NewUserMessage(args[0]))
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("nothing to ask, pass a question or --template")
	}
	return messages, nil
}

// callOptionsFromFlags maps the sampling flags the user actually set.
func callOptionsFromFlags(cmd *cobra.Command) []llm.CallOption {
	var opts []llm.CallOption
	if cmd.Flags().Changed("temperature") {
		v, _ := cmd.Flags().GetFloat64("temperature")
		opts = append(opts, llm.WithTemperature(v))
	}
	if cmd.Flags().Changed("top-p") {
		v, _ := cmd.Flags().GetFloat64("top-p")
		opts = append(opts, llm.WithTopP(v))
	}
	if cmd.Flags().Changed("max-tokens") {
		v, _ := cmd.Flags().GetInt64("max-tokens")
		opts = append(opts, llm.WithMaxTokens(v))
	}
	if cmd.Flags().Changed("seed") {
		v, _ := cmd.Flags().GetInt64("seed")
		opts = append(opts, llm.WithSeed(v))
	}
	return opts
}
